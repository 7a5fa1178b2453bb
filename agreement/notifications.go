package agreement

import (
	"encoding/json"
	"fmt"

	natsutil "github.com/kthomas/go-natsutil"
	"github.com/nats-io/nats.go"

	"github.com/deedchain/registry/common"
	"github.com/deedchain/registry/registry"
)

const natsAgreementNotificationProposed = "proposed"
const natsAgreementNotificationSigned = "signed"
const natsAgreementNotificationDenied = "denied"
const natsAgreementNotificationCancelled = "cancelled"

func agreementNotificationSubject(agreementID uint64, event string) string {
	return fmt.Sprintf("deedregistry.agreement.notification.%d.%s", agreementID, event)
}

// proposals broadcast on an un-keyed subject; the assigned contract id is
// minted on-chain and is not part of the command receipt
func agreementProposedNotificationSubject() string {
	return fmt.Sprintf("deedregistry.agreement.notification.%s", natsAgreementNotificationProposed)
}

// dispatchAgreementNotification broadcasts a confirmed agreement transition
// to subscribed parties; dispatch is best-effort and never blocks the command
// result
func dispatchAgreementNotification(agreementID uint64, event string, receipt *registry.Receipt) (*nats.PubAck, error) {
	return dispatchNotification(agreementNotificationSubject(agreementID, event), receipt)
}

// dispatchAgreementProposedNotification broadcasts a confirmed agreement
// proposal
func dispatchAgreementProposedNotification(receipt *registry.Receipt) (*nats.PubAck, error) {
	return dispatchNotification(agreementProposedNotificationSubject(), receipt)
}

func dispatchNotification(subject string, receipt *registry.Receipt) (*nats.PubAck, error) {
	if !common.DispatchNotifications {
		return nil, nil
	}
	if receipt == nil || !receipt.Success {
		return nil, nil
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"tx_hash": receipt.TxHash,
		"ref":     receipt.Ref,
	})

	ack, err := natsutil.NatsJetstreamPublish(subject, payload)
	if err != nil {
		common.Log.Warningf("failed to dispatch %s notification; %s", subject, err.Error())
		return nil, err
	}

	return ack, nil
}
