package property

import (
	"encoding/json"
	"fmt"

	natsutil "github.com/kthomas/go-natsutil"
	"github.com/nats-io/nats.go"

	"github.com/deedchain/registry/common"
	"github.com/deedchain/registry/registry"
)

const natsPropertyNotificationRegistered = "registered"
const natsPropertyNotificationTransferred = "transferred"

const natsSaleNotificationProposed = "proposed"
const natsSaleNotificationAccepted = "accepted"
const natsSaleNotificationDeclined = "declined"
const natsSaleNotificationPaid = "paid"
const natsSaleNotificationCancelled = "cancelled"
const natsSaleNotificationCompleted = "completed"

func propertyNotificationSubject(propertyID uint64, event string) string {
	return fmt.Sprintf("deedregistry.property.notification.%d.%s", propertyID, event)
}

// registrations broadcast on an un-keyed subject; the assigned property id is
// minted on-chain and is not part of the command receipt
func propertyRegisteredNotificationSubject() string {
	return fmt.Sprintf("deedregistry.property.notification.%s", natsPropertyNotificationRegistered)
}

func saleNotificationSubject(propertyID uint64, event string) string {
	return fmt.Sprintf("deedregistry.sale.notification.%d.%s", propertyID, event)
}

// dispatchPropertyNotification broadcasts a confirmed property event to
// subscribed parties; dispatch is best-effort and never blocks the command
// result
func dispatchPropertyNotification(propertyID uint64, event string, receipt *registry.Receipt) (*nats.PubAck, error) {
	return dispatchNotification(propertyNotificationSubject(propertyID, event), receipt)
}

// dispatchPropertyRegisteredNotification broadcasts a confirmed deed
// registration
func dispatchPropertyRegisteredNotification(receipt *registry.Receipt) (*nats.PubAck, error) {
	return dispatchNotification(propertyRegisteredNotificationSubject(), receipt)
}

// dispatchSaleNotification broadcasts a confirmed sale transition
func dispatchSaleNotification(propertyID uint64, event string, receipt *registry.Receipt) (*nats.PubAck, error) {
	return dispatchNotification(saleNotificationSubject(propertyID, event), receipt)
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
