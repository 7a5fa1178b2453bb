package agreement

import (
	"context"
	"fmt"

	"github.com/deedchain/registry/common"
	"github.com/deedchain/registry/identity"
	"github.com/deedchain/registry/registry"
)

// SignerState is one party's recorded response to an agreement
type SignerState string

const (
	SignerPending SignerState = "PENDING"
	SignerSigned  SignerState = "SIGNED"
	SignerDenied  SignerState = "DENIED"
)

// deriveSignerState collapses the per-party signed/denied flags into a single
// state; a recorded signature always wins over a denial flag
func deriveSignerState(signed, denied bool) SignerState {
	if signed {
		return SignerSigned
	}
	if denied {
		return SignerDenied
	}
	return SignerPending
}

// Signer is one agreement party with their resolved name and recorded response
type Signer struct {
	Wallet string      `json:"wallet"`
	Name   string      `json:"name"`
	State  SignerState `json:"state"`
}

// Packet is an agreement enriched for display: resolved party names, each
// signer's recorded response, the rendered aggregate status, and the actions
// available to the viewing wallet
type Packet struct {
	*registry.Agreement
	CreatorName   string    `json:"creator_name"`
	Parties       []*Signer `json:"parties"`
	DisplayStatus string    `json:"display_status"`
	CanSign       bool      `json:"can_sign"`
	CanDeny       bool      `json:"can_deny"`
	CanCancel     bool      `json:"can_cancel"`
}

// displayStatus renders the aggregate agreement status. A cancellation caused
// by a party's denial is attributed to the earliest denier in stored signer
// order, taking precedence over the creator's cancellation attribution.
func displayStatus(agreement *registry.Agreement, parties []*Signer, creatorName string) string {
	if agreement.Status == registry.AgreementPending {
		return "Pending"
	}

	for _, party := range parties {
		if party.State == SignerDenied {
			return fmt.Sprintf("Denied by %s", party.Name)
		}
	}

	if agreement.Status == registry.AgreementCompleted {
		return "Completed"
	}

	return fmt.Sprintf("Canceled by %s", creatorName)
}

// Mirror materializes agreement read models by querying the registry contract
// and resolving party identities
type Mirror struct {
	client   *registry.Client
	resolver *identity.Resolver
}

// NewMirror initializes an agreement mirror over the given registry client
// and identity resolver
func NewMirror(client *registry.Client, resolver *identity.Resolver) *Mirror {
	return &Mirror{
		client:   client,
		resolver: resolver,
	}
}

// AgreementDetail assembles the full read model for one agreement as seen by
// the given viewer wallet; nil when no such agreement exists.
func (m *Mirror) AgreementDetail(ctx context.Context, agreementID uint64, viewer string) (*Packet, error) {
	agreement, err := m.client.FetchAgreement(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if agreement == nil {
		return nil, nil
	}

	return m.packetize(ctx, agreement, viewer)
}

// AgreementsForParty lists every agreement the given wallet is a party to,
// fully enriched
func (m *Mirror) AgreementsForParty(ctx context.Context, wallet string) ([]*Packet, error) {
	ids, err := m.client.AgreementsByParty(ctx, wallet)
	if err != nil {
		return nil, err
	}

	packets := make([]*Packet, 0, len(ids))
	for _, id := range ids {
		packet, err := m.AgreementDetail(ctx, id, wallet)
		if err != nil {
			return nil, err
		}
		if packet == nil {
			continue
		}
		packets = append(packets, packet)
	}

	return packets, nil
}

// PendingForParty lists the agreements still awaiting the given wallet's
// response: pending overall, with no signature or denial recorded for the
// wallet yet
func (m *Mirror) PendingForParty(ctx context.Context, wallet string) ([]*Packet, error) {
	packets, err := m.AgreementsForParty(ctx, wallet)
	if err != nil {
		return nil, err
	}

	pending := make([]*Packet, 0, len(packets))
	for _, packet := range packets {
		if packet.Status == registry.AgreementPending && packet.CanSign {
			pending = append(pending, packet)
		}
	}

	return pending, nil
}

func (m *Mirror) packetize(ctx context.Context, agreement *registry.Agreement, viewer string) (*Packet, error) {
	wallets := append([]string{agreement.Creator}, agreement.Signers...)
	directory, err := m.resolver.Resolve(ctx, wallets)
	if err != nil {
		return nil, err
	}

	parties := make([]*Signer, 0, len(agreement.Signers))
	viewerResponded := false
	viewerIsParty := false

	for _, wallet := range agreement.Signers {
		signed, err := m.client.HasSigned(ctx, agreement.ID, wallet)
		if err != nil {
			return nil, err
		}
		denied, err := m.client.HasDenied(ctx, agreement.ID, wallet)
		if err != nil {
			return nil, err
		}

		state := deriveSignerState(signed, denied)
		parties = append(parties, &Signer{
			Wallet: wallet,
			Name:   directory.DisplayName(wallet),
			State:  state,
		})

		if common.AddressesEqual(wallet, viewer) {
			viewerIsParty = true
			viewerResponded = state != SignerPending
		}
	}

	creatorName := directory.DisplayName(agreement.Creator)
	pending := agreement.Status == registry.AgreementPending

	return &Packet{
		Agreement:     agreement,
		CreatorName:   creatorName,
		Parties:       parties,
		DisplayStatus: displayStatus(agreement, parties, creatorName),
		CanSign:       pending && viewerIsParty && !viewerResponded,
		CanDeny:       pending && viewerIsParty && !viewerResponded,
		CanCancel:     pending && common.AddressesEqual(agreement.Creator, viewer),
	}, nil
}
