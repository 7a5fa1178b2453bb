package property

import (
	"context"
	"fmt"

	"github.com/deedchain/registry/common"
	"github.com/deedchain/registry/identity"
	"github.com/deedchain/registry/registry"
)

// sale actions the API exposes; each maps to exactly one registry command
const (
	SaleActionAccept   = "accept"
	SaleActionDecline  = "decline"
	SaleActionPay      = "pay"
	SaleActionCancel   = "cancel"
	SaleActionFinalize = "finalize"
)

// StatusText renders an escrow sale status with the guidance shown to the
// party viewing it
func StatusText(status registry.SaleStatus) string {
	switch status {
	case registry.SaleInitiated:
		return "INITIATED - Awaiting buyer response"
	case registry.SaleAccepted:
		return "ACCEPTED - Buyer must pay"
	case registry.SalePaid:
		return "PAID - Seller must finalize"
	case registry.SaleDeniedByBuyer:
		return "DENIED_BY_BUYER"
	case registry.SaleCancelled:
		return "CANCELLED"
	case registry.SaleCompleted:
		return "COMPLETED"
	}
	return "UNKNOWN"
}

// AllowedActions returns the sale actions the given wallet may take in the
// sale's current status. The registry enforces the same rules on-chain; this
// is advisory, so the API can render only actionable controls.
func AllowedActions(sale *registry.Sale, wallet string) []string {
	actions := make([]string, 0)
	if sale == nil {
		return actions
	}

	buyer := common.AddressesEqual(sale.Buyer, wallet)
	seller := common.AddressesEqual(sale.Seller, wallet)

	switch sale.Status {
	case registry.SaleInitiated:
		if buyer {
			actions = append(actions, SaleActionAccept, SaleActionDecline)
		}
		if seller {
			actions = append(actions, SaleActionCancel)
		}
	case registry.SaleAccepted:
		if buyer {
			actions = append(actions, SaleActionPay)
		}
	case registry.SalePaid:
		if seller {
			actions = append(actions, SaleActionFinalize)
		}
	}

	return actions
}

// SalePacket is a sale enriched for display: resolved party names, guidance
// text, and the actions available to the viewing wallet
type SalePacket struct {
	*registry.Sale
	StatusText string   `json:"status_text"`
	SellerName string   `json:"seller_name"`
	BuyerName  string   `json:"buyer_name"`
	Actions    []string `json:"actions"`
}

// TransferRecord is one ownership transfer enriched with resolved party names
type TransferRecord struct {
	*registry.OwnershipRecord
	PreviousOwnerName string `json:"previous_owner_name"`
	NewOwnerName      string `json:"new_owner_name"`
}

// Detail is the full read model for one property: the deed, its transfer
// history, the party it was last acquired from, and any sale recorded for it
type Detail struct {
	*registry.Property
	OwnerName    string                  `json:"owner_name"`
	History      []*TransferRecord       `json:"history"`
	AcquiredFrom *registry.PreviousOwner `json:"acquired_from,omitempty"`
	Sale         *SalePacket             `json:"sale,omitempty"`
}

// Sales groups the active escrow workflows touching one wallet by role
type Sales struct {
	Incoming []*SalePacket `json:"incoming"`
	Outgoing []*SalePacket `json:"outgoing"`
}

// Mirror materializes read models for properties and sales by querying the
// registry contract and resolving party identities. It holds no state; every
// view is assembled from fresh reads.
type Mirror struct {
	client   *registry.Client
	resolver *identity.Resolver
}

// NewMirror initializes a property mirror over the given registry client and
// identity resolver
func NewMirror(client *registry.Client, resolver *identity.Resolver) *Mirror {
	return &Mirror{
		client:   client,
		resolver: resolver,
	}
}

// OwnedProperties lists the deeds currently held by the given wallet
func (m *Mirror) OwnedProperties(ctx context.Context, owner string) ([]*registry.Property, error) {
	return m.client.FetchOwnedProperties(ctx, owner)
}

// PropertyDetail assembles the full read model for one property as seen by
// the given viewer wallet; nil when no such property exists.
func (m *Mirror) PropertyDetail(ctx context.Context, propertyID uint64, viewer string) (*Detail, error) {
	prop, err := m.client.FetchProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, nil
	}

	history, err := m.client.FetchOwnershipHistory(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	acquiredFrom, err := m.client.FetchPreviousOwner(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	sale, err := m.client.FetchSale(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	wallets := []string{prop.Owner}
	for _, record := range history {
		wallets = append(wallets, record.PreviousOwner, record.NewOwner)
	}
	if sale != nil {
		wallets = append(wallets, sale.Seller, sale.Buyer)
	}

	directory, err := m.resolver.Resolve(ctx, wallets)
	if err != nil {
		return nil, err
	}

	detail := &Detail{
		Property:     prop,
		OwnerName:    directory.DisplayName(prop.Owner),
		History:      make([]*TransferRecord, 0, len(history)),
		AcquiredFrom: acquiredFrom,
	}

	for _, record := range history {
		detail.History = append(detail.History, &TransferRecord{
			OwnershipRecord:   record,
			PreviousOwnerName: directory.DisplayName(record.PreviousOwner),
			NewOwnerName:      directory.DisplayName(record.NewOwner),
		})
	}

	if sale != nil {
		detail.Sale = packetize(sale, directory, viewer)
	}

	return detail, nil
}

// SaleDetail assembles the enriched view of the sale recorded for one
// property as seen by the given viewer wallet; nil when the property has
// never been offered for sale.
func (m *Mirror) SaleDetail(ctx context.Context, propertyID uint64, viewer string) (*SalePacket, error) {
	sale, err := m.client.FetchSale(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}

	directory, err := m.resolver.Resolve(ctx, []string{sale.Seller, sale.Buyer})
	if err != nil {
		return nil, err
	}

	return packetize(sale, directory, viewer), nil
}

// ActiveSales assembles the escrow workflows still in motion for the given
// wallet, split by role. Sales in a terminal status are filtered out.
func (m *Mirror) ActiveSales(ctx context.Context, wallet string) (*Sales, error) {
	incomingIDs, err := m.client.IncomingSales(ctx, wallet)
	if err != nil {
		return nil, err
	}

	outgoingIDs, err := m.client.OutgoingSales(ctx, wallet)
	if err != nil {
		return nil, err
	}

	incoming, wallets, err := m.collectSales(ctx, incomingIDs)
	if err != nil {
		return nil, err
	}

	outgoing, outgoingWallets, err := m.collectSales(ctx, outgoingIDs)
	if err != nil {
		return nil, err
	}
	wallets = append(wallets, outgoingWallets...)

	directory, err := m.resolver.Resolve(ctx, wallets)
	if err != nil {
		return nil, err
	}

	sales := &Sales{
		Incoming: make([]*SalePacket, 0, len(incoming)),
		Outgoing: make([]*SalePacket, 0, len(outgoing)),
	}
	for _, sale := range incoming {
		sales.Incoming = append(sales.Incoming, packetize(sale, directory, wallet))
	}
	for _, sale := range outgoing {
		sales.Outgoing = append(sales.Outgoing, packetize(sale, directory, wallet))
	}

	return sales, nil
}

func (m *Mirror) collectSales(ctx context.Context, propertyIDs []uint64) ([]*registry.Sale, []string, error) {
	sales := make([]*registry.Sale, 0, len(propertyIDs))
	wallets := make([]string, 0, len(propertyIDs)*2)

	for _, id := range propertyIDs {
		sale, err := m.client.FetchSale(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch sale for property %d; %s", id, err.Error())
		}
		if sale == nil || !sale.Status.Active() {
			continue
		}
		sales = append(sales, sale)
		wallets = append(wallets, sale.Seller, sale.Buyer)
	}

	return sales, wallets, nil
}

func packetize(sale *registry.Sale, directory identity.Directory, viewer string) *SalePacket {
	return &SalePacket{
		Sale:       sale,
		StatusText: StatusText(sale.Status),
		SellerName: directory.DisplayName(sale.Seller),
		BuyerName:  directory.DisplayName(sale.Buyer),
		Actions:    AllowedActions(sale, viewer),
	}
}
