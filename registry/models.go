package registry

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/deedchain/registry/common"
)

// SaleStatus mirrors the escrow sale lifecycle enforced by the registry
// contract. The gateway never advances a status on its own; every value here
// is read back from the contract.
type SaleStatus uint8

const (
	SaleInitiated SaleStatus = iota
	SaleAccepted
	SalePaid
	SaleDeniedByBuyer
	SaleCancelled
	SaleCompleted
)

func (s SaleStatus) String() string {
	switch s {
	case SaleInitiated:
		return "INITIATED"
	case SaleAccepted:
		return "ACCEPTED"
	case SalePaid:
		return "PAID"
	case SaleDeniedByBuyer:
		return "DENIED_BY_BUYER"
	case SaleCancelled:
		return "CANCELLED"
	case SaleCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Terminal returns true once the sale can no longer advance
func (s SaleStatus) Terminal() bool {
	return s == SaleDeniedByBuyer || s == SaleCancelled || s == SaleCompleted
}

// Active returns true while the sale blocks new proposals on its property
func (s SaleStatus) Active() bool {
	return s == SaleInitiated || s == SaleAccepted || s == SalePaid
}

// AgreementStatus mirrors the aggregate multi-party contract status
type AgreementStatus uint8

const (
	AgreementPending AgreementStatus = iota
	AgreementCompleted
	AgreementCanceled
)

func (s AgreementStatus) String() string {
	switch s {
	case AgreementPending:
		return "PENDING"
	case AgreementCompleted:
		return "COMPLETED"
	case AgreementCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// User is a registered identity; username and pan are stored fixed-width
// on-chain and decoded for display
type User struct {
	Wallet   string `json:"wallet"`
	Username string `json:"username"`
	PAN      string `json:"pan"`
	Exists   bool   `json:"exists"`
}

// Property is a registered deed
type Property struct {
	ID                 uint64     `json:"id"`
	CID                string     `json:"cid"`
	Owner              string     `json:"owner"`
	RegisteredAt       *time.Time `json:"registered_at"`
	LastTransferredAt  *time.Time `json:"last_transferred_at"`
	OwnershipChangedAt *time.Time `json:"ownership_changed_at"`
	Exists             bool       `json:"exists"`
}

// OwnershipRecord is one entry of a property's append-only transfer history
type OwnershipRecord struct {
	PreviousOwner string     `json:"previous_owner"`
	NewOwner      string     `json:"new_owner"`
	TransferDate  *time.Time `json:"transfer_date"`
}

// PreviousOwner identifies the party a property was most recently acquired
// from; nil when the property has never been transferred
type PreviousOwner struct {
	Wallet       string     `json:"wallet"`
	TransferDate *time.Time `json:"transfer_date"`
}

// Sale is the escrow workflow for one property; at most one sale with an
// active status exists per property at a time
type Sale struct {
	PropertyID  uint64     `json:"property_id"`
	Seller      string     `json:"seller"`
	Buyer       string     `json:"buyer"`
	Price       *big.Int   `json:"price"`
	Status      SaleStatus `json:"status"`
	InitiatedAt *time.Time `json:"initiated_at"`
}

// Agreement is a proposed multi-party contract; the creator is implicitly
// the first signer
type Agreement struct {
	ID          uint64          `json:"id"`
	CID         string          `json:"cid"`
	Creator     string          `json:"creator"`
	Signers     []string        `json:"signers"`
	Status      AgreementStatus `json:"status"`
	SignedCount uint64          `json:"signed_count"`
}

// Party returns true when the given wallet is among the agreement signers
func (a *Agreement) Party(wallet string) bool {
	for _, signer := range a.Signers {
		if common.AddressesEqual(signer, wallet) {
			return true
		}
	}
	return false
}

func decodeUser(raw interface{}) *User {
	t := newTuple(raw)
	return &User{
		Username: DecodeBytes32String(t.bytes32(field{"username", 0})),
		PAN:      DecodeBytes32String(t.bytes32(field{"panHash", 1})),
		Wallet:   t.address(field{"wallet", 2}),
		Exists:   t.boolAt(field{"exists", 3}),
	}
}

func decodeProperty(raw interface{}) *Property {
	t := newTuple(raw)
	return &Property{
		ID:                 t.uint64At(field{"id", 0}),
		CID:                hexutil.Encode(digestBytes(t.bytes32(field{"cid", 1}))),
		Owner:              t.address(field{"owner", 2}),
		RegisteredAt:       common.UnixTimeOrNil(t.int64At(field{"registeredAt", 3})),
		LastTransferredAt:  common.UnixTimeOrNil(t.int64At(field{"dateOfLastTransfer", 4})),
		OwnershipChangedAt: common.UnixTimeOrNil(t.int64At(field{"dateOfOwnershipChange", 5})),
		Exists:             t.boolAt(field{"exists", 6}),
	}
}

func decodeOwnershipRecord(raw interface{}) *OwnershipRecord {
	t := newTuple(raw)
	return &OwnershipRecord{
		PreviousOwner: t.address(field{"previousOwner", 0}),
		NewOwner:      t.address(field{"newOwner", 1}),
		TransferDate:  common.UnixTimeOrNil(t.int64At(field{"transferDate", 2})),
	}
}

func decodeSale(raw interface{}) *Sale {
	t := newTuple(raw)
	return &Sale{
		PropertyID:  t.uint64At(field{"propertyId", 0}),
		Seller:      t.address(field{"seller", 1}),
		Buyer:       t.address(field{"buyer", 2}),
		Price:       t.bigInt(field{"price", 3}),
		Status:      SaleStatus(t.uint64At(field{"status", 4})),
		InitiatedAt: common.UnixTimeOrNil(t.int64At(field{"initiatedAt", 5})),
	}
}

func decodeAgreement(raw interface{}) *Agreement {
	t := newTuple(raw)
	return &Agreement{
		ID:          t.uint64At(field{"id", 0}),
		CID:         hexutil.Encode(digestBytes(t.bytes32(field{"cid", 1}))),
		Creator:     t.address(field{"creator", 2}),
		Signers:     t.addressList(field{"signers", 3}),
		Status:      AgreementStatus(t.uint64At(field{"status", 4})),
		SignedCount: t.uint64At(field{"signedCount", 5}),
	}
}

func digestBytes(b [32]byte) []byte {
	return b[:]
}
