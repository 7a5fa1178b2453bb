package registry

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// fakeRegistry is an in-memory stand-in for the external registry contract.
// It enforces the same transition and access rules the real contract does so
// client tests can observe both accepted and rejected commands. Calls decode
// the packed input with the real ABI and pack real output bytes, so the full
// encode/decode path is exercised.
type fakeRegistry struct {
	mutex sync.Mutex

	// the wallet attributed as msg.sender for transactions
	sender gethcommon.Address

	now int64

	users        map[gethcommon.Address]*userTuple
	userIndex    []gethcommon.Address
	contacts     map[gethcommon.Address][]gethcommon.Address
	properties   map[uint64]*propertyTuple
	history      map[uint64][]recordTuple
	sales        map[uint64]*saleTuple
	agreements   map[uint64]*agreementTuple
	signed       map[uint64]map[gethcommon.Address]bool
	denied       map[uint64]map[gethcommon.Address]bool
	nextProperty uint64
	nextContract uint64
	nonce        uint64
}

type userTuple struct {
	Username [32]byte
	PanHash  [32]byte
	Wallet   gethcommon.Address
	Exists   bool
}

type propertyTuple struct {
	Id                    *big.Int
	Cid                   [32]byte
	Owner                 gethcommon.Address
	RegisteredAt          *big.Int
	DateOfLastTransfer    *big.Int
	DateOfOwnershipChange *big.Int
	Exists                bool
}

type recordTuple struct {
	PreviousOwner gethcommon.Address
	NewOwner      gethcommon.Address
	TransferDate  *big.Int
}

type saleTuple struct {
	propertyID  uint64
	seller      gethcommon.Address
	buyer       gethcommon.Address
	price       *big.Int
	status      uint8
	initiatedAt int64
}

type agreementTuple struct {
	id          uint64
	cid         [32]byte
	creator     gethcommon.Address
	signers     []gethcommon.Address
	status      uint8
	signedCount uint64
}

func newFakeRegistry(sender gethcommon.Address) *fakeRegistry {
	return &fakeRegistry{
		sender:       sender,
		now:          1700000000,
		users:        make(map[gethcommon.Address]*userTuple),
		contacts:     make(map[gethcommon.Address][]gethcommon.Address),
		properties:   make(map[uint64]*propertyTuple),
		history:      make(map[uint64][]recordTuple),
		sales:        make(map[uint64]*saleTuple),
		agreements:   make(map[uint64]*agreementTuple),
		signed:       make(map[uint64]map[gethcommon.Address]bool),
		denied:       make(map[uint64]map[gethcommon.Address]bool),
		nextProperty: 1,
		nextContract: 1,
	}
}

func (f *fakeRegistry) tick() *big.Int {
	f.now++
	return big.NewInt(f.now)
}

// CallContract decodes the packed call, evaluates it against in-memory
// state, and returns packed output bytes.
func (f *fakeRegistry) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	method, err := registryABI.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}

	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "isUserRegistered":
		_, exists := f.users[args[0].(gethcommon.Address)]
		return method.Outputs.Pack(exists)
	case "fetchUserDetail":
		user := f.users[args[0].(gethcommon.Address)]
		if user == nil {
			user = &userTuple{}
		}
		return method.Outputs.Pack(user.Username, user.PanHash, user.Wallet, user.Exists)
	case "fetchAllUsers":
		users := make([]userTuple, 0, len(f.userIndex))
		for _, wallet := range f.userIndex {
			users = append(users, *f.users[wallet])
		}
		return method.Outputs.Pack(users)
	case "fetchMyContacts":
		contacts := make([]userTuple, 0)
		for _, wallet := range f.contacts[args[0].(gethcommon.Address)] {
			if user := f.users[wallet]; user != nil {
				contacts = append(contacts, *user)
			}
		}
		return method.Outputs.Pack(contacts)
	case "retrieveUserProperties":
		owner := args[0].(gethcommon.Address)
		properties := make([]propertyTuple, 0)
		for id := uint64(1); id < f.nextProperty; id++ {
			if property := f.properties[id]; property != nil && property.Owner == owner {
				properties = append(properties, *property)
			}
		}
		return method.Outputs.Pack(properties)
	case "retrievePropertyInfo":
		property := f.properties[args[0].(*big.Int).Uint64()]
		if property == nil {
			property = &propertyTuple{Id: new(big.Int), RegisteredAt: new(big.Int), DateOfLastTransfer: new(big.Int), DateOfOwnershipChange: new(big.Int)}
		}
		return method.Outputs.Pack(property.Id, property.Cid, property.Owner, property.RegisteredAt, property.DateOfLastTransfer, property.DateOfOwnershipChange, property.Exists)
	case "getPropertyOwnershipHistory":
		return method.Outputs.Pack(append([]recordTuple{}, f.history[args[0].(*big.Int).Uint64()]...))
	case "getPreviousOwner":
		records := f.history[args[0].(*big.Int).Uint64()]
		if len(records) == 0 {
			return method.Outputs.Pack(gethcommon.Address{}, new(big.Int))
		}
		last := records[len(records)-1]
		return method.Outputs.Pack(last.PreviousOwner, last.TransferDate)
	case "getSaleDetails":
		sale := f.sales[args[0].(*big.Int).Uint64()]
		if sale == nil {
			return method.Outputs.Pack(new(big.Int), gethcommon.Address{}, gethcommon.Address{}, new(big.Int), uint8(0), new(big.Int))
		}
		return method.Outputs.Pack(new(big.Int).SetUint64(sale.propertyID), sale.seller, sale.buyer, sale.price, sale.status, big.NewInt(sale.initiatedAt))
	case "getIncomingSaleRequests", "getOutgoingSaleRequests":
		wallet := args[0].(gethcommon.Address)
		ids := make([]*big.Int, 0)
		for id := uint64(1); id < f.nextProperty; id++ {
			sale := f.sales[id]
			if sale == nil {
				continue
			}
			if method.Name == "getIncomingSaleRequests" && sale.buyer == wallet {
				ids = append(ids, new(big.Int).SetUint64(id))
			}
			if method.Name == "getOutgoingSaleRequests" && sale.seller == wallet {
				ids = append(ids, new(big.Int).SetUint64(id))
			}
		}
		return method.Outputs.Pack(ids)
	case "retrieveContractInfo":
		agreement := f.agreements[args[0].(*big.Int).Uint64()]
		if agreement == nil {
			return method.Outputs.Pack(new(big.Int), [32]byte{}, gethcommon.Address{}, []gethcommon.Address{}, uint8(0), new(big.Int))
		}
		return method.Outputs.Pack(new(big.Int).SetUint64(agreement.id), agreement.cid, agreement.creator, agreement.signers, agreement.status, new(big.Int).SetUint64(agreement.signedCount))
	case "getContractsWhereUserIsParty":
		wallet := args[0].(gethcommon.Address)
		ids := make([]*big.Int, 0)
		for id := uint64(1); id < f.nextContract; id++ {
			agreement := f.agreements[id]
			if agreement == nil {
				continue
			}
			for _, signer := range agreement.signers {
				if signer == wallet {
					ids = append(ids, new(big.Int).SetUint64(id))
					break
				}
			}
		}
		return method.Outputs.Pack(ids)
	case "hasUserSigned":
		return method.Outputs.Pack(f.signed[args[0].(*big.Int).Uint64()][args[1].(gethcommon.Address)])
	case "hasUserDenied":
		return method.Outputs.Pack(f.denied[args[0].(*big.Int).Uint64()][args[1].(gethcommon.Address)])
	}

	return nil, fmt.Errorf("unsupported call: %s", method.Name)
}

// Transact applies a state-changing operation under the contract's rules,
// returning an error when the contract would revert at submission.
func (f *fakeRegistry) Transact(_ context.Context, method string, value *big.Int, args ...interface{}) (*gethtypes.Transaction, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if err := f.apply(method, value, args); err != nil {
		return nil, err
	}

	f.nonce++
	to := gethcommon.HexToAddress("0x00000000000000000000000000000000000000fe")
	return gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    f.nonce,
		To:       &to,
		Gas:      21000,
		GasPrice: big.NewInt(1),
	}), nil
}

func (f *fakeRegistry) WaitMined(_ context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	return &gethtypes.Receipt{
		Status:      gethtypes.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(int64(f.nonce)),
	}, nil
}

func (f *fakeRegistry) apply(method string, value *big.Int, args []interface{}) error {
	switch method {
	case "registerUser":
		if _, exists := f.users[f.sender]; exists {
			return fmt.Errorf("user already registered")
		}
		f.users[f.sender] = &userTuple{
			Username: args[0].([32]byte),
			PanHash:  args[1].([32]byte),
			Wallet:   f.sender,
			Exists:   true,
		}
		f.userIndex = append(f.userIndex, f.sender)
	case "addToMyContacts":
		f.contacts[f.sender] = append(f.contacts[f.sender], args[0].(gethcommon.Address))
	case "registerProperty":
		id := f.nextProperty
		f.nextProperty++
		now := f.tick()
		f.properties[id] = &propertyTuple{
			Id:                    new(big.Int).SetUint64(id),
			Cid:                   args[0].([32]byte),
			Owner:                 f.sender,
			RegisteredAt:          now,
			DateOfLastTransfer:    new(big.Int),
			DateOfOwnershipChange: new(big.Int),
			Exists:                true,
		}
	case "transferOwnership":
		property := f.properties[args[0].(*big.Int).Uint64()]
		if property == nil || property.Owner != f.sender {
			return fmt.Errorf("only the current owner may transfer")
		}
		f.recordTransfer(property, args[1].(gethcommon.Address))
	case "proposePropertySale":
		id := args[0].(*big.Int).Uint64()
		property := f.properties[id]
		if property == nil || property.Owner != f.sender {
			return fmt.Errorf("only the current owner may propose a sale")
		}
		if sale := f.sales[id]; sale != nil && sale.status <= 2 {
			return fmt.Errorf("an active sale already exists for property %d", id)
		}
		f.sales[id] = &saleTuple{
			propertyID:  id,
			seller:      f.sender,
			buyer:       args[2].(gethcommon.Address),
			price:       new(big.Int).Set(args[1].(*big.Int)),
			status:      uint8(SaleInitiated),
			initiatedAt: f.now,
		}
	case "buyerAcceptSale":
		return f.advanceSale(args, SaleInitiated, SaleAccepted, "buyer", nil)
	case "buyerDeclineSale":
		return f.advanceSale(args, SaleInitiated, SaleDeniedByBuyer, "buyer", nil)
	case "buyerPay":
		return f.advanceSale(args, SaleAccepted, SalePaid, "buyer", value)
	case "sellerCancelSale":
		return f.advanceSale(args, SaleInitiated, SaleCancelled, "seller", nil)
	case "finalizeSale":
		if err := f.advanceSale(args, SalePaid, SaleCompleted, "seller", nil); err != nil {
			return err
		}
		sale := f.sales[args[0].(*big.Int).Uint64()]
		f.recordTransfer(f.properties[sale.propertyID], sale.buyer)
	case "createContract":
		id := f.nextContract
		f.nextContract++
		signers := append([]gethcommon.Address{f.sender}, args[1].([]gethcommon.Address)...)
		f.agreements[id] = &agreementTuple{
			id:          id,
			cid:         args[0].([32]byte),
			creator:     f.sender,
			signers:     signers,
			status:      uint8(AgreementPending),
			signedCount: 1,
		}
		f.signed[id] = map[gethcommon.Address]bool{f.sender: true}
		f.denied[id] = map[gethcommon.Address]bool{}
	case "signContract":
		agreement, err := f.pendingAgreementParty(args)
		if err != nil {
			return err
		}
		f.signed[agreement.id][f.sender] = true
		agreement.signedCount++
		if agreement.signedCount == uint64(len(agreement.signers)) {
			agreement.status = uint8(AgreementCompleted)
		}
	case "denyContract":
		agreement, err := f.pendingAgreementParty(args)
		if err != nil {
			return err
		}
		f.denied[agreement.id][f.sender] = true
		agreement.status = uint8(AgreementCanceled)
	case "cancelContract":
		agreement := f.agreements[args[0].(*big.Int).Uint64()]
		if agreement == nil || agreement.creator != f.sender {
			return fmt.Errorf("only the creator may cancel")
		}
		if agreement.status != uint8(AgreementPending) {
			return fmt.Errorf("contract is no longer pending")
		}
		agreement.status = uint8(AgreementCanceled)
	default:
		return fmt.Errorf("unsupported transaction: %s", method)
	}

	return nil
}

func (f *fakeRegistry) recordTransfer(property *propertyTuple, newOwner gethcommon.Address) {
	now := f.tick()
	f.history[property.Id.Uint64()] = append(f.history[property.Id.Uint64()], recordTuple{
		PreviousOwner: property.Owner,
		NewOwner:      newOwner,
		TransferDate:  now,
	})
	property.Owner = newOwner
	property.DateOfLastTransfer = now
	property.DateOfOwnershipChange = now
}

func (f *fakeRegistry) advanceSale(args []interface{}, from, to SaleStatus, role string, payment *big.Int) error {
	sale := f.sales[args[0].(*big.Int).Uint64()]
	if sale == nil {
		return fmt.Errorf("no sale exists")
	}
	actor := sale.buyer
	if role == "seller" {
		actor = sale.seller
	}
	if actor != f.sender {
		return fmt.Errorf("only the %s may perform this action", role)
	}
	if sale.status != uint8(from) {
		return fmt.Errorf("sale is %s, not %s", SaleStatus(sale.status), from)
	}
	if strings.EqualFold(role, "buyer") && to == SalePaid {
		if payment == nil || payment.Cmp(sale.price) != 0 {
			return fmt.Errorf("payment must match the sale price exactly")
		}
	}
	sale.status = uint8(to)
	return nil
}

func (f *fakeRegistry) pendingAgreementParty(args []interface{}) (*agreementTuple, error) {
	agreement := f.agreements[args[0].(*big.Int).Uint64()]
	if agreement == nil {
		return nil, fmt.Errorf("no contract exists")
	}
	if agreement.status != uint8(AgreementPending) {
		return nil, fmt.Errorf("contract is no longer pending")
	}
	party := false
	for _, signer := range agreement.signers {
		if signer == f.sender {
			party = true
			break
		}
	}
	if !party {
		return nil, fmt.Errorf("wallet is not a party to this contract")
	}
	if f.signed[agreement.id][f.sender] || f.denied[agreement.id][f.sender] {
		return nil, fmt.Errorf("wallet has already responded")
	}
	return agreement, nil
}
