package registry

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	uuid "github.com/kthomas/go.uuid"

	"github.com/deedchain/registry/common"
)

// Caller issues read-only registry calls
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Transactor submits state-changing registry transactions and awaits their
// confirmation
type Transactor interface {
	Transact(ctx context.Context, method string, value *big.Int, args ...interface{}) (*gethtypes.Transaction, error)
	WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error)
}

// Receipt is the structured result of a registry command. Commands never
// panic; callers branch on Success and surface Error verbatim.
type Receipt struct {
	Success bool       `json:"success"`
	TxHash  *string    `json:"tx_hash,omitempty"`
	Ref     *uuid.UUID `json:"ref,omitempty"`
	Error   *string    `json:"error,omitempty"`
}

// Client is the stateless function set issuing queries and commands against
// the external registry contract. It holds no mirror state of its own; every
// view model it returns is decoded from a fresh contract read.
type Client struct {
	session    *Session
	address    gethcommon.Address
	caller     Caller
	transactor Transactor
	locks      *actionLock
}

// NewClient binds a registry client to the configured contract address using
// the given session for calls and transactions.
func NewClient(session *Session) (*Client, error) {
	if common.RegistryContractAddress == "" {
		return nil, fmt.Errorf("no registry contract address configured; set REGISTRY_CONTRACT_ADDRESS")
	}

	address, err := NormalizeAddress(common.RegistryContractAddress)
	if err != nil {
		return nil, err
	}

	client := &Client{
		session: session,
		address: address,
		caller:  session.RPC,
		locks:   newActionLock(),
	}

	if !session.ReadOnly() {
		bound := bind.NewBoundContract(address, registryABI, session.RPC, session.RPC, session.RPC)
		client.transactor = &boundTransactor{
			bound:   bound,
			opts:    session.signer,
			backend: session.RPC,
		}
	}

	return client, nil
}

// NewClientWithBackend binds a client to explicit call/transact backends;
// used by tests and by embedders that bring their own transport.
func NewClientWithBackend(address gethcommon.Address, caller Caller, transactor Transactor) *Client {
	return &Client{
		address:    address,
		caller:     caller,
		transactor: transactor,
		locks:      newActionLock(),
	}
}

// Session exposes the wallet/network context the client was bound to
func (c *Client) Session() *Session {
	return c.session
}

// call packs and issues a read-only contract call, returning the positionally
// decoded outputs. Decoded values only ever reach callers through the tuple
// field adapter.
func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	input, err := registryABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s call; %s", method, err.Error())
	}

	output, err := c.caller.CallContract(ctx, ethereum.CallMsg{
		To:   &c.address,
		Data: input,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s call failed; %s", method, err.Error())
	}

	values, err := registryABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s response; %s", method, err.Error())
	}

	return values, nil
}

// command submits a state-changing transaction under the given action lock
// and blocks until the transaction is confirmed. Failures are returned as
// structured receipts; on-chain state is left untouched by the client in
// every failure mode.
func (c *Client) command(ctx context.Context, action, method string, value *big.Int, args ...interface{}) *Receipt {
	release, acquired := c.locks.acquire(action)
	if !acquired {
		return failedReceipt(fmt.Sprintf("%s is already in flight", action))
	}
	defer release()

	if c.transactor == nil {
		return failedReceipt("session is read-only; a signing key is required for commands")
	}

	tx, err := c.transactor.Transact(ctx, method, value, args...)
	if err != nil {
		common.Log.Warningf("failed to submit %s transaction; %s", method, err.Error())
		return failedReceipt(err.Error())
	}

	txHash := tx.Hash().Hex()
	common.Log.Debugf("submitted %s transaction: %s", method, txHash)

	receipt, err := c.transactor.WaitMined(ctx, tx)
	if err != nil {
		common.Log.Warningf("failed to confirm %s transaction %s; %s", method, txHash, err.Error())
		return &Receipt{
			Success: false,
			TxHash:  common.StringOrNil(txHash),
			Error:   common.StringOrNil(err.Error()),
		}
	}

	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		common.Log.Debugf("%s transaction %s reverted", method, txHash)
		return &Receipt{
			Success: false,
			TxHash:  common.StringOrNil(txHash),
			Error:   common.StringOrNil(fmt.Sprintf("%s transaction reverted", method)),
		}
	}

	ref, _ := uuid.NewV4()
	common.Log.Debugf("confirmed %s transaction %s in block %d", method, txHash, receipt.BlockNumber.Uint64())

	return &Receipt{
		Success: true,
		TxHash:  common.StringOrNil(txHash),
		Ref:     &ref,
	}
}

func failedReceipt(reason string) *Receipt {
	return &Receipt{
		Success: false,
		Error:   common.StringOrNil(reason),
	}
}

// boundTransactor adapts a bound contract + keyed transactor to the
// Transactor interface
type boundTransactor struct {
	bound   *bind.BoundContract
	opts    *bind.TransactOpts
	backend bind.DeployBackend
}

func (t *boundTransactor) Transact(ctx context.Context, method string, value *big.Int, args ...interface{}) (*gethtypes.Transaction, error) {
	opts := *t.opts
	opts.Context = ctx
	opts.Value = value
	return t.bound.Transact(&opts, method, args...)
}

func (t *boundTransactor) WaitMined(ctx context.Context, tx *gethtypes.Transaction) (*gethtypes.Receipt, error) {
	return bind.WaitMined(ctx, t.backend, tx)
}

// actionLock provides mutual exclusion keyed by action identity, not by
// resource; a second invocation of an in-flight action is refused rather
// than queued
type actionLock struct {
	mutex    sync.Mutex
	inflight map[string]struct{}
}

func newActionLock() *actionLock {
	return &actionLock{
		inflight: make(map[string]struct{}),
	}
}

func (l *actionLock) acquire(action string) (func(), bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if _, locked := l.inflight[action]; locked {
		return nil, false
	}

	l.inflight[action] = struct{}{}
	return func() {
		l.mutex.Lock()
		defer l.mutex.Unlock()
		delete(l.inflight, action)
	}, true
}
