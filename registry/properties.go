package registry

import (
	"context"
	"fmt"
	"math/big"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/deedchain/registry/common"
)

// RegisterProperty registers a new deed owned by the session wallet. The
// document identifier is digested to its fixed-width form before it is
// written to the registry.
func (c *Client) RegisterProperty(ctx context.Context, cid string) *Receipt {
	if cid == "" {
		return failedReceipt("document content identifier required")
	}

	return c.command(ctx, "property.register", "registerProperty", nil, CIDDigest(cid))
}

// FetchOwnedProperties lists the properties currently owned by the given
// wallet, timestamps included
func (c *Client) FetchOwnedProperties(ctx context.Context, owner string) ([]*Property, error) {
	addr, err := NormalizeAddress(owner)
	if err != nil {
		return nil, err
	}

	values, err := c.call(ctx, "retrieveUserProperties", addr)
	if err != nil {
		return nil, err
	}

	raw, ok := newTuple(values).value(field{"properties", 0})
	properties := make([]*Property, 0)
	if !ok {
		return properties, nil
	}

	for _, element := range tupleElements(raw) {
		properties = append(properties, decodeProperty(element))
	}

	return properties, nil
}

// FetchProperty resolves the full info for one property; unknown ids resolve
// to nil rather than an error.
func (c *Client) FetchProperty(ctx context.Context, propertyID uint64) (*Property, error) {
	values, err := c.call(ctx, "retrievePropertyInfo", new(big.Int).SetUint64(propertyID))
	if err != nil {
		common.Log.Debugf("failed to fetch property %d; %s", propertyID, err.Error())
		return nil, nil
	}

	property := decodeProperty(values)
	if !property.Exists {
		return nil, nil
	}

	return property, nil
}

// TransferOwnership directly reassigns a property to a new owner, bypassing
// the escrow workflow. Only the current owner may invoke it; the client does
// not gate it on sale status, so callers must ensure no conflicting active
// sale exists.
func (c *Client) TransferOwnership(ctx context.Context, propertyID uint64, newOwner string) *Receipt {
	addr, err := NormalizeAddress(newOwner)
	if err != nil {
		return failedReceipt(err.Error())
	}

	action := fmt.Sprintf("property.transfer.%d", propertyID)
	return c.command(ctx, action, "transferOwnership", nil, new(big.Int).SetUint64(propertyID), addr)
}

// FetchOwnershipHistory lists the append-only transfer records for a
// property, ordered by transfer time
func (c *Client) FetchOwnershipHistory(ctx context.Context, propertyID uint64) ([]*OwnershipRecord, error) {
	values, err := c.call(ctx, "getPropertyOwnershipHistory", new(big.Int).SetUint64(propertyID))
	if err != nil {
		return nil, err
	}

	raw, ok := newTuple(values).value(field{"history", 0})
	history := make([]*OwnershipRecord, 0)
	if !ok {
		return history, nil
	}

	for _, element := range tupleElements(raw) {
		history = append(history, decodeOwnershipRecord(element))
	}

	return history, nil
}

// FetchPreviousOwner resolves the party the property was most recently
// acquired from; nil when the property has never changed hands.
func (c *Client) FetchPreviousOwner(ctx context.Context, propertyID uint64) (*PreviousOwner, error) {
	values, err := c.call(ctx, "getPreviousOwner", new(big.Int).SetUint64(propertyID))
	if err != nil {
		return nil, err
	}

	t := newTuple(values)
	wallet := t.address(field{"previousOwner", 0})
	if wallet == "" || wallet == (gethcommon.Address{}).Hex() {
		return nil, nil
	}

	return &PreviousOwner{
		Wallet:       wallet,
		TransferDate: common.UnixTimeOrNil(t.int64At(field{"transferDate", 1})),
	}, nil
}
