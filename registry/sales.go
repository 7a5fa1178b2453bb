package registry

import (
	"context"
	"fmt"
	"math/big"

	gethcommon "github.com/ethereum/go-ethereum/common"
)

// ProposeSale initiates an escrow sale of a property to the given buyer at
// the given wei price. The registry rejects proposals from anyone but the
// current owner, and while another sale on the property is active.
func (c *Client) ProposeSale(ctx context.Context, propertyID uint64, price *big.Int, buyer string) *Receipt {
	if price == nil || price.Sign() < 0 {
		return failedReceipt("sale price must be a non-negative wei amount")
	}

	addr, err := NormalizeAddress(buyer)
	if err != nil {
		return failedReceipt(err.Error())
	}

	action := fmt.Sprintf("sale.propose.%d", propertyID)
	return c.command(ctx, action, "proposePropertySale", nil, new(big.Int).SetUint64(propertyID), price, addr)
}

// AcceptSale records the buyer's acceptance of an initiated sale
func (c *Client) AcceptSale(ctx context.Context, propertyID uint64) *Receipt {
	action := fmt.Sprintf("sale.accept.%d", propertyID)
	return c.command(ctx, action, "buyerAcceptSale", nil, new(big.Int).SetUint64(propertyID))
}

// DeclineSale records the buyer's denial of an initiated sale; denial is
// terminal
func (c *Client) DeclineSale(ctx context.Context, propertyID uint64) *Receipt {
	action := fmt.Sprintf("sale.decline.%d", propertyID)
	return c.command(ctx, action, "buyerDeclineSale", nil, new(big.Int).SetUint64(propertyID))
}

// PaySale deposits the exact sale price into registry escrow. The registry
// rejects any other amount; the funds remain in escrow until the seller
// finalizes.
func (c *Client) PaySale(ctx context.Context, propertyID uint64, amount *big.Int) *Receipt {
	if amount == nil || amount.Sign() < 0 {
		return failedReceipt("payment must be a non-negative wei amount")
	}

	action := fmt.Sprintf("sale.pay.%d", propertyID)
	return c.command(ctx, action, "buyerPay", amount, new(big.Int).SetUint64(propertyID))
}

// CancelSale withdraws an initiated sale; only the seller may cancel, and
// only before the buyer has paid
func (c *Client) CancelSale(ctx context.Context, propertyID uint64) *Receipt {
	action := fmt.Sprintf("sale.cancel.%d", propertyID)
	return c.command(ctx, action, "sellerCancelSale", nil, new(big.Int).SetUint64(propertyID))
}

// FinalizeSale completes a paid sale, releasing escrowed funds to the seller
// and transferring ownership to the buyer
func (c *Client) FinalizeSale(ctx context.Context, propertyID uint64) *Receipt {
	action := fmt.Sprintf("sale.finalize.%d", propertyID)
	return c.command(ctx, action, "finalizeSale", nil, new(big.Int).SetUint64(propertyID))
}

// FetchSale resolves the current sale recorded for a property; nil when the
// property has never been offered for sale.
func (c *Client) FetchSale(ctx context.Context, propertyID uint64) (*Sale, error) {
	values, err := c.call(ctx, "getSaleDetails", new(big.Int).SetUint64(propertyID))
	if err != nil {
		return nil, err
	}

	sale := decodeSale(values)
	if sale.Seller == "" || sale.Seller == (gethcommon.Address{}).Hex() {
		return nil, nil
	}

	return sale, nil
}

// IncomingSales lists property ids with a sale where the given wallet is the
// buyer
func (c *Client) IncomingSales(ctx context.Context, wallet string) ([]uint64, error) {
	return c.salePropertyIDs(ctx, "getIncomingSaleRequests", wallet)
}

// OutgoingSales lists property ids with a sale where the given wallet is the
// seller
func (c *Client) OutgoingSales(ctx context.Context, wallet string) ([]uint64, error) {
	return c.salePropertyIDs(ctx, "getOutgoingSaleRequests", wallet)
}

func (c *Client) salePropertyIDs(ctx context.Context, method, wallet string) ([]uint64, error) {
	addr, err := NormalizeAddress(wallet)
	if err != nil {
		return nil, err
	}

	values, err := c.call(ctx, method, addr)
	if err != nil {
		return nil, err
	}

	raw, ok := newTuple(values).value(field{"propertyIds", 0})
	ids := make([]uint64, 0)
	if !ok {
		return ids, nil
	}

	if bigIDs, isBig := raw.([]*big.Int); isBig {
		for _, id := range bigIDs {
			ids = append(ids, id.Uint64())
		}
	}

	return ids, nil
}
