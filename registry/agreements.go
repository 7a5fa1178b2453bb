package registry

import (
	"context"
	"fmt"
	"math/big"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/deedchain/registry/common"
)

// CreateAgreement proposes a multi-party contract over the given document.
// The creator is implicitly the first signer; the registry stores the full
// signer list in the order supplied.
func (c *Client) CreateAgreement(ctx context.Context, cid string, signers []string) *Receipt {
	if cid == "" {
		return failedReceipt("document content identifier required")
	}
	if len(signers) == 0 {
		return failedReceipt("at least one counterparty signer required")
	}

	addrs := make([]gethcommon.Address, len(signers))
	for i, signer := range signers {
		addr, err := NormalizeAddress(signer)
		if err != nil {
			return failedReceipt(err.Error())
		}
		addrs[i] = addr
	}

	return c.command(ctx, "agreement.create", "createContract", nil, CIDDigest(cid), addrs)
}

// SignAgreement records the session wallet's signature on a pending
// agreement
func (c *Client) SignAgreement(ctx context.Context, agreementID uint64) *Receipt {
	action := fmt.Sprintf("agreement.sign.%d", agreementID)
	return c.command(ctx, action, "signContract", nil, new(big.Int).SetUint64(agreementID))
}

// DenyAgreement records the session wallet's denial, ending the agreement
func (c *Client) DenyAgreement(ctx context.Context, agreementID uint64) *Receipt {
	action := fmt.Sprintf("agreement.deny.%d", agreementID)
	return c.command(ctx, action, "denyContract", nil, new(big.Int).SetUint64(agreementID))
}

// CancelAgreement withdraws a pending agreement; creator-only
func (c *Client) CancelAgreement(ctx context.Context, agreementID uint64) *Receipt {
	action := fmt.Sprintf("agreement.cancel.%d", agreementID)
	return c.command(ctx, action, "cancelContract", nil, new(big.Int).SetUint64(agreementID))
}

// FetchAgreement resolves the full info for one agreement; unknown ids
// resolve to nil rather than an error.
func (c *Client) FetchAgreement(ctx context.Context, agreementID uint64) (*Agreement, error) {
	values, err := c.call(ctx, "retrieveContractInfo", new(big.Int).SetUint64(agreementID))
	if err != nil {
		common.Log.Debugf("failed to fetch agreement %d; %s", agreementID, err.Error())
		return nil, nil
	}

	agreement := decodeAgreement(values)
	if agreement.Creator == "" || agreement.Creator == (gethcommon.Address{}).Hex() {
		return nil, nil
	}

	return agreement, nil
}

// AgreementsByParty lists agreement ids where the given wallet is among the
// signers
func (c *Client) AgreementsByParty(ctx context.Context, wallet string) ([]uint64, error) {
	addr, err := NormalizeAddress(wallet)
	if err != nil {
		return nil, err
	}

	values, err := c.call(ctx, "getContractsWhereUserIsParty", addr)
	if err != nil {
		return nil, err
	}

	raw, ok := newTuple(values).value(field{"contractIds", 0})
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

// HasSigned reports whether the given wallet has signed the agreement
func (c *Client) HasSigned(ctx context.Context, agreementID uint64, wallet string) (bool, error) {
	return c.signerFlag(ctx, "hasUserSigned", "signed", agreementID, wallet)
}

// HasDenied reports whether the given wallet has denied the agreement
func (c *Client) HasDenied(ctx context.Context, agreementID uint64, wallet string) (bool, error) {
	return c.signerFlag(ctx, "hasUserDenied", "denied", agreementID, wallet)
}

func (c *Client) signerFlag(ctx context.Context, method, output string, agreementID uint64, wallet string) (bool, error) {
	addr, err := NormalizeAddress(wallet)
	if err != nil {
		return false, err
	}

	values, err := c.call(ctx, method, new(big.Int).SetUint64(agreementID), addr)
	if err != nil {
		return false, err
	}

	return newTuple(values).boolAt(field{output, 0}), nil
}
