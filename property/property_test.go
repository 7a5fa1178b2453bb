package property

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deedchain/registry/identity"
	"github.com/deedchain/registry/registry"
)

const (
	testSeller    = "0x1000000000000000000000000000000000000001"
	testBuyer     = "0x2000000000000000000000000000000000000002"
	testBystander = "0x3000000000000000000000000000000000000003"
)

func testSale(status registry.SaleStatus) *registry.Sale {
	return &registry.Sale{
		PropertyID: 7,
		Seller:     testSeller,
		Buyer:      testBuyer,
		Price:      big.NewInt(1000),
		Status:     status,
	}
}

func TestAllowedActionsByRoleAndStatus(t *testing.T) {
	cases := []struct {
		status  registry.SaleStatus
		wallet  string
		actions []string
	}{
		{registry.SaleInitiated, testBuyer, []string{SaleActionAccept, SaleActionDecline}},
		{registry.SaleInitiated, testSeller, []string{SaleActionCancel}},
		{registry.SaleInitiated, testBystander, []string{}},
		{registry.SaleAccepted, testBuyer, []string{SaleActionPay}},
		{registry.SaleAccepted, testSeller, []string{}},
		{registry.SalePaid, testSeller, []string{SaleActionFinalize}},
		{registry.SalePaid, testBuyer, []string{}},
		{registry.SaleCompleted, testSeller, []string{}},
		{registry.SaleCompleted, testBuyer, []string{}},
		{registry.SaleDeniedByBuyer, testSeller, []string{}},
		{registry.SaleCancelled, testBuyer, []string{}},
	}

	for _, tc := range cases {
		actions := AllowedActions(testSale(tc.status), tc.wallet)
		assert.Equal(t, tc.actions, actions, "%s as %s", tc.status, tc.wallet)
	}
}

func TestAllowedActionsIgnoreAddressCasing(t *testing.T) {
	actions := AllowedActions(testSale(registry.SaleAccepted), "0x2000000000000000000000000000000000000002")
	assert.Equal(t, []string{SaleActionPay}, actions)

	actions = AllowedActions(testSale(registry.SaleAccepted), "0x2000000000000000000000000000000000000002")
	assert.Equal(t, actions, AllowedActions(testSale(registry.SaleAccepted), "0X2000000000000000000000000000000000000002"))
}

func TestStatusTextGuidesTheActingParty(t *testing.T) {
	assert.Equal(t, "INITIATED - Awaiting buyer response", StatusText(registry.SaleInitiated))
	assert.Equal(t, "ACCEPTED - Buyer must pay", StatusText(registry.SaleAccepted))
	assert.Equal(t, "PAID - Seller must finalize", StatusText(registry.SalePaid))
	assert.Equal(t, "DENIED_BY_BUYER", StatusText(registry.SaleDeniedByBuyer))
	assert.Equal(t, "CANCELLED", StatusText(registry.SaleCancelled))
	assert.Equal(t, "COMPLETED", StatusText(registry.SaleCompleted))
}

func TestPacketizeResolvesNamesWithFallback(t *testing.T) {
	directory := identity.Directory{
		testSeller: {Wallet: testSeller, Username: "alice", Exists: true},
	}

	packet := packetize(testSale(registry.SaleInitiated), directory, testBuyer)

	assert.Equal(t, "alice", packet.SellerName)
	assert.Equal(t, testBuyer, packet.BuyerName, "unregistered parties render as raw addresses")
	assert.Equal(t, []string{SaleActionAccept, SaleActionDecline}, packet.Actions)
	assert.Equal(t, "INITIATED - Awaiting buyer response", packet.StatusText)
}
