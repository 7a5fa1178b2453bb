package agreement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deedchain/registry/registry"
)

func testAgreement(status registry.AgreementStatus) *registry.Agreement {
	return &registry.Agreement{
		ID:      1,
		Creator: "0xaaaa000000000000000000000000000000000001",
		Signers: []string{
			"0xaaaa000000000000000000000000000000000001",
			"0xbbbb000000000000000000000000000000000002",
			"0xcccc000000000000000000000000000000000003",
		},
		Status: status,
	}
}

func TestDeriveSignerStateSignedWins(t *testing.T) {
	assert.Equal(t, SignerPending, deriveSignerState(false, false))
	assert.Equal(t, SignerSigned, deriveSignerState(true, false))
	assert.Equal(t, SignerDenied, deriveSignerState(false, true))

	// a recorded signature is final; a stale denial flag never demotes it
	assert.Equal(t, SignerSigned, deriveSignerState(true, true))
}

func TestDisplayStatusPending(t *testing.T) {
	status := displayStatus(testAgreement(registry.AgreementPending), []*Signer{
		{Wallet: "0xaaaa000000000000000000000000000000000001", Name: "alice", State: SignerSigned},
		{Wallet: "0xbbbb000000000000000000000000000000000002", Name: "bob", State: SignerPending},
	}, "alice")
	assert.Equal(t, "Pending", status)
}

func TestDisplayStatusCompleted(t *testing.T) {
	status := displayStatus(testAgreement(registry.AgreementCompleted), []*Signer{
		{Name: "alice", State: SignerSigned},
		{Name: "bob", State: SignerSigned},
		{Name: "carol", State: SignerSigned},
	}, "alice")
	assert.Equal(t, "Completed", status)
}

func TestDisplayStatusAttributesDenialToFirstDenierInOrder(t *testing.T) {
	// carol appears after bob in the stored signer order; bob is the
	// attributed denier even though both denied
	status := displayStatus(testAgreement(registry.AgreementCanceled), []*Signer{
		{Name: "alice", State: SignerSigned},
		{Name: "bob", State: SignerDenied},
		{Name: "carol", State: SignerDenied},
	}, "alice")
	assert.Equal(t, "Denied by bob", status)
}

func TestDisplayStatusDenialTakesPrecedenceOverCancellation(t *testing.T) {
	// a canceled agreement with a recorded denial is attributed to the
	// denier, not the creator
	status := displayStatus(testAgreement(registry.AgreementCanceled), []*Signer{
		{Name: "alice", State: SignerSigned},
		{Name: "bob", State: SignerDenied},
		{Name: "carol", State: SignerPending},
	}, "alice")
	assert.Equal(t, "Denied by bob", status)
}

func TestDisplayStatusCreatorCancellation(t *testing.T) {
	status := displayStatus(testAgreement(registry.AgreementCanceled), []*Signer{
		{Name: "alice", State: SignerSigned},
		{Name: "bob", State: SignerPending},
		{Name: "carol", State: SignerPending},
	}, "alice")
	assert.Equal(t, "Canceled by alice", status)
}
