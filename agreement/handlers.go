package agreement

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	provide "github.com/provideplatform/provide-go/common"

	"github.com/deedchain/registry/docstore"
	"github.com/deedchain/registry/registry"
)

var (
	agreementMirror *Mirror
	agreementClient *registry.Client
	documents       docstore.Provider
)

// InstallAgreementsAPI registers the multi-party contract API handlers with
// gin
func InstallAgreementsAPI(r *gin.Engine, mirror *Mirror, client *registry.Client, provider docstore.Provider) {
	agreementMirror = mirror
	agreementClient = client
	documents = provider

	r.GET("/api/v1/agreements", listAgreementsHandler)
	r.POST("/api/v1/agreements", createAgreementHandler)
	r.GET("/api/v1/agreements/:id", agreementDetailsHandler)
	r.POST("/api/v1/agreements/:id/sign", signAgreementHandler)
	r.POST("/api/v1/agreements/:id/deny", denyAgreementHandler)
	r.POST("/api/v1/agreements/:id/cancel", cancelAgreementHandler)
}

func requestWallet(c *gin.Context) *string {
	if wallet := c.Query("wallet"); wallet != "" {
		return &wallet
	}
	session := agreementClient.Session()
	if session == nil || session.Wallet == nil {
		return nil
	}
	return session.Wallet
}

func agreementIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		provide.RenderError("bad request", 400, c)
		return 0, false
	}
	return id, true
}

func listAgreementsHandler(c *gin.Context) {
	wallet := requestWallet(c)
	if wallet == nil {
		provide.RenderError("wallet required", 400, c)
		return
	}

	var packets []*Packet
	var err error
	if c.Query("pending") == "true" {
		packets, err = agreementMirror.PendingForParty(c.Request.Context(), *wallet)
	} else {
		packets, err = agreementMirror.AgreementsForParty(c.Request.Context(), *wallet)
	}
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}
	provide.Render(packets, 200, c)
}

// createAgreementHandler pins the uploaded contract document, then proposes
// the agreement on-chain to the listed counterparties
func createAgreementHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("document")
	if err != nil {
		provide.RenderError("contract document required", 422, c)
		return
	}
	defer file.Close()

	signers := make([]string, 0)
	for _, signer := range strings.Split(c.Request.FormValue("signers"), ",") {
		if signer = strings.TrimSpace(signer); signer != "" {
			signers = append(signers, signer)
		}
	}
	if len(signers) == 0 {
		provide.RenderError("at least one counterparty signer required", 422, c)
		return
	}

	cid, err := documents.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}

	receipt := agreementClient.CreateAgreement(c.Request.Context(), cid, signers)
	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}

	dispatchAgreementProposedNotification(receipt)

	provide.Render(map[string]interface{}{
		"receipt":      receipt,
		"cid":          cid,
		"document_url": documents.GatewayURL(cid),
	}, 201, c)
}

func agreementDetailsHandler(c *gin.Context) {
	agreementID, ok := agreementIDParam(c)
	if !ok {
		return
	}

	viewer := ""
	if wallet := requestWallet(c); wallet != nil {
		viewer = *wallet
	}

	packet, err := agreementMirror.AgreementDetail(c.Request.Context(), agreementID, viewer)
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}
	if packet == nil {
		provide.RenderError("agreement not found", 404, c)
		return
	}
	provide.Render(packet, 200, c)
}

func signAgreementHandler(c *gin.Context) {
	agreementID, ok := agreementIDParam(c)
	if !ok {
		return
	}

	receipt := agreementClient.SignAgreement(c.Request.Context(), agreementID)
	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}

	dispatchAgreementNotification(agreementID, natsAgreementNotificationSigned, receipt)
	provide.Render(receipt, 202, c)
}

func denyAgreementHandler(c *gin.Context) {
	agreementID, ok := agreementIDParam(c)
	if !ok {
		return
	}

	receipt := agreementClient.DenyAgreement(c.Request.Context(), agreementID)
	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}

	dispatchAgreementNotification(agreementID, natsAgreementNotificationDenied, receipt)
	provide.Render(receipt, 202, c)
}

func cancelAgreementHandler(c *gin.Context) {
	agreementID, ok := agreementIDParam(c)
	if !ok {
		return
	}

	receipt := agreementClient.CancelAgreement(c.Request.Context(), agreementID)
	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}

	dispatchAgreementNotification(agreementID, natsAgreementNotificationCancelled, receipt)
	provide.Render(receipt, 202, c)
}
