package property

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/gin-gonic/gin"
	provide "github.com/provideplatform/provide-go/common"

	"github.com/deedchain/registry/common"
	"github.com/deedchain/registry/docstore"
	"github.com/deedchain/registry/registry"
)

var (
	propertyMirror *Mirror
	propertyClient *registry.Client
	documents      docstore.Provider
)

// InstallPropertiesAPI registers the property and sale API handlers with gin
func InstallPropertiesAPI(r *gin.Engine, mirror *Mirror, client *registry.Client, provider docstore.Provider) {
	propertyMirror = mirror
	propertyClient = client
	documents = provider

	r.GET("/api/v1/properties", listPropertiesHandler)
	r.POST("/api/v1/properties", registerPropertyHandler)
	r.GET("/api/v1/properties/:id", propertyDetailsHandler)
	r.GET("/api/v1/properties/:id/history", propertyHistoryHandler)
	r.GET("/api/v1/properties/:id/previous-owner", previousOwnerHandler)
	r.POST("/api/v1/properties/:id/transfer", transferOwnershipHandler)

	r.GET("/api/v1/sales", listSalesHandler)
	r.GET("/api/v1/properties/:id/sale", saleDetailsHandler)
	r.POST("/api/v1/properties/:id/sale", proposeSaleHandler)
	r.POST("/api/v1/properties/:id/sale/:action", saleActionHandler)
}

func requestWallet(c *gin.Context) *string {
	if wallet := c.Query("wallet"); wallet != "" {
		return &wallet
	}
	session := propertyClient.Session()
	if session == nil || session.Wallet == nil {
		return nil
	}
	return session.Wallet
}

func propertyIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		provide.RenderError("bad request", 400, c)
		return 0, false
	}
	return id, true
}

func listPropertiesHandler(c *gin.Context) {
	wallet := requestWallet(c)
	if wallet == nil {
		provide.RenderError("wallet required", 400, c)
		return
	}

	properties, err := propertyMirror.OwnedProperties(c.Request.Context(), *wallet)
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}
	provide.Render(properties, 200, c)
}

// registerPropertyHandler pins the uploaded deed document, then registers the
// deed on-chain under its content identifier digest
func registerPropertyHandler(c *gin.Context) {
	file, header, err := c.Request.FormFile("document")
	if err != nil {
		provide.RenderError("deed document required", 422, c)
		return
	}
	defer file.Close()

	cid, err := documents.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}

	receipt := propertyClient.RegisterProperty(c.Request.Context(), cid)
	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}

	dispatchPropertyRegisteredNotification(receipt)

	provide.Render(map[string]interface{}{
		"receipt":      receipt,
		"cid":          cid,
		"document_url": documents.GatewayURL(cid),
	}, 201, c)
}

func propertyDetailsHandler(c *gin.Context) {
	propertyID, ok := propertyIDParam(c)
	if !ok {
		return
	}

	viewer := ""
	if wallet := requestWallet(c); wallet != nil {
		viewer = *wallet
	}

	detail, err := propertyMirror.PropertyDetail(c.Request.Context(), propertyID, viewer)
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}
	if detail == nil {
		provide.RenderError("property not found", 404, c)
		return
	}
	provide.Render(detail, 200, c)
}

func propertyHistoryHandler(c *gin.Context) {
	propertyID, ok := propertyIDParam(c)
	if !ok {
		return
	}

	history, err := propertyClient.FetchOwnershipHistory(c.Request.Context(), propertyID)
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}
	provide.Render(history, 200, c)
}

func previousOwnerHandler(c *gin.Context) {
	propertyID, ok := propertyIDParam(c)
	if !ok {
		return
	}

	previous, err := propertyClient.FetchPreviousOwner(c.Request.Context(), propertyID)
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}
	if previous == nil {
		provide.RenderError("property has never been transferred", 404, c)
		return
	}
	provide.Render(previous, 200, c)
}

func saleDetailsHandler(c *gin.Context) {
	propertyID, ok := propertyIDParam(c)
	if !ok {
		return
	}

	viewer := ""
	if wallet := requestWallet(c); wallet != nil {
		viewer = *wallet
	}

	packet, err := propertyMirror.SaleDetail(c.Request.Context(), propertyID, viewer)
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}
	if packet == nil {
		provide.RenderError("sale not found", 404, c)
		return
	}
	provide.Render(packet, 200, c)
}

func transferOwnershipHandler(c *gin.Context) {
	propertyID, ok := propertyIDParam(c)
	if !ok {
		return
	}

	buf, err := c.GetRawData()
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	params := &struct {
		NewOwner *string `json:"new_owner"`
	}{}
	if err := json.Unmarshal(buf, params); err != nil {
		provide.RenderError(err.Error(), 422, c)
		return
	}
	if params.NewOwner == nil || *params.NewOwner == "" {
		provide.RenderError("new owner wallet required", 422, c)
		return
	}

	receipt := propertyClient.TransferOwnership(c.Request.Context(), propertyID, *params.NewOwner)
	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}

	dispatchPropertyNotification(propertyID, natsPropertyNotificationTransferred, receipt)
	provide.Render(receipt, 202, c)
}

func listSalesHandler(c *gin.Context) {
	wallet := requestWallet(c)
	if wallet == nil {
		provide.RenderError("wallet required", 400, c)
		return
	}

	sales, err := propertyMirror.ActiveSales(c.Request.Context(), *wallet)
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}
	provide.Render(sales, 200, c)
}

func proposeSaleHandler(c *gin.Context) {
	propertyID, ok := propertyIDParam(c)
	if !ok {
		return
	}

	buf, err := c.GetRawData()
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	params := &struct {
		Buyer *string `json:"buyer"`
		Price *string `json:"price"`
	}{}
	if err := json.Unmarshal(buf, params); err != nil {
		provide.RenderError(err.Error(), 422, c)
		return
	}
	if params.Buyer == nil || *params.Buyer == "" {
		provide.RenderError("buyer wallet required", 422, c)
		return
	}
	if params.Price == nil {
		provide.RenderError("sale price required", 422, c)
		return
	}

	price, priceOk := new(big.Int).SetString(*params.Price, 10)
	if !priceOk {
		provide.RenderError("sale price must be a base-10 wei amount", 422, c)
		return
	}

	receipt := propertyClient.ProposeSale(c.Request.Context(), propertyID, price, *params.Buyer)
	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}

	dispatchSaleNotification(propertyID, natsSaleNotificationProposed, receipt)
	provide.Render(receipt, 202, c)
}

// saleActionHandler advances an escrow sale through one transition; payment
// amount is read back from the sale itself so the buyer can never under- or
// over-pay
func saleActionHandler(c *gin.Context) {
	propertyID, ok := propertyIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	var receipt *registry.Receipt
	var event string

	switch c.Param("action") {
	case SaleActionAccept:
		receipt = propertyClient.AcceptSale(ctx, propertyID)
		event = natsSaleNotificationAccepted
	case SaleActionDecline:
		receipt = propertyClient.DeclineSale(ctx, propertyID)
		event = natsSaleNotificationDeclined
	case SaleActionCancel:
		receipt = propertyClient.CancelSale(ctx, propertyID)
		event = natsSaleNotificationCancelled
	case SaleActionFinalize:
		receipt = propertyClient.FinalizeSale(ctx, propertyID)
		event = natsSaleNotificationCompleted
	case SaleActionPay:
		sale, err := propertyClient.FetchSale(ctx, propertyID)
		if err != nil {
			provide.RenderError(err.Error(), 500, c)
			return
		}
		if sale == nil {
			provide.RenderError("sale not found", 404, c)
			return
		}
		receipt = propertyClient.PaySale(ctx, propertyID, sale.Price)
		event = natsSaleNotificationPaid
	default:
		provide.RenderError("unsupported sale action", 400, c)
		return
	}

	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}

	if _, err := dispatchSaleNotification(propertyID, event, receipt); err != nil {
		common.Log.Debugf("sale %s notification dispatch failed for property %d", event, propertyID)
	}

	provide.Render(receipt, 202, c)
}
