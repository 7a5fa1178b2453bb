package identity

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	provide "github.com/provideplatform/provide-go/common"

	"github.com/deedchain/registry/registry"
)

var identityClient *registry.Client

// InstallIdentityAPI registers the user and contact API handlers with gin
func InstallIdentityAPI(r *gin.Engine, client *registry.Client) {
	identityClient = client

	r.GET("/api/v1/users", listUsersHandler)
	r.POST("/api/v1/users", registerUserHandler)
	r.GET("/api/v1/users/:wallet", userDetailsHandler)
	r.GET("/api/v1/users/:wallet/registered", userRegisteredHandler)

	r.GET("/api/v1/contacts", listContactsHandler)
	r.POST("/api/v1/contacts", addContactHandler)
}

func listUsersHandler(c *gin.Context) {
	users, err := identityClient.FetchAllUsers(c.Request.Context())
	if err != nil {
		provide.RenderError(err.Error(), 500, c)
		return
	}
	provide.Render(users, 200, c)
}

func registerUserHandler(c *gin.Context) {
	buf, err := c.GetRawData()
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	params := &struct {
		Username *string `json:"username"`
		PAN      *string `json:"pan"`
	}{}
	if err := json.Unmarshal(buf, params); err != nil {
		provide.RenderError(err.Error(), 422, c)
		return
	}
	if params.Username == nil || *params.Username == "" {
		provide.RenderError("username required", 422, c)
		return
	}
	if params.PAN == nil || *params.PAN == "" {
		provide.RenderError("pan required", 422, c)
		return
	}

	receipt := identityClient.RegisterUser(c.Request.Context(), *params.Username, *params.PAN)
	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}
	provide.Render(receipt, 201, c)
}

func userDetailsHandler(c *gin.Context) {
	user, err := identityClient.FetchUser(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}
	if user == nil {
		provide.RenderError("user not found", 404, c)
		return
	}
	provide.Render(user, 200, c)
}

// userRegisteredHandler reports whether a profile exists for the wallet; the
// original pages gate registration flows on this check
func userRegisteredHandler(c *gin.Context) {
	registered, err := identityClient.IsUserRegistered(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}
	provide.Render(map[string]interface{}{"registered": registered}, 200, c)
}

func listContactsHandler(c *gin.Context) {
	wallet := c.Query("wallet")
	if wallet == "" {
		session := identityClient.Session()
		if session == nil || session.Wallet == nil {
			provide.RenderError("wallet required", 400, c)
			return
		}
		wallet = *session.Wallet
	}

	contacts, err := identityClient.FetchContacts(c.Request.Context(), wallet)
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}
	provide.Render(contacts, 200, c)
}

func addContactHandler(c *gin.Context) {
	buf, err := c.GetRawData()
	if err != nil {
		provide.RenderError(err.Error(), 400, c)
		return
	}

	params := &struct {
		Wallet *string `json:"wallet"`
	}{}
	if err := json.Unmarshal(buf, params); err != nil {
		provide.RenderError(err.Error(), 422, c)
		return
	}
	if params.Wallet == nil || *params.Wallet == "" {
		provide.RenderError("contact wallet required", 422, c)
		return
	}

	receipt := identityClient.AddContact(c.Request.Context(), *params.Wallet)
	if !receipt.Success {
		provide.Render(receipt, 422, c)
		return
	}
	provide.Render(receipt, 201, c)
}
