package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/overscan-labs/epgrid/internal/http/api"
	"github.com/overscan-labs/epgrid/internal/http/api/admin/packets"
	"github.com/overscan-labs/epgrid/internal/http/middleware"
)

type AuthController struct {
	secret       string
	adminEmail   string
	passwordHash string
}

// AuthPublicModule mounts the operator login endpoint. There is a single
// operator account, configured through the environment; no user table.
func AuthPublicModule(secret, adminEmail, passwordHash string) api.Module {
	ctl := &AuthController{secret: secret, adminEmail: adminEmail, passwordHash: passwordHash}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/login", ctl.login)
	})
}

// POST /api/admin/login
func (a *AuthController) login(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if a.adminEmail == "" || a.passwordHash == "" {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "admin account not configured"}
	}
	if request.Email != a.adminEmail {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(request.Password)); err != nil {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid credentials"}
	}

	token, err := middleware.GenerateJWT(request.Email, a.secret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not issue token"}
	}
	return packets.TokenResponse{Token: token}, nil
}
