package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/apprende-client/internal/domain/account"
	"github.com/yungbote/apprende-client/internal/http/response"
	"github.com/yungbote/apprende-client/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req account.Registration
	if !bindJSON(c, &req) {
		return
	}
	user, err := ah.authService.Register(requestDB(c), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, user)
}

// Login takes the OAuth2 password form: username carries the email.
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `form:"username" binding:"required"`
		Password string `form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "invalid_request", err)
		return
	}
	tok, err := ah.authService.Login(requestDB(c), req.Username, req.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, tok)
}
