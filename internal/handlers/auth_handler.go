package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"costbook/internal/auth"
	apperrors "costbook/internal/errors"
	"costbook/internal/services"
)

// AuthHandler handles the token endpoint.
type AuthHandler struct {
	userService services.UserServicer
	tokens      *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{userService: userService, tokens: tokens}
}

// TokenRequest is the form body of the login endpoint. Clients send
// form-encoded credentials, not JSON.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token handles POST /token: verifies the credentials and issues a signed,
// time-limited bearer token with the username as subject.
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	user, err := h.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		respondWithError(c, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
