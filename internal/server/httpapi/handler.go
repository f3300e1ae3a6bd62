package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/validation"
	"github.com/gin-gonic/gin"
)

// User-facing messages.
const (
	msgInvalidBody        = "Invalid request body"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
	msgMissingToken       = "Missing token"
	msgInternal           = "Internal error"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issuedAt"`
}

type handler struct {
	svc    AuthService
	logger logging.Logger
}

func msgBody(msg string) gin.H {
	return gin.H{"msg": msg}
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, msgBody(msgInvalidBody))
		return
	}

	if err := h.svc.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{})
}

func (h *handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, msgBody(msgInvalidBody))
		return
	}

	token, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (h *handler) me(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
	if !ok {
		c.JSON(http.StatusUnauthorized, msgBody(msgMissingToken))
		return
	}

	id, err := h.svc.VerifyToken(c.Request.Context(), token)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, meResponse{Username: id.Username, IssuedAt: id.IssuedAt})
}

func bearerToken(header string) (string, bool) {
	if len(header) < len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

// writeError maps service errors onto status codes. Internal failures are
// logged and answered with a generic message.
func (h *handler) writeError(c *gin.Context, err error) {
	if reason, ok := validation.Reason(err); ok {
		c.JSON(http.StatusBadRequest, msgBody(reason))
		return
	}

	switch {
	case errors.Is(err, common.ErrDuplicateUsername):
		c.JSON(http.StatusConflict, msgBody(msgUserExists))
	case errors.Is(err, common.ErrAuthenticationFailed):
		c.JSON(http.StatusUnauthorized, msgBody(msgInvalidCredentials))
	case errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, msgBody(msgInvalidToken))
	default:
		h.logger.Error(c.Request.Context(), "request failed",
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, msgBody(msgInternal))
	}
}
