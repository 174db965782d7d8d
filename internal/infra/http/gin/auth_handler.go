package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/app/auth"
	domainuser "stayfinder/internal/domain/user"
)

type AuthHandler struct {
	Service *auth.Service
	Logger  *slog.Logger
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token,omitempty"`
}

func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Service.Register(c.Request.Context(), auth.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, newAuthResponse(result.User, result.Token))
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Service.Login(c.Request.Context(), auth.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, newAuthResponse(result.User, result.Token))
}

func (h AuthHandler) CurrentUser(c *gin.Context) {
	p, ok := requireUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, authResponse{
		ID:       string(p.ID),
		Username: p.Username,
		Email:    p.Email,
		Role:     string(p.Role),
	})
}

func newAuthResponse(u *domainuser.User, token string) authResponse {
	return authResponse{
		ID:       string(u.ID),
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		Token:    token,
	}
}

var _ AuthHTTP = AuthHandler{}
