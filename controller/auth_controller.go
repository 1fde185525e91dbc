package controller

import (
	"context"
	"net/http"
	"strings"

	"telconova-dispatch/middelware"
	"telconova-dispatch/models"
	"telconova-dispatch/services"
	"telconova-dispatch/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type AuthController struct {
	ctx        context.Context
	service    services.AuthServiceInterface
	jwtManager *middelware.JWTManager
	logger     logger.Logger
	validator  *validator.Validate
}

func NewAuthController(ctx context.Context, service services.AuthServiceInterface, jwtManager *middelware.JWTManager, logger logger.Logger) *AuthController {
	return &AuthController{
		ctx:        ctx,
		service:    service,
		jwtManager: jwtManager,
		logger:     logger,
		validator:  validator.New(),
	}
}

// Login handles POST /api/v1/auth/login
// @Summary Supervisor login
// @Description Repeated failures lock the email for the lockout window
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse "Login successful"
// @Failure 400 {object} models.APIResponse "Bad Request - Missing email or password"
// @Failure 401 {object} models.APIResponse "Unauthorized - Invalid credentials"
// @Failure 423 {object} models.APIResponse "Locked - Too many failed attempts"
// @Router /auth/login [post]
func (h *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, h.logger, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := h.validator.Struct(&req); err != nil {
		respondError(c, h.logger, "Validation failed", models.NewValidationError("email", "a valid email and a password are required"), nil)
		return
	}

	result := h.service.AttemptLogin(req.Email, req.Password)
	if !result.Success {
		err := models.NewUnauthorized(result.Message)
		if result.LockedUntil != nil {
			err = models.NewLocked(result.Message)
		}
		respondError(c, h.logger, result.Message, err, result)
		return
	}

	supervisor := h.service.Supervisor()
	token, expiresAt, err := h.jwtManager.GenerateToken(supervisor)
	if err != nil {
		respondError(c, h.logger, "Token generation failed", err, nil)
		return
	}

	respondSuccess(c, http.StatusOK, result.Message, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      supervisor,
	})
}

// Logout handles POST /api/v1/auth/logout
// @Summary Logout
// @Description Revokes the bearer token
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse "Logout successful"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *AuthController) Logout(c *gin.Context) {
	value, exists := c.Get("jwt_claims")
	if !exists {
		respondError(c, h.logger, "Authentication required", models.NewUnauthorized("user not authenticated"), nil)
		return
	}
	claims := value.(*models.JWTClaims)

	if claims.ExpiresAt != nil {
		h.jwtManager.RevokeToken(claims.ID, claims.ExpiresAt.Time)
	}
	h.logger.Infof("User %s logged out", claims.UserID)
	respondSuccess(c, http.StatusOK, "Logout successful", nil)
}
