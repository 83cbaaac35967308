package handlers

import (
	"net/http"

	"github.com/RamizjonSheraliyev/Auths-Advances/internal/config"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/http/middleware"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/services"
	"github.com/RamizjonSheraliyev/Auths-Advances/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *services.AuthService
	cfg  *config.Config
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func NewAuthHandler(auth *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("All fields are required"))
		return
	}

	user, sessionToken, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.setSessionCookie(c, sessionToken)
	utils.RespondCreated(c, "User created successfully", user)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("All fields are required"))
		return
	}

	user, err := h.auth.VerifyEmail(c.Request.Context(), req.Code)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, "Email verified successfully", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("All fields are required"))
		return
	}

	user, sessionToken, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.setSessionCookie(c, sessionToken)
	utils.RespondOK(c, "Logged in successfully", user)
}

// Logout only clears the cookie; the token is stateless so there is
// nothing server-side to revoke.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	utils.RespondOK(c, "Logged out successfully", nil)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("All fields are required"))
		return
	}

	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, "Password reset link sent to your email", nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError("All fields are required"))
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, "Password reset successful", nil)
}

func (h *AuthHandler) CheckAuth(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		utils.RespondError(c, utils.UnauthorizedError("Unauthorized - no token provided"))
		return
	}

	user, err := h.auth.CheckAuth(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondOK(c, "", user)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionToken string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, sessionToken, int(h.cfg.JWTExpiry.Seconds()), "/", "", h.cfg.IsProd(), true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cfg.IsProd(), true)
}
