package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/changecomm/admin-system/internal/api/metrics"
	"github.com/changecomm/admin-system/internal/core/domain"
	"github.com/changecomm/admin-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			// Not-found collapses into invalid credentials so the response
			// never confirms whether an email is registered.
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, envelope{
		Status:  true,
		Message: "Login successful",
		Data: loginData{
			User: userResponse{
				ID:           user.ID,
				Name:         user.Name,
				Email:        user.Email,
				Role:         string(user.Role),
				Language:     user.Language,
				ProfileImage: user.ProfileImage,
				RefreshToken: user.RefreshToken,
			},
			AccessToken: token,
		},
	})
}

// ChangePassword replaces the authenticated user's password.
//
// @Summary      Change the current user's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  envelope
// @Failure      401   {object}  envelope
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{Status: true, Message: "Password changed successfully"})
}

// ForgotPassword issues a one-time reset code by email. Calling it again
// resends a fresh code.
//
// @Summary      Request a password-reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /auth/forget-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}

	metrics.OTPIssuedTotal.Inc()
	return c.JSON(http.StatusOK, envelope{Status: true, Message: "Verification code sent to your email"})
}

// VerifyCode consumes a reset code and opens the reset window.
//
// @Summary      Verify a password-reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyCodeRequest  true  "Email and code"
// @Success      200   {object}  envelope
// @Failure      400   {object}  envelope
// @Router       /auth/verify-code [post]
func (h *AuthHandler) VerifyCode(c echo.Context) error {
	var req verifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.VerifyCode(c.Request().Context(), req.Email, req.OTP); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{Status: true, Message: "Code verified"})
}

// ResetPassword sets a new password for a verified email.
//
// @Summary      Reset a password after code verification
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email and new password"
// @Success      200   {object}  envelope
// @Failure      403   {object}  envelope
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Email, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, envelope{Status: true, Message: "Password reset successfully"})
}
