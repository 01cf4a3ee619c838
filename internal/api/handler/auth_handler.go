package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// bindAndValidate decodes the request body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// Signup creates an unverified account and returns its verification token.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      200   {object}  detailResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	metrics.SignupsTotal.Inc()
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.PurposeVerification)).Inc()
	return c.JSON(http.StatusOK, detailResponse{Detail: "signup successful", Token: token})
}

// Signin exchanges credentials for an access/refresh token pair.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Credentials"
// @Success      200   {object}  tokenPairResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.authService.Signin(c.Request().Context(), req.Email, req.Password)
	metrics.SigninsTotal.WithLabelValues(signinResult(err)).Inc()
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(domain.PurposeAccess)).Inc()
	metrics.TokensIssuedTotal.WithLabelValues(string(domain.PurposeRefresh)).Inc()
	return c.JSON(http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func signinResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrNotVerified):
		return "not_verified"
	case errors.Is(err, domain.ErrNotActive):
		return "not_active"
	default:
		return "error"
	}
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Refresh issues a new access token. The refresh token is read from the
// "refresh_token" body field, or from a Bearer Authorization header.
//
// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  false  "Refresh token"
// @Success      200   {object}  tokenPairResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/token/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token := req.RefreshToken
	if token == "" {
		token = bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	}
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	pair, err := h.authService.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(domain.PurposeAccess)).Inc()
	return c.JSON(http.StatusOK, tokenPairResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// bearerToken extracts the credential from "Bearer <token>", or "" when the
// header has another shape.
func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ChangePassword replaces the authenticated user's password.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  detailResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user, ports.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		Password1:       req.Password1,
		Password2:       req.Password2,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detailResponse{Detail: "password changed"})
}

// VerifyEmail marks the account behind a verification token as verified and active.
//
// @Summary      Verify email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Verification token"
// @Success      200   {object}  detailResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/email-verify [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.VerifyEmail(c.Request().Context(), req.Token); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detailResponse{Detail: "email verified"})
}

// ResendEmail issues a fresh verification token.
//
// @Summary      Resend verification token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendTokenRequest  true  "Account email"
// @Success      200   {object}  detailResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/resend-email [post]
func (h *AuthHandler) ResendEmail(c echo.Context) error {
	var req sendTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.ResendVerification(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(domain.PurposeVerification)).Inc()
	return c.JSON(http.StatusOK, detailResponse{Detail: "verification token issued", Token: token})
}

// ForgotPassword issues a password reset token.
//
// @Summary      Forgot password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      sendTokenRequest  true  "Account email"
// @Success      200   {object}  detailResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req sendTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(domain.PurposeReset)).Inc()
	return c.JSON(http.StatusOK, detailResponse{Detail: "reset token issued", Token: token})
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  detailResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), ports.ResetPasswordInput{
		Token:     req.Token,
		Password1: req.Password1,
		Password2: req.Password2,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, detailResponse{Detail: "password reset"})
}
