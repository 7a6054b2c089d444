package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Suya678/Stream/internal/http/response"
	"github.com/Suya678/Stream/internal/security"
	"github.com/Suya678/Stream/internal/service"
)

const internalErrorMessage = "sorry, the request could not be completed at the moment"

type AuthHandler struct {
	auth    service.AuthServiceInterface
	cookies *security.CookieManager
	jwt     *security.JWTManager
	logger  *slog.Logger
}

func NewAuthHandler(auth service.AuthServiceInterface, cookies *security.CookieManager, jwt *security.JWTManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies, jwt: jwt, logger: logger}
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"userName"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

type authResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Avatar   string `json:"avatar"`
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.auth.SignUp(r.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		h.writeAuthError(w, r, "signup", err)
		return
	}

	h.cookies.SetSessionCookie(w, result.SessionToken, h.jwt.TTL())
	response.JSON(w, r, http.StatusCreated, authResponse{
		Message:  "user created successfully",
		UserID:   result.User.ID.String(),
		Email:    result.User.Email,
		UserName: result.User.Username,
		Avatar:   result.User.AvatarURL,
	})
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.auth.SignIn(r.Context(), service.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeAuthError(w, r, "signin", err)
		return
	}

	h.cookies.SetSessionCookie(w, result.SessionToken, h.jwt.TTL())
	response.JSON(w, r, http.StatusOK, authResponse{
		Message:  "user signed in successfully",
		UserID:   result.User.ID.String(),
		Email:    result.User.Email,
		UserName: result.User.Username,
		Avatar:   result.User.AvatarURL,
	})
}

// SignOut clears the session cookie and succeeds regardless of prior session
// state.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSessionCookie(w)
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "signed out"})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.auth.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		h.writeAuthError(w, r, "verify_email", err)
		return
	}
	response.JSON(w, r, http.StatusOK, authResponse{
		Message:  "email verified successfully",
		UserID:   user.ID.String(),
		Email:    user.Email,
		UserName: user.Username,
		Avatar:   user.AvatarURL,
	})
}

// ResendVerification answers 202 for every well-formed email so the endpoint
// cannot be used to probe which addresses have accounts.
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.auth.ResendVerification(r.Context(), req.Email); err != nil {
		h.writeAuthError(w, r, "resend_verification", err)
		return
	}
	response.JSON(w, r, http.StatusAccepted, map[string]string{
		"message": "if the email is registered, a verification code has been sent",
	})
}

// Me echoes the session subject from the auth cookie.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := security.GetCookie(r, security.SessionCookieName)
	if token == "" {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token")
		return
	}
	claims, err := h.jwt.ParseSessionToken(token)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid session token")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]interface{}{
		"userName":  claims.Subject,
		"email":     claims.Email,
		"expiresAt": claims.ExpiresAt,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Body == nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "request body is missing")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "request body is missing or malformed")
		return false
	}
	return true
}

func (h *AuthHandler) writeAuthError(w http.ResponseWriter, r *http.Request, flow string, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidPasswordFormat),
		errors.Is(err, service.ErrInvalidEmailFormat):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken):
		response.Error(w, r, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, service.ErrInvalidVerificationToken):
		response.Error(w, r, http.StatusUnauthorized, "INVALID_OR_EXPIRED_TOKEN", err.Error())
	case errors.Is(err, service.ErrEmailDelivery):
		response.Error(w, r, http.StatusBadGateway, "EMAIL_DELIVERY_FAILED", service.ErrEmailDelivery.Error())
	default:
		h.logger.ErrorContext(r.Context(), "auth flow failed", "flow", flow, "error", err)
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", internalErrorMessage)
	}
}
