package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/crypto"

	"go.uber.org/zap"
)

const CodeEmailTaken = "EMAIL_TAKEN"

type HTTPHandler struct {
	service *Service
	secret  string
	log     *zap.Logger
}

func NewHTTPHandler(service *Service, secret string, log *zap.Logger) *HTTPHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPHandler{service: service, secret: secret, log: log.Named("auth")}
}

type CredentialsReq struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type tokenResp struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsReq, bool) {
	var req CredentialsReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid request body", nil)
		return req, false
	}
	req.Email = strings.TrimSpace(req.Email)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeValidation, "Invalid input", validationErrors)
		return req, false
	}
	return req, true
}

// Signup handles POST /auth/signup
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsReq true "Credentials"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /auth/signup [post]
func (h *HTTPHandler) Signup(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			httpx.JSONError(w, r, http.StatusBadRequest, CodeEmailTaken, "Email is already registered, try logging in", nil)
			return
		}
		h.log.Error("signup failed", zap.Error(err))
		httpx.InternalError(w, r)
		return
	}

	httpx.JSONCreated(w, r, tokenResp{Message: "User registered successfully", Token: token})
}

// Login handles POST /auth/login
// @Summary User login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsReq true "Credentials"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.JSONError(w, r, http.StatusBadRequest, httpx.CodeBadRequest, "Invalid email or password", nil)
			return
		}
		h.log.Error("login failed", zap.Error(err))
		httpx.InternalError(w, r)
		return
	}

	httpx.JSONSuccess(w, r, tokenResp{Message: "Login successful", Token: token}, nil)
}

// Logout handles POST /auth/logout
// @Summary User logout
// @Description Revoke the presented token until it expires.
// @Tags auth
// @Security Bearer
// @Success 204 "No Content"
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		httpx.JSONError(w, r, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid or expired token", nil)
		return
	}
	claims, err := crypto.ParseToken(h.secret, token)
	if err != nil {
		httpx.JSONError(w, r, http.StatusUnauthorized, httpx.CodeUnauthorized, "Invalid or expired token", nil)
		return
	}

	expiresAt := time.Now()
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.service.Logout(r.Context(), claims.ID, expiresAt); err != nil {
		h.log.Error("logout failed", zap.Error(err), zap.String("user_id", claims.Sub))
		httpx.InternalError(w, r)
		return
	}

	httpx.JSONNoContent(w)
}
