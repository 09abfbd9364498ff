package auth

import (
	"errors"
	"net/http"
	"time"

	"market-directory/internal/httpjson"
	"market-directory/internal/observability"
)

type Handler struct {
	service   *Service
	responder *httpjson.Responder
	logger    *observability.Logger
}

func NewHandler(service *Service, responder *httpjson.Responder, logger *observability.Logger) *Handler {
	return &Handler{service: service, responder: responder, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := httpjson.Decode(w, r, &body); err != nil {
		h.responder.Error(w, r, "register", err)
		return
	}

	userID, err := h.service.Register(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			// Duplicates are reported as a server fault, not a 4xx.
			h.logger.Warn(r.Context(), "duplicate_username")
			httpjson.WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		h.responder.Error(w, r, "register", err)
		return
	}

	h.logger.Info(r.Context(), "user_registered", "user_id", userID)
	httpjson.WriteJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body credentialsRequest
	if err := httpjson.Decode(w, r, &body); err != nil {
		h.responder.Error(w, r, "login", err)
		return
	}

	token, err := h.service.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.logger.Info(r.Context(), "login_rejected")
		}
		h.responder.Error(w, r, "login", err)
		return
	}

	httpjson.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(token.ExpiresIn / time.Second),
	})
}
