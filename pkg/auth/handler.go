package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the magic-link flow over HTTP.
type Handler struct {
	svc *MagicLinkService
	log *slog.Logger
}

// NewHandler wraps the service.
func NewHandler(svc *MagicLinkService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{svc: svc, log: log}
}

// Router mounts the magic-link endpoints.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/magic-link", h.handleRequest)
	r.Get("/magic-link/verify/{token}", h.handleVerify)
	return r
}

type magicLinkRequest struct {
	Email string `json:"email"`
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req magicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.svc.RequestMagicLink(r.Context(), req.Email); err != nil {
		if err == ErrInvalidEmail {
			http.Error(w, "Invalid email address", http.StatusBadRequest)
			return
		}
		h.log.ErrorContext(r.Context(), "magic link request failed",
			slog.String("email", req.Email),
			slog.Any("error", err),
		)
		http.Error(w, "Failed to send sign-in link", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write([]byte(`{"status":"sent"}`))
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.VerifyMagicLink(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		http.Error(w, "Invalid or expired sign-in link", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user_id":  user.ID.String(),
		"email":    user.Email,
		"verified": user.IsVerified,
	})
}
