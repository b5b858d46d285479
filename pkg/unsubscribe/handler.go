package unsubscribe

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inboxlab/mailroom/pkg/suppression"
)

// Handler serves the unsubscribe endpoint in two flavors: interactive GET
// for humans following the footer link, and RFC 8058 one-click POST for
// mail clients acting on the List-Unsubscribe-Post header.
type Handler struct {
	codec *Codec
	store suppression.Store
	log   *slog.Logger
}

// NewHandler wires the codec and suppression store into an HTTP handler.
func NewHandler(codec *Codec, store suppression.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{codec: codec, store: store, log: log}
}

// Router mounts the endpoint under /{token}.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/{token}", h.handleGet)
	r.Post("/{token}", h.handlePost)
	return r
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	payload := h.codec.Verify(chi.URLParam(r, "token"))
	if payload == nil {
		writeHTML(w, http.StatusBadRequest, invalidTokenPage)
		return
	}

	err := h.store.UpsertSuppression(r.Context(), payload.Email, payload.UserID, suppression.ReasonOneClick)
	if err != nil {
		h.log.ErrorContext(r.Context(), "unsubscribe failed",
			slog.String("email", payload.Email),
			slog.Any("error", err),
		)
		writeHTML(w, http.StatusInternalServerError, storeErrorPage)
		return
	}

	h.log.InfoContext(r.Context(), "email unsubscribed",
		slog.String("email", payload.Email),
		slog.String("user_id", payload.UserID),
		slog.String("method", "one-click"),
	)
	writeHTML(w, http.StatusOK, confirmationPage(payload.Email))
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	payload := h.codec.Verify(chi.URLParam(r, "token"))
	if payload == nil {
		http.Error(w, "Invalid or expired token", http.StatusBadRequest)
		return
	}

	err := h.store.UpsertSuppression(r.Context(), payload.Email, payload.UserID, suppression.ReasonOneClickPost)
	if err != nil {
		h.log.ErrorContext(r.Context(), "unsubscribe failed",
			slog.String("email", payload.Email),
			slog.Any("error", err),
		)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.log.InfoContext(r.Context(), "email unsubscribed",
		slog.String("email", payload.Email),
		slog.String("user_id", payload.UserID),
		slog.String("method", "one-click-post"),
	)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Unsubscribed successfully"))
}

func writeHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
