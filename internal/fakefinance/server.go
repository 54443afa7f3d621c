package fakefinance

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/finbook/udhaar/internal/domain"
)

// ServerConfig holds dependencies for the HTTP server.
type ServerConfig struct {
	Store  *Store
	Logger zerolog.Logger

	// Verify authenticates a bearer token. Nil disables authentication.
	Verify TokenVerifier
}

// NewServer builds the HTTP handler serving the borrowing/lending contract.
func NewServer(cfg ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(Metrics)
	r.Use(Recovery)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	for kind, names := range kindNames {
		h := &handler{store: cfg.Store, kind: kind, names: names}
		r.Route("/"+names.resource, func(r chi.Router) {
			if cfg.Verify != nil {
				r.Use(AuthMiddleware(cfg.Verify))
			}

			r.Get("/", h.list)
			r.Post("/", h.create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.get)
				r.Put("/", h.update)
				r.Delete("/", h.delete)
				r.Post("/close", h.close)
				r.Post("/reopen", h.reopen)

				r.Route("/"+names.eventResource, func(r chi.Router) {
					r.Post("/", h.createEvent)
					r.Put("/{eventID}", h.updateEvent)
					r.Delete("/{eventID}", h.deleteEvent)
				})
			})
		})
	}

	return r
}

// handler serves one resource family. Borrowings and lendings share every
// code path; only the wire naming differs.
type handler struct {
	store *Store
	kind  domain.Kind
	names resourceNames
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	filter := domain.ListFilter{
		Status:       domain.Status(r.URL.Query().Get("status")),
		Counterparty: r.URL.Query().Get(h.names.counterpartyParam),
	}

	agreements := h.store.List(h.kind, filter)
	payload := make([]agreementPayload, 0, len(agreements))
	for _, a := range agreements {
		payload = append(payload, toAgreementPayload(a))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var p agreementPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.store.Create(h.kind, p.toInput(h.kind))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAgreementPayload(*a))
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.store.Get(h.kind, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDetailPayload(*detail))
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	var p agreementPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.store.Update(h.kind, chi.URLParam(r, "id"), p.toInput(h.kind))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgreementPayload(*a))
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(h.kind, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) close(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.CloseAgreement(h.kind, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgreementPayload(*a))
}

func (h *handler) reopen(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Reopen(h.kind, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAgreementPayload(*a))
}

func (h *handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var p eventPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.store.AddEvent(h.kind, chi.URLParam(r, "id"), p.toInput(h.kind))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventPayload(h.kind, *e))
}

func (h *handler) updateEvent(w http.ResponseWriter, r *http.Request) {
	var p eventPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.store.UpdateEvent(h.kind, chi.URLParam(r, "id"), chi.URLParam(r, "eventID"), p.toInput(h.kind))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventPayload(h.kind, *e))
}

func (h *handler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteEvent(h.kind, chi.URLParam(r, "id"), chi.URLParam(r, "eventID")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error body of the form {"detail": "..."}.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// validationItem is one entry of a 422 detail array.
type validationItem struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// writeStoreError maps store errors to HTTP responses. Validation failures
// become a 422 with a per-field detail array.
func writeStoreError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		items := make([]validationItem, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			items = append(items, validationItem{
				Loc:  []any{"body", f.Field},
				Msg:  f.Message,
				Type: "value_error",
			})
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": items})
		return
	}

	switch {
	case errors.Is(err, domain.ErrAgreementNotFound), errors.Is(err, domain.ErrEventNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAgreementClosed), errors.Is(err, domain.ErrAgreementNotClosed):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
