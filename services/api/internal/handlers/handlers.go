package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jredh-dev/tripmarket/pkg/models"
	"github.com/jredh-dev/tripmarket/services/api/internal/auth"
	"github.com/jredh-dev/tripmarket/services/api/internal/events"
	"github.com/jredh-dev/tripmarket/services/api/internal/repository"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	repo     repository.Repository
	auth     *auth.Service
	events   events.Publisher
	validate *validator.Validate
}

// New creates a new Handler. pub may be nil to disable events.
func New(repo repository.Repository, authSvc *auth.Service, pub events.Publisher) *Handler {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		repo:     repo,
		auth:     authSvc,
		events:   pub,
		validate: validator.New(),
	}
}

// Routes mounts the API on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(h.auth))
			r.Use(RequireRole(models.RoleAdmin))

			r.Get("/vendors/pending", h.PendingVendors)
			r.Put("/vendors/{id}/verify", h.VerifyVendor)
			r.Get("/trips/admin/pending", h.PendingTrips)
			r.Put("/trips/{id}/approve", h.ApproveTrip)
			r.Put("/trips/{id}/reject", h.RejectTrip)
			r.Get("/marketing/all", h.Campaigns)
		})
	})
}

// Health reports liveness.
// GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Login exchanges credentials for a bearer token.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !h.decode(w, r, &req) {
		return
	}
	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		jsonError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Printf("login: email=%s err=%v", req.Email, err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	log.Printf("login: email=%s role=%s", user.Email, user.Role)
	jsonOK(w, http.StatusOK, loginResp{Token: token, Role: user.Role, Email: user.Email, Name: user.Name})
}

// PendingVendors lists vendors awaiting verification.
// GET /api/vendors/pending
func (h *Handler) PendingVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.repo.PendingVendors(r.Context())
	if err != nil {
		log.Printf("pending vendors: %v", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, http.StatusOK, orEmpty(vendors))
}

// VerifyVendor sets a vendor's verification status.
// PUT /api/vendors/{id}/verify
func (h *Handler) VerifyVendor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req verifyVendorReq
	if !h.decode(w, r, &req) {
		return
	}
	v, err := h.repo.VerifyVendor(r.Context(), id, req.Status, req.Notes)
	if !h.repoError(w, "verify vendor", id, err) {
		return
	}

	typ := events.VendorStatusChanged
	if v.IsVerified() {
		typ = events.VendorVerified
	}
	h.publish(r.Context(), events.New(typ, v.ID, string(v.Status), req.Notes, actor(r)))
	log.Printf("verify vendor: id=%s status=%s by=%s", v.ID, v.Status, actor(r))
	jsonOK(w, http.StatusOK, v)
}

// PendingTrips lists trips awaiting approval.
// GET /api/trips/admin/pending
func (h *Handler) PendingTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.repo.PendingTrips(r.Context())
	if err != nil {
		log.Printf("pending trips: %v", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, http.StatusOK, orEmpty(trips))
}

// ApproveTrip approves a trip, optionally promoting it. An empty body means
// not promoted.
// PUT /api/trips/{id}/approve
func (h *Handler) ApproveTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req approveTripReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	t, err := h.repo.ApproveTrip(r.Context(), id, req.IsPromoted)
	if !h.repoError(w, "approve trip", id, err) {
		return
	}
	h.publish(r.Context(), events.New(events.TripApproved, t.ID, string(t.Status), "", actor(r)))
	log.Printf("approve trip: id=%s promoted=%t by=%s", t.ID, t.IsPromoted, actor(r))
	jsonOK(w, http.StatusOK, t)
}

// RejectTrip rejects a trip with a reason.
// PUT /api/trips/{id}/reject
func (h *Handler) RejectTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req rejectTripReq
	if !h.decode(w, r, &req) {
		return
	}
	t, err := h.repo.RejectTrip(r.Context(), id, req.Reason)
	if !h.repoError(w, "reject trip", id, err) {
		return
	}
	h.publish(r.Context(), events.New(events.TripRejected, t.ID, string(t.Status), req.Reason, actor(r)))
	log.Printf("reject trip: id=%s reason=%q by=%s", t.ID, req.Reason, actor(r))
	jsonOK(w, http.StatusOK, t)
}

// Campaigns lists every campaign.
// GET /api/marketing/all
func (h *Handler) Campaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.repo.Campaigns(r.Context())
	if err != nil {
		log.Printf("campaigns: %v", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, http.StatusOK, orEmpty(campaigns))
}

// --- Helpers ---

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		jsonError(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		jsonError(w, validationMessage(err), http.StatusBadRequest)
		return false
	}
	return true
}

// repoError writes the response for a failed repository mutation and reports
// whether the caller should continue.
func (h *Handler) repoError(w http.ResponseWriter, op, id string, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, repository.ErrNotFound):
		jsonError(w, "not found", http.StatusNotFound)
	case errors.Is(err, models.ErrInvalidStatus):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("%s: id=%s err=%v", op, id, err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
	return false
}

// publish delivers e. A broker outage must not fail the admin's request.
func (h *Handler) publish(ctx context.Context, e events.Event) {
	if err := h.events.Publish(ctx, e); err != nil {
		log.Printf("events: type=%s entity=%s err=%v", e.Type, e.EntityID, err)
	}
}

func actor(r *http.Request) string {
	if c, ok := ClaimsFromContext(r.Context()); ok {
		return c.Email
	}
	return ""
}

// orEmpty keeps JSON output as [] rather than null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func jsonOK(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
