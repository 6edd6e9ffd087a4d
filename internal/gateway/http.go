package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jredh-dev/tripmarket/pkg/models"
)

// HTTP talks to the marketplace API over HTTP.
type HTTP struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

var _ Gateway = (*HTTP)(nil)

// Option configures an HTTP gateway.
type Option func(*HTTP)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) { h.httpClient = c }
}

// NewHTTP returns a gateway rooted at baseURL. tokens may be nil before login.
func NewHTTP(baseURL string, tokens TokenSource, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

func (h *HTTP) PendingVendors(ctx context.Context) Result[models.Vendor] {
	var out []models.Vendor
	err := h.do(ctx, http.MethodGet, "/api/vendors/pending", nil, &out)
	return NewResult(out, err)
}

func (h *HTTP) PendingTrips(ctx context.Context) Result[models.Trip] {
	var out []models.Trip
	err := h.do(ctx, http.MethodGet, "/api/trips/admin/pending", nil, &out)
	return NewResult(out, err)
}

func (h *HTTP) Campaigns(ctx context.Context) Result[models.Campaign] {
	var out []models.Campaign
	err := h.do(ctx, http.MethodGet, "/api/marketing/all", nil, &out)
	return NewResult(out, err)
}

type verifyRequest struct {
	Status models.VendorStatus `json:"status"`
	Notes  string              `json:"notes,omitempty"`
}

func (h *HTTP) VerifyVendor(ctx context.Context, id string, status models.VendorStatus, notes string) (models.Vendor, error) {
	var v models.Vendor
	err := h.do(ctx, http.MethodPut, "/api/vendors/"+url.PathEscape(id)+"/verify", verifyRequest{status, notes}, &v)
	return v, err
}

type approveRequest struct {
	IsPromoted bool `json:"isPromoted"`
}

func (h *HTTP) ApproveTrip(ctx context.Context, id string, promoted bool) (models.Trip, error) {
	var t models.Trip
	err := h.do(ctx, http.MethodPut, "/api/trips/"+url.PathEscape(id)+"/approve", approveRequest{promoted}, &t)
	return t, err
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *HTTP) RejectTrip(ctx context.Context, id, reason string) (models.Trip, error) {
	var t models.Trip
	err := h.do(ctx, http.MethodPut, "/api/trips/"+url.PathEscape(id)+"/reject", rejectRequest{reason}, &t)
	return t, err
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session. The call succeeding is not
// enough: a session whose role is not admin yields ErrNotAdmin.
func (h *HTTP) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	if err := h.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{email, password}, &s); err != nil {
		return Session{}, err
	}
	if s.Role != models.RoleAdmin {
		return Session{}, ErrNotAdmin
	}
	return s, nil
}

func (h *HTTP) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode: %w", method, path, err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.tokens != nil {
		if tok := h.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Method: method, Path: path, Code: resp.StatusCode}
		var eb struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb) == nil {
			se.Message = eb.Error
		}
		return se
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}
