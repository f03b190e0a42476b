// Package api provides HTTP handlers for the volunteer service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/komalmemorial/volunteer/internal/core/domain"
	"github.com/komalmemorial/volunteer/internal/core/validation"
	"github.com/komalmemorial/volunteer/internal/shell/api/middleware"
	"github.com/komalmemorial/volunteer/internal/shell/store"
)

// maxBodyBytes bounds registration request bodies.
const maxBodyBytes = 1 << 20

// maxIDAttempts bounds retries when a generated volunteer ID collides.
const maxIDAttempts = 3

// listPageSize is the page size used when the whole listing is requested.
const listPageSize = 1000

// =============================================================================
// Handler
// =============================================================================

// Config holds the dependencies of the HTTP handler.
type Config struct {
	Store  store.Store
	Logger *slog.Logger

	// Static serves every path the API does not own. Nil answers 404.
	Static http.Handler

	CORS middleware.CORSConfig

	// ReadyTimeout bounds the store ping of the readiness probe.
	ReadyTimeout time.Duration

	// Now returns the registration time. Defaults to time.Now.
	Now func() time.Time
}

// Handler provides HTTP handlers for the API.
type Handler struct {
	store        store.Store
	logger       *slog.Logger
	static       http.Handler
	cors         middleware.CORSConfig
	readyTimeout time.Duration
	now          func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Static == nil {
		cfg.Static = http.NotFoundHandler()
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 2 * time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Handler{
		store:        cfg.Store,
		logger:       cfg.Logger,
		static:       cfg.Static,
		cors:         cfg.CORS,
		readyTimeout: cfg.ReadyTimeout,
		now:          cfg.Now,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(h.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(h.cors))
	r.Use(h.requestIDHeader)

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)

	// Volunteer routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/register-volunteer", h.handleRegisterVolunteer)
		r.Get("/volunteers", h.handleListVolunteers)
	})

	// Everything else comes from the static directory
	r.Get("/*", h.static.ServeHTTP)
	r.Head("/*", h.static.ServeHTTP)

	return r
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := chimw.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
	defer cancel()

	checks := make(map[string]string)
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed", "check", "database", "error", err)
		checks["database"] = "failed"
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Volunteer Handlers
// =============================================================================

func (h *Handler) handleRegisterVolunteer(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Debug("rejected registration body", "error", err)
		h.writeJSON(w, http.StatusBadRequest, RegistrationResponse{Success: false, Message: validation.MissingFieldsMessage})
		return
	}

	present := make(map[string]bool, len(fields))
	for k := range fields {
		present[k] = true
	}
	if field, msg := validation.ValidateRegistrationFields(present); field != "" {
		h.logger.Debug("rejected registration", "missing_field", field)
		h.writeJSON(w, http.StatusBadRequest, RegistrationResponse{Success: false, Message: msg})
		return
	}

	volunteer := domain.NewVolunteer(
		fieldText(fields, "name"),
		fieldText(fields, "email"),
		fieldText(fields, "phone"),
		fieldText(fields, "message"),
		h.now(),
	)
	if msg, ok := fields["message"]; ok && msg == nil {
		// An explicit null message is stored as no message.
		volunteer.Message = nil
	}

	err = h.store.CreateVolunteer(r.Context(), volunteer)
	for attempt := 1; errors.Is(err, store.ErrDuplicateID) && attempt < maxIDAttempts; attempt++ {
		volunteer.ID = domain.NewVolunteerID()
		err = h.store.CreateVolunteer(r.Context(), volunteer)
	}
	if err != nil {
		h.logger.Error("failed to register volunteer", "volunteer_id", volunteer.ID, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, RegistrationResponse{Success: false, Message: msgServerError})
		return
	}

	h.logger.Info("volunteer registered", "volunteer_id", volunteer.ID)
	h.writeJSON(w, http.StatusCreated, RegistrationResponse{Success: true, Message: msgRegistered})
}

func (h *Handler) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
	opts, all, err := parseListOptions(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var volunteers []domain.Volunteer
	if all {
		volunteers, err = h.listAll(r.Context())
	} else {
		volunteers, err = h.store.ListVolunteers(r.Context(), opts)
	}
	if err != nil {
		h.logger.Error("failed to list volunteers", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := make([]VolunteerResponse, 0, len(volunteers))
	for i := range volunteers {
		resp = append(resp, volunteerToResponse(&volunteers[i]))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// listAll pages through the store until a short page is returned. Each page
// starts after the last row of the previous one, so registrations landing
// mid-listing neither repeat nor shift rows.
func (h *Handler) listAll(ctx context.Context) ([]domain.Volunteer, error) {
	var (
		all    []domain.Volunteer
		cursor store.Cursor
	)
	for {
		page, err := h.store.ListVolunteers(ctx, store.ListOptions{Limit: listPageSize, Before: cursor})
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < listPageSize {
			return all, nil
		}
		cursor = store.CursorOf(&page[len(page)-1])
	}
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func volunteerToResponse(v *domain.Volunteer) VolunteerResponse {
	return VolunteerResponse{
		Name:    v.Name,
		Email:   v.Email,
		Phone:   v.Phone,
		Message: v.DisplayMessage(),
		Date:    v.DisplayDate(),
	}
}

// decodeFields reads a single JSON object and returns every member as text,
// keyed by name. A null member maps to nil. Strings are taken as-is; numbers,
// booleans, objects and arrays keep their JSON spelling.
func decodeFields(body io.Reader) (map[string]*string, error) {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("body is not a JSON object")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}

	fields := make(map[string]*string, len(raw))
	for k, v := range raw {
		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return nil, err
		}
		switch tv := value.(type) {
		case nil:
			fields[k] = nil
		case string:
			fields[k] = &tv
		default:
			text := string(v)
			fields[k] = &text
		}
	}
	return fields, nil
}

// fieldText returns the text of a decoded field, "" when absent or null.
func fieldText(fields map[string]*string, key string) string {
	if v := fields[key]; v != nil {
		return *v
	}
	return ""
}

// parseListOptions reads limit and offset. all is true when no limit was given.
func parseListOptions(r *http.Request) (opts store.ListOptions, all bool, err error) {
	q := r.URL.Query()

	if s := q.Get("offset"); s != "" {
		opts.Offset, err = strconv.Atoi(s)
		if err != nil || opts.Offset < 0 {
			return opts, false, errors.New("invalid offset")
		}
	}

	s := q.Get("limit")
	if s == "" {
		return opts, opts.Offset == 0, nil
	}
	opts.Limit, err = strconv.Atoi(s)
	if err != nil || opts.Limit <= 0 {
		return opts, false, errors.New("invalid limit")
	}
	return opts.Normalize(), false, nil
}
