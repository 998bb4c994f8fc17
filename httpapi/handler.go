// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/poiesic/stallbook/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestTimeout = 5 * time.Second

// Catalog is the set of catalog operations served over HTTP.
// *catalog.Service satisfies it.
type Catalog interface {
	ListSummaries(ctx context.Context) ([]core.StallSummary, error)
	ListStalls(ctx context.Context) ([]core.Stall, error)
	GetStall(ctx context.Context, id string) (core.Stall, error)
	CreateStall(ctx context.Context, input core.StallInput) (core.Stall, error)
	UpdateStall(ctx context.Context, id string, input core.StallInput) (core.Stall, error)
	DeleteStall(ctx context.Context, id string) error
	RateStall(ctx context.Context, id string, rating float64) (core.Stall, error)
	RateMenuItem(ctx context.Context, stallID, itemID string, rating float64) (core.Stall, error)
	Login(ctx context.Context, username, password string) (core.AdminUser, error)
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger  *slog.Logger
	Catalog Catalog

	// Ping reports whether the storage is usable. Optional.
	Ping func(ctx context.Context) error

	// Gatherer backs /metrics. The route is not mounted when nil.
	Gatherer prometheus.Gatherer

	// Registerer receives the HTTP request metrics. Optional.
	Registerer prometheus.Registerer
}

// Handler wires the catalog HTTP endpoints to the catalog service.
type Handler struct {
	logger   *slog.Logger
	catalog  Catalog
	ping     func(ctx context.Context) error
	gatherer prometheus.Gatherer
	requests *prometheus.CounterVec
}

// NewHandler constructs the HTTP handler set.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:   logger,
		catalog:  cfg.Catalog,
		ping:     cfg.Ping,
		gatherer: cfg.Gatherer,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stallbook",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern and status code",
		}, []string{"method", "route", "status"}),
	}
	if cfg.Registerer != nil {
		if err := cfg.Registerer.Register(h.requests); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Router builds the chi router serving every route.
func (h *Handler) Router() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(h.accessLog)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", h.healthHandler())
	if h.gatherer != nil {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	router.Route("/api", h.Register)
	return router
}

// Register mounts the API routes onto r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/login", h.loginHandler())

	r.Route("/stalls", func(r chi.Router) {
		r.Get("/", h.stallSummariesHandler())
		r.Post("/", h.stallCreateHandler())
		r.Get("/all-details", h.stallDetailsHandler())
		r.Get("/{id}", h.stallGetHandler())
		r.Put("/{id}", h.stallUpdateHandler())
		r.Delete("/{id}", h.stallDeleteHandler())
		r.Post("/{id}/rate", h.stallRateHandler())
		r.Post("/{stallId}/menu-items/{itemId}/rate", h.menuItemRateHandler())
	})
}

// accessLog logs each request and counts it by route pattern.
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.requests.WithLabelValues(r.Method, route, fmt.Sprint(status)).Inc()
		h.logger.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (h *Handler) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if h.ping != nil {
			if err := h.ping(ctx); err != nil {
				h.logger.Warn("health check failed", "err", err)
				writeJSON(h.logger, w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		writeJSON(h.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

type loginRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type rateRequest struct {
	Rating *float64 `json:"rating"`
}

func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		if req.Username == nil || req.Password == nil {
			writeError(h.logger, w, r, fmt.Errorf("%w: username and password are required", core.ErrValidationFailed))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		if _, err := h.catalog.Login(ctx, *req.Username, *req.Password); err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		ok(h.logger, w, map[string]string{"message": "Login successful"})
	}
}

func (h *Handler) stallSummariesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		summaries, err := h.catalog.ListSummaries(ctx)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		ok(h.logger, w, summaries)
	}
}

func (h *Handler) stallDetailsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		stalls, err := h.catalog.ListStalls(ctx)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		ok(h.logger, w, stalls)
	}
}

func (h *Handler) stallGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		stall, err := h.catalog.GetStall(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		ok(h.logger, w, stall)
	}
}

func (h *Handler) stallCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeStallInput(r)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		stall, err := h.catalog.CreateStall(ctx, input)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		ok(h.logger, w, stall)
	}
}

func (h *Handler) stallUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeStallInput(r)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		stall, err := h.catalog.UpdateStall(ctx, chi.URLParam(r, "id"), input)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		ok(h.logger, w, stall)
	}
}

func (h *Handler) stallDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		id := chi.URLParam(r, "id")
		if err := h.catalog.DeleteStall(ctx, id); err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		ok(h.logger, w, map[string]string{"id": id})
	}
}

func (h *Handler) stallRateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rating, err := decodeRating(r)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		stall, err := h.catalog.RateStall(ctx, chi.URLParam(r, "id"), rating)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		ok(h.logger, w, stall)
	}
}

func (h *Handler) menuItemRateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rating, err := decodeRating(r)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		stall, err := h.catalog.RateMenuItem(ctx, chi.URLParam(r, "stallId"), chi.URLParam(r, "itemId"), rating)
		if err != nil {
			writeError(h.logger, w, r, err)
			return
		}
		ok(h.logger, w, stall)
	}
}

const maxBodyBytes = 1 << 20

func decodeBody(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("%w: content type must be application/json", core.ErrValidationFailed)
	}
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", core.ErrValidationFailed)
	}
	return nil
}

func decodeStallInput(r *http.Request) (core.StallInput, error) {
	var input core.StallInput
	if err := decodeBody(r, &input); err != nil {
		return core.StallInput{}, err
	}
	if err := core.ValidateStallInput(&input); err != nil {
		return core.StallInput{}, err
	}
	return input, nil
}

func decodeRating(r *http.Request) (float64, error) {
	var req rateRequest
	if err := decodeBody(r, &req); err != nil {
		return 0, err
	}
	if req.Rating == nil {
		return 0, fmt.Errorf("%w: rating is required", core.ErrValidationFailed)
	}
	if err := core.ValidateRatingValue(*req.Rating); err != nil {
		return 0, err
	}
	return *req.Rating, nil
}
