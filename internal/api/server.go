// Package api exposes the appraisal engine over HTTP for scanner apps
// and warehouse tooling.
package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shelfscout/appraise-cli/internal/appraise"
	"github.com/shelfscout/appraise-cli/internal/decision"
	"github.com/shelfscout/appraise-cli/internal/model"
	"github.com/shelfscout/appraise-cli/internal/registry"
	"github.com/shelfscout/appraise-cli/internal/store"
)

// Server handles HTTP appraisal requests. The engine and registry are
// read-only; the store may be nil when persistence is disabled.
type Server struct {
	engine  *appraise.Engine
	reg     *registry.Registry
	st      store.Store
	limiter *rate.Limiter
}

// NewServer wires a server. ratePerSecond <= 0 disables rate limiting.
func NewServer(engine *appraise.Engine, reg *registry.Registry, st store.Store, ratePerSecond float64, burst int) *Server {
	s := &Server{engine: engine, reg: reg, st: st}
	if ratePerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return s
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/appraise", s.handleAppraise)
		r.Get("/registry/{name}", s.handleRegistryLookup)
	})

	return r
}

// rateLimit rejects requests beyond the configured global rate.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			rateLimited.Inc()
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// appraiseRequest is the wire shape of POST /v1/appraise. The profile may
// be a named preset or omitted for the default.
type appraiseRequest struct {
	Book         model.BookRecord `json:"book"`
	Cost         *float64         `json:"cost,omitempty"`
	BuybackPrice *float64         `json:"buyback_price,omitempty"`
	Profile      string           `json:"profile,omitempty"`
	Save         bool             `json:"save,omitempty"`
}

func (s *Server) handleAppraise(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req appraiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Book.ISBN == "" && req.Book.Title == "" {
		writeError(w, http.StatusBadRequest, "book requires isbn or title")
		return
	}

	profile, err := decision.ByName(req.Profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.Appraise(appraise.Request{
		Book:         req.Book,
		Cost:         req.Cost,
		BuybackPrice: req.BuybackPrice,
		Profile:      profile,
	})
	if err != nil {
		appraisalErrors.Inc()
		zap.L().Error("api: appraisal failed",
			zap.String("isbn", req.Book.ISBN),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "appraisal failed")
		return
	}

	if req.Save && s.st != nil {
		if _, err := s.st.SaveAppraisal(r.Context(), req.Book.ISBN, req.Book.Title, result); err != nil {
			zap.L().Warn("api: failed to persist appraisal", zap.Error(err))
		}
	}

	appraisalsTotal.WithLabelValues(string(result.Decision.Decision)).Inc()
	appraisalDuration.Observe(time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRegistryLookup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if dec, err := url.PathUnescape(name); err == nil {
		name = dec
	}
	normalized := registry.NormalizeName(name)
	entry, ok := s.reg.Lookup(normalized)
	if !ok {
		writeError(w, http.StatusNotFound, "no registry entry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":                    name,
		"normalized":               normalized,
		"name":                     entry.Name,
		"tier":                     entry.Tier,
		"signed_multiplier":        entry.SignedMultiplier,
		"first_edition_multiplier": entry.FirstEditionMultiplier(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
