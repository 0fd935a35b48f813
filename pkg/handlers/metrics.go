package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hackcentral/engine/pkg/auth"
	"github.com/hackcentral/engine/pkg/services"
)

// LeaderboardsResponse bundles the three leaderboards returned by one call.
type LeaderboardsResponse struct {
	TopContributors  []services.LeaderboardEntry `json:"top_contributors"`
	TopMentors       []services.LeaderboardEntry `json:"top_mentors"`
	MostReusedAssets []services.LeaderboardEntry `json:"most_reused_assets"`
}

// ConcentrationResponse carries the contribution-concentration statistic.
type ConcentrationResponse struct {
	Gini float64 `json:"gini"`
}

// MetricsHandler serves the derived community metrics.
type MetricsHandler struct {
	metricsService services.MetricsService
	resolver       services.ViewerResolver
	logger         *zap.Logger
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(metricsService services.MetricsService, resolver services.ViewerResolver, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		metricsService: metricsService,
		resolver:       resolver,
		logger:         logger,
	}
}

// RegisterRoutes registers the metrics handler's routes on the given mux.
func (h *MetricsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/metrics/adoption", authMiddleware.OptionalAuth(h.Adoption))
	mux.HandleFunc("GET /api/metrics/leaderboards", authMiddleware.OptionalAuth(h.Leaderboards))
	mux.HandleFunc("GET /api/metrics/concentration", authMiddleware.OptionalAuth(h.Concentration))
}

// Adoption handles GET /api/metrics/adoption
func (h *MetricsHandler) Adoption(w http.ResponseWriter, r *http.Request) {
	summary, err := h.metricsService.AdoptionSummary(r.Context(), time.Now())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, summary); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Leaderboards handles GET /api/metrics/leaderboards
// Counts are viewer-independent; display names degrade to "Unknown" for
// profiles the viewer may not see.
func (h *MetricsHandler) Leaderboards(w http.ResponseWriter, r *http.Request) {
	viewer, err := h.resolver.Resolve(r.Context())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}
	now := time.Now()

	contributors, err := h.metricsService.TopContributors(r.Context(), viewer, now)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}
	mentors, err := h.metricsService.TopMentors(r.Context(), viewer, now)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}
	assets, err := h.metricsService.MostReusedAssets(r.Context(), viewer, now)
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	response := LeaderboardsResponse{
		TopContributors:  contributors,
		TopMentors:       mentors,
		MostReusedAssets: assets,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Concentration handles GET /api/metrics/concentration
func (h *MetricsHandler) Concentration(w http.ResponseWriter, r *http.Request) {
	gini, err := h.metricsService.ContributionGini(r.Context(), time.Now())
	if err != nil {
		WriteServiceError(h.logger, w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ConcentrationResponse{Gini: gini}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
