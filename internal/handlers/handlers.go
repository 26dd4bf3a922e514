// Package handlers exposes the computation core over HTTP. Handlers
// own parameter validation and serialization; all algorithmic work
// lives in the core packages.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taylor26fl-cyber/Protracker-v1/internal/aggregate"
	"github.com/taylor26fl-cyber/Protracker-v1/internal/edge"
	"github.com/taylor26fl-cyber/Protracker-v1/internal/hub"
	"github.com/taylor26fl-cyber/Protracker-v1/internal/linemoves"
	"github.com/taylor26fl-cyber/Protracker-v1/internal/normalize"
	"github.com/taylor26fl-cyber/Protracker-v1/internal/projection"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/contracts"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	store    contracts.Store
	archive  contracts.SnapshotStore
	cache    contracts.LeaderboardCache
	hub      *hub.Hub
	defaults edge.Config
}

// NewHandler creates a new handler with dependencies
func NewHandler(store contracts.Store, archive contracts.SnapshotStore, cache contracts.LeaderboardCache, h *hub.Hub, defaults edge.Config) *Handler {
	return &Handler{
		store:    store,
		archive:  archive,
		cache:    cache,
		hub:      h,
		defaults: defaults,
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "protracker",
	})
}

// GetLeaderboards returns the per-stat top-25 leaderboards.
// Query params: refresh (any truthy value bypasses the cache)
func (h *Handler) GetLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	refresh := r.URL.Query().Get("refresh") != ""
	if !refresh {
		if cached, ok, err := h.cache.Get(ctx); err == nil && ok {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"leaderboards": cached.Leaderboards,
				"warmedAt":     cached.WarmedAt,
				"cached":       true,
			})
			return
		}
	}

	cached, err := h.computeAndWarm(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute leaderboards", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"leaderboards": cached.Leaderboards,
		"warmedAt":     cached.WarmedAt,
		"cached":       false,
	})
}

// WarmLeaderboards recomputes the aggregate and refreshes the cache
func (h *Handler) WarmLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cached, err := h.computeAndWarm(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to warm leaderboards", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"warmed":   true,
		"warmedAt": cached.WarmedAt,
	})
}

// InvalidateLeaderboards drops the cached aggregate
func (h *Handler) InvalidateLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.cache.Invalidate(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to invalidate leaderboards", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"invalidated": true})
}

func (h *Handler) computeAndWarm(ctx context.Context) (*models.CachedLeaderboards, error) {
	logs, err := h.store.LoadGameLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load game logs: %w", err)
	}

	lb := aggregate.Leaderboards(logs)

	cached, err := h.cache.Warm(ctx, lb)
	if err != nil {
		// Cache trouble shouldn't fail the read path
		fmt.Printf("⚠️  leaderboard cache warm failed: %v\n", err)
		return &models.CachedLeaderboards{WarmedAt: time.Now().UTC(), Leaderboards: lb}, nil
	}
	return cached, nil
}

// GetPlayerProjection computes a rolling projection for one player.
// Query params: stat (required), window, mode, name (fallback identity)
func (h *Handler) GetPlayerProjection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	playerID := chi.URLParam(r, "playerID")
	statLabel := r.URL.Query().Get("stat")
	if statLabel == "" {
		respondError(w, http.StatusBadRequest, "stat is required", nil)
		return
	}
	if _, ok := normalize.Stat(statLabel); !ok {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("unrecognized stat %q: expected one of points, rebounds, assists, threes", statLabel), nil)
		return
	}

	window, err := parseIntParam(r, "window", h.defaults.Window)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	mode := projection.ParseMode(r.URL.Query().Get("mode"))

	logs, err := h.store.LoadGameLogs(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load game logs", err)
		return
	}

	target := projection.Target{PlayerID: playerID, PlayerName: r.URL.Query().Get("name")}
	proj := projection.Project(logs, target, statLabel, edge.ClampWindow(window), mode)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"playerId":   playerID,
		"window":     edge.ClampWindow(window),
		"mode":       mode,
		"found":      proj != nil,
		"projection": proj,
	})
}

// GetEdges runs edge detection for a date.
// Query params: date, min_edge, window, mode
func (h *Handler) GetEdges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	cfg := h.defaults
	window, err := parseIntParam(r, "window", cfg.Window)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	cfg.Window = window

	minEdge, err := parseFloatParam(r, "min_edge", cfg.MinEdge)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if minEdge < 0 {
		respondError(w, http.StatusBadRequest, "min_edge must be non-negative", nil)
		return
	}
	cfg.MinEdge = minEdge
	cfg.Mode = projection.ParseMode(r.URL.Query().Get("mode"))

	date, err := h.resolveDate(ctx, r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	report, err := h.detect(ctx, date, cfg)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute edges", err)
		return
	}

	h.hub.Broadcast(hub.MessageTypeEdgeReport, report)
	respondJSON(w, http.StatusOK, report)
}

func (h *Handler) detect(ctx context.Context, date string, cfg edge.Config) (*edge.Report, error) {
	logs, err := h.store.LoadGameLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load game logs: %w", err)
	}
	props, err := h.store.LoadPropLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prop lines: %w", err)
	}

	report := edge.Detect(logs, props, date, cfg)
	return &report, nil
}

// ArchiveDate snapshots a date's prop lines for later move diffing.
// Query params: date (optional, active-date policy applies)
func (h *Handler) ArchiveDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	date, err := h.resolveDate(ctx, r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	props, err := h.store.LoadPropLines(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load prop lines", err)
		return
	}

	snap := &models.Snapshot{
		TS:       time.Now().UnixMilli(),
		SGO:      filterByDate(props[models.SourceSGO], date),
		HardRock: filterByDate(props[models.SourceHardRock], date),
	}

	if err := h.archive.Save(ctx, date, snap); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save archive", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"archived": true,
		"date":     date,
		"ts":       snap.TS,
		"counts": map[string]int{
			models.SourceSGO:      len(snap.SGO),
			models.SourceHardRock: len(snap.HardRock),
		},
	})
}

// GetLineMoves diffs a date's archived snapshot against live lines.
// Query params: date, source (all|sgo|hardrock), limit
func (h *Handler) GetLineMoves(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	source := r.URL.Query().Get("source")
	if source == "" {
		source = linemoves.SourceAll
	}
	if source != linemoves.SourceAll && !knownSource(source) {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("unknown source %q: expected all, sgo, or hardrock", source), nil)
		return
	}

	limit, err := parseIntParam(r, "limit", linemoves.DefaultLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	date, err := h.resolveDate(ctx, r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	snap, exists, err := h.archive.Get(ctx, date)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load archive", err)
		return
	}
	if !exists {
		respondJSON(w, http.StatusOK, linemoves.NotFound(date, source))
		return
	}

	props, err := h.store.LoadPropLines(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load prop lines", err)
		return
	}

	live := map[string][]models.PropLine{
		models.SourceSGO:      filterByDate(props[models.SourceSGO], date),
		models.SourceHardRock: filterByDate(props[models.SourceHardRock], date),
	}

	respondJSON(w, http.StatusOK, linemoves.Diff(snap, live, date, source, limit))
}

// ImportGameLogs accepts a loose JSON array of box-score records,
// normalizes them at the boundary, and upserts the canonical logs
func (h *Handler) ImportGameLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var records []map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		respondError(w, http.StatusBadRequest, "expected a JSON array of game-log records", err)
		return
	}

	logs := make([]models.GameLog, 0, len(records))
	skipped := 0
	for _, rec := range records {
		log, ok := normalize.GameLogFromRecord(rec)
		if !ok {
			skipped++
			continue
		}
		logs = append(logs, log)
	}

	written, err := h.store.ImportGameLogs(ctx, logs)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to import game logs", err)
		return
	}

	// Fresh logs change every aggregate; drop the cache
	if err := h.cache.Invalidate(ctx); err != nil {
		fmt.Printf("⚠️  leaderboard cache invalidate failed: %v\n", err)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"imported": written,
		"skipped":  skipped,
	})
}

// ImportPropLines accepts a loose JSON array of prop-line records for
// one source and replaces that source's lines per date
func (h *Handler) ImportPropLines(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	source := chi.URLParam(r, "source")
	if !knownSource(source) {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("unknown source %q: expected sgo or hardrock", source), nil)
		return
	}

	var records []map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		respondError(w, http.StatusBadRequest, "expected a JSON array of prop-line records", err)
		return
	}

	lines := make([]models.PropLine, 0, len(records))
	skipped := 0
	for _, rec := range records {
		line, ok := normalize.PropLineFromRecord(rec, source)
		if !ok {
			skipped++
			continue
		}
		lines = append(lines, line)
	}

	written, err := h.store.ImportPropLines(ctx, source, lines)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to import prop lines", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"source":   source,
		"imported": written,
		"skipped":  skipped,
	})
}

// simulateLineRequest is the test-support perturbation payload
type simulateLineRequest struct {
	ID    int64    `json:"id"`
	Line  *float64 `json:"line"`
	Delta *float64 `json:"delta"`
}

// SimulateLine perturbs one prop line and rebroadcasts edges for its
// date. Test/dev affordance; never part of the core computation.
func (h *Handler) SimulateLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var req simulateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "expected {id, line|delta}", err)
		return
	}
	if req.ID == 0 {
		respondError(w, http.StatusBadRequest, "id is required", nil)
		return
	}
	if req.Line == nil && req.Delta == nil {
		respondError(w, http.StatusBadRequest, "one of line or delta is required", nil)
		return
	}

	updated, err := h.store.SimulateLine(ctx, req.ID, req.Line, req.Delta)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to simulate line", err)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "prop line not found", nil)
		return
	}

	// Rebroadcast edges so subscribers see the downstream effect
	if report, err := h.detect(ctx, updated.Date, h.defaults); err == nil {
		h.hub.Broadcast(hub.MessageTypeEdgeReport, report)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"simulated": true,
		"line":      updated,
	})
}

// resolveDate applies the canonical optional-date policy
func (h *Handler) resolveDate(ctx context.Context, explicit string) (string, error) {
	known := []string{}
	if explicit == "" {
		dates, err := h.store.ListPropDates(ctx)
		if err != nil {
			return "", fmt.Errorf("list prop dates: %w", err)
		}
		known = dates
	}
	return edge.ResolveDate(explicit, known)
}

func filterByDate(lines []models.PropLine, date string) []models.PropLine {
	out := make([]models.PropLine, 0, len(lines))
	for i := range lines {
		if lines[i].Date == date {
			out = append(out, lines[i])
		}
	}
	return out
}

func knownSource(source string) bool {
	for _, s := range models.Sources {
		if s == source {
			return true
		}
	}
	return false
}

func parseIntParam(r *http.Request, param string, defaultValue int) (int, error) {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected an integer", param, valueStr)
	}
	return value, nil
}

func parseFloatParam(r *http.Request, param string, defaultValue float64) (float64, error) {
	valueStr := r.URL.Query().Get(param)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected a number", param, valueStr)
	}
	return value, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("error encoding response: %v\n", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		fmt.Printf("error: %s: %v\n", message, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		fmt.Printf("error encoding error response: %v\n", err)
	}
}
