// Package edge joins current prop lines against rolling projections,
// computes signed and absolute edges, and buckets results into tiers.
package edge

import (
	"fmt"
	"sort"

	"github.com/taylor26fl-cyber/Protracker-v1/internal/dates"
	"github.com/taylor26fl-cyber/Protracker-v1/internal/normalize"
	"github.com/taylor26fl-cyber/Protracker-v1/internal/projection"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/propmath"
)

// Window bounds for projections
const (
	MinWindow     = 1
	MaxWindow     = 30
	DefaultWindow = 10
)

// Config holds the tunable parameters of one detection run
type Config struct {
	Window     int
	MinEdge    float64
	Mode       projection.Mode
	Thresholds propmath.TierThresholds
}

// DefaultConfig returns the canonical detection parameters
func DefaultConfig() Config {
	return Config{
		Window:     DefaultWindow,
		MinEdge:    0,
		Mode:       projection.ModeWeighted,
		Thresholds: propmath.DefaultTierThresholds(),
	}
}

// ClampWindow forces a window into the sane [MinWindow, MaxWindow] range
func ClampWindow(w int) int {
	if w < MinWindow {
		return DefaultWindow
	}
	if w > MaxWindow {
		return MaxWindow
	}
	return w
}

// Counts reports how many edges landed in each tier
type Counts struct {
	A int `json:"a"`
	B int `json:"b"`
	C int `json:"c"`
}

// Report is the output of one detection run
type Report struct {
	Date       string                  `json:"date"`
	Window     int                     `json:"window"`
	Mode       projection.Mode         `json:"mode"`
	MinEdge    float64                 `json:"minEdge"`
	Thresholds propmath.TierThresholds `json:"thresholds"`
	Counts     Counts                  `json:"counts"`
	TierA      []models.Edge           `json:"tierA"`
	TierB      []models.Edge           `json:"tierB"`
	TierC      []models.Edge           `json:"tierC"`
}

// Flatten returns all edges ordered A before B before C, each tier
// already sorted by absolute edge descending
func (r *Report) Flatten() []models.Edge {
	out := make([]models.Edge, 0, len(r.TierA)+len(r.TierB)+len(r.TierC))
	out = append(out, r.TierA...)
	out = append(out, r.TierB...)
	out = append(out, r.TierC...)
	return out
}

// ResolveDate validates an explicit date or applies the active-date
// policy over the known prop-line dates. A malformed explicit date is
// a validation error, never silently coerced.
func ResolveDate(explicit string, known []string) (string, error) {
	if explicit != "" {
		if err := dates.Validate(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}
	return dates.ResolveActive(known, dates.Today()), nil
}

// Detect runs edge detection for one date over the full game-log
// collection and the per-source prop lines. Individual bad records
// (unknown stat, no logs, no usable line) are skipped, never fatal.
func Detect(logs []models.GameLog, props map[string][]models.PropLine, date string, cfg Config) Report {
	cfg.Window = ClampWindow(cfg.Window)

	report := Report{
		Date:       date,
		Window:     cfg.Window,
		Mode:       cfg.Mode,
		MinEdge:    cfg.MinEdge,
		Thresholds: cfg.Thresholds,
		TierA:      []models.Edge{},
		TierB:      []models.Edge{},
		TierC:      []models.Edge{},
	}

	for _, source := range models.Sources {
		for i := range props[source] {
			prop := &props[source][i]
			if prop.Date != date {
				continue
			}
			if e, ok := evaluate(logs, prop, cfg); ok {
				switch e.Tier {
				case propmath.TierA:
					report.TierA = append(report.TierA, e)
				case propmath.TierB:
					report.TierB = append(report.TierB, e)
				default:
					report.TierC = append(report.TierC, e)
				}
			}
		}
	}

	sortByAbsEdge(report.TierA)
	sortByAbsEdge(report.TierB)
	sortByAbsEdge(report.TierC)

	report.Counts = Counts{A: len(report.TierA), B: len(report.TierB), C: len(report.TierC)}
	return report
}

// evaluate scores a single prop line, reporting ok=false for every
// skip condition
func evaluate(logs []models.GameLog, prop *models.PropLine, cfg Config) (models.Edge, bool) {
	if _, ok := normalize.Stat(prop.StatType); !ok {
		return models.Edge{}, false
	}
	if prop.Line == nil {
		return models.Edge{}, false
	}

	target := projection.Target{PlayerID: prop.PlayerID, PlayerName: prop.PlayerName}
	proj := projection.Project(logs, target, prop.StatType, cfg.Window, cfg.Mode)
	if proj == nil {
		return models.Edge{}, false
	}

	edgeVal := propmath.Round2(proj.Projection - *prop.Line)
	absEdge := propmath.Round2(abs(edgeVal))
	if absEdge < cfg.MinEdge {
		return models.Edge{}, false
	}

	return models.Edge{
		Tier:       cfg.Thresholds.TierFor(absEdge),
		Date:       prop.Date,
		Source:     prop.Source,
		PlayerID:   prop.PlayerID,
		PlayerName: prop.PlayerName,
		Team:       prop.Team,
		Stat:       proj.Stat,
		GamesUsed:  proj.GamesUsed,
		Projection: proj.Projection,
		Line:       *prop.Line,
		Edge:       edgeVal,
		AbsEdge:    absEdge,
	}, true
}

func sortByAbsEdge(edges []models.Edge) {
	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].AbsEdge > edges[j].AbsEdge
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// String implements a compact description for logging
func (c Counts) String() string {
	return fmt.Sprintf("A=%d B=%d C=%d", c.A, c.B, c.C)
}
