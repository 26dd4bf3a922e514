// Package projection computes rolling statistical projections over a
// player's most recent N games, in flat (arithmetic mean) or weighted
// (recency-weighted mean) mode.
package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/taylor26fl-cyber/Protracker-v1/internal/dates"
	"github.com/taylor26fl-cyber/Protracker-v1/internal/normalize"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/propmath"
)

// Mode selects the averaging strategy
type Mode string

const (
	ModeFlat     Mode = "flat"
	ModeWeighted Mode = "weighted"
)

// ParseMode maps a raw mode parameter to a Mode, defaulting to weighted
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeFlat)) {
		return ModeFlat
	}
	return ModeWeighted
}

// Target identifies the player to project. Matching is by id when the
// target has one, otherwise by case-insensitive exact name.
type Target struct {
	PlayerID   string
	PlayerName string
}

// Project computes the rolling projection for one player and stat over
// the most recent `window` games. Returns nil when the stat label is
// unrecognized or no windowed log carries a usable value; callers skip
// those players rather than treating nil as an error.
func Project(logs []models.GameLog, target Target, statLabel string, window int, mode Mode) *models.Projection {
	stat, ok := normalize.Stat(statLabel)
	if !ok {
		return nil
	}
	if window < 1 {
		return nil
	}

	matched := matchLogs(logs, target)
	sortByDateDesc(matched)

	// Collect up to `window` finite values in most-recent-first order
	values := make([]float64, 0, window)
	for i := range matched {
		if v := matched[i].Stat(stat); v != nil {
			values = append(values, *v)
			if len(values) == window {
				break
			}
		}
	}
	if len(values) == 0 {
		return nil
	}

	var proj float64
	switch mode {
	case ModeFlat:
		proj = propmath.Mean(values)
	default:
		proj = propmath.WeightedMean(values, window)
	}

	return &models.Projection{
		Stat:       stat,
		GamesUsed:  len(values),
		Projection: propmath.Round2(proj),
	}
}

// matchLogs filters logs to the target's. Id equality when the target
// has an id; otherwise case-insensitive exact name. Logs with neither
// field never match.
func matchLogs(logs []models.GameLog, target Target) []models.GameLog {
	matched := make([]models.GameLog, 0)
	for i := range logs {
		log := logs[i]
		if target.PlayerID != "" {
			if log.PlayerID == target.PlayerID {
				matched = append(matched, log)
			}
			continue
		}
		if target.PlayerName == "" || log.PlayerName == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(log.PlayerName), strings.TrimSpace(target.PlayerName)) {
			matched = append(matched, log)
		}
	}
	return matched
}

// sortByDateDesc orders logs most recent first. Logs with unparseable
// dates sort to the end; their relative order is not meaningful.
func sortByDateDesc(logs []models.GameLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return parseDate(logs[i].GameDate).After(parseDate(logs[j].GameDate))
	})
}

func parseDate(s string) time.Time {
	t, err := time.Parse(dates.ISOLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
