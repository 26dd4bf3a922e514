// Package linemoves compares an archived snapshot of prop lines
// against the live set to detect and quantify line movement. Matching
// ignores the line value itself: the key is the stable identity
// (source, player, canonical stat), so only value changes surface.
package linemoves

import (
	"sort"

	"github.com/taylor26fl-cyber/Protracker-v1/internal/normalize"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
)

// SourceAll disables source filtering
const SourceAll = "all"

// DefaultLimit caps the move list when the caller doesn't specify one
const DefaultLimit = 50

// SourceCounts reports archived and current entry counts per source
type SourceCounts struct {
	Archived map[string]int `json:"archived"`
	Current  map[string]int `json:"current"`
}

// Report is the output of one diff run
type Report struct {
	Date       string        `json:"date"`
	Exists     bool          `json:"exists"`
	Source     string        `json:"source"`
	Counts     SourceCounts  `json:"counts"`
	TotalMoves int           `json:"totalMoves"` // pre-truncation
	Moves      []models.Move `json:"moves"`
	Message    string        `json:"message,omitempty"`
}

// NotFound builds the explicit "archive missing" result. It is a
// legitimate empty state, not an error: the caller needs to archive
// the date before moves can be diffed.
func NotFound(date, source string) Report {
	return Report{
		Date:    date,
		Exists:  false,
		Source:  source,
		Moves:   []models.Move{},
		Message: "no archive for date; run archive first",
	}
}

// Diff compares snapshot lines against the live per-source sets.
// Archived entries index only when their line is finite; a move is
// emitted only when the live line differs. Moves sort by |delta|
// descending and truncate to limit.
func Diff(snap *models.Snapshot, live map[string][]models.PropLine, date, source string, limit int) Report {
	if snap == nil {
		return NotFound(date, source)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	report := Report{
		Date:   date,
		Exists: true,
		Source: source,
		Counts: SourceCounts{
			Archived: make(map[string]int),
			Current:  make(map[string]int),
		},
		Moves: []models.Move{},
	}

	// Index archived lines by identity key
	open := make(map[string]float64)
	for _, src := range models.Sources {
		if !sourceMatches(source, src) {
			continue
		}
		archived := snap.BySource(src)
		report.Counts.Archived[src] = len(archived)
		for i := range archived {
			if key, val, ok := entryKey(&archived[i], src); ok {
				open[key] = val
			}
		}
	}

	for _, src := range models.Sources {
		if !sourceMatches(source, src) {
			continue
		}
		report.Counts.Current[src] = len(live[src])
		for i := range live[src] {
			cur := &live[src][i]
			key, curVal, ok := entryKey(cur, src)
			if !ok {
				continue
			}
			openVal, found := open[key]
			if !found {
				continue
			}
			delta := curVal - openVal
			if delta == 0 {
				continue
			}
			stat, _ := normalize.Stat(cur.StatType)
			report.Moves = append(report.Moves, models.Move{
				Source:     src,
				PlayerID:   cur.PlayerID,
				PlayerName: cur.PlayerName,
				StatType:   stat,
				OpenLine:   openVal,
				CurLine:    curVal,
				Delta:      delta,
				AbsDelta:   abs(delta),
			})
		}
	}

	sort.SliceStable(report.Moves, func(i, j int) bool {
		return report.Moves[i].AbsDelta > report.Moves[j].AbsDelta
	})

	report.TotalMoves = len(report.Moves)
	if len(report.Moves) > limit {
		report.Moves = report.Moves[:limit]
	}
	return report
}

// entryKey builds the (source, player, stat) identity key. Entries
// with an unrecognized stat, no identity, or a missing line value
// don't participate in the diff.
func entryKey(line *models.PropLine, source string) (string, float64, bool) {
	stat, ok := normalize.Stat(line.StatType)
	if !ok {
		return "", 0, false
	}
	ident := line.PlayerID
	if ident == "" {
		ident = normalize.CanonicalName(line.PlayerName)
	}
	if ident == "" {
		return "", 0, false
	}
	if line.Line == nil {
		return "", 0, false
	}
	return source + "|" + ident + "|" + string(stat), *line.Line, true
}

func sourceMatches(filter, source string) bool {
	return filter == "" || filter == SourceAll || filter == source
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
