// Package normalize turns loosely-shaped upstream records into the
// canonical types the rest of the service consumes. Upstream feeds
// disagree on field names, so each logical field is resolved by probing
// an ordered list of alternatives; the first defined value wins.
// Probing happens once, at the import boundary.
package normalize

import (
	"strconv"
	"strings"

	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/propmath"
)

// Ordered field-name alternatives per logical field
var (
	playerIDKeys   = []string{"playerId", "player_id", "pid"}
	playerNameKeys = []string{"playerName", "player_name", "name", "player"}
	teamKeys       = []string{"team", "teamAbbr", "team_abbr"}
	gameDateKeys   = []string{"gameDate", "game_date", "date"}
	propDateKeys   = []string{"date", "propDate", "prop_date", "gameDate"}
	statTypeKeys   = []string{"statType", "stat_type", "stat", "market", "prop"}
	lineKeys       = []string{"line", "value", "points", "total", "threshold", "number"}

	statValueKeys = map[models.StatType][]string{
		models.StatPoints:   {"pts", "points", "PTS"},
		models.StatRebounds: {"reb", "rebounds", "REB"},
		models.StatAssists:  {"ast", "assists", "AST"},
		models.StatThrees:   {"threes", "fg3m", "threesMade", "three_pm", "3pm"},
	}
)

// String probes keys in order and returns the first defined non-empty
// value, stringifying numeric ids along the way
func String(rec map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			// JSON numbers decode as float64; ids come through clean
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		}
	}
	return ""
}

// Number probes keys in order and returns the first value that parses
// to a finite number
func Number(rec map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFinite(v); ok {
			return f, true
		}
	}
	return 0, false
}

func toFinite(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if propmath.IsFinite(t) {
			return t, true
		}
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err == nil && propmath.IsFinite(f) {
			return f, true
		}
	}
	return 0, false
}

// PlayerID resolves the player id field
func PlayerID(rec map[string]interface{}) string {
	return String(rec, playerIDKeys...)
}

// PlayerName resolves the player name field
func PlayerName(rec map[string]interface{}) string {
	return String(rec, playerNameKeys...)
}

// Team resolves the team tag
func Team(rec map[string]interface{}) string {
	return String(rec, teamKeys...)
}

// GameDate resolves a game log's date field
func GameDate(rec map[string]interface{}) string {
	return String(rec, gameDateKeys...)
}

// PropDate resolves a prop line's date field
func PropDate(rec map[string]interface{}) string {
	return String(rec, propDateKeys...)
}

// StatLabel resolves a prop line's free-text stat label
func StatLabel(rec map[string]interface{}) string {
	return String(rec, statTypeKeys...)
}

// LineValue resolves a prop line's numeric threshold
func LineValue(rec map[string]interface{}) (float64, bool) {
	return Number(rec, lineKeys...)
}

// Stat maps a free-text stat label to a canonical StatType. The threes
// rule runs first because labels like "3-pointers made" also contain
// "point". Returns false for unrecognized labels; callers skip those
// records.
func Stat(label string) (models.StatType, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return "", false
	}
	switch {
	case l == "3pm",
		strings.Contains(l, "3") && (strings.Contains(l, "made") || strings.Contains(l, "pm") || strings.Contains(l, "three")):
		return models.StatThrees, true
	case strings.Contains(l, "point") || l == "pts":
		return models.StatPoints, true
	case strings.Contains(l, "rebound") || l == "reb":
		return models.StatRebounds, true
	case strings.Contains(l, "assist") || l == "ast":
		return models.StatAssists, true
	}
	return "", false
}

// CanonicalName lowercases a player name, trims it, and collapses
// internal whitespace. Used for identity matching when no player id is
// available.
func CanonicalName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// GameLogFromRecord builds a canonical GameLog from a loose record.
// Returns false when the record carries no usable identity.
func GameLogFromRecord(rec map[string]interface{}) (models.GameLog, bool) {
	log := models.GameLog{
		PlayerID:   PlayerID(rec),
		PlayerName: PlayerName(rec),
		GameDate:   GameDate(rec),
	}
	if log.PlayerID == "" && log.PlayerName == "" {
		return models.GameLog{}, false
	}
	for stat, keys := range statValueKeys {
		if v, ok := Number(rec, keys...); ok {
			setStat(&log, stat, v)
		}
	}
	return log, true
}

func setStat(log *models.GameLog, stat models.StatType, v float64) {
	switch stat {
	case models.StatPoints:
		log.Points = &v
	case models.StatRebounds:
		log.Rebounds = &v
	case models.StatAssists:
		log.Assists = &v
	case models.StatThrees:
		log.Threes = &v
	}
}

// PropLineFromRecord builds a canonical PropLine from a loose record.
// The stat label is kept as-is; canonicalization happens where the line
// is consumed. Returns false when the record carries no usable identity.
func PropLineFromRecord(rec map[string]interface{}, source string) (models.PropLine, bool) {
	line := models.PropLine{
		Source:     source,
		Date:       PropDate(rec),
		PlayerID:   PlayerID(rec),
		PlayerName: PlayerName(rec),
		Team:       Team(rec),
		StatType:   StatLabel(rec),
	}
	if line.PlayerID == "" && line.PlayerName == "" {
		return models.PropLine{}, false
	}
	if v, ok := LineValue(rec); ok {
		line.Line = &v
	}
	return line, true
}
