package normalize_test

import (
	"testing"

	"github.com/taylor26fl-cyber/Protracker-v1/internal/normalize"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
)

func TestStat(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  models.StatType
		ok    bool
	}{
		{"Points exact", "points", models.StatPoints, true},
		{"Points cased", "Points", models.StatPoints, true},
		{"Pts abbreviation", "PTS", models.StatPoints, true},
		{"Player points market", "player_points", models.StatPoints, true},
		{"Rebounds", "rebounds", models.StatRebounds, true},
		{"Reb abbreviation", "REB", models.StatRebounds, true},
		{"Assists", "Assists", models.StatAssists, true},
		{"Ast abbreviation", "ast", models.StatAssists, true},
		{"3PM exact", "3PM", models.StatThrees, true},
		{"Threes made", "3s made", models.StatThrees, true},
		{"Three pointers made wins over points", "3-pointers made", models.StatThrees, true},
		{"Player 3pm market", "player_3pm", models.StatThrees, true},
		{"Unrecognized", "steals", "", false},
		{"Empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalize.Stat(tt.label)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Stat(%q) = (%q, %v), want (%q, %v)", tt.label, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestStringProbeOrder(t *testing.T) {
	rec := map[string]interface{}{
		"player_id": "fallback",
		"playerId":  "primary",
	}

	if got := normalize.PlayerID(rec); got != "primary" {
		t.Errorf("PlayerID = %q, want first alternative to win", got)
	}

	// Numeric ids stringify cleanly
	numRec := map[string]interface{}{"pid": float64(203999)}
	if got := normalize.PlayerID(numRec); got != "203999" {
		t.Errorf("PlayerID numeric = %q, want 203999", got)
	}
}

func TestLineValue(t *testing.T) {
	tests := []struct {
		name string
		rec  map[string]interface{}
		want float64
		ok   bool
	}{
		{"Line field", map[string]interface{}{"line": 24.5}, 24.5, true},
		{"Value fallback", map[string]interface{}{"value": "7.5"}, 7.5, true},
		{"Line beats total", map[string]interface{}{"total": 10.0, "line": 8.5}, 8.5, true},
		{"Skips unparseable to next candidate", map[string]interface{}{"line": "n/a", "threshold": 6.5}, 6.5, true},
		{"Nothing numeric", map[string]interface{}{"line": "off"}, 0, false},
		{"Empty record", map[string]interface{}{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalize.LineValue(tt.rec)
			if ok != tt.ok || got != tt.want {
				t.Errorf("LineValue = (%f, %v), want (%f, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Simple", "LeBron James", "lebron james"},
		{"Internal whitespace collapsed", "  LeBron   James ", "lebron james"},
		{"Empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize.CanonicalName(tt.in); got != tt.want {
				t.Errorf("CanonicalName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGameLogFromRecord(t *testing.T) {
	rec := map[string]interface{}{
		"player_id": "1628369",
		"name":      "Jayson Tatum",
		"game_date": "2025-01-03",
		"pts":       30.0,
		"reb":       "8",
		"fg3m":      4.0,
	}

	log, ok := normalize.GameLogFromRecord(rec)
	if !ok {
		t.Fatal("expected record to normalize")
	}
	if log.PlayerID != "1628369" || log.PlayerName != "Jayson Tatum" || log.GameDate != "2025-01-03" {
		t.Errorf("identity fields wrong: %+v", log)
	}
	if log.Points == nil || *log.Points != 30 {
		t.Errorf("points = %v, want 30", log.Points)
	}
	if log.Rebounds == nil || *log.Rebounds != 8 {
		t.Errorf("rebounds = %v, want 8 (string should parse)", log.Rebounds)
	}
	if log.Threes == nil || *log.Threes != 4 {
		t.Errorf("threes = %v, want 4", log.Threes)
	}
	if log.Assists != nil {
		t.Errorf("assists = %v, want nil for absent stat", log.Assists)
	}

	if _, ok := normalize.GameLogFromRecord(map[string]interface{}{"pts": 10.0}); ok {
		t.Error("record with no identity should not normalize")
	}
}

func TestPropLineFromRecord(t *testing.T) {
	rec := map[string]interface{}{
		"date":     "2025-01-05",
		"playerId": "1",
		"player":   "Test Player",
		"statType": "points",
		"line":     24.0,
		"team":     "BOS",
	}

	line, ok := normalize.PropLineFromRecord(rec, models.SourceSGO)
	if !ok {
		t.Fatal("expected record to normalize")
	}
	if line.Source != models.SourceSGO || line.Date != "2025-01-05" {
		t.Errorf("source/date wrong: %+v", line)
	}
	if line.Line == nil || *line.Line != 24 {
		t.Errorf("line = %v, want 24", line.Line)
	}

	// Missing line value is kept as nil, not dropped: the differ and
	// edge engine decide what to do with it
	noLine, ok := normalize.PropLineFromRecord(map[string]interface{}{
		"playerId": "2", "statType": "assists", "date": "2025-01-05",
	}, models.SourceHardRock)
	if !ok {
		t.Fatal("expected record without line to normalize")
	}
	if noLine.Line != nil {
		t.Errorf("line = %v, want nil", noLine.Line)
	}
}
