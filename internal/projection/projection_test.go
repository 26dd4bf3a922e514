package projection_test

import (
	"reflect"
	"testing"

	"github.com/taylor26fl-cyber/Protracker-v1/internal/projection"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
)

func fptr(v float64) *float64 { return &v }

func twoGameLogs() []models.GameLog {
	return []models.GameLog{
		{PlayerID: "1", PlayerName: "Test Player", GameDate: "2025-01-01", Points: fptr(20)},
		{PlayerID: "1", PlayerName: "Test Player", GameDate: "2025-01-03", Points: fptr(30)},
	}
}

func TestProjectFlat(t *testing.T) {
	proj := projection.Project(twoGameLogs(), projection.Target{PlayerID: "1"}, "points", 2, projection.ModeFlat)

	if proj == nil {
		t.Fatal("expected a projection")
	}
	if proj.Stat != models.StatPoints {
		t.Errorf("stat = %s, want points", proj.Stat)
	}
	if proj.GamesUsed != 2 {
		t.Errorf("gamesUsed = %d, want 2", proj.GamesUsed)
	}
	if proj.Projection != 25.0 {
		t.Errorf("projection = %f, want 25.0", proj.Projection)
	}
}

func TestProjectWeighted(t *testing.T) {
	proj := projection.Project(twoGameLogs(), projection.Target{PlayerID: "1"}, "points", 2, projection.ModeWeighted)

	if proj == nil {
		t.Fatal("expected a projection")
	}
	// Most recent game (30) weighs 2, older (20) weighs 1: 80/3 = 26.67
	if proj.Projection != 26.67 {
		t.Errorf("projection = %f, want 26.67", proj.Projection)
	}
	if proj.GamesUsed != 2 {
		t.Errorf("gamesUsed = %d, want 2", proj.GamesUsed)
	}
}

func TestProjectIdempotent(t *testing.T) {
	logs := twoGameLogs()
	target := projection.Target{PlayerID: "1"}

	first := projection.Project(logs, target, "points", 2, projection.ModeWeighted)
	second := projection.Project(logs, target, "points", 2, projection.ModeWeighted)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("projection not idempotent: %+v vs %+v", first, second)
	}
}

func TestProjectWindowLargerThanHistory(t *testing.T) {
	proj := projection.Project(twoGameLogs(), projection.Target{PlayerID: "1"}, "points", 10, projection.ModeFlat)

	if proj == nil {
		t.Fatal("expected a projection over available games")
	}
	if proj.GamesUsed != 2 {
		t.Errorf("gamesUsed = %d, want 2 (all available)", proj.GamesUsed)
	}
	if proj.Projection != 25.0 {
		t.Errorf("projection = %f, want 25.0", proj.Projection)
	}
}

func TestProjectWindowTruncates(t *testing.T) {
	logs := []models.GameLog{
		{PlayerID: "1", GameDate: "2025-01-01", Points: fptr(100)},
		{PlayerID: "1", GameDate: "2025-01-02", Points: fptr(20)},
		{PlayerID: "1", GameDate: "2025-01-03", Points: fptr(30)},
	}

	proj := projection.Project(logs, projection.Target{PlayerID: "1"}, "points", 2, projection.ModeFlat)

	if proj == nil {
		t.Fatal("expected a projection")
	}
	// Only the 2 most recent games count; the 100-point outlier ages out
	if proj.Projection != 25.0 || proj.GamesUsed != 2 {
		t.Errorf("got %+v, want 25.0 over 2 games", proj)
	}
}

func TestProjectSkipsLogsMissingTheStat(t *testing.T) {
	logs := []models.GameLog{
		{PlayerID: "1", GameDate: "2025-01-01", Points: fptr(20)},
		{PlayerID: "1", GameDate: "2025-01-04", Rebounds: fptr(9)}, // no points
		{PlayerID: "1", GameDate: "2025-01-03", Points: fptr(30)},
	}

	proj := projection.Project(logs, projection.Target{PlayerID: "1"}, "points", 2, projection.ModeFlat)

	if proj == nil {
		t.Fatal("expected a projection")
	}
	if proj.GamesUsed != 2 || proj.Projection != 25.0 {
		t.Errorf("got %+v, want 25.0 over the 2 logs carrying points", proj)
	}
}

func TestProjectNoProjectionCases(t *testing.T) {
	logs := twoGameLogs()

	tests := []struct {
		name   string
		target projection.Target
		stat   string
		window int
	}{
		{"Unrecognized stat", projection.Target{PlayerID: "1"}, "steals", 2},
		{"Unknown player", projection.Target{PlayerID: "404"}, "points", 2},
		{"No valid values for stat", projection.Target{PlayerID: "1"}, "assists", 2},
		{"Zero window", projection.Target{PlayerID: "1"}, "points", 0},
		{"Empty target never matches", projection.Target{}, "points", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if proj := projection.Project(logs, tt.target, tt.stat, tt.window, projection.ModeFlat); proj != nil {
				t.Errorf("expected no projection, got %+v", proj)
			}
		})
	}
}

func TestProjectNameFallbackMatching(t *testing.T) {
	logs := []models.GameLog{
		{PlayerName: "Derrick White", GameDate: "2025-01-01", Points: fptr(15)},
		{PlayerName: "derrick white", GameDate: "2025-01-03", Points: fptr(25)},
		{PlayerName: "Other Guy", GameDate: "2025-01-02", Points: fptr(50)},
	}

	proj := projection.Project(logs, projection.Target{PlayerName: "DERRICK WHITE"}, "points", 5, projection.ModeFlat)

	if proj == nil {
		t.Fatal("expected a projection via name matching")
	}
	if proj.GamesUsed != 2 || proj.Projection != 20.0 {
		t.Errorf("got %+v, want 20.0 over 2 games", proj)
	}
}

func TestProjectIDMatchingIgnoresName(t *testing.T) {
	logs := []models.GameLog{
		{PlayerID: "7", PlayerName: "Listed Name", GameDate: "2025-01-01", Points: fptr(10)},
		{PlayerID: "8", PlayerName: "Listed Name", GameDate: "2025-01-02", Points: fptr(40)},
	}

	// When the target has an id, same-named logs under other ids never match
	proj := projection.Project(logs, projection.Target{PlayerID: "7", PlayerName: "Listed Name"}, "points", 5, projection.ModeFlat)

	if proj == nil {
		t.Fatal("expected a projection")
	}
	if proj.GamesUsed != 1 || proj.Projection != 10.0 {
		t.Errorf("got %+v, want 10.0 over 1 game", proj)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want projection.Mode
	}{
		{"flat", projection.ModeFlat},
		{"FLAT", projection.ModeFlat},
		{"weighted", projection.ModeWeighted},
		{"", projection.ModeWeighted},
		{"bogus", projection.ModeWeighted},
	}

	for _, tt := range tests {
		if got := projection.ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
