package linemoves_test

import (
	"testing"

	"github.com/taylor26fl-cyber/Protracker-v1/internal/linemoves"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
)

func fptr(v float64) *float64 { return &v }

func line(source, playerID, name, stat string, value *float64) models.PropLine {
	return models.PropLine{
		Source:     source,
		Date:       "2025-01-05",
		PlayerID:   playerID,
		PlayerName: name,
		StatType:   stat,
		Line:       value,
	}
}

func TestDiffMissingArchive(t *testing.T) {
	report := linemoves.Diff(nil, nil, "2025-02-01", linemoves.SourceAll, 10)

	if report.Exists {
		t.Error("exists = true, want false for a never-archived date")
	}
	if len(report.Moves) != 0 || report.TotalMoves != 0 {
		t.Errorf("moves = %v, want empty", report.Moves)
	}
	if report.Message == "" {
		t.Error("missing-archive report should carry the instructive message")
	}
}

func TestDiffRoundTripYieldsNoMoves(t *testing.T) {
	lines := []models.PropLine{
		line(models.SourceSGO, "1", "Test Player", "points", fptr(24.5)),
		line(models.SourceSGO, "2", "Other Player", "assists", fptr(7.5)),
	}
	snap := &models.Snapshot{TS: 1, SGO: lines}
	live := map[string][]models.PropLine{models.SourceSGO: lines}

	report := linemoves.Diff(snap, live, "2025-01-05", linemoves.SourceAll, 10)

	if !report.Exists {
		t.Fatal("exists = false, want true")
	}
	if report.TotalMoves != 0 {
		t.Errorf("round trip produced %d moves, want 0", report.TotalMoves)
	}
	if report.Counts.Archived[models.SourceSGO] != 2 || report.Counts.Current[models.SourceSGO] != 2 {
		t.Errorf("counts = %+v, want 2 archived / 2 current for sgo", report.Counts)
	}
}

func TestDiffDetectsMoves(t *testing.T) {
	snap := &models.Snapshot{
		TS: 1,
		SGO: []models.PropLine{
			line(models.SourceSGO, "1", "Test Player", "points", fptr(24.5)),
			line(models.SourceSGO, "2", "Other Player", "rebounds", fptr(8.5)),
		},
		HardRock: []models.PropLine{
			line(models.SourceHardRock, "1", "Test Player", "points", fptr(25.5)),
		},
	}
	live := map[string][]models.PropLine{
		models.SourceSGO: {
			line(models.SourceSGO, "1", "Test Player", "points", fptr(26.5)),  // +2.0
			line(models.SourceSGO, "2", "Other Player", "rebounds", fptr(8.0)), // -0.5
		},
		models.SourceHardRock: {
			line(models.SourceHardRock, "1", "Test Player", "points", fptr(25.5)), // unchanged
		},
	}

	report := linemoves.Diff(snap, live, "2025-01-05", linemoves.SourceAll, 10)

	if report.TotalMoves != 2 {
		t.Fatalf("totalMoves = %d, want 2 (unchanged lines not reported)", report.TotalMoves)
	}

	// Sorted by absolute delta descending
	if report.Moves[0].Delta != 2.0 || report.Moves[0].AbsDelta != 2.0 {
		t.Errorf("first move = %+v, want the +2.0 points move", report.Moves[0])
	}
	if report.Moves[1].Delta != -0.5 || report.Moves[1].AbsDelta != 0.5 {
		t.Errorf("second move = %+v, want the -0.5 rebounds move", report.Moves[1])
	}

	for _, m := range report.Moves {
		if m.Delta == 0 {
			t.Errorf("move with zero delta emitted: %+v", m)
		}
		if m.AbsDelta != abs(m.CurLine-m.OpenLine) {
			t.Errorf("absDelta %f != |cur-open| %f", m.AbsDelta, abs(m.CurLine-m.OpenLine))
		}
	}
}

func TestDiffLimitTruncatesAfterCounting(t *testing.T) {
	snap := &models.Snapshot{TS: 1}
	live := map[string][]models.PropLine{models.SourceSGO: {}}
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		open := float64(10 + i)
		cur := open + float64(i+1) // deltas 1..5
		snap.SGO = append(snap.SGO, line(models.SourceSGO, id, "", "points", fptr(open)))
		live[models.SourceSGO] = append(live[models.SourceSGO], line(models.SourceSGO, id, "", "points", fptr(cur)))
	}

	report := linemoves.Diff(snap, live, "2025-01-05", linemoves.SourceAll, 2)

	if report.TotalMoves != 5 {
		t.Errorf("totalMoves = %d, want pre-truncation count of 5", report.TotalMoves)
	}
	if len(report.Moves) != 2 {
		t.Fatalf("returned %d moves, want limit of 2", len(report.Moves))
	}
	if report.Moves[0].AbsDelta != 5 || report.Moves[1].AbsDelta != 4 {
		t.Errorf("kept moves %v, want the two largest deltas", report.Moves)
	}
}

func TestDiffSourceFilter(t *testing.T) {
	snap := &models.Snapshot{
		TS:       1,
		SGO:      []models.PropLine{line(models.SourceSGO, "1", "", "points", fptr(10))},
		HardRock: []models.PropLine{line(models.SourceHardRock, "1", "", "points", fptr(10))},
	}
	live := map[string][]models.PropLine{
		models.SourceSGO:      {line(models.SourceSGO, "1", "", "points", fptr(12))},
		models.SourceHardRock: {line(models.SourceHardRock, "1", "", "points", fptr(13))},
	}

	report := linemoves.Diff(snap, live, "2025-01-05", models.SourceHardRock, 10)

	if report.TotalMoves != 1 {
		t.Fatalf("totalMoves = %d, want 1 (sgo filtered out)", report.TotalMoves)
	}
	if report.Moves[0].Source != models.SourceHardRock || report.Moves[0].Delta != 3 {
		t.Errorf("move = %+v, want the hardrock +3 move", report.Moves[0])
	}
	if _, ok := report.Counts.Archived[models.SourceSGO]; ok {
		t.Error("filtered source should not appear in counts")
	}
}

func TestDiffNameKeyNormalization(t *testing.T) {
	// No player ids: whitespace and case variants of a name must match
	snap := &models.Snapshot{
		TS:  1,
		SGO: []models.PropLine{line(models.SourceSGO, "", "Jayson  Tatum", "points", fptr(27.5))},
	}
	live := map[string][]models.PropLine{
		models.SourceSGO: {line(models.SourceSGO, "", "  jayson tatum ", "points", fptr(29.5))},
	}

	report := linemoves.Diff(snap, live, "2025-01-05", linemoves.SourceAll, 10)

	if report.TotalMoves != 1 {
		t.Fatalf("totalMoves = %d, want 1 via normalized-name matching", report.TotalMoves)
	}
	if report.Moves[0].Delta != 2.0 {
		t.Errorf("delta = %f, want 2.0", report.Moves[0].Delta)
	}
}

func TestDiffIgnoresUnparseableLines(t *testing.T) {
	snap := &models.Snapshot{
		TS: 1,
		SGO: []models.PropLine{
			line(models.SourceSGO, "1", "", "points", nil),       // no open value: never indexed
			line(models.SourceSGO, "2", "", "steals", fptr(2.5)), // unknown stat: never indexed
			line(models.SourceSGO, "3", "", "points", fptr(20)),
		},
	}
	live := map[string][]models.PropLine{
		models.SourceSGO: {
			line(models.SourceSGO, "1", "", "points", fptr(11)),
			line(models.SourceSGO, "3", "", "points", nil), // live value missing: no move
		},
	}

	report := linemoves.Diff(snap, live, "2025-01-05", linemoves.SourceAll, 10)

	if report.TotalMoves != 0 {
		t.Errorf("totalMoves = %d, want 0", report.TotalMoves)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
