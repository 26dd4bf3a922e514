package models

import "time"

// StatType identifies one of the four tracked player statistics
type StatType string

const (
	StatPoints   StatType = "points"
	StatRebounds StatType = "rebounds"
	StatAssists  StatType = "assists"
	StatThrees   StatType = "threes"
)

// AllStats lists the tracked statistics in display order
var AllStats = []StatType{StatPoints, StatRebounds, StatAssists, StatThrees}

// Prop line sources
const (
	SourceSGO      = "sgo"
	SourceHardRock = "hardrock"
)

// Sources lists the known prop feeds
var Sources = []string{SourceSGO, SourceHardRock}

// GameLog is one player's box-score line for one date.
// Stat values are pointers because upstream feeds omit stats a player
// didn't record; nil means "absent", not zero.
type GameLog struct {
	PlayerID   string   `json:"playerId,omitempty"`
	PlayerName string   `json:"playerName"`
	GameDate   string   `json:"gameDate"` // ISO YYYY-MM-DD
	Points     *float64 `json:"pts,omitempty"`
	Rebounds   *float64 `json:"reb,omitempty"`
	Assists    *float64 `json:"ast,omitempty"`
	Threes     *float64 `json:"threes,omitempty"`
}

// Stat returns the value of one tracked statistic, nil when absent
func (g *GameLog) Stat(stat StatType) *float64 {
	switch stat {
	case StatPoints:
		return g.Points
	case StatRebounds:
		return g.Rebounds
	case StatAssists:
		return g.Assists
	case StatThrees:
		return g.Threes
	}
	return nil
}

// PropLine is one sportsbook-quoted betting line
type PropLine struct {
	ID         int64    `json:"id,omitempty"`
	Source     string   `json:"source"`
	Date       string   `json:"date"` // ISO YYYY-MM-DD
	PlayerID   string   `json:"playerId,omitempty"`
	PlayerName string   `json:"playerName"`
	Team       string   `json:"team,omitempty"`
	StatType   string   `json:"statType"` // free-text label, canonicalized downstream
	Line       *float64 `json:"line"`
}

// Projection is the rolling projector's output for one player+stat+window.
// Recomputed on every request, never persisted.
type Projection struct {
	Stat       StatType `json:"stat"`
	GamesUsed  int      `json:"gamesUsed"`
	Projection float64  `json:"projection"`
}

// Edge compares a projection against a quoted line
type Edge struct {
	Tier       string   `json:"tier"`
	Date       string   `json:"date"`
	Source     string   `json:"source"`
	PlayerID   string   `json:"playerId,omitempty"`
	PlayerName string   `json:"playerName"`
	Team       string   `json:"team,omitempty"`
	Stat       StatType `json:"stat"`
	GamesUsed  int      `json:"gamesUsed"`
	Projection float64  `json:"projection"`
	Line       float64  `json:"line"`
	Edge       float64  `json:"edge"`
	AbsEdge    float64  `json:"absEdge"`
}

// Snapshot is a point-in-time copy of one date's prop lines from both
// sources. Re-archiving a date overwrites the previous snapshot.
type Snapshot struct {
	TS       int64      `json:"ts"` // unix millis at capture
	SGO      []PropLine `json:"sgo"`
	HardRock []PropLine `json:"hardrock"`
}

// BySource returns the snapshot's lines for a source tag
func (s *Snapshot) BySource(source string) []PropLine {
	switch source {
	case SourceSGO:
		return s.SGO
	case SourceHardRock:
		return s.HardRock
	}
	return nil
}

// Move is one detected line movement between a snapshot and the live set
type Move struct {
	Source     string   `json:"source"`
	PlayerID   string   `json:"playerId,omitempty"`
	PlayerName string   `json:"playerName"`
	StatType   StatType `json:"statType"`
	OpenLine   float64  `json:"openLine"`
	CurLine    float64  `json:"curLine"`
	Delta      float64  `json:"delta"`
	AbsDelta   float64  `json:"absDelta"`
}

// LeaderboardEntry is one ranked player on a per-stat leaderboard
type LeaderboardEntry struct {
	PlayerID   string  `json:"playerId,omitempty"`
	PlayerName string  `json:"playerName"`
	GP         int     `json:"gp"`
	PerGame    float64 `json:"perGame"`
}

// Leaderboards holds the top players per tracked stat
type Leaderboards struct {
	Points   []LeaderboardEntry `json:"points"`
	Rebounds []LeaderboardEntry `json:"rebounds"`
	Assists  []LeaderboardEntry `json:"assists"`
	Threes   []LeaderboardEntry `json:"threes"`
}

// CachedLeaderboards wraps leaderboards with the warm timestamp
type CachedLeaderboards struct {
	WarmedAt     time.Time    `json:"warmedAt"`
	Leaderboards Leaderboards `json:"leaderboards"`
}

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
