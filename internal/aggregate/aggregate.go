// Package aggregate computes season-to-date per-game averages and the
// top-25 leaderboards per tracked stat. It is a pure read-side
// computation; caching lives with the caller.
package aggregate

import (
	"sort"

	"github.com/taylor26fl-cyber/Protracker-v1/internal/normalize"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/models"
	"github.com/taylor26fl-cyber/Protracker-v1/pkg/propmath"
)

// LeaderboardSize caps each per-stat leaderboard
const LeaderboardSize = 25

type playerTotals struct {
	playerID   string
	playerName string
	gp         int
	sums       map[models.StatType]float64
}

// Leaderboards groups game logs by player identity, computes per-game
// averages across the four tracked stats, and returns the ranked
// top-25 per stat. A log counts toward games played only when at least
// one tracked stat is present; players with zero counted games are
// excluded.
func Leaderboards(logs []models.GameLog) models.Leaderboards {
	totals := make(map[string]*playerTotals)
	order := make([]string, 0) // encounter order, for stable ranking

	for i := range logs {
		log := &logs[i]
		key := identityKey(log.PlayerID, log.PlayerName)
		if key == "" {
			continue
		}

		counted := false
		for _, stat := range models.AllStats {
			if log.Stat(stat) != nil {
				counted = true
				break
			}
		}
		if !counted {
			continue
		}

		pt, ok := totals[key]
		if !ok {
			pt = &playerTotals{
				playerID:   log.PlayerID,
				playerName: log.PlayerName,
				sums:       make(map[models.StatType]float64),
			}
			totals[key] = pt
			order = append(order, key)
		}

		pt.gp++
		for _, stat := range models.AllStats {
			if v := log.Stat(stat); v != nil {
				pt.sums[stat] += *v
			}
		}
	}

	return models.Leaderboards{
		Points:   rank(totals, order, models.StatPoints),
		Rebounds: rank(totals, order, models.StatRebounds),
		Assists:  rank(totals, order, models.StatAssists),
		Threes:   rank(totals, order, models.StatThrees),
	}
}

func rank(totals map[string]*playerTotals, order []string, stat models.StatType) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, len(order))
	for _, key := range order {
		pt := totals[key]
		entries = append(entries, models.LeaderboardEntry{
			PlayerID:   pt.playerID,
			PlayerName: pt.playerName,
			GP:         pt.gp,
			PerGame:    propmath.Round2(pt.sums[stat] / float64(pt.gp)),
		})
	}

	// Stable sort keeps encounter order on equal per-game averages
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PerGame > entries[j].PerGame
	})

	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	return entries
}

// identityKey prefers the player id, falling back to the canonical name
func identityKey(playerID, playerName string) string {
	if playerID != "" {
		return "id:" + playerID
	}
	if name := normalize.CanonicalName(playerName); name != "" {
		return "name:" + name
	}
	return ""
}
