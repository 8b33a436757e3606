// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/labongofred/E-voting-system-backend/models"
)

// TallyCounts are the turnout aggregates computed alongside the ranking,
// read from the same snapshot as the vote counts.
type TallyCounts struct {
	VotersCast     int
	EligibleVoters int
}

// ComputeTally produces the ranked result for every position with at
// least one approved candidate, plus turnout counts. All reads run inside
// one repeatable-read transaction so a tally taken during active casting
// is internally consistent, even though the next call may see more votes.
func ComputeTally(ctx context.Context, db *sql.DB) ([]models.PositionResult, TallyCounts, error) {
	var counts TallyCounts

	tx, err := db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, counts, fmt.Errorf("failed to begin tally transaction: %w", err)
	}
	defer tx.Rollback()

	// Only approved candidates count; candidates without votes still
	// appear with a zero count.
	rows, err := tx.QueryContext(ctx, `
		SELECT p.id, p.name, p.seats, c.id, c.name, COUNT(v.id)
		FROM position p
		JOIN candidate c ON c.position_id = p.id AND c.status = 'APPROVED'
		LEFT JOIN vote v ON v.candidate_id = c.id
		GROUP BY p.id, p.name, p.seats, c.id, c.name
		ORDER BY p.id, c.id
	`)
	if err != nil {
		return nil, counts, fmt.Errorf("failed to query vote counts: %w", err)
	}
	defer rows.Close()

	var results []models.PositionResult
	byPosition := make(map[int64]int) // position id -> index in results

	for rows.Next() {
		var (
			posID, candID     int64
			posName, candName string
			seats, voteCount  int
		)
		if err := rows.Scan(&posID, &posName, &seats, &candID, &candName, &voteCount); err != nil {
			return nil, counts, fmt.Errorf("failed to scan vote count row: %w", err)
		}

		idx, ok := byPosition[posID]
		if !ok {
			idx = len(results)
			byPosition[posID] = idx
			results = append(results, models.PositionResult{
				ID:    posID,
				Name:  posName,
				Seats: seats,
			})
		}
		results[idx].Candidates = append(results[idx].Candidates, models.CandidateResult{
			ID:        candID,
			Name:      candName,
			VoteCount: voteCount,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, counts, fmt.Errorf("failed to read vote counts: %w", err)
	}

	for i := range results {
		rankCandidates(&results[i])
	}

	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(id) FROM verification WHERE consumed_at IS NOT NULL
	`).Scan(&counts.VotersCast)
	if err != nil {
		return nil, counts, fmt.Errorf("failed to count voters cast: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(id) FROM eligible_voter WHERE status = 'ELIGIBLE'
	`).Scan(&counts.EligibleVoters)
	if err != nil {
		return nil, counts, fmt.Errorf("failed to count eligible voters: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, counts, fmt.Errorf("failed to close tally transaction: %w", err)
	}

	return results, counts, nil
}

// rankCandidates orders a position's candidates and classifies them
// against the seat count. Ties on vote count break by ascending candidate
// id, so a fixed ledger always yields the same ranking.
func rankCandidates(pos *models.PositionResult) {
	sort.Slice(pos.Candidates, func(i, j int) bool {
		a, b := pos.Candidates[i], pos.Candidates[j]

		// 1. Higher vote count wins
		if a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}

		// 2. Stable tie-breaking by candidate id (ascending)
		return a.ID < b.ID
	})

	pos.Winners = 0
	for i := range pos.Candidates {
		pos.Candidates[i].Rank = i + 1
		if pos.Candidates[i].Rank <= pos.Seats {
			pos.Candidates[i].Status = models.ResultWinner
			pos.Winners++
		} else {
			pos.Candidates[i].Status = models.ResultLoser
		}
	}
}

// TurnoutPercentage formats votersCast/eligible as a percentage with two
// decimals. Zero eligible voters reports "0.00" rather than an error.
func TurnoutPercentage(votersCast, eligible int) string {
	if eligible <= 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(votersCast)/float64(eligible)*100)
}
