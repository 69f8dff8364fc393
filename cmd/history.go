package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type historyRow struct {
	Sequence    int    `json:"sequence"`
	FullPath    string `json:"full_path"`
	DisplayName string `json:"display_name"`
	Playback    string `json:"playback"`
	PlayedAt    string `json:"played_at"`
}

type topRow struct {
	FullPath    string `json:"full_path"`
	DisplayName string `json:"display_name"`
	Plays       int    `json:"plays"`
}

// History lists recent plays, or the most played sounds with --top.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")

	repo, err := r.historyRepo()
	if err != nil {
		return err
	}

	if cmd.Bool("top") {
		counts, err := repo.TopPlayed(limit)
		if err != nil {
			return fmt.Errorf("failed to rank plays: %w", err)
		}

		rows := make([]topRow, 0, len(counts))
		for _, c := range counts {
			rows = append(rows, topRow{FullPath: c.FullPath, DisplayName: c.DisplayName, Plays: c.Plays})
		}
		if useJSON {
			return r.writeJSON(rows, false)
		}

		r.writePlainHeader("Most Played")
		for i, row := range rows {
			r.writePlain("%3d. %-30s %4d plays  %s\n", i+1, row.DisplayName, row.Plays, row.FullPath)
		}
		return nil
	}

	records, err := repo.Recent(limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	rows := make([]historyRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, historyRow{
			Sequence:    rec.Sequence(),
			FullPath:    rec.FullPath(),
			DisplayName: rec.DisplayName(),
			Playback:    rec.Preference().String(),
			PlayedAt:    rec.CreatedAt().Local().Format("2006-01-02 15:04:05"),
		})
	}
	if useJSON {
		return r.writeJSON(rows, false)
	}

	if len(rows) == 0 {
		return r.writePlain("No plays recorded\n")
	}

	r.writePlainHeader("Recently Played")
	for _, row := range rows {
		r.writePlain("#%-5d %s  %-30s %-13s %s\n", row.Sequence, row.PlayedAt, row.DisplayName, row.Playback, row.FullPath)
	}
	return nil
}

func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.historyRepo()
	if err != nil {
		return err
	}

	n, err := repo.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return r.writePlain("✓ Cleared %d plays\n", n)
}
