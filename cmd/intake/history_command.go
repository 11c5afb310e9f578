package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"intake/internal/reviewlog"
)

type historyEntryView struct {
	ID             string    `json:"id"`
	CapturedAt     time.Time `json:"captured_at"`
	InputText      string    `json:"input_text"`
	InputType      string    `json:"input_type"`
	PrimaryTracker string    `json:"primary_tracker,omitempty"`
	Confidence     float64   `json:"confidence"`
	RequiresReview bool      `json:"requires_review"`
	Success        bool      `json:"success"`
	Disposition    string    `json:"disposition"`
	Error          string    `json:"error,omitempty"`
	ItemsPlaced    int       `json:"items_placed"`
	ItemsFailed    int       `json:"items_failed"`
}

type historyStatsView struct {
	Total     int `json:"total"`
	Routed    int `json:"routed"`
	Review    int `json:"review"`
	Emergency int `json:"emergency"`
	Failed    int `json:"failed"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var search string
	var stats bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the capture history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *reviewlog.Store) error {
				if stats {
					totals, err := store.Stats(cmd.Context())
					if err != nil {
						return err
					}
					view := historyStatsView{
						Total:     totals.Total,
						Routed:    totals.Routed,
						Review:    totals.Review,
						Emergency: totals.Emergency,
						Failed:    totals.Failed,
					}
					if jsonOut {
						return writeJSON(cmd, view)
					}
					rows := [][]string{
						{"routed", strconv.Itoa(view.Routed)},
						{"review", strconv.Itoa(view.Review)},
						{"emergency", strconv.Itoa(view.Emergency)},
						{"failed", strconv.Itoa(view.Failed)},
						{"total", strconv.Itoa(view.Total)},
					}
					table := renderTable([]string{"Disposition", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
					fmt.Fprintln(cmd.OutOrStdout(), table)
					return nil
				}

				var entries []reviewlog.Entry
				var err error
				if term := strings.TrimSpace(search); term != "" {
					entries, err = store.Search(cmd.Context(), term, limit)
				} else {
					entries, err = store.Recent(cmd.Context(), limit)
				}
				if err != nil {
					return err
				}

				if jsonOut {
					views := make([]historyEntryView, 0, len(entries))
					for _, entry := range entries {
						views = append(views, historyEntryView{
							ID:             entry.ID,
							CapturedAt:     entry.CapturedAt,
							InputText:      entry.InputText,
							InputType:      entry.InputType,
							PrimaryTracker: entry.PrimaryTracker,
							Confidence:     entry.Confidence,
							RequiresReview: entry.RequiresReview,
							Success:        entry.Success,
							Disposition:    entry.Disposition,
							Error:          entry.Error,
							ItemsPlaced:    entry.ItemsPlaced,
							ItemsFailed:    entry.ItemsFailed,
						})
					}
					return writeJSON(cmd, views)
				}

				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No captures recorded")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					tracker := entry.PrimaryTracker
					if tracker == "" {
						tracker = "-"
					}
					rows = append(rows, []string{
						entry.CapturedAt.Local().Format("2006-01-02 15:04"),
						entry.Disposition,
						tracker,
						fmt.Sprintf("%.2f", entry.Confidence),
						strconv.Itoa(entry.ItemsPlaced),
						snippet(entry.InputText, 48),
					})
				}
				table := renderTable(
					[]string{"Captured", "Disposition", "Tracker", "Conf", "Placed", "Input"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries to return")
	cmd.Flags().StringVar(&search, "search", "", "Filter entries by input text")
	cmd.Flags().BoolVar(&stats, "stats", false, "Show aggregate counts by disposition")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit history as JSON")
	return cmd
}

func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}
