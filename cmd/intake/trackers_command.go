package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"intake/internal/config"
	"intake/internal/tracker"
)

type trackerView struct {
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	Context     string `json:"context"`
	ActionItems int    `json:"action_items"`
	ReviewQueue int    `json:"review_queue"`
	Path        string `json:"path"`
}

func newTrackersCommand(ctx *commandContext) *cobra.Command {
	var contextFilter string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "trackers",
		Short: "List loaded trackers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *tracker.Store) error {
				selected, err := selectTrackers(store, contextFilter)
				if err != nil {
					return err
				}

				views := make([]trackerView, 0, len(selected))
				for _, t := range selected {
					view := trackerView{
						Tag:     t.Tag,
						Name:    t.Name,
						Context: string(t.Context),
						Path:    t.Path,
					}
					if doc := t.Document(); doc != nil {
						view.ActionItems = len(doc.SectionEntries(tracker.SectionActionItems))
						view.ReviewQueue = len(doc.SectionEntries(tracker.SectionReviewQueue))
					}
					views = append(views, view)
				}

				if jsonOut {
					return writeJSON(cmd, views)
				}
				if len(views) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No trackers loaded")
					return nil
				}

				rows := make([][]string, 0, len(views))
				for _, view := range views {
					rows = append(rows, []string{
						view.Tag,
						view.Name,
						view.Context,
						strconv.Itoa(view.ActionItems),
						strconv.Itoa(view.ReviewQueue),
						view.Path,
					})
				}
				table := renderTable(
					[]string{"Tag", "Name", "Context", "Actions", "Review", "Path"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&contextFilter, "context", "", "Filter trackers by context (business, personal, project, or system)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit trackers as JSON")
	return cmd
}

func selectTrackers(store *tracker.Store, contextFilter string) ([]*tracker.Tracker, error) {
	filter := strings.TrimSpace(contextFilter)
	if filter != "" {
		category, ok := tracker.ParseCategory(filter)
		if !ok {
			return nil, fmt.Errorf("unknown context %q (expected business, personal, project, or system)", contextFilter)
		}
		return store.GetByContext(category), nil
	}

	tags := store.Tags()
	selected := make([]*tracker.Tracker, 0, len(tags))
	for _, tag := range tags {
		if t, ok := store.GetByTag(tag); ok {
			selected = append(selected, t)
		}
	}
	return selected, nil
}
