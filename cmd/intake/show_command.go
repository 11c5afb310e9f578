package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"intake/internal/config"
	"intake/internal/tracker"
)

type trackerDetail struct {
	trackerView
	Sections map[string][]string `json:"sections"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <tag>",
		Short: "Display one tracker document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *tracker.Store) error {
				tag := strings.ToLower(strings.TrimSpace(args[0]))
				t, ok := store.GetByTag(tag)
				if !ok {
					return fmt.Errorf("tracker %q is not loaded (check the registry at %s)", tag, cfg.Paths.RegistryPath)
				}
				doc := t.Document()

				if jsonOut {
					detail := trackerDetail{
						trackerView: trackerView{
							Tag:     t.Tag,
							Name:    t.Name,
							Context: string(t.Context),
							Path:    t.Path,
						},
						Sections: map[string][]string{},
					}
					if doc != nil {
						for _, kind := range tracker.SectionOrder() {
							entries := doc.SectionEntries(kind)
							if len(entries) == 0 {
								continue
							}
							detail.Sections[string(kind)] = entries
						}
						detail.ActionItems = len(detail.Sections[string(tracker.SectionActionItems)])
						detail.ReviewQueue = len(detail.Sections[string(tracker.SectionReviewQueue)])
					}
					return writeJSON(cmd, detail)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader(fmt.Sprintf("%s (%s)", t.Tag, t.Name), colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Context", statusInfo, string(t.Context), colorize))
				fmt.Fprintln(out, renderStatusLine("Path", statusInfo, t.Path, colorize))
				fmt.Fprintln(out)
				if doc != nil {
					fmt.Fprint(out, string(doc.Render()))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the tracker as JSON")
	return cmd
}
