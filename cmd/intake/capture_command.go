package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"intake/internal/capture"
	"intake/internal/inference"
)

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	var fromStdin bool
	var forcedContext string
	var voice bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "capture [text...]",
		Short: "Route one piece of free text into the tracker vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if fromStdin {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = strings.TrimSpace(string(data))
			}
			if text == "" {
				return errors.New("nothing to capture: pass text or use --stdin")
			}

			input := inference.CaptureInput{
				Text:          text,
				ForcedContext: strings.TrimSpace(forcedContext),
			}
			if voice {
				input.InputType = inference.InputVoice
			}

			return ctx.withOrchestrator(func(orch *capture.Orchestrator) error {
				result := orch.Capture(cmd.Context(), input)
				if jsonOut {
					if err := writeJSON(cmd, result); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					renderCaptureResult(out, "Capture", result, shouldColorize(out))
				}
				if !result.Success {
					return fmt.Errorf("capture failed: %s", result.ErrorMessage)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the capture text from standard input")
	cmd.Flags().StringVar(&forcedContext, "context", "", "Force the routing context (business, personal, project, or system)")
	cmd.Flags().BoolVar(&voice, "voice", false, "Mark the text as a voice transcription")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the capture result as JSON")
	return cmd
}
