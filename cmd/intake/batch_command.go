package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"intake/internal/capture"
	"intake/internal/inference"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var forcedContext string
	var voice bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Capture one input per line from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := cmd.InOrStdin()
			sourceName := "stdin"
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open batch file: %w", err)
				}
				defer file.Close()
				reader = file
				sourceName = args[0]
			}

			inputs, err := readBatchInputs(reader, strings.TrimSpace(forcedContext), voice)
			if err != nil {
				return err
			}
			if len(inputs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No inputs to capture")
				return nil
			}

			return ctx.withOrchestrator(func(orch *capture.Orchestrator) error {
				results := orch.CaptureBatch(cmd.Context(), inputs)
				if jsonOut {
					if err := writeJSON(cmd, results); err != nil {
						return err
					}
					return batchError(results)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader(fmt.Sprintf("Batch capture (%s)", sourceName), colorize) {
					fmt.Fprintln(out, line)
				}
				for i, result := range results {
					renderCaptureResult(out, fmt.Sprintf("Input %d", i+1), result, colorize)
				}
				if err := batchError(results); err != nil {
					return err
				}
				fmt.Fprintf(out, "Captured %d inputs\n", len(results))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&forcedContext, "context", "", "Force the routing context for every input")
	cmd.Flags().BoolVar(&voice, "voice", false, "Mark every input as a voice transcription")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the capture results as JSON")
	return cmd
}

// readBatchInputs parses one capture per non-blank line.
func readBatchInputs(r io.Reader, forcedContext string, voice bool) ([]inference.CaptureInput, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var inputs []inference.CaptureInput
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		input := inference.CaptureInput{Text: text, ForcedContext: forcedContext}
		if voice {
			input.InputType = inference.InputVoice
		}
		inputs = append(inputs, input)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}
	return inputs, nil
}

func batchError(results []capture.Result) error {
	failed := 0
	for _, result := range results {
		if !result.Success {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d captures failed", failed, len(results))
	}
	return nil
}
