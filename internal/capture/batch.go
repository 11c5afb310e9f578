package capture

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"intake/internal/inference"
	"intake/internal/logging"
)

// CaptureBatch processes inputs strictly in order, one at a time. A panic
// escaping one capture converts into that entry's failed result only; the
// rest of the batch proceeds untouched.
func (o *Orchestrator) CaptureBatch(ctx context.Context, inputs []inference.CaptureInput) []Result {
	results := make([]Result, 0, len(inputs))
	for index, input := range inputs {
		results = append(results, o.captureOne(ctx, index, input))
	}
	return results
}

func (o *Orchestrator) captureOne(ctx context.Context, index int, input inference.CaptureInput) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("capture panicked: %v", r)
			o.logger.Error("batch entry failed",
				logging.Int("batch_index", index),
				logging.Error(err),
			)
			when := input.Timestamp
			if when.IsZero() {
				when = time.Now()
			}
			inputType := input.InputType
			if inputType == "" {
				inputType = inference.InputText
			}
			result = Result{
				CaptureID:      uuid.NewString(),
				CapturedAt:     when,
				InputText:      strings.TrimSpace(input.Text),
				InputType:      inputType,
				Success:        false,
				RequiresReview: true,
				Disposition:    DispositionFailed,
				ErrorMessage:   err.Error(),
			}
		}
	}()
	return o.Capture(ctx, input)
}
