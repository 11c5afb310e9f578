package capture

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"intake/internal/config"
	"intake/internal/inference"
	"intake/internal/logging"
	"intake/internal/notifications"
	"intake/internal/reviewlog"
	"intake/internal/services"
	"intake/internal/tracker"
)

const component = "capture"

// Pipeline state names, attached to context so log lines correlate with the
// tier a capture was in when something happened.
const (
	stateInfer         = "infer"
	statePlacement     = "placement"
	stateReviewRouting = "review_routing"
	stateEmergency     = "emergency"
)

// Inferrer produces the routing decision for one capture. The production
// client recovers its own failures and never returns an error; the error
// path exists so the emergency tier stays reachable and testable.
type Inferrer interface {
	Infer(ctx context.Context, input inference.CaptureInput, summaries []tracker.Summary) (inference.Result, error)
}

// Orchestrator owns the capture pipeline against one tracker store.
type Orchestrator struct {
	cfg      *config.Config
	store    *tracker.Store
	inferrer Inferrer
	notifier notifications.Service
	history  *reviewlog.Store
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures optional Orchestrator behavior.
type Option func(*Orchestrator)

// WithInferrer replaces the inference client (used in tests).
func WithInferrer(inferrer Inferrer) Option {
	return func(o *Orchestrator) { o.inferrer = inferrer }
}

// WithNotifier replaces the notification service (used in tests).
func WithNotifier(notifier notifications.Service) Option {
	return func(o *Orchestrator) { o.notifier = notifier }
}

// WithHistory records capture outcomes in the given store. Recording is
// best-effort: a failure is logged and the capture result is unaffected.
func WithHistory(history *reviewlog.Store) Option {
	return func(o *Orchestrator) { o.history = history }
}

// WithClock overrides the timestamp source (used in tests).
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator constructs the capture pipeline with production defaults:
// the configured inference client and the ntfy notifier.
func NewOrchestrator(cfg *config.Config, store *tracker.Store, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, component),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.inferrer == nil {
		o.inferrer = inference.NewClient(cfg, logger)
	}
	if o.notifier == nil {
		o.notifier = notifications.NewService(cfg)
	}
	return o
}

// Capture routes one input end to end. It never panics past this boundary
// and never loses the text: every path resolves to a Result describing what
// happened and where the text went.
func (o *Orchestrator) Capture(ctx context.Context, input inference.CaptureInput) Result {
	captureID := uuid.NewString()
	ctx = services.WithCaptureID(ctx, captureID)

	input.Text = strings.TrimSpace(input.Text)
	if input.InputType == "" {
		input.InputType = inference.InputText
	}
	if input.Timestamp.IsZero() {
		input.Timestamp = o.now()
	}

	logger := logging.WithContext(ctx, o.logger)
	logger.Info("capture started",
		logging.String("input_type", string(input.InputType)),
		logging.Int("input_length", len(input.Text)),
	)

	result := o.run(ctx, captureID, input)

	o.record(ctx, result)
	o.notify(ctx, result)

	if result.Success {
		logger.Info("capture resolved",
			logging.String("disposition", string(result.Disposition)),
			logging.String(logging.FieldTracker, result.PrimaryTracker),
			logging.Int("items_placed", result.ItemsPlaced()),
			logging.Int("items_failed", result.ItemsFailed()),
		)
	} else {
		logger.Error("capture failed", logging.String(logging.FieldError, result.ErrorMessage))
	}
	return result
}

// run walks the state machine: infer -> review gate -> completions ->
// placement -> resolve. Transitions are one-directional; the two branch
// targets are review routing (low confidence, or nothing placed) and
// emergency (inference error).
func (o *Orchestrator) run(ctx context.Context, captureID string, input inference.CaptureInput) Result {
	result := Result{
		CaptureID:  captureID,
		CapturedAt: input.Timestamp,
		InputText:  input.Text,
		InputType:  input.InputType,
	}

	inferred, err := o.infer(ctx, input)
	if err != nil {
		return o.emergency(ctx, input, result, err)
	}
	result.PrimaryTracker = inferred.PrimaryTracker
	result.Confidence = inferred.Confidence
	result.Rationale = inferred.Rationale
	result.RequiresReview = inferred.RequiresReview

	if inferred.RequiresReview {
		return o.routeToReview(ctx, input, result)
	}

	// Completions are surfaced to the caller only; mutating the referenced
	// task is a separate explicit operation.
	result.Completions = inferred.Completions

	result.Items = o.place(ctx, input, inferred.Items)

	// Resolve: partial success counts. Nothing placed at all falls through
	// to review routing so the text still lands somewhere.
	if result.ItemsPlaced() == 0 {
		result.RequiresReview = true
		return o.routeToReview(ctx, input, result)
	}
	result.Success = true
	result.Disposition = DispositionRouted
	return result
}

// infer calls the inference client with fresh tracker summaries. This is the
// only place a panic is recovered; anything escaping the client converts
// into the error that drives the emergency tier.
func (o *Orchestrator) infer(ctx context.Context, input inference.CaptureInput) (result inference.Result, err error) {
	ctx = services.WithState(ctx, stateInfer)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("inference panicked: %v", r)
		}
	}()
	return o.inferrer.Infer(ctx, input, o.store.BuildContextSummary())
}

// place appends every inferred item into the section its type implies. Each
// outcome is recorded independently; one failure never blocks the rest.
func (o *Orchestrator) place(ctx context.Context, input inference.CaptureInput, items []inference.Item) []ItemOutcome {
	ctx = services.WithState(ctx, statePlacement)
	logger := logging.WithContext(ctx, o.logger)

	outcomes := make([]ItemOutcome, 0, len(items))
	for _, item := range items {
		section := item.Type.Section()
		line := renderItem(item, input.Timestamp)
		outcome := ItemOutcome{Tracker: item.Tracker, Section: section, Line: line}
		if err := o.store.AppendItem(item.Tracker, line, section); err != nil {
			outcome.Error = err.Error()
			logger.Warn("item placement failed",
				logging.String(logging.FieldTracker, item.Tracker),
				logging.String("section", string(section)),
				logging.Error(err),
			)
		} else {
			logger.Debug("item placed",
				logging.String(logging.FieldTracker, item.Tracker),
				logging.String("section", string(section)),
			)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// routeToReview appends the raw text to the first tracker that accepts it:
// the configured review, inbox, and system tags in that order, then every
// remaining loaded tracker in registry order.
func (o *Orchestrator) routeToReview(ctx context.Context, input inference.CaptureInput, result Result) Result {
	ctx = services.WithState(ctx, stateReviewRouting)
	logger := logging.WithContext(ctx, o.logger)

	line := renderReviewEntry(input.Text, result.PrimaryTracker, result.Confidence, input.Timestamp)
	var lastErr error
	for _, tag := range o.reviewTargets() {
		outcome := ItemOutcome{Tracker: tag, Section: tracker.SectionReviewQueue, Line: line}
		if err := o.store.AppendItem(tag, line, tracker.SectionReviewQueue); err != nil {
			lastErr = err
			outcome.Error = err.Error()
			result.Items = append(result.Items, outcome)
			logger.Warn("review target rejected entry",
				logging.String(logging.FieldTracker, tag),
				logging.Error(err),
			)
			continue
		}
		result.Items = append(result.Items, outcome)
		result.Success = true
		result.Disposition = DispositionReview
		logger.Info("capture routed to review", logging.String(logging.FieldTracker, tag))
		return result
	}
	return o.fail(ctx, result, line,
		services.Wrap(services.ErrTransient, component, "review_routing", "no tracker accepted the review entry", lastErr))
}

// reviewTargets returns the ordered review cascade: config tags first, then
// the full registry sweep, deduplicated.
func (o *Orchestrator) reviewTargets() []string {
	seen := make(map[string]struct{})
	targets := make([]string, 0, 3)
	add := func(raw string) {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		targets = append(targets, tag)
	}
	add(o.cfg.Routing.ReviewTracker)
	add(o.cfg.Routing.InboxTracker)
	add(o.cfg.Routing.SystemTracker)
	for _, tag := range o.store.Tags() {
		add(tag)
	}
	return targets
}

// emergency parks the raw text in the review queue of the first loaded
// tracker that accepts it, in registry order. Reached only when inference
// itself errored or panicked.
func (o *Orchestrator) emergency(ctx context.Context, input inference.CaptureInput, result Result, cause error) Result {
	ctx = services.WithState(ctx, stateEmergency)
	logger := logging.WithContext(ctx, o.logger)
	logger.Error("inference failed; attempting emergency capture", logging.Error(cause))

	result.Confidence = 0.1
	result.RequiresReview = true
	if cause != nil {
		result.Rationale = cause.Error()
	}

	line := renderEmergencyEntry(input.Text, cause, input.Timestamp)
	var lastErr error
	for _, tag := range o.store.Tags() {
		outcome := ItemOutcome{Tracker: tag, Section: tracker.SectionReviewQueue, Line: line}
		if err := o.store.AppendItem(tag, line, tracker.SectionReviewQueue); err != nil {
			lastErr = err
			outcome.Error = err.Error()
			result.Items = append(result.Items, outcome)
			logger.Warn("tracker rejected emergency entry",
				logging.String(logging.FieldTracker, tag),
				logging.Error(err),
			)
			continue
		}
		result.Items = append(result.Items, outcome)
		result.Success = true
		result.PrimaryTracker = tag
		result.Disposition = DispositionEmergency
		logger.Warn("emergency capture landed", logging.String(logging.FieldTracker, tag))
		return result
	}
	if lastErr == nil {
		lastErr = cause
	}
	return o.fail(ctx, result, line,
		services.Wrap(services.ErrTransient, component, "emergency", "no tracker accepted the emergency entry", lastErr))
}

// fail is the terminal path: every tracker rejected the write. The rendered
// entry, original text included, returns to the caller in the result.
func (o *Orchestrator) fail(ctx context.Context, result Result, entry string, err error) Result {
	result.Success = false
	result.Disposition = DispositionFailed
	result.RequiresReview = true
	result.UnwrittenEntry = entry
	result.ErrorMessage = err.Error()
	logging.WithContext(ctx, o.logger).Error("every tracker rejected the entry",
		logging.Error(err),
		logging.String(logging.FieldAlert, "input_preserved_in_result_only"),
	)
	return result
}

// record stores the outcome in capture history when one is attached.
func (o *Orchestrator) record(ctx context.Context, result Result) {
	if o.history == nil {
		return
	}
	entry := reviewlog.Entry{
		ID:             result.CaptureID,
		CapturedAt:     result.CapturedAt,
		InputText:      result.InputText,
		InputType:      string(result.InputType),
		PrimaryTracker: result.PrimaryTracker,
		Confidence:     result.Confidence,
		RequiresReview: result.RequiresReview,
		Success:        result.Success,
		Disposition:    string(result.Disposition),
		Error:          result.ErrorMessage,
		ItemsPlaced:    result.ItemsPlaced(),
		ItemsFailed:    result.ItemsFailed(),
	}
	if err := o.history.Record(ctx, entry); err != nil {
		logging.WithContext(ctx, o.logger).Warn("capture history record failed", logging.Error(err))
	}
}

// notify publishes the outcome event. Delivery failures are logged and
// never affect the result.
func (o *Orchestrator) notify(ctx context.Context, result Result) {
	if o.notifier == nil {
		return
	}
	var event notifications.Event
	data := notifications.Payload{"text": result.InputText}
	switch result.Disposition {
	case DispositionRouted:
		event = notifications.EventCaptureRouted
		data["tracker"] = result.PrimaryTracker
		if placed := result.ItemsPlaced(); placed > 1 {
			data["items"] = strconv.Itoa(placed)
		}
	case DispositionReview:
		event = notifications.EventReviewRouted
		data["guess"] = result.PrimaryTracker
		data["confidence"] = fmt.Sprintf("%.2f", result.Confidence)
	case DispositionEmergency:
		event = notifications.EventEmergencyCapture
		data["cause"] = result.Rationale
		data["tracker"] = result.PrimaryTracker
	case DispositionFailed:
		event = notifications.EventCaptureFailed
		data["error"] = result.ErrorMessage
	default:
		return
	}
	if err := o.notifier.Publish(ctx, event, data); err != nil {
		logging.WithContext(ctx, o.logger).Debug("notification failed", logging.Error(err))
	}
}
