package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shell"
)

// CommandWrapper instruments any command handler with metrics, tracing and logging.
type CommandWrapper[C shell.Command] struct {
	coreHandler      shell.CoreCommandHandler[C]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandWrapper creates a new observable wrapper around the core command handler.
func NewCommandWrapper[C shell.Command](
	coreHandler shell.CoreCommandHandler[C],
	opts ...CommandOption[C],
) (*CommandWrapper[C], error) {

	// the command type is a constant of the command, so the zero value carries it
	var zeroCommand C

	wrapper := &CommandWrapper[C]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the core handler and translates its HandlerResult and error into observability data.
func (w *CommandWrapper[C]) Handle(ctx context.Context, command C) (shell.HandlerResult, error) {
	commandStart := time.Now()
	ctx, span := shell.StartSpan(ctx, w.tracingCollector, shell.SpanNameCommandHandle, map[string]string{
		shell.LogAttrCommandType: w.commandType,
	})
	shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandStarted, shell.LogAttrCommandType, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)

	w.recordRetryMetrics(ctx, result)

	duration := time.Since(commandStart)

	if err != nil {
		w.recordCommandError(ctx, err, duration, span)
		return result, err
	}

	outcome := shell.StatusSuccess
	if result.Idempotent {
		outcome = shell.StatusIdempotent
	}

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, outcome, duration)
	shell.FinishSpan(w.tracingCollector, span, outcome, duration, nil)
	shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandCompleted,
		shell.LogAttrCommandType, w.commandType,
		shell.LogAttrBusinessOutcome, outcome,
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
	)

	return result, nil
}

// CommandOption defines a functional option for configuring CommandWrapper.
type CommandOption[C shell.Command] func(*CommandWrapper[C]) error

// WithCommandMetrics sets the metrics collector for the CommandWrapper.
func WithCommandMetrics[C shell.Command](collector shell.MetricsCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithCommandTracing sets the tracing collector for the CommandWrapper.
func WithCommandTracing[C shell.Command](collector shell.TracingCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithCommandContextualLogging sets the contextual logger for the CommandWrapper.
func WithCommandContextualLogging[C shell.Command](logger shell.ContextualLogger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithCommandLogging sets the basic logger for the CommandWrapper.
func WithCommandLogging[C shell.Command](logger shell.Logger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.logger = logger
		return nil
	}
}

/*** Observability helper methods ***/

func (w *CommandWrapper[C]) recordCommandError(ctx context.Context, err error, duration time.Duration, span shell.SpanContext) {
	status := shell.StatusOfError(err)

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)

	args := []any{
		shell.LogAttrCommandType, w.commandType,
		shell.LogAttrStatus, status,
		shell.LogAttrError, err.Error(),
	}

	if status == shell.StatusRejected {
		shell.LogWarn(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandRejected, args...)
		return
	}

	shell.LogError(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandFailed, args...)
}

func (w *CommandWrapper[C]) recordRetryMetrics(ctx context.Context, result shell.HandlerResult) {
	if w.metricsCollector == nil {
		return
	}

	if result.RetryAttempts > 1 {
		retryLabels := shell.BuildRetryLabels(w.commandType, result.RetryAttempts-1, result.LastErrorType)
		shell.IncrementCounter(ctx, w.metricsCollector, shell.CommandHandlerRetriesMetric, retryLabels)

		delayLabels := map[string]string{shell.LogAttrCommandType: w.commandType}
		shell.RecordDuration(ctx, w.metricsCollector, shell.CommandHandlerRetryDelayMetric, result.TotalRetryDelay, delayLabels)
	}

	if result.RetriesExhausted {
		exhaustedLabels := map[string]string{shell.LogAttrCommandType: w.commandType}
		shell.IncrementCounter(ctx, w.metricsCollector, shell.CommandHandlerMaxRetriesReachedMetric, exhaustedLabels)
	}
}
