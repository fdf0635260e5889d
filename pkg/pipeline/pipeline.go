// Package pipeline orchestrates artifact validation: eligibility checks, the
// compile/repair retry loop, progress event emission and run summaries.
package pipeline

import (
	"context"
	"time"

	"github.com/artifix/artifix/pkg/config"
	"github.com/artifix/artifix/pkg/events"
	"github.com/artifix/artifix/pkg/formatter"
	"github.com/artifix/artifix/pkg/llm"
	"github.com/artifix/artifix/pkg/logging"
	"github.com/artifix/artifix/pkg/retry"
	"github.com/artifix/artifix/pkg/types"
	"github.com/artifix/artifix/pkg/validator"
)

// Outcome pairs the final artifact candidate with its validation result. The
// candidate differs from the input artifact only when a repair succeeded.
type Outcome struct {
	Artifact types.Artifact         `json:"artifact"`
	Result   types.ValidationResult `json:"result"`
	// Repaired is true when the final candidate carries repaired code,
	// whether or not that code ultimately validated.
	Repaired bool `json:"repaired"`
}

// Summary describes one ValidateAll run.
type Summary struct {
	Validated int           `json:"validated"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Repaired  int           `json:"repaired"`
	Duration  time.Duration `json:"duration"`
}

// Orchestrator runs artifacts through validation and repair.
type Orchestrator struct {
	cfg       config.Config
	validator *validator.Validator
	repair    *retry.Manager
	channel   llm.RepairChannel
	sink      events.Sink
	logger    *logging.Logger
}

// New creates an orchestrator. A nil sink gets a NoopSink and a nil channel
// disables repair, leaving validation-only behavior.
func New(cfg config.Config, v *validator.Validator, repair *retry.Manager, channel llm.RepairChannel, sink events.Sink, logger *logging.Logger) *Orchestrator {
	if sink == nil {
		sink = events.NoopSink{}
	}
	if v == nil {
		v = validator.New(nil, logger)
	}
	if repair == nil {
		repair = retry.NewManager(logger)
	}
	return &Orchestrator{
		cfg:       cfg,
		validator: v,
		repair:    repair,
		channel:   channel,
		sink:      sink,
		logger:    logger,
	}
}

// Validator returns the orchestrator's validator.
func (o *Orchestrator) Validator() *validator.Validator { return o.validator }

// ValidateArtifact runs one artifact through the validate/repair loop and
// returns the outcome. The input artifact is never modified; repaired code
// appears only in the returned candidate.
func (o *Orchestrator) ValidateArtifact(ctx context.Context, artifact types.Artifact) Outcome {
	if !o.cfg.Enabled {
		return Outcome{
			Artifact: artifact,
			Result: types.ValidationResult{
				Success:    true,
				Skipped:    true,
				SkipReason: "validation disabled",
			},
		}
	}
	if !o.cfg.Eligible(artifact.ContentType) {
		return Outcome{
			Artifact: artifact,
			Result: types.ValidationResult{
				Success:    true,
				Skipped:    true,
				SkipReason: "content type not eligible: " + artifact.ContentType,
			},
		}
	}

	o.emit(events.ArtifactStartEvent(artifact.Identifier, artifact.Title))
	if o.logger != nil {
		o.logger.LogProcessStep("Validating artifact " + artifact.Identifier)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(o.cfg.ValidationTimeoutSecs)*time.Second)
	defer cancel()

	// Each artifact validates against a fresh filesystem so code written for
	// earlier artifacts cannot satisfy its imports.
	o.validator.ResetState()

	candidate := artifact
	repaired := false
	var result types.ValidationResult

	for attempt := 1; attempt <= o.cfg.MaxRetries; attempt++ {
		o.emitDetailed(events.CompilationStartEvent(artifact.Identifier, attempt, o.cfg.MaxRetries))

		result = o.validateWithTimeout(ctx, candidate)
		result.Attempts = attempt

		if result.Success {
			o.emitDetailed(events.CompilationSuccessEvent(artifact.Identifier, attempt))
			o.emit(events.ArtifactCompleteEvent(artifact.Identifier, true, attempt, 0))
			return Outcome{Artifact: candidate, Result: result, Repaired: repaired}
		}

		o.emitDetailed(events.CompilationFailureEvent(artifact.Identifier, attempt, o.cfg.MaxRetries, len(result.Errors)))

		if attempt == o.cfg.MaxRetries || o.channel == nil {
			break
		}

		o.emitDetailed(events.RetryAttemptEvent(artifact.Identifier, attempt, o.cfg.MaxRetries))
		next := o.attemptFixWithTimeout(ctx, candidate, result.Errors)
		if next == nil {
			o.emitDetailed(events.FixFailureEvent(artifact.Identifier, attempt, attempt+1 == o.cfg.MaxRetries))
			// The next pass re-validates the unchanged candidate; the
			// validator's result cache keeps that pass cheap.
			continue
		}

		o.emitDetailed(events.FixSuccessEvent(artifact.Identifier, attempt, o.repairDiff(candidate, *next)))
		candidate = *next
		repaired = true
	}

	o.emit(events.ArtifactCompleteEvent(artifact.Identifier, false, result.Attempts, len(result.Errors)))
	return Outcome{Artifact: candidate, Result: result, Repaired: repaired}
}

// ValidateAll runs a batch of artifacts sequentially and returns their
// outcomes with a run summary.
func (o *Orchestrator) ValidateAll(ctx context.Context, artifacts []types.Artifact) ([]Outcome, Summary) {
	start := time.Now()
	o.emit(events.ValidationStartEvent(len(artifacts)))

	outcomes := make([]Outcome, 0, len(artifacts))
	var summary Summary
	for _, artifact := range artifacts {
		outcome := o.ValidateArtifact(ctx, artifact)
		outcomes = append(outcomes, outcome)

		if outcome.Result.Skipped {
			summary.Skipped++
			continue
		}
		summary.Validated++
		if outcome.Result.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if outcome.Repaired && outcome.Result.Success {
			summary.Repaired++
		}
	}

	summary.Duration = time.Since(start)
	o.emit(events.ValidationCompleteEvent(summary.Validated, summary.Succeeded, summary.Failed))
	return outcomes, summary
}

// attemptFixWithTimeout races one repair attempt against the artifact's
// remaining time budget. The repair channel is opaque and may ignore
// cancellation, so the race is what guarantees an unresponsive channel
// cannot stall the loop; expiry counts as a failed repair attempt.
func (o *Orchestrator) attemptFixWithTimeout(ctx context.Context, artifact types.Artifact, errors []types.FormattedError) *types.Artifact {
	done := make(chan *types.Artifact, 1)
	go func() {
		done <- o.repair.AttemptFix(ctx, artifact, errors, o.channel)
	}()

	select {
	case repaired := <-done:
		return repaired
	case <-ctx.Done():
		return nil
	}
}

// validateWithTimeout runs one validation pass, bounded by the compilation
// timeout and the surrounding context. A pass that does not finish in time is
// reported as a synthetic timeout diagnostic; the pass still counts as an
// attempt.
func (o *Orchestrator) validateWithTimeout(ctx context.Context, artifact types.Artifact) types.ValidationResult {
	if err := ctx.Err(); err != nil {
		return timeoutResult("validation cancelled: " + err.Error())
	}

	done := make(chan types.ValidationResult, 1)
	go func() {
		done <- o.validator.Validate(artifact)
	}()

	timer := time.NewTimer(time.Duration(o.cfg.CompilationTimeoutSecs) * time.Second)
	defer timer.Stop()

	select {
	case result := <-done:
		return result
	case <-timer.C:
		return timeoutResult("compilation timed out")
	case <-ctx.Done():
		return timeoutResult("validation cancelled: " + ctx.Err().Error())
	}
}

func timeoutResult(message string) types.ValidationResult {
	errors := formatter.FormatErrors([]types.Diagnostic{{
		Code:     types.CodeTimeout,
		Message:  message,
		Severity: types.SeverityError,
		Category: types.CategoryValidationInfra,
	}})
	return types.ValidationResult{Success: false, Errors: errors}
}

func (o *Orchestrator) repairDiff(before, after types.Artifact) string {
	oldCode, ok := validator.ExtractCode(before)
	if !ok {
		return ""
	}
	newCode, ok := validator.ExtractCode(after)
	if !ok {
		return ""
	}
	return retry.DiffCode(oldCode, newCode)
}

// emit sends an event when streaming is enabled, honoring the configured
// inter-event delay.
func (o *Orchestrator) emit(event events.ProgressEvent) {
	if !o.cfg.StreamingEnabled {
		return
	}
	o.sink.Send(event)
	if o.cfg.StreamDelayMs > 0 {
		time.Sleep(time.Duration(o.cfg.StreamDelayMs) * time.Millisecond)
	}
}

// emitDetailed sends per-attempt events only when detailed streaming is on.
func (o *Orchestrator) emitDetailed(event events.ProgressEvent) {
	if !o.cfg.StreamingDetailed {
		return
	}
	o.emit(event)
}
