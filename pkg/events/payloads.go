package events

import "fmt"

// Helper constructors for the pipeline's event subtypes. Each returns a fully
// populated ProgressEvent so call sites stay one-liners.

// ValidationStartEvent announces a run over a batch of artifacts.
func ValidationStartEvent(total int) ProgressEvent {
	return NewEvent(EventTypeValidationStart,
		fmt.Sprintf("Validating %d artifact(s)", total),
		map[string]any{"total": total})
}

// ArtifactStartEvent announces the start of one artifact's validation.
func ArtifactStartEvent(artifactID, title string) ProgressEvent {
	return NewEvent(EventTypeArtifactStart,
		fmt.Sprintf("Validating artifact %q", artifactID),
		map[string]any{"artifact_id": artifactID, "title": title})
}

// CompilationStartEvent announces one compilation pass.
func CompilationStartEvent(artifactID string, attempt, maxAttempts int) ProgressEvent {
	return NewEvent(EventTypeCompilationStart,
		fmt.Sprintf("Compiling %q (attempt %d/%d)", artifactID, attempt, maxAttempts),
		map[string]any{"artifact_id": artifactID, "attempt": attempt, "max_attempts": maxAttempts})
}

// CompilationSuccessEvent reports a clean compilation pass.
func CompilationSuccessEvent(artifactID string, attempt int) ProgressEvent {
	return NewEvent(EventTypeCompilationSuccess,
		fmt.Sprintf("Artifact %q compiled cleanly", artifactID),
		map[string]any{"artifact_id": artifactID, "attempt": attempt, "success": true})
}

// CompilationFailureEvent reports a failed compilation pass.
func CompilationFailureEvent(artifactID string, attempt, maxAttempts, errorCount int) ProgressEvent {
	return NewEvent(EventTypeCompilationFailure,
		fmt.Sprintf("Artifact %q failed compilation with %d error(s)", artifactID, errorCount),
		map[string]any{
			"artifact_id":  artifactID,
			"attempt":      attempt,
			"max_attempts": maxAttempts,
			"error_count":  errorCount,
		})
}

// RetryAttemptEvent announces a repair attempt before the repair channel is
// invoked.
func RetryAttemptEvent(artifactID string, attempt, maxAttempts int) ProgressEvent {
	return NewEvent(EventTypeRetryAttempt,
		fmt.Sprintf("Requesting repair for %q (attempt %d/%d)", artifactID, attempt, maxAttempts),
		map[string]any{"artifact_id": artifactID, "attempt": attempt, "max_attempts": maxAttempts})
}

// FixSuccessEvent reports that the repair channel produced a new candidate.
func FixSuccessEvent(artifactID string, attempt int, diff string) ProgressEvent {
	data := map[string]any{"artifact_id": artifactID, "attempt": attempt, "success": true}
	if diff != "" {
		data["diff"] = diff
	}
	return NewEvent(EventTypeFixSuccess,
		fmt.Sprintf("Repair produced a new candidate for %q", artifactID), data)
}

// FixFailureEvent reports a failed repair attempt, noting whether it was the
// final allowed attempt.
func FixFailureEvent(artifactID string, attempt int, final bool) ProgressEvent {
	msg := fmt.Sprintf("Repair attempt %d for %q failed", attempt, artifactID)
	if final {
		msg += " (no attempts remaining)"
	}
	return NewEvent(EventTypeFixFailure, msg,
		map[string]any{"artifact_id": artifactID, "attempt": attempt, "final": final})
}

// ArtifactCompleteEvent reports the terminal outcome for one artifact.
func ArtifactCompleteEvent(artifactID string, success bool, attempts, errorCount int) ProgressEvent {
	outcome := "succeeded"
	if !success {
		outcome = "failed"
	}
	return NewEvent(EventTypeArtifactComplete,
		fmt.Sprintf("Artifact %q %s after %d attempt(s)", artifactID, outcome, attempts),
		map[string]any{
			"artifact_id": artifactID,
			"success":     success,
			"attempts":    attempts,
			"error_count": errorCount,
		})
}

// ValidationCompleteEvent summarizes a run.
func ValidationCompleteEvent(validated, succeeded, failed int) ProgressEvent {
	return NewEvent(EventTypeValidationComplete,
		fmt.Sprintf("Validation complete: %d validated, %d succeeded, %d failed", validated, succeeded, failed),
		map[string]any{"validated": validated, "succeeded": succeeded, "failed": failed})
}

// ErrorEvent reports a pipeline-level error.
func ErrorEvent(message string, err error) ProgressEvent {
	data := map[string]any{}
	if err != nil {
		data["error"] = err.Error()
	}
	return NewEvent(EventTypeError, message, data)
}
