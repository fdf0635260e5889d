// Package retry drives single repair attempts: it turns validation errors
// into a repair prompt, invokes the repair channel, and extracts a repaired
// artifact from the response.
package retry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/artifix/artifix/pkg/llm"
	"github.com/artifix/artifix/pkg/logging"
	"github.com/artifix/artifix/pkg/types"
	"github.com/artifix/artifix/pkg/validator"
)

const (
	repairTemperature = 0.2
	repairMaxTokens   = 4096
)

// Manager performs repair attempts against a repair channel.
type Manager struct {
	logger *logging.Logger
	stats  *types.Stats
}

// NewManager creates a repair manager.
func NewManager(logger *logging.Logger) *Manager {
	return &Manager{logger: logger, stats: types.NewStats()}
}

// Stats returns the manager's repair counters.
func (m *Manager) Stats() *types.Stats { return m.stats }

// AttemptFix asks the channel for a corrected version of the artifact's code.
// It returns the repaired artifact, or nil when the attempt failed for any
// reason: channel error, panic, unusable response shape, or an empty or
// unchanged extraction. A failed attempt never propagates an error; the
// caller decides whether to retry.
func (m *Manager) AttemptFix(ctx context.Context, artifact types.Artifact, errors []types.FormattedError, channel llm.RepairChannel) *types.Artifact {
	start := time.Now()
	repaired, err := m.attemptFix(ctx, artifact, errors, channel)
	m.stats.Record(err == nil && repaired != nil, time.Since(start))
	if err != nil {
		if m.logger != nil {
			m.logger.LogError(err)
		}
		return nil
	}
	return repaired
}

func (m *Manager) attemptFix(ctx context.Context, artifact types.Artifact, errors []types.FormattedError, channel llm.RepairChannel) (result *types.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("repair channel panic: %v", r)
		}
	}()

	if channel == nil {
		return nil, fmt.Errorf("no repair channel configured")
	}

	code, ok := validator.ExtractCode(artifact)
	if !ok {
		return nil, fmt.Errorf("artifact %q has no code to repair", artifact.Identifier)
	}

	req := llm.ChatRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildRepairPrompt(artifact, code, errors)},
		},
		Temperature: repairTemperature,
		MaxTokens:   repairMaxTokens,
	}

	resp, err := channel.Send(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("repair request for %q failed: %w", artifact.Identifier, err)
	}

	text, ok := responseText(resp)
	if !ok {
		return nil, fmt.Errorf("repair response for %q has an unusable shape (%T)", artifact.Identifier, resp)
	}

	newCode, ok := extractCodeBlock(text)
	if !ok {
		return nil, fmt.Errorf("repair response for %q contained no code", artifact.Identifier)
	}
	if strings.TrimSpace(newCode) == strings.TrimSpace(code) {
		return nil, fmt.Errorf("repair response for %q left the code unchanged", artifact.Identifier)
	}

	if m.logger != nil {
		m.logger.Logf("Repair for %q produced new candidate:\n%s", artifact.Identifier, DiffCode(code, newCode))
	}

	repaired := artifact.WithCode(newCode)
	return &repaired, nil
}

// DiffCode renders a compact line diff between the original and repaired
// code, for logging and fix_success event payloads.
func DiffCode(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimRight(d.Text, "\n"), "\n") {
			out.WriteString(prefix)
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	return strings.TrimRight(out.String(), "\n")
}
