package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artifix/artifix/pkg/config"
	"github.com/artifix/artifix/pkg/events"
	"github.com/artifix/artifix/pkg/llm"
	"github.com/artifix/artifix/pkg/types"
)

const brokenCode = "export default function App() {\n  return <div>\n}\n"

const fixedCode = `export default function App() {
  return <div>ok</div>;
}
`

// captureSink records every event it receives, in order.
type captureSink struct {
	mu     sync.Mutex
	events []events.ProgressEvent
}

func (c *captureSink) Send(event events.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureSink) typeSequence() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, e := range c.events {
		out[i] = e.Type
	}
	return out
}

// countingChannel returns canned responses in order and counts calls.
type countingChannel struct {
	mu        sync.Mutex
	calls     int
	responses []any
	err       error
}

func (c *countingChannel) Send(context.Context, llm.ChatRequest) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	resp := c.responses[0]
	if len(c.responses) > 1 {
		c.responses = c.responses[1:]
	}
	return resp, nil
}

func (c *countingChannel) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.LogFile = ""
	cfg.StreamDelayMs = 0
	return cfg
}

func brokenArtifact(id string) types.Artifact {
	return types.Artifact{
		Identifier:  id,
		ContentType: "application/vnd.component.react",
		Title:       "Test Component",
		Content:     brokenCode,
	}
}

func TestValidArtifactPassesFirstAttempt(t *testing.T) {
	sink := &captureSink{}
	o := New(testConfig(), nil, nil, nil, sink, nil)

	outcome := o.ValidateArtifact(context.Background(), types.Artifact{
		Identifier:  "clean",
		ContentType: "text/tsx",
		Content:     fixedCode,
	})

	assert.True(t, outcome.Result.Success)
	assert.Equal(t, 1, outcome.Result.Attempts)
	assert.False(t, outcome.Repaired)

	seq := sink.typeSequence()
	assert.Equal(t, []string{
		events.EventTypeArtifactStart,
		events.EventTypeCompilationStart,
		events.EventTypeCompilationSuccess,
		events.EventTypeArtifactComplete,
	}, seq)
}

func TestRepairSucceedsOnSecondAttempt(t *testing.T) {
	sink := &captureSink{}
	channel := &countingChannel{responses: []any{"```tsx\n" + fixedCode + "```"}}
	o := New(testConfig(), nil, nil, channel, sink, nil)

	outcome := o.ValidateArtifact(context.Background(), brokenArtifact("fixable"))

	assert.True(t, outcome.Result.Success)
	assert.Equal(t, 2, outcome.Result.Attempts)
	assert.True(t, outcome.Repaired)
	assert.Equal(t, 1, channel.callCount())
	assert.Equal(t, strings.TrimSpace(fixedCode), strings.TrimSpace(outcome.Artifact.Content))

	seq := sink.typeSequence()
	assert.Equal(t, []string{
		events.EventTypeArtifactStart,
		events.EventTypeCompilationStart,
		events.EventTypeCompilationFailure,
		events.EventTypeRetryAttempt,
		events.EventTypeFixSuccess,
		events.EventTypeCompilationStart,
		events.EventTypeCompilationSuccess,
		events.EventTypeArtifactComplete,
	}, seq)
}

func TestRetryBoundIsRespected(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 3
	channel := &countingChannel{err: errors.New("model unavailable")}
	o := New(cfg, nil, nil, channel, nil, nil)

	outcome := o.ValidateArtifact(context.Background(), brokenArtifact("hopeless"))

	assert.False(t, outcome.Result.Success)
	assert.Equal(t, 3, outcome.Result.Attempts)
	assert.NotEmpty(t, outcome.Result.Errors)
	// A repair is attempted after every failed pass except the last.
	assert.Equal(t, 2, channel.callCount())
	assert.False(t, outcome.Repaired)
	// The artifact comes back unchanged when no repair ever succeeded.
	assert.Equal(t, brokenCode, outcome.Artifact.Content)
}

func TestNoChannelStopsAfterFirstFailure(t *testing.T) {
	o := New(testConfig(), nil, nil, nil, nil, nil)

	outcome := o.ValidateArtifact(context.Background(), brokenArtifact("no-channel"))

	assert.False(t, outcome.Result.Success)
	assert.Equal(t, 1, outcome.Result.Attempts)
}

func TestDisabledPipelineSkips(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	sink := &captureSink{}
	o := New(cfg, nil, nil, nil, sink, nil)

	outcome := o.ValidateArtifact(context.Background(), brokenArtifact("ignored"))

	assert.True(t, outcome.Result.Success)
	assert.True(t, outcome.Result.Skipped)
	assert.Equal(t, 0, outcome.Result.Attempts)
	assert.Empty(t, sink.typeSequence(), "a disabled pipeline must not emit events")
}

func TestIneligibleContentTypeSkips(t *testing.T) {
	sink := &captureSink{}
	o := New(testConfig(), nil, nil, nil, sink, nil)

	outcome := o.ValidateArtifact(context.Background(), types.Artifact{
		Identifier:  "markdown",
		ContentType: "text/markdown",
		Content:     "# hello",
	})

	assert.True(t, outcome.Result.Success)
	assert.True(t, outcome.Result.Skipped)
	assert.Contains(t, outcome.Result.SkipReason, "text/markdown")
	assert.Empty(t, sink.typeSequence())
}

func TestRepairedCodeStillFailingKeepsLastCandidate(t *testing.T) {
	// The "repaired" code is different but still broken, so every pass fails
	// and the final candidate carries the last repair attempt.
	stillBroken := "export default function App() {\n  return <span>\n}\n"
	channel := &countingChannel{responses: []any{"```tsx\n" + stillBroken + "```"}}
	cfg := testConfig()
	cfg.MaxRetries = 2
	o := New(cfg, nil, nil, channel, nil, nil)

	outcome := o.ValidateArtifact(context.Background(), brokenArtifact("persistent"))

	assert.False(t, outcome.Result.Success)
	assert.Equal(t, 2, outcome.Result.Attempts)
	assert.True(t, outcome.Repaired)
	assert.Equal(t, strings.TrimSpace(stillBroken), strings.TrimSpace(outcome.Artifact.Content))
	assert.NotEmpty(t, outcome.Result.Errors)
}

func TestStreamingDisabledSuppressesEvents(t *testing.T) {
	cfg := testConfig()
	cfg.StreamingEnabled = false
	sink := &captureSink{}
	o := New(cfg, nil, nil, nil, sink, nil)

	o.ValidateArtifact(context.Background(), brokenArtifact("quiet"))
	assert.Empty(t, sink.typeSequence())
}

func TestDetailedStreamingOff(t *testing.T) {
	cfg := testConfig()
	cfg.StreamingDetailed = false
	sink := &captureSink{}
	o := New(cfg, nil, nil, nil, sink, nil)

	o.ValidateArtifact(context.Background(), brokenArtifact("coarse"))

	seq := sink.typeSequence()
	assert.Equal(t, []string{
		events.EventTypeArtifactStart,
		events.EventTypeArtifactComplete,
	}, seq)
}

func TestValidateAllSummary(t *testing.T) {
	sink := &captureSink{}
	o := New(testConfig(), nil, nil, nil, sink, nil)

	artifacts := []types.Artifact{
		{Identifier: "good", ContentType: "text/tsx", Content: fixedCode},
		brokenArtifact("bad"),
		{Identifier: "skip", ContentType: "text/markdown", Content: "# nope"},
	}

	outcomes, summary := o.ValidateAll(context.Background(), artifacts)

	require.Len(t, outcomes, 3)
	assert.Equal(t, 2, summary.Validated)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Repaired)
	assert.Greater(t, summary.Duration.Nanoseconds(), int64(0))

	seq := sink.typeSequence()
	require.NotEmpty(t, seq)
	assert.Equal(t, events.EventTypeValidationStart, seq[0])
	assert.Equal(t, events.EventTypeValidationComplete, seq[len(seq)-1])
}

func TestUnresponsiveRepairChannelDoesNotHang(t *testing.T) {
	// A repair channel that ignores cancellation entirely; only the
	// orchestrator's own deadline race can get past it.
	block := make(chan struct{})
	defer close(block)
	channel := llm.RepairChannelFunc(func(context.Context, llm.ChatRequest) (any, error) {
		<-block
		return nil, nil
	})

	cfg := testConfig()
	cfg.ValidationTimeoutSecs = 1
	o := New(cfg, nil, nil, channel, nil, nil)

	done := make(chan Outcome, 1)
	go func() {
		done <- o.ValidateArtifact(context.Background(), brokenArtifact("stuck"))
	}()

	select {
	case outcome := <-done:
		assert.False(t, outcome.Result.Success)
		assert.False(t, outcome.Repaired)
	case <-time.After(5 * time.Second):
		t.Fatal("repair channel stall was not bounded by the validation timeout")
	}
}

func TestExpiredBudgetConsumesAttemptWithTimeoutDiagnostic(t *testing.T) {
	o := New(testConfig(), nil, nil, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := o.ValidateArtifact(ctx, brokenArtifact("late"))

	assert.False(t, outcome.Result.Success)
	assert.Equal(t, 1, outcome.Result.Attempts)
	require.NotEmpty(t, outcome.Result.Errors)
	e := outcome.Result.Errors[0]
	assert.Equal(t, types.CodeTimeout, e.Code)
	assert.Equal(t, types.CategoryValidationInfra, e.Category)
	assert.False(t, e.Fixable)
}

func TestBatchArtifactsDoNotShareFiles(t *testing.T) {
	o := New(testConfig(), nil, nil, nil, nil, nil)

	helper := types.Artifact{
		Identifier:  "helper",
		ContentType: "text/tsx",
		Content:     fixedCode,
	}
	consumer := types.Artifact{
		Identifier:  "consumer",
		ContentType: "text/tsx",
		Content: `import App from "./helper";

export default function Consumer() {
  return <App />;
}
`,
	}

	outcomes, _ := o.ValidateAll(context.Background(), []types.Artifact{helper, consumer})

	require.Len(t, outcomes, 2)
	assert.True(t, outcomes[0].Result.Success)
	// The first artifact's file must not satisfy the second one's import.
	require.False(t, outcomes[1].Result.Success)
	var found bool
	for _, e := range outcomes[1].Result.Errors {
		if e.Code == 2307 {
			found = true
		}
	}
	assert.True(t, found, "expected a module resolution failure, got %+v", outcomes[1].Result.Errors)
}

func TestValidateAllCountsRepaired(t *testing.T) {
	channel := &countingChannel{responses: []any{"```tsx\n" + fixedCode + "```"}}
	o := New(testConfig(), nil, nil, channel, nil, nil)

	_, summary := o.ValidateAll(context.Background(), []types.Artifact{brokenArtifact("fix-me")})

	assert.Equal(t, 1, summary.Validated)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Repaired)
}
