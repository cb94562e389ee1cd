package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/dialogen/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner scripts per-label results for the driver.
type fakeRunner struct {
	results map[string]map[string]any
	errs    map[string]error
	calls   []string
}

func (f *fakeRunner) RunObject(_ context.Context, task generation.Task) (map[string]any, error) {
	f.calls = append(f.calls, task.Label)
	if err := f.errs[task.Label]; err != nil {
		return nil, err
	}
	return f.results[task.Label], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(turns ...string) map[string]any {
	lines := make([]any, 0, len(turns))
	for _, text := range turns {
		lines = append(lines, map[string]any{"text": text})
	}
	return map[string]any{"dialogue": lines}
}

func TestNewDriverValidation(t *testing.T) {
	_, err := NewDriver(nil, testLogger(), "")
	assert.Error(t, err, "nil runner should be rejected")

	_, err = NewDriver(&fakeRunner{}, nil, "")
	assert.Error(t, err, "nil logger should be rejected")
}

// TestRunCollectsInSubmissionOrder verifies successes are accumulated in
// task order and failed tasks are skipped without aborting the batch.
func TestRunCollectsInSubmissionOrder(t *testing.T) {
	runner := &fakeRunner{
		results: map[string]map[string]any{
			"persona #1": record("hi", "yo"),
			"persona #3": record("namaste", "hello"),
		},
		errs: map[string]error{
			"persona #2": fmt.Errorf("%w: parse retries exhausted", generation.ErrEmptyResult),
		},
	}
	driver, err := NewDriver(runner, testLogger(), "")
	require.NoError(t, err)

	tasks := []generation.Task{
		{Label: "persona #1"},
		{Label: "persona #2"},
		{Label: "persona #3"},
	}
	results := driver.Run(context.Background(), tasks)

	require.Len(t, results, 2, "the failed task should be skipped, not fatal")
	assert.Equal(t, record("hi", "yo"), results[0])
	assert.Equal(t, record("namaste", "hello"), results[1])
	assert.Equal(t, []string{"persona #1", "persona #2", "persona #3"}, runner.calls,
		"every task should be attempted in submission order")
}

// TestRunDropsZeroTurnRecords verifies the driver's keep/drop validation:
// a record without dialogue turns is never persisted.
func TestRunDropsZeroTurnRecords(t *testing.T) {
	runner := &fakeRunner{
		results: map[string]map[string]any{
			"persona #1": {"persona": "A"}, // missing dialogue
			"persona #2": {"dialogue": []any{}},
			"persona #3": record("hi"),
		},
	}
	driver, err := NewDriver(runner, testLogger(), "")
	require.NoError(t, err)

	results := driver.Run(context.Background(), []generation.Task{
		{Label: "persona #1"},
		{Label: "persona #2"},
		{Label: "persona #3"},
	})

	require.Len(t, results, 1)
	assert.Equal(t, record("hi"), results[0])
}

// TestRunAttachesImageText verifies the configured snippet is attached to
// every collected record.
func TestRunAttachesImageText(t *testing.T) {
	runner := &fakeRunner{
		results: map[string]map[string]any{"persona #1": record("hi")},
	}
	driver, err := NewDriver(runner, testLogger(), "snippet body")
	require.NoError(t, err)

	results := driver.Run(context.Background(), []generation.Task{{Label: "persona #1"}})
	require.Len(t, results, 1)
	assert.Equal(t, "snippet body", results[0]["image_text"])
}
