package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/dialogen/internal/generation"
)

// Runner is the slice of the generation loop the driver depends on,
// kept as an interface so the driver can be tested with fakes.
type Runner interface {
	RunObject(ctx context.Context, task generation.Task) (map[string]any, error)
}

// Driver iterates a batch of generation tasks sequentially, invoking the
// generation loop per task and collecting the successes in submission
// order. A single task's failure never aborts the batch: failed tasks are
// logged and skipped.
type Driver struct {
	runner Runner
	logger *slog.Logger

	// imageText, when non-empty, is attached to every collected record
	// as its image_text field.
	imageText string
}

// NewDriver creates a Driver with the provided dependencies.
func NewDriver(runner Runner, logger *slog.Logger, imageText string) (*Driver, error) {
	if runner == nil {
		return nil, errors.New("runner cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Driver{
		runner:    runner,
		logger:    logger,
		imageText: imageText,
	}, nil
}

// Run executes every task in order and returns the collected records.
// Records that carry no dialogue turns are dropped, never persisted.
func (d *Driver) Run(ctx context.Context, tasks []generation.Task) []map[string]any {
	runID := uuid.New().String()
	d.logger.InfoContext(ctx, "starting batch run",
		"run_id", runID,
		"task_count", len(tasks))

	results := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		d.logger.InfoContext(ctx, "requesting task",
			"run_id", runID,
			"task", task.Label)

		record, err := d.runner.RunObject(ctx, task)
		if err != nil {
			d.logger.WarnContext(ctx, "skipping task",
				"run_id", runID,
				"task", task.Label,
				"error", err)
			continue
		}

		if !hasTurns(record) {
			d.logger.WarnContext(ctx, "skipping record with no dialogue turns",
				"run_id", runID,
				"task", task.Label)
			continue
		}

		if d.imageText != "" {
			record["image_text"] = d.imageText
		}
		results = append(results, record)
	}

	d.logger.InfoContext(ctx, "batch run finished",
		"run_id", runID,
		"collected", len(results),
		"skipped", len(tasks)-len(results))

	return results
}

// hasTurns reports whether the record carries a non-empty dialogue array.
func hasTurns(record map[string]any) bool {
	lines, ok := record["dialogue"].([]any)
	return ok && len(lines) > 0
}

// taskLabel formats the standard per-task label used in logs and
// diagnostics.
func taskLabel(idx int) string {
	return fmt.Sprintf("persona #%d", idx)
}
