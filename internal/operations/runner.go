package operations

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"icucli/internal/infrastructure"
)

// Runner executes the pipeline steps for one patient run, in order,
// stopping at the first failure. The steps are fixed at construction;
// the run state is what varies between patients.
type Runner struct {
	steps  []Step
	logger *slog.Logger
}

// NewRunner creates a runner over the given step sequence.
func NewRunner(logger *slog.Logger, steps ...Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{steps: steps, logger: logger}
}

// Steps returns the configured step sequence.
func (r *Runner) Steps() []Step {
	return r.steps
}

// Execute runs every step against the state. The workbook is only
// written by the final step, so a failed run leaves no partial output.
func (r *Runner) Execute(ctx context.Context, state *RunState) error {
	ctx = infrastructure.WithRunID(ctx, state.ID)
	ctx, span := infrastructure.StartSpan(ctx, "pipeline.run",
		attribute.String("run.id", state.ID),
		attribute.String("run.patient", state.Patient),
	)
	defer span.End()

	state.Status = RunStatusRunning
	r.logger.InfoContext(ctx, "Run started",
		slog.String("run_id", state.ID),
		slog.String("patient", state.Patient),
		slog.String("input_dir", state.InputDir),
		slog.Int("step_count", len(r.steps)))

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			state.Fail(err)
			return err
		}
		if err := r.runStep(ctx, step, state); err != nil {
			state.Fail(err)
			infrastructure.RecordError(ctx, err)
			r.logger.ErrorContext(ctx, "Run failed",
				slog.String("run_id", state.ID),
				slog.String("patient", state.Patient),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return err
		}
	}

	state.Complete()
	r.logger.InfoContext(ctx, "Run completed",
		slog.String("run_id", state.ID),
		slog.String("patient", state.Patient),
		slog.String("output", state.OutputPath),
		slog.Duration("duration", state.Duration()))
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step, state *RunState) error {
	stepCtx, span := infrastructure.StartSpan(ctx, "pipeline.step."+step.ID(),
		attribute.String("step.id", step.ID()),
		attribute.String("run.id", state.ID),
	)
	defer span.End()

	ss := state.StepState(step)
	ss.Start()
	r.logger.DebugContext(stepCtx, "Step started",
		slog.String("run_id", state.ID),
		slog.String("step", step.ID()))

	if err := step.Run(stepCtx, state); err != nil {
		err = WrapStepError(step.ID(), err)
		ss.Fail(err)
		infrastructure.RecordError(stepCtx, err)
		return err
	}

	if ss.CurrentStatus() == StepStatusSkipped {
		r.logger.InfoContext(stepCtx, "Step skipped",
			slog.String("run_id", state.ID),
			slog.String("step", step.ID()),
			slog.String("reason", ss.Message))
		return nil
	}

	ss.Complete()
	r.logger.InfoContext(stepCtx, "Step completed",
		slog.String("run_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", ss.Duration()))
	return nil
}
