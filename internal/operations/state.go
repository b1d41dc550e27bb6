package operations

import (
	"time"

	"icucli/internal/config"
	"icucli/internal/infrastructure"
	"icucli/pkg/contracts/domain"
)

// RunStatus represents the overall run status.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunState carries everything one patient's pipeline run touches. It
// is created fresh per run and dropped afterwards; steps communicate
// only through it, never through package-level state, so concurrent
// patient runs cannot interfere.
type RunState struct {
	ID        string     `json:"id"`
	Patient   string     `json:"patient"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Where the dataset lives and where the workbook goes.
	InputDir   string `json:"input_dir"`
	OutputPath string `json:"output_path"`

	// Configuration frozen at run start.
	Config     *config.Config      `json:"-"`
	Categories config.CategorySpec `json:"-"`

	// Intermediate products, filled in step by step.
	SourceFiles  []string             `json:"source_files"`
	LabFile      string               `json:"lab_file,omitempty"`
	Batches      []domain.RawBatch    `json:"-"`
	Aggregated   domain.RawBatch      `json:"-"`
	Observations []domain.Observation `json:"-"`
	Wide         domain.Table         `json:"-"`
	Tables       []domain.Table       `json:"-"`
	LabTable     *domain.Table        `json:"-"`

	// Per-step bookkeeping.
	Steps map[string]*StepState `json:"steps"`

	Err error `json:"error,omitempty"`
}

// NewRunState creates the state for one patient run.
func NewRunState(patient, inputDir, outputPath string, cfg *config.Config, categories config.CategorySpec) *RunState {
	return &RunState{
		ID:         infrastructure.NewRunID(),
		Patient:    patient,
		Status:     RunStatusPending,
		StartTime:  time.Now(),
		InputDir:   inputDir,
		OutputPath: outputPath,
		Config:     cfg,
		Categories: categories,
		Steps:      make(map[string]*StepState),
	}
}

// StepState returns (creating if needed) the bookkeeping entry for a step.
func (r *RunState) StepState(step Step) *StepState {
	if s, ok := r.Steps[step.ID()]; ok {
		return s
	}
	s := NewStepState(step.ID(), step.Name())
	r.Steps[step.ID()] = s
	return s
}

// Complete marks the run as completed.
func (r *RunState) Complete() {
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed.
func (r *RunState) Fail(err error) {
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Err = err
}

// Duration returns how long the run has been going, or took.
func (r *RunState) Duration() time.Duration {
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}
