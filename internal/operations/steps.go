package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"icucli/internal/dataprocessing"
	"icucli/internal/exporter"
	"icucli/internal/files"
	"icucli/internal/infrastructure"
)

// Step identifiers, in execution order.
const (
	StepIDDiscover   = "discover"
	StepIDAggregate  = "aggregate"
	StepIDAnonymize  = "anonymize"
	StepIDPivot      = "pivot"
	StepIDCategorize = "categorize"
	StepIDReconcile  = "reconcile"
	StepIDAssemble   = "assemble"
)

// DefaultSteps builds the full pipeline sequence for a patient run.
func DefaultSteps(discovery *files.Discovery) []Step {
	return []Step{
		NewDiscoverStep(discovery),
		&AggregateStep{},
		&AnonymizeStep{},
		&PivotStep{},
		&CategorizeStep{},
		&ReconcileStep{},
		&AssembleStep{},
	}
}

// DiscoverStep locates the monitor exports and the optional laboratory
// file in the patient directory and parses them into raw batches. The
// lab file is excluded from the monitor set even when its extension
// matches, it has a different shape entirely.
type DiscoverStep struct {
	discovery *files.Discovery
}

func NewDiscoverStep(discovery *files.Discovery) *DiscoverStep {
	return &DiscoverStep{discovery: discovery}
}

func (s *DiscoverStep) ID() string   { return StepIDDiscover }
func (s *DiscoverStep) Name() string { return "Discover and parse source files" }

func (s *DiscoverStep) Run(ctx context.Context, state *RunState) error {
	labFile, hasLab, err := s.discovery.FindLabFile(state.InputDir, state.Config.Lab.FilePattern)
	if err != nil {
		return err
	}
	if hasLab {
		state.LabFile = labFile.Path
	}

	exports, err := s.discovery.FindExportFiles(state.InputDir)
	if err != nil {
		return err
	}

	schema := state.Config.Schema()
	for _, export := range exports {
		if hasLab && export.Path == labFile.Path {
			continue
		}
		batch, err := dataprocessing.ParseExportFile(export.Path, schema)
		if err != nil {
			return err
		}
		state.SourceFiles = append(state.SourceFiles, export.Name)
		state.Batches = append(state.Batches, batch)
	}

	if len(state.Batches) == 0 {
		return fmt.Errorf("no monitor export files found in %s", state.InputDir)
	}

	infrastructure.LoggerWithContext(ctx).DebugContext(ctx, "Discovered source files",
		slog.String("patient", state.Patient),
		slog.Int("export_count", len(state.Batches)),
		slog.Bool("has_lab_file", hasLab))
	return nil
}

// AggregateStep concatenates the raw batches into one long-format set,
// rejecting any batch that does not carry the configured schema.
type AggregateStep struct{}

func (s *AggregateStep) ID() string   { return StepIDAggregate }
func (s *AggregateStep) Name() string { return "Aggregate export batches" }

func (s *AggregateStep) Run(ctx context.Context, state *RunState) error {
	aggregated, err := dataprocessing.Aggregate(state.Batches, state.Config.Schema())
	if err != nil {
		return err
	}
	state.Aggregated = aggregated
	return nil
}

// AnonymizeStep projects the aggregated rows onto the observation
// allow-list, discarding every column that is not time, parameter or
// value. After this step no identifying data exists in the run state.
type AnonymizeStep struct{}

func (s *AnonymizeStep) ID() string   { return StepIDAnonymize }
func (s *AnonymizeStep) Name() string { return "Anonymize observations" }

func (s *AnonymizeStep) Run(ctx context.Context, state *RunState) error {
	observations, err := dataprocessing.Anonymize(state.Aggregated, state.Config.Schema(), state.Config.Pipeline.TimeLayouts)
	if err != nil {
		return err
	}
	state.Observations = observations
	// The raw rows are not needed past this point.
	state.Batches = nil
	state.Aggregated.Rows = nil
	return nil
}

// PivotStep turns the long observation stream into the wide table.
type PivotStep struct{}

func (s *PivotStep) ID() string   { return StepIDPivot }
func (s *PivotStep) Name() string { return "Pivot to wide format" }

func (s *PivotStep) Run(ctx context.Context, state *RunState) error {
	wide, err := dataprocessing.Pivot(state.Observations, dataprocessing.PivotOptions{
		MultiValued: state.Categories.MultiValued,
		Policy:      state.Config.Policy(),
		Separator:   state.Config.Pipeline.ListSeparator,
	})
	if err != nil {
		return err
	}
	state.Wide = wide
	return nil
}

// CategorizeStep projects the wide table onto each clinical category.
type CategorizeStep struct{}

func (s *CategorizeStep) ID() string   { return StepIDCategorize }
func (s *CategorizeStep) Name() string { return "Partition into clinical categories" }

func (s *CategorizeStep) Run(ctx context.Context, state *RunState) error {
	state.Tables = dataprocessing.SelectCategories(state.Wide, state.Categories.Categories)
	return nil
}

// ReconcileStep parses the laboratory export and places its table next
// to the monitor blood-gas view. The step is skipped when the dataset
// has no lab file or the category spec has no blood-gas view.
type ReconcileStep struct{}

func (s *ReconcileStep) ID() string   { return StepIDReconcile }
func (s *ReconcileStep) Name() string { return "Reconcile laboratory blood gas" }

func (s *ReconcileStep) Run(ctx context.Context, state *RunState) error {
	if state.LabFile == "" {
		state.StepState(s).Skip("no laboratory file in dataset")
		return nil
	}
	gas, ok := state.Categories.GasCategory()
	if !ok {
		state.StepState(s).Skip("category specification has no blood-gas view")
		return nil
	}

	lab, err := dataprocessing.ParseLabFile(state.LabFile, dataprocessing.LabSchema{
		Time:        state.Config.Lab.TimeColumn,
		Identifying: state.Config.Lab.Identifying,
		TimeLayouts: state.Config.Pipeline.TimeLayouts,
	})
	if err != nil {
		return dataprocessing.LabError(state.LabFile, err)
	}
	state.LabTable = &lab

	for i, table := range state.Tables {
		if table.Name != gas.Name {
			continue
		}
		pair := dataprocessing.ReconcileGasTables(table, lab, state.Config.Lab.Identifying)
		state.Tables = append(state.Tables[:i], append(pair, state.Tables[i+1:]...)...)
		break
	}
	return nil
}

// AssembleStep writes the workbook, one sheet per category table plus
// the info sheet, and optionally mirrors each sheet as CSV.
type AssembleStep struct{}

func (s *AssembleStep) ID() string   { return StepIDAssemble }
func (s *AssembleStep) Name() string { return "Assemble workbook" }

func (s *AssembleStep) Run(ctx context.Context, state *RunState) error {
	transform := exporter.ScaleTransform(state.Config.Export.UnitScale)

	names := make([]string, 0, len(state.Tables))
	for _, table := range state.Tables {
		names = append(names, table.Name)
	}

	workbook := exporter.NewWorkbook(transform)
	if err := workbook.AddInfoSheet(exporter.RunInfo{
		Patient:     state.Patient,
		RunID:       state.ID,
		GeneratedAt: time.Now(),
		Sources:     state.SourceFiles,
		Policy:      state.Config.Policy(),
		Categories:  names,
	}); err != nil {
		return err
	}
	for _, table := range state.Tables {
		if err := workbook.AddTable(table); err != nil {
			return err
		}
	}
	if err := workbook.SaveAs(state.OutputPath); err != nil {
		return err
	}

	if state.Config.Export.CSVMirror {
		writer := exporter.NewCSVWriter(filepath.Dir(state.OutputPath), transform)
		for _, table := range state.Tables {
			if err := writer.WriteTable(table); err != nil {
				return err
			}
		}
	}

	infrastructure.LoggerWithContext(ctx).InfoContext(ctx, "Workbook assembled",
		slog.String("patient", state.Patient),
		slog.String("path", state.OutputPath),
		slog.Int("sheet_count", len(state.Tables)+1))
	return nil
}
