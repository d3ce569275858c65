// FILE: sensormerge/src/cmd/sensormerge/run.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"sensormerge/src/internal/config"
	"sensormerge/src/internal/core"
	"sensormerge/src/internal/filter"
	"sensormerge/src/internal/format"
	"sensormerge/src/internal/merge"
	"sensormerge/src/internal/metrics"
	"sensormerge/src/internal/sink"
	"sensormerge/src/internal/source"
	"sensormerge/src/internal/verify"

	"github.com/google/uuid"
	"github.com/lixenwraith/log"
)

// Process exit codes
const (
	exitSuccess       = 0
	exitFailure       = 1
	exitMissingInputs = 2
)

// runner executes one merge run and reports progress through the output handler
type runner struct {
	cfg     *config.Config
	logger  *log.Logger
	out     *OutputHandler
	loader  *source.FileLoader
	merger  *merge.Merger
	metrics *metrics.Recorder
	runID   string
	start   time.Time
}

func newRunner(cfg *config.Config, logger *log.Logger, out *OutputHandler) *runner {
	return &runner{
		cfg:     cfg,
		logger:  logger,
		out:     out,
		loader:  source.NewFileLoader(logger),
		merger:  merge.New(cfg.Merge, logger),
		metrics: metrics.NewRecorder(cfg.Metrics.Namespace),
		runID:   uuid.NewString(),
		start:   time.Now(),
	}
}

// run performs the whole pipeline and returns the process exit code
func (r *runner) run(ctx context.Context) int {
	r.out.Print("=== Sensor Merge ===\n\n")

	r.logger.Info("msg", "Run started",
		"component", "runner",
		"run_id", r.runID,
		"primary", r.cfg.Inputs.Primary,
		"secondary", r.cfg.Inputs.Secondary)

	if missing := source.Missing(r.cfg.Inputs.Primary, r.cfg.Inputs.Secondary); len(missing) > 0 {
		r.out.Error("❌ Missing required files: %s\n", strings.Join(missing, ", "))
		r.out.Error("Please ensure all data files are present.\n")
		r.logger.Error("msg", "Required inputs missing",
			"component", "runner",
			"missing", missing)
		r.finish(false)
		return exitMissingInputs
	}

	success := r.execute(ctx)
	r.finish(success)

	if success {
		r.out.Print("\n🎉 Merge completed successfully!\n")
		return exitSuccess
	}
	r.out.Error("\n⚠️  Merge finished with errors, review the messages above.\n")
	return exitFailure
}

func (r *runner) execute(ctx context.Context) bool {
	r.out.Print("Loading data files...\n")

	primary, err := r.loader.Load(r.cfg.Inputs.Primary)
	if err != nil {
		r.out.Error("❌ Could not load input data files: %v\n", err)
		return false
	}
	secondary, err := r.loader.Load(r.cfg.Inputs.Secondary)
	if err != nil {
		r.out.Error("❌ Could not load input data files: %v\n", err)
		return false
	}
	r.metrics.Loaded(core.InputPrimary, len(primary))
	r.metrics.Loaded(core.InputSecondary, len(secondary))
	r.out.Print("✅ Data files loaded successfully (%d + %d entries)\n", len(primary), len(secondary))

	if len(r.cfg.Filters) > 0 {
		chain, err := filter.NewChain(r.cfg.Filters, r.logger)
		if err != nil {
			r.out.Error("❌ Invalid filter configuration: %v\n", err)
			return false
		}
		primary = r.applyFilters(chain, core.InputPrimary, primary)
		secondary = r.applyFilters(chain, core.InputSecondary, secondary)
	}

	r.out.Print("Transforming data...\n")

	result, err := r.merger.Merge(primary, secondary)
	if err != nil {
		if errors.Is(err, merge.ErrNoInput) {
			r.out.Error("❌ Data transformation failed: input data is null\n")
		} else {
			r.out.Error("❌ Data transformation failed: %v\n", err)
		}
		return false
	}
	r.metrics.Merged(len(result), r.merger.Dropped())
	r.out.Print("✅ Transformation complete. Generated %d entries\n", len(result))

	if failed := r.merger.Normalizer().Failed(); failed > 0 {
		r.out.Error("⚠️  %d timestamps could not be converted and were left unchanged\n", failed)
	}

	doc, err := json.Marshal(result)
	if err != nil {
		r.out.Error("❌ Could not encode result: %v\n", err)
		return false
	}
	digest := verify.Digest(doc)

	success := r.verify(result)

	if !r.deliver(ctx, result, digest) {
		success = false
	}

	r.out.Print("Result digest: blake2b-256:%s (run %s)\n", digest, r.runID)
	return success
}

func (r *runner) applyFilters(chain *filter.Chain, input string, entries []core.Entry) []core.Entry {
	selected := chain.Select(entries)
	removed := len(entries) - len(selected)
	r.metrics.Filtered(input, removed)
	if removed > 0 {
		r.out.Print("Filters removed %d %s entries\n", removed, input)
	}
	return selected
}

// verify compares the result with the expected fixture when one is available
func (r *runner) verify(result []core.Entry) bool {
	var expected []core.Entry
	present := false

	if r.cfg.Inputs.Expected != "" {
		var err error
		expected, err = r.loader.LoadExpected(r.cfg.Inputs.Expected)
		switch {
		case err == nil:
			// A "null" document carries no expectation
			present = expected != nil
		case errors.Is(err, source.ErrNotFound):
		default:
			r.out.Error("⚠️  Could not load expected result: %v\n", err)
		}
	}

	if !present {
		r.metrics.Verification(metrics.OutcomeAbsent)
		r.out.Print("Expected result file not found. Here's your output:\n")
		r.printPretty(result)
		return true
	}

	report, err := verify.Compare(result, expected)
	if err != nil {
		r.out.Error("❌ Verification failed: %v\n", err)
		return false
	}

	if report.Match {
		r.metrics.Verification(metrics.OutcomeMatch)
		r.out.Print("✅ All checks passed! Output matches the expected result.\n")
		return true
	}

	r.metrics.Verification(metrics.OutcomeMismatch)
	r.out.Error("❌ Output doesn't match expected result\n")
	r.out.Print("Your output:\n%s\n", report.Result)
	r.out.Print("Expected output:\n%s\n", report.Expected)
	r.out.Print("Diff:\n%s\n", report.Diff)
	return false
}

func (r *runner) printPretty(result []core.Entry) {
	pretty, err := format.NewJSONFormatter(true, r.logger).Format(result)
	if err != nil {
		r.out.Error("❌ Could not encode result: %v\n", err)
		return
	}
	r.out.Print("%s", pretty)
}

// deliver writes the result to every configured sink; failures never alter the result
func (r *runner) deliver(ctx context.Context, result []core.Entry, digest string) bool {
	ok := true
	run := sink.RunInfo{RunID: r.runID, Digest: digest}

	for i, sc := range r.cfg.Sinks {
		s, err := sink.New(sc, r.cfg.Output, run, r.logger)
		if err != nil {
			r.out.Error("❌ Sink %d (%s) could not be created: %v\n", i, sc.Type, err)
			r.metrics.SinkFailed(sc.Type)
			ok = false
			continue
		}

		err = s.Write(ctx, result)
		s.Stop()

		stats := s.GetStats()
		r.metrics.SinkDelivered(sc.Type, stats.TotalProcessed)
		if err != nil {
			r.out.Error("❌ Sink %d (%s) failed: %v\n", i, sc.Type, err)
			r.metrics.SinkFailed(sc.Type)
			ok = false
			continue
		}

		r.logger.Info("msg", "Sink delivered",
			"component", "runner",
			"sink", sc.Type,
			"entries", stats.TotalProcessed)
	}
	return ok
}

// finish records run statistics and writes the metrics textfile
func (r *runner) finish(success bool) {
	normalizer := r.merger.Normalizer()
	r.metrics.Timestamps(normalizer.Converted(), normalizer.Failed())

	duration := time.Since(r.start)
	r.metrics.Finish(success, duration, time.Now())

	r.logger.Info("msg", "Run finished",
		"component", "runner",
		"run_id", r.runID,
		"success", success,
		"duration_ms", duration.Milliseconds(),
		"merger", r.merger.GetStats(),
		"loader_files", r.loader.GetStats().TotalFiles)

	if r.cfg.Metrics.Textfile != "" {
		if err := r.metrics.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
			r.logger.Error("msg", "Failed to write metrics textfile",
				"component", "runner",
				"path", r.cfg.Metrics.Textfile,
				"error", err)
			r.out.Error("⚠️  Could not write metrics: %v\n", err)
		}
	}
}
