package sync

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ccarocean/copernicus-sync/internal/dataset"
	"github.com/ccarocean/copernicus-sync/internal/logging"
	"github.com/ccarocean/copernicus-sync/internal/remote"
	"github.com/ccarocean/copernicus-sync/internal/sync/diff"
	"github.com/ccarocean/copernicus-sync/internal/sync/executor"
	"github.com/ccarocean/copernicus-sync/internal/sync/journal"
	"github.com/ccarocean/copernicus-sync/internal/sync/scanner"
)

// Engine drives one mirror pass: index both sides, compute the action list,
// apply it, and record the outcome in the journal.
type Engine struct {
	sess    remote.Session
	journal *journal.DB
	log     logging.Logger
}

type Options struct {
	DryRun bool
	Delay  time.Duration
}

// Plan is the computed action list together with the indices it came from.
type Plan struct {
	Actions []diff.Action
	Remote  scanner.Index
	Local   scanner.Index
}

type Result struct {
	RunID   string
	Plan    Plan
	Summary executor.Summary
}

func NewEngine(sess remote.Session, db *journal.DB, log logging.Logger) *Engine {
	return &Engine{
		sess:    sess,
		journal: db,
		log:     log,
	}
}

// Plan indexes the remote partitions and the local destination tree and
// diffs them. It never touches the destination.
func (e *Engine) Plan(ctx context.Context, profile dataset.Profile, dest string) (Plan, error) {
	dest, err := absDest(dest)
	if err != nil {
		return Plan{}, err
	}

	remoteIdx, err := scanner.ScanRemote(ctx, e.sess, profile, e.log)
	if err != nil {
		return Plan{}, err
	}
	localIdx, err := scanner.ScanLocal(dest, profile.Prefix, e.log)
	if err != nil {
		return Plan{}, err
	}

	actions := diff.Compute(remoteIdx, localIdx)
	e.log.Info("plan computed",
		logging.F("dataset", profile.Selector),
		logging.F("actions", len(actions)))

	return Plan{Actions: actions, Remote: remoteIdx, Local: localIdx}, nil
}

// Run plans and applies in one pass. Every run gets a journal row, failed
// ones included, so the history survives partial syncs. Journal write
// failures are logged but do not fail the run; the mirror itself is the
// source of truth.
func (e *Engine) Run(ctx context.Context, profile dataset.Profile, dest string, opts Options) (Result, error) {
	dest, err := absDest(dest)
	if err != nil {
		return Result{}, err
	}

	runID := uuid.NewString()
	started := time.Now()

	plan, err := e.Plan(ctx, profile, dest)
	if err != nil {
		e.record(ctx, runID, profile, dest, opts, started, executor.Summary{}, err)
		return Result{}, err
	}

	exec := executor.New(e.sess, e.log)
	summary, err := exec.Apply(ctx, plan.Actions, dest, profile.Prefix, executor.Options{
		DryRun: opts.DryRun,
		Delay:  opts.Delay,
	})
	e.record(ctx, runID, profile, dest, opts, started, summary, err)
	if err != nil {
		return Result{}, err
	}

	return Result{RunID: runID, Plan: plan, Summary: summary}, nil
}

func (e *Engine) record(ctx context.Context, runID string, profile dataset.Profile, dest string, opts Options, started time.Time, summary executor.Summary, runErr error) {
	if e.journal == nil {
		return
	}

	run := journal.Run{
		ID:          runID,
		Dataset:     profile.Selector,
		Destination: dest,
		DryRun:      opts.DryRun,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Fetched:     summary.Fetched,
		Updated:     summary.Updated,
		Deleted:     summary.Deleted,
		Skipped:     summary.Skipped,
		Bytes:       summary.Bytes,
		Status:      journal.StatusOK,
	}
	if runErr != nil {
		run.Status = journal.StatusFailed
		run.Error = runErr.Error()
	}

	if err := e.journal.RecordRun(context.WithoutCancel(ctx), run); err != nil {
		e.log.Warn("could not record run in journal",
			logging.F("runId", runID),
			logging.F("error", err.Error()))
	}
}

func absDest(dest string) (string, error) {
	if filepath.IsAbs(dest) {
		return dest, nil
	}
	return filepath.Abs(dest)
}
