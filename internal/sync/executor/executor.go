// Package executor applies a reconciliation plan to the destination tree.
package executor

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/ccarocean/copernicus-sync/internal/codec"
	"github.com/ccarocean/copernicus-sync/internal/logging"
	"github.com/ccarocean/copernicus-sync/internal/remote"
	"github.com/ccarocean/copernicus-sync/internal/sync/diff"
	"github.com/ccarocean/copernicus-sync/internal/utils"
)

// partSuffix marks an in-flight download next to its final name.
const partSuffix = ".part"

// Executor downloads and deletes files according to a plan.
type Executor struct {
	sess remote.Session
	log  logging.Logger
}

// Options control how a plan is applied.
type Options struct {
	// DryRun counts actions without touching the filesystem or the server
	DryRun bool
	// Delay is observed before each fetch, to pace requests. Deletes and
	// skips are not delayed.
	Delay time.Duration
}

// Summary counts what a run did.
type Summary struct {
	Fetched int   `json:"fetched"`
	Updated int   `json:"updated"`
	Deleted int   `json:"deleted"`
	Skipped int   `json:"skipped"`
	Bytes   int64 `json:"bytes"`
}

// New creates an executor over a connected session.
func New(sess remote.Session, log logging.Logger) *Executor {
	return &Executor{sess: sess, log: log}
}

// Apply walks the plan in order. The first failure aborts the run; a fetch
// that fails never leaves a partial file at or near the destination path.
func (e *Executor) Apply(ctx context.Context, actions []diff.Action, root, prefix string, opts Options) (Summary, error) {
	var summary Summary

	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		switch action.Type {
		case diff.ActionFetch:
			if opts.DryRun {
				e.log.Info("would fetch",
					logging.F("date", action.Date.String()),
					logging.F("reason", string(action.Reason)))
				summary.countFetch(action)
				continue
			}
			if err := e.pause(ctx, opts.Delay); err != nil {
				return summary, err
			}
			if err := e.fetch(action, root, prefix); err != nil {
				return summary, err
			}
			summary.countFetch(action)
			summary.Bytes += action.Remote.Size

		case diff.ActionDelete:
			if opts.DryRun {
				e.log.Info("would delete", logging.F("path", action.Local.Path))
				summary.Deleted++
				continue
			}
			if err := e.delete(action); err != nil {
				return summary, err
			}
			summary.Deleted++

		case diff.ActionSkip:
			e.log.Debug("up to date", logging.F("date", action.Date.String()))
			summary.Skipped++
		}
	}

	return summary, nil
}

// fetch streams one remote file into place. The download goes to a .part
// file first and is renamed only once complete, so an interrupted transfer
// never masquerades as data. The local mtime is set to the remote mtime so
// the next reconciliation sees the file as current.
func (e *Executor) fetch(action diff.Action, root, prefix string) error {
	dest := codec.LocalPath(root, prefix, action.Date)
	verb := "downloading"
	if action.Reason == diff.ReasonUpdate {
		verb = "updating"
	}
	e.log.Info(verb,
		logging.F("date", action.Date.String()),
		logging.F("remote", action.Remote.Path),
		logging.F("size", action.Remote.Size))

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return utils.WrapError(utils.ErrCodeFilesystemError, "cannot create year directory", err)
	}

	part := dest + partSuffix
	f, err := os.Create(part)
	if err != nil {
		return utils.WrapError(utils.ErrCodeFilesystemError, "cannot create "+part, err)
	}

	if err := e.sess.Retrieve(action.Remote.Path, f); err != nil {
		_ = f.Close()
		_ = os.Remove(part)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(part)
		return utils.WrapError(utils.ErrCodeFilesystemError, "cannot finish writing "+part, err)
	}

	if err := os.Rename(part, dest); err != nil {
		_ = os.Remove(part)
		return utils.WrapError(utils.ErrCodeFilesystemError, "cannot move download into place", err)
	}

	mtime := action.Remote.Modified
	if err := os.Chtimes(dest, mtime, mtime); err != nil {
		_ = os.Remove(dest)
		return utils.WrapError(utils.ErrCodeFilesystemError, "cannot set modification time on "+dest, err)
	}

	return nil
}

// delete removes one local file. A file that is already gone counts as
// deleted; reruns must not fail on work a previous run finished.
func (e *Executor) delete(action diff.Action) error {
	e.log.Info("deleting",
		logging.F("date", action.Date.String()),
		logging.F("path", action.Local.Path))

	if err := os.Remove(action.Local.Path); err != nil && !os.IsNotExist(err) {
		return utils.WrapError(utils.ErrCodeFilesystemError, "cannot delete "+action.Local.Path, err)
	}
	return nil
}

// pause waits for the configured delay, abandoning the wait if the run is
// cancelled.
func (e *Executor) pause(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Summary) countFetch(action diff.Action) {
	if action.Reason == diff.ReasonUpdate {
		s.Updated++
		return
	}
	s.Fetched++
}
