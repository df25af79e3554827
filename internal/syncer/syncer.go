package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"cloud.google.com/go/logging"
	"github.com/google/uuid"

	"github.com/andywolf/envsync/internal/cloud/gcp"
	"github.com/andywolf/envsync/internal/envfile"
	"github.com/andywolf/envsync/internal/redact"
	"github.com/andywolf/envsync/internal/store"
)

// ConfirmFunc asks the operator to approve a rendered plan summary.
type ConfirmFunc func(summary string) (bool, error)

// Options configures a Syncer. Zero values mean: no backups, no pruning
// of remote extras, apply without confirmation.
type Options struct {
	DryRun      bool
	Prune       bool
	BackupDir   string
	KeepBackups int
	Confirm     ConfirmFunc
}

// Result reports what a run did.
type Result struct {
	RunID      string
	Created    int
	Updated    int
	Deleted    int
	Unchanged  int
	Failed     int
	BackupPath string
}

// Syncer applies env file entries to a secret store.
type Syncer struct {
	store  store.Store
	logger *slog.Logger
	audit  gcp.AuditLogger
	opts   Options
}

func New(st store.Store, logger *slog.Logger, audit gcp.AuditLogger, opts Options) *Syncer {
	if audit == nil {
		audit = gcp.NopAuditLogger{}
	}
	return &Syncer{store: st, logger: logger, audit: audit, opts: opts}
}

// Plan fetches the remote snapshot and diffs it against local entries
// without writing anything.
func (s *Syncer) Plan(ctx context.Context, entries []envfile.Entry) (*Plan, error) {
	remote, err := s.fetchRemote(ctx)
	if err != nil {
		return nil, err
	}
	return Diff(entries, remote, s.opts.Prune), nil
}

// Run plans and applies a sync. Per-key failures do not abort the run;
// they are counted and reported in the returned error. The redaction
// cache is cleared when the run finishes so hashes of this run's output
// do not persist in memory.
func (s *Syncer) Run(ctx context.Context, entries []envfile.Entry) (*Result, error) {
	defer redact.ClearCache()

	runID := uuid.NewString()
	result := &Result{RunID: runID}

	plan, err := s.Plan(ctx, entries)
	if err != nil {
		return result, err
	}
	for _, c := range plan.Changes {
		if c.Action == ActionUnchanged {
			result.Unchanged++
		}
	}

	pending := plan.Pending()
	if len(pending) == 0 {
		s.logger.Info("nothing to sync", "run_id", runID, "keys", len(plan.Changes))
		return result, nil
	}

	summary := plan.Summary()
	s.logger.Info("sync plan", "run_id", runID, "pending", len(pending))

	if s.opts.DryRun {
		s.logger.Info("dry run, no changes applied", "run_id", runID)
		return result, nil
	}

	if s.opts.Confirm != nil {
		ok, err := s.opts.Confirm(summary)
		if err != nil {
			return result, fmt.Errorf("confirming plan: %w", err)
		}
		if !ok {
			return result, errors.New("sync aborted by operator")
		}
	}

	if s.opts.BackupDir != "" {
		path, err := writeBackup(s.opts.BackupDir, runID, plan)
		if err != nil {
			return result, err
		}
		result.BackupPath = path
		if err := pruneBackups(s.opts.BackupDir, s.opts.KeepBackups); err != nil {
			s.logger.Warn("pruning backups failed", "error", err)
		}
	}

	s.audit.Event(logging.Info, "sync started", map[string]string{
		"run_id": runID, "store": s.store.Name(), "pending": fmt.Sprint(len(pending)),
	})

	for _, change := range pending {
		if err := s.apply(ctx, change); err != nil {
			result.Failed++
			s.logger.Error("applying change failed",
				"run_id", runID, "key", change.Key, "action", string(change.Action), "error", err)
			s.audit.Event(logging.Error, "change failed", map[string]string{
				"run_id": runID, "key": change.Key, "action": string(change.Action),
			})
			continue
		}
		switch change.Action {
		case ActionCreate:
			result.Created++
		case ActionUpdate:
			result.Updated++
		case ActionDelete:
			result.Deleted++
		}
		s.logger.Info("applied", "run_id", runID, "key", change.Key, "action", string(change.Action))
	}

	s.audit.Event(logging.Info, "sync finished", map[string]string{
		"run_id":  runID,
		"created": fmt.Sprint(result.Created),
		"updated": fmt.Sprint(result.Updated),
		"deleted": fmt.Sprint(result.Deleted),
		"failed":  fmt.Sprint(result.Failed),
	})
	s.audit.Flush()

	if result.Failed > 0 {
		return result, fmt.Errorf("%d of %d changes failed", result.Failed, len(pending))
	}
	return result, nil
}

func (s *Syncer) apply(ctx context.Context, change Change) error {
	switch change.Action {
	case ActionCreate, ActionUpdate:
		return s.store.Put(ctx, change.Key, change.localValue)
	case ActionDelete:
		return s.store.Delete(ctx, change.Key)
	default:
		return nil
	}
}

// fetchRemote lists remote secret names and reads each value. Keys that
// vanish between list and get are skipped rather than failing the run.
func (s *Syncer) fetchRemote(ctx context.Context) (map[string]string, error) {
	names, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing remote secrets: %w", err)
	}
	sort.Strings(names)

	remote := make(map[string]string, len(names))
	for _, name := range names {
		value, err := s.store.Get(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrSecretNotFound) {
				continue
			}
			return nil, fmt.Errorf("reading remote secret %s: %w", name, err)
		}
		remote[name] = value
	}
	return remote, nil
}
