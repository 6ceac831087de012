// Package reconcile repairs the leftovers of multi-step operations that
// failed partway. When a compensating action cannot run inline, the
// failing service writes a record under the "reconcile:" namespace and a
// scheduled sweep retries it until it succeeds.
package reconcile

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"rainbow-properties/internal/kvstore"
	"rainbow-properties/internal/objstore"
)

const keyPrefix = "reconcile:"

// Action names the compensating step the sweep must retry.
type Action string

const (
	// ActionRemoveBlob deletes an orphaned object-storage blob.
	ActionRemoveBlob Action = "remove_blob"
	// ActionRemoveMeta deletes a dangling key-value entry.
	ActionRemoveMeta Action = "remove_meta"
	// ActionRemoveAuthUser deletes an auth identity without a directory record.
	ActionRemoveAuthUser Action = "remove_auth_user"
)

// Record is one pending compensation.
type Record struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Target    string    `json:"target"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
	Attempts  int       `json:"attempts"`
}

// Recorder writes reconciliation records. Recording is best effort: a
// failure to record is logged, never propagated, so it cannot mask the
// original error.
type Recorder struct {
	store kvstore.Store
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(store kvstore.Store) *Recorder {
	return &Recorder{store: store}
}

// Record persists a pending compensation.
func (r *Recorder) Record(ctx context.Context, action Action, target, reason string) {
	rec := Record{
		ID:        uuid.NewString(),
		Action:    action,
		Target:    target,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.store.Set(ctx, keyPrefix+rec.ID, rec); err != nil {
		zap.S().Errorw("failed to write reconciliation record",
			"action", action, "target", target, "error", err)
		return
	}
	zap.S().Warnw("reconciliation record written",
		"action", action, "target", target, "reason", reason)
}

// UserDeleter removes auth identities; satisfied by the auth client.
type UserDeleter interface {
	DeleteUser(ctx context.Context, id string) error
}

// Sweeper periodically retries pending compensations.
type Sweeper struct {
	store kvstore.Store
	blobs objstore.Store
	users UserDeleter
	cron  *cron.Cron
}

// NewSweeper creates a sweeper; blobs and users may be nil when the
// corresponding backends are not configured.
func NewSweeper(store kvstore.Store, blobs objstore.Store, users UserDeleter) *Sweeper {
	return &Sweeper{store: store, blobs: blobs, users: users}
}

// Start schedules the sweep on the given cron spec.
func (s *Sweeper) Start(spec string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(spec, func() {
		resolved, err := s.SweepOnce(context.Background())
		if err != nil {
			zap.S().Errorw("reconciliation sweep failed", "error", err)
			return
		}
		if resolved > 0 {
			zap.S().Infow("reconciliation sweep resolved records", "count", resolved)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduled sweep.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// SweepOnce retries every pending record, deleting those whose action
// succeeds and bumping the attempt count on the rest.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	entries, err := s.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, entry := range entries {
		var rec Record
		if err := json.Unmarshal(entry.Value, &rec); err != nil {
			// Unreadable record: drop it rather than retry forever.
			_ = s.store.Delete(ctx, entry.Key)
			continue
		}

		if err := s.apply(ctx, &rec); err != nil {
			rec.Attempts++
			if setErr := s.store.Set(ctx, entry.Key, rec); setErr != nil {
				zap.S().Errorw("failed to update reconciliation record",
					"id", rec.ID, "error", setErr)
			}
			zap.S().Warnw("reconciliation action still failing",
				"action", rec.Action, "target", rec.Target,
				"attempts", rec.Attempts, "error", err)
			continue
		}

		if err := s.store.Delete(ctx, entry.Key); err != nil {
			zap.S().Errorw("failed to delete resolved reconciliation record",
				"id", rec.ID, "error", err)
			continue
		}
		resolved++
	}
	return resolved, nil
}

func (s *Sweeper) apply(ctx context.Context, rec *Record) error {
	switch rec.Action {
	case ActionRemoveBlob:
		if s.blobs == nil {
			return nil
		}
		return s.blobs.Remove(ctx, rec.Target)
	case ActionRemoveMeta:
		return s.store.Delete(ctx, rec.Target)
	case ActionRemoveAuthUser:
		if s.users == nil {
			return nil
		}
		return s.users.DeleteUser(ctx, rec.Target)
	default:
		// Unknown action, nothing to retry.
		return nil
	}
}
