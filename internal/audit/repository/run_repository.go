package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	auditdomain "chat-notify-backend/internal/audit/domain"
)

// RunRepository persists per-invocation audit rows. Writes are best-effort
// bookkeeping: callers log failures and carry on.
type RunRepository interface {
	RecordBroadcast(run *auditdomain.BroadcastRun) error
	RecordSweep(run *auditdomain.SweepRun) error
}

// runRepository implements RunRepository interface
type runRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new instance of runRepository
func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{
		db: db,
	}
}

func (r *runRepository) RecordBroadcast(run *auditdomain.BroadcastRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	return r.db.Create(run).Error
}

func (r *runRepository) RecordSweep(run *auditdomain.SweepRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	return r.db.Create(run).Error
}
