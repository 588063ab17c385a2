package auditRepo

import (
	"context"
	"sync"
	"time"

	"vacaplan/models"

	"github.com/google/uuid"
)

// memoryAuditRepo is the in-process audit log used in mock mode and tests.
type memoryAuditRepo struct {
	mu      sync.Mutex
	records []models.AuditRecord
}

// NewMemoryAuditRepo returns an in-memory Repository.
func NewMemoryAuditRepo() Repository {
	return &memoryAuditRepo{}
}

func (r *memoryAuditRepo) Append(ctx context.Context, record models.AuditRecord) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	r.records = append(r.records, record)
	return record.ID, nil
}

func (r *memoryAuditRepo) BySessionID(ctx context.Context, sessionID string) ([]models.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []models.AuditRecord
	for _, rec := range r.records {
		if rec.SessionID == sessionID {
			matched = append(matched, rec)
		}
	}
	return matched, nil
}
