package auditRepo

import (
	"context"
	"time"

	"vacaplan/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Append inserts a new audit record and returns its ID.
func (r *mongoAuditRepo) Append(ctx context.Context, record models.AuditRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

// BySessionID fetches all audit records for a planning session.
func (r *mongoAuditRepo) BySessionID(ctx context.Context, sessionID string) ([]models.AuditRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.AuditRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
