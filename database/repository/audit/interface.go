package auditRepo

import (
	"context"

	"vacaplan/models"

	"go.mongodb.org/mongo-driver/mongo"

	"vacaplan/database"
)

// Repository is the durable booking audit log. Append is called exactly
// once per successful booking, after payment success.
type Repository interface {
	Append(ctx context.Context, record models.AuditRecord) (string, error)
	BySessionID(ctx context.Context, sessionID string) ([]models.AuditRecord, error)
}

type mongoAuditRepo struct {
	coll *mongo.Collection
}

// NewMongoAuditRepo returns a Repository backed by MongoDB.
func NewMongoAuditRepo() Repository {
	db := database.MongoClient.Database("vacaplan")
	return &mongoAuditRepo{
		coll: db.Collection("booking_audit"),
	}
}
