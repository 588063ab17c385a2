package auditRepo

import (
	"context"
	"testing"

	"vacaplan/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAuditRepoAppendAssignsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryAuditRepo()

	id, err := repo.Append(context.Background(), models.AuditRecord{
		SessionID:      "s1",
		ConfirmationID: "ABC12345",
		AmountUSD:      2740,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := repo.BySessionID(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestMemoryAuditRepoFiltersBySession(t *testing.T) {
	repo := NewMemoryAuditRepo()
	ctx := context.Background()

	_, err := repo.Append(ctx, models.AuditRecord{SessionID: "s1", ConfirmationID: "A"})
	require.NoError(t, err)
	_, err = repo.Append(ctx, models.AuditRecord{SessionID: "s2", ConfirmationID: "B"})
	require.NoError(t, err)
	_, err = repo.Append(ctx, models.AuditRecord{SessionID: "s1", ConfirmationID: "C"})
	require.NoError(t, err)

	records, err := repo.BySessionID(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].ConfirmationID)
	assert.Equal(t, "C", records[1].ConfirmationID)

	empty, err := repo.BySessionID(ctx, "s3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
