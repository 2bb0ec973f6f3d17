package migration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/migration"
	"github.com/tegami/tegami-backend/internal/testutil"
)

func TestPlan(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, db.Create(&domain.Letter{UserID: "A", Content: "hi", AuthorName: "Anonymous"}).Error)

	plan, err := migration.Plan(db)
	require.NoError(t, err)
	require.Len(t, plan, len(migration.Models()))

	rows := map[string]int64{}
	for _, st := range plan {
		assert.True(t, st.Exists, st.Table)
		rows[st.Table] = st.Rows
	}
	assert.Equal(t, int64(1), rows["letters"])
	assert.Equal(t, int64(0), rows["penpals"])
}

func TestVerify(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&domain.PenpalLetter{
		FromUserID: "A", ToUserID: "B", Content: "late",
		Status: domain.LetterInTransit, CreatedAt: now.Add(-time.Hour), DeliveryTime: now.Add(-time.Minute),
	}).Error)
	require.NoError(t, db.Create(&domain.PenpalLetter{
		FromUserID: "A", ToUserID: "B", Content: "fresh",
		Status: domain.LetterInTransit, CreatedAt: now, DeliveryTime: now.Add(time.Minute),
	}).Error)

	findings, err := migration.Verify(db, now)
	require.NoError(t, err)

	got := map[string]int64{}
	for _, f := range findings {
		got[f.Check] = f.Count
	}
	assert.Equal(t, int64(1), got["overdue in-transit letters"])
	assert.Equal(t, int64(0), got["users with more than one letter"])
	assert.Equal(t, int64(0), got["duplicate penpal pairs"])
}
