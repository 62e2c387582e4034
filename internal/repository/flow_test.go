package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"kroknodes/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFlowAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "owner")

	desc := "first flow"
	created, err := repo.Create(ctx, &models.FlowCreate{
		FlowID:      "flow_00000001",
		Name:        "Pipeline",
		Description: &desc,
		UserID:      user.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByFlowID(ctx, "flow_00000001")
	require.NoError(t, err)
	assert.Equal(t, "Pipeline", got.Name)
	assert.Equal(t, user.ID, got.UserID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Nil(t, got.UpdatedAt)
}

func TestCreateFlowDuplicateFlowID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "owner")

	_, err := repo.Create(ctx, &models.FlowCreate{
		FlowID: "flow_00000001",
		Name:   "Original",
		UserID: user.ID,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.FlowCreate{
		FlowID: "flow_00000001",
		Name:   "Imposter",
		UserID: user.ID,
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeConflict))

	// The rejected create must not alter the existing flow.
	got, err := repo.GetByFlowID(ctx, "flow_00000001")
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Name)
}

func TestCreateFlowUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)

	_, err := repo.Create(context.Background(), &models.FlowCreate{
		FlowID: "flow_00000001",
		Name:   "Orphan",
		UserID: 99999,
	})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeForeignKey))
}

func TestGetFlowNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)

	_, err := repo.GetByFlowID(context.Background(), "flow_deadbeef")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUpdateFlowPartial(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "owner")

	_, err := repo.Create(ctx, &models.FlowCreate{
		FlowID: "flow_00000001",
		Name:   "Pipeline",
		UserID: user.ID,
	})
	require.NoError(t, err)

	desc := "updated description"
	updated, err := repo.Update(ctx, "flow_00000001", &models.FlowUpdate{Description: &desc})
	require.NoError(t, err)

	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)
	assert.Equal(t, "Pipeline", updated.Name)
	assert.NotNil(t, updated.UpdatedAt)
}

func TestUpdateFlowNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)

	name := "renamed"
	_, err := repo.Update(context.Background(), "flow_deadbeef", &models.FlowUpdate{Name: &name})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestDeleteFlow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "owner")

	_, err := repo.Create(ctx, &models.FlowCreate{
		FlowID: "flow_00000001",
		Name:   "Pipeline",
		UserID: user.ID,
	})
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, "flow_00000001")
	require.NoError(t, err)
	assert.True(t, deleted)

	// Deleting a missing flow reports false, not an error.
	deleted, err = repo.Delete(ctx, "flow_00000001")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListAllFlowsPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "owner")

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, &models.FlowCreate{
			FlowID: fmt.Sprintf("flow_0000000%d", i),
			Name:   fmt.Sprintf("Flow %d", i),
			UserID: user.ID,
		})
		require.NoError(t, err)
	}

	page1, err := repo.ListAll(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)

	page2, err := repo.ListAll(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)

	seen := map[string]bool{}
	for _, f := range append(page1, page2...) {
		assert.False(t, seen[f.FlowID], "pages overlap on %s", f.FlowID)
		seen[f.FlowID] = true
	}
}

func TestListFlowsByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i, owner := range []*models.User{alice, alice, bob} {
		_, err := repo.Create(ctx, &models.FlowCreate{
			FlowID: fmt.Sprintf("flow_0000000%d", i),
			Name:   "Flow",
			UserID: owner.ID,
		})
		require.NoError(t, err)
	}

	flows, err := repo.ListByUser(ctx, alice.ID, 0, 100)
	require.NoError(t, err)
	require.Len(t, flows, 2)
	for _, f := range flows {
		assert.Equal(t, alice.ID, f.UserID)
	}

	count, err := repo.CountByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCreateDefaultFlow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFlowRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db, "owner")

	flow, err := repo.CreateDefault(ctx, user.ID)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^flow_[0-9a-f]{8}$`), flow.FlowID)
	assert.Equal(t, user.ID, flow.UserID)
	assert.NotEmpty(t, flow.Name)
	require.NotNil(t, flow.Description)
	assert.NotEmpty(t, *flow.Description)
}

func TestNewFlowIDShape(t *testing.T) {
	pattern := regexp.MustCompile(`^flow_[0-9a-f]{8}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewFlowID()
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "generated duplicate %s", id)
		seen[id] = true
	}
}
