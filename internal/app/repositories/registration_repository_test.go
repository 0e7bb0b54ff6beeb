package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

func TestRegistrationRepository_Indices(t *testing.T) {
	ctx := context.Background()
	repos := NewRepositories(newMemoryTestStore(t))
	regs := repos.RegistrationRepository

	for _, r := range []models.Registration{
		{ID: "r1", EventID: "e1", UserID: "u1", RegisteredAt: time.Now()},
		{ID: "r2", EventID: "e1", UserID: "u2", RegisteredAt: time.Now()},
		{ID: "r3", EventID: "e2", UserID: "u1", RegisteredAt: time.Now()},
	} {
		r := r
		require.NoError(t, regs.Create(ctx, &r))
	}

	found, err := regs.FindByEventAndUser(ctx, "e1", "u2")
	require.NoError(t, err)
	assert.Equal(t, "r2", found.ID)

	byEvent, err := regs.ListByEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, byEvent, 2)

	byUser, err := regs.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, "r1", byUser[0].ID)
	assert.Equal(t, "r3", byUser[1].ID)

	removed, err := regs.DeleteByEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = regs.FindByEventAndUser(ctx, "e1", "u1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	index, err := repos.Store.List(ctx, models.CollectionRegistrationIndex)
	require.NoError(t, err)
	assert.Equal(t, []string{"e2:u1", "user:u1:e2"}, ids(index))
}

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(newMemoryTestStore(t))

	require.NoError(t, users.Create(ctx, &models.User{ID: "a", Email: "admin@klu.ac.in", Role: models.RoleAdmin}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "s", Email: "john@klu.ac.in", Role: models.RoleStudent, RollNumber: "CS21001"}))

	err := users.Create(ctx, &models.User{ID: "x", Email: "JOHN@klu.ac.in"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	u, err := users.GetByEmail(ctx, "John@KLU.ac.in")
	require.NoError(t, err)
	assert.Equal(t, "s", u.ID)

	u, err = users.GetByRollNumber(ctx, "CS21001")
	require.NoError(t, err)
	assert.Equal(t, "s", u.ID)

	_, err = users.GetByRollNumber(ctx, "")
	assert.True(t, IsNotFound(err))
}
