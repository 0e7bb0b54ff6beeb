package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appRepos "github.com/yigit/eventsphere/internal/app/repositories"
)

func TestCreateDefaultData_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, err := appRepos.NewMemoryStore(nil)
	require.NoError(t, err)
	repos := appRepos.NewRepositories(store)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	first, err := CreateDefaultData(ctx, repos, now, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 2, Events: 5}, first)

	second, err := CreateDefaultData(ctx, repos, now, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Result{}, second)

	student, err := repos.UserRepository.GetByRollNumber(ctx, "CS21001")
	require.NoError(t, err)
	assert.Equal(t, "john@klu.ac.in", student.Email)

	events, err := repos.EventRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, "event_tech_symposium_2025", events[0].ID)
	for _, e := range events {
		assert.Equal(t, 0, e.RegistrationsCount)
		assert.NotNil(t, e.RegisteredUserIDs)
	}
}
