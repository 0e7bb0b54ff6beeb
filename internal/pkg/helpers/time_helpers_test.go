package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsAfter(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsAfter("2025-06-02", now))
	assert.False(t, IsAfter("2025-05-31", now))
	assert.True(t, IsAfter("2025-06-01T13:00", now))
	assert.False(t, IsAfter("soon", now))
	assert.False(t, IsAfter("", now))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("bogus", time.Minute))
}
