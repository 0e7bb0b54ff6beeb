package filestorage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_ReadWriteDelete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = ls.Read("users")
	assert.ErrorIs(t, err, ErrBlobNotFound)

	require.NoError(t, ls.Write("users", []byte(`[1]`)))
	require.NoError(t, ls.Write("users", []byte(`[1,2]`)))
	require.NoError(t, ls.Write("events", []byte(`[]`)))

	data, err := ls.Read("users")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(data))

	names, err := ls.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "users"}, names)

	require.NoError(t, ls.Delete("users"))
	require.NoError(t, ls.Delete("users"))
	_, err = ls.Read("users")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestLocalStorage_RejectsPathNames(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../x", "a/b", ".hidden"} {
		assert.Error(t, ls.Write(name, nil), name)
	}
}
