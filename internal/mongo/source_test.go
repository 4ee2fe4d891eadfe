package mongo

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSource(t *testing.T) {
	t.Run("parses database and collection from the URI", func(t *testing.T) {
		uri, err := url.Parse("mongodb://localhost:27017/test?collection=users")
		require.NoError(t, err)

		s, err := NewSource(uri, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "test", s.database)
		assert.Equal(t, "users", s.collection)
	})

	t.Run("database is required", func(t *testing.T) {
		uri, err := url.Parse("mongodb://localhost:27017/?collection=users")
		require.NoError(t, err)

		_, err = NewSource(uri, zap.NewNop())
		assert.ErrorContains(t, err, "database")
	})

	t.Run("collection is required", func(t *testing.T) {
		uri, err := url.Parse("mongodb://localhost:27017/test")
		require.NoError(t, err)

		_, err = NewSource(uri, zap.NewNop())
		assert.ErrorContains(t, err, "collection")
	})
}
