package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	t.Run("preserves column order", func(t *testing.T) {
		r := NewRecord(
			[]string{"id", "name", "email"},
			[]string{"1", "Bob", "bob@example.com"},
		)

		assert.Equal(t, 3, r.Len())
		assert.Equal(t, []string{"id", "name", "email"}, r.Columns())
		assert.Equal(t, []string{"1", "Bob", "bob@example.com"}, r.Values())
	})

	t.Run("get", func(t *testing.T) {
		r := NewRecord([]string{"id", "name"}, []string{"1", "Bob"})

		v, ok := r.Get("name")
		assert.True(t, ok)
		assert.Equal(t, "Bob", v)

		_, ok = r.Get("age")
		assert.False(t, ok)
	})

	t.Run("id is the first column value", func(t *testing.T) {
		r := NewRecord([]string{"serial_number", "town"}, []string{"42", "Bridgeport"})

		id, err := r.ID()
		require.NoError(t, err)
		assert.Equal(t, "42", id)
	})

	t.Run("id of an empty record", func(t *testing.T) {
		r := NewRecord(nil, nil)

		_, err := r.ID()
		assert.ErrorIs(t, err, ErrNoColumns)
	})

	t.Run("map", func(t *testing.T) {
		r := NewRecord([]string{"id", "name"}, []string{"1", "Bob"})

		assert.Equal(t, map[string]string{"id": "1", "name": "Bob"}, r.Map())
	})
}
