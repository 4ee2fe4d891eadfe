package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter(t *testing.T) {
	t.Run("brokers are required", func(t *testing.T) {
		_, err := NewWriter("", "diffs")
		assert.ErrorContains(t, err, "brokers")
	})

	t.Run("topic is required", func(t *testing.T) {
		_, err := NewWriter("localhost:9092", "")
		assert.ErrorContains(t, err, "topic")
	})

	t.Run("configures the producer from the brokers", func(t *testing.T) {
		w, err := NewWriter("localhost:9092", "diffs")
		require.NoError(t, err)

		brokers, err := w.config.Get("bootstrap.servers", "")
		require.NoError(t, err)
		assert.Equal(t, "localhost:9092", brokers)
		assert.Equal(t, "diffs", w.topic)
	})
}
