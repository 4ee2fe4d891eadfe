package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("writes under the prefix", func(t *testing.T) {
		base := t.TempDir()
		r := New(base, WithPrefix("run-1"))

		err := r.Write(ctx, "diffs.csv", strings.NewReader("kind,record_id\n"))
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(base, "run-1", "diffs.csv"))
		require.NoError(t, err)
		assert.Equal(t, "kind,record_id\n", string(data))
	})

	t.Run("creates intermediate directories", func(t *testing.T) {
		base := t.TempDir()
		r := New(base)

		err := r.Write(ctx, filepath.Join("nested", "report.json"), strings.NewReader("{}"))
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(base, "nested", "report.json"))
		assert.NoError(t, err)
	})
}
