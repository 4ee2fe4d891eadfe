package reconcile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
	"github.com/kennedykori/credrails-reconciler/internal/report"
)

func TestRunCommand(t *testing.T) {
	t.Run("csv to csv with local repository", func(t *testing.T) {
		ctx := context.Background()
		tempDir := t.TempDir()

		sourcePath := filepath.Join(tempDir, "source.csv")
		require.NoError(t, os.WriteFile(sourcePath, []byte(
			"id,name,amount\n"+
				"1,Alice,100\n"+
				"2,Bob,200\n"+
				"3,Carol,300\n",
		), 0644))

		targetPath := filepath.Join(tempDir, "target.csv")
		require.NoError(t, os.WriteFile(targetPath, []byte(
			"id,name,amount\n"+
				"1,Alice,100\n"+
				"2,Bob,250\n",
		), 0644))

		configPath := filepath.Join(tempDir, "config.yml")
		configTemplate := `
reconciler:
  name: test-run
  source:
    type: csv
    csv:
      path: "{{.Source}}"
  target:
    type: csv
    csv:
      path: "{{.Target}}"
  writer:
    type: csv
  repository:
    type: local
    local:
      path: "{{.Runs}}"`

		runsDir := filepath.Join(tempDir, "runs")

		tmpl, err := template.New("config").Parse(configTemplate)
		require.NoError(t, err)

		configFile, err := os.Create(configPath)
		require.NoError(t, err)
		defer configFile.Close()

		err = tmpl.Execute(configFile, struct {
			Source string
			Target string
			Runs   string
		}{
			Source: sourcePath,
			Target: targetPath,
			Runs:   runsDir,
		})
		require.NoError(t, err)

		cmd := newRunCommand()
		cmd.SetArgs([]string{"--config", configPath})
		require.NoError(t, cmd.ExecuteContext(ctx))

		runs, err := os.ReadDir(runsDir)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		runDir := filepath.Join(runsDir, runs[0].Name())

		diffs, err := os.ReadFile(filepath.Join(runDir, "diffs.csv"))
		require.NoError(t, err)
		assert.Equal(t,
			"kind,record_id,field,source_value,target_value\n"+
				"Field Discrepancy,2,amount,200,250\n"+
				"Missing in Target,3,,,\n",
			string(diffs),
		)

		data, err := os.ReadFile(filepath.Join(runDir, "report.json"))
		require.NoError(t, err)

		var rep report.Report
		require.NoError(t, json.Unmarshal(data, &rep))

		assert.Equal(t, runs[0].Name(), rep.RunID)
		assert.True(t, rep.Completed)
		assert.Equal(t, int64(3), rep.NumSourceRecords)
		assert.Equal(t, int64(2), rep.NumTargetRecords)
		assert.Equal(t, int64(2), rep.NumDiffs)
		assert.Equal(t, int64(1), rep.DiffsByKind[reconciler.KindFieldMismatch])
		assert.Equal(t, int64(1), rep.DiffsByKind[reconciler.KindNotInTarget])
	})

	t.Run("unknown writer type fails the run", func(t *testing.T) {
		ctx := context.Background()
		tempDir := t.TempDir()

		sourcePath := filepath.Join(tempDir, "source.csv")
		require.NoError(t, os.WriteFile(sourcePath, []byte("id\n1\n"), 0644))

		configPath := filepath.Join(tempDir, "config.yml")
		require.NoError(t, os.WriteFile(configPath, []byte(`
reconciler:
  source:
    type: csv
    csv:
      path: "`+sourcePath+`"
  target:
    type: csv
    csv:
      path: "`+sourcePath+`"
  writer:
    type: carrier-pigeon`), 0644))

		cmd := newRunCommand()
		cmd.SetArgs([]string{"--config", configPath})
		err := cmd.ExecuteContext(ctx)
		assert.ErrorContains(t, err, "unknown writer type")
	})
}
