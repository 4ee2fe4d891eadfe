package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kennedykori/credrails-reconciler/internal"
	"github.com/kennedykori/credrails-reconciler/internal/config"
	lcsv "github.com/kennedykori/credrails-reconciler/internal/csv"
	"github.com/kennedykori/credrails-reconciler/internal/kafka"
	"github.com/kennedykori/credrails-reconciler/internal/parquet"
	"github.com/kennedykori/credrails-reconciler/internal/reconciler"
	"github.com/kennedykori/credrails-reconciler/internal/report"
)

func newRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Invokes a reconciliation run. Both streams are drained and every diff is written.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger, _ := zap.NewDevelopment()
			defer logger.Sync()
			l := logger.Named("reconciler.run")
			l.Info("starting reconciliation!")

			rid := uuid.Must(uuid.NewUUID())

			c, err := config.NewFromFile(configPath)
			if err != nil {
				return err
			}

			r, err := config.InitializeReconciler(c, rid.String(), l)
			if err != nil {
				return err
			}
			defer r.Close(ctx)

			repository, err := config.NewRepository(c.Reconciler.Repository, rid.String(), l)
			if err != nil {
				return err
			}

			if addr := viper.GetString("listen"); addr != "" {
				server := reconciler.NewServer(l.Named("server"))
				server.RegisterRun(r)
				go server.Start(ctx, addr)
			}

			rep := report.New(
				rid.String(),
				describeSource(c.Reconciler.Source),
				describeSource(c.Reconciler.Target),
			)

			writeErr := writeDiffs(ctx, c, r, repository, l)
			rep.Finalize(r.Stats(), writeErr == nil)

			if repository != nil {
				bs, err := json.MarshalIndent(rep, "", "  ")
				if err != nil {
					return errors.Join(writeErr, err)
				}
				if err := repository.Write(ctx, "report.json", bytes.NewReader(bs)); err != nil {
					return errors.Join(writeErr, err)
				}
			}

			if writeErr != nil {
				return writeErr
			}

			l.Info("reconciliation complete",
				zap.String("run_id", rid.String()),
				zap.Int64("num_diffs", rep.NumDiffs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.MarkFlagRequired("config")

	cmd.Flags().String("listen", "", "Address to serve run status on, e.g. :8080")
	viper.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	viper.AutomaticEnv()
	viper.SetEnvPrefix("RECONCILER")

	return cmd
}

// writeDiffs drives the reconciliation to completion through the
// configured diff writer.
func writeDiffs(
	ctx context.Context,
	c *config.Config,
	r *reconciler.Reconciler,
	repository internal.Repository,
	l *zap.Logger,
) error {
	switch c.Reconciler.Writer.Type {
	case "", "csv":
		var buf bytes.Buffer
		w, err := lcsv.NewWriter(&buf, lcsv.WithWriterLogger(l))
		if err != nil {
			return err
		}
		if err := w.Write(ctx, r); err != nil {
			return err
		}
		if repository == nil {
			_, err := os.Stdout.Write(buf.Bytes())
			return err
		}
		return repository.Write(ctx, "diffs.csv", &buf)

	case "pretty":
		return reconciler.NewPrettyWriter(os.Stdout).Write(ctx, r)

	case "parquet":
		path := c.Reconciler.Writer.Parquet.Path
		if path == "" {
			return fmt.Errorf("parquet writer requires a path")
		}
		return parquet.NewWriter(path, parquet.WithWriterLogger(l)).Write(ctx, r)

	case "kafka":
		w, err := kafka.NewWriter(
			c.Reconciler.Writer.Kafka.Brokers,
			c.Reconciler.Writer.Kafka.Topic,
			kafka.WithWriterLogger(l),
		)
		if err != nil {
			return err
		}
		defer w.Close()
		return w.Write(ctx, r)

	case "noop":
		return reconciler.NoOpWriter{}.Write(ctx, r)
	}

	return fmt.Errorf("unknown writer type: %q", c.Reconciler.Writer.Type)
}

func describeSource(c config.Source) string {
	switch c.Type {
	case "csv":
		return c.CSV.Path
	case "sql":
		return fmt.Sprintf("%s.%s", c.SQL.Schema, c.SQL.Table)
	case "mongo":
		return c.Mongo.URI
	}
	return c.Type
}
