package fixtures

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

// newGenerateCommand emits a pair of CSV files sharing most of their
// records, for exercising a reconciliation end to end. Mismatches and
// missing records are injected at the configured rates.
func newGenerateCommand() *cobra.Command {
	var records int
	var output string
	var mismatchRate float64
	var missingRate float64

	var cmd = &cobra.Command{
		Use:   "generate",
		Short: "Generates a source/target CSV pair for testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(output, 0755); err != nil {
				return err
			}

			sourceFile, err := os.Create(filepath.Join(output, "source.csv"))
			if err != nil {
				return err
			}
			defer sourceFile.Close()

			targetFile, err := os.Create(filepath.Join(output, "target.csv"))
			if err != nil {
				return err
			}
			defer targetFile.Close()

			header := []string{"id", "name", "email", "amount"}

			sourceWriter := csv.NewWriter(sourceFile)
			targetWriter := csv.NewWriter(targetFile)

			if err := sourceWriter.Write(header); err != nil {
				return err
			}
			if err := targetWriter.Write(header); err != nil {
				return err
			}

			for i := 0; i < records; i++ {
				id := strconv.Itoa(i + 1)
				row := []string{
					id,
					fmt.Sprintf("%s Name", id),
					fmt.Sprintf("user%s@example.com", id),
					strconv.Itoa(rand.Intn(100000)),
				}

				if err := sourceWriter.Write(row); err != nil {
					return err
				}

				if rand.Float64() < missingRate {
					continue
				}

				targetRow := row
				if rand.Float64() < mismatchRate {
					targetRow = append([]string(nil), row...)
					targetRow[3] = strconv.Itoa(rand.Intn(100000))
				}
				if err := targetWriter.Write(targetRow); err != nil {
					return err
				}
			}

			sourceWriter.Flush()
			targetWriter.Flush()
			if err := sourceWriter.Error(); err != nil {
				return err
			}
			if err := targetWriter.Error(); err != nil {
				return err
			}

			fmt.Printf("Generated %d records into %s\n", records, output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&records, "records", "r", 10, "Number of records to generate")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "Directory to write source.csv and target.csv into")
	cmd.Flags().Float64Var(&mismatchRate, "mismatch-rate", 0.1, "Fraction of records whose amount differs between the files")
	cmd.Flags().Float64Var(&missingRate, "missing-rate", 0.05, "Fraction of records dropped from the target file")
	return cmd
}
