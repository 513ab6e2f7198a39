package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/filterql/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Database string
	Driver   string
	Model    string
	Name     string
}

// SeedResult is the JSON form of a seed run.
type SeedResult struct {
	Model   string         `json:"model"`
	Created int            `json:"created"`
	Records []store.Record `json:"records"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <records-file|->",
		Short: "Create a model's table and insert records",
		Long: `Create the model's table if it does not exist and insert the
records from a JSON array or YAML list, in one transaction.

Fields declared with "generate: uuid" get a UUIDv7 when absent.

Example:
  filterql seed --db ./users.db --model users.yaml users.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "database path or DSN (default: database config key)")
	cmd.Flags().StringVar(&opts.Driver, "driver", "", "database driver: sqlite3 or mysql (default: driver config key)")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "model definition file (required)")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "model name (optional when the file defines one model)")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func runSeed(opts *SeedOptions, input string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd)

	cfg, err := opts.config()
	if err != nil {
		return outputLoadError(formatter, err)
	}

	m, err := loadModel(opts.Model, opts.Name)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	data, err := readInput(cmd, input)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	// YAML is a superset of JSON, so one decoder reads both.
	var records []store.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return outputLoadError(formatter, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("records must be a list of objects: %v", err)})
	}

	st, err := openStore(cfg, opts.Driver, opts.Database, logger)
	if err != nil {
		return outputStoreError(formatter, err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if err := st.Migrate(ctx, m); err != nil {
		return outputStoreError(formatter, err)
	}
	formatter.VerboseLog("Table ready for model %s", m.Name)

	created, err := st.Create(ctx, m, records)
	if err != nil {
		return outputStoreError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(SeedResult{Model: m.Name, Created: len(created), Records: created})
	}
	formatter.Pass("Seeded %d record(s) into %s", len(created), m.Name)
	return nil
}
