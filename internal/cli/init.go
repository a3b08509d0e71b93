package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/formulacalc/internal/paths"
	"github.com/mesh-intelligence/formulacalc/internal/sqlite"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
	Locale  string `yaml:"locale,omitempty"`
}

func newInitCmd(cfg *settings) *cobra.Command {
	var (
		sample bool
		locale string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize formulacalc storage",
		Long: `Create the configuration and data directories and the sheet database.
--data-dir and --locale are recorded in config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDirFlag := cmd.Flag("data-dir").Value.String()
			if err := recordConfig(cfg.configDir, dataDirFlag, locale); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			if locale != "" {
				cfg.locale = locale
			}

			backend := sqlite.NewBackend(newLogger(cfg.verbose, cmd.ErrOrStderr()))
			if err := backend.Attach(cfg.dbConfig()); err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			defer backend.Detach()

			out := cmd.OutOrStdout()
			if sample {
				seeded, err := backend.SeedSample()
				if err != nil {
					return fmt.Errorf("seed sample sheet: %w", err)
				}
				if seeded {
					fmt.Fprintln(out, "Created the sample sheet")
				}
			}

			fmt.Fprintln(out, "formulacalc initialized successfully")
			fmt.Fprintln(out, "  config:", paths.ConfigFile(cfg.configDir))
			fmt.Fprintln(out, "  data:  ", cfg.dataDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "create a sample sheet when the database is empty")
	cmd.Flags().StringVar(&locale, "locale", "", "language for labels and numbers, for example ja")
	return cmd
}

// recordConfig stores dataDir and locale in config.yaml when they differ
// from what the file holds. Empty values leave the file's setting alone.
func recordConfig(configDir, dataDir, locale string) error {
	path := paths.ConfigFile(configDir)
	current := configFile{Backend: types.BackendSQLite}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &current); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	next := current
	if dataDir != "" {
		abs, err := paths.ResolveDataDir(dataDir, "")
		if err != nil {
			return err
		}
		next.DataDir = abs
	}
	if locale != "" {
		next.Locale = locale
	}
	if next == current {
		return nil
	}

	data, err := yaml.Marshal(&next)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
