package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/formulacalc/internal/paths"
	"github.com/mesh-intelligence/formulacalc/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend = "backend"
	cfgKeyDataDir = "data_dir"
	cfgKeyLocale  = "locale"

	envPrefix = "FORMULACALC"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# formulacalc configuration

# Storage backend
backend: sqlite

# Directory holding sheets.db (optional; overridden by --data-dir)
# data_dir:

# Language for labels and number formatting, as a BCP 47 tag (default: en)
# locale: ja
`

// settings is the resolved configuration of one command invocation.
type settings struct {
	configDir string
	dataDir   string
	backend   string
	locale    string
	jsonMode  bool
	verbose   bool
}

// dbConfig returns the database configuration for the resolved settings.
func (s *settings) dbConfig() types.Config {
	return types.Config{Backend: s.backend, DataDir: s.dataDir}
}

// loadSettings resolves the config directory, reads config.yaml through
// Viper, and resolves the data directory. It creates the config directory
// and a default config.yaml on first run.
func loadSettings(flags rootFlags) (*settings, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	if err := v.BindEnv(cfgKeyLocale); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	return &settings{
		configDir: configDir,
		dataDir:   dataDir,
		backend:   v.GetString(cfgKeyBackend),
		locale:    v.GetString(cfgKeyLocale),
		jsonMode:  flags.jsonMode,
		verbose:   flags.verbose,
	}, nil
}

// ensureDefaultConfigFile creates config.yaml from the template if the file
// does not exist.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
