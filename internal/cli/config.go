// Config loading for the CLI, backed by Viper over config.yaml in the
// resolved configuration directory. A default config.yaml is written on
// first run; a missing file is not an error.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/riverscapes/brat/internal/paths"
	"github.com/riverscapes/brat/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyProject          = "project"
	cfgKeyStreamsideBuffer = "streamside_buffer_m"
	cfgKeyRiparianBuffer   = "riparian_buffer_m"
	cfgKeyWorkers          = "workers"
)

// defaultConfig serializes to the config.yaml written on first run.
// Project is left empty so the CWD-relative default applies until the
// user sets one.
type defaultConfig struct {
	Project           string  `yaml:"project"`
	StreamsideBufferM float64 `yaml:"streamside_buffer_m"`
	RiparianBufferM   float64 `yaml:"riparian_buffer_m"`
	Workers           int     `yaml:"workers"`
}

// loadConfig resolves the config directory, ensures a default config.yaml
// exists, and returns the validated Config.
func loadConfig() (types.Config, error) {
	configDir := paths.ResolveConfigDir(flags.configDir)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.Config{}, fmt.Errorf("creating config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("writing default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyStreamsideBuffer, types.DefaultStreamsideBufferM)
	v.SetDefault(cfgKeyRiparianBuffer, types.DefaultRiparianBufferM)
	v.SetDefault(cfgKeyWorkers, 0)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := types.Config{
		ProjectPath:       paths.ResolveProject(flags.project, v.GetString(cfgKeyProject)),
		StreamsideBufferM: v.GetFloat64(cfgKeyStreamsideBuffer),
		RiparianBufferM:   v.GetFloat64(cfgKeyRiparianBuffer),
		Workers:           v.GetInt(cfgKeyWorkers),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates config.yaml if it does not exist.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	data, err := yaml.Marshal(defaultConfig{
		StreamsideBufferM: types.DefaultStreamsideBufferM,
		RiparianBufferM:   types.DefaultRiparianBufferM,
	})
	if err != nil {
		return fmt.Errorf("marshaling default config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
