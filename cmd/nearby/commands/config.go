package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration file.
type Config struct {
	API        string       `json:"api,omitempty"         yaml:"api,omitempty"`
	EntryPoint string       `json:"entry_point,omitempty" yaml:"entry_point,omitempty"`
	Output     string       `json:"output,omitempty"      yaml:"output,omitempty"`
	LogLevel   string       `json:"log_level,omitempty"   yaml:"log_level,omitempty"`
	Timeout    string       `json:"timeout,omitempty"     yaml:"timeout,omitempty"`
	RetryMax   int          `json:"retry_max,omitempty"   yaml:"retry_max,omitempty"`
	Events     EventsConfig `json:"events"                yaml:"events,omitempty"`
}

// EventsConfig configures publishing of session events.
type EventsConfig struct {
	NATSURL       string `json:"nats_url,omitempty"       yaml:"nats_url,omitempty"`
	SubjectPrefix string `json:"subject_prefix,omitempty" yaml:"subject_prefix,omitempty"`
}

// configSetters maps config keys to their setters. An empty value resets
// the key.
var configSetters = map[string]func(*Config, string) error{
	keyAPI: func(c *Config, v string) error {
		c.API = v

		return nil
	},
	keyEntryPoint: func(c *Config, v string) error {
		c.EntryPoint = v

		return nil
	},
	keyOutput: func(c *Config, v string) error {
		switch v {
		case "", constants.FormatTable, constants.FormatJSON, constants.FormatYAML:
			c.Output = v

			return nil
		default:
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, v)
		}
	},
	keyLogLevel: func(c *Config, v string) error {
		c.LogLevel = v

		return nil
	},
	keyTimeout: func(c *Config, v string) error {
		if v != "" {
			_, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%w: timeout %q: %w", constants.ErrInvalidConfigValue, v, err)
			}
		}

		c.Timeout = v

		return nil
	},
	keyRetryMax: func(c *Config, v string) error {
		if v == "" {
			c.RetryMax = 0

			return nil
		}

		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: retry_max must be a non-negative integer, got %q", constants.ErrInvalidConfigValue, v)
		}

		c.RetryMax = n

		return nil
	},
	keyNATSURL: func(c *Config, v string) error {
		c.Events.NATSURL = v

		return nil
	},
	keySubjectPrefix: func(c *Config, v string) error {
		c.Events.SubjectPrefix = v

		return nil
	},
}

// ConfigKeys returns the supported configuration keys, sorted.
func ConfigKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for key := range configSetters {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in $HOME/.nearby/config.yml",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration from the config file, environment and flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			w := cmd.OutOrStdout()

			switch viper.GetString(keyOutput) {
			case constants.FormatJSON:
				encoder := json.NewEncoder(w)
				encoder.SetIndent("", "  ")

				return encoder.Encode(config)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(w)
				defer func() { _ = encoder.Close() }()

				return encoder.Encode(config)
			default:
				return displayConfigTable(w, config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Known keys: api, entry_point, output, log_level, timeout, retry_max, events.nats_url, events.subject_prefix",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd.OutOrStdout(), "Set", args[0], args[1])
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd.OutOrStdout(), "Unset", args[0], "")
		},
	}
}

func updateConfig(w io.Writer, action, key, value string) error {
	setter, ok := configSetters[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	config, err := readConfigFile()
	if err != nil {
		return err
	}

	err = setter(config, value)
	if err != nil {
		return err
	}

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return outputConfigUpdateResult(w, action, key, value)
}

// loadConfig returns the effective configuration as seen through viper.
func loadConfig() *Config {
	return &Config{
		API:        viper.GetString(keyAPI),
		EntryPoint: viper.GetString(keyEntryPoint),
		Output:     viper.GetString(keyOutput),
		LogLevel:   viper.GetString(keyLogLevel),
		Timeout:    viper.GetString(keyTimeout),
		RetryMax:   viper.GetInt(keyRetryMax),
		Events: EventsConfig{
			NATSURL:       viper.GetString(keyNATSURL),
			SubjectPrefix: viper.GetString(keySubjectPrefix),
		},
	}
}

// readConfigFile returns only what is stored in the config file, so that
// flags and environment overrides are never persisted.
func readConfigFile() (*Config, error) {
	path, err := configFilePath()
	if err != nil {
		return nil, err
	}

	config := &Config{}

	// path is built from the user's home directory or an explicit --config
	// #nosec G304
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

func configFilePath() (string, error) {
	if file := viper.ConfigFileUsed(); file != "" {
		return file, nil
	}

	if file := viper.GetString("config"); file != "" {
		return file, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+"."+constants.ConfigFileType), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func displayConfigTable(w io.Writer, config *Config) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	rows := [][]string{
		{"API", formatConfigValue(config.API)},
		{"Entry Point", formatConfigValue(config.EntryPoint)},
		{"Output", formatConfigValue(config.Output)},
		{"Log Level", formatConfigValue(config.LogLevel)},
		{"Timeout", formatConfigValue(config.Timeout)},
		{"Retry Max", strconv.Itoa(config.RetryMax)},
		{"NATS URL", formatConfigValue(config.Events.NATSURL)},
		{"Subject Prefix", formatConfigValue(config.Events.SubjectPrefix)},
	}

	for _, row := range rows {
		err := table.Append(row)
		if err != nil {
			return fmt.Errorf("failed to append config row: %w", err)
		}
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatConfigValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func outputConfigUpdateResult(w io.Writer, action, key, value string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	if value != "" {
		result["value"] = value
	}

	switch viper.GetString(keyOutput) {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode config result as JSON: %w", err)
		}

		return nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()

		err := encoder.Encode(result)
		if err != nil {
			return fmt.Errorf("failed to encode config result as YAML: %w", err)
		}

		return nil
	default:
		table := tablewriter.NewWriter(w)
		table.Header("Property", "Value")

		_ = table.Append([]string{"Action", action})
		_ = table.Append([]string{"Key", key})

		if value != "" {
			_ = table.Append([]string{"Value", value})
		}

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}
