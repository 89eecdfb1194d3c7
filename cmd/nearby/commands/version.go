package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/nearby-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the nearby CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type VersionInfo struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			versionInfo := VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			}

			w := cmd.OutOrStdout()

			switch viper.GetString(keyOutput) {
			case constants.FormatJSON:
				encoder := json.NewEncoder(w)
				encoder.SetIndent("", "  ")

				return encoder.Encode(versionInfo)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(w)
				defer func() { _ = encoder.Close() }()

				return encoder.Encode(versionInfo)
			default:
				table := tablewriter.NewWriter(w)
				table.Header("Property", "Value")
				_ = table.Append("Version", version)
				_ = table.Append("Commit", commit)
				_ = table.Append("Built", date)

				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}
