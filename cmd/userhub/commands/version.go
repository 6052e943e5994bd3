package commands

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(ver, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the UserHub CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			type versionData struct {
				Version string `json:"version" yaml:"version"`
				Commit  string `json:"commit"  yaml:"commit"`
				Built   string `json:"built"   yaml:"built"`
			}

			versionInfo := versionData{
				Version: ver,
				Commit:  commit,
				Built:   date,
			}

			if rendered, err := renderStructured(versionInfo); rendered {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("Version", versionInfo.Version)
			_ = table.Append("Commit", versionInfo.Commit)
			_ = table.Append("Built", versionInfo.Built)

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}
