package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xabinapal/ccswitch/internal/fsx"
)

// configPathOutput represents config path output.
type configPathOutput struct {
	ConfigDir      string `json:"config_dir" yaml:"config_dir"`
	ConfigFile     string `json:"config_file" yaml:"config_file"`
	BackupFile     string `json:"backup_file" yaml:"backup_file"`
	SettingsFile   string `json:"settings_file" yaml:"settings_file"`
	ConfigExists   bool   `json:"config_exists" yaml:"config_exists"`
	SettingsExists bool   `json:"settings_exists" yaml:"settings_exists"`
}

// newConfigCmd creates the config command group.
func (cli *CLI) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect ccswitch configuration files",
		Long: `Inspect ccswitch configuration files.

The configuration directory defaults to ~/.cc-switch and can be changed
with --config-dir or the CCSWITCH_CONFIG_DIR environment variable.`,
	}

	cmd.AddCommand(cli.newConfigPathCmd())

	return cmd
}

// newConfigPathCmd creates the config path command.
func (cli *CLI) newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cli.output()
			if err != nil {
				return err
			}

			paths := cli.Paths
			out := configPathOutput{
				ConfigDir:      paths.ConfigDir,
				ConfigFile:     paths.ConfigFile,
				BackupFile:     paths.BackupFile,
				SettingsFile:   paths.SettingsFile,
				ConfigExists:   fsx.Exists(paths.ConfigFile),
				SettingsExists: fsx.Exists(paths.SettingsFile),
			}

			return output.Write(out, func(w io.Writer) {
				fmt.Fprintf(w, "Config directory: %s\n", out.ConfigDir)
				fmt.Fprintf(w, "Config file:      %s%s\n", out.ConfigFile, missing(out.ConfigExists))
				fmt.Fprintf(w, "Backup file:      %s\n", out.BackupFile)
				fmt.Fprintf(w, "Settings file:    %s%s\n", out.SettingsFile, missing(out.SettingsExists))
			})
		},
	}
}

func missing(exists bool) string {
	if exists {
		return ""
	}
	return " (not found)"
}
