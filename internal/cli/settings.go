package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xabinapal/ccswitch/internal/config"
	"github.com/xabinapal/ccswitch/internal/types"
)

// newSettingsCmd creates the settings command group.
func (cli *CLI) newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change ccswitch settings",
		Long: `Show or change ccswitch settings.

The target environment decides where live config files are written:
"windows" uses the local home directory, "wsl" the home directory of the
configured WSL distribution.`,
	}

	cmd.AddCommand(
		cli.newSettingsShowCmd(),
		cli.newSettingsSetCmd(),
	)

	return cmd
}

// newSettingsShowCmd creates the settings show command.
func (cli *CLI) newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, err := cli.output()
			if err != nil {
				return err
			}
			return writeSettings(output, cli.Manager.Settings())
		},
	}
}

func writeSettings(output *OutputWriter, s types.Settings) error {
	return output.Write(s, func(w io.Writer) {
		distro := s.Distro()
		if distro == "" {
			distro = "-"
		}
		fmt.Fprintf(w, "Target environment:         %s\n", s.TargetEnv)
		fmt.Fprintf(w, "WSL distro:                 %s\n", distro)
		fmt.Fprintf(w, "Notify on switch:           %t\n", s.NotifyOnSwitch)
		fmt.Fprintf(w, "Show in tray:               %t\n", s.ShowInTray)
		fmt.Fprintf(w, "Minimize to tray on close:  %t\n", s.MinimizeToTrayOnClose)
	})
}

// newSettingsSetCmd creates the settings set command.
func (cli *CLI) newSettingsSetCmd() *cobra.Command {
	var (
		target         string
		distro         string
		notifyOnSwitch bool
		showInTray     bool
		minimizeToTray bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		Long: `Change settings. Only the given flags are changed; an empty --distro
clears the WSL distribution.

Examples:
  # Write live files inside a WSL distribution
  ccswitch settings set --target wsl --distro Ubuntu

  # Go back to the local home directory
  ccswitch settings set --target windows

  # Get a desktop notification after each switch
  ccswitch settings set --notify`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch config.SettingsPatch
			flags := cmd.Flags()
			if flags.Changed("target") {
				switch strings.ToLower(strings.TrimSpace(target)) {
				case "windows", "local", "wsl":
				default:
					return fmt.Errorf("invalid target %q: must be 'windows' or 'wsl'", target)
				}
				patch.TargetEnv = &target
			}
			if flags.Changed("distro") {
				patch.WSLDistro = &distro
			}
			if flags.Changed("notify") {
				patch.NotifyOnSwitch = &notifyOnSwitch
			}
			if flags.Changed("show-in-tray") {
				patch.ShowInTray = &showInTray
			}
			if flags.Changed("minimize-to-tray") {
				patch.MinimizeToTrayOnClose = &minimizeToTray
			}
			if patch.Empty() {
				return errors.New("no settings given; see 'ccswitch settings set --help'")
			}

			s, err := cli.Manager.UpdateSettings(patch)
			if err != nil {
				return err
			}

			output, err := cli.output()
			if err != nil {
				return err
			}
			if !output.IsStructured() {
				fmt.Fprintln(cli.out, "Settings saved.")
			}
			return writeSettings(output, s)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Target environment: windows or wsl")
	cmd.Flags().StringVar(&distro, "distro", "", "WSL distribution used with --target wsl")
	cmd.Flags().BoolVar(&notifyOnSwitch, "notify", false, "Send a desktop notification after each switch")
	cmd.Flags().BoolVar(&showInTray, "show-in-tray", true, "Show the tray icon")
	cmd.Flags().BoolVar(&minimizeToTray, "minimize-to-tray", true, "Minimize to the tray when the window is closed")

	return cmd
}
