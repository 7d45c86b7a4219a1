package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// WSLDistrosOutput represents WSL distro list output.
type WSLDistrosOutput struct {
	Distros []string `json:"distros" yaml:"distros"`
}

// WSLHomeOutput represents WSL home directory output.
type WSLHomeOutput struct {
	Distro string `json:"distro" yaml:"distro"`
	Home   string `json:"home" yaml:"home"`
}

// newWSLCmd creates the wsl command group.
func (cli *CLI) newWSLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wsl",
		Short: "Inspect WSL distributions",
		Long: `Inspect the WSL distributions that can hold live config files.

These commands call wsl.exe and only return results on Windows.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "distros",
			Short: "List installed WSL distributions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				output, err := cli.output()
				if err != nil {
					return err
				}
				distros, err := cli.Manager.ListRemoteDistros(cmd.Context())
				if err != nil {
					return err
				}
				return output.Write(WSLDistrosOutput{Distros: distros}, func(w io.Writer) {
					if len(distros) == 0 {
						fmt.Fprintln(w, "No WSL distributions found.")
						return
					}
					for _, d := range distros {
						fmt.Fprintln(w, d)
					}
				})
			},
		},
		&cobra.Command{
			Use:   "home <distro>",
			Short: "Print the home directory of a WSL distribution",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				output, err := cli.output()
				if err != nil {
					return err
				}
				home, err := cli.Manager.ResolveRemoteHome(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return output.Write(WSLHomeOutput{Distro: args[0], Home: home}, func(w io.Writer) {
					fmt.Fprintln(w, home)
				})
			},
		},
	)

	return cmd
}
