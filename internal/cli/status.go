package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xabinapal/ccswitch/internal/types"
)

// AppStatus represents the live config status of one application.
type AppStatus struct {
	App     types.AppKind `json:"app" yaml:"app"`
	Path    string        `json:"path" yaml:"path"`
	Exists  bool          `json:"exists" yaml:"exists"`
	Current string        `json:"current" yaml:"current"`
	Error   string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// StatusOutput represents status output.
type StatusOutput struct {
	TargetEnv types.TargetEnv `json:"targetEnv" yaml:"target_env"`
	WSLDistro string          `json:"wslDistro,omitempty" yaml:"wsl_distro,omitempty"`
	Apps      []AppStatus     `json:"apps" yaml:"apps"`
}

// newStatusCmd creates the status command.
func (cli *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [app]",
		Short: "Show where the live config files are and which provider is active",
		Long: `Show the live config location of each application, whether it exists,
and the active provider.

For codex the location is the config directory and existence refers to
auth.json.

Examples:
  # Show status for every application
  ccswitch status

  # Show status for claude in JSON format
  ccswitch status claude -o json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cli.completeApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			apps := types.AppKinds
			if len(args) == 1 {
				app, err := parseApp(args)
				if err != nil {
					return err
				}
				apps = []types.AppKind{app}
			}
			return cli.runStatus(cmd, apps)
		},
	}
}

// runStatus displays the live config status of apps.
func (cli *CLI) runStatus(cmd *cobra.Command, apps []types.AppKind) error {
	output, err := cli.output()
	if err != nil {
		return err
	}

	settings := cli.Manager.Settings()
	status := StatusOutput{
		TargetEnv: settings.TargetEnv,
		WSLDistro: settings.Distro(),
		Apps:      make([]AppStatus, 0, len(apps)),
	}

	for _, app := range apps {
		entry := AppStatus{App: app}
		current, err := cli.Manager.GetCurrent(app)
		if err != nil {
			return err
		}
		entry.Current = current

		// A resolution failure is reported per application rather than aborting.
		st, err := cli.Manager.ConfigStatus(cmd.Context(), app)
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.Path = st.Path
			entry.Exists = st.Exists
		}
		status.Apps = append(status.Apps, entry)
	}

	return output.Write(status, func(w io.Writer) {
		target := string(status.TargetEnv)
		if status.WSLDistro != "" {
			target += " (" + status.WSLDistro + ")"
		}
		fmt.Fprintf(w, "Target environment: %s\n\n", target)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "APP\tCURRENT\tEXISTS\tPATH")
		for _, a := range status.Apps {
			current := a.Current
			if current == "" {
				current = "-"
			}
			if a.Error != "" {
				fmt.Fprintf(tw, "%s\t%s\t?\terror: %s\n", a.App, current, a.Error)
				continue
			}
			exists := "no"
			if a.Exists {
				exists = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.App, current, exists, a.Path)
		}
		// #nosec G104 - Flush error on stdout; if write fails, user will see incomplete output
		_ = tw.Flush()
	})
}
