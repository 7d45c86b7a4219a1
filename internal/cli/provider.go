package cli

import (
	"bytes"
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xabinapal/ccswitch/internal/types"
	"github.com/xabinapal/ccswitch/internal/utils"
)

// ProviderView represents a provider in command output.
type ProviderView struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Current        bool   `json:"current" yaml:"current"`
	WebsiteURL     string `json:"websiteUrl,omitempty" yaml:"website_url,omitempty"`
	Category       string `json:"category,omitempty" yaml:"category,omitempty"`
	CreatedAt      *int64 `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	SettingsConfig any    `json:"settingsConfig,omitempty" yaml:"settings_config,omitempty"`
}

// ProviderListOutput represents provider list output.
type ProviderListOutput struct {
	App       types.AppKind  `json:"app" yaml:"app"`
	Current   string         `json:"current" yaml:"current"`
	Providers []ProviderView `json:"providers" yaml:"providers"`
}

func newProviderView(p types.Provider, current string) ProviderView {
	v := ProviderView{
		ID:        p.ID,
		Name:      p.Name,
		Current:   p.ID == current,
		CreatedAt: p.CreatedAt,
	}
	if p.WebsiteURL != nil {
		v.WebsiteURL = *p.WebsiteURL
	}
	if p.Category != nil {
		v.Category = *p.Category
	}
	return v
}

// sortedProviders orders providers by creation time, then id.
func sortedProviders(providers map[string]types.Provider) []types.Provider {
	out := make([]types.Provider, 0, len(providers))
	for _, p := range providers {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b types.Provider) int {
		var ca, cb int64
		if a.CreatedAt != nil {
			ca = *a.CreatedAt
		}
		if b.CreatedAt != nil {
			cb = *b.CreatedAt
		}
		return cmp.Or(cmp.Compare(ca, cb), strings.Compare(a.ID, b.ID))
	})
	return out
}

// newProviderCmd creates the provider command group.
func (cli *CLI) newProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "provider",
		Aliases: []string{"providers", "p"},
		Short:   "Manage Claude Code and Codex providers",
		Long: `Manage the provider configurations of each application.

<app> is one of: claude, codex.

Examples:
  # List claude providers
  ccswitch provider list claude

  # Add a provider from a JSON or YAML settings file
  ccswitch provider add claude --name "My Proxy" --file settings.json

  # Add a codex provider from its two live files
  ccswitch provider add codex --name work --auth auth.json --config config.toml

  # Switch to a provider
  ccswitch provider use claude my-proxy

  # Import the existing live config as the "default" provider
  ccswitch provider import claude`,
	}

	cmd.AddCommand(
		cli.newProviderListCmd(),
		cli.newProviderShowCmd(),
		cli.newProviderAddCmd(),
		cli.newProviderEditCmd(),
		cli.newProviderRemoveCmd(),
		cli.newProviderUseCmd(),
		cli.newProviderImportCmd(),
	)

	return cmd
}

// parseApp parses the <app> argument.
func parseApp(args []string) (types.AppKind, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: missing <app> argument", types.ErrAppKindNotFound)
	}
	return types.ParseAppKind(args[0])
}

// newProviderListCmd creates the provider list command.
func (cli *CLI) newProviderListCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "list <app>",
		Aliases:           []string{"ls"},
		Short:             "List the providers of an application",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.completeApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := parseApp(args)
			if err != nil {
				return err
			}
			return cli.runProviderList(app)
		},
	}
}

// runProviderList displays every provider of app.
func (cli *CLI) runProviderList(app types.AppKind) error {
	output, err := cli.output()
	if err != nil {
		return err
	}

	providers, err := cli.Manager.ListProviders(app)
	if err != nil {
		return err
	}
	current, err := cli.Manager.GetCurrent(app)
	if err != nil {
		return err
	}

	list := ProviderListOutput{App: app, Current: current, Providers: []ProviderView{}}
	sorted := sortedProviders(providers)
	for _, p := range sorted {
		list.Providers = append(list.Providers, newProviderView(p, current))
	}

	if len(sorted) == 0 {
		return output.Write(list, func(w io.Writer) {
			fmt.Fprintf(w, "No %s providers configured.\n\n", app.DisplayName())
			fmt.Fprintf(w, "Import the current live config with: ccswitch provider import %s\n", app)
		})
	}

	now := time.Now()
	return output.Write(list, func(w io.Writer) {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tCREATED")

		for _, p := range sorted {
			marker := ""
			if p.ID == current {
				marker = "* "
			}
			category := ""
			if p.Category != nil {
				category = *p.Category
			}
			fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\n", marker, p.ID, p.Name, category, utils.FormatCreatedAt(p.CreatedAt, now))
		}

		// #nosec G104 - Flush error on stdout; if write fails, user will see incomplete output
		_ = tw.Flush()

		if current != "" {
			fmt.Fprintf(w, "\n* = current provider (%s)\n", current)
		}
	})
}

// newProviderShowCmd creates the provider show command.
func (cli *CLI) newProviderShowCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show <app> <id>",
		Short: "Show a provider and its settings",
		Long: `Show a provider and the settings written to the live files when it is active.

Values under keys that look like secrets (API keys, tokens, passwords) are
masked unless --reveal is given.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: cli.completeAppProvider,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := parseApp(args)
			if err != nil {
				return err
			}
			return cli.runProviderShow(app, args[1], reveal)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show secret values unmasked")

	return cmd
}

// runProviderShow displays one provider.
func (cli *CLI) runProviderShow(app types.AppKind, id string, reveal bool) error {
	output, err := cli.output()
	if err != nil {
		return err
	}

	p, err := cli.Manager.GetProvider(app, id)
	if err != nil {
		return err
	}
	current, err := cli.Manager.GetCurrent(app)
	if err != nil {
		return err
	}

	settings := []byte(p.SettingsConfig)
	if !reveal {
		settings = utils.MaskSecrets(settings)
	}

	view := newProviderView(p, current)
	var doc any
	if err := json.Unmarshal(settings, &doc); err == nil {
		view.SettingsConfig = doc
	}

	return output.Write(view, func(w io.Writer) {
		fmt.Fprintf(w, "ID:       %s\n", view.ID)
		fmt.Fprintf(w, "Name:     %s\n", view.Name)
		fmt.Fprintf(w, "Current:  %t\n", view.Current)
		if view.WebsiteURL != "" {
			fmt.Fprintf(w, "Website:  %s\n", view.WebsiteURL)
		}
		if view.Category != "" {
			fmt.Fprintf(w, "Category: %s\n", view.Category)
		}
		fmt.Fprintf(w, "Created:  %s\n", utils.FormatCreatedAt(view.CreatedAt, time.Now()))
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Settings:")

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, settings, "", "  "); err != nil {
			fmt.Fprintln(w, string(settings))
			return
		}
		fmt.Fprintln(w, pretty.String())
	})
}

// newProviderAddCmd creates the provider add command.
func (cli *CLI) newProviderAddCmd() *cobra.Command {
	var (
		id       string
		name     string
		website  string
		category string
		src      payloadSource
	)

	cmd := &cobra.Command{
		Use:   "add <app>",
		Short: "Add a new provider",
		Long: `Add a new provider to an application.

The settings are read from --file as JSON or YAML ("-" reads stdin). For
codex, --auth and --config may point at an auth.json and a config.toml
instead.

Without --id the id is derived from the name.

Examples:
  ccswitch provider add claude --name "My Proxy" --file settings.json
  cat settings.yaml | ccswitch provider add claude --name staging --file -
  ccswitch provider add codex --name work --auth auth.json --config config.toml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.completeApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := parseApp(args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(name) == "" {
				return errors.New("--name is required")
			}
			if src.empty() {
				return errors.New("one of --file or --auth is required")
			}

			payload, err := cli.loadPayload(app, src)
			if err != nil {
				return err
			}

			existing, err := cli.Manager.ListProviders(app)
			if err != nil {
				return err
			}
			if id == "" {
				id = newProviderID(name, func(candidate string) bool {
					_, ok := existing[candidate]
					return ok
				})
			} else if !utils.IsValidProviderID(id) {
				return fmt.Errorf("invalid provider id %q: use letters, digits, '-', '_' or '.'", id)
			}
			if _, ok := existing[id]; ok {
				return fmt.Errorf("provider %q already exists; use 'ccswitch provider edit'", id)
			}

			p := types.NewProvider(id, strings.TrimSpace(name), payload)
			if website != "" {
				p.WebsiteURL = &website
			}
			if category != "" {
				p.Category = &category
			}

			if err := cli.Manager.AddProvider(cmd.Context(), app, p); err != nil {
				return err
			}

			fmt.Fprintf(cli.out, "Added %s provider %q (%s)\n", app, p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Provider id (default derived from the name)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name (required)")
	cmd.Flags().StringVarP(&src.file, "file", "f", "", "Settings file, JSON or YAML; - for stdin")
	cmd.Flags().StringVar(&src.authFile, "auth", "", "Codex auth.json file")
	cmd.Flags().StringVar(&src.configFile, "config", "", "Codex config.toml file")
	cmd.Flags().StringVar(&website, "website", "", "Provider website URL")
	cmd.Flags().StringVar(&category, "category", "", "Provider category")

	return cmd
}

// newProviderEditCmd creates the provider edit command.
func (cli *CLI) newProviderEditCmd() *cobra.Command {
	var (
		name     string
		website  string
		category string
		src      payloadSource
	)

	cmd := &cobra.Command{
		Use:   "edit <app> <id>",
		Short: "Edit an existing provider",
		Long: `Edit an existing provider. Only the given flags are changed; an empty
--website or --category clears the value.

Editing the active provider rewrites the live files immediately.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: cli.completeAppProvider,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := parseApp(args)
			if err != nil {
				return err
			}

			p, err := cli.Manager.GetProvider(app, args[1])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				if strings.TrimSpace(name) == "" {
					return errors.New("--name cannot be empty")
				}
				p.Name = strings.TrimSpace(name)
			}
			if cmd.Flags().Changed("website") {
				p.WebsiteURL = optionalString(website)
			}
			if cmd.Flags().Changed("category") {
				p.Category = optionalString(category)
			}
			if !src.empty() {
				payload, err := cli.loadPayload(app, src)
				if err != nil {
					return err
				}
				p.SettingsConfig = payload
			}

			if err := cli.Manager.UpdateProvider(cmd.Context(), app, p); err != nil {
				return err
			}

			fmt.Fprintf(cli.out, "Updated %s provider %q\n", app, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&src.file, "file", "f", "", "Settings file, JSON or YAML; - for stdin")
	cmd.Flags().StringVar(&src.authFile, "auth", "", "Codex auth.json file")
	cmd.Flags().StringVar(&src.configFile, "config", "", "Codex config.toml file")
	cmd.Flags().StringVar(&website, "website", "", "Provider website URL")
	cmd.Flags().StringVar(&category, "category", "", "Provider category")

	return cmd
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// newProviderRemoveCmd creates the provider remove command.
func (cli *CLI) newProviderRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <app> <id>",
		Aliases:           []string{"rm", "delete"},
		Short:             "Remove a provider",
		Long:              `Remove a provider. The active provider cannot be removed; switch away from it first.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: cli.completeAppProvider,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := parseApp(args)
			if err != nil {
				return err
			}
			if err := cli.Manager.DeleteProvider(cmd.Context(), app, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cli.out, "Removed %s provider %q\n", app, args[1])
			return nil
		},
	}
}

// newProviderUseCmd creates the provider use command for switching providers.
func (cli *CLI) newProviderUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "use <app> <id>",
		Aliases: []string{"switch"},
		Short:   "Switch to a different provider",
		Long: `Make a provider active by writing its settings to the live files.

Changes made to the live files since the last switch are saved into the
provider being replaced.

Examples:
  ccswitch provider use claude my-proxy
  ccswitch provider use codex work`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: cli.completeAppProvider,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := parseApp(args)
			if err != nil {
				return err
			}
			id := args[1]

			if err := cli.Manager.SwitchProvider(cmd.Context(), app, id); err != nil {
				return err
			}

			p, err := cli.Manager.GetProvider(app, id)
			if err != nil {
				fmt.Fprintf(cli.out, "Switched %s to provider %q\n", app, id)
				return nil
			}
			fmt.Fprintf(cli.out, "Switched %s to provider %q (%s)\n", app, p.ID, p.Name)
			fmt.Fprintf(cli.out, "Restart %s to apply the change.\n", app.DisplayName())
			return nil
		},
	}
}

// newProviderImportCmd creates the provider import command.
func (cli *CLI) newProviderImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <app>",
		Short: "Import the live config as the default provider",
		Long: `Create a provider named "default" from the application's current live
config and make it active. Nothing happens when providers already exist.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cli.completeApp,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := parseApp(args)
			if err != nil {
				return err
			}

			imported, err := cli.Manager.ImportDefault(cmd.Context(), app)
			if err != nil {
				return err
			}
			if !imported {
				fmt.Fprintf(cli.out, "%s already has providers; nothing imported\n", app.DisplayName())
				return nil
			}
			fmt.Fprintf(cli.out, "Imported the live %s config as provider %q\n", app.DisplayName(), "default")
			return nil
		},
	}
}

// completeApp completes the <app> argument.
func (cli *CLI) completeApp(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(types.AppKinds))
	for _, app := range types.AppKinds {
		names = append(names, app.String())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeAppProvider completes <app> then a provider id of that app.
func (cli *CLI) completeAppProvider(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return cli.completeApp(cmd, args, toComplete)
	case 1:
		return cli.getProviderIDs(cmd, args[0]), cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

// getProviderIDs returns the provider ids of app for completion.
func (cli *CLI) getProviderIDs(cmd *cobra.Command, appArg string) []string {
	app, err := types.ParseAppKind(appArg)
	if err != nil {
		return nil
	}
	// Completion does not run the persistent pre-run hook.
	if err := cli.initialize(cmd); err != nil {
		return nil
	}
	providers, err := cli.Manager.ListProviders(app)
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(providers))
	for _, p := range sortedProviders(providers) {
		ids = append(ids, p.ID)
	}
	return ids
}
