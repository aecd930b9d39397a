// Package cli holds the offermaster command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diewo77/offermaster/client"
	"github.com/diewo77/offermaster/i18n"
	"github.com/diewo77/offermaster/internal/config"
)

// env is what every subcommand shares after the root has loaded config.
type env struct {
	cfg    *config.Config
	apiURL string
	lang   string
	out    io.Writer
}

// client returns an API client whose session is restored from the token file.
func (e *env) client() (*client.Client, error) {
	path := e.cfg.Auth.TokenStore
	if path == "" {
		p, err := client.DefaultTokenPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	s := client.NewSession(client.NewFileStore(path))
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	c := client.New(e.apiURL, s)
	c.Lang = e.lang
	return c, nil
}

// fail turns a client error into the localized text shown to the user.
func (e *env) fail(err error) error {
	return fmt.Errorf("%s", client.UserMessage(err, e.lang))
}

// NewRootCommand builds the command tree. load is called once before any
// subcommand runs.
func NewRootCommand(load func() (*config.Config, error)) *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "offermaster",
		Short:         "OfferMaster quote management",
		Long:          "OfferMaster builds price quotes from a catalog of articles, files them under projects and schedules follow-ups on a calendar.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			e.cfg = cfg
			e.out = cmd.OutOrStdout()
			if e.apiURL == "" {
				e.apiURL = cfg.App.APIURL
			}
			if !i18n.Supported(e.lang) {
				e.lang = i18n.DefaultLang
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&e.apiURL, "api", "", "API base URL (default from OFFERMASTER_API_URL)")
	root.PersistentFlags().StringVar(&e.lang, "lang", i18n.DefaultLang, "message language (hr, en)")

	root.AddCommand(
		newServeCommand(e),
		newMigrateCommand(e),
		newSeedCommand(e),
		newLoginCommand(e),
		newLogoutCommand(e),
		newQuotesCommand(e),
		newCalendarCommand(e),
	)
	return root
}

// Execute runs the CLI with the environment configuration.
func Execute() {
	load := func() (*config.Config, error) { return config.Load() }
	if err := NewRootCommand(load).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
