package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"io.winapps.casportfolio/internal/authguard"
	"io.winapps.casportfolio/internal/client"
)

type rootOptions struct {
	server    string
	statePath string
	jsonOut   bool
}

// session is what every command works with: the saved state, an API client
// carrying the saved cookie and the guard in front of admin commands
type session struct {
	state  *authguard.FileStore
	client *client.Client
	guard  *authguard.Guard
}

func (o *rootOptions) open() (*session, error) {
	state, err := authguard.OpenFileStore(o.statePath)
	if err != nil {
		return nil, err
	}
	c := client.New(o.server, client.WithSessionCookie(state.CookieText()))
	return &session{
		state:  state,
		client: c,
		guard:  authguard.New(state, state, c),
	}, nil
}

// admin runs fn behind the guard. A session the server no longer accepts is
// forgotten so the next run asks for a login.
func (s *session) admin(fn func() error) error {
	if _, err := s.guard.Check(); err != nil {
		return err
	}
	err := s.guard.Guard(fn)
	switch {
	case errors.Is(err, authguard.ErrLoginRequired):
		return errors.New("not logged in, run `casctl login` first")
	case errors.Is(err, client.ErrUnauthorized):
		if cerr := s.state.Clear(); cerr != nil {
			return errors.Join(err, cerr)
		}
		return errors.New("admin session expired, run `casctl login` again")
	}
	return err
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".casctl.json"
	}
	return filepath.Join(dir, "casctl", "state.json")
}

func defaultServer() string {
	if s := os.Getenv("CASCTL_SERVER"); s != "" {
		return s
	}
	return "http://localhost:9091"
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "casctl",
		Short: "Admin client for the CAS portfolio journal",
		Long: `casctl logs in to the CAS portfolio API and manages journal entries:
listing, creating (with media uploads) and deleting them, and showing the dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", defaultServer(), "API base URL")
	rootCmd.PersistentFlags().StringVar(&opts.statePath, "state", defaultStatePath(), "Path of the saved login state")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "Output in JSON format")

	rootCmd.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newEntriesCmd(opts),
		newDashboardCmd(opts),
	)
	return rootCmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := jsonEncoder(cmd)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
