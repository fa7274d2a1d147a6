// Package cli implements wingsctl, the terminal frontend for the inventory
// backend. It drives the client state manager the same way the web UI does:
// load mirrors, mutate optimistically, persist to the local store.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ThatoMphasane/thato/internal/client"
	"github.com/ThatoMphasane/thato/internal/localstore"

	"github.com/spf13/cobra"
)

var (
	apiURL    string
	storePath string
)

var rootCmd = &cobra.Command{
	Use:           "wingsctl",
	Short:         "Wings Cafe inventory and user management client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	home, _ := os.UserHomeDir()
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:5000", "backend base URL")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", filepath.Join(home, ".wingscafe.db"), "local store path")
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

// withState opens the local store, loads fresh server state, runs fn, and
// closes the store again. Every command goes through here.
func withState(fn func(ctx context.Context, st *client.State) error) error {
	store, err := localstore.Open(storePath)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	st := client.NewState(client.New(apiURL), store)
	if err := st.Load(ctx); err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	return fn(ctx, st)
}
