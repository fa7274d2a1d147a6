package cli

import (
	"context"
	"fmt"

	"github.com/ThatoMphasane/thato/internal/client"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <username> <password>",
	Short: "Authenticate and store the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(func(ctx context.Context, st *client.State) error {
			if err := st.Login(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Welcome, %s!\n", st.CurrentUser())
			return nil
		})
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup <username> <password>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(func(ctx context.Context, st *client.State) error {
			if err := st.Signup(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("User added successfully — you can log in now.")
			return nil
		})
	},
}

var switchCmd = &cobra.Command{
	Use:   "switch <username> <password>",
	Short: "Switch to another account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(func(ctx context.Context, st *client.State) error {
			if err := st.SwitchUser(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Switched to user: %s\n", st.CurrentUser())
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(func(ctx context.Context, st *client.State) error {
			st.Logout()
			fmt.Println("Logged out.")
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, switchCmd, logoutCmd)
}
