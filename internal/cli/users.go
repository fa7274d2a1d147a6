package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ThatoMphasane/thato/internal/client"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withState(func(ctx context.Context, st *client.State) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tUSERNAME")
			for _, u := range st.Users() {
				fmt.Fprintf(w, "%d\t%s\n", u.ID, u.Username)
			}
			return w.Flush()
		})
	},
}

var updatePassword string

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id> <username>",
	Short: "Rename a user and set a new password",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUint(args[0])
		if err != nil {
			return err
		}
		return withState(func(ctx context.Context, st *client.State) error {
			if !st.Authenticated() {
				return fmt.Errorf("login first: user updates require a session")
			}
			if err := st.UpdateUser(ctx, id, args[1], updatePassword); err != nil {
				return err
			}
			fmt.Println("User updated.")
			return nil
		})
	},
}

var usersRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUint(args[0])
		if err != nil {
			return err
		}
		return withState(func(ctx context.Context, st *client.State) error {
			if !st.Authenticated() {
				return fmt.Errorf("login first: user deletion requires a session")
			}
			if err := st.DeleteUser(ctx, id); err != nil {
				return err
			}
			fmt.Println("User deleted successfully.")
			return nil
		})
	},
}

func init() {
	usersUpdateCmd.Flags().StringVar(&updatePassword, "password", "", "new password")
	_ = usersUpdateCmd.MarkFlagRequired("password")

	usersCmd.AddCommand(usersListCmd, usersUpdateCmd, usersRmCmd)
	rootCmd.AddCommand(usersCmd)
}
