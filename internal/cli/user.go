package cli

import (
	"fmt"

	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/domain"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/infrastructure"
	"github.com/lyupro/lyupro-de-verben-mit-praepositionen-sub000/internal/usecase"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Short:   "Manage user accounts",
	GroupID: "data",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		admin, _ := cmd.Flags().GetBool("admin")
		role := domain.RoleUser
		if admin {
			role = domain.RoleAdmin
		}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.migrate(cmd.Context()); err != nil {
			return err
		}
		auth, _ := a.authService()
		user, err := auth.CreateUser(cmd.Context(), domain.AuthCredentials{Username: username, Password: password}, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
		return nil
	},
}

var userPromoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Grant a user the admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()
		auth, _ := a.authService()
		user, err := auth.Promote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Delete a user account with its favorites and lists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()
		auth, repo := a.authService()
		user, err := repo.GetUserByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := auth.DeleteUser(cmd.Context(), user.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", user.Username)
		return nil
	},
}

func (a *app) authService() (*usecase.AuthService, *infrastructure.AuthRepository) {
	repo := infrastructure.NewAuthRepository(a.db)
	return usecase.NewAuthService(repo, a.jwt(repo)), repo
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd, userPromoteCmd, userDeleteCmd)

	userCreateCmd.Flags().StringP("username", "u", "", "login name")
	userCreateCmd.Flags().StringP("password", "p", "", "password, at least 8 characters")
	userCreateCmd.Flags().Bool("admin", false, "create the user with the admin role")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")
}
