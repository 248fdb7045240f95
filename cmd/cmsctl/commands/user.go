package commands

import (
	"fmt"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/services"
	"github.com/spf13/cobra"
)

func newCreateUserCommand(env *environment) *cobra.Command {
	var req services.CreateUserRequest
	var admin bool

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account that can sign in to the admin area",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := env.config()
			if err != nil {
				return err
			}
			db, err := env.database()
			if err != nil {
				return err
			}

			req.Role = models.RoleUser
			if admin {
				req.Role = models.RoleAdmin
			}
			user, err := services.NewAuthService(db, &cfg.JWT).CreateUser(&req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (id %d)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "sign-in email")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password (min 6 characters)")
	cmd.Flags().BoolVar(&admin, "admin", false, "grant the admin role")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
