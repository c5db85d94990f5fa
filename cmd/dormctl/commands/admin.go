package commands

import (
	"fmt"
	"os"

	"dormku_backend/internals/constants"
	"dormku_backend/internals/features/users/users/dto"
	"dormku_backend/internals/features/users/users/service"
	helper "dormku_backend/internals/helpers"
	helperAuth "dormku_backend/internals/helpers/auth"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const adminPasswordEnv = "DORMCTL_ADMIN_PASSWORD"

// operator acts for whoever has shell access to the server.
var operator = helperAuth.Principal{Kind: helperAuth.KindStaff, UserID: uuid.Nil, Role: constants.RoleAdmin}

func CreateAdminCmd(open Opener) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Long:  `Creates an admin directly in the database. The password comes from --password or the ` + adminPasswordEnv + ` environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(adminPasswordEnv)
			}
			req := dto.CreateUserRequest{
				UserName:     name,
				UserEmail:    email,
				UserPassword: password,
				UserRole:     constants.RoleAdmin,
			}
			req.Normalize()
			if err := helper.ValidateStruct(nil, &req); err != nil {
				return err
			}

			_, db, err := open()
			if err != nil {
				return err
			}
			out, err := service.NewUserService(db).Create(cmd.Context(), operator, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", out.UserEmail, out.UserID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
