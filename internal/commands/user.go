package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/teamtask/backend/domain"
	"github.com/teamtask/backend/internal/config"
	"github.com/teamtask/backend/repository/postgres"
	authUC "github.com/teamtask/backend/usecase/auth"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage team members",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a team member",
}

func init() {
	userAddCmd.RunE = withPool(func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
		name, _ := userAddCmd.Flags().GetString("name")
		email, _ := userAddCmd.Flags().GetString("email")
		rawRole, _ := userAddCmd.Flags().GetString("role")
		password, _ := userAddCmd.Flags().GetString("password")

		if name == "" || email == "" || password == "" {
			return fmt.Errorf("name, email, and password are required")
		}
		role, err := domain.ParseRole(rawRole)
		if err != nil {
			return err
		}
		hash, err := authUC.HashPassword(password)
		if err != nil {
			return err
		}

		user := &domain.User{
			Name:         name,
			Email:        email,
			Role:         role,
			PasswordHash: hash,
		}
		if err := postgres.NewUserRepository(pool).Upsert(ctx, user); err != nil {
			return err
		}
		fmt.Printf("created user %s (%s) with role %s\n", user.Name, user.ID, user.Role)
		return nil
	})
}

var userRoleCmd = &cobra.Command{
	Use:   "role <email> <role>",
	Short: "Change a member's role",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := args[0]
		role, err := domain.ParseRole(args[1])
		if err != nil {
			return err
		}
		return withPool(func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
			users := postgres.NewUserRepository(pool)
			user, err := users.GetByEmail(ctx, email)
			if err != nil {
				return err
			}
			if err := users.UpdateRole(ctx, user.ID, role); err != nil {
				return err
			}
			fmt.Printf("updated %s to role %s\n", email, role)
			return nil
		})(cmd, args)
	},
}

func init() {
	userAddCmd.Flags().String("name", "", "display name")
	userAddCmd.Flags().String("email", "", "login email")
	userAddCmd.Flags().String("role", "member", "role: admin or member")
	userAddCmd.Flags().String("password", "", "initial password")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userRoleCmd)
}
