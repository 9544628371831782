package main

import (
	"context"
	"fmt"
	"time"

	"github.com/arzan03/BloodBridge/internal/db"
	"github.com/arzan03/BloodBridge/internal/models"
	"github.com/arzan03/BloodBridge/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var (
	userEmail  string
	userStatus string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage donor accounts",
	Long: `Manage donor accounts directly in the store.

Examples:
  # Grant the admin role
  bloodbridge user promote --email admin@example.com

  # Return an account to the donor role
  bloodbridge user demote --email admin@example.com

  # Activate a pending donor
  bloodbridge user status --email donor@example.com --status active`,
}

var userPromoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Grant the admin role",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(func(ctx context.Context, users *services.UserService) error {
			res, err := users.SetRole(ctx, userEmail, models.RoleAdmin)
			return report(cmd, res, err)
		})
	},
}

var userDemoteCmd = &cobra.Command{
	Use:   "demote",
	Short: "Return an account to the donor role",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withUsers(func(ctx context.Context, users *services.UserService) error {
			res, err := users.SetRole(ctx, userEmail, models.RoleDonor)
			return report(cmd, res, err)
		})
	},
}

var userStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Set an account's status",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validator.New().Var(userStatus, "oneof=active pending"); err != nil {
			return fmt.Errorf("invalid --status %q: want active or pending", userStatus)
		}
		return withUsers(func(ctx context.Context, users *services.UserService) error {
			res, err := users.SetStatus(ctx, userEmail, userStatus)
			return report(cmd, res, err)
		})
	},
}

func init() {
	userCmd.PersistentFlags().StringVar(&userEmail, "email", "", "account email")
	_ = userCmd.MarkPersistentFlagRequired("email")
	userStatusCmd.Flags().StringVar(&userStatus, "status", "", "new status (active, pending)")
	_ = userStatusCmd.MarkFlagRequired("status")

	userCmd.AddCommand(userPromoteCmd)
	userCmd.AddCommand(userDemoteCmd)
	userCmd.AddCommand(userStatusCmd)
}

func withUsers(fn func(ctx context.Context, users *services.UserService) error) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := db.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.ConnectTimeout, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Disconnect(context.Background()) }()

	return fn(ctx, services.NewUserService(store.Users))
}

func report(cmd *cobra.Command, res models.UpdateResult, err error) error {
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no user with email %s", userEmail)
	}
	if res.ModifiedCount == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s unchanged\n", userEmail)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", userEmail)
	return nil
}
