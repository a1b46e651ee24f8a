// Command stockbitctl runs maintenance tasks against the StockBit database.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"go-stockbit/internal/config"
	"go-stockbit/internal/repository"
	"go-stockbit/internal/service"
	"go-stockbit/migrations"
	"go-stockbit/pkg/database"
	"go-stockbit/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// connectFunc opens the database the commands work on.
type connectFunc func() (*gorm.DB, error)

func connectFromEnv() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return database.Connect(cfg.DatabaseURL, logger.New(cfg.Env))
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(connectFromEnv)
}

func newRootCmdWith(connect connectFunc) *cobra.Command {
	root := &cobra.Command{
		Use:          "stockbitctl",
		Short:        "StockBit maintenance commands",
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCmd(connect),
		newResetPasswordCmd(connect),
		newCreateAdminCmd(connect),
	)
	return root
}

// withDB connects, runs fn and closes the pool again.
func withDB(connect connectFunc, fn func(*gorm.DB, *sql.DB) error) error {
	db, err := connect()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return fn(db, sqlDB)
}

func withSQL(connect connectFunc, fn func(*sql.DB) error) error {
	return withDB(connect, func(_ *gorm.DB, sqlDB *sql.DB) error {
		return fn(sqlDB)
	})
}

func withAdmins(connect connectFunc, fn func(service.AdminService) error) error {
	return withDB(connect, func(db *gorm.DB, _ *sql.DB) error {
		return fn(service.NewAdminService(repository.NewUserRepo(db)))
	})
}

func newMigrateCmd(connect connectFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSQL(connect, func(db *sql.DB) error {
				if err := migrations.Up(db); err != nil {
					return err
				}
				cmd.Println("migrations applied")
				return nil
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return withSQL(connect, func(db *sql.DB) error {
				if err := migrations.Down(db, steps); err != nil {
					return err
				}
				cmd.Printf("rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSQL(connect, func(db *sql.DB) error {
				v, dirty, err := migrations.Version(db)
				if err != nil {
					return err
				}
				cmd.Printf("version %d (dirty: %t)\n", v, dirty)
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func newResetPasswordCmd(connect connectFunc) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for a user and end their sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(password) < 6 {
				return fmt.Errorf("password must be at least 6 characters")
			}
			return withAdmins(connect, func(admins service.AdminService) error {
				if err := admins.ResetPassword(username, password); err != nil {
					return err
				}
				cmd.Printf("password for %s has been reset\n", username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account to reset")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newCreateAdminCmd(connect connectFunc) *cobra.Command {
	var req service.CreateAdminRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAdmins(connect, func(admins service.AdminService) error {
				user, err := admins.CreateAdmin(&req)
				if err != nil {
					return err
				}
				cmd.Printf("admin %s created (%s)\n", user.Username, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Username, "username", "", "admin username")
	cmd.Flags().StringVar(&req.Email, "email", "", "admin email")
	cmd.Flags().StringVar(&req.Password, "password", "", "admin password")
	cmd.Flags().StringVar(&req.BusinessName, "business-name", "StockBit Admin", "business name shown on the account")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
