package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/athena-api/cmd/athena-admin/ui"
	"github.com/redmonkez12/athena-api/internal/auth"
	"github.com/redmonkez12/athena-api/internal/config"
	"github.com/redmonkez12/athena-api/internal/database"
	"github.com/redmonkez12/athena-api/internal/database/migrations"
	"github.com/redmonkez12/athena-api/internal/user"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "athena-admin",
		Short:         "Operate an Athena deployment",
		Long:          "Schema migrations and account bootstrap for the Athena API. Reads the same environment as the API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  runMigrateUp,
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			RunE:  runMigrateStatus,
		},
	)

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration group",
		RunE:  runMigrateDown,
	}
	downCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")
	migrateCmd.AddCommand(downCmd)

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	// Missing flags are asked for interactively
	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account without the email round trip",
		RunE:  runCreateUser,
	}
	createUserCmd.Flags().String("username", "", "Username")
	createUserCmd.Flags().String("email", "", "Email address")
	createUserCmd.Flags().String("password", "", "Password")
	createUserCmd.Flags().Bool("verified", false, "Mark the email as verified")
	userCmd.AddCommand(createUserCmd)

	rootCmd.AddCommand(migrateCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

func openDB() (*config.Config, *bun.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	_, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	group, err := migrations.Up(cmd.Context(), migrations.NewMigrator(db))
	if err != nil {
		return err
	}

	ui.PrintGroup("migrated to", group)
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	if !yes {
		ui.PrintWarning("Rolling back drops tables and every row in them.")
		ok, err := ui.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	_, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	group, err := migrations.Down(cmd.Context(), migrations.NewMigrator(db))
	if err != nil {
		return err
	}

	ui.PrintGroup("rolled back", group)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	_, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m := migrations.NewMigrator(db)
	if err := m.Init(cmd.Context()); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	ms, err := m.MigrationsWithStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	ui.PrintMigrationStatus(ms)
	return nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	in := &ui.NewUser{}
	in.Username, _ = cmd.Flags().GetString("username")
	in.Email, _ = cmd.Flags().GetString("email")
	in.Password, _ = cmd.Flags().GetString("password")
	in.Verified, _ = cmd.Flags().GetBool("verified")

	if !in.Complete() {
		if err := ui.RunUserForm(in); err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
	}

	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	hasher := auth.NewArgon2Hasher(cfg.Auth.PasswordHashMemoryKiB, cfg.Auth.PasswordHashIterations)
	u, err := createUser(cmd.Context(), user.NewRepository(db), hasher, in)
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Created %s (%s)", u.Username, u.ID))
	return nil
}

// createUser stores the account directly, applying the same field rules as
// registration. No confirmation email is sent.
func createUser(ctx context.Context, users *user.Repository, hasher auth.PasswordHasher, in *ui.NewUser) (*user.User, error) {
	username, email, err := auth.NormalizeRegistration(in.Username, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := users.Create(ctx, username, email, hash)
	if err != nil {
		return nil, err
	}

	if in.Verified {
		if err := users.MarkVerified(ctx, u.ID); err != nil {
			return nil, err
		}
		u.Verified = true
	}
	return u, nil
}
