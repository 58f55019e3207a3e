package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fteye/pagemill/internal/database"
	"github.com/fteye/pagemill/internal/domain"
)

var (
	createUserEmail    string
	createUserPassword string
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	Long: `Create a user account directly, bypassing the web signup flow.
Useful for provisioning the first account on a fresh instance.`,
	Run: usersCreateHandler,
}

func usersCreateHandler(cmd *cobra.Command, args []string) {
	if createUserEmail == "" || createUserPassword == "" {
		fmt.Fprintln(os.Stderr, "Error: --email and --password are required")
		os.Exit(1)
	}
	if len(createUserPassword) < 8 {
		fmt.Fprintln(os.Stderr, "Error: password must be at least 8 characters long")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, cfg, err := connect(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close(ctx)

	userStore := database.NewSurrealUserStore(db, cfg.GetDBNs(), cfg.GetDBDb())
	emailStore := database.NewSurrealEmailStore(db)

	user := &domain.User{Email: createUserEmail}
	if _, err := userStore.SignUp(ctx, user, createUserPassword); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create user: %v\n", err)
		os.Exit(1)
	}

	// CLI-created accounts skip the emailed link: generate a verification
	// token and consume it immediately.
	if _, err := emailStore.AddPrimary(ctx, user.ID, createUserEmail); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: user created but primary email address could not be stored: %v\n", err)
	} else {
		token, err := emailStore.GenerateVerificationToken(ctx, createUserEmail)
		if err == nil {
			_, err = emailStore.VerifyByToken(ctx, token)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not mark the email address verified: %v\n", err)
		}
	}

	fmt.Printf("Created user %s\n", createUserEmail)
}

func init() {
	usersCmd.AddCommand(usersCreateCmd)
	rootCmd.AddCommand(usersCmd)

	usersCreateCmd.Flags().StringVarP(&createUserEmail, "email", "e", "", "Email address for the new account")
	usersCreateCmd.Flags().StringVarP(&createUserPassword, "password", "p", "", "Password for the new account")
}
