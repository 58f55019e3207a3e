package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fteye/pagemill/internal/database"
)

var (
	docsListEmail  string
	docsListFormat string
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Inspect documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's documents and their processing status",
	Long: `List a user's documents with their processing status.

Examples:
  pagemill-cli docs list --email alice@example.com
  pagemill-cli docs list --email alice@example.com --format json

Output formats:
  table - Human-readable table format (default)
  json  - Machine-readable JSON format`,
	Run: docsListHandler,
}

func docsListHandler(cmd *cobra.Command, args []string) {
	if docsListEmail == "" {
		fmt.Fprintln(os.Stderr, "Error: --email is required")
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
	docStore := database.NewSurrealDocumentStore(db)

	user, err := userStore.FindUserByEmail(ctx, docsListEmail)
	if err != nil || user == nil {
		fmt.Fprintf(os.Stderr, "Error: no user with email %s\n", docsListEmail)
		os.Exit(1)
	}

	docs, err := docStore.FindByUser(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list documents: %v\n", err)
		os.Exit(1)
	}

	if len(docs) == 0 {
		fmt.Println("No documents found")
		return
	}

	switch docsListFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to encode JSON: %v\n", err)
			os.Exit(1)
		}
	case "table":
		fmt.Printf("%-30s %-6s %-15s %s\n", "TITLE", "SOURCE", "STATUS", "ID")
		for _, doc := range docs {
			title := doc.Title
			if len(title) > 28 {
				title = title[:28] + "…"
			}
			fmt.Printf("%-30s %-6s %-15s %s\n", title, doc.SourceType, doc.Status, doc.ID.String())
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: Unsupported output format '%s'. Use 'table' or 'json'\n", docsListFormat)
		os.Exit(1)
	}
}

func init() {
	docsCmd.AddCommand(docsListCmd)
	rootCmd.AddCommand(docsCmd)

	docsListCmd.Flags().StringVarP(&docsListEmail, "email", "e", "", "Email of the document owner")
	docsListCmd.Flags().StringVarP(&docsListFormat, "format", "f", "table", "Output format (table, json)")
}
