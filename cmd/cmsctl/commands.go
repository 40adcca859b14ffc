package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/inkpress/internal/models"
	"github.com/inkpress/internal/service"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openDatabase(); err != nil {
				return err
			}
			if err := models.AutoMigrate(); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Println("migrated")
			return nil
		},
	}
}

func revisionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revisions",
		Short: "Inspect translation revisions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list <post-id> <locale>",
		Short: "List revisions of one translation, newest first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			revisions, err := c.PostService.ListRevisions(args[0], args[1])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(revisions)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tCREATED_AT\tBY\tTITLE\tSLUG")
			for _, r := range revisions {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
					r.Version, r.CreatedAt.Format(time.RFC3339), r.CreatedByID, r.Snapshot.Title, r.Snapshot.Slug)
			}
			return w.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <post-id> <locale> <version>",
		Short: "Print one revision snapshot",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseVersion(args[2])
			if err != nil {
				return err
			}
			c, err := openContainer()
			if err != nil {
				return err
			}
			revision, err := c.PostService.GetRevision(args[0], args[1], version)
			if err != nil {
				return err
			}
			return printJSON(revision)
		},
	})
	return cmd
}

func rollbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback <post-id> <locale> <version>",
		Short: "Restore a translation to a revision (current content is kept as a new revision)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseVersion(args[2])
			if err != nil {
				return err
			}
			c, err := openContainer()
			if err != nil {
				return err
			}
			actor, err := resolveActor(c)
			if err != nil {
				return err
			}
			post, err := c.PostService.Rollback(args[0], args[1], version, actor)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(post)
			}
			fmt.Printf("post %s (%s) restored to version %d\n", post.ID, args[1], version)
			return nil
		},
	}
}

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Manage preview tokens",
	}
	var locale string
	issue := &cobra.Command{
		Use:   "issue <post-id>",
		Short: "Issue a preview token for a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			actor, err := resolveActor(c)
			if err != nil {
				return err
			}
			issued, err := c.PreviewService.Issue(context.Background(), args[0], locale, actor)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(issued)
			}
			fmt.Printf("%s\nexpires at %s\n", issued.URL, issued.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	issue.Flags().StringVar(&locale, "locale", "", "Pin the token to one locale")
	cmd.AddCommand(issue)
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Delete expired preview tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer()
			if err != nil {
				return err
			}
			deleted, err := c.PreviewService.PurgeExpired(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("purged %d expired tokens\n", deleted)
			return nil
		},
	})
	return cmd
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage back-office users",
	}
	var (
		name     string
		password string
		role     string
	)
	create := &cobra.Command{
		Use:   "create <email>",
		Short: "Create a user (AUTHOR, EDITOR or ADMIN)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("INK_USER_PASSWORD")
			}
			c, err := openContainer()
			if err != nil {
				return err
			}
			user, err := c.AuthService.CreateUser(service.CreateUserInput{
				Email:    args[0],
				Name:     name,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(user)
			}
			fmt.Printf("created user %d %s (%s)\n", user.ID, user.Email, user.Role)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Display name")
	create.Flags().StringVar(&password, "password", "", "Password (default: $INK_USER_PASSWORD)")
	create.Flags().StringVar(&role, "role", "AUTHOR", "Role: AUTHOR, EDITOR or ADMIN")
	cmd.AddCommand(create)
	return cmd
}

func parseVersion(raw string) (uint, error) {
	version, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || version == 0 {
		return 0, fmt.Errorf("invalid version %q", raw)
	}
	return uint(version), nil
}
