package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmorgan-nz/kiwiki/internal/cli/formatter"
	"github.com/jmorgan-nz/kiwiki/internal/domain"
	"github.com/spf13/cobra"
)

func newPostsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage wiki posts",
	}

	cmd.AddCommand(
		newPostsListCmd(app),
		newPostsShowCmd(app),
		newPostsCreateCmd(app),
		newPostsEditCmd(app),
		newPostsRemoveCmd(app),
	)

	return cmd
}

func newPostsListCmd(app *App) *cobra.Command {
	var categoryID, subcategoryID, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.FetchAll(context.Background()); err != nil {
				return err
			}

			var shown int
			for _, p := range app.Store.Posts() {
				if categoryID != "" && p.Category != categoryID {
					continue
				}
				if subcategoryID != "" && p.Subcategory != subcategoryID {
					continue
				}
				if search != "" && !p.MatchesSearch(search) {
					continue
				}
				fmt.Printf("%s  %s  %s\n",
					formatter.Dim(shortID(p.ID)),
					formatter.Bold(formatter.Truncate(p.Title, 40)),
					formatter.Dim(pairLabel(p)),
				)
				shown++
			}
			if shown == 0 {
				fmt.Println(formatter.Dim("No posts."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryID, "category", "", "Filter by category ID")
	cmd.Flags().StringVar(&subcategoryID, "subcategory", "", "Filter by subcategory ID")
	cmd.Flags().StringVar(&search, "search", "", "Filter by title/content substring")

	return cmd
}

func newPostsShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a post in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.FetchAll(context.Background()); err != nil {
				return err
			}
			p, err := resolvePostID(app, args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(formatter.Header(p.Title) + "\n")
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID      "), p.ID))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("WRITER  "), p.Writer))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("WHERE   "), pairLabel(*p)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("CREATED "), formatter.FormatDate(p.CreatedAt)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("UPDATED "), formatter.RelativeDate(p.UpdatedAt)))
			b.WriteString("\n" + p.Content + "\n")
			fmt.Print(b.String())
			return nil
		},
	}

	return cmd
}

func newPostsCreateCmd(app *App) *cobra.Command {
	var title, content, writer, categoryID, subcategoryID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new post",
		RunE: func(cmd *cobra.Command, args []string) error {
			if writer == "" {
				writer = app.Writer
			}
			draft := domain.PostDraft{
				Title:       title,
				Content:     content,
				Writer:      writer,
				Category:    categoryID,
				Subcategory: subcategoryID,
			}.Trim()
			if err := draft.Validate(); err != nil {
				return err
			}
			created, err := app.Store.Create(context.Background(), draft)
			if err != nil {
				return err
			}
			fmt.Printf("Created post %s (%s)\n", created.Title, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Post title")
	cmd.Flags().StringVar(&content, "content", "", "Post body")
	cmd.Flags().StringVar(&writer, "writer", "", "Author name (defaults to KIWIKI_WRITER)")
	cmd.Flags().StringVar(&categoryID, "category", "", "Category ID")
	cmd.Flags().StringVar(&subcategoryID, "subcategory", "", "Subcategory ID")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("subcategory")

	return cmd
}

func newPostsEditCmd(app *App) *cobra.Command {
	var title, content, writer string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Update fields of an existing post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := app.Store.FetchAll(ctx); err != nil {
				return err
			}
			p, err := resolvePostID(app, args[0])
			if err != nil {
				return err
			}

			var patch domain.PostPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("content") {
				patch.Content = &content
			}
			if cmd.Flags().Changed("writer") {
				patch.Writer = &writer
			}
			if patch.IsEmpty() {
				return fmt.Errorf("nothing to change; pass --title, --content or --writer")
			}

			updated, err := app.Store.Update(ctx, p.ID, patch)
			if err != nil {
				return err
			}
			fmt.Printf("Updated post %s\n", updated.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New body")
	cmd.Flags().StringVar(&writer, "writer", "", "New author name")

	return cmd
}

func newPostsRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a post",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := app.Store.FetchAll(ctx); err != nil {
				return err
			}
			p, err := resolvePostID(app, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.Remove(ctx, p.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted post %s\n", p.ID)
			return nil
		},
	}

	return cmd
}

// resolvePostID accepts a full post ID or an unambiguous prefix.
func resolvePostID(app *App, arg string) (*domain.Post, error) {
	if p, ok := app.Store.Get(arg); ok {
		return &p, nil
	}

	var match *domain.Post
	for _, p := range app.Store.Posts() {
		if strings.HasPrefix(p.ID, arg) {
			if match != nil {
				return nil, fmt.Errorf("post ID %q is ambiguous", arg)
			}
			p := p
			match = &p
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no post with ID %q", arg)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// pairLabel renders "category > subcategory" using display names when
// the IDs are known, raw IDs otherwise.
func pairLabel(p domain.Post) string {
	cat, sub, ok := domain.LookupSubcategory(p.Category, p.Subcategory)
	if !ok {
		return p.Category + " > " + p.Subcategory
	}
	return cat.Name + " > " + sub.Name
}
