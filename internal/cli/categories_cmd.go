package cli

import (
	"context"
	"fmt"

	"github.com/jmorgan-nz/kiwiki/internal/cli/formatter"
	"github.com/jmorgan-nz/kiwiki/internal/domain"
	"github.com/jmorgan-nz/kiwiki/internal/nav"
	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show the category tree with post counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.FetchAll(context.Background()); err != nil {
				return err
			}
			posts := app.Store.Posts()

			for _, cat := range domain.Categories {
				fmt.Printf("%s %s %s\n",
					formatter.Bold(cat.Name),
					formatter.Dim(cat.ID),
					formatter.Dim(fmt.Sprintf("(%d)", nav.PostCount(posts, cat.ID))),
				)
				for _, sub := range cat.Subcategories {
					fmt.Printf("  %s %s %s\n",
						sub.Name,
						formatter.Dim(sub.ID),
						formatter.Dim(fmt.Sprintf("(%d)", nav.SubcategoryPostCount(posts, cat.ID, sub.ID))),
					)
				}
			}
			return nil
		},
	}

	return cmd
}
