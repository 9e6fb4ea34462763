package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"librarium/catalog"
)

var searchFlags struct {
	author string
	title  string
	format string
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog and stream matches as they are found",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchFlags.author, "author", "a", "", "author query")
	searchCmd.Flags().StringVarP(&searchFlags.title, "title", "t", "", "title query")
	searchCmd.Flags().StringVarP(&searchFlags.format, "format", "f", "", "format filter, e.g. EPUB")
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	client := catalog.NewClient(catalog.Config{
		BaseURL:  cfg.Catalog.BaseURL,
		Language: cfg.Catalog.Language,
		MaxPages: cfg.Catalog.MaxPages,
	}, logger)

	stream := client.Search(cmd.Context(), catalog.Query{
		Author: searchFlags.author,
		Title:  searchFlags.title,
		Format: searchFlags.format,
	})

	scoreColor := color.New(color.FgGreen)
	titleColor := color.New(color.Bold)

	n := 0
	for res := range stream.Results() {
		n++
		fmt.Printf("%3d. [%s] %s — %s", n,
			scoreColor.Sprintf("%3d", res.Score),
			res.Author,
			titleColor.Sprint(res.Title))
		if res.Series != "" {
			fmt.Printf(" (%s)", res.Series)
		}
		fmt.Printf("  %s %s, %d mirrors\n", res.Format, res.Size, len(res.Mirrors))
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if n == 0 {
		fmt.Println("No results.")
	}
	return nil
}
