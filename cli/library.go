package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"librarium/library"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import local ebook files into the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		lib, err := library.Open(cfg.LibraryPath, cfg.EbookMetaPath, cfg.PythonPath, logger)
		if err != nil {
			return err
		}
		for _, path := range args {
			book, err := lib.AddBook(path, nil)
			if err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}
			fmt.Printf("Imported %s — %s\n", book.Author, book.Title)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List library contents",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		lib, err := library.Open(cfg.LibraryPath, cfg.EbookMetaPath, cfg.PythonPath, logger)
		if err != nil {
			return err
		}
		books := lib.Books()
		if len(books) == 0 {
			fmt.Println("The library is empty.")
			return nil
		}
		bold := color.New(color.Bold)
		for _, b := range books {
			fmt.Printf("%s — %s", b.Author, bold.Sprint(b.Title))
			if b.Series != "" {
				fmt.Printf(" (%s", b.Series)
				if b.SeriesNumber != "" {
					fmt.Printf(" #%s", b.SeriesNumber)
				}
				fmt.Print(")")
			}
			fmt.Printf("  [%s] added %s\n", b.Format, b.Added)
		}
		return nil
	},
}
