package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"librarium/catalog"
	"librarium/download"
	"librarium/library"
)

var getFlags struct {
	author string
	title  string
	format string
	pick   int
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Search, download the best match and import it into the library",
	RunE:  runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getFlags.author, "author", "a", "", "author query")
	getCmd.Flags().StringVarP(&getFlags.title, "title", "t", "", "title query")
	getCmd.Flags().StringVarP(&getFlags.format, "format", "f", "", "format filter, e.g. EPUB")
	getCmd.Flags().IntVarP(&getFlags.pick, "pick", "p", 0, "pick the Nth result (1-based) instead of the best score")
}

func runGet(cmd *cobra.Command, _ []string) error {
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
		Author: getFlags.author,
		Title:  getFlags.title,
		Format: getFlags.format,
	})

	var results []catalog.Result
	for res := range stream.Results() {
		results = append(results, res)
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no results for this query")
	}

	var chosen catalog.Result
	if getFlags.pick > 0 {
		if getFlags.pick > len(results) {
			return fmt.Errorf("--pick %d out of range, got %d results", getFlags.pick, len(results))
		}
		chosen = results[getFlags.pick-1]
	} else {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
		chosen = results[0]
	}
	fmt.Printf("Downloading %s — %s (%s, %s, score %d)\n",
		chosen.Author, color.New(color.Bold).Sprint(chosen.Title),
		chosen.Format, chosen.Size, chosen.Score)

	engine := download.New(download.Config{
		PageTimeout:   cfg.Download.PageTimeout,
		HeaderTimeout: cfg.Download.HeaderTimeout,
	}, catalog.MirrorParser{DirectHosts: cfg.Download.DirectHosts}, logger)

	progress := mpb.New(mpb.WithWidth(40))
	bar := progress.New(100, mpb.BarStyle(),
		mpb.PrependDecorators(decor.Name(chosen.Title+" ")),
		mpb.AppendDecorators(decor.Percentage()),
	)

	completed := make(chan download.Result, 1)
	failed := make(chan struct{}, 1)
	engine.OnComplete = func(r download.Result) {
		completed <- r
	}
	engine.OnStatusChanged = func(j *download.Job) {
		switch s := j.Status(); s.Kind {
		case download.StatusInProgress:
			bar.SetCurrent(int64(s.Percent))
		case download.StatusSuccess:
			bar.SetCurrent(100)
		case download.StatusError:
			select {
			case failed <- struct{}{}:
			default:
			}
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go engine.Run(ctx)
	engine.Enqueue(chosen)

	var result download.Result
	select {
	case result = <-completed:
	case <-failed:
		bar.Abort(true)
		return fmt.Errorf("all mirrors failed for %q", chosen.Title)
	case <-ctx.Done():
		bar.Abort(true)
		return ctx.Err()
	}
	progress.Wait()

	lib, err := library.Open(cfg.LibraryPath, cfg.EbookMetaPath, cfg.PythonPath, logger)
	if err != nil {
		return err
	}
	book, err := lib.AddBook(result.FilePath, result.Job)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Printf("Shelved %s — %s at %s\n", book.Author, book.Title, book.Path)
	return nil
}
