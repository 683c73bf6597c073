// Command creole-render renders Creole markup from a file or stdin.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gerunddev/creolewiki/internal/creole"
	"github.com/gerunddev/creolewiki/internal/logger"
	"github.com/gerunddev/creolewiki/internal/page"
	"github.com/gerunddev/creolewiki/internal/store"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "creole-render [file]",
	Short: "Render Creole markup to HTML or Markdown",
	Long: `Render Creole markup to HTML or Markdown

Reads the markup from the given file, or from stdin when no file (or "-")
is given, and writes the rendering to stdout. Links are resolved against
the pages directory given with --pages, if any.
`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func run(cmd *cobra.Command, args []string) error {
	markdown, _ := cmd.Flags().GetBool("markdown")
	baseURL, _ := cmd.Flags().GetString("base-url")
	wikiName, _ := cmd.Flags().GetString("wiki")
	style, _ := cmd.Flags().GetString("style")
	sanitize, _ := cmd.Flags().GetBool("sanitize")
	pagesDir, _ := cmd.Flags().GetString("pages")
	logPath, _ := cmd.Flags().GetString("log")

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	info, err := readPage(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	log := logger.Discard()
	if logPath != "" {
		l, cleanup, err := logger.NewFileLogger(logPath, logger.ParseLevel("debug"))
		if err != nil {
			return err
		}
		defer cleanup()
		log = l
	}

	var st page.Store
	if pagesDir != "" {
		st = store.WithSpecialPages(store.NewFS(pagesDir), nil)
	}

	r := creole.New(creole.Options{
		Store:          st,
		BaseURL:        baseURL,
		WikiName:       wikiName,
		HighlightStyle: style,
		SanitizeRaw:    sanitize,
		Logger:         log,
	})

	out := cmd.OutOrStdout()
	if markdown {
		_, err = fmt.Fprint(out, r.RenderMarkdown(info).Content)
		return err
	}
	_, err = fmt.Fprintln(out, r.Render(info, nil).Content)
	return err
}

func readPage(stdin io.Reader, path string) (page.Info, error) {
	var data []byte
	var err error
	name := "Stdin"
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err != nil {
		return page.Info{}, fmt.Errorf("failed to read markup: %w", err)
	}
	return page.Info{Reference: page.Ref(name), Content: string(data), Revision: page.HeadRevision}, nil
}

func init() {
	rootCmd.Version = version
	rootCmd.Flags().BoolP("markdown", "m", false, "render Markdown instead of HTML")
	rootCmd.Flags().StringP("base-url", "b", "/", "base URL of internal page links")
	rootCmd.Flags().StringP("wiki", "w", "", "wiki name used in internal page links")
	rootCmd.Flags().StringP("style", "s", "monokai", "syntax highlighting style")
	rootCmd.Flags().Bool("sanitize", false, "sanitize raw HTML blocks")
	rootCmd.Flags().StringP("pages", "p", "", "pages directory links are resolved against")
	rootCmd.Flags().StringP("log", "l", "", "path to the log file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
