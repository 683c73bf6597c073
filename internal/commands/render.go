package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/creolewiki/internal/styles"
)

// Render writes the rendering of a page or markup file to stdout
func Render(args []string) {
	markdown := false
	var target string
	for _, arg := range args {
		switch arg {
		case "--markdown", "-m":
			markdown = true
		default:
			target = arg
		}
	}
	if target == "" {
		fmt.Fprintln(os.Stderr, "Usage: creolewiki render [--markdown] <page|file|->")
		os.Exit(1)
	}

	w := mustOpenWiki(loadConfig())
	defer w.Close()

	info, err := w.loadPage(target)
	if err != nil {
		fail("Error", err)
	}

	if markdown {
		fmt.Print(w.renderer.RenderMarkdown(info).Content)
		return
	}
	fmt.Println(w.renderer.Render(info, nil).Content)
}

// Links lists the links of a page and where each one resolves
func Links(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: creolewiki links <page|file>")
		os.Exit(1)
	}

	w := mustOpenWiki(loadConfig())
	defer w.Close()

	info, err := w.loadPage(args[0])
	if err != nil {
		fail("Error", err)
	}

	resolved := w.renderer.Links(info)
	fmt.Println(styles.TitleStyle.Render("Links of " + info.Name))
	fmt.Println()
	fmt.Print(formatLinks(resolved))
	if n := brokenLinks(resolved); n > 0 {
		fmt.Println()
		fmt.Println(styles.WarningStyle.Render(fmt.Sprintf("⚠ %d link(s) to missing pages", n)))
	}
}

// Macros lists the registered macros
func Macros() {
	w := mustOpenWiki(loadConfig())
	defer w.Close()

	fmt.Println(styles.TitleStyle.Render("Macros"))
	fmt.Println()
	for _, m := range w.renderer.Macros().All() {
		fmt.Printf("  %s %s\n",
			styles.HighlightStyle.Render(fmt.Sprintf("%-12s", m.Name())),
			styles.DimStyle.Render(m.ResultFormat().String()))
	}
}
