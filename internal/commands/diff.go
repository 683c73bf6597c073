package commands

import (
	"fmt"
	"os"

	"github.com/gerunddev/creolewiki/internal/diff"
	"github.com/gerunddev/creolewiki/internal/styles"
)

// Diff shows how the rendering of two pages differs. Each side is a page
// name, Name@revision or a markup file.
func Diff(args []string) {
	format := diff.FormatHTML
	var sides []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--format", "-f":
			if i+1 >= len(args) {
				fail("Missing value for --format", nil)
			}
			f, err := diff.ParseFormat(args[i+1])
			if err != nil {
				fail("Error", err)
			}
			format = f
			i++
		default:
			sides = append(sides, args[i])
		}
	}
	if len(sides) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: creolewiki diff [--format html|markdown|source] <old> <new>")
		os.Exit(1)
	}

	w := mustOpenWiki(loadConfig())
	defer w.Close()

	oldPage, err := w.loadPage(sides[0])
	if err != nil {
		fail("Error", err)
	}
	newPage, err := w.loadPage(sides[1])
	if err != nil {
		fail("Error", err)
	}

	out, err := diff.Generate(w.renderer,
		diff.Side{Label: sides[0], Page: oldPage},
		diff.Side{Label: sides[1], Page: newPage},
		format)
	if err != nil {
		fail("Error generating diff", err)
	}
	if out == "" {
		fmt.Println(styles.SuccessStyle.Render("✓ Renderings are identical"))
		return
	}
	fmt.Print(out)
}
