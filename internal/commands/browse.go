package commands

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/gerunddev/creolewiki/internal/page"
	"github.com/gerunddev/creolewiki/internal/tui"
)

// Browse shows all pages in an interactive browser
func Browse() {
	w := mustOpenWiki(loadConfig())
	defer w.Close()

	preview := func(name string, mode tui.PreviewMode) (string, error) {
		info, err := w.renderer.Store().Get(page.Ref(name), page.HeadRevision)
		if err != nil {
			return "", fmt.Errorf("failed to get page %s: %w", name, err)
		}

		switch mode {
		case tui.PreviewSource:
			return info.Content, nil
		case tui.PreviewLinks:
			return formatLinks(w.renderer.Links(info)), nil
		}

		markdown := w.renderer.RenderMarkdown(info).Content
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return markdown, nil
		}
		rendered, err := renderer.Render(markdown)
		if err != nil {
			return markdown, nil
		}
		return rendered, nil
	}

	var p *tea.Program

	sendBrowseData := func() {
		refs, err := w.renderer.Store().List()
		if err != nil {
			p.Send(tui.BrowseMsg{Err: fmt.Errorf("failed to list pages: %w", err)})
			return
		}

		pages := make([]tui.PageInfo, 0, len(refs))
		for _, ref := range refs {
			info, err := w.renderer.Store().Get(ref, page.HeadRevision)
			if err != nil {
				w.log.PageError(ref.Name, err)
				continue
			}
			resolved := w.renderer.Links(info)
			pages = append(pages, tui.PageInfo{
				Name:       ref.Name,
				Revision:   info.Revision,
				Links:      len(resolved),
				Broken:     brokenLinks(resolved),
				Attributes: len(info.Attributes),
			})
		}

		p.Send(tui.BrowseMsg{Data: &tui.BrowseData{Pages: pages}})
	}

	m := tui.InitBrowseModel(preview)
	p = tea.NewProgram(m, tea.WithInput(os.Stdin))

	// Send initial browse data
	go sendBrowseData()

	if _, err := p.Run(); err != nil {
		fail("Error", err)
	}
}
