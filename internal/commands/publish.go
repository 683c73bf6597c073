package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/creolewiki/internal/config"
	"github.com/gerunddev/creolewiki/internal/page"
	"github.com/gerunddev/creolewiki/internal/publish"
	"github.com/gerunddev/creolewiki/internal/styles"
	"github.com/gerunddev/creolewiki/internal/tui"
)

// Publish performs a one-shot static export
func Publish(args []string) {
	titleStyle := styles.TitleStyle
	dimStyle := styles.DimStyle

	// --force republishes every page
	force := false
	for _, arg := range args {
		if arg == "--force" {
			force = true
			break
		}
	}

	fmt.Println(titleStyle.Render("Creole Wiki Publish"))
	fmt.Println()

	cfg := loadConfig()
	st := loadState(force)

	w := mustOpenWiki(cfg)
	defer w.Close()

	fmt.Printf("%s → %s\n", dimStyle.Render(w.source()), dimStyle.Render(cfg.OutputDir))
	fmt.Println()

	publisher := w.publisher(st)

	m := tui.InitPublishModel(cfg.OutputDir)
	p := tea.NewProgram(m, tea.WithInput(os.Stdin))

	go func() {
		result, err := publisher.Publish(context.Background())
		p.Send(tui.PublishMsg{Summary: summary(result), Err: err})
	}()

	if _, err := p.Run(); err != nil {
		fail("Error", err)
	}

	if err := st.Save(config.StateFilePath()); err != nil {
		fail("Error saving state", err)
	}
}

// Watch publishes on an interval until interrupted
func Watch(args []string) {
	cfg := loadConfig()

	for i, arg := range args {
		if arg == "--interval" && i+1 < len(args) {
			interval, err := time.ParseDuration(args[i+1])
			if err != nil || interval <= 0 {
				fmt.Fprintf(os.Stderr, "Error: Invalid interval: %s\n", args[i+1])
				os.Exit(1)
			}
			cfg.Interval = interval
		}
	}

	st := loadState(false)
	w := mustOpenWiki(cfg)
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(styles.TitleStyle.Render("Creole Wiki Watch"))
	fmt.Printf("%s → %s %s\n\n",
		styles.DimStyle.Render(w.source()),
		styles.DimStyle.Render(cfg.OutputDir),
		styles.HelpStyle.Render("(every "+cfg.Interval.String()+", ctrl+c to stop)"))

	w.log.Info("watch started", "interval", cfg.Interval)

	report := func(result *publish.Result, err error) {
		stamp := styles.DimStyle.Render(time.Now().Format(time.TimeOnly))
		if err != nil {
			fmt.Printf("%s %s\n", stamp, styles.ErrorStyle.Render("✗ "+err.Error()))
			return
		}
		line := styles.SuccessStyle.Render(fmt.Sprintf("✓ %d published", len(result.Published)))
		if len(result.Removed) > 0 {
			line += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d removed", len(result.Removed)))
		}
		if len(result.Errors) > 0 {
			line += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(result.Errors)))
		}
		if len(result.Published)+len(result.Removed)+len(result.Errors) > 0 {
			fmt.Printf("%s %s\n", stamp, line)
		}

		if err := st.Save(config.StateFilePath()); err != nil {
			w.log.StateError("save", err)
		}
	}

	_ = w.publisher(st).Watch(ctx, cfg.Interval, report)

	// Save final state
	if err := st.Save(config.StateFilePath()); err != nil {
		w.log.StateError("save on shutdown", err)
	}
	w.log.Info("watch stopped")
	fmt.Println(styles.DimStyle.Render("Stopped"))
}

// Status displays what the next publish would change
func Status() {
	cfg := loadConfig()
	w := mustOpenWiki(cfg)
	defer w.Close()

	refresh := func() tea.Msg {
		// Reload state to get latest changes
		st, err := publish.LoadState(config.StateFilePath())
		if err != nil {
			return tui.StatusMsg{Err: fmt.Errorf("error loading state: %w", err)}
		}

		refs, err := w.renderer.Store().List()
		if err != nil {
			return tui.StatusMsg{Err: err}
		}

		changed, removed, err := w.publisher(st).Pending()
		if err != nil {
			return tui.StatusMsg{Err: err}
		}

		data := &tui.StatusData{
			Store:         w.source(),
			OutputDir:     cfg.OutputDir,
			Interval:      cfg.Interval,
			PageCount:     len(refs),
			Changed:       changed,
			Removed:       removed,
			BrokenLinks:   map[string]int{},
			LastRunID:     st.LastRunID,
			LastPublished: st.LastPublished,
		}
		for _, ref := range refs {
			names, _ := w.backend.Attachments(ref)
			data.Attachments += len(names)

			info, err := w.renderer.Store().Get(ref, page.HeadRevision)
			if err != nil {
				continue
			}
			if n := brokenLinks(w.renderer.Links(info)); n > 0 {
				data.BrokenLinks[ref.Name] = n
			}
		}
		if cfg.LogFile != "" {
			data.RecentLog, _, _ = ParseLogFile(cfg.LogFile, 5)
		}
		return tui.StatusMsg{Data: data}
	}

	m := tui.InitStatusModel(refresh)
	p := tea.NewProgram(m, tea.WithInput(os.Stdin))
	if _, err := p.Run(); err != nil {
		fail("Error", err)
	}
}

// loadState loads the publish state, or starts a fresh one when fresh is set
func loadState(fresh bool) *publish.State {
	if fresh {
		return publish.NewState()
	}
	st, err := publish.LoadState(config.StateFilePath())
	if err != nil {
		fail("Error loading state", err)
	}
	return st
}

func summary(r *publish.Result) *tui.PublishSummary {
	if r == nil {
		return nil
	}
	return &tui.PublishSummary{
		Published: len(r.Published),
		Skipped:   len(r.Skipped),
		Removed:   len(r.Removed),
		Errors:    r.Errors,
		Duration:  r.EndTime.Sub(r.StartTime),
	}
}
