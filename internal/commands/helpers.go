package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gerunddev/creolewiki/internal/config"
	"github.com/gerunddev/creolewiki/internal/creole"
	"github.com/gerunddev/creolewiki/internal/links"
	"github.com/gerunddev/creolewiki/internal/logger"
	"github.com/gerunddev/creolewiki/internal/page"
	"github.com/gerunddev/creolewiki/internal/publish"
	"github.com/gerunddev/creolewiki/internal/store"
	"github.com/gerunddev/creolewiki/internal/styles"
)

// backend is a page store that also serves attachment files
type backend interface {
	page.Store
	publish.AttachmentSource
}

// wiki bundles everything a command needs to work on the configured wiki
type wiki struct {
	cfg      *config.Config
	log      *logger.Logger
	backend  backend
	renderer *creole.Renderer
	closers  []func()
}

// Close releases the store and the log file
func (w *wiki) Close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		w.closers[i]()
	}
}

// openWiki opens the store configured in cfg and builds a renderer on it
func openWiki(cfg *config.Config) (*wiki, error) {
	w := &wiki{cfg: cfg, log: logger.Discard()}

	if cfg.LogFile != "" {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, logger.ParseLevel(cfg.LogLevel))
		if err == nil {
			w.log = l
			w.closers = append(w.closers, cleanup)
		}
	}

	switch cfg.Store {
	case config.StoreSQLite:
		db, err := store.OpenSQLite(cfg.Database)
		if err != nil {
			w.Close()
			return nil, err
		}
		w.backend = db
		w.closers = append(w.closers, func() { _ = db.Close() })
	default:
		w.backend = store.NewFS(cfg.PagesDir)
	}
	w.log.ConfigLoaded(cfg.PagesDir, cfg.OutputDir, cfg.Store)

	pages := store.WithSpecialPages(w.backend, nil)
	w.renderer = creole.New(creole.Options{
		Store:          pages,
		BaseURL:        cfg.BaseURL,
		WikiName:       cfg.WikiName,
		InterWiki:      interWiki(pages, cfg.InterWiki),
		HighlightStyle: cfg.HighlightStyle,
		Directives:     cfg.Directives,
		SanitizeRaw:    cfg.SanitizeRawHTML,
		Logger:         w.log,
	})
	return w, nil
}

// interWiki reads the ConfigInterWikiLinks page and lays the configured
// wikis over it
func interWiki(st page.Store, configured map[string]string) map[string]string {
	wikis := map[string]string{}
	if info, err := st.Get(page.Ref(store.ConfigInterWikiLinks), page.HeadRevision); err == nil {
		wikis = links.ParseInterWikiLinks(info.Content)
	}
	for name, format := range configured {
		wikis[name] = format
	}
	return wikis
}

// source describes where pages are read from
func (w *wiki) source() string {
	if w.cfg.Store == config.StoreSQLite {
		return w.cfg.Database
	}
	return w.cfg.PagesDir
}

// publisher creates a publisher for the configured output directory
func (w *wiki) publisher(st *publish.State) *publish.Publisher {
	return publish.New(w.renderer, st, publish.Options{
		Source:      w.source(),
		OutputDir:   w.cfg.OutputDir,
		WikiName:    w.cfg.WikiName,
		Attachments: w.backend,
		Logger:      w.log,
	})
}

// loadPage resolves a command line argument to a page. An existing file is
// read as markup for a page named after the file. Otherwise the argument
// names a stored page, optionally as Name@revision. "-" reads stdin.
func (w *wiki) loadPage(arg string) (page.Info, error) {
	if arg == "-" {
		return readPageFile(arg)
	}
	if fi, err := os.Stat(arg); err == nil && !fi.IsDir() {
		return readPageFile(arg)
	}

	name, revision := arg, page.HeadRevision
	if i := strings.LastIndex(arg, "@"); i > 0 {
		rev, err := strconv.ParseInt(arg[i+1:], 10, 64)
		if err != nil {
			return page.Info{}, fmt.Errorf("invalid revision in %q: %w", arg, err)
		}
		name, revision = arg[:i], rev
	}

	info, err := w.renderer.Store().Get(page.Ref(name), revision)
	if errors.Is(err, page.ErrNotFound) {
		return page.Info{}, fmt.Errorf("no page or file named %s", arg)
	}
	if err != nil {
		return page.Info{}, fmt.Errorf("failed to get page %s: %w", arg, err)
	}
	return info, nil
}

// readPageFile reads markup from a file, or from stdin for "-"
func readPageFile(path string) (page.Info, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return page.Info{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return page.Info{Reference: page.Ref(name), Content: string(data), Revision: page.HeadRevision}, nil
}

// formatLinks lists resolved links one per line, coloured by link class
func formatLinks(resolved []creole.ResolvedLink) string {
	if len(resolved) == 0 {
		return styles.DimStyle.Render("No links") + "\n"
	}

	var b strings.Builder
	for _, l := range resolved {
		target := l.Target
		if l.Title != "" && l.Title != l.Target {
			target += styles.DimStyle.Render(" (" + l.Title + ")")
		}
		if l.Err != nil {
			fmt.Fprintf(&b, "  %s %s\n", styles.ErrorStyle.Render("✗ "+l.Target), styles.ErrorStyle.Render(l.Err.Error()))
			continue
		}
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			styles.LinkStyle(l.Class).Render("●"),
			target,
			styles.DimStyle.Render("→"),
			styles.LinkStyle(l.Class).Render(l.URL))
	}
	return b.String()
}

// brokenLinks counts links that point at missing pages or do not resolve
func brokenLinks(resolved []creole.ResolvedLink) int {
	n := 0
	for _, l := range resolved {
		if l.Err != nil || l.Class == links.ClassNew {
			n++
		}
	}
	return n
}

// ParseLogFile reads the last N lines from the log file and extracts publish info
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	// Get last N lines
	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastPublish time.Time
	published := 0

	// Look for most recent "publish completed" line
	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if strings.Contains(line, "publish completed") {
			// Format: 2025-11-27 14:11:57 INFO publish completed
			if len(line) > 19 {
				if t, err := time.Parse(time.DateTime, line[:19]); err == nil {
					lastPublish = t
				}
			}

			if idx := strings.Index(line, "pages_published="); idx != -1 {
				_, _ = fmt.Sscanf(line[idx:], "pages_published=%d", &published) //nolint:errcheck // best effort parsing
			}
			break
		}
	}

	return recentLines, lastPublish, published
}

// fail prints an error and exits
func fail(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	fmt.Println(styles.ErrorStyle.Render("✗ " + msg))
	os.Exit(1)
}

// loadConfig loads the configuration or exits
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fail("Error loading config", err)
	}
	return cfg
}

// mustOpenWiki opens the configured wiki or exits
func mustOpenWiki(cfg *config.Config) *wiki {
	w, err := openWiki(cfg)
	if err != nil {
		fail("Error opening wiki", err)
	}
	return w
}
