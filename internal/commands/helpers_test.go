package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gerunddev/creolewiki/internal/config"
	"github.com/gerunddev/creolewiki/internal/page"
	"github.com/gerunddev/creolewiki/internal/store"
)

func testWiki(t *testing.T) *wiki {
	t.Helper()
	dir := t.TempDir()
	fs := store.NewFS(dir)
	if err := fs.Put(page.Info{Reference: page.Ref("Sandbox"), Content: "See [[Missing]] and [[FrontPage]]."}); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.PagesDir = dir
	cfg.OutputDir = filepath.Join(dir, "public")
	cfg.LogFile = ""
	cfg.InterWiki = map[string]string{"wikipedia": "https://de.wikipedia.org/wiki/%s"}

	w, err := openWiki(cfg)
	if err != nil {
		t.Fatalf("openWiki() error = %v", err)
	}
	t.Cleanup(w.Close)
	return w
}

func TestLoadPage(t *testing.T) {
	w := testWiki(t)

	info, err := w.loadPage("Sandbox")
	if err != nil {
		t.Fatalf("loadPage() error = %v", err)
	}
	if info.Name != "Sandbox" || !strings.Contains(info.Content, "[[Missing]]") {
		t.Errorf("unexpected page: %+v", info)
	}

	// special pages are served by default
	if _, err := w.loadPage("FrontPage"); err != nil {
		t.Errorf("loadPage(FrontPage) error = %v", err)
	}

	file := filepath.Join(t.TempDir(), "Draft.creole")
	if err := os.WriteFile(file, []byte("**draft**"), 0644); err != nil {
		t.Fatal(err)
	}
	info, err = w.loadPage(file)
	if err != nil {
		t.Fatalf("loadPage(file) error = %v", err)
	}
	if info.Name != "Draft" || info.Content != "**draft**" {
		t.Errorf("unexpected file page: %+v", info)
	}

	r, wr, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdin := os.Stdin
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = stdin })
	if _, err := wr.WriteString("**from stdin**"); err != nil {
		t.Fatal(err)
	}
	wr.Close()
	info, err = w.loadPage("-")
	if err != nil {
		t.Fatalf("loadPage(-) error = %v", err)
	}
	if info.Content != "**from stdin**" {
		t.Errorf("stdin content = %q", info.Content)
	}

	tests := []struct {
		arg  string
		want string
	}{
		{"Nope", "no page or file named Nope"},
		{"Sandbox@x", "invalid revision"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			_, err := w.loadPage(tt.arg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("loadPage(%q) error = %v, want %q", tt.arg, err, tt.want)
			}
		})
	}
}

func TestInterWiki(t *testing.T) {
	mem := store.NewMemory()
	wikis := interWiki(store.WithSpecialPages(mem, nil), map[string]string{
		"wikipedia": "https://de.wikipedia.org/wiki/%s",
		"go":        "https://pkg.go.dev/%s",
	})

	if wikis["c2"] != "http://c2.com/cgi/wiki?%s" {
		t.Errorf("c2 = %q", wikis["c2"])
	}
	if wikis["wikipedia"] != "https://de.wikipedia.org/wiki/%s" {
		t.Errorf("configured wiki should override the page, got %q", wikis["wikipedia"])
	}
	if wikis["go"] != "https://pkg.go.dev/%s" {
		t.Errorf("go = %q", wikis["go"])
	}
}

func TestBrokenLinks(t *testing.T) {
	w := testWiki(t)
	info, err := w.loadPage("Sandbox")
	if err != nil {
		t.Fatal(err)
	}

	resolved := w.renderer.Links(info)
	if len(resolved) != 2 {
		t.Fatalf("expected 2 links, got %d", len(resolved))
	}
	if n := brokenLinks(resolved); n != 1 {
		t.Errorf("brokenLinks() = %d, want 1", n)
	}
	out := formatLinks(resolved)
	if !strings.Contains(out, "Missing") || !strings.Contains(out, "/pages/FrontPage") {
		t.Errorf("unexpected links output:\n%s", out)
	}
}

func TestParseLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creolewiki.log")
	log := strings.Join([]string{
		"2026-01-02 10:00:00 INFO publish started run=a",
		"2026-01-02 10:00:01 INFO publish completed run=a pages_published=3 errors=0",
		"2026-01-02 10:00:30 INFO publish started run=b",
		"2026-01-02 10:00:31 INFO publish completed run=b pages_published=1 errors=0",
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(log), 0644); err != nil {
		t.Fatal(err)
	}

	lines, last, published := ParseLogFile(path, 3)
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	want := time.Date(2026, 1, 2, 10, 0, 31, 0, time.UTC)
	if !last.Equal(want) {
		t.Errorf("last publish = %v, want %v", last, want)
	}
	if published != 1 {
		t.Errorf("published = %d, want 1", published)
	}

	lines, last, _ = ParseLogFile(filepath.Join(t.TempDir(), "none.log"), 3)
	if !last.IsZero() || len(lines) != 1 {
		t.Errorf("missing log should yield a placeholder, got %v %v", lines, last)
	}
}
