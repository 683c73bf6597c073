package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func testBrowseData() *BrowseData {
	return &BrowseData{Pages: []PageInfo{
		{Name: "FrontPage", Revision: 2, Links: 3},
		{Name: "Sandbox", Revision: 1, Links: 1, Broken: 1},
	}}
}

func TestBrowseModelLoadsRows(t *testing.T) {
	m := InitBrowseModel(nil)
	updated, _ := m.Update(BrowseMsg{Data: testBrowseData()})
	bm := updated.(browseModel)

	if !bm.ready {
		t.Fatal("expected model to be ready")
	}
	rows := bm.table.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1][3] != "⚠ 1" {
		t.Errorf("broken column = %q", rows[1][3])
	}
	if !strings.Contains(bm.View(), "Pages: 2") {
		t.Errorf("view missing page count:\n%s", bm.View())
	}
}

func TestBrowseModelPreview(t *testing.T) {
	var gotName string
	var gotMode PreviewMode
	preview := func(name string, mode PreviewMode) (string, error) {
		gotName, gotMode = name, mode
		return "rendered " + name, nil
	}

	m := InitBrowseModel(preview)
	updated, _ := m.Update(BrowseMsg{Data: testBrowseData()})
	updated, cmd := updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if cmd == nil {
		t.Fatal("expected a command loading the preview")
	}
	bm := updated.(browseModel)
	if !bm.showPreview || bm.mode != PreviewLinks {
		t.Fatalf("expected links preview, got show=%v mode=%v", bm.showPreview, bm.mode)
	}

	msg := cmd()
	if gotName != "FrontPage" || gotMode != PreviewLinks {
		t.Errorf("preview called with %q %v", gotName, gotMode)
	}
	updated, _ = bm.Update(msg)
	if !strings.Contains(updated.View(), "rendered FrontPage") {
		t.Errorf("preview not shown:\n%s", updated.View())
	}

	// a late preview for another mode is dropped
	updated, _ = updated.Update(PreviewMsg{Name: "FrontPage", Mode: PreviewSource, Content: "stale"})
	if strings.Contains(updated.View(), "stale") {
		t.Error("stale preview should be ignored")
	}

	updated, _ = updated.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if updated.(browseModel).showPreview {
		t.Error("esc should close the preview")
	}
}

func TestBrowseModelWithoutPages(t *testing.T) {
	m := InitBrowseModel(nil)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || updated.(browseModel).showPreview {
		t.Error("enter without pages should do nothing")
	}
}

func TestPublishModel(t *testing.T) {
	m := InitPublishModel("/out")
	if !strings.Contains(m.View(), "Publishing to /out") {
		t.Errorf("unexpected view: %q", m.View())
	}

	updated, cmd := m.Update(PublishMsg{Summary: &PublishSummary{
		Published: 2,
		Skipped:   1,
		Errors:    []error{errors.New("Broken: boom")},
		Duration:  time.Second,
	}})
	if cmd == nil {
		t.Error("expected quit command")
	}
	view := updated.View()
	for _, want := range []string{"Published 2 page(s)", "1 unchanged", "1 error(s)", "Broken: boom"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	updated, _ = m.Update(PublishMsg{Err: errors.New("no pages")})
	if !strings.Contains(updated.View(), "Publish failed: no pages") {
		t.Errorf("unexpected view: %q", updated.View())
	}

	updated, _ = m.Update(PublishMsg{Summary: &PublishSummary{Skipped: 3}})
	if !strings.Contains(updated.View(), "Nothing changed") {
		t.Errorf("unexpected view: %q", updated.View())
	}
}

func TestStatusModel(t *testing.T) {
	data := &StatusData{
		Store:       "/wiki/pages",
		OutputDir:   "/wiki/public",
		Interval:    30 * time.Second,
		PageCount:   4,
		Changed:     []string{"Sandbox"},
		Removed:     []string{"Gone"},
		BrokenLinks: map[string]int{"Sandbox": 2},
	}
	m := InitStatusModel(func() tea.Msg { return StatusMsg{Data: data} })
	if !strings.Contains(m.View(), "Rendering pages") {
		t.Errorf("expected scanning view, got %q", m.View())
	}

	updated, _ := m.Update(m.refresh())
	sm := updated.(statusModel)
	rows := sm.table.Rows()
	if len(rows) != 2 || rows[0][1] != "Removed" || rows[1][1] != "Changed, ⚠ 2 broken" {
		t.Errorf("unexpected rows: %v", rows)
	}

	view := sm.View()
	for _, want := range []string{"/wiki/public", "never", "1 page(s) to publish", "1 page(s) to remove", "2 link(s) to missing pages"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	updated, cmd := sm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if cmd == nil || !updated.(statusModel).scanning {
		t.Error("r should trigger a refresh")
	}
}
