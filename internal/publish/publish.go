// Package publish exports every page of a wiki as static HTML. Pages whose
// rendering has not changed since the last run are skipped.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/gerunddev/creolewiki/internal/creole"
	"github.com/gerunddev/creolewiki/internal/logger"
	"github.com/gerunddev/creolewiki/internal/page"
	"github.com/gerunddev/creolewiki/internal/store"
)

// AttachmentSource gives access to the attachment files of pages
type AttachmentSource interface {
	Attachments(ref page.Reference) ([]string, error)
	OpenAttachment(ref page.Reference, name string) (io.ReadCloser, error)
}

// Options configure a Publisher
type Options struct {
	// Source describes where pages come from, for logging
	Source    string
	OutputDir string
	// WikiName must match the wiki name the renderer builds URLs with
	WikiName string
	// Attachments, if set, are copied next to the pages
	Attachments AttachmentSource
	Logger      *logger.Logger
}

// Publisher renders pages into an output directory laid out like the
// wiki's URLs: <output>/pages/<wiki>/<Name>/index.html.
type Publisher struct {
	renderer *creole.Renderer
	state    *State
	opts     Options
	log      *logger.Logger
}

// New creates a publisher. st is updated by every run and may be saved by
// the caller afterwards.
func New(r *creole.Renderer, st *State, opts Options) *Publisher {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	if st == nil {
		st = NewState()
	}
	return &Publisher{renderer: r, state: st, opts: opts, log: log}
}

// State returns the state the publisher updates
func (p *Publisher) State() *State {
	return p.state
}

// Result represents the result of a publish run
type Result struct {
	RunID     string
	Published []string
	Skipped   []string
	Removed   []string
	Errors    []error
	StartTime time.Time
	EndTime   time.Time
}

// String returns a human-readable summary of the publish result
func (r *Result) String() string {
	duration := r.EndTime.Sub(r.StartTime)
	return fmt.Sprintf(
		"Publish complete: %d pages published, %d unchanged, %d removed, %d errors (took %v)",
		len(r.Published),
		len(r.Skipped),
		len(r.Removed),
		len(r.Errors),
		duration,
	)
}

// Publish renders every page of the store. Errors on single pages are
// collected in the result; only a failure to list pages aborts the run.
func (p *Publisher) Publish(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	p.log.PublishStarted(result.RunID, p.opts.Source, p.opts.OutputDir)

	refs, err := p.renderer.Store().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	sidebar := p.sidebar()
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen[ref.Name] = true

		published, err := p.publishPage(ref, sidebar, result.RunID)
		switch {
		case err != nil:
			p.log.PageError(ref.Name, err)
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", ref.Name, err))
		case published:
			result.Published = append(result.Published, ref.Name)
		default:
			p.log.Skipped(ref.Name, "unchanged")
			result.Skipped = append(result.Skipped, ref.Name)
		}
	}

	for name := range p.state.Pages {
		if seen[name] {
			continue
		}
		ps, _ := p.state.Remove(name)
		if ps != nil && ps.Output != "" {
			if err := os.RemoveAll(filepath.Dir(ps.Output)); err != nil {
				p.log.StateError("remove", err)
			}
		}
		result.Removed = append(result.Removed, name)
	}

	result.EndTime = time.Now()
	p.state.LastRunID = result.RunID
	p.state.LastPublished = result.EndTime
	p.log.PublishCompleted(result.RunID, len(result.Published), len(result.Errors), result.EndTime.Sub(result.StartTime))
	return result, nil
}

// PageDir returns the directory a page is published to
func (p *Publisher) PageDir(ref page.Reference) string {
	dir := filepath.Join(p.opts.OutputDir, "pages")
	if p.opts.WikiName != "" {
		dir = filepath.Join(dir, p.opts.WikiName)
	}
	return filepath.Join(dir, ref.Name)
}

// Pending reports which pages the next run would write and which it would
// remove, without touching the output directory.
func (p *Publisher) Pending() (changed, removed []string, err error) {
	refs, err := p.renderer.Store().List()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list pages: %w", err)
	}

	sidebar := p.sidebar()
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		seen[ref.Name] = true
		_, buf, err := p.renderPage(ref, sidebar)
		if err != nil || p.state.HasChanged(ref.Name, ComputeHash(buf)) {
			changed = append(changed, ref.Name)
		}
	}
	for name := range p.state.Pages {
		if !seen[name] {
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)
	return changed, removed, nil
}

// renderPage renders the head revision of a page into the page layout
func (p *Publisher) renderPage(ref page.Reference, sidebar template.HTML) (page.Info, []byte, error) {
	info, err := p.renderer.Store().Get(ref, page.HeadRevision)
	if err != nil {
		return page.Info{}, nil, err
	}

	rendered := p.renderer.Render(info, nil)
	var buf bytes.Buffer
	err = layout.Execute(&buf, layoutData{
		Title:   info.Name,
		Content: template.HTML(rendered.Content),
		Sidebar: sidebar,
	})
	if err != nil {
		return page.Info{}, nil, fmt.Errorf("failed to execute layout: %w", err)
	}
	return info, buf.Bytes(), nil
}

func (p *Publisher) publishPage(ref page.Reference, sidebar template.HTML, runID string) (bool, error) {
	info, data, err := p.renderPage(ref, sidebar)
	if err != nil {
		return false, err
	}

	dir := p.PageDir(ref)
	output := filepath.Join(dir, "index.html")
	hash := ComputeHash(data)
	if !p.state.HasChanged(ref.Name, hash) {
		return false, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create page directory: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return false, fmt.Errorf("failed to write page: %w", err)
	}
	if err := p.copyAttachments(ref, dir); err != nil {
		return false, err
	}

	p.state.Update(ref.Name, &PageState{
		Revision: info.Revision,
		Hash:     hash,
		Output:   output,
		RunID:    runID,
	})
	p.log.PagePublished(ref.Name, output)
	return true, nil
}

func (p *Publisher) copyAttachments(ref page.Reference, dir string) error {
	if p.opts.Attachments == nil {
		return nil
	}
	names, err := p.opts.Attachments.Attachments(ref)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	attachDir := filepath.Join(dir, "attachments")
	if err := os.MkdirAll(attachDir, 0755); err != nil {
		return fmt.Errorf("failed to create attachments directory: %w", err)
	}
	for _, name := range names {
		if err := p.copyAttachment(ref, name, filepath.Join(attachDir, name)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) copyAttachment(ref page.Reference, name, dest string) error {
	src, err := p.opts.Attachments.OpenAttachment(ref, name)
	if err != nil {
		return err
	}
	defer src.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to copy attachment %s: %w", name, err)
	}
	return f.Close()
}

// sidebar renders the ConfigSideBar page, if there is one
func (p *Publisher) sidebar() template.HTML {
	info, err := p.renderer.Store().Get(page.Ref(store.ConfigSideBar), page.HeadRevision)
	if err != nil {
		return ""
	}
	return template.HTML(p.renderer.Render(info, nil).Content)
}
