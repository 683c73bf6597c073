// Package store provides page stores: plain files, memory and SQLite.
package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gerunddev/creolewiki/internal/creole/parser"
	"github.com/gerunddev/creolewiki/internal/page"
)

// Extension is the file extension of page files
const Extension = ".creole"

// FS stores each page as <dir>/<Name>.creole, optionally starting with a
// YAML front matter header. Attachments live in <dir>/attachments/<Name>/.
// A page has a single revision: its modification time in seconds.
type FS struct {
	dir string
}

func NewFS(dir string) *FS {
	return &FS{dir: dir}
}

// Dir returns the root directory of the store
func (s *FS) Dir() string {
	return s.dir
}

func (s *FS) pagePath(ref page.Reference) (string, error) {
	if ref.IsZero() || strings.ContainsAny(ref.Name, `/\`) || strings.HasPrefix(ref.Name, ".") {
		return "", fmt.Errorf("invalid page name %q", ref.Name)
	}
	return filepath.Join(s.dir, ref.Name+Extension), nil
}

// AttachmentPath returns where an attachment of a page is stored
func (s *FS) AttachmentPath(ref page.Reference, name string) (string, error) {
	if _, err := s.pagePath(ref); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid attachment name %q", name)
	}
	return filepath.Join(s.dir, "attachments", ref.Name, name), nil
}

func (s *FS) List() ([]page.Reference, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages directory: %w", err)
	}

	var refs []page.Reference
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Extension) || strings.HasPrefix(name, ".") {
			continue
		}
		refs = append(refs, page.Ref(strings.TrimSuffix(name, Extension)))
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func (s *FS) Get(ref page.Reference, revision int64) (page.Info, error) {
	path, err := s.pagePath(ref)
	if err != nil {
		return page.Info{}, err
	}

	stat, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return page.Info{}, fmt.Errorf("%w: %s", page.ErrNotFound, ref.Name)
	}
	if err != nil {
		return page.Info{}, fmt.Errorf("failed to stat page: %w", err)
	}
	current := stat.ModTime().Unix()
	if revision >= 0 && revision != current {
		return page.Info{}, fmt.Errorf("%w: %s revision %d", page.ErrNotFound, ref.Name, revision)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return page.Info{}, fmt.Errorf("failed to read page: %w", err)
	}
	fm, body, err := splitFrontMatter(parser.NormalizeNewlines(string(data)))
	if err != nil {
		return page.Info{}, fmt.Errorf("%s: %w", ref.Name, err)
	}

	return page.Info{
		Reference:  ref,
		Content:    body,
		Revision:   current,
		Attributes: fm.Attributes,
		Directives: fm.Directives,
	}, nil
}

func (s *FS) Exists(ref page.Reference) (bool, error) {
	path, err := s.pagePath(ref)
	if err != nil {
		return false, nil
	}
	return exists(path)
}

func (s *FS) AttachmentExists(ref page.Reference, name string) (bool, error) {
	path, err := s.AttachmentPath(ref, name)
	if err != nil {
		return false, nil
	}
	return exists(path)
}

// Attachments lists the attachment names of a page
func (s *FS) Attachments(ref page.Reference) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, "attachments", ref.Name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read attachments: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// OpenAttachment opens an attachment of a page for reading
func (s *FS) OpenAttachment(ref page.Reference, name string) (io.ReadCloser, error) {
	path, err := s.AttachmentPath(ref, name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s/%s", page.ErrNotFound, ref.Name, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	return f, nil
}

// Put writes a page, creating the directory if needed
func (s *FS) Put(info page.Info) error {
	path, err := s.pagePath(info.Reference)
	if err != nil {
		return err
	}
	content, err := joinFrontMatter(frontMatter{Attributes: info.Attributes, Directives: info.Directives}, info.Content)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create pages directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

// Attach writes an attachment of a page
func (s *FS) Attach(ref page.Reference, name string, data []byte) error {
	path, err := s.AttachmentPath(ref, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create attachments directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write attachment: %w", err)
	}
	return nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
