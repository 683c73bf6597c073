package store

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/gerunddev/creolewiki/internal/page"
)

// Memory is a map-backed store. Every Put starts a new revision.
type Memory struct {
	mu          sync.RWMutex
	pages       map[string][]page.Info
	attachments map[string]map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		pages:       make(map[string][]page.Info),
		attachments: make(map[string]map[string][]byte),
	}
}

// Put stores a new revision of a page and returns its number
func (m *Memory) Put(info page.Info) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	revs := m.pages[info.Name]
	info.Revision = int64(len(revs) + 1)
	m.pages[info.Name] = append(revs, info)
	return info.Revision
}

// Attach stores an attachment of a page
func (m *Memory) Attach(ref page.Reference, name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attachments[ref.Name] == nil {
		m.attachments[ref.Name] = make(map[string][]byte)
	}
	m.attachments[ref.Name][name] = data
}

func (m *Memory) List() ([]page.Reference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	refs := make([]page.Reference, 0, len(m.pages))
	for name := range m.pages {
		refs = append(refs, page.Ref(name))
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func (m *Memory) Get(ref page.Reference, revision int64) (page.Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	revs := m.pages[ref.Name]
	switch {
	case len(revs) == 0:
		return page.Info{}, fmt.Errorf("%w: %s", page.ErrNotFound, ref.Name)
	case revision < 0:
		return revs[len(revs)-1], nil
	case revision == 0 || revision > int64(len(revs)):
		return page.Info{}, fmt.Errorf("%w: %s revision %d", page.ErrNotFound, ref.Name, revision)
	}
	return revs[revision-1], nil
}

func (m *Memory) Exists(ref page.Reference) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.pages[ref.Name]) > 0, nil
}

func (m *Memory) AttachmentExists(ref page.Reference, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.attachments[ref.Name][name]
	return ok, nil
}

// Attachments lists the attachment names of a page
func (m *Memory) Attachments(ref page.Reference) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.attachments[ref.Name]))
	for name := range m.attachments[ref.Name] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// OpenAttachment returns the content of an attachment
func (m *Memory) OpenAttachment(ref page.Reference, name string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.attachments[ref.Name][name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", page.ErrNotFound, ref.Name, name)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
