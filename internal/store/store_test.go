package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/creolewiki/internal/page"
)

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantBody string
		wantAttr map[string]string
		wantDir  map[string][]string
		wantErr  bool
	}{
		{
			name:     "no front matter",
			content:  "= Title\n",
			wantBody: "= Title\n",
		},
		{
			name:     "attributes and directives",
			content:  "---\nattributes:\n  status: draft\ndirectives:\n  table-alignment: [middle]\n---\nbody\n",
			wantBody: "body\n",
			wantAttr: map[string]string{"status": "draft"},
			wantDir:  map[string][]string{"table-alignment": {"middle"}},
		},
		{
			name:     "header only",
			content:  "---\nattributes:\n  a: b\n---",
			wantBody: "",
			wantAttr: map[string]string{"a": "b"},
		},
		{
			name:     "unterminated header is content",
			content:  "---\nnot yaml\n",
			wantBody: "---\nnot yaml\n",
		},
		{
			name:    "invalid yaml",
			content: "---\nattributes: [\n---\nbody",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := splitFrontMatter(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, body)
			assert.Equal(t, tt.wantAttr, fm.Attributes)
			assert.Equal(t, tt.wantDir, fm.Directives)
		})
	}
}

func TestFS(t *testing.T) {
	dir := t.TempDir()
	s := NewFS(dir)

	info := page.Info{
		Reference:  page.Ref("FrontPage"),
		Content:    "hello\n",
		Attributes: map[string]string{"owner": "docs"},
	}
	require.NoError(t, s.Put(info))
	require.NoError(t, s.Put(page.Info{Reference: page.Ref("Another"), Content: "x"}))
	require.NoError(t, s.Attach(page.Ref("FrontPage"), "logo.png", []byte("png")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	refs, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []page.Reference{page.Ref("Another"), page.Ref("FrontPage")}, refs)

	got, err := s.Get(page.Ref("FrontPage"), page.HeadRevision)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", got.Content)
	assert.Equal(t, "docs", got.Attributes["owner"])
	assert.Positive(t, got.Revision)

	_, err = s.Get(page.Ref("FrontPage"), got.Revision+1)
	assert.ErrorIs(t, err, page.ErrNotFound)
	_, err = s.Get(page.Ref("Missing"), page.HeadRevision)
	assert.ErrorIs(t, err, page.ErrNotFound)

	ok, err := s.Exists(page.Ref("Another"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.AttachmentExists(page.Ref("FrontPage"), "logo.png")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.AttachmentExists(page.Ref("FrontPage"), "../Another.creole")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := s.Attachments(page.Ref("FrontPage"))
	require.NoError(t, err)
	assert.Equal(t, []string{"logo.png"}, names)

	assert.Error(t, s.Put(page.Info{Reference: page.Ref("../escape")}))
}

func TestFSCarriageReturns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Win.creole"), []byte("---\r\nattributes:\r\n  a: b\r\n---\r\nline\r\n"), 0644))

	got, err := NewFS(dir).Get(page.Ref("Win"), page.HeadRevision)
	require.NoError(t, err)
	assert.Equal(t, "line\n", got.Content)
	assert.Equal(t, "b", got.Attributes["a"])
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, int64(1), m.Put(page.Info{Reference: page.Ref("A"), Content: "one"}))
	assert.Equal(t, int64(2), m.Put(page.Info{Reference: page.Ref("A"), Content: "two"}))
	m.Attach(page.Ref("A"), "f.txt", []byte("f"))

	head, err := m.Get(page.Ref("A"), page.HeadRevision)
	require.NoError(t, err)
	assert.Equal(t, "two", head.Content)

	first, err := m.Get(page.Ref("A"), 1)
	require.NoError(t, err)
	assert.Equal(t, "one", first.Content)

	_, err = m.Get(page.Ref("A"), 3)
	assert.ErrorIs(t, err, page.ErrNotFound)

	ok, _ := m.AttachmentExists(page.Ref("A"), "f.txt")
	assert.True(t, ok)
	ok, _ = m.AttachmentExists(page.Ref("B"), "f.txt")
	assert.False(t, ok)
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "wiki.db"))
	require.NoError(t, err)
	defer s.Close()

	rev, err := s.Put(ctx, page.Info{Reference: page.Ref("Home"), Content: "v1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	rev, err = s.Put(ctx, page.Info{
		Reference:  page.Ref("Home"),
		Content:    "v2",
		Attributes: map[string]string{"status": "final"},
		Directives: map[string][]string{"table-alignment": {"top"}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
	require.NoError(t, s.Attach(ctx, page.Ref("Home"), "a.png", []byte{1, 2}))

	head, err := s.Get(page.Ref("Home"), page.HeadRevision)
	require.NoError(t, err)
	assert.Equal(t, "v2", head.Content)
	assert.Equal(t, int64(2), head.Revision)
	assert.Equal(t, "final", head.Attributes["status"])
	assert.Equal(t, []string{"top"}, head.Directives["table-alignment"])

	old, err := s.Get(page.Ref("Home"), 1)
	require.NoError(t, err)
	assert.Equal(t, "v1", old.Content)

	_, err = s.Get(page.Ref("Nope"), page.HeadRevision)
	assert.True(t, errors.Is(err, page.ErrNotFound))

	refs, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []page.Reference{page.Ref("Home")}, refs)

	ok, err := s.AttachmentExists(page.Ref("Home"), "a.png")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Exists(page.Ref("Nope"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteInMemory(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Put(context.Background(), page.Info{Reference: page.Ref("A"), Content: "a"})
	require.NoError(t, err)
	ok, err := s.Exists(page.Ref("A"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSpecialPages(t *testing.T) {
	m := NewMemory()
	m.Put(page.Info{Reference: page.Ref("ConfigSideBar"), Content: "custom"})
	s := WithSpecialPages(m, nil)

	front, err := s.Get(page.Ref(FrontPage), page.HeadRevision)
	require.NoError(t, err)
	assert.Equal(t, DefaultSpecialPages[FrontPage], front.Content)

	side, err := s.Get(page.Ref(ConfigSideBar), page.HeadRevision)
	require.NoError(t, err)
	assert.Equal(t, "custom", side.Content)

	_, err = s.Get(page.Ref("Other"), page.HeadRevision)
	assert.ErrorIs(t, err, page.ErrNotFound)

	ok, err := s.Exists(page.Ref(ConfigInterWikiLinks))
	require.NoError(t, err)
	assert.True(t, ok)

	refs, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []page.Reference{
		page.Ref(ConfigInterWikiLinks), page.Ref(ConfigSideBar), page.Ref(FrontPage),
	}, refs)
}
