package macro

import (
	"bytes"
	"compress/flate"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gerunddev/creolewiki/internal/page"
)

type listStore struct {
	refs []page.Reference
	err  error
}

func (s listStore) List() ([]page.Reference, error) { return s.refs, s.err }
func (s listStore) Get(page.Reference, int64) (page.Info, error) {
	return page.Info{}, page.ErrNotFound
}
func (s listStore) Exists(page.Reference) (bool, error)                   { return false, nil }
func (s listStore) AttachmentExists(page.Reference, string) (bool, error) { return false, nil }

func TestRegistry(t *testing.T) {
	first := New("a", Wiki, func(page.Info, string) (string, error) { return "first", nil })
	second := New("a", Preformatted, func(page.Info, string) (string, error) { return "second", nil })
	r := NewRegistry(first, New("b", Wiki, nil), second)

	m, ok := r.Lookup("a")
	if !ok {
		t.Fatal("expected macro a")
	}
	if m.ResultFormat() != Preformatted {
		t.Errorf("later registration should win, got format %s", m.ResultFormat())
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("unexpected macro for missing name")
	}
	if got := strings.Join(r.Names(), ","); got != "a,b" {
		t.Errorf("Names() = %s, want a,b", got)
	}

	var empty *Registry
	if _, ok := empty.Lookup("a"); ok {
		t.Error("nil registry should have no macros")
	}
	if len(empty.All()) != 0 {
		t.Error("nil registry should list no macros")
	}
}

func decode64(t *testing.T, s string) []byte {
	t.Helper()
	var out []byte
	for i := 0; i+4 <= len(s); i += 4 {
		var v [4]byte
		for j := 0; j < 4; j++ {
			idx := strings.IndexByte(plantUMLAlphabet, s[i+j])
			if idx < 0 {
				t.Fatalf("character %q not in alphabet", s[i+j])
			}
			v[j] = byte(idx)
		}
		out = append(out, v[0]<<2|v[1]>>4, v[1]<<4|v[2]>>2, v[2]<<6|v[3])
	}
	return out
}

func TestEncode64(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{[]byte{0, 0, 0}, "0000"},
		{[]byte{0xff, 0xff, 0xff}, "____"},
		{[]byte{0x01}, "0G00"},
		{[]byte{0x01, 0x02, 0x03, 0x04}, "0G831000"},
	}
	for _, tt := range tests {
		if got := encode64(tt.input); got != tt.want {
			t.Errorf("encode64(%v) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestPlantUMLRoundTrip(t *testing.T) {
	diagram := "@startuml\nAlice -> Bob: hello\n@enduml"
	out, err := PlantUML().Handle(page.Info{}, diagram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "{{"+PlantUMLServer) || !strings.HasSuffix(out, "}}") {
		t.Fatalf("unexpected output %q", out)
	}

	slug := strings.TrimSuffix(strings.TrimPrefix(out, "{{"+PlantUMLServer), "}}")
	// padding bytes after the deflate stream are ignored by the reader
	r := flate.NewReader(bytes.NewReader(decode64(t, slug)))
	text, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to inflate slug: %v", err)
	}
	if string(text) != diagram {
		t.Errorf("round trip = %q, want %q", text, diagram)
	}
}

func TestAttr(t *testing.T) {
	p := page.Info{Reference: page.Ref("Home"), Attributes: map[string]string{"status": "draft <1>"}}

	got, err := Attr().Handle(p, " status ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "draft <1>" {
		t.Errorf("got %q", got)
	}
	if _, err := Attr().Handle(p, "owner"); err == nil {
		t.Error("expected error for missing attribute")
	}
	if _, err := Attr().Handle(p, ""); err == nil {
		t.Error("expected error for empty argument")
	}
}

func TestPages(t *testing.T) {
	store := listStore{refs: []page.Reference{page.Ref("HowToB"), page.Ref("FrontPage"), page.Ref("HowToA")}}

	tests := []struct {
		name string
		args string
		want string
	}{
		{"all pages", "", "* [[FrontPage]]\n* [[HowToA]]\n* [[HowToB]]\n"},
		{"prefix", "HowTo", "* [[HowToA]]\n* [[HowToB]]\n"},
		{"star", " * ", "* [[FrontPage]]\n* [[HowToA]]\n* [[HowToB]]\n"},
		{"prefix star", "HowTo*", "* [[HowToA]]\n* [[HowToB]]\n"},
		{"no match", "Zzz", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pages(store).Handle(page.Info{}, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	failing := listStore{err: errors.New("disk gone")}
	if _, err := Pages(failing).Handle(page.Info{}, ""); err == nil {
		t.Error("expected list error to propagate")
	}
	if _, err := Pages(nil).Handle(page.Info{}, ""); err == nil {
		t.Error("expected error without a store")
	}
}
