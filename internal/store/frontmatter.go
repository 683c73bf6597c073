package store

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header a page file may start with
type frontMatter struct {
	Attributes map[string]string   `yaml:"attributes,omitempty"`
	Directives map[string][]string `yaml:"directives,omitempty"`
}

func (fm frontMatter) empty() bool {
	return len(fm.Attributes) == 0 && len(fm.Directives) == 0
}

const fence = "---"

// splitFrontMatter separates a YAML header delimited by "---" lines from
// the page body. Content without a header is returned unchanged.
func splitFrontMatter(content string) (frontMatter, string, error) {
	var fm frontMatter
	if !strings.HasPrefix(content, fence+"\n") {
		return fm, content, nil
	}

	rest := content[len(fence)+1:]
	header, body, found := strings.Cut(rest, "\n"+fence+"\n")
	if !found {
		// a closing fence on the last line with nothing after it
		if !strings.HasSuffix(rest, "\n"+fence) {
			return fm, content, nil
		}
		header, body = strings.TrimSuffix(rest, "\n"+fence), ""
	}

	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return fm, content, fmt.Errorf("failed to parse front matter: %w", err)
	}
	return fm, body, nil
}

// joinFrontMatter writes a YAML header followed by the page body
func joinFrontMatter(fm frontMatter, body string) (string, error) {
	if fm.empty() {
		return body, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode front matter: %w", err)
	}
	return fence + "\n" + buf.String() + fence + "\n" + body, nil
}
