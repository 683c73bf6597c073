package publish

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PageState records what was last published for a page
type PageState struct {
	Revision int64  `json:"revision"`
	Hash     string `json:"hash"`
	Output   string `json:"output"`
	RunID    string `json:"run_id"`
}

// State is the publish state, persisted between runs
type State struct {
	Pages         map[string]*PageState `json:"pages"`
	LastRunID     string                `json:"last_run_id,omitempty"`
	LastPublished time.Time             `json:"last_published,omitempty"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Pages: make(map[string]*PageState),
	}
}

// LoadState reads state from the state file
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}

	if state.Pages == nil {
		state.Pages = make(map[string]*PageState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes the SHA256 hash of published content
func ComputeHash(content []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(content))
}

// HasChanged reports whether a page's output differs from what was last
// published. Output removed from disk counts as changed.
func (s *State) HasChanged(name, hash string) bool {
	ps, exists := s.Pages[name]
	if !exists || ps.Hash != hash {
		return true
	}
	if _, err := os.Stat(ps.Output); err != nil {
		return true
	}
	return false
}

// Update records a published page
func (s *State) Update(name string, ps *PageState) {
	s.Pages[name] = ps
}

// Remove forgets a page and returns what was recorded for it
func (s *State) Remove(name string) (*PageState, bool) {
	ps, ok := s.Pages[name]
	delete(s.Pages, name)
	return ps, ok
}
