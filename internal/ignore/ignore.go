// Package ignore resolves the set of basenames the enumerator skips.
//
// Tokens are exact file names, never globs or paths. The set always contains
// the reserved snapshot and commit log names; the ignore file at the working
// tree root adds one token per line.
package ignore

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/danieljhkim/pod/internal/config"
	"github.com/danieljhkim/pod/internal/fsops"
)

// Set is an immutable set of ignored basenames.
type Set struct {
	names map[string]struct{}
}

// New builds a set from the given tokens.
func New(tokens ...string) *Set {
	s := &Set{names: make(map[string]struct{}, len(tokens))}
	for _, tok := range tokens {
		s.names[tok] = struct{}{}
	}
	return s
}

// Load resolves the ignore set for cfg, reading cfg.IgnoreFile from the root
// of fs. A missing ignore file yields only the reserved names.
func Load(fs fsops.FS, cfg *config.Config) (*Set, error) {
	s := New(cfg.ReservedNames()...)

	exists, err := fs.Exists(cfg.IgnoreFile)
	if err != nil {
		return nil, fmt.Errorf("failed to check ignore file: %w", err)
	}
	if !exists {
		return s, nil
	}

	data, err := fs.ReadFile(cfg.IgnoreFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read ignore file: %w", err)
	}
	for _, tok := range parse(data) {
		s.names[tok] = struct{}{}
	}
	return s, nil
}

// parse returns the trimmed tokens of an ignore file. Blank lines are skipped;
// every other line is a name, including one that starts with '#'.
func parse(data []byte) []string {
	var tokens []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tokens = append(tokens, line)
	}
	return tokens
}

// Contains reports whether name is ignored.
func (s *Set) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Names returns the tokens in sorted order.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
