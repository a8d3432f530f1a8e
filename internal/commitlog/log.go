// Package commitlog reads and writes the on-disk commit log.
//
// The log is a directory holding one subdirectory per commit entry, named by
// the decimal nanosecond timestamp at which it was taken. An entry carries up
// to four payloads:
//
//	dirs           "+ <path>" / "- <path>" directory mutations
//	files          "+ <path>" / "- <path>" file summary, informational only
//	removed_files  "<path>" files to delete on replay
//	changes/<hex>  positional byte changes for one path
//
// Names starting with '.' inside the log root are bookkeeping (scratch, lock)
// and are not entries.
package commitlog

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/danieljhkim/pod/internal/delta"
	"github.com/danieljhkim/pod/internal/fsops"
)

// Payload file names inside an entry.
const (
	DirsFile         = "dirs"
	FilesFile        = "files"
	RemovedFilesFile = "removed_files"
	ChangesDir       = "changes"
)

// ErrEntryExists is returned when an entry with the same name already exists.
var ErrEntryExists = errors.New("commit entry already exists")

// Entry identifies one commit entry.
type Entry struct {
	Name string
	Seq  uint64
}

// Time returns the entry's timestamp.
func (e Entry) Time() time.Time {
	return time.Unix(0, int64(e.Seq))
}

// EntryName returns the entry name for a commit taken at t.
func EntryName(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

// ParseEntryName parses an entry name as an unsigned integer.
func ParseEntryName(name string) (Entry, error) {
	seq, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: entry name %q is not an unsigned integer", ErrMalformed, name)
	}
	return Entry{Name: name, Seq: seq}, nil
}

// Payload is the decoded content of one entry.
type Payload struct {
	Dirs         []Mutation
	Files        []Mutation
	RemovedFiles []string
	Changes      map[string][]delta.Change
}

// Empty reports whether the payload carries nothing.
func (p *Payload) Empty() bool {
	return len(p.Dirs) == 0 && len(p.Files) == 0 && len(p.RemovedFiles) == 0 && len(p.Changes) == 0
}

// Log is a commit log rooted at a directory of an FS.
type Log struct {
	fs   fsops.FS
	root string
}

// New returns the log stored under root.
func New(fs fsops.FS, root string) *Log {
	return &Log{fs: fs, root: root}
}

// Entries lists the entries in replay order. A missing log root means no
// entries.
func (l *Log) Entries() ([]Entry, error) {
	exists, err := l.fs.Exists(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to check commit log: %w", err)
	}
	if !exists {
		return nil, nil
	}

	infos, err := l.fs.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), ".") {
			continue
		}
		entry, err := ParseEntryName(info.Name())
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: entry %q is not a directory", ErrMalformed, info.Name())
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Seq < entries[j].Seq
	})
	return entries, nil
}

// Latest returns the last entry, or false if the log is empty.
func (l *Log) Latest() (Entry, bool, error) {
	entries, err := l.Entries()
	if err != nil {
		return Entry{}, false, err
	}
	if len(entries) == 0 {
		return Entry{}, false, nil
	}
	return entries[len(entries)-1], true, nil
}

// Find returns the entry with the given name.
func (l *Log) Find(name string) (Entry, bool, error) {
	entries, err := l.Entries()
	if err != nil {
		return Entry{}, false, err
	}
	for _, e := range entries {
		if e.Name == name {
			return e, true, nil
		}
	}
	return Entry{}, false, nil
}

func (l *Log) entryPath(e Entry, elem ...string) string {
	return path.Join(append([]string{l.root, e.Name}, elem...)...)
}

// Read decodes every payload of an entry. Absent payloads stay empty.
func (l *Log) Read(e Entry) (*Payload, error) {
	p := &Payload{Changes: map[string][]delta.Change{}}

	var err error
	if p.Dirs, err = readLines(l, e, DirsFile, ParseMutations); err != nil {
		return nil, err
	}
	if p.Files, err = readLines(l, e, FilesFile, ParseMutations); err != nil {
		return nil, err
	}
	if p.RemovedFiles, err = readLines(l, e, RemovedFilesFile, ParseRemovedFiles); err != nil {
		return nil, err
	}

	changesDir := l.entryPath(e, ChangesDir)
	exists, err := l.fs.Exists(changesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to check changes of %s: %w", e.Name, err)
	}
	if !exists {
		return p, nil
	}

	infos, err := l.fs.ReadDir(changesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read changes of %s: %w", e.Name, err)
	}
	for _, info := range infos {
		if strings.HasPrefix(info.Name(), ".") {
			continue
		}
		relPath, err := DecodePath(info.Name())
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Name, err)
		}
		data, err := l.fs.ReadFile(path.Join(changesDir, info.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read changes for %s: %w", relPath, err)
		}
		changes, err := ParseChanges(data)
		if err != nil {
			return nil, fmt.Errorf("entry %s, changes for %s: %w", e.Name, relPath, err)
		}
		p.Changes[relPath] = changes
	}
	return p, nil
}

func readLines[T any](l *Log, e Entry, name string, parse func([]byte) ([]T, error)) ([]T, error) {
	data, err := l.fs.ReadFile(l.entryPath(e, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s of %s: %w", name, e.Name, err)
	}
	out, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("entry %s, %s: %w", e.Name, name, err)
	}
	return out, nil
}

// Create makes the directory for a new entry. It fails with ErrEntryExists
// when the name is taken.
func (l *Log) Create(name string) (Entry, error) {
	entry, err := ParseEntryName(name)
	if err != nil {
		return Entry{}, err
	}
	if err := l.fs.MkdirAll(l.root, 0755); err != nil {
		return Entry{}, fmt.Errorf("failed to create commit log: %w", err)
	}
	if err := l.fs.Mkdir(l.entryPath(entry), 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return Entry{}, fmt.Errorf("%w: %s", ErrEntryExists, name)
		}
		return Entry{}, fmt.Errorf("failed to create entry %s: %w", name, err)
	}
	return entry, nil
}

// WritePayload writes the given payload file of an entry.
func (l *Log) WritePayload(e Entry, name string, data []byte) error {
	if err := l.fs.AtomicWrite(l.entryPath(e, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s of %s: %w", name, e.Name, err)
	}
	return nil
}

// WriteChanges writes the changes file for relPath.
func (l *Log) WriteChanges(e Entry, relPath string, changes []delta.Change) error {
	return l.WritePayload(e, path.Join(ChangesDir, EncodePath(relPath)), FormatChanges(changes))
}
