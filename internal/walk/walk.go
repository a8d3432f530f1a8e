// Package walk enumerates the directories or files under a root.
package walk

import (
	"fmt"
	"path"

	"github.com/danieljhkim/pod/internal/fsops"
	"github.com/danieljhkim/pod/internal/ignore"
)

// Method selects what Walk yields.
type Method int

const (
	// Dirs yields every directory descendant of the root.
	Dirs Method = iota
	// Files yields every non-directory descendant of the root.
	Files
)

func (m Method) String() string {
	switch m {
	case Dirs:
		return "dirs"
	case Files:
		return "files"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Walk returns the paths under root selected by method, relative to root and
// in depth-first order. Entries whose basename is in skip are left out along
// with their whole subtree. The root itself is never yielded.
func Walk(fs fsops.FS, root string, method Method, skip *ignore.Set) ([]string, error) {
	var out []string
	if err := walk(fs, root, "", method, skip, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func walk(fs fsops.FS, root, rel string, method Method, skip *ignore.Set, out *[]string) error {
	dir := path.Join(root, rel)
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if skip != nil && skip.Contains(name) {
			continue
		}
		child := path.Join(rel, name)

		if entry.IsDir() {
			if method == Dirs {
				*out = append(*out, child)
			}
			if err := walk(fs, root, child, method, skip, out); err != nil {
				return err
			}
			continue
		}
		if method == Files {
			*out = append(*out, child)
		}
	}
	return nil
}

// Tree is the enumerated shape of one directory tree.
type Tree struct {
	Dirs  map[string]struct{}
	Files map[string]struct{}
}

// Scan enumerates both directories and files under root.
func Scan(fs fsops.FS, root string, skip *ignore.Set) (*Tree, error) {
	dirs, err := Walk(fs, root, Dirs, skip)
	if err != nil {
		return nil, err
	}
	files, err := Walk(fs, root, Files, skip)
	if err != nil {
		return nil, err
	}
	return &Tree{Dirs: toSet(dirs), Files: toSet(files)}, nil
}

func toSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}
