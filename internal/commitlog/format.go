package commitlog

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/danieljhkim/pod/internal/delta"
	"github.com/danieljhkim/pod/internal/fsops"
)

// ErrMalformed is returned for any payload line or name this package did not
// write.
var ErrMalformed = errors.New("malformed commit entry")

// MutationOp is the prefix of a dirs or files line.
type MutationOp byte

const (
	OpAdd    MutationOp = '+'
	OpRemove MutationOp = '-'
)

// Mutation is one line of a dirs or files payload.
type Mutation struct {
	Op   MutationOp
	Path string
}

func (m Mutation) String() string {
	return string(m.Op) + " " + m.Path
}

// FormatMutations renders removals first, then additions, one "<op> <path>"
// per line. Callers pass sorted slices so parents precede children.
func FormatMutations(removed, added []string) []byte {
	var buf bytes.Buffer
	for _, p := range removed {
		fmt.Fprintf(&buf, "- %s\n", p)
	}
	for _, p := range added {
		fmt.Fprintf(&buf, "+ %s\n", p)
	}
	return buf.Bytes()
}

// ParseMutations parses a dirs or files payload.
func ParseMutations(data []byte) ([]Mutation, error) {
	var out []Mutation
	err := eachLine(data, func(n int, line string) error {
		op, p, ok := strings.Cut(line, " ")
		if !ok {
			return malformed(n, "missing separator in %q", line)
		}
		switch op {
		case "+", "-":
		default:
			return malformed(n, "unknown operation %q", op)
		}
		if err := fsops.ValidateRelPath(p); err != nil {
			return malformed(n, "%v", err)
		}
		out = append(out, Mutation{Op: MutationOp(op[0]), Path: p})
		return nil
	})
	return out, err
}

// FormatRemovedFiles renders one path per line, no prefix.
func FormatRemovedFiles(paths []string) []byte {
	var buf bytes.Buffer
	for _, p := range paths {
		buf.WriteString(p)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ParseRemovedFiles parses a removed_files payload.
func ParseRemovedFiles(data []byte) ([]string, error) {
	var out []string
	err := eachLine(data, func(n int, line string) error {
		if err := fsops.ValidateRelPath(line); err != nil {
			return malformed(n, "%v", err)
		}
		out = append(out, line)
		return nil
	})
	return out, err
}

// FormatChanges renders a change list: "{index} {byte}" for updates and
// "- {index}" for deletes.
func FormatChanges(changes []delta.Change) []byte {
	var buf bytes.Buffer
	for _, c := range changes {
		switch c.Kind {
		case delta.Delete:
			fmt.Fprintf(&buf, "- %d\n", c.Index)
		default:
			fmt.Fprintf(&buf, "%d %d\n", c.Index, c.Value)
		}
	}
	return buf.Bytes()
}

// ParseChanges parses a changes file body.
func ParseChanges(data []byte) ([]delta.Change, error) {
	var out []delta.Change
	err := eachLine(data, func(n int, line string) error {
		op, rest, ok := strings.Cut(line, " ")
		if !ok {
			return malformed(n, "missing separator in %q", line)
		}

		if op == "-" {
			index, err := strconv.ParseUint(rest, 10, strconv.IntSize-1)
			if err != nil {
				return malformed(n, "bad delete index %q", rest)
			}
			out = append(out, delta.DeleteAt(int(index)))
			return nil
		}

		index, err := strconv.ParseUint(op, 10, strconv.IntSize-1)
		if err != nil {
			return malformed(n, "bad update index %q", op)
		}
		value, err := strconv.ParseUint(rest, 10, 8)
		if err != nil {
			return malformed(n, "bad byte value %q", rest)
		}
		out = append(out, delta.UpdateAt(int(index), byte(value)))
		return nil
	})
	return out, err
}

// EncodePath returns the changes file name for a relative path.
func EncodePath(relPath string) string {
	return hex.EncodeToString([]byte(relPath))
}

// DecodePath reverses EncodePath and validates the result.
func DecodePath(name string) (string, error) {
	raw, err := hex.DecodeString(name)
	if err != nil {
		return "", fmt.Errorf("%w: changes file %q is not hex: %v", ErrMalformed, name, err)
	}
	p := string(raw)
	if err := fsops.ValidateRelPath(p); err != nil {
		return "", fmt.Errorf("%w: changes file %q: %v", ErrMalformed, name, err)
	}
	return p, nil
}

// eachLine calls fn for every '\n' terminated line of data. A '\r' before
// the newline is part of the line, since it may belong to a file name.
func eachLine(data []byte, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	sc.Split(scanLF)
	n := 0
	for sc.Scan() {
		n++
		if err := fn(n, sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// scanLF is bufio.ScanLines without the carriage return handling.
func scanLF(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func malformed(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, line, fmt.Sprintf(format, args...))
}
