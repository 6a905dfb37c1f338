// Package gitdiff reads changed-file information from a git checkout by
// shelling out to the git binary.
package gitdiff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNotARepository is returned when no .git marker is found above a path.
var ErrNotARepository = errors.New("not a git repository")

// FileChange describes one changed file.
type FileChange struct {
	Path    string
	Status  string
	Added   int
	Deleted int
}

// Change status words.
const (
	StatusModified  = "modified"
	StatusAdded     = "added"
	StatusDeleted   = "deleted"
	StatusRenamed   = "renamed"
	StatusUntracked = "untracked"
)

// RepoRoot walks up from dir looking for a .git marker.
func RepoRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	current := abs
	for {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrNotARepository
		}
		current = parent
	}
}

// Changes returns the files changed relative to base (HEAD when base is
// empty), including untracked files, sorted by path.
func Changes(ctx context.Context, dir, base string) ([]FileChange, error) {
	root, err := RepoRoot(dir)
	if err != nil {
		return nil, err
	}
	if base == "" {
		base = "HEAD"
	}

	numstat, err := runGit(ctx, root, "diff", "--numstat", base)
	if err != nil {
		return nil, err
	}
	nameStatus, err := runGit(ctx, root, "diff", "--name-status", base)
	if err != nil {
		return nil, err
	}
	porcelain, err := runGit(ctx, root, "status", "--porcelain")
	if err != nil {
		return nil, err
	}

	return buildChanges(numstat, nameStatus, porcelain), nil
}

// FormatChanges renders changes one per line for logs and prompts.
func FormatChanges(changes []FileChange) string {
	var b strings.Builder
	for _, c := range changes {
		fmt.Fprintf(&b, "%s %s (+%d -%d)\n", c.Status, c.Path, c.Added, c.Deleted)
	}
	return strings.TrimRight(b.String(), "\n")
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}

// buildChanges merges the three git outputs: statuses from name-status,
// line counts from numstat, untracked files from porcelain.
func buildChanges(numstat, nameStatus, porcelain string) []FileChange {
	byPath := make(map[string]*FileChange)

	record := func(path string) *FileChange {
		c := byPath[path]
		if c == nil {
			c = &FileChange{Path: path, Status: StatusModified}
			byPath[path] = c
		}
		return c
	}

	for _, line := range splitLines(nameStatus) {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		path := fields[len(fields)-1]
		record(path).Status = statusWord(fields[0])
	}

	for _, line := range splitLines(numstat) {
		fields := strings.Split(line, "\t")
		if len(fields) != 3 {
			continue
		}
		c := record(renameTarget(fields[2]))
		// Binary files report "-" for both counts.
		if added, err := strconv.Atoi(fields[0]); err == nil {
			c.Added = added
		}
		if deleted, err := strconv.Atoi(fields[1]); err == nil {
			c.Deleted = deleted
		}
	}

	for _, line := range splitLines(porcelain) {
		if len(line) < 4 || !strings.HasPrefix(line, "??") {
			continue
		}
		path := strings.TrimSpace(line[2:])
		if _, exists := byPath[path]; !exists {
			byPath[path] = &FileChange{Path: path, Status: StatusUntracked}
		}
	}

	changes := make([]FileChange, 0, len(byPath))
	for _, c := range byPath {
		changes = append(changes, *c)
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// statusWord maps a name-status letter (M, A, D, R100, ...) to a word.
func statusWord(code string) string {
	if code == "" {
		return StatusModified
	}
	switch code[0] {
	case 'A':
		return StatusAdded
	case 'D':
		return StatusDeleted
	case 'R':
		return StatusRenamed
	default:
		return StatusModified
	}
}

// renameTarget resolves numstat rename notation to the new path, handling
// both "old => new" and "dir/{old => new}/file" forms.
func renameTarget(path string) string {
	if i := strings.Index(path, "{"); i >= 0 {
		if j := strings.Index(path, "}"); j > i {
			segment := path[i+1 : j]
			if k := strings.Index(segment, " => "); k >= 0 {
				segment = segment[k+4:]
			}
			resolved := path[:i] + segment + path[j+1:]
			return strings.ReplaceAll(resolved, "//", "/")
		}
	}
	if k := strings.Index(path, " => "); k >= 0 {
		return path[k+4:]
	}
	return path
}
