package gitdiff

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildChanges(t *testing.T) {
	numstat := "12\t3\tinternal/db/db.go\n" +
		"40\t0\tcmd/app/main.go\n" +
		"-\t-\tassets/logo.png\n"
	nameStatus := "M\tinternal/db/db.go\n" +
		"A\tcmd/app/main.go\n" +
		"M\tassets/logo.png\n"
	porcelain := " M internal/db/db.go\n" +
		"?? notes.md\n"

	changes := buildChanges(numstat, nameStatus, porcelain)

	want := []FileChange{
		{Path: "assets/logo.png", Status: StatusModified},
		{Path: "cmd/app/main.go", Status: StatusAdded, Added: 40},
		{Path: "internal/db/db.go", Status: StatusModified, Added: 12, Deleted: 3},
		{Path: "notes.md", Status: StatusUntracked},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildChangesRename(t *testing.T) {
	numstat := "5\t2\tinternal/{store => db}/repo.go\n"
	nameStatus := "R095\tinternal/store/repo.go\tinternal/db/repo.go\n"

	changes := buildChanges(numstat, nameStatus, "")

	want := []FileChange{
		{Path: "internal/db/repo.go", Status: StatusRenamed, Added: 5, Deleted: 2},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildChangesEmpty(t *testing.T) {
	if changes := buildChanges("", "", ""); len(changes) != 0 {
		t.Errorf("expected no changes, got %+v", changes)
	}
}

func TestStatusWord(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"M", StatusModified},
		{"A", StatusAdded},
		{"D", StatusDeleted},
		{"R100", StatusRenamed},
		{"T", StatusModified},
		{"", StatusModified},
	}

	for _, tt := range tests {
		if got := statusWord(tt.code); got != tt.want {
			t.Errorf("statusWord(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestRenameTarget(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"plain.go", "plain.go"},
		{"old.go => new.go", "new.go"},
		{"internal/{store => db}/repo.go", "internal/db/repo.go"},
		{"internal/{old => }/file.go", "internal/file.go"},
	}

	for _, tt := range tests {
		if got := renameTarget(tt.path); got != tt.want {
			t.Errorf("renameTarget(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestFormatChanges(t *testing.T) {
	changes := []FileChange{
		{Path: "a.go", Status: StatusModified, Added: 10, Deleted: 2},
		{Path: "b.md", Status: StatusUntracked},
	}

	got := FormatChanges(changes)
	want := "modified a.go (+10 -2)\nuntracked b.md (+0 -0)"
	if got != want {
		t.Errorf("FormatChanges = %q, want %q", got, want)
	}
}

func TestRepoRoot(t *testing.T) {
	repo := t.TempDir()
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatalf("create .git dir: %v", err)
	}
	subdir := filepath.Join(repo, "src", "deep")
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		t.Fatalf("create subdir: %v", err)
	}

	root, err := RepoRoot(subdir)
	if err != nil {
		t.Fatalf("RepoRoot returned error: %v", err)
	}
	if root != repo {
		t.Errorf("expected root %q, got %q", repo, root)
	}
}

func TestChangesNotARepository(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plain")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create dir: %v", err)
	}

	_, err := Changes(context.Background(), dir, "")
	if !errors.Is(err, ErrNotARepository) {
		t.Fatalf("expected ErrNotARepository, got %v", err)
	}
}
