package discover

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func mustWrite(t *testing.T, root string, rel string, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll error: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func TestFiles_SingleFile(t *testing.T) {
	dir := t.TempDir()
	f := mustWrite(t, dir, "a.go", "package a\n")

	got, err := Files([]string{f})
	if err != nil {
		t.Fatalf("Files error: %v", err)
	}
	if len(got) != 1 || got[0] != f {
		t.Errorf("Files = %v", got)
	}
}

func TestFiles_WalksDirectories(t *testing.T) {
	dir := t.TempDir()
	a := mustWrite(t, dir, "a.go", "x")
	b := mustWrite(t, dir, "sub/b.ts", "x")
	mustWrite(t, dir, "node_modules/dep/index.js", "x")
	mustWrite(t, dir, "vendor/lib/lib.go", "x")
	mustWrite(t, dir, ".hidden/secret.go", "x")
	mustWrite(t, dir, ".dotfile", "x")

	got, err := Files([]string{dir})
	if err != nil {
		t.Fatalf("Files error: %v", err)
	}

	want := map[string]bool{a: true, b: true}
	if len(got) != len(want) {
		t.Fatalf("Files = %v, want only %v", got, want)
	}
	for _, f := range got {
		if !want[f] {
			t.Errorf("Unexpected file %s", f)
		}
	}
}

func TestFiles_HonorsGitignore(t *testing.T) {
	dir := t.TempDir()
	kept := mustWrite(t, dir, "keep.go", "x")
	mustWrite(t, dir, "generated.pb.go", "x")
	mustWrite(t, dir, "out/bundle.js", "x")
	mustWrite(t, dir, ".gitignore", "*.pb.go\nout/\n")

	got, err := Files([]string{dir})
	if err != nil {
		t.Fatalf("Files error: %v", err)
	}
	if len(got) != 1 || got[0] != kept {
		t.Errorf("Files = %v, want only %s", got, kept)
	}
}

func TestFiles_SortedAndDeduplicated(t *testing.T) {
	dir := t.TempDir()
	b := mustWrite(t, dir, "b.go", "x")
	a := mustWrite(t, dir, "a.go", "x")

	got, err := Files([]string{b, a, b})
	if err != nil {
		t.Fatalf("Files error: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("Files = %v, want sorted dedup [%s %s]", got, a, b)
	}
}

func TestFiles_MissingPath(t *testing.T) {
	if _, err := Files([]string{filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Error("Expected error for a missing path")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func TestChanged(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	runGit(t, dir, "init")
	mustWrite(t, dir, "committed.go", "v1\n")
	mustWrite(t, dir, "deleted.go", "gone\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")

	// One modified, one untracked, one deleted.
	mustWrite(t, dir, "committed.go", "v2\n")
	untracked := mustWrite(t, dir, "new.go", "x\n")
	if err := os.Remove(filepath.Join(dir, "deleted.go")); err != nil {
		t.Fatalf("Remove error: %v", err)
	}

	got, err := Changed(dir)
	if err != nil {
		t.Fatalf("Changed error: %v", err)
	}

	want := map[string]bool{
		filepath.Join(dir, "committed.go"): true,
		untracked:                          true,
	}
	if len(got) != len(want) {
		t.Fatalf("Changed = %v, want %v", got, want)
	}
	for _, f := range got {
		if !want[f] {
			t.Errorf("Unexpected changed file %s", f)
		}
	}
}

func TestChanged_NotARepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	if _, err := Changed(t.TempDir()); err == nil {
		t.Error("Expected error outside a git repository")
	}
}
