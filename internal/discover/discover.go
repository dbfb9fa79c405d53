package discover

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"
)

var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"__pycache__":  {},
	"venv":         {},
	".venv":        {},
}

// Files resolves paths (files or directories) to a sorted, deduplicated list
// of file paths. Directories are walked recursively, skipping dot-prefixed
// and well-known generated directories plus anything the root .gitignore
// excludes.
func Files(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var results []string

	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		results = append(results, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		if err := walkDir(path, add); err != nil {
			return nil, err
		}
	}

	sort.Strings(results)
	return results, nil
}

func walkDir(root string, add func(string)) error {
	gi := loadGitignore(root)

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if gi != nil {
			rel, err := filepath.Rel(root, path)
			if err == nil && gi.MatchesPath(rel) {
				return nil
			}
		}

		add(path)
		return nil
	})
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// Changed returns files modified relative to HEAD plus untracked files,
// for lint-only-what-changed workflows.
func Changed(root string) ([]string, error) {
	changed, err := gitLines(root, "diff", "--name-only", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}
	untracked, err := gitLines(root, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		return nil, fmt.Errorf("listing untracked files: %w", err)
	}

	seen := make(map[string]struct{})
	var results []string
	for _, line := range append(changed, untracked...) {
		if line == "" {
			continue
		}
		path := filepath.Join(root, line)
		if _, ok := seen[path]; ok {
			continue
		}
		// Deleted files still show in the diff.
		if _, err := os.Stat(path); err != nil {
			continue
		}
		seen[path] = struct{}{}
		results = append(results, path)
	}

	sort.Strings(results)
	return results, nil
}

func gitLines(root string, args ...string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(out), "\n"), "\n"), nil
}
