// Package discover finds documentable source files in a project.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-enry/go-enry/v2"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/minidoc/internal/lang"
	"github.com/phobologic/minidoc/internal/logging"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to the project root, slash separated
	Language string
}

// Options selects which files are returned. Include and Exclude are matched
// against the slash-separated relative path.
type Options struct {
	Include   *regexp.Regexp
	Exclude   *regexp.Regexp
	SkipTests bool
}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"build":        {},
	"dist":         {},
	"coverage":     {},
	".next":        {},
	".turbo":       {},
	".cache":       {},
}

// Files discovers documentable source files under root, sorted by path.
func Files(root string, opts Options) ([]FileEntry, error) {
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
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

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		slashRel := filepath.ToSlash(rel)

		if gitFiles != nil {
			if _, ok := gitFiles[slashRel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		if enry.IsVendor(slashRel) {
			return nil
		}

		langName := lang.ForExtension(filepath.Ext(name))
		if langName == "" {
			return nil
		}

		if opts.SkipTests && IsTestFile(slashRel) {
			return nil
		}

		if opts.Include != nil && !opts.Include.MatchString(slashRel) {
			return nil
		}
		if opts.Exclude != nil && opts.Exclude.MatchString(slashRel) {
			return nil
		}

		results = append(results, FileEntry{Path: slashRel, Language: langName})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

var testDirs = map[string]struct{}{
	"__tests__": {},
	"__mocks__": {},
	"test":      {},
	"tests":     {},
	"spec":      {},
	"e2e":       {},
}

var testFileRe = regexp.MustCompile(`\.(test|spec)\.[cm]?[jt]sx?$`)

// IsTestFile reports whether a slash-separated path looks like a test file.
func IsTestFile(path string) bool {
	parts := strings.Split(path, "/")
	for _, dir := range parts[:len(parts)-1] {
		if _, ok := testDirs[dir]; ok {
			return true
		}
	}
	return testFileRe.MatchString(parts[len(parts)-1])
}

// FilterBySize drops files larger than maxSize bytes, logging a warning for
// each. A maxSize <= 0 keeps everything.
func FilterBySize(root string, files []FileEntry, maxSize int64, logger *log.Logger) []FileEntry {
	if maxSize <= 0 {
		return files
	}
	var kept []FileEntry
	for _, f := range files {
		fi, err := os.Stat(filepath.Join(root, filepath.FromSlash(f.Path)))
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > maxSize {
			logger.Warn("skipped file", logging.FieldPath, f.Path, logging.FieldReason, "too large", logging.FieldSize, fi.Size())
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
