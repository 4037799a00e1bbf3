// Package output writes the generated document to disk.
package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	SentinelStart = "<!-- minidoc:start -->"
	SentinelEnd   = "<!-- minidoc:end -->"
)

const fileMode os.FileMode = 0o644

// Write stores content at path, creating parent directories. With embed set,
// only the sentinel-wrapped section of an existing file is replaced (or the
// section is appended when the file has none). Failing to create the output
// directory is returned as an error and nothing is written.
func Write(ctx context.Context, path string, content []byte, embed bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if embed {
		existing, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		content = []byte(ApplySection(string(existing), Section(string(content))))
	}

	if err := WriteAtomic(ctx, path, content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Section wraps body in the minidoc sentinels.
func Section(body string) string {
	return SentinelStart + "\n" + strings.TrimRight(body, "\n") + "\n" + SentinelEnd
}

// ApplySection inserts section into content, replacing an existing sentinel
// block if present or appending if not.
func ApplySection(content, section string) string {
	start := strings.Index(content, SentinelStart)
	end := strings.Index(content, SentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(SentinelEnd):]
	}

	if content == "" {
		return section + "\n"
	}

	// Append, ensuring a blank line separator.
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}

// WriteAtomic writes content to path using a temp file and rename. On error
// the temp file is removed and any existing file is left untouched.
func WriteAtomic(ctx context.Context, path string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write atomic: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, fileMode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}
