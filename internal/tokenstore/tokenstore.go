// Package tokenstore persists Brandwatch access tokens on disk. The store is
// a flat text file of newline-separated records, one `username<TAB>token`
// pair per line — the format the official API clients share, so a token
// cached by one tool is visible to the others. This is a leaf package with
// no knowledge of the API client.
package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilePerms restricts token files to owner-only read/write.
const FilePerms = 0o600

// DirPerms is used when creating the token file's directory.
const DirPerms = 0o700

// ErrNotFound signals a cache miss: the file is absent, unreadable, or has
// no entry for the requested username. Callers treat it as "fetch a fresh
// token", never as a fatal condition.
var ErrNotFound = errors.New("tokenstore: token not found")

// Load returns the cached token for username, or ErrNotFound on any kind of
// cache miss. Malformed lines are skipped rather than failing the whole file.
func Load(path, username string) (string, error) {
	entries, err := parseFile(path)
	if err != nil {
		return "", ErrNotFound
	}

	tok, ok := entries[username]
	if !ok {
		return "", ErrNotFound
	}

	return tok, nil
}

// Save writes the username/token pair to the store. When the existing file
// is readable, its entries are merged with the new pair and the whole file
// is rewritten; when it is absent or unreadable, only the current pair is
// written and any prior (unreadable) content is discarded. The asymmetry
// matches the behavior of the other API clients sharing this file format.
func Save(path, username, token string) error {
	entries, err := parseFile(path)
	if err != nil {
		entries = map[string]string{}
	}

	entries[username] = token

	return writeFile(path, entries)
}

// parseFile reads the store and returns its well-formed entries. Lines that
// do not split into exactly two tab-separated fields are dropped.
func parseFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]string)

	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			continue
		}

		entries[fields[0]] = fields[1]
	}

	return entries, nil
}

// writeFile rewrites the store wholesale, atomically (temp file in the same
// directory, then rename) with 0600 permissions. Entries are sorted by
// username so rewrites are deterministic.
func writeFile(path string, entries map[string]string) error {
	usernames := make([]string, 0, len(entries))
	for u := range entries {
		usernames = append(usernames, u)
	}

	sort.Strings(usernames)

	var sb strings.Builder
	for i, u := range usernames {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(u)
		sb.WriteByte('\t')
		sb.WriteString(entries[u])
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerms); err != nil {
		return fmt.Errorf("tokenstore: creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*.tmp")
	if err != nil {
		return fmt.Errorf("tokenstore: creating temp file: %w", err)
	}

	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, FilePerms); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: setting permissions: %w", err)
	}

	if _, err := tmp.WriteString(sb.String()); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: writing: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tokenstore: closing: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("tokenstore: renaming: %w", err)
	}

	success = true

	return nil
}
