package core

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// This file implements the vault scanner (§4.1). The scanner owns
// directory traversal; it never delegates file reads anywhere but to
// os.ReadFile, and hands each file's content straight to ParseFile.

// ScanVault walks root depth-first, children sorted by name, and returns the
// resulting Vault node. The only fatal error is an unreadable root; failures
// reading individual files are reported through warn (nil means discard)
// and the file is skipped.
func ScanVault(root string, cfg Config, now time.Time, warn func(path string, err error)) (VaultNode, error) {
	if warn == nil {
		warn = func(string, error) {}
	}
	if _, err := os.Stat(root); err != nil {
		return VaultNode{}, err
	}
	content, err := scanDir(root, cfg, now, warn)
	if err != nil {
		return VaultNode{}, err
	}
	return VaultNode{Kind: NodeVault, Name: filepath.Base(root), Path: root, Content: content}, nil
}

// ScanVaults scans every configured root and returns them in order. A root
// that cannot be read is logged via warn and omitted, matching the scanner's
// per-file failure policy extended to whole roots at this outer layer. The
// returned error is always nil; an empty VaultPaths list yields no vaults.
func ScanVaults(cfg Config, now time.Time, warn func(path string, err error)) (Vaults, error) {
	if warn == nil {
		warn = func(string, error) {}
	}
	var out Vaults
	for _, root := range cfg.VaultPaths {
		v, err := ScanVault(root, cfg, now, warn)
		if err != nil {
			warn(root, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func scanDir(dir string, cfg Config, now time.Time, warn func(string, error)) ([]VaultNode, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var out []VaultNode
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if isIgnored(path, cfg.Ignored) {
			continue
		}
		if !cfg.ParseDotFiles && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if entry.IsDir() {
			children, err := scanDir(path, cfg, now, warn)
			if err != nil {
				warn(path, err)
				continue
			}
			if len(children) == 0 {
				continue
			}
			out = append(out, VaultNode{Kind: NodeDirectory, Name: entry.Name(), Path: path, Content: children})
			continue
		}
		if !isMarkdownFile(entry) {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			warn(path, err)
			continue
		}
		content := decodeUTF8Lenient(raw)
		fileEntries := ParseFile(content, path, cfg, now)
		out = append(out, VaultNode{Kind: NodeFile, Name: entry.Name(), Path: path, Entries: fileEntries})
	}
	return out, nil
}

func isIgnored(path string, ignored []string) bool {
	for _, ig := range ignored {
		if ig == path {
			return true
		}
	}
	return false
}

func isMarkdownFile(entry fs.DirEntry) bool {
	if entry.IsDir() {
		return false
	}
	return strings.EqualFold(filepath.Ext(entry.Name()), ".md")
}

// decodeUTF8Lenient returns raw as a string if it's valid UTF-8, or "" (an
// empty file body, never an error) otherwise, per §4.1 item 5.
func decodeUTF8Lenient(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return ""
}
