// Package registry maintains the local model catalog: GGUF files found in
// the configured models directory.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"queryd/pkg/types"
)

var quantRe = regexp.MustCompile(`(?i)\b(Q\d+(?:_[A-Z0-9]+)*|F16|F32)\b`)

// Scan walks dir (non-recursively) for *.gguf files and builds the catalog.
// The ID is the filename without extension; Quant is parsed from the name
// when recognizable.
func Scan(dir string) ([]types.Model, error) {
	abs, err := Expand(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read models dir: %w", err)
	}
	var models []types.Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		m := types.Model{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			Name: name,
			Path: filepath.Join(abs, name),
		}
		if q := quantRe.FindString(name); q != "" {
			m.Quant = strings.ToUpper(q)
		}
		if fi, err := e.Info(); err == nil {
			m.SizeBytes = fi.Size()
		}
		models = append(models, m)
	}
	return models, nil
}

// Find matches a requested model id against the catalog. Accepted forms,
// checked in order: exact ID, exact filename, then a case-insensitive
// match of the ID against the request (with any Hub org prefix like
// "meta-llama/" stripped), ignoring a trailing quant suffix.
func Find(models []types.Model, id string) (types.Model, bool) {
	want := strings.TrimSpace(id)
	if want == "" {
		return types.Model{}, false
	}
	for _, m := range models {
		if m.ID == want || m.Name == want {
			return m, true
		}
	}
	base := strings.ToLower(want)
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	for _, m := range models {
		lid := strings.ToLower(m.ID)
		if lid == base {
			return m, true
		}
		// "meta-llama-3-8b-instruct.Q4_K_M" matches "Meta-Llama-3-8B-Instruct"
		if strings.HasPrefix(lid, base+".") || strings.HasPrefix(lid, base+"-") {
			return m, true
		}
	}
	return types.Model{}, false
}

// Expand resolves a leading '~' to the user's home directory and returns
// an absolute path.
func Expand(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty models dir")
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	return abs, nil
}
