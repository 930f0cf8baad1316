package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileProvider loads secrets from individual files in a directory, the
// layout Kubernetes uses when a Secret is mounted as a volume.
//
// A secret named "JIRA_PERSONAL_TOKEN" is read from <BasePath>/JIRA_PERSONAL_TOKEN,
// falling back to <BasePath>/jira-personal-token. Files that are group or
// world writable are rejected.
type FileProvider struct {
	BasePath string // Directory containing secret files

	mu    sync.RWMutex
	cache map[string]string
}

// NewFileProvider creates a new file-based secret provider.
func NewFileProvider(basePath string) (*FileProvider, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("base path is not a directory: %s", basePath)
	}

	return &FileProvider{
		BasePath: basePath,
		cache:    make(map[string]string),
	}, nil
}

// GetSecret retrieves a secret from a file. Surrounding whitespace,
// including the trailing newline most editors add, is trimmed.
func (p *FileProvider) GetSecret(_ context.Context, name string) (string, error) {
	p.mu.RLock()
	if value, ok := p.cache[name]; ok {
		p.mu.RUnlock()
		return value, nil
	}
	p.mu.RUnlock()

	var value string
	var err error
	for _, candidate := range fileNames(name) {
		value, err = p.readFile(candidate)
		if !errors.Is(err, ErrNotFound) {
			break
		}
	}
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.cache[name] = value
	p.mu.Unlock()

	return value, nil
}

// Provider returns the provider name.
func (p *FileProvider) Provider() string {
	return "file"
}

func (p *FileProvider) readFile(name string) (string, error) {
	path := filepath.Join(p.BasePath, name)

	// Validate path is within BasePath (prevent directory traversal)
	absBase, err := filepath.Abs(p.BasePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid secret path: directory traversal detected")
	}

	// Stat follows the ..data symlinks Kubernetes creates.
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: no file %s", ErrNotFound, name)
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", name)
	}

	if mode := info.Mode().Perm(); mode&0o022 != 0 {
		return "", fmt.Errorf("insecure permissions on %s: %o (must not be group or world writable)", path, mode)
	}

	// #nosec G304 - Path is validated above to prevent directory traversal
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// fileNames returns the file names tried for a secret name, in order.
func fileNames(name string) []string {
	names := []string{name}
	if alt := strings.ToLower(strings.ReplaceAll(name, "_", "-")); alt != name {
		names = append(names, alt)
	}
	return names
}
