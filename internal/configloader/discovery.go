package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// ConfigPaths holds the config files found for each layer. An empty field
// means no file exists for that layer.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string // from --config
}

const appName = "duic"

// Layer file names, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	projectNames = []string{".duic.yml", ".duic.yaml", "duic.yml", "duic.yaml"}
	layerNames   = []string{"config.yaml", "config.yml"}
	repoMarkers  = []string{".git", ".hg", ".svn"}
)

// DiscoverPaths locates the system, user, and project config files.
// The project file is searched upward from workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), layerNames),
		User:    firstFile(userConfigDir(), layerNames),
		Project: project,
	}, nil
}

// systemConfigDir is /etc/duic, or %ProgramData%\duic on Windows.
func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appName)
	}
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, appName)
}

// userConfigDir honors XDG_CONFIG_HOME and falls back to ~/.config/duic.
// It returns "" when no home directory is known.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// FindProjectConfig walks from startDir toward the root and returns the
// first project config file. The walk stops after a repository root or
// the home directory has been checked. It returns "" when nothing is found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	dir, err := resolveWorkDir(startDir)
	if err != nil {
		return "", err
	}

	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}

		if found := firstFile(dir, projectNames); found != "" {
			return found, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isRepoRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

func resolveWorkDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func isRepoRoot(dir string) bool {
	return slices.ContainsFunc(repoMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}

// IsYAMLConfig reports whether path has a .yaml or .yml extension.
func IsYAMLConfig(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
