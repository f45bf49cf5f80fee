package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/duic/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}
	if got := result.Config.MarkupExtensions; len(got) != 4 || got[0] != ".dui" {
		t.Errorf("unexpected markup extensions %v", got)
	}
	if !result.Config.LanguageDetection() {
		t.Error("expected language detection on by default")
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no files loaded, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".duic.yml"), `
defines:
  WINVER: "0x0601"
detect_language: false
validate_trees: true
`)

	// The project file is found from a nested directory.
	nested := filepath.Join(tmpDir, "src", "views")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Defines["WINVER"] != "0x0601" {
		t.Errorf("expected WINVER define, got %v", cfg.Defines)
	}
	if cfg.LanguageDetection() {
		t.Error("expected detect_language false from project config")
	}
	if !cfg.ValidateTrees {
		t.Error("expected validate_trees true from project config")
	}
	if len(cfg.PreprocessorExtensions) == 0 {
		t.Error("defaults should survive for fields the project config omits")
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected one loaded file, got %v", result.LoadedFrom)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".duic.yml"), "include_dirs: [project]\n")
	customPath := filepath.Join(tmpDir, "custom.conf")
	writeFile(t, customPath, "include_dirs: [explicit]\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = customPath

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := result.Config.IncludeDirs; len(got) != 1 || got[0] != "explicit" {
		t.Errorf("explicit config should win, got %v", got)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("expected an extension warning, got %v", result.Warnings)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".duic.yml"), `
defines:
  A: "1"
  B: "2"
`)

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{
		Format:  "sarif",
		Jobs:    8,
		Strict:  true,
		Defines: map[string]string{"B": "3"},
	}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Format != "sarif" || cfg.Jobs != 8 || !cfg.Strict {
		t.Errorf("CLI scalars not applied: %+v", cfg)
	}
	if cfg.Defines["A"] != "1" || cfg.Defines["B"] != "3" {
		t.Errorf("defines should deep merge, got %v", cfg.Defines)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "extension without dot", content: "markup_extensions: [dui]\n"},
		{name: "overlapping extensions", content: "markup_extensions: [.h]\n"},
		{name: "bad macro name", content: "defines:\n  1BAD: x\n"},
		{name: "bad glob", content: "ignore: ['[']\n"},
		{name: "malformed yaml", content: "ignore: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			writeFile(t, filepath.Join(tmpDir, ".duic.yml"), tt.content)

			if _, err := Load(context.Background(), isolated(tmpDir)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoad_ValidationErrorCarriesFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".duic.yml")
	writeFile(t, path, "markup_extensions: [dui]\n")

	_, err := Load(context.Background(), isolated(tmpDir))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.FilePath != path {
		t.Errorf("expected file path %q, got %q", path, verr.FilePath)
	}
	if verr.Field != "markup_extensions[0]" {
		t.Errorf("unexpected field %q", verr.Field)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(t.TempDir())); err == nil {
		t.Fatal("expected context cancellation error")
	}
}

//nolint:paralleltest // Uses t.Setenv.
func TestLoad_Environment(t *testing.T) {
	t.Setenv("DUIC_FORMAT", "json")
	t.Setenv("DUIC_JOBS", "3")
	t.Setenv("DUIC_DETECT_LANGUAGE", "false")
	t.Setenv("DUIC_DEFINES", "DEBUG, LEVEL=2")
	t.Setenv("DUIC_IGNORE", "build/**, out/**")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Format != "json" || cfg.Jobs != 3 {
		t.Errorf("env scalars not applied: format=%q jobs=%d", cfg.Format, cfg.Jobs)
	}
	if cfg.LanguageDetection() {
		t.Error("expected detection disabled by env")
	}
	if cfg.Defines["DEBUG"] != "1" || cfg.Defines["LEVEL"] != "2" {
		t.Errorf("unexpected defines %v", cfg.Defines)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[1] != "out/**" {
		t.Errorf("unexpected ignore %v", cfg.Ignore)
	}
}

//nolint:paralleltest // Uses t.Setenv.
func TestLoad_EnvironmentInvalid(t *testing.T) {
	t.Setenv("DUIC_JOBS", "many")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false

	if _, err := Load(context.Background(), opts); err == nil {
		t.Fatal("expected invalid integer error")
	}
}

func TestMergeAll(t *testing.T) {
	t.Parallel()

	off := false
	merged := MergeAll(
		config.NewConfig(),
		&config.Config{Ignore: []string{"a/**"}},
		&config.Config{DetectLanguage: &off, Defines: map[string]string{"X": "1"}},
	)

	if len(merged.Ignore) != 1 || merged.Ignore[0] != "a/**" {
		t.Errorf("slices should be replaced, got %v", merged.Ignore)
	}
	if merged.LanguageDetection() {
		t.Error("detect_language false should override the default")
	}
	if merged.Defines["X"] != "1" {
		t.Errorf("unexpected defines %v", merged.Defines)
	}
	if MergeAll() != nil {
		t.Error("MergeAll() with no configs should be nil")
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	if _, ok := vars["DUIC_DEFINES"]; !ok {
		t.Errorf("missing DUIC_DEFINES in %v", vars)
	}
	if got := GetEnvVarName("include_dirs"); got != "DUIC_INCLUDE_DIRS" {
		t.Errorf("GetEnvVarName() = %q", got)
	}
}
