package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/projdump/internal/utils"
)

// writeTestFile creates a file with the specified content, creating parent directories.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if makeDirErr := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirErr != nil {
		testingHandle.Fatalf("failed to create %s: %v", filepath.Dir(filePath), makeDirErr)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

type configTestCase struct {
	name               string
	globalContent      string
	localContent       string
	explicitPath       string
	explicitContent    string
	expectOutput       string
	expectIncludeDirs  []string
	expectIgnoreDirs   []string
	expectIgnoreFiles  []string
	expectPreviewLimit int
	expectIDEPrefix    string
	expectTokens       bool
	expectModel        string
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:               "defaults_without_files",
			expectOutput:       "project_generated_structure.txt",
			expectIncludeDirs:  []string{"cmd", "pkg", "test"},
			expectIgnoreDirs:   []string{"tmp", "node_modules", ".idea"},
			expectIgnoreFiles:  []string{"go.mod", "go.sum"},
			expectPreviewLimit: 500,
			expectIDEPrefix:    ".idea",
			expectModel:        "gpt-4o",
		},
		{
			name:               "local_overrides_global",
			globalContent:      "output: global.txt\ninclude_dirs: [internal]\npreview_limit: 100\ntokens:\n  enabled: true\n",
			localContent:       "output: local.txt\nignore_dirs: [dist, dist]\ntokens:\n  model: gpt-3.5-turbo\n",
			expectOutput:       "local.txt",
			expectIncludeDirs:  []string{"internal"},
			expectIgnoreDirs:   []string{"dist"},
			expectIgnoreFiles:  []string{"go.mod", "go.sum"},
			expectPreviewLimit: 100,
			expectIDEPrefix:    ".idea",
			expectTokens:       true,
			expectModel:        "gpt-3.5-turbo",
		},
		{
			name:               "explicit_path_replaces_local",
			localContent:       "output: local.txt\n",
			explicitPath:       "custom.yaml",
			explicitContent:    "ide_prefix: \"\"\nignore_files: [LICENSE]\n",
			expectOutput:       "project_generated_structure.txt",
			expectIncludeDirs:  []string{"cmd", "pkg", "test"},
			expectIgnoreDirs:   []string{"tmp", "node_modules", ".idea"},
			expectIgnoreFiles:  []string{"LICENSE"},
			expectPreviewLimit: 500,
			expectIDEPrefix:    "",
			expectModel:        "gpt-4o",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			workingDirectory := t.TempDir()
			homeDirectory := t.TempDir()
			if testCase.globalContent != "" {
				writeTestFile(t, filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeTestFile(t, filepath.Join(workingDirectory, utils.ConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeTestFile(t, filepath.Join(workingDirectory, testCase.explicitPath), testCase.explicitContent)
			}

			configuration, loadErr := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDirectory,
				HomeDirectory:    homeDirectory,
				ExplicitFilePath: testCase.explicitPath,
			})
			if loadErr != nil {
				t.Fatalf("load configuration: %v", loadErr)
			}
			settings, settingsErr := configuration.Settings()
			if settingsErr != nil {
				t.Fatalf("resolve settings: %v", settingsErr)
			}

			if settings.Output != testCase.expectOutput {
				t.Fatalf("output: got %q want %q", settings.Output, testCase.expectOutput)
			}
			if !reflect.DeepEqual(settings.Rules.IncludeDirs, testCase.expectIncludeDirs) {
				t.Fatalf("include dirs: got %v want %v", settings.Rules.IncludeDirs, testCase.expectIncludeDirs)
			}
			if !reflect.DeepEqual(settings.Rules.IgnoreDirs, testCase.expectIgnoreDirs) {
				t.Fatalf("ignore dirs: got %v want %v", settings.Rules.IgnoreDirs, testCase.expectIgnoreDirs)
			}
			if !reflect.DeepEqual(settings.Rules.IgnoreFiles, testCase.expectIgnoreFiles) {
				t.Fatalf("ignore files: got %v want %v", settings.Rules.IgnoreFiles, testCase.expectIgnoreFiles)
			}
			if settings.PreviewLimit != testCase.expectPreviewLimit {
				t.Fatalf("preview limit: got %d want %d", settings.PreviewLimit, testCase.expectPreviewLimit)
			}
			if settings.Rules.IDEPrefix != testCase.expectIDEPrefix {
				t.Fatalf("ide prefix: got %q want %q", settings.Rules.IDEPrefix, testCase.expectIDEPrefix)
			}
			if settings.TokensEnabled != testCase.expectTokens {
				t.Fatalf("tokens: got %v want %v", settings.TokensEnabled, testCase.expectTokens)
			}
			if settings.TokenModel != testCase.expectModel {
				t.Fatalf("model: got %q want %q", settings.TokenModel, testCase.expectModel)
			}
		})
	}
}

func TestLoadApplicationConfigurationErrors(t *testing.T) {
	t.Run("missing_explicit_file", func(t *testing.T) {
		_, loadErr := LoadApplicationConfiguration(LoadOptions{
			WorkingDirectory: t.TempDir(),
			HomeDirectory:    t.TempDir(),
			ExplicitFilePath: "absent.yaml",
		})
		if loadErr == nil {
			t.Fatalf("expected error for missing explicit configuration")
		}
	})

	t.Run("directory_in_place_of_file", func(t *testing.T) {
		workingDirectory := t.TempDir()
		if err := os.Mkdir(filepath.Join(workingDirectory, utils.ConfigFileName), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		_, loadErr := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
		if loadErr == nil || !strings.Contains(loadErr.Error(), "is a directory") {
			t.Fatalf("expected directory error, got %v", loadErr)
		}
	})

	t.Run("malformed_yaml", func(t *testing.T) {
		workingDirectory := t.TempDir()
		writeTestFile(t, filepath.Join(workingDirectory, utils.ConfigFileName), "include_dirs: [cmd\n")
		_, loadErr := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, HomeDirectory: t.TempDir()})
		if loadErr == nil {
			t.Fatalf("expected error for malformed configuration")
		}
	})
}

func TestSettingsRejectsNonPositivePreviewLimit(t *testing.T) {
	limit := 0
	_, err := ApplicationConfiguration{PreviewLimit: &limit}.Settings()
	if err == nil {
		t.Fatalf("expected error for zero preview limit")
	}
}

func TestMergeDoesNotAliasOverride(t *testing.T) {
	limit := 42
	override := ApplicationConfiguration{PreviewLimit: &limit}
	merged := DefaultConfiguration().Merge(override)
	limit = 7
	if *merged.PreviewLimit != 42 {
		t.Fatalf("expected merged limit to stay 42, got %d", *merged.PreviewLimit)
	}
}
