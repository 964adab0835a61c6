package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/projdump/internal/utils"
)

func TestInitializeConfigurationWritesLoadableDefaults(t *testing.T) {
	workingDirectory := t.TempDir()

	writtenPath, initErr := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory})
	if initErr != nil {
		t.Fatalf("initialize configuration: %v", initErr)
	}
	if writtenPath != filepath.Join(workingDirectory, utils.ConfigFileName) {
		t.Fatalf("unexpected path %s", writtenPath)
	}

	configuration, loadErr := loadConfigurationFromPath(writtenPath, true)
	if loadErr != nil {
		t.Fatalf("reload written configuration: %v", loadErr)
	}
	written, writtenErr := configuration.Settings()
	if writtenErr != nil {
		t.Fatalf("resolve written settings: %v", writtenErr)
	}
	defaults, defaultsErr := DefaultConfiguration().Settings()
	if defaultsErr != nil {
		t.Fatalf("resolve default settings: %v", defaultsErr)
	}
	if !reflect.DeepEqual(written, defaults) {
		t.Fatalf("written configuration differs from defaults:\n got %+v\nwant %+v", written, defaults)
	}
}

func TestInitializeConfigurationRefusesOverwriteWithoutForce(t *testing.T) {
	workingDirectory := t.TempDir()
	existingPath := filepath.Join(workingDirectory, utils.ConfigFileName)
	writeTestFile(t, existingPath, "output: mine.txt\n")

	_, initErr := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory})
	if initErr == nil || !strings.Contains(initErr.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", initErr)
	}
	content, _ := os.ReadFile(existingPath)
	if string(content) != "output: mine.txt\n" {
		t.Fatalf("existing configuration was modified: %q", content)
	}

	if _, forceErr := InitializeConfiguration(InitOptions{WorkingDirectory: workingDirectory, Force: true}); forceErr != nil {
		t.Fatalf("forced initialize: %v", forceErr)
	}
	content, _ = os.ReadFile(existingPath)
	if !strings.Contains(string(content), "include_dirs:") {
		t.Fatalf("expected defaults after forced initialize, got %q", content)
	}
}

func TestInitializeConfigurationGlobalTarget(t *testing.T) {
	homeDirectory := t.TempDir()

	writtenPath, initErr := InitializeConfiguration(InitOptions{Target: InitTargetGlobal, HomeDirectory: homeDirectory})
	if initErr != nil {
		t.Fatalf("initialize global configuration: %v", initErr)
	}
	expectedPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
	if writtenPath != expectedPath {
		t.Fatalf("unexpected path %s, want %s", writtenPath, expectedPath)
	}

	if _, unsupportedErr := InitializeConfiguration(InitOptions{Target: "remote"}); unsupportedErr == nil {
		t.Fatalf("expected error for unsupported target")
	}
}
