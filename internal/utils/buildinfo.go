package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion = "unknown"
	develVersion   = "(devel)"
)

// Version may be injected at link time with -ldflags "-X github.com/temirov/projdump/internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion determines the application version.
// A linker-injected Version wins, then Go build info, then git describe in the enclosing repository.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}

	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}

	gitDirectoryPath, gitDirectoryError := findGitDirectory(".")
	if gitDirectoryError == nil && gitDirectoryPath != "" {
		for _, describeArguments := range [][]string{
			{"describe", "--tags", "--exact-match"},
			{"describe", "--tags", "--long", "--dirty"},
		} {
			// #nosec G204
			gitCommand := exec.Command("git", describeArguments...)
			gitCommand.Dir = gitDirectoryPath
			gitOutput, gitError := gitCommand.Output()
			if gitError == nil && len(gitOutput) > 0 {
				return strings.TrimSpace(string(gitOutput))
			}
		}
	}

	return unknownVersion
}

// findGitDirectory searches upward from startDirectory for a directory containing .git.
func findGitDirectory(startDirectory string) (string, error) {
	absoluteStartDirectory, errorAbsolute := filepath.Abs(startDirectory)
	if errorAbsolute != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, errorAbsolute)
	}

	currentDirectory := absoluteStartDirectory
	for {
		fileInformation, errorStat := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if errorStat == nil && fileInformation.IsDir() {
			return currentDirectory, nil
		}

		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return "", fmt.Errorf(".git directory not found in or above %s", absoluteStartDirectory)
}
