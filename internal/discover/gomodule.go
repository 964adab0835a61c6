// Package discover inspects the traversal root for project manifests worth naming in the run log.
package discover

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/temirov/projdump/internal/utils"
)

// GoModule summarizes the go.mod found at a directory.
type GoModule struct {
	Path         string
	GoVersion    string
	Requirements int
}

// DetectGoModule parses go.mod in rootPath. The boolean is false when no go.mod exists.
//
// #nosec G304
func DetectGoModule(rootPath string) (GoModule, bool, error) {
	goModPath := filepath.Join(rootPath, utils.GoModuleFileName)
	contents, readErr := os.ReadFile(goModPath)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return GoModule{}, false, nil
		}
		return GoModule{}, false, fmt.Errorf("read %s: %w", goModPath, readErr)
	}
	modFile, parseErr := modfile.ParseLax(goModPath, contents, nil)
	if parseErr != nil {
		return GoModule{}, false, fmt.Errorf("parse %s: %w", goModPath, parseErr)
	}

	module := GoModule{}
	if modFile.Module != nil {
		module.Path = modFile.Module.Mod.Path
	}
	if modFile.Go != nil {
		module.GoVersion = modFile.Go.Version
	}
	for _, requirement := range modFile.Require {
		if requirement != nil && !requirement.Indirect {
			module.Requirements++
		}
	}
	return module, true, nil
}
