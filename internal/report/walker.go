package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/projdump/internal/filter"
)

const (
	errorHandlerNilMessage   = "report walk handler is nil"
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// EventKind identifies the kind of a walk event.
type EventKind int

const (
	// EventDirectory announces a reported directory. Its files follow as EventFile events.
	EventDirectory EventKind = iota
	// EventFile carries one listed file and its preview.
	EventFile
)

// DirectoryEvent describes a reported directory.
type DirectoryEvent struct {
	Path  string
	Name  string
	Depth int
}

// FileEvent describes a listed file of a reported directory.
// Depth is the depth of the enclosing directory plus one.
type FileEvent struct {
	Path    string
	Name    string
	Depth   int
	Preview Preview
}

// Event is emitted by Walk for every reported directory and listed file, in report order.
type Event struct {
	Kind      EventKind
	Directory *DirectoryEvent
	File      *FileEvent
}

// Summary counts what a walk visited.
type Summary struct {
	ReportedDirectories int
	VisitedDirectories  int
	PrunedDirectories   int
	SkippedDirectories  int
	ListedFiles         int
	IgnoredFiles        int
	UnreadableFiles     int
}

// WalkOptions configures a walk.
type WalkOptions struct {
	Root         string
	Rules        filter.Rules
	PreviewLimit int
	// Exclude, when set, names a file left out of every listing, typically the report being written.
	Exclude os.FileInfo
	Logger  *zap.Logger
}

type walkContext struct {
	options WalkOptions
	handler func(Event) error
	summary Summary
}

// Walk traverses Root top-down in depth-first pre-order and calls handler for each reported
// directory followed by its files. Child directories are descended or pruned per Rules.
// A Root that is missing, is not a directory or cannot be listed yields an empty walk with a
// warning, as does any subdirectory that cannot be listed. Only a handler error stops the walk.
func Walk(options WalkOptions, handler func(Event) error) (Summary, error) {
	if handler == nil {
		return Summary{}, errors.New(errorHandlerNilMessage)
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	walk := &walkContext{options: options, handler: handler}
	rootPath := filepath.Clean(options.Root)
	rootInfo, statError := os.Stat(rootPath)
	if statError != nil {
		walk.summary.SkippedDirectories++
		options.Logger.Warn("skipping root", zap.String("path", rootPath), zap.Error(statError))
		return walk.summary, nil
	}
	if !rootInfo.IsDir() {
		walk.summary.SkippedDirectories++
		options.Logger.Warn("skipping root, not a directory", zap.String("path", rootPath))
		return walk.summary, nil
	}
	entries, listError := listDirectory(rootPath)
	if listError != nil {
		walk.summary.SkippedDirectories++
		options.Logger.Warn("skipping root", zap.String("path", rootPath), zap.Error(listError))
		return walk.summary, nil
	}
	if err := walk.visit(rootPath, 0, entries); err != nil {
		return walk.summary, err
	}
	return walk.summary, nil
}

func (walk *walkContext) visit(path string, depth int, entries []fs.DirEntry) error {
	walk.summary.VisitedDirectories++

	directoryNames, fileNames, linkedDirectories := walk.splitEntries(path, entries)

	if walk.options.Rules.ReportsDirectory(path) {
		if err := walk.report(path, depth, fileNames); err != nil {
			return err
		}
	}

	for _, child := range walk.options.Rules.DecideChildren(directoryNames) {
		childPath := filepath.Join(path, child.Name)
		if child.Decision == filter.Prune {
			walk.summary.PrunedDirectories++
			walk.options.Logger.Debug("pruned directory", zap.String("path", childPath))
			continue
		}
		if _, linked := linkedDirectories[child.Name]; linked {
			continue
		}
		childEntries, listError := listDirectory(childPath)
		if listError != nil {
			walk.summary.SkippedDirectories++
			walk.options.Logger.Warn("skipping directory", zap.String("path", childPath), zap.Error(listError))
			continue
		}
		if err := walk.visit(childPath, depth+1, childEntries); err != nil {
			return err
		}
	}
	return nil
}

func (walk *walkContext) report(path string, depth int, fileNames []string) error {
	walk.summary.ReportedDirectories++
	if err := walk.handler(Event{
		Kind:      EventDirectory,
		Directory: &DirectoryEvent{Path: path, Name: filepath.Base(path), Depth: depth},
	}); err != nil {
		return err
	}

	for _, fileName := range fileNames {
		if walk.options.Rules.SkipsFile(fileName) {
			walk.summary.IgnoredFiles++
			continue
		}
		filePath := filepath.Join(path, fileName)
		preview := ReadPreview(filePath, walk.options.PreviewLimit)
		walk.summary.ListedFiles++
		if preview.Failed() {
			walk.summary.UnreadableFiles++
			walk.options.Logger.Debug("unreadable file", zap.String("path", filePath), zap.Error(preview.Err))
		}
		if err := walk.handler(Event{
			Kind: EventFile,
			File: &FileEvent{Path: filePath, Name: fileName, Depth: depth + 1, Preview: preview},
		}); err != nil {
			return err
		}
	}
	return nil
}

// splitEntries separates directory names from file names, keeping listing order.
// Symlinks resolving to directories count as directories but are returned in the linked set
// so the walk never follows them. Dangling symlinks count as files.
func (walk *walkContext) splitEntries(path string, entries []fs.DirEntry) ([]string, []string, map[string]struct{}) {
	var directoryNames []string
	var fileNames []string
	linkedDirectories := map[string]struct{}{}
	for _, entry := range entries {
		switch {
		case entry.IsDir():
			directoryNames = append(directoryNames, entry.Name())
		case entry.Type()&fs.ModeSymlink != 0 && resolvesToDirectory(filepath.Join(path, entry.Name())):
			directoryNames = append(directoryNames, entry.Name())
			linkedDirectories[entry.Name()] = struct{}{}
		case walk.isExcluded(entry):
			// the report being written
		default:
			fileNames = append(fileNames, entry.Name())
		}
	}
	return directoryNames, fileNames, linkedDirectories
}

func (walk *walkContext) isExcluded(entry fs.DirEntry) bool {
	if walk.options.Exclude == nil || entry.Name() != walk.options.Exclude.Name() {
		return false
	}
	info, infoError := entry.Info()
	if infoError != nil {
		return false
	}
	return os.SameFile(info, walk.options.Exclude)
}

// listDirectory returns the entries of path in the order the filesystem reports them.
func listDirectory(path string) ([]fs.DirEntry, error) {
	directoryHandle, openError := os.Open(path)
	if openError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, path, openError)
	}
	defer directoryHandle.Close()

	entries, readError := directoryHandle.ReadDir(-1)
	if readError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, path, readError)
	}
	return entries, nil
}

func resolvesToDirectory(path string) bool {
	info, statError := os.Stat(path)
	return statError == nil && info.IsDir()
}
