// Package report walks a directory tree and writes the indented text dump of the included
// directories, their files and a short preview of every file.
package report

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/projdump/internal/filter"
)

const (
	// DefaultOutputPath is the report file written when no output path is configured.
	DefaultOutputPath = "project_generated_structure.txt"

	errorCreateOutputFormat = "create report %s: %w"
	errorWriteOutputFormat  = "write report %s: %w"
	errorCloseOutputFormat  = "close report %s: %w"
)

// Options configures a report run.
type Options struct {
	Root         string
	OutputPath   string
	Rules        filter.Rules
	PreviewLimit int
	Logger       *zap.Logger
}

func (options Options) walkOptions() WalkOptions {
	previewLimit := options.PreviewLimit
	if previewLimit <= 0 {
		previewLimit = DefaultPreviewLimit
	}
	root := options.Root
	if root == "" {
		root = "."
	}
	return WalkOptions{
		Root:         root,
		Rules:        options.Rules,
		PreviewLimit: previewLimit,
		Logger:       options.Logger,
	}
}

// Generate truncates OutputPath, writes the report for Root into it and closes it on every path.
// The report file itself is never listed. Failing to create, write or close the output is fatal;
// an unusable root produces an empty report and unreadable source files are recorded inside it.
func Generate(options Options) (summary Summary, err error) {
	outputPath := options.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}

	walkOptions := options.walkOptions()

	// #nosec G304
	outputFile, createError := os.Create(outputPath)
	if createError != nil {
		return Summary{}, fmt.Errorf(errorCreateOutputFormat, outputPath, createError)
	}
	defer func() {
		if closeError := outputFile.Close(); closeError != nil && err == nil {
			err = fmt.Errorf(errorCloseOutputFormat, outputPath, closeError)
		}
	}()

	if outputInfo, statError := outputFile.Stat(); statError == nil {
		walkOptions.Exclude = outputInfo
	}

	summary, err = write(walkOptions, outputFile)
	if err != nil {
		return summary, fmt.Errorf(errorWriteOutputFormat, outputPath, err)
	}
	return summary, nil
}

// Write renders the report for options into destination without touching OutputPath.
func Write(options Options, destination io.Writer) (Summary, error) {
	return write(options.walkOptions(), destination)
}

func write(walkOptions WalkOptions, destination io.Writer) (Summary, error) {
	writer := NewWriter(destination)
	summary, walkError := Walk(walkOptions, writer.Handle)
	if walkError != nil {
		return summary, walkError
	}
	if flushError := writer.Flush(); flushError != nil {
		return summary, flushError
	}
	return summary, nil
}
