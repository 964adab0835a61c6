package report

import (
	"bufio"
	"io"
	"strings"
)

const (
	indentUnit         = "    "
	contentStartMarker = "-- CONTENT START --"
	contentEndMarker   = "-- CONTENT END --"
	readErrorPrefix    = "-- ERROR READING FILE: "
	readErrorSuffix    = " --"
)

// Writer renders walk events as the plain indented text report.
type Writer struct {
	destination *bufio.Writer
}

// NewWriter returns a Writer buffering into destination. Call Flush once the walk completes.
func NewWriter(destination io.Writer) *Writer {
	return &Writer{destination: bufio.NewWriter(destination)}
}

// Handle writes the lines for one event.
func (writer *Writer) Handle(event Event) error {
	switch event.Kind {
	case EventDirectory:
		if event.Directory == nil {
			return nil
		}
		return writer.writeLine(event.Directory.Depth, event.Directory.Name+"/")
	case EventFile:
		if event.File == nil {
			return nil
		}
		return writer.writeFile(event.File)
	}
	return nil
}

// Flush writes any buffered data to the destination.
func (writer *Writer) Flush() error {
	return writer.destination.Flush()
}

func (writer *Writer) writeFile(file *FileEvent) error {
	if err := writer.writeLine(file.Depth, file.Name); err != nil {
		return err
	}
	if file.Preview.Failed() {
		return writer.writeLine(file.Depth, readErrorPrefix+file.Preview.Err.Error()+readErrorSuffix)
	}
	if err := writer.writeLine(file.Depth, contentStartMarker); err != nil {
		return err
	}
	if _, err := writer.destination.WriteString(file.Preview.Content + "\n"); err != nil {
		return err
	}
	return writer.writeLine(file.Depth, contentEndMarker)
}

func (writer *Writer) writeLine(depth int, text string) error {
	_, err := writer.destination.WriteString(indent(depth) + text + "\n")
	return err
}

func indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(indentUnit, depth)
}
