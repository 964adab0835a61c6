package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultPreviewLimit is the number of characters of each file copied into the report.
const DefaultPreviewLimit = 500

const errorNotRegularFileFormat = "%s is not a regular file"

// Preview is the outcome of reading the beginning of one file.
// Exactly one of Content or Err is meaningful: a non-nil Err means the read failed and Content is empty.
type Preview struct {
	Content string
	Err     error
}

// Failed reports whether the preview carries a read failure.
func (preview Preview) Failed() bool {
	return preview.Err != nil
}

// ReadPreview decodes up to limit characters from the start of the file at path.
// Invalid UTF-8 sequences are dropped and "\r\n" or a lone "\r" become "\n".
// Only the bytes needed for the first limit characters are read.
//
// #nosec G304
func ReadPreview(path string, limit int) Preview {
	info, statError := os.Stat(path)
	if statError != nil {
		return Preview{Err: statError}
	}
	if !info.Mode().IsRegular() {
		return Preview{Err: fmt.Errorf(errorNotRegularFileFormat, path)}
	}

	fileHandle, openError := os.Open(path)
	if openError != nil {
		return Preview{Err: openError}
	}
	defer fileHandle.Close()

	content, decodeError := DecodePrefix(fileHandle, limit)
	if decodeError != nil {
		return Preview{Err: decodeError}
	}
	return Preview{Content: content}
}

// DecodePrefix returns the first limit characters decoded from source.
// A non-positive limit yields an empty string without reading.
func DecodePrefix(source io.Reader, limit int) (string, error) {
	if limit <= 0 {
		return "", nil
	}
	reader := bufio.NewReader(source)
	var builder strings.Builder
	decoded := 0
	for decoded < limit {
		character, size, readError := reader.ReadRune()
		if readError != nil {
			if errors.Is(readError, io.EOF) {
				break
			}
			return "", readError
		}
		if character == utf8.RuneError && size == 1 {
			continue
		}
		if character == '\r' {
			next, _, peekError := reader.ReadRune()
			if peekError == nil && next != '\n' {
				_ = reader.UnreadRune()
			}
			character = '\n'
		}
		builder.WriteRune(character)
		decoded++
	}
	return builder.String(), nil
}
