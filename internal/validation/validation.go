// Package validation checks corpus file paths and detects which corpus
// source a file holds from its magic bytes and extension.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096

	// headerSize is how much of a file is read for detection.
	headerSize = 512
)

// Common validation errors.
var (
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrPathTooLong      = errors.New("path too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrUnknownType      = errors.New("unrecognized corpus file")
)

// FileType is a corpus file kind. Values match the config source names.
type FileType string

const (
	FileTypeSQLite   FileType = "sqlite"
	FileTypeSnapshot FileType = "snapshot"
	FileTypeOSIS     FileType = "osis"
	FileTypeUnknown  FileType = "unknown"
)

// magicBytes defines magic byte signatures for file type detection.
var magicBytes = []struct {
	fileType FileType
	magic    []byte
}{
	{FileTypeSQLite, []byte("SQLite format 3\x00")},
	{FileTypeSnapshot, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}}, // xz
}

// ValidatePath rejects empty, overlong and NUL-containing paths.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.ContainsRune(path, 0) {
		return ErrInvalidCharacter
	}
	return nil
}

// DetectFile opens path and detects its corpus type.
func DetectFile(path string) (FileType, error) {
	if err := ValidatePath(path); err != nil {
		return FileTypeUnknown, err
	}
	f, err := os.Open(path)
	if err != nil {
		return FileTypeUnknown, err
	}
	defer f.Close()
	return DetectFileType(f, path)
}

// DetectFileType reads the start of r and decides the corpus type. Magic bytes
// win; text content falls back to the extension, and XML-looking text is OSIS.
func DetectFileType(r io.Reader, filename string) (FileType, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	buf = buf[:n]

	if t := detectFileTypeFromMagic(buf); t != FileTypeUnknown {
		return t, nil
	}
	if isLikelyText(buf) {
		trimmed := bytes.TrimLeft(bytes.TrimPrefix(buf, []byte("\xef\xbb\xbf")), " \t\r\n")
		if bytes.HasPrefix(trimmed, []byte("<")) || detectFileTypeFromExtension(filename) == FileTypeOSIS {
			return FileTypeOSIS, nil
		}
	}
	return FileTypeUnknown, fmt.Errorf("%w: %s", ErrUnknownType, filename)
}

// detectFileTypeFromMagic detects file type from magic bytes.
func detectFileTypeFromMagic(buf []byte) FileType {
	for _, sig := range magicBytes {
		if bytes.HasPrefix(buf, sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}

// detectFileTypeFromExtension determines the expected file type from the extension.
func detectFileTypeFromExtension(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".db", ".sqlite", ".sqlite3":
		return FileTypeSQLite
	case ".xz":
		return FileTypeSnapshot
	case ".xml", ".osis":
		return FileTypeOSIS
	}
	return FileTypeUnknown
}

// isLikelyText reports whether buf is valid UTF-8 without NUL bytes.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	if bytes.IndexByte(buf, 0) >= 0 {
		return false
	}
	if utf8.Valid(buf) {
		return true
	}
	// A multi-byte rune may be cut at the end of the header.
	for i := 1; i < utf8.UTFMax && i < len(buf); i++ {
		if utf8.RuneStart(buf[len(buf)-i]) && utf8.Valid(buf[:len(buf)-i]) {
			return true
		}
	}
	return false
}
