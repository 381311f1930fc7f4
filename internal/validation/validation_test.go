package validation

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{"ok", "data/kjv.db", nil},
		{"empty", "", ErrEmptyPath},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
		{"nul", "kjv\x00.db", ErrInvalidCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.path); !errors.Is(err, tt.want) {
				t.Errorf("ValidatePath(%q) = %v, want %v", tt.path, err, tt.want)
			}
		})
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		filename string
		want     FileType
		wantErr  bool
	}{
		{"sqlite", append([]byte("SQLite format 3\x00"), make([]byte, 100)...), "kjv.bin", FileTypeSQLite, false},
		{"xz snapshot", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00, 0x04}, "kjv", FileTypeSnapshot, false},
		{"xml declaration", []byte(`<?xml version="1.0"?><osis/>`), "kjv.txt", FileTypeOSIS, false},
		{"bom and whitespace", []byte("\xef\xbb\xbf\n  <osis></osis>"), "kjv", FileTypeOSIS, false},
		{"text with osis extension", []byte("not markup"), "kjv.osis", FileTypeOSIS, false},
		{"plain text", []byte("In the beginning"), "kjv.txt", FileTypeUnknown, true},
		{"binary", []byte{0x00, 0x01, 0x02}, "kjv.xml", FileTypeUnknown, true},
		{"empty", nil, "kjv.db", FileTypeUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFileType(bytes.NewReader(tt.content), tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DetectFileType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownType) {
				t.Errorf("expected ErrUnknownType, got %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFileType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kjv.xml")
	if err := os.WriteFile(path, []byte("<osis/>"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := DetectFile(path)
	if err != nil || got != FileTypeOSIS {
		t.Errorf("DetectFile() = %s, %v", got, err)
	}

	if _, err := DetectFile(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	if _, err := DetectFile(""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}
}

func TestIsLikelyText(t *testing.T) {
	if !isLikelyText([]byte("héllo")) {
		t.Error("UTF-8 text should be text")
	}
	// "é" cut in half at the end of the header.
	if !isLikelyText([]byte("abc\xc3")) {
		t.Error("truncated trailing rune should still be text")
	}
	if isLikelyText([]byte{0xff, 0xfe, 'a'}) {
		t.Error("invalid UTF-8 should not be text")
	}
}
