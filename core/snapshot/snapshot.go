// Package snapshot stores a corpus as a single xz-compressed JSON file.
//
// The file holds an envelope with a format marker, a version, a BLAKE3 digest
// and the payload (book order plus every verse in reading order). The digest
// covers the payload bytes exactly as written, so any corruption is reported as
// a corpus integrity error on Read.
package snapshot

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/versedistance/core/corpus"
	"github.com/FocuswithJustin/versedistance/core/errors"
)

// Format is the marker stored in every snapshot envelope.
const Format = "versedist-snapshot"

// Version is the current envelope version.
const Version = 1

// Injectable functions for testing
var (
	xzNewWriter = xz.NewWriter
	xzNewReader = xz.NewReader
)

type envelope struct {
	Format  string          `json:"format"`
	Version int             `json:"version"`
	BLAKE3  string          `json:"blake3"`
	Payload json.RawMessage `json:"payload"`
}

type payload struct {
	Books  []string       `json:"books"`
	Verses []corpus.Verse `json:"verses"`
}

// Snapshot is a decoded corpus snapshot. It implements corpus.Provider.
type Snapshot struct {
	Books    []string
	Verses   []corpus.Verse
	Checksum string // hex BLAKE3 of the payload
}

// AllVerses implements corpus.Provider.
func (s *Snapshot) AllVerses(ctx context.Context) ([]corpus.Verse, error) {
	return (&corpus.StaticProvider{Books: s.Books, Verses: s.Verses}).AllVerses(ctx)
}

// BookOrder implements corpus.Provider.
func (s *Snapshot) BookOrder(ctx context.Context) ([]string, error) {
	return (&corpus.StaticProvider{Books: s.Books, Verses: s.Verses}).BookOrder(ctx)
}

// Checksum returns the hex BLAKE3 digest of data.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Write encodes books and verses to w and returns the payload checksum.
func Write(w io.Writer, books []string, verses []corpus.Verse) (string, error) {
	body, err := json.Marshal(payload{Books: books, Verses: verses})
	if err != nil {
		return "", errors.Wrap(err, "encode snapshot payload")
	}
	sum := Checksum(body)

	doc, err := json.Marshal(envelope{Format: Format, Version: Version, BLAKE3: sum, Payload: body})
	if err != nil {
		return "", errors.Wrap(err, "encode snapshot envelope")
	}

	zw, err := xzNewWriter(w)
	if err != nil {
		return "", errors.Wrap(err, "create xz writer")
	}
	if _, err := zw.Write(doc); err != nil {
		zw.Close()
		return "", errors.Wrap(err, "write snapshot")
	}
	if err := zw.Close(); err != nil {
		return "", errors.Wrap(err, "finish xz stream")
	}
	return sum, nil
}

// Export reads the whole corpus from p and writes it to w.
func Export(ctx context.Context, p corpus.Provider, w io.Writer) (string, error) {
	books, err := p.BookOrder(ctx)
	if err != nil {
		return "", errors.Wrap(err, "read book order")
	}
	verses, err := p.AllVerses(ctx)
	if err != nil {
		return "", errors.Wrap(err, "read verses")
	}
	return Write(w, books, verses)
}

// Read decodes a snapshot from r and verifies its checksum.
func Read(r io.Reader) (*Snapshot, error) {
	zr, err := xzNewReader(r)
	if err != nil {
		return nil, errors.NewCorpusIntegrity("snapshot", "not an xz stream: "+err.Error())
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, errors.NewCorpusIntegrity("snapshot", "corrupt xz stream: "+err.Error())
	}

	var env envelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		return nil, errors.NewCorpusIntegrity("snapshot", "malformed envelope: "+err.Error())
	}
	if env.Format != Format {
		return nil, errors.NewCorpusIntegrity("snapshot", fmt.Sprintf("unexpected format %q", env.Format))
	}
	if env.Version != Version {
		return nil, errors.NewCorpusIntegrity("snapshot", fmt.Sprintf("unsupported version %d", env.Version))
	}
	if got := Checksum(env.Payload); got != env.BLAKE3 {
		return nil, errors.NewCorpusIntegrity("snapshot", "checksum mismatch: stored "+env.BLAKE3+", computed "+got)
	}

	var p payload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		return nil, errors.NewCorpusIntegrity("snapshot", "malformed payload: "+err.Error())
	}
	return &Snapshot{Books: p.Books, Verses: p.Verses, Checksum: env.BLAKE3}, nil
}

// WriteFile exports p to a snapshot file at path.
func WriteFile(ctx context.Context, path string, p corpus.Provider) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", errors.NewIO("create", path, err)
	}
	sum, err := Export(ctx, p, f)
	if err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", errors.NewIO("close", path, err)
	}
	return sum, nil
}

// ReadFile reads and verifies the snapshot at path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()
	return Read(f)
}
