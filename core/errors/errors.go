// Package errors provides the error taxonomy shared by the corpus, distance and lookup packages.
//
// Errors fall into two families. Input errors (ReferenceNotFoundError, UnknownBookError,
// UnknownChapterError, ValidationError) mean the caller supplied something the corpus does not
// contain and can be reported back as validation feedback. Integrity errors (CorpusIntegrityError)
// mean the corpus itself is malformed and should block startup.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrReferenceNotFound indicates a (book, chapter, verse) triple is absent from the corpus
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrUnknownBook indicates an aggregate lookup named a book the corpus does not have
	ErrUnknownBook = errors.New("unknown book")
	// ErrUnknownChapter indicates an aggregate lookup named a chapter the book does not have
	ErrUnknownChapter = errors.New("unknown chapter")
	// ErrCorpusIntegrity indicates the corpus is empty or malformed
	ErrCorpusIntegrity = errors.New("corpus integrity violation")
	// ErrInvalidInput indicates invalid input or validation failure
	ErrInvalidInput = errors.New("invalid input")
)

// ReferenceNotFoundError reports a reference that does not resolve to an ordinal.
type ReferenceNotFoundError struct {
	Reference string // Human-readable reference (e.g., "John 3:16") or ordinal
	Err       error  // Underlying error, if any
}

func (e *ReferenceNotFoundError) Error() string {
	if e.Reference != "" {
		return fmt.Sprintf("reference not found: %s", e.Reference)
	}
	return "reference not found"
}

func (e *ReferenceNotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrReferenceNotFound
}

// UnknownBookError reports a book title absent from the corpus.
type UnknownBookError struct {
	Book string
	Err  error
}

func (e *UnknownBookError) Error() string {
	return fmt.Sprintf("unknown book: %q", e.Book)
}

func (e *UnknownBookError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnknownBook
}

// UnknownChapterError reports a chapter absent from a known book.
type UnknownChapterError struct {
	Book    string
	Chapter int
	Err     error
}

func (e *UnknownChapterError) Error() string {
	return fmt.Sprintf("unknown chapter: %s %d", e.Book, e.Chapter)
}

func (e *UnknownChapterError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnknownChapter
}

// CorpusIntegrityError reports a corpus that violates an invariant a valid corpus guarantees,
// such as a zero total where a divisor is required.
type CorpusIntegrityError struct {
	Check   string // Name of the failed check (e.g., "total_text_length")
	Message string // Details
	Err     error  // Underlying error, if any
}

func (e *CorpusIntegrityError) Error() string {
	if e.Check != "" {
		return fmt.Sprintf("corpus integrity: %s: %s", e.Check, e.Message)
	}
	return fmt.Sprintf("corpus integrity: %s", e.Message)
}

func (e *CorpusIntegrityError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrCorpusIntegrity
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string // Field name that failed validation
	Value   string // Value that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "open", "query")
	Path      string // File path or data source involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for creating common errors

// NewReferenceNotFound creates a ReferenceNotFoundError
func NewReferenceNotFound(reference string) *ReferenceNotFoundError {
	return &ReferenceNotFoundError{Reference: reference}
}

// NewUnknownBook creates an UnknownBookError
func NewUnknownBook(book string) *UnknownBookError {
	return &UnknownBookError{Book: book}
}

// NewUnknownChapter creates an UnknownChapterError
func NewUnknownChapter(book string, chapter int) *UnknownChapterError {
	return &UnknownChapterError{Book: book, Chapter: chapter}
}

// NewCorpusIntegrity creates a CorpusIntegrityError
func NewCorpusIntegrity(check, message string) *CorpusIntegrityError {
	return &CorpusIntegrityError{Check: check, Message: message}
}

// NewValidation creates a ValidationError
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// IsInputError reports whether err was caused by caller input rather than by the corpus.
func IsInputError(err error) bool {
	return errors.Is(err, ErrReferenceNotFound) ||
		errors.Is(err, ErrUnknownBook) ||
		errors.Is(err, ErrUnknownChapter) ||
		errors.Is(err, ErrInvalidInput)
}

// IsIntegrityError reports whether err signals a malformed corpus.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrCorpusIntegrity)
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
