// Package errkind provides the error taxonomy shared by every llm-ls
// subsystem: a small set of named Kinds layered on top of
// github.com/cockroachdb/errors, instead of a sentinel error type per
// package.
package errkind

import (
	"fmt"

	"github.com/llm-ls/llm-ls/internal/errors"
)

// Kind names one of the failure modes enumerated by the spec. Kinds are
// compared with Is, never with ==, so callers never need the concrete Error
// type.
type Kind string

const (
	InvalidRange                Kind = "InvalidRange"
	OutOfBoundLine              Kind = "OutOfBoundLine"
	OutOfBoundIndex             Kind = "OutOfBoundIndex"
	UnknownEncoding             Kind = "UnknownEncoding"
	EncodingMissing             Kind = "EncodingMissing"
	TreeSitterLanguage          Kind = "TreeSitterLanguage"
	TreeSitterParsing           Kind = "TreeSitterParsing"
	HTTP                        Kind = "Http"
	InvalidHeaderValue          Kind = "InvalidHeaderValue"
	IO                          Kind = "Io"
	SerdeJSON                   Kind = "SerdeJson"
	Tokenizer                   Kind = "Tokenizer"
	InvalidTokenizerPath        Kind = "InvalidTokenizerPath"
	InvalidRepositoryID         Kind = "InvalidRepositoryId"
	UnknownBackend              Kind = "UnknownBackend"
	BackendInferenceHF          Kind = "BackendInference.HF"
	BackendInferenceTGI         Kind = "BackendInference.TGI"
	BackendInferenceOllama      Kind = "BackendInference.Ollama"
	BackendInferenceOpenAI      Kind = "BackendInference.OpenAI"
	BackendInferenceLlamaCpp    Kind = "BackendInference.LlamaCpp"
	BackendInferenceCohere      Kind = "BackendInference.Cohere"
	InvalidBackendResponse      Kind = "InvalidBackendResponse"
	NonUTF8Path                 Kind = "NonUtf8Path"
	GlobPattern                 Kind = "GlobPattern"
	CollectionDimensionMismatch Kind = "CollectionDimensionMismatch"
	CollectionNotFound          Kind = "CollectionNotFound"
	CollectionUniqueViolation   Kind = "CollectionUniqueViolation"
)

// Error pairs a Kind with the underlying cockroachdb error, keeping a stack
// trace without requiring every call site to construct its own error type.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.err.Error())
}

func (e *Error) Unwrap() error { return e.err }

// New creates a Kind-tagged error from a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, err: errors.New(msg)}
}

// Newf creates a Kind-tagged error from a format string.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: errors.Newf(format, args...)}
}

// Wrap tags an existing error with a Kind, preserving its stack/cause chain.
func Wrap(kind Kind, err error, msg string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, err: errors.Wrap(err, msg)}
}

// Is reports whether err (or anything it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
