package bom

import (
	"errors"
	"fmt"
)

// Kind classifies a staging failure
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingInclude
	KindMissingDirectory
	KindMissingFile
	KindHashMismatch
	KindLoad
	KindCopyFailure
	KindDirectoryCreation
	KindConflictingHash
)

func (k Kind) String() string {
	switch k {
	case KindMissingInclude:
		return "missing include"
	case KindMissingDirectory:
		return "missing directory"
	case KindMissingFile:
		return "missing file"
	case KindHashMismatch:
		return "hash mismatch"
	case KindLoad:
		return "load error"
	case KindCopyFailure:
		return "copy failure"
	case KindDirectoryCreation:
		return "directory creation failure"
	case KindConflictingHash:
		return "conflicting hash"
	default:
		return "unknown"
	}
}

// Error is returned by every operation that can abort a staging run.
// Path names the offending file, directory or manifest.
type Error struct {
	Kind Kind
	Path string
	// Hash is the freshly computed hash for KindHashMismatch.
	Hash string
	// Other names the second party of a conflict, or the copy destination.
	Other string
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingInclude:
		return fmt.Sprintf("include file %s does not exist, please update the bom file", e.Path)
	case KindMissingDirectory:
		return fmt.Sprintf("directory %s does not exist, please update the bom file", e.Path)
	case KindMissingFile:
		return fmt.Sprintf("file %s does not exist, please update the bom file", e.Path)
	case KindHashMismatch:
		return fmt.Sprintf("content of file %s changed, new hash is %s, please update the bom file", e.Path, e.Hash)
	case KindConflictingHash:
		return fmt.Sprintf("file %s is listed with different hashes (%s)", e.Path, e.Other)
	case KindCopyFailure:
		if e.Err != nil {
			return fmt.Sprintf("copy %s to %s failed: %v", e.Path, e.Other, e.Err)
		}
		return fmt.Sprintf("copy %s to %s failed", e.Path, e.Other)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Path)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func loadError(path string, err error) error {
	return &Error{Kind: KindLoad, Path: path, Err: err}
}
