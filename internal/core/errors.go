package core

import "errors"

// Sentinel failures surfaced inside result records. No error ever crosses
// the core boundary as a raw value; public operations always return a
// well-formed result with the Error field set instead.
var (
	ErrEmptyInput      = errors.New("empty input provided")
	ErrNoTextExtracted = errors.New("no text could be extracted")
)
