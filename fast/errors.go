// Copyright (c) 2024 Neomantra Corp

package fast

import "fmt"

var (
	// ErrBadTagType is returned when a tag's declared ValueType disagrees
	// with the decode call used (e.g. DecodeU32 on a Str tag).
	ErrBadTagType = fmt.Errorf("fast: tag type disagrees with decode call")
	// ErrBadOp is returned when a tag carries an operator this decoder
	// does not support for the call made.
	ErrBadOp = fmt.Errorf("fast: unsupported operator for this call")
	// ErrMissingValue is returned when a field has no current value: a
	// NONE field absent on the wire, or a COPY/INCR/DELTA field whose
	// cache slot was never primed.
	ErrMissingValue = fmt.Errorf("fast: missing value")
	// ErrSize is returned when a field's encoded bytes run past the end
	// of the packet, or a decoded string does not fit the caller's buffer.
	ErrSize = fmt.Errorf("fast: size overflow")
	// ErrCallSeq is returned when EndMessage is called without a matching
	// BeginMessage, or BeginMessage is called while already in a message.
	ErrCallSeq = fmt.Errorf("fast: call out of sequence")
	// ErrDeltaStringLength is returned when a DELTA string field's
	// decoded length does not equal the cached current length, violating
	// spec.md §4.2's "equal-length current and new strings" requirement.
	ErrDeltaStringLength = fmt.Errorf("fast: delta string length mismatch")
)
