package pycore

// value is the uniform view over the two input representations: native
// structured Go values and raw JSON token streams. Validator nodes are
// written once against this interface.
//
// Consumption contract for the token-backed implementation: every value must
// be consumed exactly once. Scalar accessors and materialize consume fully,
// skipping a mismatched container subtree on failure. seq/mapping consume on
// failure; on success the returned iterator must be drained. isNull consumes
// the value when it reports true; a caller rejecting a non-null value must
// call discard.
type value interface {
	// isNull reports whether the value is null/absent.
	isNull() bool
	// Scalar accessors. The returned kind is "" on success, otherwise the
	// error kind to record (e.g. int_type, int_parsing).
	asBool(m mode) (bool, string)
	asInt(m mode) (int64, string)
	asFloat(m mode) (float64, string)
	asStr(m mode) (string, string)
	// seq iterates the value as a sequence. ok is false when the value is
	// not sequence-shaped.
	seq(m mode) (seqIter, bool)
	// mapping iterates the value as a string-keyed mapping.
	mapping(m mode) (mapIter, bool)
	// materialize decodes the whole value into a native any tree. The
	// returned kind is "" on success.
	materialize() (any, string)
	// discard consumes an unprocessed value (no-op for native input).
	discard()
	// raw returns a best-effort representation for error excerpts; may be
	// nil for streaming containers.
	raw() any
	// offset returns the byte offset in the input source, -1 when unknown.
	offset() int64
}

type seqIter interface {
	// next returns the next element view, or ok=false at the end.
	next() (value, bool)
}

type mapIter interface {
	// next returns the next key and value view, or ok=false at the end.
	next() (string, value, bool)
}
