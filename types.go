package pycore

// Severity expresses the severity level for stream enforcement issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// ExtraPolicy controls how unknown model fields are handled.
type ExtraPolicy int

const (
	ExtraIgnore ExtraPolicy = iota // Drop unknown fields.
	ExtraForbid                    // Reject unknown fields with an error.
	ExtraAllow                     // Forward unknown fields into the output.
)

// mode is the per-call strictness. Strict rejects any type mismatch; lax
// applies the documented coercion ladders.
type mode int

const (
	modeLax mode = iota
	modeStrict
)

const defaultMaxDepth = 100

// Config bundles compile-time options. Passed variadically; the last value
// wins.
type Config struct {
	// Title is the subject name used in error reports. Defaults to the
	// schema's "title" entry, falling back to its "type".
	Title string
	// Strict disables the coercion ladders for the whole validator.
	Strict bool
	// MaxDepth bounds recursive descent into nested values. Zero means the
	// default of 100.
	MaxDepth int
	// MaxBytes caps consumed input for text validation. Zero disables the cap.
	MaxBytes int64
	// OnDuplicateKey controls duplicate JSON object keys: Ignore, Warn
	// (record and continue) or Error (halt decoding).
	OnDuplicateKey Severity
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return defaultMaxDepth
	}
	return c.MaxDepth
}

func (c Config) mode() mode {
	if c.Strict {
		return modeStrict
	}
	return modeLax
}
