package pycore

// state is the per-call validation context: current path, strictness mode,
// depth counter and the error accumulator. It is owned exclusively by one
// validation call and never shared.
type state struct {
	mode     mode
	path     Loc
	errs     []LineError
	depth    int
	maxDepth int
	// fatal marks an unrecoverable condition (recursion limit, broken token
	// stream). Once set, no further errors are recorded and nodes unwind.
	fatal bool
}

func newState(cfg Config) *state {
	return &state{mode: cfg.mode(), maxDepth: cfg.maxDepth()}
}

func (st *state) pushField(name string) { st.path = append(st.path, name) }
func (st *state) pushIndex(i int)       { st.path = append(st.path, i) }
func (st *state) pop()                  { st.path = st.path[:len(st.path)-1] }

// loc snapshots the current path for an error record.
func (st *state) loc() Loc {
	if len(st.path) == 0 {
		return nil
	}
	return append(Loc{}, st.path...)
}

// record appends a line error at the current path. Suppressed after a fatal
// condition so a broken stream does not cascade into bogus semantic errors.
func (st *state) record(kind string, ctx map[string]any, input any, offset int64) {
	if st.fatal {
		return
	}
	st.errs = append(st.errs, newLineError(kind, st.loc(), ctx, input, offset))
}

// recordValue is record with the input excerpt and offset taken from a value
// view.
func (st *state) recordValue(kind string, ctx map[string]any, v value) {
	st.record(kind, ctx, v.raw(), v.offset())
}

// enter guards one level of recursive descent. It returns false once the
// depth limit is exceeded, recording a dedicated error and aborting the call.
func (st *state) enter(v value) bool {
	st.depth++
	if st.depth > st.maxDepth {
		st.record(KindRecursionLoop, map[string]any{"limit": st.maxDepth}, nil, v.offset())
		st.fatal = true
		return false
	}
	return true
}

func (st *state) leave() { st.depth-- }

// fork creates a state sharing depth budget but accumulating errors
// separately, for union candidate trials.
func (st *state) fork(m mode) *state {
	return &state{mode: m, path: st.path, depth: st.depth, maxDepth: st.maxDepth}
}
