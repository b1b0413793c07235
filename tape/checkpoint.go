package tape

import "github.com/pkg/errors"

// CheckpointCallback is re-invoked during reverse propagation in place
// of replaying a region that was deliberately not recorded in full —
// the trade-compute-for-memory mechanism of §5. ComputeAdjoint runs
// with the tape's output adjoints for the checkpointed region already
// available (via GetAndResetOutputAdjoint on the slots it registered
// as outputs) and is expected to increment the adjoints of whatever
// slots it registered as inputs.
type CheckpointCallback interface {
	ComputeAdjoint(t *Tape)
}

// InsertCallback associates cb with the tape's current position, so
// that ComputeAdjointsTo invokes it in place of stepping through the
// (unrecorded) statements that would otherwise lie there. Mirrors
// original_source's Tape::insertCallback.
func (t *Tape) InsertCallback(cb CheckpointCallback) {
	t.checkpoints = append(t.checkpoints, checkpointEntry{pos: t.GetPosition(), cb: cb})
}

// PushCallback pushes cb onto the tape's callback stack, used while
// recording to track the innermost enclosing external-function call
// (mirrors original_source's Tape::pushCallback, used by external
// function recordings that may themselves call back into active code).
func (t *Tape) PushCallback(cb CheckpointCallback) {
	t.callbackStack = append(t.callbackStack, cb)
}

// PopCallback removes and returns the top of the callback stack.
func (t *Tape) PopCallback() (CheckpointCallback, error) {
	n := len(t.callbackStack)
	if n == 0 {
		return nil, errors.Wrap(ErrEmptyCallbackStack, "PopCallback")
	}
	cb := t.callbackStack[n-1]
	t.callbackStack = t.callbackStack[:n-1]
	return cb, nil
}

// GetLastCallback returns the top of the callback stack without
// removing it.
func (t *Tape) GetLastCallback() (CheckpointCallback, error) {
	n := len(t.callbackStack)
	if n == 0 {
		return nil, errors.Wrap(ErrEmptyCallbackStack, "GetLastCallback")
	}
	return t.callbackStack[n-1], nil
}
