// SPDX-License-Identifier: MPL-2.0

package resolver

const (
	// StateResolving means no rule matched yet and the next step should run.
	StateResolving StateKind = iota
	// StateSuccess is a terminal result.
	StateSuccess
	// StateFailed means the current branch is exhausted; siblings may still match.
	StateFailed
	// StateError aborts the resolve call.
	StateError
)

type (
	// StateKind tags a State.
	StateKind int

	// State is the outcome of one resolution step.
	State struct {
		kind   StateKind
		info   Info
		result Result
		err    error
	}
)

// String returns the state name.
func (k StateKind) String() string {
	switch k {
	case StateResolving:
		return "resolving"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Resolving hands info to the next step.
func Resolving(info Info) State { return State{kind: StateResolving, info: info} }

// Success finishes the call with result.
func Success(result Result) State { return State{kind: StateSuccess, result: result} }

// Failed marks the branch that produced info as exhausted.
func Failed(info Info) State { return State{kind: StateFailed, info: info} }

// Errored aborts the call with err.
func Errored(err error) State { return State{kind: StateError, err: err} }

// Then runs f on the carried Info when s is Resolving and returns s
// unchanged otherwise.
func (s State) Then(f func(Info) State) State {
	if s.kind != StateResolving {
		return s
	}
	return f(s.info)
}

// IsFinished reports whether s is Success or Error.
func (s State) IsFinished() bool {
	return s.kind == StateSuccess || s.kind == StateError
}

// Kind returns the state tag.
func (s State) Kind() StateKind { return s.kind }

// Info returns the in-flight info of a Resolving or Failed state.
func (s State) Info() Info { return s.info }

// Result returns the payload of a Success state.
func (s State) Result() Result { return s.result }

// Err returns the error of an Error state.
func (s State) Err() error { return s.err }
