package event

// Phase identifies when a filter runs relative to the event target.
type Phase string

const (
	// PhaseBefore filters run ahead of the target lookup. They may
	// rewrite Invocation.Params; Output is still empty at that point.
	PhaseBefore Phase = "before"

	// PhaseAfter filters run once the target has produced its output.
	// They may replace Invocation.Output.
	PhaseAfter Phase = "after"
)

// Known reports whether p is one of the two dispatch phases. Hook accepts
// unknown phases (with a diagnostic); such chains are never executed by Run.
func (p Phase) Known() bool {
	return p == PhaseBefore || p == PhaseAfter
}

func (p Phase) String() string {
	return string(p)
}
