package event

// Invocation is the mutable state a dispatch shares with its filters: the
// positional parameters handed to the target and the output slot the target
// fills. Filters receive it by pointer, so edits made by a before filter
// reach the target and after filters can rewrite the final output.
type Invocation struct {
	// Params are the positional arguments for the target. Before filters
	// may rewrite or replace individual entries or the whole slice.
	Params []interface{}

	// Output holds the target's result. It is nil until the target has
	// run; writing it from a before filter has no effect on the target.
	Output interface{}
}
