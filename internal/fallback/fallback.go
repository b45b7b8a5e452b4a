// Package fallback runs an ordered list of strategies until one succeeds.
package fallback

// Outcome classifies a strategy failure.
type Outcome uint8

const (
	// Skip records the error and moves on: the strategy does not apply.
	Skip Outcome = iota
	// Suppress records the error, marks a hard failure and moves on.
	Suppress
	// Abort stops the run and returns the error as is.
	Abort
)

// Result describes how a run went.
type Result struct {
	Winner int     // index of the strategy that succeeded, -1 if none
	Causes []error // every recorded failure, in attempt order
	Hard   bool    // at least one failure was Suppress
}

// Run calls try for each strategy in order and returns the first success.
// classify decides what each failure means. When nothing succeeds, Run
// returns the zero value, the recorded failures and the aborting error (if
// any).
func Run[S, T any](strategies []S, try func(S) (T, error), classify func(error) Outcome) (T, Result, error) {
	res := Result{Winner: -1}
	for i, s := range strategies {
		v, err := try(s)
		if err == nil {
			res.Winner = i
			return v, res, nil
		}
		switch classify(err) {
		case Abort:
			var zero T
			return zero, res, err
		case Suppress:
			res.Hard = true
		}
		res.Causes = append(res.Causes, err)
	}
	var zero T
	return zero, res, nil
}
