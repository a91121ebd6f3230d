package lifecycle

// CleanupResult is the outcome of one best-effort delete step.
// A failed cleanup is logged and counted but never changes the response.
type CleanupResult struct {
	Step string
	Err  error
}

// OK reports whether the step succeeded.
func (r CleanupResult) OK() bool {
	return r.Err == nil
}
