package output

// Tracker records whether anything has been written to a user-visible channel during a run. The zero value has
// recorded nothing. Trackers are values: every write returns the updated Tracker rather than mutating shared state.
type Tracker struct {
	written bool
}

// HasOutput returns whether any write has been recorded.
func (t Tracker) HasOutput() bool {
	return t.written
}

// marked returns a Tracker that has recorded a write.
func (t Tracker) marked() Tracker {
	return Tracker{written: true}
}
