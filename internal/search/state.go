package search

// State is what a presenter renders. It is only ever produced by Reduce.
type State struct {
	Query       string
	Open        bool
	Loading     bool
	HasNoResult bool
	Results     ResultSet
	Err         error

	// Cycle identifies the search cycle the state belongs to. Zero means
	// no cycle is pending or shown.
	Cycle uint64
}

// Action is a state transition. The concrete types below are the only
// implementations.
type Action interface {
	isAction()
}

// QueryChanged records new input text. An empty query resets the session.
type QueryChanged struct {
	Query string
}

// CycleStarted marks the start of a fetch cycle for Query.
type CycleStarted struct {
	Cycle uint64
	Query string
}

// CycleSucceeded carries the results of a cycle.
type CycleSucceeded struct {
	Cycle   uint64
	Results ResultSet
}

// CycleFailed carries the error that ended a cycle.
type CycleFailed struct {
	Cycle uint64
	Err   error
}

// Closed dismisses the result list.
type Closed struct{}

func (QueryChanged) isAction()   {}
func (CycleStarted) isAction()   {}
func (CycleSucceeded) isAction() {}
func (CycleFailed) isAction()    {}
func (Closed) isAction()         {}

// Reduce applies a to s and returns the next state. Completions whose
// Cycle is not the current one are ignored.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case QueryChanged:
		if a.Query == "" {
			return State{}
		}
		s.Query = a.Query
		return s

	case CycleStarted:
		// Previous results stay visible until the cycle completes.
		s.Query = a.Query
		s.Open = true
		s.Loading = true
		s.HasNoResult = false
		s.Err = nil
		s.Cycle = a.Cycle
		return s

	case CycleSucceeded:
		if a.Cycle == 0 || a.Cycle != s.Cycle {
			return s
		}
		s.Loading = false
		s.Results = a.Results
		s.HasNoResult = a.Results.Empty()
		s.Err = nil
		return s

	case CycleFailed:
		if a.Cycle == 0 || a.Cycle != s.Cycle {
			return s
		}
		s.Loading = false
		s.Results = ResultSet{}
		s.HasNoResult = false
		s.Err = a.Err
		return s

	case Closed:
		return State{Query: s.Query}
	}

	return s
}
