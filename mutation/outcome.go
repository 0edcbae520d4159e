package mutation

// Status is the terminal state of a mutation.
type Status int

const (
	StatusSuccess Status = iota + 1
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "pending"
	}
}

// Outcome is what the presentation layer renders after a mutation.
type Outcome struct {
	Status  Status
	Message string
	Err     error
}

// OutcomeOf derives the outcome of an Execute call.
func OutcomeOf(res *Result, err error) Outcome {
	if err != nil {
		return Outcome{Status: StatusError, Message: FailureMessage(err), Err: err}
	}
	msg := DefaultSuccessMessage
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	return Outcome{Status: StatusSuccess, Message: msg}
}

// Succeeded reports whether the outcome is a success.
func (o Outcome) Succeeded() bool { return o.Status == StatusSuccess }
