package criteria

type Status string

const (
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
	StatusNotFound  Status = "not_found"
	StatusAmbiguous Status = "ambiguous"
	StatusFailed    Status = "failed"
)

// Outcome is the structured result of a mutation. Store errors end up here as
// StatusFailed; they are never returned to the caller as Go errors.
type Outcome struct {
	Status  Status   `json:"status"`
	Count   int64    `json:"count"`
	IDs     []int64  `json:"ids,omitempty"`
	Skipped []string `json:"skipped_fields,omitempty"`
	Failed  []int64  `json:"failed_ids,omitempty"`
	Message string   `json:"message"`
	Err     error    `json:"-"`
}

func (o Outcome) OK() bool { return o.Status == StatusDone }

func cancelled(action string) Outcome {
	return Outcome{Status: StatusCancelled, Message: action + " cancelada: confirmação necessária."}
}

func failed(msg string, err error) Outcome {
	return Outcome{Status: StatusFailed, Message: msg, Err: err}
}

func notFound(msg string) Outcome {
	return Outcome{Status: StatusNotFound, Message: msg}
}
