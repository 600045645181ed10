package connection

// Status is the lifecycle state of a connection between two users.
type Status string

const (
	StatusNone     Status = "none"
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusBlocked  Status = "blocked"
)

// transitions is the single table of legal status moves. Every mutation in
// the service goes through CanTransition instead of ad hoc per-call checks.
//
// accepted<->rejected is deliberately legal: the receiver may re-respond and
// overwrite an earlier resolution. blocked is terminal apart from idempotent
// re-blocking.
var transitions = map[Status][]Status{
	StatusNone:     {StatusPending, StatusBlocked},
	StatusPending:  {StatusAccepted, StatusRejected, StatusBlocked},
	StatusAccepted: {StatusRejected, StatusBlocked},
	StatusRejected: {StatusAccepted, StatusBlocked},
	StatusBlocked:  {StatusBlocked},
}

func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
