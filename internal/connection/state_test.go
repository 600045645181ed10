package connection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"new request", StatusNone, StatusPending, true},
		{"block a stranger", StatusNone, StatusBlocked, true},
		{"cannot accept without a request", StatusNone, StatusAccepted, false},
		{"cannot reject without a request", StatusNone, StatusRejected, false},
		{"accept pending", StatusPending, StatusAccepted, true},
		{"reject pending", StatusPending, StatusRejected, true},
		{"block pending", StatusPending, StatusBlocked, true},
		{"pending cannot go back to none", StatusPending, StatusNone, false},
		{"revoke an accepted connection", StatusAccepted, StatusRejected, true},
		{"block an accepted connection", StatusAccepted, StatusBlocked, true},
		{"accepted cannot re-enter pending", StatusAccepted, StatusPending, false},
		{"change mind after rejecting", StatusRejected, StatusAccepted, true},
		{"block after rejecting", StatusRejected, StatusBlocked, true},
		{"blocked is terminal", StatusBlocked, StatusPending, false},
		{"blocked cannot be accepted", StatusBlocked, StatusAccepted, false},
		{"re-block is allowed", StatusBlocked, StatusBlocked, true},
		{"no self transition for pending", StatusPending, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	assert.False(t, CanTransition(Status("garbage"), StatusAccepted))
}
