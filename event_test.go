package cascade_test

import (
	"testing"

	"github.com/fwojciec/cascade"
	"github.com/stretchr/testify/assert"
)

func TestEventTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	events := []cascade.Event{
		cascade.EventAttemptStart{Attempt: 1, Total: 2, Backend: cascade.Backend{ID: "a"}},
		cascade.EventAttemptSuccess{Attempt: 1, Total: 2, Backend: cascade.Backend{ID: "a"}},
		cascade.EventAttemptFailure{Record: cascade.Attempt{Index: 1, BackendID: "a"}, Total: 2},
	}
	assert.Len(t, events, 3, "update slice and switch when adding new Event types")
	for _, e := range events {
		switch e.(type) {
		case cascade.EventAttemptStart:
		case cascade.EventAttemptSuccess:
		case cascade.EventAttemptFailure:
		default:
			t.Errorf("unhandled event type %T", e)
		}
	}
}
