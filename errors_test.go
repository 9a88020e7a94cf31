package cascade_test

import (
	"testing"

	"github.com/fwojciec/cascade"
	"github.com/stretchr/testify/assert"
)

func TestStatusError_Error(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "HTTP 429", (&cascade.StatusError{StatusCode: 429}).Error())
	assert.Equal(t, "HTTP 401: bad key", (&cascade.StatusError{StatusCode: 401, Message: "bad key"}).Error())
}

func TestExhaustedError_Error(t *testing.T) {
	t.Parallel()

	t.Run("exhausted", func(t *testing.T) {
		t.Parallel()
		err := &cascade.ExhaustedError{
			Attempts: []cascade.Attempt{
				{Index: 1, BackendID: "a", Class: cascade.QuotaExceeded, Message: "HTTP 429"},
				{Index: 2, BackendID: "b", Class: cascade.Transient, Message: "network blip"},
			},
			LastMessage: "network blip",
		}
		assert.False(t, err.Aborted())
		assert.Equal(t, "all 2 attempt(s) failed, last transient on b: network blip", err.Error())
		assert.NoError(t, err.Unwrap())
	})

	t.Run("aborted", func(t *testing.T) {
		t.Parallel()
		err := &cascade.ExhaustedError{
			Attempts:    []cascade.Attempt{{Index: 1, BackendID: "a", Class: cascade.AuthFailure, Message: "HTTP 401"}},
			LastMessage: "HTTP 401",
		}
		assert.True(t, err.Aborted())
		assert.Equal(t, "cascade aborted after 1 attempt(s): auth_failure on a: HTTP 401", err.Error())
	})

	t.Run("no attempts", func(t *testing.T) {
		t.Parallel()
		err := &cascade.ExhaustedError{}
		assert.False(t, err.Aborted())
		assert.Equal(t, "cascade exhausted without attempts", err.Error())
	})
}
