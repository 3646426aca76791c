package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "plain error is internal", err: errors.New("boom"), want: KindInternal},
		{name: "not found", err: NotFound("student not found"), want: KindNotFound},
		{name: "wrapped twice", err: fmt.Errorf("outer: %w", Dependency("workout service unavailable", cause)), want: KindDependency},
		{name: "config", err: Config("gyms dataset missing", cause), want: KindConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorKeepsCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Dependency("invalid response from postal service", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "invalid response from postal service: unexpected EOF", err.Error())
	assert.True(t, Is(err, KindDependency))
	assert.False(t, Is(nil, KindInternal))
}
