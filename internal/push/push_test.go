package push

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopSend(t *testing.T) {
	assert.NoError(t, Noop{}.Send(context.Background(), "tok", Message{Title: "hi"}))
}

func TestInvalidTokenWrapping(t *testing.T) {
	err := fmt.Errorf("%w: %v", ErrInvalidToken, errors.New("requested entity was not found"))
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, IsInvalidTokenError(errors.New("deadline exceeded")))
}
