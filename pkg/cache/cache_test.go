package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsNoop(t *testing.T) {
	ctx := context.Background()
	c := NewService(nil)

	assert.False(t, c.IsAvailable())
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, KeyAllLetters, []string{"a"}, TTLLetters))
	assert.NoError(t, c.Delete(ctx, KeyAllLetters))

	var out []string
	assert.ErrorIs(t, c.Get(ctx, KeyAllLetters, &out), ErrMiss)
}
