package handler

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerTags(v, customTags))

	assert.NoError(t, v.Var("happy", "mood"))
	assert.Error(t, v.Var("grumpy", "mood"))
}

func TestRegisterTags_ReportsFailure(t *testing.T) {
	err := registerTags(validator.New(), map[string]validator.Func{"": customTags["mood"]})
	assert.Error(t, err)
}
