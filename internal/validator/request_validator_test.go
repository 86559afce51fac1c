package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name        string `json:"name" validate:"max=5"`
	AddressType string `json:"addressType" validate:"omitempty,oneof=R J"`
	Agreed      *bool  `json:"agreed" validate:"required"`
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()
	yes := true

	assert.NoError(t, v.Validate(&sampleRequest{Name: "abc", Agreed: &yes}))
	assert.NoError(t, v.Validate(&sampleRequest{AddressType: "J", Agreed: &yes}))

	err := v.Validate(&sampleRequest{Name: "abcdef", AddressType: "X"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "name:max")
	assert.Contains(t, err.Error(), "addressType:oneof")
	assert.Contains(t, err.Error(), "agreed:required")
}
