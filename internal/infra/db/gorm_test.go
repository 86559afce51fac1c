package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DSNが壊れていれば接続しに行かない
func TestConnect_RejectsInvalidDSN(t *testing.T) {
	_, err := Connect("host=localhost port")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid DATABASE_URL")
}
