package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMd5ThenHex(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", Md5ThenHex(nil))
	assert.Equal(t, "098f6bcd4621d373cade4e832627b4f6", Md5ThenHex([]byte("test")))
}

func TestHashUUID_Deterministic(t *testing.T) {
	a := HashUUID(map[string]int{"x": 1})
	b := HashUUID(map[string]int{"x": 1})
	require.NotEmpty(t, a)
	assert.Equal(t, a, b)
	assert.Len(t, a, 36)

	c := HashUUID(map[string]int{"x": 2})
	assert.NotEqual(t, a, c)
}

func TestRunID(t *testing.T) {
	cfg := struct{ Margin float64 }{Margin: 2}
	a := RunID("PAT-001", cfg)
	b := RunID("PAT-001", cfg)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, RunID("PAT-002", cfg))
	assert.NotEqual(t, a, RunID("PAT-001", struct{ Margin float64 }{Margin: 3}))
}
