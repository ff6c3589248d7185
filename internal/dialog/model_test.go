package dialog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetString(t *testing.T) {
	p := Payload{"username": "alice", "n": 5}

	s, ok := GetString(p, "username")
	assert.True(t, ok)
	assert.Equal(t, "alice", s)

	_, ok = GetString(p, "missing")
	assert.False(t, ok)

	_, ok = GetString(p, "n")
	assert.False(t, ok)
}

func TestGetInt64AfterJSONRoundTrip(t *testing.T) {
	// payload хранится в jsonb, числа возвращаются как float64
	raw, err := json.Marshal(Payload{"req_id": int64(42)})
	require.NoError(t, err)

	var p Payload
	require.NoError(t, json.Unmarshal(raw, &p))

	id, ok := GetInt64(p, "req_id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = GetInt64(p, "missing")
	assert.False(t, ok)
}
