package postgres

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	oldState := map[string]any{"status": "open", "title": "Leak", "floor": 2}
	newState := map[string]any{"status": "in_progress", "title": "Leak", "assignee": "u1"}

	changes := Diff(oldState, newState)

	assert.Equal(t, map[string]any{"old": "open", "new": "in_progress"}, changes["status"])
	assert.Equal(t, map[string]any{"old": 2, "new": nil}, changes["floor"])
	assert.Equal(t, map[string]any{"old": nil, "new": "u1"}, changes["assignee"])
	assert.NotContains(t, changes, "title")
}

func TestAuditCompressionRoundTrip(t *testing.T) {
	svc, err := NewAuditService()
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]any{
		"notes": string(bytes.Repeat([]byte("projekt "), 4096)),
	})
	require.NoError(t, err)
	require.Greater(t, len(payload), svc.compressThreshold)

	compressed := svc.encoder.EncodeAll(payload, nil)
	assert.Less(t, len(compressed), len(payload))

	decompressed, err := svc.decoder.DecodeAll(compressed, nil)
	require.NoError(t, err)
	assert.Equal(t, payload, decompressed)
}
