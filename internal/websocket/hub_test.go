package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"casemanager/backend/internal/domain"
)

func nextBroadcast(t *testing.T, hub *Hub) map[string]any {
	t.Helper()

	select {
	case data := <-hub.broadcast:
		var event map[string]any
		require.NoError(t, json.Unmarshal(data, &event))
		return event
	default:
		t.Fatal("no event in broadcast queue")
		return nil
	}
}

func TestNotifyCaseCreatedPayload(t *testing.T) {
	hub := NewHub(nil, nil, zap.NewNop())

	hub.NotifyCaseCreated(&domain.Case{
		CaseID:         7,
		CaseName:       "New claim",
		AssignedUserID: 3,
	}, "jsmith")

	event := nextBroadcast(t, hub)
	assert.Equal(t, string(EventCaseCreated), event["type"])

	payload, ok := event["case"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), payload["caseId"])
	assert.Equal(t, "New claim", payload["caseName"])
	assert.Equal(t, float64(3), payload["assignedUserId"])
	assert.Equal(t, "jsmith", payload["assignedUserName"])
	assert.Contains(t, payload, "timestamp")
}

func TestBroadcastChunkCarriesSession(t *testing.T) {
	hub := NewHub(nil, nil, zap.NewNop())

	hub.BroadcastChunk("sess-1", "片段")
	event := nextBroadcast(t, hub)
	assert.Equal(t, string(EventMessageChunk), event["type"])
	assert.Equal(t, "sess-1", event["sessionId"])
	assert.Equal(t, "片段", event["chunk"])

	hub.BroadcastComplete("sess-1")
	event = nextBroadcast(t, hub)
	assert.Equal(t, string(EventMessageComplete), event["type"])
	assert.Equal(t, "sess-1", event["sessionId"])
}
