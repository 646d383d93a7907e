package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() OrderEvent {
	return OrderEvent{
		EventID:   "evt-1",
		OrderNo:   "SP000000001",
		UserID:    7,
		Total:     1500,
		ItemCount: 2,
		CreatedAt: time.Now(),
	}
}

func TestOrderEventValidate(t *testing.T) {
	assert.NoError(t, validEvent().Validate())

	cases := []struct {
		name   string
		mutate func(*OrderEvent)
	}{
		{"missing event id", func(e *OrderEvent) { e.EventID = "" }},
		{"missing order no", func(e *OrderEvent) { e.OrderNo = "" }},
		{"missing user", func(e *OrderEvent) { e.UserID = 0 }},
		{"negative total", func(e *OrderEvent) { e.Total = -1 }},
		{"zero items", func(e *OrderEvent) { e.ItemCount = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := validEvent()
			tc.mutate(&ev)
			assert.Error(t, ev.Validate())
		})
	}
}

func TestParseOrderEvent(t *testing.T) {
	ev := validEvent()

	parsed, err := parseOrderEvent(map[string]interface{}{
		"event_id": ev.EventID,
		"payload":  `{"event_id":"evt-1","order_no":"SP000000001","user_id":7,"total":1500,"item_count":2}`,
	})
	require.NoError(t, err)
	assert.Equal(t, ev.EventID, parsed.EventID)
	assert.Equal(t, ev.OrderNo, parsed.OrderNo)
	assert.Equal(t, ev.Total, parsed.Total)
}

func TestParseOrderEventRejectsDirtyPayloads(t *testing.T) {
	_, err := parseOrderEvent(map[string]interface{}{"event_id": "x"})
	assert.Error(t, err)

	_, err = parseOrderEvent(map[string]interface{}{"payload": "not json"})
	assert.Error(t, err)

	_, err = parseOrderEvent(map[string]interface{}{"payload": `{"order_no":"SP1"}`})
	assert.Error(t, err)
}
