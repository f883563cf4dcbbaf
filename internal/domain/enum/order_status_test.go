package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusPreparing, true},
		{OrderStatusPending, OrderStatusReady, true},
		{OrderStatusPreparing, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatusCanceled, true},
		{OrderStatusReady, OrderStatusCanceled, true},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusReady, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusPending, false},
		{OrderStatusReady, OrderStatusReady, false},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatusJSON(t *testing.T) {
	b, err := json.Marshal(OrderStatusReady)
	require.NoError(t, err)
	assert.JSONEq(t, `"READY"`, string(b))

	var s OrderStatus
	require.NoError(t, json.Unmarshal([]byte(`"DELIVERED"`), &s))
	assert.Equal(t, OrderStatusDelivered, s)

	require.NoError(t, json.Unmarshal([]byte(`1`), &s))
	assert.Equal(t, OrderStatusPreparing, s)

	assert.Error(t, json.Unmarshal([]byte(`"LOST"`), &s))
}

func TestOrderTypeJSON(t *testing.T) {
	var ot OrderType
	require.NoError(t, json.Unmarshal([]byte(`"TAKEAWAY"`), &ot))
	assert.Equal(t, OrderTypeTakeaway, ot)
	assert.Equal(t, "DELIVERY", OrderTypeDelivery.String())
}
