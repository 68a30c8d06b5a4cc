package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPriority(t *testing.T) {
	assert.Equal(t, uint8(1), taskPriority(map[string]interface{}{}))
	assert.Equal(t, uint8(7), taskPriority(map[string]interface{}{"priority": 7}))
	assert.Equal(t, uint8(10), taskPriority(map[string]interface{}{"priority": 42}))
	assert.Equal(t, uint8(0), taskPriority(map[string]interface{}{"priority": -3}))
	// JSON numbers decode as float64 and fall back to the default
	assert.Equal(t, uint8(1), taskPriority(map[string]interface{}{"priority": 5.0}))
}

func TestDecodeTask(t *testing.T) {
	task, err := decodeTask([]byte(`{"type":"user_registered","user_id":"u-1"}`))
	require.NoError(t, err)
	assert.Equal(t, "user_registered", task["type"])

	_, err = decodeTask([]byte(`not json`))
	assert.Error(t, err)

	_, err = decodeTask([]byte(`null`))
	assert.Error(t, err)
}

func TestBindings(t *testing.T) {
	assert.Equal(t, RoutingKeyNotification, bindings[NotificationQueueName])
	assert.Equal(t, RoutingKeyUserRegistered, bindings[WalletQueueName])
}
