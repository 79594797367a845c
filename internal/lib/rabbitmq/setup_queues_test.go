package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetNotificationQueues(t *testing.T) {
	queues := GetNotificationQueues()

	assert.Len(t, queues, 2)

	keys := make(map[string]string, len(queues))
	for _, q := range queues {
		assert.NotEmpty(t, q.QueueName)
		keys[q.RoutingKey] = q.QueueName
	}

	assert.Equal(t, "notification.reset", keys[RoutingKeyResetRequested])
	assert.Equal(t, "notification.status", keys[RoutingKeyStatusChanged])
}
