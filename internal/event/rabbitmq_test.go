package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroker_WithoutConnection(t *testing.T) {
	var nilBroker *Broker
	assert.False(t, nilBroker.Alive())
	assert.NoError(t, nilBroker.Close())

	empty := &Broker{}
	assert.False(t, empty.Alive())
	assert.NoError(t, empty.Close())
}

func TestPolicyPublisher_HealthWithDeadBroker(t *testing.T) {
	publisher := &PolicyPublisher{conn: &Broker{}}

	health := publisher.HealthCheck()

	assert.False(t, health.IsHealthy)
	assert.Equal(t, PolicyEventsQueue, health.Queue)
	assert.Zero(t, health.MessagesPublished)
	assert.True(t, health.LastPublishTime.IsZero())
}
