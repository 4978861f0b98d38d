package event

import (
	"time"

	"insure-service/internal/models"

	"github.com/google/uuid"
)

const PolicyEventsQueue string = "policy_events"

type PolicyEventType string

const (
	PolicyCreated PolicyEventType = "policy_created"
	PolicyUpdated PolicyEventType = "policy_updated"
)

// PolicyEvent is emitted after a policy transaction commits.
type PolicyEvent struct {
	ID         string            `json:"id"`
	EventType  PolicyEventType   `json:"event_type"`
	PolicyID   int64             `json:"policy_id"`
	PolicyType models.PolicyType `json:"policy_type"`
	HolderID   int64             `json:"holder_id"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewPolicyEvent(eventType PolicyEventType, policyID int64, policyType models.PolicyType, holderID int64) PolicyEvent {
	return PolicyEvent{
		ID:         uuid.NewString(),
		EventType:  eventType,
		PolicyID:   policyID,
		PolicyType: policyType,
		HolderID:   holderID,
		OccurredAt: time.Now().UTC(),
	}
}
