package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"insure-service/internal/event"
	"insure-service/internal/metrics"
	"insure-service/internal/models"
	"insure-service/internal/repository"

	"github.com/jmoiron/sqlx"
)

// PolicyEventPublisher receives an event after each committed write.
type PolicyEventPublisher interface {
	PublishPolicyEvent(ctx context.Context, event event.PolicyEvent) error
}

type IPolicyService interface {
	CreatePolicy(ctx context.Context, req *models.PolicyRequest) (int64, error)
	UpdatePolicy(ctx context.Context, id int64, req *models.PolicyRequest) (*models.PolicyFull, error)
	GetPolicy(ctx context.Context, id int64) (*models.PolicyFull, error)
	ListPolicies(ctx context.Context) ([]models.PolicyShort, error)
}

type PolicyServiceDeps struct {
	DB          *sqlx.DB
	Policies    *repository.PolicyRepository
	People      *repository.PersonRepository
	Vehicles    *repository.VehicleRepository
	Details     *repository.PolicyDetailRepository
	Memberships *repository.MembershipRepository
	Publisher   PolicyEventPublisher
	Metrics     *metrics.Metrics
	TxTimeout   time.Duration
}

// PolicyService runs policy create and update as single transactions and
// assembles the read projection.
type PolicyService struct {
	db        *sqlx.DB
	tx        txRunner
	policies  *repository.PolicyRepository
	people    *repository.PersonRepository
	holders   *EntityResolver[models.PersonData]
	variants  *VariantStore
	publisher PolicyEventPublisher
	metrics   *metrics.Metrics
}

func NewPolicyService(deps PolicyServiceDeps) *PolicyService {
	personResolver := NewPersonResolver(deps.People, deps.Metrics)
	vehicleResolver := NewVehicleResolver(deps.Vehicles, deps.Metrics)
	roster := NewMembershipReconciler(personResolver, deps.Memberships)

	return &PolicyService{
		db:        deps.DB,
		tx:        newTxRunner(deps.DB, deps.TxTimeout),
		policies:  deps.Policies,
		people:    deps.People,
		holders:   personResolver,
		variants:  NewVariantStore(deps.Details, deps.Vehicles, deps.Memberships, vehicleResolver, roster),
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
	}
}

// CreatePolicy writes the base row, its side row, memberships and agent links
// in one transaction and returns the new policy id.
func (s *PolicyService) CreatePolicy(ctx context.Context, req *models.PolicyRequest) (int64, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		s.observe("create", req.Data.Type, start, err)
		return 0, err
	}
	slog.Info("Creating policy",
		"policy_type", req.Data.Type,
		"holder_kind", req.Holder.Kind,
		"series", req.Series,
		"number", req.Number)

	var holderID int64
	policyID, err := inTxResult(ctx, s.tx, func(ctx context.Context, tx *sqlx.Tx) (int64, error) {
		var err error
		holderID, err = s.holders.Resolve(ctx, tx, req.Holder)
		if err != nil {
			return 0, fmt.Errorf("holder: %w", err)
		}

		id, err := s.policies.CreateTx(ctx, tx, &models.Policy{
			Type:      req.Data.Type,
			HolderID:  holderID,
			Series:    req.Series,
			Number:    req.Number,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Status:    req.Status,
		})
		if err != nil {
			return 0, err
		}

		if err := s.variants.CreateDetail(ctx, tx, id, req.Data); err != nil {
			return 0, err
		}

		if err := s.policies.AddAgentsTx(ctx, tx, id, dedupeIDs(req.AgentIDs)); err != nil {
			return 0, err
		}
		return id, nil
	})
	s.observe("create", req.Data.Type, start, err)
	if err != nil {
		slog.Error("Failed to create policy", "policy_type", req.Data.Type, "error", err)
		return 0, err
	}

	slog.Info("Successfully created policy",
		"policy_id", policyID,
		"policy_type", req.Data.Type,
		"holder_id", holderID,
		"duration", time.Since(start))
	s.publish(ctx, event.NewPolicyEvent(event.PolicyCreated, policyID, req.Data.Type, holderID))
	return policyID, nil
}

// UpdatePolicy overwrites an existing policy of the same type. A request that
// declares a different type is rejected before anything is written.
func (s *PolicyService) UpdatePolicy(ctx context.Context, id int64, req *models.PolicyRequest) (*models.PolicyFull, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		s.observe("update", req.Data.Type, start, err)
		return nil, err
	}
	slog.Info("Updating policy", "policy_id", id, "policy_type", req.Data.Type)

	full, err := inTxResult(ctx, s.tx, func(ctx context.Context, tx *sqlx.Tx) (*models.PolicyFull, error) {
		stored, err := s.policies.LockTypeTx(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if stored != req.Data.Type {
			return nil, fmt.Errorf("%w: policy %d is %s, request declares %s",
				models.ErrInvalidRequest, id, stored, req.Data.Type)
		}

		holderID, err := s.holders.Resolve(ctx, tx, req.Holder)
		if err != nil {
			return nil, fmt.Errorf("holder: %w", err)
		}

		err = s.policies.UpdateTx(ctx, tx, &models.Policy{
			ID:        id,
			HolderID:  holderID,
			Series:    req.Series,
			Number:    req.Number,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			Status:    req.Status,
		})
		if err != nil {
			return nil, err
		}

		if err := s.variants.OverwriteDetail(ctx, tx, id, req.Data); err != nil {
			return nil, err
		}

		if req.AgentIDs != nil {
			if err := s.policies.RemoveAgentsTx(ctx, tx, id); err != nil {
				return nil, err
			}
			if err := s.policies.AddAgentsTx(ctx, tx, id, dedupeIDs(req.AgentIDs)); err != nil {
				return nil, err
			}
		}

		return s.assemble(ctx, tx, id)
	})
	s.observe("update", req.Data.Type, start, err)
	if err != nil {
		slog.Error("Failed to update policy", "policy_id", id, "error", err)
		return nil, err
	}

	slog.Info("Successfully updated policy",
		"policy_id", id,
		"duration", time.Since(start))
	s.publish(ctx, event.NewPolicyEvent(event.PolicyUpdated, id, full.Details.Type, full.Holder.ID))
	return full, nil
}

func (s *PolicyService) GetPolicy(ctx context.Context, id int64) (*models.PolicyFull, error) {
	return s.assemble(ctx, s.db, id)
}

func (s *PolicyService) ListPolicies(ctx context.Context) ([]models.PolicyShort, error) {
	return s.policies.List(ctx)
}

// assemble builds the read projection: base row, holder, detail for the
// stored type and linked agents.
func (s *PolicyService) assemble(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.PolicyFull, error) {
	policy, err := s.policies.GetByID(ctx, q, id)
	if err != nil {
		return nil, err
	}

	holder, err := s.people.GetByID(ctx, q, policy.HolderID)
	if err != nil {
		return nil, err
	}

	details, err := s.variants.LoadDetail(ctx, q, id, policy.Type)
	if err != nil {
		return nil, err
	}

	agents, err := s.policies.ListAgents(ctx, q, id)
	if err != nil {
		return nil, err
	}

	return &models.PolicyFull{
		ID:        policy.ID,
		Holder:    *holder,
		Series:    policy.Series,
		Number:    policy.Number,
		StartDate: policy.StartDate,
		EndDate:   policy.EndDate,
		Status:    policy.Status,
		Agents:    agents,
		Details:   details,
	}, nil
}

// publish never fails the caller: the transaction has already committed.
func (s *PolicyService) publish(ctx context.Context, ev event.PolicyEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPolicyEvent(ctx, ev); err != nil {
		slog.Warn("Failed to publish policy event",
			"event_type", ev.EventType,
			"policy_id", ev.PolicyID,
			"error", err)
		s.metrics.IncEventPublished(string(ev.EventType), "failed")
		return
	}
	s.metrics.IncEventPublished(string(ev.EventType), "published")
}

func (s *PolicyService) observe(operation string, policyType models.PolicyType, start time.Time, err error) {
	s.metrics.ObservePolicyOperation(operation, string(policyType), outcomeOf(err), time.Since(start))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, models.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, models.ErrInvalidRequest):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeFailure
	}
}
