package services

import (
	"context"
	"fmt"
	"log/slog"

	"insure-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type MembershipStore interface {
	DeleteAllTx(ctx context.Context, tx *sqlx.Tx, policyID int64) (int64, error)
	InsertTx(ctx context.Context, tx *sqlx.Tx, policyID int64, memberIDs []int64) error
}

// MembershipReconciler makes a medassistance policy's stored member set equal
// to the submitted list. The old set is deleted and the new one inserted, so
// the outcome does not depend on what was stored before.
type MembershipReconciler struct {
	people  *EntityResolver[models.PersonData]
	members MembershipStore
}

func NewMembershipReconciler(people *EntityResolver[models.PersonData], members MembershipStore) *MembershipReconciler {
	return &MembershipReconciler{people: people, members: members}
}

// Reconcile resolves every reference, then replaces the association set.
// Every reference is resolved before any association row is touched. The
// returned ids are unique and in first-seen order.
func (m *MembershipReconciler) Reconcile(ctx context.Context, tx *sqlx.Tx, policyID int64, refs []models.PersonRef) ([]int64, error) {
	ids := make([]int64, 0, len(refs))
	for i, ref := range refs {
		id, err := m.people.Resolve(ctx, tx, ref)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	ids = dedupeIDs(ids)

	removed, err := m.members.DeleteAllTx(ctx, tx, policyID)
	if err != nil {
		return nil, err
	}
	if err := m.members.InsertTx(ctx, tx, policyID, ids); err != nil {
		return nil, err
	}

	slog.Info("Reconciled policy members",
		"policy_id", policyID,
		"removed", removed,
		"members", len(ids))
	return ids, nil
}

// dedupeIDs drops repeated ids, keeping the first occurrence.
func dedupeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return ids
	}

	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
