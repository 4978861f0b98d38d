package repository

import (
	"context"
	"fmt"
	"log/slog"

	"insure-service/internal/models"
	"insure-service/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// MembershipRepository manages medassistance_policy_member, the
// (policy, member) association with a composite primary key.
type MembershipRepository struct {
	db *sqlx.DB
}

func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) DeleteAllTx(ctx context.Context, tx *sqlx.Tx, policyID int64) (int64, error) {
	query := `DELETE FROM medassistance_policy_member WHERE medassistance_policy_id = $1`

	removed, err := utils.ExecWithCheck(ctx, tx, query, utils.ExecDelete, policyID)
	if err != nil {
		return 0, ClassifyStoreError(fmt.Sprintf("clear members of policy %d", policyID), err)
	}
	return removed, nil
}

// InsertTx bulk-inserts member ids in one statement. Callers pass a
// duplicate-free list.
func (r *MembershipRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, policyID int64, memberIDs []int64) error {
	if len(memberIDs) == 0 {
		return nil
	}
	query := `
		INSERT INTO medassistance_policy_member (medassistance_policy_id, member_id)
		SELECT $1, member_id FROM unnest($2::bigint[]) AS member_id`

	if _, err := tx.ExecContext(ctx, query, policyID, pq.Array(memberIDs)); err != nil {
		slog.Error("Failed to insert members", "policy_id", policyID, "count", len(memberIDs), "error", err)
		return ClassifyStoreError(fmt.Sprintf("insert members of policy %d", policyID), err)
	}
	return nil
}

func (r *MembershipRepository) ListMembers(ctx context.Context, q sqlx.QueryerContext, policyID int64) ([]models.Person, error) {
	members := []models.Person{}
	query := `
		SELECT p.id, p.first_name, p.first_name_lat, p.last_name, p.last_name_lat, p.patronymic_name,
			p.patronymic_name_lat, p.sex, p.birth_date, p.tax_number, p.phone, p.phone2, p.email, p.status
		FROM person p
		JOIN medassistance_policy_member m ON m.member_id = p.id
		WHERE m.medassistance_policy_id = $1
		ORDER BY p.id`

	if err := sqlx.SelectContext(ctx, q, &members, query, policyID); err != nil {
		return nil, ClassifyStoreError(fmt.Sprintf("list members of policy %d", policyID), err)
	}
	return members, nil
}
