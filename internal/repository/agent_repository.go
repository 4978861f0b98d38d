package repository

import (
	"context"

	"insure-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type AgentRepository struct {
	db *sqlx.DB
}

func NewAgentRepository(db *sqlx.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) List(ctx context.Context) ([]models.Agent, error) {
	agents := []models.Agent{}
	query := `SELECT id, full_name FROM agent ORDER BY full_name`

	if err := sqlx.SelectContext(ctx, r.db, &agents, query); err != nil {
		return nil, ClassifyStoreError("list agents", err)
	}
	return agents, nil
}
