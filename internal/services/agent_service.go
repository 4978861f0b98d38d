package services

import (
	"context"

	"insure-service/internal/models"
	"insure-service/internal/repository"
)

type IAgentService interface {
	ListAgents(ctx context.Context) ([]models.Agent, error)
}

type AgentService struct {
	repo *repository.AgentRepository
}

func NewAgentService(repo *repository.AgentRepository) IAgentService {
	return &AgentService{repo: repo}
}

func (s *AgentService) ListAgents(ctx context.Context) ([]models.Agent, error) {
	return s.repo.List(ctx)
}
