package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"insure-service/internal/models"
	"insure-service/internal/repository"

	"github.com/jmoiron/sqlx"
)

type IPersonService interface {
	ListPeople(ctx context.Context) ([]models.Person, error)
	CreatePerson(ctx context.Context, data *models.PersonData) (*models.Person, error)
	GetPerson(ctx context.Context, id int64) (*models.PersonWithPolicies, error)
	UpdatePerson(ctx context.Context, id int64, data *models.PersonData) (*models.Person, error)
	SearchPeople(ctx context.Context, term string) ([]models.SearchResult, error)
}

type PersonService struct {
	tx       txRunner
	people   *repository.PersonRepository
	policies *repository.PolicyRepository
}

func NewPersonService(db *sqlx.DB, people *repository.PersonRepository, policies *repository.PolicyRepository, txTimeout time.Duration) IPersonService {
	return &PersonService{
		tx:       newTxRunner(db, txTimeout),
		people:   people,
		policies: policies,
	}
}

func (s *PersonService) ListPeople(ctx context.Context) ([]models.Person, error) {
	return s.people.List(ctx)
}

// CreatePerson uses the same insert as a new holder or member reference.
func (s *PersonService) CreatePerson(ctx context.Context, data *models.PersonData) (*models.Person, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return inTxResult(ctx, s.tx, func(ctx context.Context, tx *sqlx.Tx) (*models.Person, error) {
		id, err := s.people.CreateTx(ctx, tx, data)
		if err != nil {
			return nil, err
		}
		return s.people.GetByID(ctx, tx, id)
	})
}

func (s *PersonService) GetPerson(ctx context.Context, id int64) (*models.PersonWithPolicies, error) {
	person, err := s.people.GetPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	policies, err := s.policies.ListForPerson(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.PersonWithPolicies{Person: *person, Policies: policies}, nil
}

func (s *PersonService) UpdatePerson(ctx context.Context, id int64, data *models.PersonData) (*models.Person, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	person, err := inTxResult(ctx, s.tx, func(ctx context.Context, tx *sqlx.Tx) (*models.Person, error) {
		if err := s.people.UpdateTx(ctx, tx, id, data); err != nil {
			return nil, err
		}
		return s.people.GetByID(ctx, tx, id)
	})
	if err != nil {
		slog.Warn("Failed to update person", "person_id", id, "error", err)
		return nil, err
	}
	return person, nil
}

func (s *PersonService) SearchPeople(ctx context.Context, term string) ([]models.SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("%w: search term is required", models.ErrInvalidRequest)
	}
	return s.people.Search(ctx, term)
}
