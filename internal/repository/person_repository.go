package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"insure-service/internal/models"
	"insure-service/internal/utils"

	"github.com/jmoiron/sqlx"
)

const personColumns = `id, first_name, first_name_lat, last_name, last_name_lat, patronymic_name, patronymic_name_lat,
		sex, birth_date, tax_number, phone, phone2, email, status`

type PersonRepository struct {
	db *sqlx.DB
}

func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// CreateTx inserts a person and returns the generated id.
func (r *PersonRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, data *models.PersonData) (int64, error) {
	start := time.Now()
	query := `
		INSERT INTO person (
			first_name, first_name_lat, last_name, last_name_lat, patronymic_name, patronymic_name_lat,
			sex, birth_date, tax_number, phone, phone2, email, status
		) VALUES (
			:first_name, :first_name_lat, :last_name, :last_name_lat, :patronymic_name, :patronymic_name_lat,
			:sex, :birth_date, :tax_number, :phone, :phone2, :email, :status
		) RETURNING id`

	bound, args, err := tx.BindNamed(query, data)
	if err != nil {
		return 0, fmt.Errorf("failed to bind person insert: %w", err)
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, bound, args...).Scan(&id); err != nil {
		slog.Error("Failed to create person", "last_name", data.LastName, "error", err)
		return 0, ClassifyStoreError("create person", err)
	}

	slog.Info("Created person", "person_id", id, "duration", time.Since(start))
	return id, nil
}

// UpdateTx overwrites every mutable column of the person at id.
func (r *PersonRepository) UpdateTx(ctx context.Context, tx *sqlx.Tx, id int64, data *models.PersonData) error {
	start := time.Now()
	query := `
		UPDATE person SET
			first_name = :first_name,
			first_name_lat = :first_name_lat,
			last_name = :last_name,
			last_name_lat = :last_name_lat,
			patronymic_name = :patronymic_name,
			patronymic_name_lat = :patronymic_name_lat,
			sex = :sex,
			birth_date = :birth_date,
			tax_number = :tax_number,
			phone = :phone,
			phone2 = :phone2,
			email = :email,
			status = :status
		WHERE id = :id`

	bound, args, err := tx.BindNamed(query, models.Person{ID: id, PersonData: *data})
	if err != nil {
		return fmt.Errorf("failed to bind person update: %w", err)
	}

	if _, err := utils.ExecWithCheck(ctx, tx, bound, utils.ExecUpdate, args...); err != nil {
		slog.Warn("Failed to update person", "person_id", id, "error", err)
		return ClassifyStoreError(fmt.Sprintf("update person %d", id), err)
	}

	slog.Info("Updated person", "person_id", id, "duration", time.Since(start))
	return nil
}

func (r *PersonRepository) GetByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Person, error) {
	var person models.Person
	query := `SELECT ` + personColumns + ` FROM person WHERE id = $1`

	if err := sqlx.GetContext(ctx, q, &person, query, id); err != nil {
		return nil, ClassifyStoreError(fmt.Sprintf("get person %d", id), err)
	}
	return &person, nil
}

// GetPerson reads outside any transaction.
func (r *PersonRepository) GetPerson(ctx context.Context, id int64) (*models.Person, error) {
	return r.GetByID(ctx, r.db, id)
}

func (r *PersonRepository) List(ctx context.Context) ([]models.Person, error) {
	start := time.Now()
	people := []models.Person{}
	query := `SELECT ` + personColumns + ` FROM person ORDER BY last_name, first_name, id`

	if err := sqlx.SelectContext(ctx, r.db, &people, query); err != nil {
		slog.Error("Failed to list people", "error", err)
		return nil, ClassifyStoreError("list people", err)
	}

	slog.Debug("Listed people", "count", len(people), "duration", time.Since(start))
	return people, nil
}

// Search matches "first last" case-insensitively.
func (r *PersonRepository) Search(ctx context.Context, term string) ([]models.SearchResult, error) {
	results := []models.SearchResult{}
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
	query := `
		SELECT id, first_name || ' ' || last_name AS label
		FROM person
		WHERE LOWER(first_name || ' ' || last_name) LIKE $1
		ORDER BY label
		LIMIT 50`

	if err := sqlx.SelectContext(ctx, r.db, &results, query, pattern); err != nil {
		return nil, ClassifyStoreError("search people", err)
	}
	return results, nil
}
