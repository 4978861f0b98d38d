package models

import "fmt"

// PersonData holds every mutable person column. It is the payload of a New or
// ExistingWithUpdates person reference and of the standalone person endpoints.
type PersonData struct {
	FirstName         string       `json:"first_name" db:"first_name"`
	FirstNameLat      *string      `json:"first_name_lat" db:"first_name_lat"`
	LastName          string       `json:"last_name" db:"last_name"`
	LastNameLat       *string      `json:"last_name_lat" db:"last_name_lat"`
	PatronymicName    *string      `json:"patronymic_name" db:"patronymic_name"`
	PatronymicNameLat *string      `json:"patronymic_name_lat" db:"patronymic_name_lat"`
	Sex               Sex          `json:"sex" db:"sex"`
	BirthDate         Date         `json:"birth_date" db:"birth_date"`
	TaxNumber         string       `json:"tax_number" db:"tax_number"`
	Phone             string       `json:"phone" db:"phone"`
	Phone2            *string      `json:"phone2" db:"phone2"`
	Email             string       `json:"email" db:"email"`
	Status            PersonStatus `json:"status" db:"status"`
}

type Person struct {
	ID int64 `json:"id" db:"id"`
	PersonData
}

func (p *PersonData) Validate() error {
	if !p.Sex.Valid() {
		return fmt.Errorf("%w: unknown sex %q", ErrInvalidRequest, p.Sex)
	}
	if p.Status == "" {
		p.Status = PersonActive
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown person status %q", ErrInvalidRequest, p.Status)
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("%w: person birth_date is required", ErrInvalidRequest)
	}
	return nil
}

// validatePersonRef checks the reference shape and, when the reference
// carries attributes, that they are well formed.
func validatePersonRef(ref PersonRef) error {
	if err := ref.CheckShape(); err != nil {
		return err
	}
	if ref.Data != nil {
		return ref.Data.Validate()
	}
	return nil
}

type PersonWithPolicies struct {
	Person
	Policies []PolicyShort `json:"policies"`
}

// SearchResult is the id/label pair returned by person and vehicle lookups.
type SearchResult struct {
	ID    int64  `json:"id" db:"id"`
	Label string `json:"label" db:"label"`
}
