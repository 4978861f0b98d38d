package models

import (
	"encoding/json"
	"fmt"
)

type RefKind string

const (
	RefExisting            RefKind = "existing"
	RefNew                 RefKind = "new"
	RefExistingWithUpdates RefKind = "existing_with_updates"
)

// Ref points a policy at a person or vehicle. It is a closed union over three
// shapes selected by Kind:
//
//	existing               {"kind":"existing","id":7}
//	new                    {"kind":"new", ...entity fields}
//	existing_with_updates  {"kind":"existing_with_updates","id":7, ...entity fields}
//
// ID is meaningful for existing and existing_with_updates; Data for new and
// existing_with_updates.
type Ref[T any] struct {
	Kind RefKind
	ID   int64
	Data *T
}

type (
	PersonRef  = Ref[PersonData]
	VehicleRef = Ref[VehicleData]
)

func ExistingRef[T any](id int64) Ref[T] {
	return Ref[T]{Kind: RefExisting, ID: id}
}

func NewRef[T any](data T) Ref[T] {
	return Ref[T]{Kind: RefNew, Data: &data}
}

func ExistingWithUpdatesRef[T any](id int64, data T) Ref[T] {
	return Ref[T]{Kind: RefExistingWithUpdates, ID: id, Data: &data}
}

// CheckShape reports whether the fields required by Kind are present.
func (r Ref[T]) CheckShape() error {
	switch r.Kind {
	case RefExisting:
		if r.ID <= 0 {
			return fmt.Errorf("%w: existing reference needs a positive id", ErrInvalidRequest)
		}
	case RefNew:
		if r.Data == nil {
			return fmt.Errorf("%w: new reference carries no attributes", ErrInvalidRequest)
		}
	case RefExistingWithUpdates:
		if r.ID <= 0 {
			return fmt.Errorf("%w: existing_with_updates reference needs a positive id", ErrInvalidRequest)
		}
		if r.Data == nil {
			return fmt.Errorf("%w: existing_with_updates reference carries no attributes", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown reference kind %q", ErrInvalidRequest, r.Kind)
	}
	return nil
}

type refHead struct {
	Kind RefKind `json:"kind"`
	ID   int64   `json:"id,omitempty"`
}

func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	var head refHead
	if err := json.Unmarshal(b, &head); err != nil {
		return fmt.Errorf("%w: malformed reference: %v", ErrInvalidRequest, err)
	}

	out := Ref[T]{Kind: head.Kind, ID: head.ID}
	switch head.Kind {
	case RefExisting:
	case RefNew, RefExistingWithUpdates:
		var data T
		if err := json.Unmarshal(b, &data); err != nil {
			return fmt.Errorf("%w: malformed %s reference: %v", ErrInvalidRequest, head.Kind, err)
		}
		out.Data = &data
	default:
		return fmt.Errorf("%w: unknown reference kind %q", ErrInvalidRequest, head.Kind)
	}

	*r = out
	return nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	head, err := json.Marshal(refHead{Kind: r.Kind, ID: r.ID})
	if err != nil {
		return nil, err
	}
	if r.Data == nil {
		return head, nil
	}
	body, err := json.Marshal(r.Data)
	if err != nil {
		return nil, err
	}
	return mergeObjects(head, body)
}
