package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Request side. The variant fields sit next to the common ones in the JSON
// body and are selected by "policy_type".

type GreenCardData struct {
	Territory     string     `json:"territory"`
	PeriodInUnits int32      `json:"period_in_units"`
	PeriodUnit    PeriodUnit `json:"period_unit"`
	Premium       int32      `json:"premium"`
	Vehicle       VehicleRef `json:"vehicle"`
}

type MedassistanceData struct {
	Territory  string      `json:"territory"`
	PeriodDays int32       `json:"period_days"`
	Premium    int32       `json:"premium"`
	Payout     int32       `json:"payout"`
	Program    string      `json:"program"`
	Members    []PersonRef `json:"members"`
}

type OsagoData struct {
	PeriodInUnits int32      `json:"period_in_units"`
	PeriodUnit    PeriodUnit `json:"period_unit"`
	Zone          OsagoZone  `json:"zone"`
	Exempt        string     `json:"exempt"`
	Premium       int32      `json:"premium"`
	Vehicle       VehicleRef `json:"vehicle"`
}

// PolicyData is the closed set of variant payloads. Exactly one of the
// pointers matching Type is set.
type PolicyData struct {
	Type          PolicyType
	GreenCard     *GreenCardData
	Medassistance *MedassistanceData
	Osago         *OsagoData
}

func GreenCardPolicy(d GreenCardData) PolicyData {
	return PolicyData{Type: PolicyTypeGreenCard, GreenCard: &d}
}

func MedassistancePolicy(d MedassistanceData) PolicyData {
	return PolicyData{Type: PolicyTypeMedassistance, Medassistance: &d}
}

func OsagoPolicy(d OsagoData) PolicyData {
	return PolicyData{Type: PolicyTypeOsago, Osago: &d}
}

type policyTypeHead struct {
	Type PolicyType `json:"policy_type"`
}

func (p *PolicyData) UnmarshalJSON(b []byte) error {
	var head policyTypeHead
	if err := json.Unmarshal(b, &head); err != nil {
		return fmt.Errorf("%w: malformed policy payload: %v", ErrInvalidRequest, err)
	}

	out := PolicyData{Type: head.Type}
	var err error
	switch head.Type {
	case PolicyTypeGreenCard:
		out.GreenCard = &GreenCardData{}
		err = json.Unmarshal(b, out.GreenCard)
	case PolicyTypeMedassistance:
		out.Medassistance = &MedassistanceData{}
		err = json.Unmarshal(b, out.Medassistance)
	case PolicyTypeOsago:
		out.Osago = &OsagoData{}
		err = json.Unmarshal(b, out.Osago)
	default:
		return fmt.Errorf("%w: unknown policy_type %q", ErrInvalidRequest, head.Type)
	}
	if err != nil {
		return fmt.Errorf("%w: malformed %s payload: %v", ErrInvalidRequest, head.Type, err)
	}

	*p = out
	return nil
}

func (p PolicyData) MarshalJSON() ([]byte, error) {
	head, err := json.Marshal(policyTypeHead{Type: p.Type})
	if err != nil {
		return nil, err
	}
	var body any
	switch p.Type {
	case PolicyTypeGreenCard:
		body = p.GreenCard
	case PolicyTypeMedassistance:
		body = p.Medassistance
	case PolicyTypeOsago:
		body = p.Osago
	default:
		return nil, fmt.Errorf("unknown policy_type %q", p.Type)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return mergeObjects(head, raw)
}

// Validate checks that the payload is well formed: the pointer for Type is
// present, enums are known and every embedded reference has a usable shape
// and well-formed attributes.
// Business rules such as premium or date ranges are not checked.
func (p PolicyData) Validate() error {
	switch p.Type {
	case PolicyTypeGreenCard:
		if p.GreenCard == nil {
			return fmt.Errorf("%w: green_card payload missing", ErrInvalidRequest)
		}
		if !p.GreenCard.PeriodUnit.Valid() {
			return fmt.Errorf("%w: unknown period_unit %q", ErrInvalidRequest, p.GreenCard.PeriodUnit)
		}
		return p.GreenCard.Vehicle.CheckShape()
	case PolicyTypeMedassistance:
		if p.Medassistance == nil {
			return fmt.Errorf("%w: medassistance payload missing", ErrInvalidRequest)
		}
		for i, m := range p.Medassistance.Members {
			if err := validatePersonRef(m); err != nil {
				return fmt.Errorf("member %d: %w", i, err)
			}
		}
		return nil
	case PolicyTypeOsago:
		if p.Osago == nil {
			return fmt.Errorf("%w: osago payload missing", ErrInvalidRequest)
		}
		if !p.Osago.PeriodUnit.Valid() {
			return fmt.Errorf("%w: unknown period_unit %q", ErrInvalidRequest, p.Osago.PeriodUnit)
		}
		if !p.Osago.Zone.Valid() {
			return fmt.Errorf("%w: unknown zone %q", ErrInvalidRequest, p.Osago.Zone)
		}
		return p.Osago.Vehicle.CheckShape()
	default:
		return fmt.Errorf("%w: unknown policy_type %q", ErrInvalidRequest, p.Type)
	}
}

// PolicyRequest is the body of both create and update. On update a nil
// AgentIDs leaves the agent links untouched.
type PolicyRequest struct {
	Holder    PersonRef    `json:"holder"`
	Series    string       `json:"series"`
	Number    string       `json:"number"`
	StartDate Date         `json:"start_date"`
	EndDate   *Date        `json:"end_date"`
	Status    PolicyStatus `json:"status"`
	AgentIDs  []int64      `json:"agent_ids"`
	Data      PolicyData   `json:"-"`
}

type policyRequestFields struct {
	Holder    PersonRef    `json:"holder"`
	Series    string       `json:"series"`
	Number    string       `json:"number"`
	StartDate Date         `json:"start_date"`
	EndDate   *Date        `json:"end_date"`
	Status    PolicyStatus `json:"status"`
	AgentIDs  []int64      `json:"agent_ids"`
}

func (r *PolicyRequest) UnmarshalJSON(b []byte) error {
	var common policyRequestFields
	if err := json.Unmarshal(b, &common); err != nil {
		return fmt.Errorf("%w: malformed policy request: %v", ErrInvalidRequest, err)
	}
	var data PolicyData
	if err := json.Unmarshal(b, &data); err != nil {
		return err
	}
	*r = PolicyRequest{
		Holder:    common.Holder,
		Series:    common.Series,
		Number:    common.Number,
		StartDate: common.StartDate,
		EndDate:   common.EndDate,
		Status:    common.Status,
		AgentIDs:  common.AgentIDs,
		Data:      data,
	}
	return nil
}

func (r PolicyRequest) MarshalJSON() ([]byte, error) {
	common, err := json.Marshal(policyRequestFields{
		Holder:    r.Holder,
		Series:    r.Series,
		Number:    r.Number,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Status:    r.Status,
		AgentIDs:  r.AgentIDs,
	})
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(r.Data)
	if err != nil {
		return nil, err
	}
	return mergeObjects(common, data)
}

func (r *PolicyRequest) Validate() error {
	if strings.TrimSpace(r.Series) == "" || strings.TrimSpace(r.Number) == "" {
		return fmt.Errorf("%w: series and number are required", ErrInvalidRequest)
	}
	if r.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", ErrInvalidRequest)
	}
	if r.Status == "" {
		r.Status = PolicyProject
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: unknown policy status %q", ErrInvalidRequest, r.Status)
	}
	if err := validatePersonRef(r.Holder); err != nil {
		return fmt.Errorf("holder: %w", err)
	}
	return r.Data.Validate()
}

// Storage rows.

type Policy struct {
	ID        int64        `db:"id"`
	Type      PolicyType   `db:"type"`
	HolderID  int64        `db:"holder_id"`
	Series    string       `db:"series"`
	Number    string       `db:"number"`
	StartDate Date         `db:"start_date"`
	EndDate   *Date        `db:"end_date"`
	Status    PolicyStatus `db:"status"`
}

type GreenCardRow struct {
	ID            int64      `db:"id"`
	Territory     string     `db:"territory"`
	PeriodInUnits int32      `db:"period_in_units"`
	PeriodUnit    PeriodUnit `db:"period_unit"`
	Premium       int32      `db:"premium"`
	VehicleID     int64      `db:"vehicle_id"`
}

type MedassistanceRow struct {
	ID         int64  `db:"id"`
	Territory  string `db:"territory"`
	PeriodDays int32  `db:"period_days"`
	Premium    int32  `db:"premium"`
	Payout     int32  `db:"payout"`
	Program    string `db:"program"`
}

type OsagoRow struct {
	ID            int64      `db:"id"`
	PeriodInUnits int32      `db:"period_in_units"`
	PeriodUnit    PeriodUnit `db:"period_unit"`
	Zone          OsagoZone  `db:"zone"`
	Exempt        string     `db:"exempt"`
	Premium       int32      `db:"premium"`
	VehicleID     int64      `db:"vehicle_id"`
}

// Read projection.

type Agent struct {
	ID       int64  `json:"id" db:"id"`
	FullName string `json:"full_name" db:"full_name"`
}

type GreenCardDetails struct {
	Territory     string     `json:"territory"`
	PeriodInUnits int32      `json:"period_in_units"`
	PeriodUnit    PeriodUnit `json:"period_unit"`
	Premium       int32      `json:"premium"`
	Vehicle       Vehicle    `json:"vehicle"`
}

type MedassistanceDetails struct {
	Territory  string   `json:"territory"`
	PeriodDays int32    `json:"period_days"`
	Premium    int32    `json:"premium"`
	Payout     int32    `json:"payout"`
	Program    string   `json:"program"`
	Members    []Person `json:"members"`
}

type OsagoDetails struct {
	PeriodInUnits int32      `json:"period_in_units"`
	PeriodUnit    PeriodUnit `json:"period_unit"`
	Zone          OsagoZone  `json:"zone"`
	Exempt        string     `json:"exempt"`
	Premium       int32      `json:"premium"`
	Vehicle       Vehicle    `json:"vehicle"`
}

// PolicyDetails mirrors PolicyData on the read side.
type PolicyDetails struct {
	Type          PolicyType
	GreenCard     *GreenCardDetails
	Medassistance *MedassistanceDetails
	Osago         *OsagoDetails
}

func (d PolicyDetails) MarshalJSON() ([]byte, error) {
	head, err := json.Marshal(policyTypeHead{Type: d.Type})
	if err != nil {
		return nil, err
	}
	var body any
	switch d.Type {
	case PolicyTypeGreenCard:
		body = d.GreenCard
	case PolicyTypeMedassistance:
		body = d.Medassistance
	case PolicyTypeOsago:
		body = d.Osago
	default:
		return nil, fmt.Errorf("unknown policy_type %q", d.Type)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return mergeObjects(head, raw)
}

// PolicyFull is the unified read model returned by get, create and update.
type PolicyFull struct {
	ID        int64         `json:"id"`
	Holder    Person        `json:"holder"`
	Series    string        `json:"series"`
	Number    string        `json:"number"`
	StartDate Date          `json:"start_date"`
	EndDate   *Date         `json:"end_date"`
	Status    PolicyStatus  `json:"status"`
	Agents    []Agent       `json:"agents"`
	Details   PolicyDetails `json:"-"`
}

type policyFullFields struct {
	ID        int64        `json:"id"`
	Holder    Person       `json:"holder"`
	Series    string       `json:"series"`
	Number    string       `json:"number"`
	StartDate Date         `json:"start_date"`
	EndDate   *Date        `json:"end_date"`
	Status    PolicyStatus `json:"status"`
	Agents    []Agent      `json:"agents"`
}

func (p PolicyFull) MarshalJSON() ([]byte, error) {
	agents := p.Agents
	if agents == nil {
		agents = []Agent{}
	}
	common, err := json.Marshal(policyFullFields{
		ID:        p.ID,
		Holder:    p.Holder,
		Series:    p.Series,
		Number:    p.Number,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status,
		Agents:    agents,
	})
	if err != nil {
		return nil, err
	}
	details, err := json.Marshal(p.Details)
	if err != nil {
		return nil, err
	}
	return mergeObjects(common, details)
}

// PolicyShort is a list row.
type PolicyShort struct {
	ID         int64        `json:"id" db:"id"`
	Type       PolicyType   `json:"policy_type" db:"policy_type"`
	HolderName string       `json:"holder_name" db:"holder_name"`
	Series     string       `json:"series" db:"series"`
	Number     string       `json:"number" db:"number"`
	StartDate  Date         `json:"start_date" db:"start_date"`
	EndDate    *Date        `json:"end_date" db:"end_date"`
	Status     PolicyStatus `json:"status" db:"status"`
	CarModel   *string      `json:"car_model" db:"car_model"`
	CarPlate   *string      `json:"car_plate" db:"car_plate"`
	AgentNames *string      `json:"agent_names" db:"agent_names"`
}
