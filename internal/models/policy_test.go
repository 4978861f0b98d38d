package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const greenCardBody = `{
	"policy_type": "green_card",
	"holder": {"kind": "existing", "id": 7},
	"series": "AB",
	"number": "123",
	"start_date": "2026-01-01",
	"end_date": null,
	"status": "active",
	"agent_ids": [1, 2],
	"territory": "Europe",
	"period_in_units": 15,
	"period_unit": "day",
	"premium": 400,
	"vehicle": {"kind": "new", "plate": "B 123 ABC", "make": "Dacia", "model": "Logan"}
}`

func TestPolicyRequest_UnmarshalJSON_GreenCard(t *testing.T) {
	var req PolicyRequest
	require.NoError(t, json.Unmarshal([]byte(greenCardBody), &req))

	assert.Equal(t, RefExisting, req.Holder.Kind)
	assert.Equal(t, int64(7), req.Holder.ID)
	assert.Equal(t, "AB", req.Series)
	assert.Nil(t, req.EndDate)
	assert.Equal(t, []int64{1, 2}, req.AgentIDs)

	assert.Equal(t, PolicyTypeGreenCard, req.Data.Type)
	require.NotNil(t, req.Data.GreenCard)
	assert.Nil(t, req.Data.Medassistance)
	assert.Nil(t, req.Data.Osago)
	assert.Equal(t, "Europe", req.Data.GreenCard.Territory)
	assert.Equal(t, PeriodDay, req.Data.GreenCard.PeriodUnit)
	assert.Equal(t, RefNew, req.Data.GreenCard.Vehicle.Kind)
	assert.Equal(t, "Logan", req.Data.GreenCard.Vehicle.Data.Model)

	assert.NoError(t, req.Validate())
}

func TestPolicyRequest_UnmarshalJSON_Medassistance(t *testing.T) {
	body := `{
		"policy_type": "medassistance",
		"holder": {"kind": "existing", "id": 1},
		"series": "MA", "number": "9", "start_date": "2026-02-01", "status": "project",
		"territory": "World", "period_days": 30, "premium": 50, "payout": 30000, "program": "basic",
		"members": [{"kind": "existing", "id": 2}, {"kind": "existing", "id": 3}]
	}`
	var req PolicyRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, PolicyTypeMedassistance, req.Data.Type)
	require.NotNil(t, req.Data.Medassistance)
	assert.Len(t, req.Data.Medassistance.Members, 2)
	assert.Nil(t, req.AgentIDs)
	assert.NoError(t, req.Validate())
}

func TestPolicyRequest_UnmarshalJSON_Rejects(t *testing.T) {
	tests := map[string]string{
		"missing policy_type": `{"series":"A","number":"1"}`,
		"unknown policy_type": `{"policy_type":"life"}`,
		"bad holder kind":     `{"policy_type":"osago","holder":{"kind":"someone"}}`,
		"bad date":            `{"policy_type":"osago","start_date":"yesterday"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			var req PolicyRequest
			assert.ErrorIs(t, json.Unmarshal([]byte(body), &req), ErrInvalidRequest)
		})
	}
}

func TestPolicyRequest_Validate(t *testing.T) {
	valid := func() PolicyRequest {
		return PolicyRequest{
			Holder:    ExistingRef[PersonData](7),
			Series:    "AB",
			Number:    "1",
			StartDate: NewDate(2026, 1, 1),
			Data: OsagoPolicy(OsagoData{
				PeriodInUnits: 1,
				PeriodUnit:    PeriodYear,
				Zone:          OsagoZone2,
				Vehicle:       ExistingRef[VehicleData](4),
			}),
		}
	}

	t.Run("defaults status to project", func(t *testing.T) {
		req := valid()
		require.NoError(t, req.Validate())
		assert.Equal(t, PolicyProject, req.Status)
	})

	t.Run("rejects unknown zone", func(t *testing.T) {
		req := valid()
		req.Data.Osago.Zone = "zone9"
		assert.ErrorIs(t, req.Validate(), ErrInvalidRequest)
	})

	t.Run("rejects missing series", func(t *testing.T) {
		req := valid()
		req.Series = " "
		assert.ErrorIs(t, req.Validate(), ErrInvalidRequest)
	})

	t.Run("rejects payload not matching type", func(t *testing.T) {
		req := valid()
		req.Data = PolicyData{Type: PolicyTypeGreenCard}
		assert.ErrorIs(t, req.Validate(), ErrInvalidRequest)
	})

	t.Run("rejects holder attributes with unknown sex", func(t *testing.T) {
		req := valid()
		req.Holder = NewRef(PersonData{Sex: "other", BirthDate: NewDate(1990, 1, 1)})
		assert.ErrorIs(t, req.Validate(), ErrInvalidRequest)
	})

	t.Run("rejects member without birth date", func(t *testing.T) {
		req := valid()
		req.Data = MedassistancePolicy(MedassistanceData{Members: []PersonRef{NewRef(PersonData{Sex: SexFemale})}})
		assert.ErrorIs(t, req.Validate(), ErrInvalidRequest)
	})

	t.Run("accepts blank names and defaults person status", func(t *testing.T) {
		req := valid()
		req.Holder = NewRef(PersonData{Sex: SexUnknown, BirthDate: NewDate(1990, 1, 1)})
		require.NoError(t, req.Validate())
		assert.Equal(t, PersonActive, req.Holder.Data.Status)
	})

	t.Run("accepts vehicle without plate or chassis", func(t *testing.T) {
		req := valid()
		req.Data.Osago.Vehicle = NewRef(VehicleData{Make: "Dacia"})
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects malformed member reference", func(t *testing.T) {
		req := valid()
		req.Data = MedassistancePolicy(MedassistanceData{Members: []PersonRef{{Kind: RefNew}}})
		assert.ErrorIs(t, req.Validate(), ErrInvalidRequest)
	})
}

func TestPolicyFull_MarshalJSON_FlattensDetails(t *testing.T) {
	full := PolicyFull{
		ID:        42,
		Holder:    Person{ID: 7, PersonData: PersonData{FirstName: "Ana", LastName: "Popescu"}},
		Series:    "AB",
		Number:    "123",
		StartDate: NewDate(2026, 1, 1),
		Status:    PolicyActive,
		Details: PolicyDetails{
			Type: PolicyTypeGreenCard,
			GreenCard: &GreenCardDetails{
				Territory:     "Europe",
				PeriodInUnits: 15,
				PeriodUnit:    PeriodDay,
				Premium:       400,
				Vehicle:       Vehicle{ID: 99, VehicleData: VehicleData{Plate: "B 123 ABC"}},
			},
		},
	}

	raw, err := json.Marshal(full)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, float64(42), fields["id"])
	assert.Equal(t, "green_card", fields["policy_type"])
	assert.Equal(t, "Europe", fields["territory"])
	assert.Equal(t, "2026-01-01", fields["start_date"])
	assert.Nil(t, fields["end_date"])
	assert.Equal(t, []any{}, fields["agents"])

	holder := fields["holder"].(map[string]any)
	assert.Equal(t, float64(7), holder["id"])
	vehicle := fields["vehicle"].(map[string]any)
	assert.Equal(t, float64(99), vehicle["id"])
}

func TestPolicyDetails_MarshalJSON_UnknownType(t *testing.T) {
	_, err := json.Marshal(PolicyDetails{Type: "life"})
	assert.Error(t, err)
}
