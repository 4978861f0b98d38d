package models

type PolicyType string

const (
	PolicyTypeGreenCard     PolicyType = "green_card"
	PolicyTypeMedassistance PolicyType = "medassistance"
	PolicyTypeOsago         PolicyType = "osago"
)

func (t PolicyType) Valid() bool {
	switch t {
	case PolicyTypeGreenCard, PolicyTypeMedassistance, PolicyTypeOsago:
		return true
	}
	return false
}

type PolicyStatus string

const (
	PolicyActive    PolicyStatus = "active"
	PolicyProlonged PolicyStatus = "prolonged"
	PolicyRejected  PolicyStatus = "rejected"
	PolicyStopped   PolicyStatus = "stopped"
	PolicyPostponed PolicyStatus = "postponed"
	PolicyCancelled PolicyStatus = "cancelled"
	PolicyProject   PolicyStatus = "project"
	PolicyReplaced  PolicyStatus = "replaced"
	PolicyExpired   PolicyStatus = "expired"
)

func (s PolicyStatus) Valid() bool {
	switch s {
	case PolicyActive, PolicyProlonged, PolicyRejected, PolicyStopped, PolicyPostponed,
		PolicyCancelled, PolicyProject, PolicyReplaced, PolicyExpired:
		return true
	}
	return false
}

type PersonStatus string

const (
	PersonActive   PersonStatus = "active"
	PersonInactive PersonStatus = "inactive"
	PersonArchived PersonStatus = "archived"
)

func (s PersonStatus) Valid() bool {
	switch s {
	case PersonActive, PersonInactive, PersonArchived:
		return true
	}
	return false
}

type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

func (s Sex) Valid() bool {
	switch s {
	case SexMale, SexFemale, SexUnknown:
		return true
	}
	return false
}

// PeriodUnit is the granularity of a vehicle policy's insured period.
type PeriodUnit string

const (
	PeriodDay   PeriodUnit = "day"
	PeriodMonth PeriodUnit = "month"
	PeriodYear  PeriodUnit = "year"
)

func (u PeriodUnit) Valid() bool {
	switch u {
	case PeriodDay, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

type OsagoZone string

const (
	OsagoZone1       OsagoZone = "zone1"
	OsagoZone2       OsagoZone = "zone2"
	OsagoZone3       OsagoZone = "zone3"
	OsagoZone4       OsagoZone = "zone4"
	OsagoZone5       OsagoZone = "zone5"
	OsagoZoneOutside OsagoZone = "outside"
)

func (z OsagoZone) Valid() bool {
	switch z {
	case OsagoZone1, OsagoZone2, OsagoZone3, OsagoZone4, OsagoZone5, OsagoZoneOutside:
		return true
	}
	return false
}
