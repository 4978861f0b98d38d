package models

type DashboardCounts struct {
	People   int64 `json:"people" db:"people"`
	Policies int64 `json:"policies" db:"policies"`
	Vehicles int64 `json:"vehicles" db:"vehicles"`
}

type UpcomingBirthday struct {
	ID         int64  `json:"id" db:"id"`
	FullName   string `json:"full_name" db:"full_name"`
	Phone      string `json:"phone" db:"phone"`
	BirthDate  Date   `json:"birth_date" db:"birth_date"`
	TurningAge int32  `json:"turning_age" db:"turning_age"`
	DaysUntil  int32  `json:"days_until" db:"days_until"`
}

type ExpiringPolicy struct {
	ID         int64      `json:"id" db:"id"`
	Type       PolicyType `json:"policy_type" db:"policy_type"`
	Series     string     `json:"series" db:"series"`
	Number     string     `json:"number" db:"number"`
	HolderName string     `json:"holder_name" db:"holder_name"`
	EndDate    Date       `json:"end_date" db:"end_date"`
	DaysLeft   int32      `json:"days_left" db:"days_left"`
}

type Dashboard struct {
	Counts            DashboardCounts    `json:"counts"`
	UpcomingBirthdays []UpcomingBirthday `json:"upcoming_birthdays"`
	ExpiringPolicies  []ExpiringPolicy   `json:"expiring_policies"`
}
