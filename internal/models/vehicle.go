package models

type VehicleData struct {
	Chassis              string `json:"chassis" db:"chassis"`
	Make                 string `json:"make" db:"make"`
	Model                string `json:"model" db:"model"`
	Registration         string `json:"registration" db:"registration"`
	Plate                string `json:"plate" db:"plate"`
	Year                 int32  `json:"year" db:"year"`
	EngineDisplacementCC int32  `json:"engine_displacement_cc" db:"engine_displacement_cc"`
	MileageKm            int32  `json:"mileage_km" db:"mileage_km"`
	UnladenWeightKg      int32  `json:"unladen_weight_kg" db:"unladen_weight_kg"`
	LadenWeightKg        int32  `json:"laden_weight_kg" db:"laden_weight_kg"`
	Seats                int32  `json:"seats" db:"seats"`
}

type Vehicle struct {
	ID int64 `json:"id" db:"id"`
	VehicleData
}
