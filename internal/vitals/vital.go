package vitals

import "time"

type Vital struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Type   string `json:"type"`
	Value  float64 `json:"value"`
	// SecondaryValue holds the second component of compound measurements,
	// e.g. the diastolic part of a blood pressure reading.
	SecondaryValue *float64  `json:"secondaryValue,omitempty"`
	Unit           string    `json:"unit"`
	Notes          string    `json:"notes,omitempty"`
	MeasuredAt     time.Time `json:"measuredAt"`
}

type VitalParams struct {
	UserID int
	From   *time.Time
	To     *time.Time
	Types  []string
}

var validVitalTypes = map[string]bool{
	"weight":           true,
	"blood_pressure":   true,
	"heart_rate":       true,
	"body_temperature": true,
	"blood_glucose":    true,
	"oxygen_saturation": true,
	"sleep_hours":      true,
}

func IsValidVitalType(vitalType string) bool {
	return validVitalTypes[vitalType]
}
