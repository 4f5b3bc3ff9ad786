// Package model defines the core policy record types.
package model

import "strings"

// VehicleType is the vehicle category column. Values not listed below are
// kept verbatim so rows written by other clients round-trip unchanged.
type VehicleType string

const (
	TwoWheeler  VehicleType = "Two Wheeler"
	FourWheeler VehicleType = "Four Wheeler"
	OtherType   VehicleType = "Other"
)

// Policy represents one tracked vehicle insurance entry. JSON names are the
// column headers of the remote table.
type Policy struct {
	EntryID          string      `json:"Entry_ID"`
	VehicleNumber    string      `json:"Vehicle_Number"`
	VehicleType      VehicleType `json:"Vehicle_Type"`
	CustomerName     string      `json:"Customer_Name"`
	CustomerPhone    string      `json:"Customer_Phone"`
	BookDate         Date        `json:"Book_Date"`
	ExpDate          Date        `json:"Exp_Date"`
	ReferenceName    string      `json:"Reference_Name"`
	ReferenceContact string      `json:"Reference_Contact"`
	Notes            string      `json:"Notes"`
}

// NewPolicy returns a blank record with the default vehicle type.
func NewPolicy() Policy {
	return Policy{VehicleType: TwoWheeler}
}

// Normalize upper-cases the vehicle number and fills the default vehicle
// type. Other columns are kept as stored.
func (p Policy) Normalize() Policy {
	p.VehicleNumber = NormalizeVehicleNumber(p.VehicleNumber)
	if p.VehicleType == "" {
		p.VehicleType = TwoWheeler
	}
	return p
}

// HasReference reports whether a reference name is set. A reference contact
// is only shown alongside a name.
func (p Policy) HasReference() bool {
	return strings.TrimSpace(p.ReferenceName) != ""
}

// NormalizeVehicleNumber trims and upper-cases a registration number.
func NormalizeVehicleNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

var vehicleTypeAliases = map[string]VehicleType{
	"":             TwoWheeler,
	"two wheeler":  TwoWheeler,
	"two-wheeler":  TwoWheeler,
	"twowheeler":   TwoWheeler,
	"2w":           TwoWheeler,
	"four wheeler": FourWheeler,
	"four-wheeler": FourWheeler,
	"fourwheeler":  FourWheeler,
	"4w":           FourWheeler,
	"other":        OtherType,
}

// ValidVehicleTypes lists the vehicle types offered for new records.
var ValidVehicleTypes = []VehicleType{TwoWheeler, FourWheeler, OtherType}

// ParseVehicleType maps user input to a VehicleType. Empty input yields the
// default.
func ParseVehicleType(s string) (VehicleType, error) {
	if t, ok := vehicleTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return "", &InvalidValueError{Field: "vehicle type", Value: s}
}

// InvalidValueError reports user input that could not be parsed.
type InvalidValueError struct {
	Field string
	Value string
}

func (e *InvalidValueError) Error() string {
	return "invalid " + e.Field + ": " + `"` + e.Value + `"`
}
