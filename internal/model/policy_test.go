package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	p := Policy{
		VehicleNumber:    "  mh12ab1234 ",
		ReferenceContact: "98200 00000",
	}.Normalize()

	if p.VehicleNumber != "MH12AB1234" {
		t.Errorf("expected upper-cased vehicle number, got %q", p.VehicleNumber)
	}
	if p.VehicleType != TwoWheeler {
		t.Errorf("expected default vehicle type, got %q", p.VehicleType)
	}
	if p.ReferenceContact != "98200 00000" {
		t.Errorf("expected reference contact kept as stored, got %q", p.ReferenceContact)
	}
	if p.HasReference() {
		t.Error("expected no reference without a name")
	}
}

func TestParseVehicleType(t *testing.T) {
	for in, want := range map[string]VehicleType{
		"":             TwoWheeler,
		"4W":           FourWheeler,
		"Four Wheeler": FourWheeler,
		"other":        OtherType,
	} {
		got, err := ParseVehicleType(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Errorf("parse %q: expected %q, got %q", in, want, got)
		}
	}

	if _, err := ParseVehicleType("truck"); err == nil {
		t.Error("expected error for unknown vehicle type")
	}
}

func TestPolicyJSONColumns(t *testing.T) {
	row := `{"Entry_ID":"1719999999999","Vehicle_Number":"KA01XY0001","Vehicle_Type":"Tractor",` +
		`"Customer_Name":"Asha","Customer_Phone":"","Book_Date":"2024-01-05","Exp_Date":"not a date",` +
		`"Reference_Name":"","Reference_Contact":"","Notes":""}`

	var p Policy
	if err := json.Unmarshal([]byte(row), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.EntryID != "1719999999999" {
		t.Errorf("expected Entry_ID preserved, got %q", p.EntryID)
	}
	if p.VehicleType != "Tractor" {
		t.Errorf("expected unknown vehicle type kept, got %q", p.VehicleType)
	}
	if !p.ExpDate.IsZero() {
		t.Error("expected malformed Exp_Date to be absent")
	}
	if p.BookDate != NewDate(2024, time.January, 5) {
		t.Errorf("unexpected Book_Date %v", p.BookDate)
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != row {
		t.Errorf("row did not round-trip:\n got %s\nwant %s", b, row)
	}
}

func TestParseDateStrict(t *testing.T) {
	d, err := ParseDateStrict("2025-03-09T18:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2025-03-09" {
		t.Errorf("expected timestamp truncated to date, got %s", d)
	}

	if _, err := ParseDateStrict("09/03/2025"); err == nil || !strings.Contains(err.Error(), "invalid date") {
		t.Errorf("expected invalid date error, got %v", err)
	}

	d, err = ParseDateStrict("")
	if err != nil || !d.IsZero() {
		t.Errorf("expected empty input to be an absent date, got %v, %v", d, err)
	}
}
