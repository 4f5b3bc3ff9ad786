// Package status classifies policies by how many days remain before expiry.
package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mohidul-hq/VIM-System/internal/model"
)

// ExpiringSoonDays is the inclusive upper bound for ExpiringSoon.
const ExpiringSoonDays = 30

// Status is the three-level expiry state of a policy.
type Status int

const (
	Expired Status = iota
	ExpiringSoon
	Active
)

// DaysRemaining returns the whole days from now until the start of exp,
// rounded up and clamped at 0. An absent date has 0 days remaining, so a
// policy expiring today reads the same as one already expired.
func DaysRemaining(exp model.Date, now time.Time) int {
	if exp.IsZero() {
		return 0
	}
	diff := exp.Midnight(now.Location()).Sub(now)
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// Classify maps a remaining-day count to a Status.
func Classify(days int) Status {
	switch {
	case days > ExpiringSoonDays:
		return Active
	case days > 0:
		return ExpiringSoon
	default:
		return Expired
	}
}

// Of classifies a policy at the given instant.
func Of(p model.Policy, now time.Time) Status {
	return Classify(DaysRemaining(p.ExpDate, now))
}

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case ExpiringSoon:
		return "expiring-soon"
	case Expired:
		return "expired"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Badge is the label shown next to a policy.
func (s Status) Badge() string {
	switch s {
	case Active:
		return "Active"
	case ExpiringSoon:
		return "Expiring Soon"
	default:
		return "Expired"
	}
}

// Accent is the colour used to highlight a policy in listings.
func (s Status) Accent() string {
	switch s {
	case Active:
		return "green"
	case ExpiringSoon:
		return "yellow"
	default:
		return "red"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus accepts the String form or the Badge label, case-insensitive.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return Active, nil
	case "expiring-soon", "expiring soon", "expiring":
		return ExpiringSoon, nil
	case "expired":
		return Expired, nil
	}
	return 0, &model.InvalidValueError{Field: "status", Value: s}
}
