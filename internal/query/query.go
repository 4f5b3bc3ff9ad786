// Package query derives the visible subset of policies and summary counts.
package query

import (
	"strings"
	"time"

	"github.com/mohidul-hq/VIM-System/internal/model"
	"github.com/mohidul-hq/VIM-System/internal/status"
)

// Filter selects policies by status. All matches every policy.
type Filter struct {
	all    bool
	status status.Status
}

// All matches every policy.
var All = Filter{all: true}

// ByStatus matches policies classified as s.
func ByStatus(s status.Status) Filter {
	return Filter{status: s}
}

// ParseFilter accepts "all", "all policies" or anything status.ParseStatus
// understands. Empty input is All.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "all policies":
		return All, nil
	}
	st, err := status.ParseStatus(s)
	if err != nil {
		return Filter{}, err
	}
	return ByStatus(st), nil
}

func (f Filter) String() string {
	if f.all {
		return "all"
	}
	return f.status.String()
}

// Match reports whether p passes the status filter at now.
func (f Filter) Match(p model.Policy, now time.Time) bool {
	return f.all || status.Of(p, now) == f.status
}

// MatchesSearch reports whether search is a case-insensitive substring of the
// vehicle number, customer name or vehicle type. Empty search matches.
func MatchesSearch(p model.Policy, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(p.VehicleNumber), needle) ||
		strings.Contains(strings.ToLower(p.CustomerName), needle) ||
		strings.Contains(strings.ToLower(string(p.VehicleType)), needle)
}

// Apply returns the policies matching both search and f, in input order.
func Apply(records []model.Policy, search string, f Filter, now time.Time) []model.Policy {
	out := make([]model.Policy, 0, len(records))
	for _, p := range records {
		if MatchesSearch(p, search) && f.Match(p, now) {
			out = append(out, p)
		}
	}
	return out
}

// Summary holds counts over the unfiltered record set.
type Summary struct {
	Total        int `json:"total"`
	Active       int `json:"active"`
	ExpiringSoon int `json:"expiring_soon"`
}

// Summarize counts all records, those with any days remaining, and those
// expiring soon.
func Summarize(records []model.Policy, now time.Time) Summary {
	s := Summary{Total: len(records)}
	for _, p := range records {
		days := status.DaysRemaining(p.ExpDate, now)
		if days > 0 {
			s.Active++
		}
		if status.Classify(days) == status.ExpiringSoon {
			s.ExpiringSoon++
		}
	}
	return s
}
