package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/mohidul-hq/VIM-System/internal/model"
	"github.com/mohidul-hq/VIM-System/internal/status"
)

// policyView is a record with its derived status, as printed by list and get.
type policyView struct {
	model.Policy
	Status        string `json:"Status"`
	DaysRemaining int    `json:"Days_Remaining"`
}

func viewOf(p model.Policy, now time.Time) policyView {
	days := status.DaysRemaining(p.ExpDate, now)
	return policyView{Policy: p, Status: status.Classify(days).Badge(), DaysRemaining: days}
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

var ansi = map[string]string{
	"green":  "\x1b[32m",
	"yellow": "\x1b[33m",
	"red":    "\x1b[31m",
}

// isTerminal is a test seam for term.IsTerminal on w.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func badge(w io.Writer, s status.Status) string {
	if !isTerminal(w) {
		return s.Badge()
	}
	return ansi[s.Accent()] + s.Badge() + "\x1b[0m"
}

func printPolicies(w io.Writer, format string, records []model.Policy, now time.Time) error {
	if format == formatJSON {
		views := make([]policyView, 0, len(records))
		for _, p := range records {
			views = append(views, viewOf(p, now))
		}
		return printJSON(w, views)
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No vehicles found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTRY_ID\tVEHICLE\tTYPE\tCUSTOMER\tPHONE\tEXPIRES\tDAYS\tSTATUS")
	for _, p := range records {
		days := status.DaysRemaining(p.ExpDate, now)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			p.EntryID, p.VehicleNumber, p.VehicleType, p.CustomerName, p.CustomerPhone,
			p.ExpDate, days, badge(w, status.Classify(days)))
	}
	return tw.Flush()
}

func printPolicy(w io.Writer, format string, p model.Policy, now time.Time) error {
	v := viewOf(p, now)
	if format == formatJSON {
		return printJSON(w, v)
	}

	refContact := ""
	if p.HasReference() {
		refContact = p.ReferenceContact
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Entry_ID", p.EntryID},
		{"Vehicle", p.VehicleNumber},
		{"Type", string(p.VehicleType)},
		{"Customer", p.CustomerName},
		{"Phone", p.CustomerPhone},
		{"Booked", p.BookDate.String()},
		{"Expires", p.ExpDate.String()},
		{"Reference", p.ReferenceName},
		{"Ref. contact", refContact},
		{"Notes", p.Notes},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	fmt.Fprintf(tw, "Status:\t%s (%d days left)\n", badge(w, status.Classify(v.DaysRemaining)), v.DaysRemaining)
	return tw.Flush()
}
