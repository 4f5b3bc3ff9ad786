package cli

import (
	"github.com/spf13/cobra"

	"github.com/mohidul-hq/VIM-System/internal/model"
)

// addPolicyFlags registers the column flags shared by add and edit.
func addPolicyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("number", "n", "", "Vehicle registration number")
	cmd.Flags().StringP("type", "t", "", "Vehicle type: two-wheeler, four-wheeler or other")
	cmd.Flags().StringP("customer", "c", "", "Customer name")
	cmd.Flags().StringP("phone", "p", "", "Customer phone")
	cmd.Flags().String("book", "", "Booking date (YYYY-MM-DD)")
	cmd.Flags().StringP("exp", "e", "", "Expiry date (YYYY-MM-DD)")
	cmd.Flags().String("ref-name", "", "Reference name")
	cmd.Flags().String("ref-contact", "", "Reference contact (shown only with a reference name)")
	cmd.Flags().String("notes", "", "Free-form notes")
}

// applyPolicyFlags copies the flags given on the command line onto p. Flags
// not given leave their field unchanged.
func applyPolicyFlags(cmd *cobra.Command, p *model.Policy) error {
	fs := cmd.Flags()
	text := map[string]*string{
		"number":      &p.VehicleNumber,
		"customer":    &p.CustomerName,
		"phone":       &p.CustomerPhone,
		"ref-name":    &p.ReferenceName,
		"ref-contact": &p.ReferenceContact,
		"notes":       &p.Notes,
	}
	for name, dst := range text {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}

	if fs.Changed("type") {
		v, _ := fs.GetString("type")
		vt, err := model.ParseVehicleType(v)
		if err != nil {
			return err
		}
		p.VehicleType = vt
	}

	dates := map[string]*model.Date{
		"book": &p.BookDate,
		"exp":  &p.ExpDate,
	}
	for name, dst := range dates {
		if !fs.Changed(name) {
			continue
		}
		v, _ := fs.GetString(name)
		d, err := model.ParseDateStrict(v)
		if err != nil {
			return err
		}
		*dst = d
	}
	return nil
}
