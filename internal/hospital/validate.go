package hospital

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^[0-9()\- ]*$`)

// ValidateHospital collects every field violation in evaluation order. An
// empty result means the record is well-formed. The result is advisory:
// callers gate writes on it, the store itself does not.
func ValidateHospital(h Hospital) []string {
	errs := []string{}
	if strings.TrimSpace(h.Name) == "" {
		errs = append(errs, "Hospital name cannot be empty.")
	}
	if h.Phone == "" {
		errs = append(errs, "Hospital phone cannot be empty.")
	} else if !phonePattern.MatchString(h.Phone) {
		errs = append(errs, "Hospital phone may only contain numbers, dashes, spaces, and parentheses.")
	}
	if h.Location == nil {
		errs = append(errs, "Hospital location is required.")
	} else {
		errs = append(errs, ValidateLocation(*h.Location)...)
	}
	if h.SharingCovidPatientCount && h.CovidPatientCount < 0 {
		errs = append(errs, "COVID patient count cannot be negative.")
	}
	if h.CovidCapableBedCount < 0 {
		errs = append(errs, "COVID capable bed count cannot be negative.")
	}
	if h.ICUCovidCapableBedCount < 0 {
		errs = append(errs, "ICU COVID capable bed count cannot be negative.")
	}
	if h.VentilatorCount < 0 {
		errs = append(errs, "Ventilator count cannot be negative.")
	}
	return errs
}

func ValidateLocation(l Location) []string {
	errs := []string{}
	if strings.TrimSpace(l.Address) == "" {
		errs = append(errs, "Location address cannot be empty.")
	}
	if strings.TrimSpace(l.PlaceID) == "" {
		errs = append(errs, "Location place id cannot be empty.")
	}
	return errs
}
