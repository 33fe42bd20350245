package user

// Authorization predicates over the currently resolved profile. They never
// fetch data; a nil profile (signed out, or not yet loaded) is authorized
// for nothing.

func IsAdmin(p *Profile) bool {
	return p != nil && p.IsAdmin
}

func CanCreateHospital(p *Profile) bool {
	return IsAdmin(p)
}

func CanEditHospital(p *Profile, hospitalID string) bool {
	return p != nil && (p.EditorOf == hospitalID || p.IsAdmin)
}

// CanDeleteHospital uses the same rule as edit.
func CanDeleteHospital(p *Profile, hospitalID string) bool {
	return CanEditHospital(p, hospitalID)
}
