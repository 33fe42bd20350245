package hospital

// Location is a geocoded address. It is created whole by the geocoder and
// replaced wholesale on change, never patched field by field.
type Location struct {
	Address string  `json:"address"`
	PlaceID string  `json:"placeId"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type Hospital struct {
	Name                     string    `json:"name"`
	Location                 *Location `json:"location"`
	Phone                    string    `json:"phone"`
	CapacityPercent          int       `json:"capacityPercent"`
	IsCovidCenter            bool      `json:"isCovidCenter"`
	SharingCovidPatientCount bool      `json:"sharingCovidPatientCount"`
	CovidPatientCount        int       `json:"covidPatientCount"`
	CovidCapableBedCount     int       `json:"covidCapableBedCount"`
	ICUCovidCapableBedCount  int       `json:"icuCovidCapableBedCount"`
	VentilatorCount          int       `json:"ventilatorCount"`
}

// HospitalForUI is a Hospital annotated with its store id and, when a
// reference location is in play, the distance to it. DistanceMiles is a
// per-request projection and is never persisted.
type HospitalForUI struct {
	Hospital
	ID            string   `json:"id"`
	DistanceMiles *float64 `json:"distanceMiles,omitempty"`
}

// WithID stamps the store-generated key onto a copy of the record.
func (h HospitalForUI) WithID(id string) HospitalForUI {
	h.ID = id
	return h
}
