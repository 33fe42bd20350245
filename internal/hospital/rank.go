package hospital

import (
	"sort"

	"backend-howmanybeds/internal/shared/geo"
)

// There are 0.000621371 miles per meter.
const milesPerMeter = 0.000621371

// Rank annotates each hospital with its distance from ref in miles and
// returns a new slice sorted ascending by distance, stable for ties. A nil
// ref returns the input unchanged, in store order, with no distance
// attached. The input is never mutated; all persisted hospitals are assumed
// to carry valid coordinates.
func Rank(hospitals []HospitalForUI, ref *Location) []HospitalForUI {
	if ref == nil {
		return hospitals
	}

	ranked := make([]HospitalForUI, len(hospitals))
	copy(ranked, hospitals)
	for i := range ranked {
		var lat, lng float64
		if loc := ranked[i].Location; loc != nil {
			lat, lng = loc.Lat, loc.Lng
		}
		meters := geo.HaversineKm(ref.Lat, ref.Lng, lat, lng) * 1000
		miles := meters * milesPerMeter
		ranked[i].DistanceMiles = &miles
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].DistanceMiles < *ranked[j].DistanceMiles
	})
	return ranked
}
