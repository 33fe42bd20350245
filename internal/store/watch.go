package store

import (
	"encoding/json"
	"log"
)

// Keyed is a record type that can carry its store-generated key.
type Keyed[T any] interface {
	WithID(id string) T
}

// Watch subscribes to a collection and maps each snapshot into a typed
// slice, one element per record in snapshot order, each stamped with its
// key. Records that fail to decode are skipped and logged, they never fail
// the snapshot.
func Watch[T Keyed[T]](s *Store, collection string, fn func([]T)) (func(), error) {
	return s.Subscribe(collection, func(records []Record) {
		fn(decode[T](collection, records))
	})
}

func decode[T Keyed[T]](collection string, records []Record) []T {
	items := make([]T, 0, len(records))
	for _, rec := range records {
		var item T
		if err := json.Unmarshal(rec.Data, &item); err != nil {
			log.Printf("store: decode %s/%s: %v", collection, rec.ID, err)
			continue
		}
		items = append(items, item.WithID(rec.ID))
	}
	return items
}

// Decode maps a one-shot snapshot the same way Watch maps live ones.
func Decode[T Keyed[T]](collection string, records []Record) []T {
	return decode[T](collection, records)
}
