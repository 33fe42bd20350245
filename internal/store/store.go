package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"backend-howmanybeds/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
)

// Record is one keyed entry of a collection: the store-generated key plus
// the raw record fields.
type Record struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Store keeps keyed JSON records per collection in Postgres and announces
// every write on a redis channel so that subscribers can re-read the
// snapshot. Snapshots are ordered by insertion, which is the key order
// subscribers see; re-sorting is a concern of the read side, not the store.
type Store struct {
	db    db.Querier
	redis *redis.Client
}

func New(database db.Querier, redisClient *redis.Client) *Store {
	return &Store{db: database, redis: redisClient}
}

// Snapshot returns every record of the collection in insertion order. An
// empty or never-written collection yields an empty slice, not an error.
func (s *Store) Snapshot(ctx context.Context, collection string) ([]Record, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, data FROM records WHERE collection=$1 ORDER BY position
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var data []byte
		if err := rows.Scan(&rec.ID, &data); err != nil {
			return nil, err
		}
		rec.Data = json.RawMessage(data)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get returns a single record, or nil when the id is absent.
func (s *Store) Get(ctx context.Context, collection, id string) (*Record, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `
		SELECT data FROM records WHERE collection=$1 AND id=$2
	`, collection, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, Data: json.RawMessage(data)}, nil
}

// Create pushes a new record under a generated key and returns the key.
func (s *Store) Create(ctx context.Context, collection string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.Exec(ctx, `
		INSERT INTO records (collection, id, data) VALUES ($1,$2,$3)
	`, collection, id, data)
	if err != nil {
		return "", err
	}
	s.notify(collection)
	return id, nil
}

// Update merges patch into the record's fields, creating the record when
// the id does not exist yet.
func (s *Store) Update(ctx context.Context, collection, id string, patch any) error {
	data, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE records SET data = data || $3::jsonb WHERE collection=$1 AND id=$2
	`, collection, id, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		_, err = s.db.Exec(ctx, `
			INSERT INTO records (collection, id, data) VALUES ($1,$2,$3)
		`, collection, id, data)
		if err != nil {
			return err
		}
	}
	s.notify(collection)
	return nil
}

// Set replaces the record's fields wholesale, creating it when absent.
func (s *Store) Set(ctx context.Context, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO records (collection, id, data) VALUES ($1,$2,$3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
	`, collection, id, data)
	if err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

func (s *Store) Remove(ctx context.Context, collection, id string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM records WHERE collection=$1 AND id=$2
	`, collection, id)
	if err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

// Subscribe delivers the current snapshot immediately and again after every
// write to the collection. The returned cancel releases the redis
// subscription; every consumer must call it on teardown or the callback
// keeps firing into torn-down state.
func (s *Store) Subscribe(collection string, fn func([]Record)) (func(), error) {
	ctx := context.Background()

	snapshot, err := s.Snapshot(ctx, collection)
	if err != nil {
		return nil, err
	}
	fn(snapshot)

	if s.redis == nil {
		return func() {}, nil
	}

	pubsub := s.redis.Subscribe(ctx, channelFor(collection))
	go func() {
		for range pubsub.Channel() {
			snapshot, err := s.Snapshot(ctx, collection)
			if err != nil {
				log.Printf("store: snapshot %s: %v", collection, err)
				continue
			}
			fn(snapshot)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}, nil
}

// SubscribeRecord is the single-record variant of Subscribe. An absent
// record delivers nil.
func (s *Store) SubscribeRecord(collection, id string, fn func(*Record)) (func(), error) {
	return s.Subscribe(collection, func(records []Record) {
		for i := range records {
			if records[i].ID == id {
				fn(&records[i])
				return
			}
		}
		fn(nil)
	})
}

func (s *Store) notify(collection string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Publish(context.Background(), channelFor(collection), collection).Err(); err != nil {
		log.Printf("store: publish %s: %v", collection, err)
	}
}

func channelFor(collection string) string {
	return "store:" + collection
}
