package bulk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var jobsBucket = []byte("jobs")

// BoltStore persists job snapshots as JSON in a BoltDB file, so bulk jobs
// survive restarts.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens (or creates) the job database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for job store: %w", err)
	}
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open job store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(jobsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create jobs bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Put(job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.ID, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(jobsBucket).Put([]byte(job.ID), data)
	})
}

func (s *BoltStore) Get(id string) (*Job, error) {
	var job *Job
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(jobsBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		job = &Job{}
		return json.Unmarshal(v, job)
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (s *BoltStore) List() ([]*Job, error) {
	var out []*Job
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(jobsBucket).ForEach(func(_, v []byte) error {
			job := &Job{}
			if err := json.Unmarshal(v, job); err != nil {
				return err
			}
			out = append(out, job)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var _ Store = (*BoltStore)(nil)
