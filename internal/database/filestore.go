package database

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

// Bucket names of the file store. Records are JSON documents keyed by
// their id, see IDKey.
var (
	ScientistsBucket = []byte("scientists")
	PlanetsBucket    = []byte("planets")
	MissionsBucket   = []byte("missions")
)

var buckets = [][]byte{ScientistsBucket, PlanetsBucket, MissionsBucket}

// FileLockTimeout is how long Open waits for another process to release
// the file lock.
const FileLockTimeout = time.Second

// FileStore is the single-file bbolt backend.
type FileStore struct {
	DB   *bolt.DB
	path string
	log  *zerolog.Logger
}

// OpenFileStore opens (or creates) the bolt file at path and makes sure
// every bucket exists.
func OpenFileStore(path string, logger *zerolog.Logger) (*FileStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: FileLockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt file %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info().Str("path", path).Msg("opened file store")

	return &FileStore{DB: db, path: path, log: logger}, nil
}

func (fs *FileStore) Driver() Driver {
	return DriverBolt
}

// Ping runs an empty read transaction. It fails once the file is closed.
func (fs *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fs.DB.View(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if tx.Bucket(name) == nil {
				return fmt.Errorf("bucket %s missing", name)
			}
		}
		return nil
	})
}

func (fs *FileStore) Close() error {
	fs.log.Info().Str("path", fs.path).Msg("closing file store")
	return fs.DB.Close()
}

// IDKey encodes an id as a big-endian key so cursor order is id order.
func IDKey(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

// KeyID is the inverse of IDKey.
func KeyID(k []byte) int64 {
	return int64(binary.BigEndian.Uint64(k))
}
