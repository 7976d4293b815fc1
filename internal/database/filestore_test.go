package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

func TestOpenFileStoreCreatesBuckets(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "app.db")

	fs, err := OpenFileStore(path, &logger)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}

	err = fs.DB.View(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{ScientistsBucket, PlanetsBucket, MissionsBucket} {
			if tx.Bucket(name) == nil {
				t.Errorf("bucket %s missing", name)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := fs.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if fs.Driver() != DriverBolt {
		t.Fatalf("driver = %s", fs.Driver())
	}

	if err := fs.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := fs.Ping(context.Background()); err == nil {
		t.Fatal("Ping succeeded on a closed store")
	}
}

func TestOpenFileStoreReopensExistingFile(t *testing.T) {
	logger := zerolog.Nop()
	path := filepath.Join(t.TempDir(), "app.db")

	fs, err := OpenFileStore(path, &logger)
	if err != nil {
		t.Fatal(err)
	}
	err = fs.DB.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(PlanetsBucket).Put(IDKey(7), []byte(`{}`))
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Close(); err != nil {
		t.Fatal(err)
	}

	fs, err = OpenFileStore(path, &logger)
	if err != nil {
		t.Fatal(err)
	}
	defer fs.Close()

	err = fs.DB.View(func(tx *bolt.Tx) error {
		if tx.Bucket(PlanetsBucket).Get(IDKey(7)) == nil {
			t.Error("record lost after reopen")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestIDKeyOrdering(t *testing.T) {
	for _, id := range []int64{1, 255, 256, 1 << 40} {
		if got := KeyID(IDKey(id)); got != id {
			t.Errorf("KeyID(IDKey(%d)) = %d", id, got)
		}
	}
	if string(IDKey(2)) > string(IDKey(10)) {
		t.Error("keys do not sort numerically")
	}
}
