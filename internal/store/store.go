package store

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketFragments = []byte("fragments")
	bucketMeta      = []byte("meta")
)

// Meta keys
const (
	metaPackedAt = "packed_at"
	metaRoot     = "root"
)

// Bundle is a read-only BoltDB snapshot of a content tree.
// Keys are slash-separated paths relative to the content root with a
// leading slash ("/video/abc.json"); values are the raw JSON bodies.
type Bundle struct {
	db   *bolt.DB
	path string
}

// OpenBundle opens a bundle produced by Pack in read-only mode
func OpenBundle(path string) (*Bundle, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat bundle: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketFragments) == nil {
			return fmt.Errorf("bundle %s has no fragments bucket", path)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bundle{db: db, path: path}, nil
}

// Path returns the bundle file location
func (b *Bundle) Path() string { return b.path }

// Close releases the underlying database
func (b *Bundle) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

// Get returns a copy of the fragment stored under key
func (b *Bundle) Get(key string) ([]byte, bool) {
	var data []byte
	b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketFragments)
		if v := bucket.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	return data, data != nil
}

// Keys returns all fragment keys starting with prefix, in byte order
func (b *Bundle) Keys(prefix string) []string {
	var keys []string
	b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketFragments).Cursor()
		p := []byte(prefix)
		for k, _ := c.Seek(p); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			keys = append(keys, string(k))
		}
		return nil
	})
	return keys
}

// PackedAt returns when the bundle was written
func (b *Bundle) PackedAt() (time.Time, bool) {
	var ts time.Time
	ok := false
	b.db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		if meta == nil {
			return nil
		}
		if v := meta.Get([]byte(metaPackedAt)); v != nil {
			if parsed, err := time.Parse(time.RFC3339, string(v)); err == nil {
				ts, ok = parsed, true
			}
		}
		return nil
	})
	return ts, ok
}

// Pack walks the content tree at root and writes every JSON fragment into
// a new bundle at out, replacing any existing file. A fragment that is not
// valid JSON aborts the pack. Returns the number of fragments written.
func Pack(root, out string) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, fmt.Errorf("failed to stat content root: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("content root %s is not a directory", root)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return 0, fmt.Errorf("failed to create bundle directory: %w", err)
	}
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("failed to remove old bundle: %w", err)
	}

	db, err := bolt.Open(out, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return 0, fmt.Errorf("failed to open bolt db: %w", err)
	}
	defer db.Close()

	count := 0
	err = db.Update(func(tx *bolt.Tx) error {
		fragments, err := tx.CreateBucketIfNotExists(bucketFragments)
		if err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
				return nil
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if !json.Valid(data) {
				return fmt.Errorf("fragment %s is not valid JSON", path)
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			key := "/" + filepath.ToSlash(rel)
			if err := fragments.Put([]byte(key), data); err != nil {
				return err
			}
			count++
			return nil
		})
		if walkErr != nil {
			return walkErr
		}

		if err := meta.Put([]byte(metaRoot), []byte(root)); err != nil {
			return err
		}
		return meta.Put([]byte(metaPackedAt), []byte(time.Now().UTC().Format(time.RFC3339)))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to pack bundle: %w", err)
	}

	return count, nil
}
