package kvbackend

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/storage"
	bolt "go.etcd.io/bbolt"
)

// Bolt stores key-value pairs in a bolt database file.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens the database at the given file, creating the file and any
// missing parent directories. An empty file name opens the default database,
// ~/.rampart/state.db.
func NewBolt(file string) (*Bolt, error) {
	if file == "" {
		u, err := user.Current()
		if err != nil {
			return nil, errors.Wrap(err, "get user")
		}
		file = filepath.Join(u.HomeDir, ".rampart", "state.db")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, errors.Wrapf(err, "ensure dir exists: %s", filepath.Dir(file))
	}
	db, err := bolt.Open(file, 0600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open bolt db")
	}
	return &Bolt{db: db}, nil
}

// Close closes the database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Put creates or updates a value. The bucket for the key is created when it
// does not exist yet.
func (b *Bolt) Put(ctx context.Context, key string, value []byte) error {
	bucket, k, err := splitKey(key)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		buc, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return errors.Wrap(err, "ensure bucket exists")
		}
		return buc.Put([]byte(k), value)
	})
}

// Get returns a single value. Returns storage.ErrNotFound if the key does
// not exist.
func (b *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	var ret []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		buc, k, err := lookup(tx, key)
		if err != nil {
			return err
		}
		data := buc.Get(k)
		if len(data) == 0 {
			return storage.ErrNotFound
		}
		ret = make([]byte, len(data))
		copy(ret, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Delete deletes a key. Returns storage.ErrNotFound if the key does not
// exist.
func (b *Bolt) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		buc, k, err := lookup(tx, key)
		if err != nil {
			return err
		}
		if len(buc.Get(k)) == 0 {
			return storage.ErrNotFound
		}
		return errors.Wrap(buc.Delete(k), "delete key")
	})
}

// Scan returns all values in the bucket named by prefix. The prefix must
// equal a bucket, that is, a stored key up to its last slash.
func (b *Bolt) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	if strings.HasSuffix(prefix, "/") {
		return nil, errors.New("prefix should not contain trailing /")
	}
	out := make(map[string][]byte)
	err := b.db.View(func(tx *bolt.Tx) error {
		buc := tx.Bucket([]byte(prefix))
		if buc == nil {
			return nil
		}
		return buc.ForEach(func(k, v []byte) error {
			val := make([]byte, len(v))
			copy(val, v)
			out[prefix+"/"+string(k)] = val
			return nil
		})
	})
	return out, err
}

// lookup resolves the bucket for a key inside a transaction. Returns
// storage.ErrNotFound if the bucket does not exist.
func lookup(tx *bolt.Tx, key string) (*bolt.Bucket, []byte, error) {
	bucket, k, err := splitKey(key)
	if err != nil {
		return nil, nil, err
	}
	buc := tx.Bucket([]byte(bucket))
	if buc == nil {
		return nil, nil, storage.ErrNotFound
	}
	return buc, []byte(k), nil
}
