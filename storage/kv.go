package storage

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rampart/rampart/resource"
)

// The KVBackend is used for persisting key-value data.
type KVBackend interface {
	// Put creates or updates a key.
	Put(ctx context.Context, key string, value []byte) error

	// Get returns the given key. Returns ErrNotFound if the given key does not
	// exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete deletes a key. Returns ErrNotFound if the given key does not exist.
	Delete(ctx context.Context, key string) error

	// Scan returns a key-value map of all keys matching the given prefix.
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
}

// A ResourceCodec encodes and decodes resources to/from binary
// representations.
type ResourceCodec interface {
	MarshalResource(res resource.Resource) ([]byte, error)
	UnmarshalResource(data []byte) (resource.Resource, error)
}

// KV is a Key-Value store.
type KV struct {
	Backend KVBackend     // Backend to use for persisting data.
	Codec   ResourceCodec // Used for resource encoding/decoding.
}

// Put stores a resource for a namespace-project.
func (kv *KV) Put(ctx context.Context, ns, project string, res resource.Resource) error {
	data, err := kv.Codec.MarshalResource(res)
	if err != nil {
		return errors.Wrap(err, "marshal resource")
	}

	k := fmt.Sprintf("%s/%s/%s:%s", ns, project, res.Def.Type(), res.Name)

	if err := kv.Backend.Put(ctx, k, data); err != nil {
		return errors.Wrap(err, "store")
	}

	return nil
}

// Delete deletes a single resource.
func (kv *KV) Delete(ctx context.Context, ns, project, typename, name string) error {
	k := fmt.Sprintf("%s/%s/%s:%s", ns, project, typename, name)
	if err := kv.Backend.Delete(ctx, k); err != nil {
		return errors.Wrap(err, "delete")
	}
	return nil
}

// List lists all resources for a given namespace-project.
func (kv *KV) List(ctx context.Context, ns, project string) ([]resource.Resource, error) {
	prefix := fmt.Sprintf("%s/%s", ns, project)
	values, err := kv.Backend.Scan(ctx, prefix)
	if err != nil {
		return nil, errors.Wrap(err, "scan")
	}

	ret := make([]resource.Resource, 0, len(values))
	for _, v := range values {
		res, err := kv.Codec.UnmarshalResource(v)
		if err != nil {
			return nil, errors.Wrap(err, "unmarshal stored resource")
		}
		ret = append(ret, res)
	}
	return ret, nil
}
