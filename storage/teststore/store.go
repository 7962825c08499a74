// Package teststore provides an in-memory resource store for tests.
package teststore

import (
	"context"
	"sort"
	"sync"

	"github.com/rampart/rampart/resource"
)

// Store is a store that's intended to be used in tests. All data is stored in
// memory.
//
// The zero value is an empty store, ready for use.
type Store struct {
	mu        sync.RWMutex
	resources map[string]map[string]resource.Resource
}

func key(typename, name string) string { return typename + ":" + name }

// Seed seeds the store with resources for a given namespace and project. If
// the project already has resources, the given resources are added to it.
//
// The method may be called multiple times to add resources in parts, or to
// add resources to different projects.
func (s *Store) Seed(ns, project string, resources []resource.Resource) {
	for _, res := range resources {
		s.put(ns, project, res)
	}
}

// Put creates or updates a resource.
func (s *Store) Put(ctx context.Context, ns, project string, res resource.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(ns, project, res)
	return nil
}

func (s *Store) put(ns, project string, res resource.Resource) {
	proj := ns + "/" + project
	if s.resources == nil {
		s.resources = make(map[string]map[string]resource.Resource)
	}
	if s.resources[proj] == nil {
		s.resources[proj] = make(map[string]resource.Resource)
	}
	s.resources[proj][key(res.Def.Type(), res.Name)] = res
}

// Delete deletes a resource. No-op if the resource does not exist.
func (s *Store) Delete(ctx context.Context, ns, project, typename, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resources[ns+"/"+project], key(typename, name))
	return nil
}

// List lists all resources in a project. The results are sorted by type and
// name.
func (s *Store) List(ctx context.Context, ns, project string) ([]resource.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rr := s.resources[ns+"/"+project]
	keys := make([]string, 0, len(rr))
	for k := range rr {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]resource.Resource, len(keys))
	for i, k := range keys {
		out[i] = rr[k]
	}
	return out, nil
}
