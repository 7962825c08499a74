package teststore

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/rampart/rampart/resource"
)

type store interface {
	Put(ctx context.Context, ns, project string, res resource.Resource) error
	Delete(ctx context.Context, ns, project, typename, name string) error
	List(ctx context.Context, ns, project string) ([]resource.Resource, error)
}

// A Recorder acts as a wrapper to a store. It records all transactions with
// the store for test or debugging purposes.
type Recorder struct {
	Store store

	mu     sync.Mutex
	Events Events
}

// Events is a collection of events.
type Events []Event

// Diff returns a diff of events. Returns an empty string if the events are
// equal.
func (ee Events) Diff(other Events, opts ...cmp.Option) string {
	return cmp.Diff(ee, other, opts...)
}

// String returns a string of all events that have occurred.
//
// If no events have been recorded, returns
//  <no events>
func (ee Events) String() string {
	if len(ee) == 0 {
		return "<no events>"
	}
	ss := make([]string, len(ee))
	for i, e := range ee {
		ss[i] = e.String()
	}
	return fmt.Sprintf("%v", ss)
}

// An Event is a recorded event.
type Event struct {
	Method  string      // Called method.
	Project string      // Namespace and project that were passed in.
	Data    interface{} // Arbitrary data. Content depends on the method.
	Err     error       // Error that was returned from the call.
}

func (ev Event) String() string {
	var buf bytes.Buffer
	buf.WriteString(ev.Method)
	buf.WriteString("(project: ")
	buf.WriteString(ev.Project)
	buf.WriteString(")")
	if ev.Data != nil {
		fmt.Fprintf(&buf, " data: %v", ev.Data)
	}
	if ev.Err != nil {
		buf.WriteString(" -> ")
		buf.WriteString(ev.Err.Error())
	}
	return buf.String()
}

// Put calls the corresponding method on the underlying store and records the
// event. The resource is set as event data.
func (r *Recorder) Put(ctx context.Context, ns, project string, res resource.Resource) error {
	ev := Event{
		Method:  "Put",
		Project: ns + "/" + project,
		Data:    res,
	}
	err := r.Store.Put(ctx, ns, project, res)
	ev.Err = err
	r.record(ev)
	return err
}

// Delete calls the corresponding method on the underlying store and records
// the event. The type and name of the deleted resource are set as event data.
func (r *Recorder) Delete(ctx context.Context, ns, project, typename, name string) error {
	ev := Event{
		Method:  "Delete",
		Project: ns + "/" + project,
		Data:    key(typename, name),
	}
	err := r.Store.Delete(ctx, ns, project, typename, name)
	ev.Err = err
	r.record(ev)
	return err
}

// List calls the corresponding method on the underlying store and records the
// event.
func (r *Recorder) List(ctx context.Context, ns, project string) ([]resource.Resource, error) {
	ev := Event{
		Method:  "List",
		Project: ns + "/" + project,
	}
	out, err := r.Store.List(ctx, ns, project)
	ev.Err = err
	r.record(ev)
	return out, err
}

func (r *Recorder) record(ev Event) {
	r.mu.Lock()
	r.Events = append(r.Events, ev)
	r.mu.Unlock()
}
