package resource

import (
	"context"
)

// A Definition describes a resource.
//
// All resources must implement this interface.
type Definition interface {
	// Type returns the type name for the resource.
	//
	// The name is used for matching the resource to the resource
	// configuration provided by the user, and is persisted with the
	// resource state.
	Type() string

	// Create creates a new resource with the desired inputs set on the
	// definition. Output fields are set on the definition before returning.
	Create(ctx context.Context, req *CreateRequest) error

	// Update updates an existing resource to match the desired inputs set
	// on the definition. The previous state is available in the request.
	// Output fields are set on the definition before returning.
	Update(ctx context.Context, req *UpdateRequest) error

	// Delete removes an existing resource. The definition carries the
	// last observed state of the resource to remove.
	Delete(ctx context.Context, req *DeleteRequest) error
}
