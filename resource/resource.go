package resource

import "fmt"

// A Resource is an instance of a resource supplied by the user.
type Resource struct {
	// ID is a globally unique identity for the resource, assigned when the
	// resource is first created. It does not change for the lifetime of the
	// resource.
	ID string

	Name string     // Name used in resource config.
	Def  Definition // Def is the resolved definition for resource, including user data.

	// Deps contain the dependencies of the resource that were used
	// when creating the resource. The value is only set after reading
	// resources from storage.
	Deps []Dependency

	// Hash is the input hash from the last successful apply. The value is
	// only set after reading resources from storage. It cannot be
	// recomputed from Def, as secret input values are redacted in storage.
	Hash string
}

// A Dependency describes a resource dependency.
type Dependency struct {
	Type, Name string
}

func (d Dependency) String() string { return fmt.Sprintf("\"%s:%s\"", d.Type, d.Name) }
