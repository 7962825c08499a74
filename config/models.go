package config

import (
	"github.com/hashicorp/hcl2/hcl"
)

// Root is the top level structure of a loaded configuration, holding the
// project and every resource declared for it.
type Root struct {
	Projects  []Project  `hcl:"project,block"`
	Resources []Resource `hcl:"resource,block"`
}

// A Project is a group of resources that are reconciled together. All
// resources in the configuration belong to the surrounding project.
type Project struct {
	// Name is the name of the project.
	Name string `hcl:"name,label"`
}

// A Resource block declares a single desired resource.
type Resource struct {
	// Name is a unique name for the resource within the project.
	Name string `hcl:"name,label"`

	// Type selects the resource implementation and decides how Config is
	// decoded.
	Type string `hcl:"type"`

	// Config holds the rest of the block body. Its contents depend on the
	// resource type.
	Config hcl.Body `hcl:",remain"`
}
