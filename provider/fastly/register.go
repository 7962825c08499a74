package fastly

import (
	"github.com/rampart/rampart/resource"
)

type registry interface {
	Register(resource.Definition)
}

// Register adds all supported Fastly resources to the registry.
func Register(reg registry) {
	reg.Register(&Service{})
}
