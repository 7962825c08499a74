package sigsci

import (
	"github.com/rampart/rampart/resource"
)

type registry interface {
	Register(resource.Definition)
}

// Register adds all supported Signal Sciences resources to the registry.
func Register(reg registry) {
	reg.Register(&EdgeDeployment{})
}
