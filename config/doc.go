// Package config provides types for project configuration and loading config
// files from disk.
//
// The Loader collects all .hcl files under a project root into a single
// *hclpack.Body, which is then decoded against the Root config and the
// registered resource types.
//
// A typical config file may look something like this:
//
//  project "example" {}
//
//  resource "edge" {
//    type = "sigsci_edge_deployment"   # type decides remaining attributes
//
//    site_name  = "my-site"
//    service_id = cdn.id               # reference to another resource
//  }
//
// Except for the type, the entire body of a resource is specific to the
// resource type.
package config
