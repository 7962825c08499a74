// Package decoder provides decoding of a hcl body to a graph.
//
// Project
//
// Every configuration belongs to a project, declared with a project block:
//
//   project "example" {
//   }
//
// Resources
//
// A resource block declares a single resource. The name ("edge" below) is
// used when referring to the resource from other resources. The type
// attribute selects the resource implementation and decides how the rest of
// the body is decoded:
//
//   resource "edge" {
//     type = "sigsci_edge_deployment"
//
//     site_name = "my-site"
//   }
//
// Struct tags on the resource definition describe the inputs and outputs:
//
//   type EdgeDeployment struct {
//       // Inputs
//       SiteName string   `rampart:"input,required"`
//       Origins  []string `rampart:"input"`
//
//       // Outputs
//       APIURL string `rampart:"output" name:"api_url"`
//   }
//
// Fields are matched to hcl attributes by their name in lower_snake_case, or
// by the name tag when the derived name does not fit. An input on a pointer
// field is optional. Struct and struct slice inputs are decoded from nested
// blocks rather than attributes.
//
// References
//
// An input may refer to a field on another resource, creating a dependency
// on that resource:
//
//   resource "cdn" {
//     type = "fastly_service"
//     # ...
//   }
//
//   resource "edge" {
//     type = "sigsci_edge_deployment"
//
//     service_id = cdn.id              # value resolved after cdn is applied
//   }
//
// References may be combined with literals in a template, such as
// "service-${cdn.id}". The referenced value is resolved when the graph is
// reconciled; the parent resource is created or updated first.
//
// Fields marked secret cannot be referenced. Their values do not survive in
// persisted state, so a resource built from one would not reconcile after a
// restart.
package decoder
