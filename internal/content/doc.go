// Package content models the content graph snapshot fetched from the CMS.
//
// Every routable CMS entity is a Node. Node is a closed tagged union: the only
// implementations are the variant structs declared in this package, so code that
// switches over node types can treat an unmatched case as a programming error.
//
// Decode turns the raw result of the site's GraphQL query into a Graph. The
// snapshot is read-only once decoded.
package content
