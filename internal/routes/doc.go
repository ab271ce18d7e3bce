// Package routes compiles a content graph into the ordered page descriptor
// table handed to the static site generator.
//
// Emission order is significant: the generator's page store keeps the last
// descriptor registered for a path, so a master category's listing descriptor
// is followed by (and overwritten with) its ordinary per-category descriptor,
// and singleton pages (articles, favourites) override the generic page
// descriptor of the same node.
package routes
