// Package resolvers derives computed block attributes for the rendering
// layer: duotone filter channels for cover blocks and the template variant
// of contact form blocks.
//
// Resolvers are pure. Bad input degrades to a documented default and never
// fails a build.
package resolvers
