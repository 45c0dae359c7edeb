// Package wrap composes rendered-UI query objects with user-defined wrappers.
//
// A render engine produces a root [Screen]. [Mount] wraps it in an [Object] and
// applies wrapper functions, each of which returns a [Props] mapping of custom
// methods and values. [Within] scopes an object to one element: the scoped
// object can only query that element's subtree, gains the [Actions] click,
// focus, blur and type, and rejects operations that only make sense at the
// root of a render.
//
// [ComposeAs], [MountAs] and [For] decode the merged props into a caller
// supplied struct so that custom methods are statically typed.
package wrap
