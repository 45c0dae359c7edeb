// Package browser is a wrap render engine backed by a live Chrome tab.
//
// Trees are serialized with dom.HTML and written into a container element in
// the tab's document over the DevTools protocol. Queries return node handles
// whose attributes and text are captured when the query runs, and events are
// real input: clicks are mouse events at the element's centre.
package browser
