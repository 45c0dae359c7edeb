// Package dom is an in-memory render engine for wrap.
//
// Trees are described with [El], [Text], [Markup] and [Fragment], rendered
// into a golang.org/x/net/html document and queried with XPath. Event
// handlers attached with [OnClick], [OnFocus], [OnBlur] and [OnChange] run
// synchronously when the engine fires events, bubbling from the target to
// the document root.
package dom
