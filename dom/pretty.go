package dom

import (
	"fmt"
	"html"
	"strings"

	"github.com/antchfx/htmlquery"
	nethtml "golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// prettyPrint renders n with one node per line, indented by depth.
func prettyPrint(n *nethtml.Node) string {
	var b strings.Builder
	writePretty(&b, n, 0)
	return b.String()
}

// PrettyDocument parses markup as a document, or a bare body element, and
// returns the indented dump of its body in the format Screen.Debug writes.
func PrettyDocument(markup string) (string, error) {
	doc, err := nethtml.Parse(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("parsing markup: %w", err)
	}
	body := htmlquery.FindOne(doc, "//body")
	if body == nil {
		return "", fmt.Errorf("parsing markup: no body element")
	}
	return prettyPrint(body), nil
}

func writePretty(b *strings.Builder, n *nethtml.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.Type {
	case nethtml.ElementNode:
		b.WriteString(indent + "<" + n.Data)
		for _, a := range n.Attr {
			b.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
		}
		b.WriteString(">\n")
		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writePretty(b, c, depth+1)
		}
		b.WriteString(indent + "</" + n.Data + ">\n")
	case nethtml.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			b.WriteString(indent + html.EscapeString(t) + "\n")
		}
	case nethtml.CommentNode:
		b.WriteString(indent + "<!--" + n.Data + "-->\n")
	}
}
