package htmlutil

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

var rawTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"xmp":      true,
	"iframe":   true,
	"noembed":  true,
	"noframes": true,
}

// text is escaped the way the HTML fragment serialization algorithm does it,
// which keeps non-breaking spaces as the literal "&nbsp;" entity.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"\u00a0", "&nbsp;",
	"<", "&lt;",
	">", "&gt;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"\u00a0", "&nbsp;",
	`"`, "&quot;",
)

// InnerHTML serializes the children of a node back into markup.
func InnerHTML(node *html.Node) string {
	var buffer bytes.Buffer
	child := node.FirstChild
	for child != nil {
		writeNode(child, &buffer)
		child = child.NextSibling
	}
	return buffer.String()
}

func writeNode(node *html.Node, buffer *bytes.Buffer) {
	switch node.Type {
	case html.TextNode:
		if node.Parent != nil && rawTextElements[node.Parent.Data] {
			buffer.WriteString(node.Data)
			return
		}
		buffer.WriteString(textEscaper.Replace(node.Data))
	case html.CommentNode:
		buffer.WriteString("<!--")
		buffer.WriteString(node.Data)
		buffer.WriteString("-->")
	case html.ElementNode:
		buffer.WriteByte('<')
		buffer.WriteString(node.Data)
		for _, attr := range node.Attr {
			buffer.WriteByte(' ')
			if attr.Namespace != "" {
				buffer.WriteString(attr.Namespace)
				buffer.WriteByte(':')
			}
			buffer.WriteString(attr.Key)
			buffer.WriteString(`="`)
			buffer.WriteString(attrEscaper.Replace(attr.Val))
			buffer.WriteByte('"')
		}
		buffer.WriteByte('>')
		if voidElements[node.Data] {
			return
		}
		child := node.FirstChild
		for child != nil {
			writeNode(child, buffer)
			child = child.NextSibling
		}
		buffer.WriteString("</")
		buffer.WriteString(node.Data)
		buffer.WriteByte('>')
	}
}

// DecodeEntities decodes the handful of entities the course list uses.
// Replacements run one after another, so "&nbsp;" is dropped entirely
// rather than turned into a space.
func DecodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&nbsp;", "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	return s
}
