package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func firstCell(t testing.TB, markup string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		"<table><tr><td>" + markup + "</td></tr></table>",
	))
	if err != nil {
		t.Fatal(err)
	}
	cell := doc.Find("td").First()
	require.Equal(t, 1, cell.Length())
	return cell
}

func TestInnerHTML(t *testing.T) {
	testCases := []struct {
		markup   string
		expected string
	}{
		{markup: "plain", expected: "plain"},
		{markup: "F&nbsp;2020 &amp; Fall", expected: "F&nbsp;2020 &amp; Fall"},
		{markup: "a &lt; b &gt; c", expected: "a &lt; b &gt; c"},
		{markup: "Women's \"Studies\"", expected: "Women's \"Studies\""},
		{markup: "<b>A+</b>", expected: "<b>A+</b>"},
		{markup: `<a href="/x?a=1&amp;b=2">link</a>`, expected: `<a href="/x?a=1&amp;b=2">link</a>`},
		{markup: "line<br>break", expected: "line<br>break"},
		{markup: "<!-- note -->x", expected: "<!-- note -->x"},
		{markup: "  padded  ", expected: "  padded  "},
	}

	for _, test := range testCases {
		cell := firstCell(t, test.markup)
		require.Equal(t, test.expected, InnerHTML(cell.Nodes[0]), test.markup)
	}
}

func TestDecodeEntities(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "F&nbsp;2020 &amp; Fall", expected: "F2020 & Fall"},
		{input: "A &nbsp;B", expected: "A B"},
		{input: "&lt;i&gt;", expected: "<i>"},
		{input: "&amp;lt;", expected: "<"},
		{input: "&quot;kept&quot; &#39;kept&#39;", expected: "&quot;kept&quot; &#39;kept&#39;"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, DecodeEntities(test.input), test.input)
	}
}

func TestInnerHTMLThenDecode(t *testing.T) {
	cell := firstCell(t, "F&nbsp;2020 &amp; Fall")
	decoded := DecodeEntities(strings.TrimSpace(InnerHTML(cell.Nodes[0])))
	require.Equal(t, "F2020 & Fall", decoded)
}
