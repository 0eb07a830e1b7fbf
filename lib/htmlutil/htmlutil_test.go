package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(
		`<td>Data <b>Structures</b><script>alert(1)</script><style>b{}</style></td>`,
	))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Data Structures", NormalizeSpace(GetText(doc)))
}

func TestNormalizeSpace(t *testing.T) {
	require.Equal(t, "a b", NormalizeSpace("  a \n\t b  "))
	require.Equal(t, "", NormalizeSpace(" \r\n "))
	// non-breaking spaces survive, the scrapers strip them themselves
	require.Equal(t, "\u00a0", NormalizeSpace("\u00a0"))
}
