package webpros

import (
	"strings"
	"testing"

	"gokaraju-backend/lib/browser"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func tableElement(t testing.TB, html string) browser.Element {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	els := browser.Elements(doc.Find("table"))
	require.NotEmpty(t, els)
	return els[0]
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name    string
		headers []string
		want    []TableKind
	}{
		{
			name:    "timetable by day column",
			headers: []string{"Day", "Period 1", "Period 2"},
			want:    []TableKind{KindTimetable},
		},
		{
			name:    "timetable by period column",
			headers: []string{"Weekday", "Period 1"},
			want:    []TableKind{KindTimetable},
		},
		{
			name:    "faculty by subject code",
			headers: []string{"Subject Code", "Subject", "Name"},
			want:    []TableKind{KindFacultyAllocation},
		},
		{
			name:    "faculty by faculty column",
			headers: []string{"Code", "Subject", "Faculty Name"},
			want:    []TableKind{KindFacultyAllocation},
		},
		{
			name:    "both heuristics match independently",
			headers: []string{"Day", "Period 1", "Faculty Name"},
			want:    []TableKind{KindTimetable, KindFacultyAllocation},
		},
		{
			name:    "unclassified",
			headers: []string{"Event", "From", "To"},
			want:    nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(RawTable{Headers: tc.headers})
			require.Equal(t, tc.want, got)
		})
	}
}

func TestTableOf(t *testing.T) {
	el := tableElement(t, `
		<table>
			<tr><th>Day</th><th>Period 1</th></tr>
			<tr><td>MON</td><td>MATHS</td></tr>
			<tr><th>no td cells at all</th></tr>
			<tr><td>  TUE  </td><td>
				PHY
			</td></tr>
		</table>`)

	got := TableOf(el)
	require.Equal(t, []string{"Day", "Period 1"}, got.Headers)
	require.Equal(t, [][]string{
		{"MON", "MATHS"},
		{"TUE", "PHY"},
	}, got.Rows)
}

func TestTableOfEmpty(t *testing.T) {
	got := TableOf(tableElement(t, `<table></table>`))
	require.Empty(t, got.Headers)
	require.Empty(t, got.Rows)
}

func TestRowsOfKeepsEveryRow(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
		<table id="x">
			<tr><td>Sl.No.</td><td>Subject</td></tr>
			<tr><td>1</td><td>Maths</td></tr>
			<tr><th>only header cells</th></tr>
		</table>`))
	if err != nil {
		t.Fatal(err)
	}

	got := RowsOf(browser.Elements(doc.Find("#x tr")))
	require.Equal(t, [][]string{
		{"Sl.No.", "Subject"},
		{"1", "Maths"},
		{},
	}, got)
}
