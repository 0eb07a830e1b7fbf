package webpros

import (
	"strings"

	"gokaraju-backend/lib/browser"
)

// TableKind tags what a classified table holds. The timetable page
// renders both kinds inside the same #tblReport container without
// distinguishing markup, so header text is the only signal.
type TableKind int

const (
	KindTimetable TableKind = iota
	KindFacultyAllocation
)

// Classify evaluates each header heuristic independently and returns
// every kind the table matches. An empty result means the table is
// unclassified and contributes no records.
func Classify(t RawTable) []TableKind {
	var kinds []TableKind
	if hasTimetableHeader(t.Headers) {
		kinds = append(kinds, KindTimetable)
	}
	if hasFacultyHeader(t.Headers) {
		kinds = append(kinds, KindFacultyAllocation)
	}
	return kinds
}

func hasTimetableHeader(headers []string) bool {
	for _, h := range headers {
		l := strings.ToLower(h)
		if strings.HasPrefix(l, "day") || strings.Contains(l, "period") {
			return true
		}
	}
	return false
}

func hasFacultyHeader(headers []string) bool {
	for _, h := range headers {
		l := strings.ToLower(h)
		if strings.Contains(l, "subject code") || strings.Contains(l, "faculty") {
			return true
		}
	}
	return false
}

// TableOf extracts a RawTable from a <table> element: header cells
// from the first row (td or th), body rows below it. Rows without any
// <td> are dropped here, shape validation happens in the normalizers.
func TableOf(el browser.Element) RawTable {
	trs := el.QueryAll("tr")
	if len(trs) == 0 {
		return RawTable{}
	}

	var headers []string
	for _, cell := range trs[0].QueryAll("td, th") {
		headers = append(headers, strings.TrimSpace(cell.InnerText()))
	}

	var rows [][]string
	for _, tr := range trs[1:] {
		cells := cellTexts(tr)
		if len(cells) == 0 {
			continue
		}
		rows = append(rows, cells)
	}

	return RawTable{Headers: headers, Rows: rows}
}

// RowsOf collects the cell texts of a flat row selection, header and
// footer rows included. Used for pages addressed by a row selector
// rather than a single table element.
func RowsOf(trs []browser.Element) [][]string {
	rows := make([][]string, 0, len(trs))
	for _, tr := range trs {
		rows = append(rows, cellTexts(tr))
	}
	return rows
}

func cellTexts(tr browser.Element) []string {
	tds := tr.QueryAll("td")
	cells := make([]string, 0, len(tds))
	for _, td := range tds {
		cells = append(cells, strings.TrimSpace(td.InnerText()))
	}
	return cells
}
