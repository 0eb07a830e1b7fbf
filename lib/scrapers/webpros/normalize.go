package webpros

import "strings"

// Malformed rows are dropped silently throughout: a report yielding
// zero records is a valid empty result, not a failure. Normalizers
// return non-nil slices so empty reports serialize as [].

func zip(schema, cells []string) Record {
	rec := make(Record, len(schema))
	for i, field := range schema {
		rec[field] = cells[i]
	}
	return rec
}

func stripNBSP(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "\u00a0", "")
	}
	return out
}

// isSerial reports whether s is a plain non-negative integer, which is
// what distinguishes data rows from header/footer rows that reuse the
// same row class on the attendance and library pages.
func isSerial(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeTimetable keeps only rows with exactly one cell per
// timetable slot (day, seven periods and the break column).
func NormalizeTimetable(t RawTable) []Record {
	out := []Record{}
	for _, row := range t.Rows {
		cells := stripNBSP(row)
		if len(cells) != len(TimetableSchema) {
			continue
		}
		out = append(out, zip(TimetableSchema, cells))
	}
	return out
}

// NormalizeFaculty accepts rows with at least code, subject and
// faculty name, the initials column is optional.
func NormalizeFaculty(t RawTable) []Record {
	out := []Record{}
	for _, row := range t.Rows {
		cells := stripNBSP(row)
		if len(cells) < 3 {
			continue
		}
		rec := Record{
			FacultySchema[0]: cells[0],
			FacultySchema[1]: cells[1],
			FacultySchema[2]: cells[2],
			FacultySchema[3]: "",
		}
		if len(cells) > 3 {
			rec[FacultySchema[3]] = cells[3]
		}
		out = append(out, rec)
	}
	return out
}

// NormalizeCalendar zips rows positionally against the page's own
// header, rows with a different cell count are dropped.
func NormalizeCalendar(t RawTable) []Record {
	out := []Record{}
	for _, row := range t.Rows {
		if len(row) != len(t.Headers) {
			continue
		}
		out = append(out, zip(t.Headers, row))
	}
	return out
}

// NormalizeAttendance accepts rows with exactly five cells led by a
// serial number.
func NormalizeAttendance(rows [][]string) []Record {
	out := []Record{}
	for _, cells := range rows {
		if len(cells) != len(AttendanceSchema) || !isSerial(cells[0]) {
			continue
		}
		out = append(out, zip(AttendanceSchema, cells))
	}
	return out
}

// NormalizeLibrary accepts rows with exactly eight cells led by a
// serial number.
func NormalizeLibrary(rows [][]string) []Record {
	out := []Record{}
	for _, cells := range rows {
		if len(cells) != len(LibrarySchema) || !isSerial(cells[0]) {
			continue
		}
		out = append(out, zip(LibrarySchema, cells))
	}
	return out
}

// parseBioPairs reads the personal bio table: a two-cell row is one
// label/value pair, a six-or-more-cell row packs two pairs side by
// side (cells 0/2 and 3/5). Pairs with an empty side are skipped.
func parseBioPairs(rows [][]string) map[string]string {
	bio := map[string]string{}
	put := func(k, v string) {
		k = strings.TrimSpace(strings.TrimRight(k, ":"))
		if k != "" && v != "" {
			bio[k] = v
		}
	}
	for _, cells := range rows {
		switch {
		case len(cells) == 2:
			put(cells[0], cells[1])
		case len(cells) >= 6:
			put(cells[0], cells[2])
			put(cells[3], cells[5])
		}
	}
	return bio
}

func emptyEducation() map[string]Record {
	out := make(map[string]Record, len(EducationLevels))
	for _, level := range EducationLevels {
		rec := make(Record, len(EducationSchema))
		for _, field := range EducationSchema {
			rec[field] = ""
		}
		out[level] = rec
	}
	return out
}

// NormalizeEducation matches qualification rows against the fixed
// vocabulary and fills the corresponding education record. rows must
// exclude the sub-table's header row. A record is only overwritten
// when at least one extracted field is non-empty, so phantom blank
// rows cannot clobber the pre-populated defaults.
func NormalizeEducation(rows [][]string) map[string]Record {
	edu := emptyEducation()
	for _, cells := range rows {
		if len(cells) < 7 {
			continue
		}
		level, ok := qualificationLevels[strings.ToLower(cells[0])]
		if !ok {
			continue
		}

		at := func(i int) string {
			if i < len(cells) {
				return cells[i]
			}
			return ""
		}
		rec := make(Record, len(EducationSchema))
		anyFilled := false
		for i, field := range EducationSchema {
			v := at(i + 1)
			rec[field] = v
			anyFilled = anyFilled || v != ""
		}
		if anyFilled {
			edu[level] = rec
		}
	}
	return edu
}
