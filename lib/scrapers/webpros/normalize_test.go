package webpros

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTimetable(t *testing.T) {
	table := RawTable{
		Headers: []string{"Day", "Period 1", "Period 2", "Period 3", "Break", "Period 4", "Period 5", "Period 6", "Period 7"},
		Rows: [][]string{
			{"MON", "MATHS", "PHY", "\u00a0", "BREAK", "CHEM", "ENG", "LAB", "LAB"},
			{"TUE", "spans the whole day"},
			{"WED", "A", "B", "C", "BREAK", "D", "E", "F", "G"},
		},
	}

	got := NormalizeTimetable(table)
	require.Len(t, got, 2)
	require.Equal(t, "MON", got[0]["Day"])
	// non-breaking space placeholders become empty values
	require.Equal(t, "", got[0]["Period 3"])
	require.Equal(t, "G", got[1]["Period 7"])
}

func TestNormalizeTimetableEmpty(t *testing.T) {
	got := NormalizeTimetable(RawTable{})
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestNormalizeFaculty(t *testing.T) {
	table := RawTable{
		Rows: [][]string{
			{"CS101", "Data Structures", "J. Rao", "JR"},
			{"CS102", "Operating Systems", "K. Devi"},
			{"CS103", "too short"},
		},
	}

	got := NormalizeFaculty(table)
	require.Len(t, got, 2)
	require.Equal(t, "JR", got[0]["Initials"])
	require.Equal(t, "", got[1]["Initials"])
	require.Equal(t, "K. Devi", got[1]["Faculty Name"])
}

func TestNormalizeCalendar(t *testing.T) {
	table := RawTable{
		Headers: []string{"Event", "From", "To"},
		Rows: [][]string{
			{"I Mid Exams", "01-08-2024", "03-08-2024"},
			{"stray row"},
			{"Sem End Exams", "01-12-2024", "15-12-2024"},
		},
	}

	got := NormalizeCalendar(table)
	require.Len(t, got, 2)
	require.Equal(t, "I Mid Exams", got[0]["Event"])
	require.Equal(t, "15-12-2024", got[1]["To"])
}

func TestNormalizeAttendance(t *testing.T) {
	rows := [][]string{
		{"Sl.No.", "Subject", "Held", "Attend", "%"},
		{"1", "Maths", "40", "38", "95.0"},
		{"2", "Physics", "36", "30", "83.3"},
		{"Total", "", "", "", ""},
		{"3", "Chemistry"},
	}

	got := NormalizeAttendance(rows)

	want := []Record{
		{"Sl.No.": "1", "Subject": "Maths", "Held": "40", "Attend": "38", "%": "95.0"},
		{"Sl.No.": "2", "Subject": "Physics", "Held": "36", "Attend": "30", "%": "83.3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("attendance records mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeLibrary(t *testing.T) {
	rows := [][]string{
		{"Sl.No", "Acc.No", "Title", "Author", "Issue Date", "Due Date", "Fine Days", "Fine Amount"},
		{"1", "A1023", "SICP", "Abelson", "01-06-2024", "15-06-2024", "0", "0"},
		{"No records found"},
	}

	got := NormalizeLibrary(rows)
	require.Len(t, got, 1)
	require.Equal(t, "SICP", got[0]["Title"])
	require.Equal(t, "A1023", got[0]["Acc.No"])
}

func TestIsSerial(t *testing.T) {
	require.True(t, isSerial("0"))
	require.True(t, isSerial("42"))
	require.False(t, isSerial(""))
	require.False(t, isSerial("Total"))
	require.False(t, isSerial("1a"))
	require.False(t, isSerial("-1"))
}

func TestParseBioPairs(t *testing.T) {
	// six-cell rows pack two label/value pairs around the colon cells,
	// the values sit at cells 2 and 5
	rows := [][]string{
		{"Name :", "ALICE"},
		{"Roll No", ":", "20B81A0501", "Branch", ":", "CSE"},
		{"Gender", ":", "F", "Photo", ":", ""},
		{"Blood Group", ""},
		{"irregular", "row", "shape"},
	}

	got := parseBioPairs(rows)
	require.Equal(t, map[string]string{
		"Name":    "ALICE",
		"Roll No": "20B81A0501",
		"Branch":  "CSE",
		"Gender":  "F",
	}, got)
}

func TestNormalizeEducation(t *testing.T) {
	rows := [][]string{
		{"SSC", "CBSE", "HT991", "2019", "Some School", "600", "540", "A", "9.0"},
		{"Inter", "BIE", "HT992", "2021", "Some College", "1000", "960", "A+", "9.6"},
		{"B.Tech", "JNTU", "HT993", "2025", "GRIET", "", "", "", ""},
	}

	got := NormalizeEducation(rows)
	require.Len(t, got, len(EducationLevels))
	require.Equal(t, "CBSE", got["School (SSC)"]["Board"])
	require.Equal(t, "9.0", got["School (SSC)"]["GradePoints"])
	require.Equal(t, "Some College", got["Intermediate"]["Institute"])

	// diploma never appeared so the default empty record survives
	for _, field := range EducationSchema {
		require.Equal(t, "", got["Diploma"][field])
	}
}

func TestNormalizeEducationBlankRowKeepsDefaults(t *testing.T) {
	withData := NormalizeEducation([][]string{
		{"ssc", "CBSE", "HT991", "2019", "Some School", "600", "540", "A", "9.0"},
	})
	require.Equal(t, "CBSE", withData["School (SSC)"]["Board"])

	// a matching row whose extracted fields are all empty must not
	// replace anything
	got := NormalizeEducation([][]string{
		{"SSC", "", "", "", "", "", "", "", ""},
	})
	require.Equal(t, emptyEducation(), got)
}

func TestNormalizeEducationVocabularyIsCaseInsensitive(t *testing.T) {
	for _, cell := range []string{"ssc", "SSC", "S.S.C", "Ssc"} {
		got := NormalizeEducation([][]string{
			{cell, "Board", "HT", "2019", "School", "600", "540", "A", "9.0"},
		})
		require.Equal(t, "Board", got["School (SSC)"]["Board"], "qualification cell %q", cell)
	}
}
