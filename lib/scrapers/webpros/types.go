// Package webpros scrapes the webprosindia-hosted Gokaraju student
// portal: one login gateway, six report pages, fixed-schema records.
package webpros

import "errors"

const (
	LoginURL            = "https://www.webprosindia.com/Gokaraju/StudentMaster.aspx"
	AttendanceURL       = "https://www.webprosindia.com/Gokaraju/Academics/StudentAttendance.aspx?scrid=3&showtype=SA"
	LibraryURL          = "https://www.webprosindia.com/gokaraju/Library/studentsbooks.aspx?scrid=14"
	ProfileURL          = "https://www.webprosindia.com/Gokaraju/Academics/StudentProfile.aspx?scrid=17"
	TimetableURL        = "https://www.webprosindia.com/gokaraju/Academics/TimeTableReport.aspx?scrid=18"
	AcademicCalendarURL = "https://www.webprosindia.com/gokaraju/Academics/AcademicCalenderReport.aspx?scrid=1"
	ResultURL           = "https://share.google/gRCrPbNPt35EwEUJW"
)

var ErrLoginFailed = errors.New("failed to login to the student portal, check your credentials")

// Record maps a schema field name to the scraped cell value. Produced
// by the row normalizers, never mutated afterwards.
type Record map[string]string

// RawTable is a located report table: header cell texts from the first
// row, body rows below it, every cell trimmed. Rows without any <td>
// are discarded during extraction.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// The report schemas. Field order is shared between the normalizers
// and the CSV writer so columns never drift.
var (
	TimetableSchema  = []string{"Day", "Period 1", "Period 2", "Period 3", "Break", "Period 4", "Period 5", "Period 6", "Period 7"}
	FacultySchema    = []string{"Subject Code", "Subject", "Faculty Name", "Initials"}
	AttendanceSchema = []string{"Sl.No.", "Subject", "Held", "Attend", "%"}
	LibrarySchema    = []string{"Sl.No", "Acc.No", "Title", "Author", "Issue Date", "Due Date", "Fine Days", "Fine Amount"}
	EducationSchema  = []string{"Board", "HallTicketNo", "YearOfPass", "Institute", "MaxMarks", "Obtained", "GradeLetter", "GradePoints"}
)

// The three fixed education records of the profile page, always present
// in the output even when the portal has no data for them.
var EducationLevels = []string{"School (SSC)", "Intermediate", "Diploma"}

// qualification cell vocabulary, matched case-insensitively
var qualificationLevels = map[string]string{
	"ssc":          "School (SSC)",
	"s.s.c":        "School (SSC)",
	"inter":        "Intermediate",
	"intermediate": "Intermediate",
	"diploma":      "Diploma",
}

// BioData is the profile page output: free-form personal key/value
// pairs plus the three fixed education records.
type BioData struct {
	Personal  map[string]string `json:"BioData"`
	Education map[string]Record `json:"Education"`
}

// ResultSheet is a raw examination result table for one roll number,
// header shapes vary between result pages so no fixed schema applies.
type ResultSheet struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ResultFallbackHeader is used for the result CSV when the page
// supplied no header row.
var ResultFallbackHeader = []string{"S.No", "Subject Code", "Subject Name", "Grade Point", "Grade", "Credits", "Result"}
