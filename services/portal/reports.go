package portal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"gokaraju-backend/lib/scrapers/webpros"
)

// Each fetch owns a full session lifecycle: login, scrape, close. The
// deferred Close is the resource-safety invariant, exactly one close
// per session on every path.

func (s *Service) fetchTimetableAndCalendar(ctx context.Context, creds Credentials) (map[string]any, error) {
	ctx, span := s.tracer.Start(ctx, "service:fetchTimetableAndCalendar")
	defer span.End()

	client, err := webpros.Login(ctx, s.launch, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	// both reports come from one authenticated session, the page just
	// navigates twice
	timetable, faculty, err := client.TimetableAndFaculty(ctx)
	if err != nil {
		return nil, err
	}
	calendar, err := client.AcademicCalendar(ctx)
	if err != nil {
		return nil, err
	}

	if len(timetable) > 0 {
		s.persistJSON("timetable.json", timetable)
	}
	if len(faculty) > 0 {
		s.persistJSON("faculty_allocation.json", faculty)
	}
	if len(calendar) > 0 {
		s.persistJSON("academic_calendar.json", calendar)
	}

	return map[string]any{
		"timetable":          timetable,
		"faculty_allocation": faculty,
		"academic_calendar":  calendar,
	}, nil
}

func (s *Service) fetchAttendance(ctx context.Context, creds Credentials) ([]webpros.Record, error) {
	ctx, span := s.tracer.Start(ctx, "service:fetchAttendance")
	defer span.End()

	client, err := webpros.Login(ctx, s.launch, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	data, err := client.Attendance(ctx)
	if err != nil {
		return nil, err
	}

	s.persistJSON("attendance_data.json", data)
	s.persistCSV("attendance_data.csv", webpros.AttendanceSchema, recordRows(webpros.AttendanceSchema, data))
	return data, nil
}

func (s *Service) fetchLibraryBooks(ctx context.Context, creds Credentials) ([]webpros.Record, error) {
	ctx, span := s.tracer.Start(ctx, "service:fetchLibraryBooks")
	defer span.End()

	client, err := webpros.Login(ctx, s.launch, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	data, err := client.LibraryBooks(ctx)
	if err != nil {
		return nil, err
	}

	s.persistJSON("library_books.json", data)
	s.persistCSV("library_books.csv", webpros.LibrarySchema, recordRows(webpros.LibrarySchema, data))
	return data, nil
}

func (s *Service) fetchBioData(ctx context.Context, creds Credentials) (webpros.BioData, error) {
	ctx, span := s.tracer.Start(ctx, "service:fetchBioData")
	defer span.End()

	client, err := webpros.Login(ctx, s.launch, creds.Username, creds.Password)
	if err != nil {
		return webpros.BioData{}, err
	}
	defer client.Close()

	bio, err := client.BioData(ctx)
	if err != nil {
		return bio, err
	}

	s.persistJSON("bio_data.json", bio)
	s.persistCSV("bio_data.csv", bioCSVHeader, bioRows(bio))
	return bio, nil
}

func (s *Service) fetchResult(ctx context.Context, rollNo string) (webpros.ResultSheet, error) {
	ctx, span := s.tracer.Start(ctx, "service:fetchResult")
	defer span.End()

	sheet, err := webpros.ScrapeResult(ctx, s.launch, rollNo)
	if err != nil {
		return sheet, err
	}

	s.persistJSON(fmt.Sprintf("result_%s.json", rollNo), sheet)
	header := sheet.Headers
	if len(header) == 0 {
		header = webpros.ResultFallbackHeader
	}
	s.persistCSV(fmt.Sprintf("result_%s.csv", rollNo), header, sheet.Rows)
	return sheet, nil
}

// artifacts are side effects of a successful scrape, a write failure
// is logged and the response still carries the data
func (s *Service) persistJSON(name string, v any) {
	if err := s.store.WriteJSON(name, v); err != nil {
		slog.Error("failed to persist json artifact", "name", name, "err", err)
	}
}

func (s *Service) persistCSV(name string, header []string, rows [][]string) {
	if err := s.store.WriteCSV(name, header, rows); err != nil {
		slog.Error("failed to persist csv artifact", "name", name, "err", err)
	}
}

func recordRows(schema []string, records []webpros.Record) [][]string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(schema))
		for j, field := range schema {
			row[j] = rec[field]
		}
		rows[i] = row
	}
	return rows
}

var bioCSVHeader = []string{"Section", "Subsection", "Field", "Value"}

// bioRows flattens bio-data for CSV: personal fields sorted for
// deterministic output, education records in their fixed level and
// schema order.
func bioRows(bio webpros.BioData) [][]string {
	fields := make([]string, 0, len(bio.Personal))
	for k := range bio.Personal {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	var rows [][]string
	for _, f := range fields {
		rows = append(rows, []string{"BioData", "", f, bio.Personal[f]})
	}
	for _, level := range webpros.EducationLevels {
		rec := bio.Education[level]
		for _, field := range webpros.EducationSchema {
			rows = append(rows, []string{"Education", level, field, rec[field]})
		}
	}
	return rows
}
