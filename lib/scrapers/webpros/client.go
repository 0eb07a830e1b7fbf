package webpros

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gokaraju-backend/lib/browser"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("scrapers/webpros")

const (
	loginUserSelector   = "#txtId2"
	loginPassSelector   = "#txtPwd2"
	loginSubmitSelector = "#imgBtn2"

	navigationTimeout = time.Minute
	markerTimeout     = time.Second * 8
	loginSettle       = time.Second * 2
	pageSettle        = time.Second
	refreshSettle     = time.Millisecond * 1500
)

// Client is one authenticated portal session. It maps one-to-one to a
// browser instance and must be closed on every exit path, sessions are
// never pooled or shared.
type Client struct {
	browser browser.Browser
	page    browser.Page
}

// Login opens a fresh browser session and authenticates against the
// portal's login form. On any failure the browser is closed before
// returning, on success the caller owns the session and must Close it.
func Login(ctx context.Context, launch browser.Launcher, username, password string) (*Client, error) {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	b, err := launch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to launch browser")
		return nil, err
	}

	fail := func(err error) (*Client, error) {
		b.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "login failed")
		return nil, err
	}

	page, err := b.NewPage()
	if err != nil {
		return fail(err)
	}
	if err := page.Goto(ctx, LoginURL, navigationTimeout); err != nil {
		return fail(fmt.Errorf("reach login page: %w", err))
	}
	if err := page.Fill(loginUserSelector, username); err != nil {
		return fail(err)
	}
	if err := page.Fill(loginPassSelector, password); err != nil {
		return fail(err)
	}
	if err := page.Click(ctx, loginSubmitSelector); err != nil {
		return fail(fmt.Errorf("submit login form: %w", err))
	}

	page.WaitForTimeout(loginSettle)

	// the portal reports bad credentials by re-rendering the login
	// form instead of an error status, landing back on it is the only
	// signal we get
	if len(page.QueryAll(loginUserSelector)) > 0 {
		return fail(ErrLoginFailed)
	}

	return &Client{browser: b, page: page}, nil
}

func (c *Client) Close() error {
	return c.browser.Close()
}

// TimetableAndFaculty scrapes the combined timetable report page.
// Every table under #tblReport is classified independently, a table
// may contribute to both outputs.
func (c *Client) TimetableAndFaculty(ctx context.Context) (timetable, faculty []Record, err error) {
	ctx, span := tracer.Start(ctx, "client:TimetableAndFaculty")
	defer span.End()

	timetable = []Record{}
	faculty = []Record{}

	if err := c.page.Goto(ctx, TimetableURL, navigationTimeout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach timetable page")
		return nil, nil, err
	}
	if err := c.page.WaitForSelector(ctx, "#tblReport", markerTimeout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "timetable report never rendered")
		return nil, nil, err
	}

	for _, el := range c.page.QueryAll("#tblReport table") {
		t := TableOf(el)
		for _, kind := range Classify(t) {
			switch kind {
			case KindTimetable:
				timetable = append(timetable, NormalizeTimetable(t)...)
			case KindFacultyAllocation:
				faculty = append(faculty, NormalizeFaculty(t)...)
			}
		}
	}

	slog.DebugContext(ctx, "scraped timetable page",
		"timetable_rows", len(timetable),
		"faculty_rows", len(faculty),
	)
	return timetable, faculty, nil
}

// AcademicCalendar scrapes the academic calendar report. A missing
// report table yields an empty result, not an error.
func (c *Client) AcademicCalendar(ctx context.Context) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "client:AcademicCalendar")
	defer span.End()

	if err := c.page.Goto(ctx, AcademicCalendarURL, navigationTimeout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach calendar page")
		return nil, err
	}
	c.page.WaitForTimeout(pageSettle)

	tables := c.page.QueryAll("#ctl00_CapPlaceHolder_divstudent table.reportTable")
	if len(tables) == 0 {
		return []Record{}, nil
	}
	return NormalizeCalendar(TableOf(tables[0])), nil
}

// Attendance scrapes the subject-wise attendance report, switching the
// page to its "till now" view when the control is present. The filter
// interaction is best effort, its failure never fails the scrape.
func (c *Client) Attendance(ctx context.Context) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "client:Attendance")
	defer span.End()

	if err := c.page.Goto(ctx, AttendanceURL, navigationTimeout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach attendance page")
		return nil, err
	}
	if err := c.page.WaitForSelector(ctx, "table.cellBorder", markerTimeout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "attendance report never rendered")
		return nil, err
	}

	if err := c.page.Click(ctx, `input[id="radTillNow"]`); err == nil {
		if err := c.page.Click(ctx, `input[id="btnShow"]`); err != nil {
			slog.DebugContext(ctx, "attendance refresh control failed", "err", err)
		}
	} else {
		slog.DebugContext(ctx, "attendance till-now control missing", "err", err)
	}
	c.page.WaitForTimeout(refreshSettle)

	return NormalizeAttendance(RowsOf(c.page.QueryAll("table.cellBorder tr"))), nil
}

// LibraryBooks scrapes the issued-books report of the library module.
func (c *Client) LibraryBooks(ctx context.Context) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "client:LibraryBooks")
	defer span.End()

	if err := c.page.Goto(ctx, LibraryURL, navigationTimeout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach library page")
		return nil, err
	}
	c.page.WaitForTimeout(refreshSettle)

	return NormalizeLibrary(RowsOf(c.page.QueryAll("table#tblbooks tr"))), nil
}

// BioData scrapes the student profile page: personal key/value pairs
// plus the education sub-table. Expanding the BIO-DATA tab is best
// effort since the content is often rendered already.
func (c *Client) BioData(ctx context.Context) (BioData, error) {
	ctx, span := tracer.Start(ctx, "client:BioData")
	defer span.End()

	out := BioData{
		Personal:  map[string]string{},
		Education: emptyEducation(),
	}

	if err := c.page.Goto(ctx, ProfileURL, navigationTimeout); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to reach profile page")
		return out, err
	}
	c.page.WaitForTimeout(pageSettle)

	if err := c.page.Click(ctx, "text=BIO-DATA"); err == nil {
		if err := c.page.WaitForSelector(ctx, "#divProfile_BioData", time.Second*3); err != nil {
			slog.DebugContext(ctx, "bio-data tab never expanded", "err", err)
		}
	}

	tables := c.page.QueryAll("#divProfile_BioData > table")
	if len(tables) > 0 {
		out.Personal = parseBioPairs(RowsOf(tables[0].QueryAll("tr")))
	}
	if len(tables) > 1 {
		rows := RowsOf(tables[1].QueryAll("table tr"))
		if len(rows) > 1 {
			out.Education = NormalizeEducation(rows[1:])
		}
	}

	return out, nil
}
