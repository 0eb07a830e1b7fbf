package webpros

import (
	"context"
	"time"

	"gokaraju-backend/lib/browser"

	"go.opentelemetry.io/otel/codes"
)

const resultMarkerTimeout = time.Second * 10

// ScrapeResult fetches the examination result sheet for a single roll
// number. The result portal needs no login, so this owns its whole
// session: launch, scrape, close.
func ScrapeResult(ctx context.Context, launch browser.Launcher, rollNo string) (ResultSheet, error) {
	ctx, span := tracer.Start(ctx, "ScrapeResult")
	defer span.End()

	sheet := ResultSheet{Headers: []string{}, Rows: [][]string{}}

	b, err := launch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to launch browser")
		return sheet, err
	}
	defer b.Close()

	fail := func(err error) (ResultSheet, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "result scrape failed")
		return sheet, err
	}

	page, err := b.NewPage()
	if err != nil {
		return fail(err)
	}
	if err := page.Goto(ctx, ResultURL, navigationTimeout); err != nil {
		return fail(err)
	}
	if err := page.Fill(`input[name="rollno"]`, rollNo); err != nil {
		return fail(err)
	}
	if err := page.Click(ctx, `input[name="submit"]`); err != nil {
		return fail(err)
	}

	// newer result pages render table.collapse, older ones fall back
	// to a bare bordered table
	selector := "table.collapse"
	if err := page.WaitForSelector(ctx, selector, resultMarkerTimeout); err != nil {
		selector = "table[border='1']"
		if err := page.WaitForSelector(ctx, selector, resultMarkerTimeout); err != nil {
			return fail(err)
		}
	}

	tables := page.QueryAll(selector)
	if len(tables) == 0 {
		return sheet, nil
	}

	t := TableOf(tables[0])
	if t.Headers != nil {
		sheet.Headers = t.Headers
	}
	if t.Rows != nil {
		sheet.Rows = t.Rows
	}
	return sheet, nil
}
