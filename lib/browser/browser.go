// Package browser exposes the narrow automation surface the portal
// scrapers consume: open a page, navigate, fill and click form
// controls, wait for markers, query elements. The default
// implementation drives the portal at the HTTP level with a
// cookie-holding client and a form-state page model, no real browser
// process involved.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoSuchElement = errors.New("no element matches selector")
	ErrWaitTimeout   = errors.New("timed out waiting for selector")
)

// Launcher produces a fresh Browser. It exists so services and tests
// can swap the HTTP implementation for a fake.
type Launcher func(ctx context.Context) (Browser, error)

type Browser interface {
	NewPage() (Page, error)
	// Close releases the session, it must be called exactly once on
	// every exit path.
	Close() error
}

type Page interface {
	Goto(ctx context.Context, url string, timeout time.Duration) error
	// Fill records a value for the form control matched by selector,
	// the value is sent on the next form submission.
	Fill(selector, value string) error
	// Click follows anchors, checks radio/checkbox controls and
	// submits forms through submit/image buttons.
	Click(ctx context.Context, selector string) error
	WaitForTimeout(d time.Duration)
	WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error
	QueryAll(selector string) []Element
}

type Element interface {
	InnerText() string
	QueryAll(selector string) []Element
}
