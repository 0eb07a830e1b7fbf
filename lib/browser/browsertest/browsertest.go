// Package browsertest provides an in-memory Browser for scraper and
// service tests: pages come from a map of canned HTML, clicks follow a
// selector-to-url routing table, waits return immediately.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gokaraju-backend/lib/browser"

	"github.com/PuerkitoBio/goquery"
)

// Site describes the fake portal. One Site can launch any number of
// fake browsers, all of them are tracked so tests can assert on
// session cleanup.
type Site struct {
	// url -> page html
	Pages map[string]string
	// click selector -> url the click navigates to. A selector that
	// is absent errors like a missing element, mapping a selector to
	// the empty string makes the click a state-only no-op.
	Clicks map[string]string

	LaunchErr error
	Launched  []*Fake
}

func (s *Site) Launcher() browser.Launcher {
	return func(ctx context.Context) (browser.Browser, error) {
		if s.LaunchErr != nil {
			return nil, s.LaunchErr
		}
		f := &Fake{site: s}
		s.Launched = append(s.Launched, f)
		return f, nil
	}
}

type Fake struct {
	site   *Site
	Closed int
}

func (f *Fake) NewPage() (browser.Page, error) {
	return &fakePage{fake: f}, nil
}

func (f *Fake) Close() error {
	f.Closed++
	return nil
}

type fakePage struct {
	fake *Fake
	url  string
	doc  *goquery.Document
}

func (p *fakePage) Goto(ctx context.Context, url string, timeout time.Duration) error {
	html, ok := p.fake.site.Pages[url]
	if !ok {
		return fmt.Errorf("navigate %s: no such page", url)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}
	p.url = url
	p.doc = doc
	return nil
}

func (p *fakePage) Fill(selector, value string) error {
	if p.doc == nil || p.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("fill %q: %w", selector, browser.ErrNoSuchElement)
	}
	return nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	target, ok := p.fake.site.Clicks[selector]
	if !ok {
		return fmt.Errorf("click %q: %w", selector, browser.ErrNoSuchElement)
	}
	if target == "" {
		return nil
	}
	return p.Goto(ctx, target, 0)
}

func (p *fakePage) WaitForTimeout(d time.Duration) {}

func (p *fakePage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	if p.doc != nil && p.doc.Find(selector).Length() > 0 {
		return nil
	}
	return fmt.Errorf("selector %q: %w", selector, browser.ErrWaitTimeout)
}

func (p *fakePage) QueryAll(selector string) []browser.Element {
	if p.doc == nil {
		return nil
	}
	return browser.Elements(p.doc.Find(selector))
}
