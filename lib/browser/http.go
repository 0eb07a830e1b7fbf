package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"gokaraju-backend/lib/htmlutil"
	"gokaraju-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type Options struct {
	UserAgent string
	// overall per-request ceiling, navigation calls may narrow it
	Timeout time.Duration
}

// Launch builds a Browser backed by a cookie-holding HTTP client.
func Launch(opts Options) (Browser, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client.SetHeader("user-agent", ua)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "browser/http")

	return &httpBrowser{client: client}, nil
}

// DefaultLauncher is the production Launcher.
func DefaultLauncher(ctx context.Context) (Browser, error) {
	return Launch(Options{})
}

type httpBrowser struct {
	client *resty.Client
}

func (b *httpBrowser) NewPage() (Page, error) {
	return &httpPage{client: b.client}, nil
}

func (b *httpBrowser) Close() error {
	b.client.GetClient().CloseIdleConnections()
	return nil
}

type httpPage struct {
	client *resty.Client
	url    *url.URL
	doc    *goquery.Document
	// pending control values keyed by control name, flushed into the
	// next form submission
	fields map[string]string
}

func (p *httpPage) load(res *resty.Response) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return err
	}
	p.doc = doc
	p.url = res.RawResponse.Request.URL
	p.fields = map[string]string{}
	return nil
}

func (p *httpPage) Goto(ctx context.Context, rawurl string, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := p.client.R().
		SetContext(ctx).
		Get(rawurl)
	if err != nil {
		return err
	}
	if res.StatusCode() >= 400 {
		return fmt.Errorf("navigate %s: status %d", rawurl, res.StatusCode())
	}
	return p.load(res)
}

func (p *httpPage) Fill(selector, value string) error {
	if p.doc == nil {
		return fmt.Errorf("fill %q: no page loaded", selector)
	}
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return fmt.Errorf("fill %q: %w", selector, ErrNoSuchElement)
	}
	name := sel.AttrOr("name", "")
	if name == "" {
		name = sel.AttrOr("id", "")
	}
	if name == "" {
		return fmt.Errorf("fill %q: control has no name", selector)
	}
	if p.fields == nil {
		p.fields = map[string]string{}
	}
	p.fields[name] = value
	return nil
}

func (p *httpPage) Click(ctx context.Context, selector string) error {
	if p.doc == nil {
		return fmt.Errorf("click %q: no page loaded", selector)
	}

	var sel *goquery.Selection
	if text, ok := strings.CutPrefix(selector, "text="); ok {
		p.doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if htmlutil.NormalizeSpace(s.Text()) == text {
				sel = s
				return false
			}
			return true
		})
		if sel == nil {
			return fmt.Errorf("click %q: %w", selector, ErrNoSuchElement)
		}
	} else {
		sel = p.doc.Find(selector).First()
		if sel.Length() == 0 {
			return fmt.Errorf("click %q: %w", selector, ErrNoSuchElement)
		}
	}

	tag := goquery.NodeName(sel)
	kind := strings.ToLower(sel.AttrOr("type", ""))

	switch {
	case tag == "a":
		href := sel.AttrOr("href", "")
		if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "#") {
			return fmt.Errorf("click %q: anchor is not navigable", selector)
		}
		target, err := p.url.Parse(href)
		if err != nil {
			return err
		}
		return p.Goto(ctx, target.String(), 0)

	case tag == "input" && (kind == "radio" || kind == "checkbox"):
		name := sel.AttrOr("name", "")
		if name == "" {
			return fmt.Errorf("click %q: control has no name", selector)
		}
		if p.fields == nil {
			p.fields = map[string]string{}
		}
		p.fields[name] = sel.AttrOr("value", "on")
		return nil

	case (tag == "input" && (kind == "submit" || kind == "image")) || tag == "button":
		return p.submit(ctx, sel, kind)
	}

	return fmt.Errorf("click %q: element <%s> is not clickable", selector, tag)
}

// submit serializes the control's enclosing form the way a browser
// would (hidden viewstate included) and POSTs it.
func (p *httpPage) submit(ctx context.Context, control *goquery.Selection, kind string) error {
	form := control.Closest("form")
	if form.Length() == 0 {
		return fmt.Errorf("submit: control is outside any form")
	}

	values := url.Values{}
	form.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("name", "")
		if name == "" {
			return
		}
		switch strings.ToLower(s.AttrOr("type", "text")) {
		case "submit", "image", "button", "file":
			// only the clicked control participates
		case "radio", "checkbox":
			if _, filled := p.fields[name]; filled {
				values.Set(name, p.fields[name])
			} else if _, checked := s.Attr("checked"); checked {
				values.Set(name, s.AttrOr("value", "on"))
			}
		default:
			if v, filled := p.fields[name]; filled {
				values.Set(name, v)
			} else {
				values.Set(name, s.AttrOr("value", ""))
			}
		}
	})

	name := control.AttrOr("name", "")
	if name != "" {
		if kind == "image" {
			values.Set(name+".x", "0")
			values.Set(name+".y", "0")
		} else {
			values.Set(name, control.AttrOr("value", ""))
		}
	}

	action, err := p.url.Parse(form.AttrOr("action", p.url.String()))
	if err != nil {
		return err
	}

	req := p.client.R().SetContext(ctx)
	var res *resty.Response
	if strings.EqualFold(form.AttrOr("method", "get"), "post") {
		res, err = req.SetFormDataFromValues(values).Post(action.String())
	} else {
		action.RawQuery = values.Encode()
		res, err = req.Get(action.String())
	}
	if err != nil {
		return err
	}
	if res.StatusCode() >= 400 {
		return fmt.Errorf("submit %s: status %d", action, res.StatusCode())
	}
	return p.load(res)
}

func (p *httpPage) WaitForTimeout(d time.Duration) {
	// content settles synchronously at the HTTP level, the sleep is
	// kept for parity with the portal's redirect behavior
	time.Sleep(d)
}

func (p *httpPage) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if p.doc != nil && p.doc.Find(selector).Length() > 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("selector %q: %w", selector, ErrWaitTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Millisecond * 250):
		}
		if p.url != nil {
			// the marker may appear after the portal finishes a
			// server side redirect, refresh and look again
			if err := p.Goto(ctx, p.url.String(), timeout); err != nil {
				return err
			}
		}
	}
}

func (p *httpPage) QueryAll(selector string) []Element {
	if p.doc == nil {
		return nil
	}
	return Elements(p.doc.Find(selector))
}

// Elements wraps a goquery selection into the Element interface, it is
// shared with fake page implementations.
func Elements(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, httpElement{sel: s})
	})
	return out
}

type httpElement struct {
	sel *goquery.Selection
}

func (e httpElement) InnerText() string {
	if len(e.sel.Nodes) == 0 {
		return ""
	}
	return htmlutil.NormalizeSpace(htmlutil.GetText(e.sel.Nodes[0]))
}

func (e httpElement) QueryAll(selector string) []Element {
	return Elements(e.sel.Find(selector))
}
