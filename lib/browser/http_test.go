package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const portalFormHTML = `
	<html><body>
		<a href="/about">About Us</a>
		<a href="javascript:__doPostBack()">Fake Link</a>
		<form method="post" action="/login">
			<input type="hidden" name="__VIEWSTATE" value="state-1" />
			<input type="text" id="txtUser" name="txtUser" value="" />
			<input type="radio" id="radTillNow" name="filter" value="till-now" />
			<input type="image" id="imgGo" name="imgGo" src="go.gif" />
		</form>
	</body></html>`

func portalServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, portalFormHTML)
	})
	mux.HandleFunc("GET /about", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div id="about">about page</div>`)
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		// the page must submit like a browser: filled controls, hidden
		// viewstate and the clicked image button's coordinates
		if r.PostFormValue("txtUser") != "alice" {
			t.Errorf("txtUser = %q", r.PostFormValue("txtUser"))
		}
		if r.PostFormValue("__VIEWSTATE") != "state-1" {
			t.Errorf("__VIEWSTATE = %q", r.PostFormValue("__VIEWSTATE"))
		}
		if r.PostFormValue("imgGo.x") != "0" || r.PostFormValue("imgGo.y") != "0" {
			t.Error("image button coordinates missing")
		}
		if r.PostFormValue("filter") != "till-now" {
			t.Errorf("filter = %q", r.PostFormValue("filter"))
		}
		fmt.Fprint(w, `<div id="welcome">welcome alice</div>`)
	})
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<div id="results">results for %s</div>`, r.URL.Query().Get("q"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newPage(t *testing.T) (Page, *httptest.Server) {
	t.Helper()
	server := portalServer(t)

	b, err := Launch(Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })

	page, err := b.NewPage()
	if err != nil {
		t.Fatal(err)
	}
	if err := page.Goto(context.Background(), server.URL, time.Second*5); err != nil {
		t.Fatal(err)
	}
	return page, server
}

func TestFormSubmission(t *testing.T) {
	page, _ := newPage(t)
	ctx := context.Background()

	require.NoError(t, page.Fill("#txtUser", "alice"))
	require.NoError(t, page.Click(ctx, "#radTillNow"))
	require.NoError(t, page.Click(ctx, "#imgGo"))

	require.Len(t, page.QueryAll("#welcome"), 1)
	require.Equal(t, "welcome alice", page.QueryAll("#welcome")[0].InnerText())
}

func TestClickAnchor(t *testing.T) {
	page, _ := newPage(t)

	require.NoError(t, page.Click(context.Background(), "text=About Us"))
	require.Len(t, page.QueryAll("#about"), 1)
}

func TestClickNonNavigableAnchor(t *testing.T) {
	page, _ := newPage(t)

	err := page.Click(context.Background(), "text=Fake Link")
	require.Error(t, err)
	// the page must not have navigated away
	require.Len(t, page.QueryAll("#txtUser"), 1)
}

func TestFillMissingControl(t *testing.T) {
	page, _ := newPage(t)

	err := page.Fill("#nope", "value")
	require.ErrorIs(t, err, ErrNoSuchElement)
}

func TestClickMissingControl(t *testing.T) {
	page, _ := newPage(t)

	err := page.Click(context.Background(), "#nope")
	require.ErrorIs(t, err, ErrNoSuchElement)

	err = page.Click(context.Background(), "text=No Such Anchor")
	require.ErrorIs(t, err, ErrNoSuchElement)
}

func TestWaitForSelector(t *testing.T) {
	page, _ := newPage(t)
	ctx := context.Background()

	require.NoError(t, page.WaitForSelector(ctx, "#txtUser", time.Second))

	err := page.WaitForSelector(ctx, "#never-appears", time.Millisecond*400)
	require.ErrorIs(t, err, ErrWaitTimeout)
}

func TestGotoErrorStatus(t *testing.T) {
	page, server := newPage(t)

	err := page.Goto(context.Background(), server.URL+"/missing", time.Second*5)
	require.Error(t, err)
}

func TestGetFormSubmission(t *testing.T) {
	server := portalServer(t)

	b, err := Launch(Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	page, err := b.NewPage()
	if err != nil {
		t.Fatal(err)
	}

	searchForm := fmt.Sprintf(`
		<form method="get" action="%s/search">
			<input type="text" id="q" name="q" />
			<input type="submit" id="go" name="go" value="Search" />
		</form>`, server.URL)
	formServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchForm)
	}))
	defer formServer.Close()

	ctx := context.Background()
	require.NoError(t, page.Goto(ctx, formServer.URL, time.Second*5))
	require.NoError(t, page.Fill("#q", "golang"))
	require.NoError(t, page.Click(ctx, "#go"))
	require.Equal(t, "results for golang", page.QueryAll("#results")[0].InnerText())
}
