package main

import (
	"bufio"
	"context"
	"net/http"
	neturl "net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/e2etest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfToken(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	token, ok := doc.Find("input[name='csrf_token']").First().Attr("value")
	require.True(t, ok, "csrf token in page")
	return token
}

func Test_application_home(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()
	client := newClient(t, server)

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, "name", e2etest.Screen(doc))
	assert.Equal(t, 1, doc.Find("form[action='/name'] input[name='name']").Length())
	assert.Equal(t, 0, doc.Find("main[data-reveal-stream]").Length(), "nothing to reveal yet")
	assert.Contains(t, doc.Find("title").Text(), catalog.MustLoad().Title)
}

func Test_application_playthrough(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()
	client := newClient(t, server)

	doc, err := client.PlayCase(ctx, "Avery")
	require.NoError(t, err)
	require.Equal(t, "final", e2etest.Screen(doc))

	c := catalog.MustLoad()
	lines := doc.Find("#final-text p")
	require.Equal(t, len(c.Revelation), lines.Length())
	assert.Equal(t, "Interesting choice, Avery.", strings.TrimSpace(lines.First().Text()))
	assert.Equal(t, "The subject is you.", strings.TrimSpace(lines.Last().Text()))
	assert.True(t, lines.Last().HasClass("final-revelation"))

	stream, ok := doc.Find("main").Attr("data-reveal-stream")
	require.True(t, ok, "revelation is paced")
	events := readEvents(t, client, stream)
	assert.Equal(t, len(c.Revelation), count(events, "revelation"))
	assert.Equal(t, 1, count(events, "close-case"))
	require.NotEmpty(t, events)
	assert.Equal(t, "done", events[len(events)-1])

	doc, err = client.SubmitOK(ctx, doc, "form#close-case", nil)
	require.NoError(t, err)
	assert.Equal(t, "name", e2etest.Screen(doc), "closing the case starts over")

	resp, err := client.Get(ctx, stream)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "stale reveal stream")
}

func Test_application_rejectedIntents(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()
	client := newClient(t, server)

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)

	doc, status, err := client.Submit(ctx, doc, "form[action='/name']", neturl.Values{"name": {" A "}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "name", e2etest.Screen(doc), "screen unchanged")
	assert.NotEmpty(t, strings.TrimSpace(doc.Find(".error").Text()))

	doc, err = client.SubmitOK(ctx, doc, "form[action='/name']", neturl.Values{"name": {"Avery"}})
	require.NoError(t, err)
	require.Equal(t, "intro", e2etest.Screen(doc))

	tests := []struct {
		name   string
		path   string
		values neturl.Values
		want   int
	}{
		{"locked screen", "/navigate", neturl.Values{"screen": {"timeline"}}, http.StatusConflict},
		{"name twice", "/name", neturl.Values{"name": {"Morgan"}}, http.StatusConflict},
		{"malformed fragment", "/fragment", neturl.Values{"fragment": {"one"}}, http.StatusUnprocessableEntity},
		{"interrogation out of order", "/suspects/start", neturl.Values{"suspect": {"validation"}}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.values.Set("csrf_token", csrfToken(t, doc))
			resp, err := client.Post(ctx, tt.path, tt.values, nil)
			require.NoError(t, err)
			defer func() {
				_ = resp.Body.Close()
			}()
			assert.Equal(t, tt.want, resp.StatusCode)
			page, err := goquery.NewDocumentFromReader(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, "intro", e2etest.Screen(page))
		})
	}

	t.Run("missing csrf token", func(t *testing.T) {
		resp, err := client.Post(ctx, "/navigate", neturl.Values{"screen": {"board"}}, nil)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func Test_application_htmx(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()
	client := newClient(t, server)

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	values := neturl.Values{"csrf_token": {csrfToken(t, doc)}, "name": {"Avery"}}

	resp, err := client.Post(ctx, "/name", values, http.Header{"Hx-Request": {"true"}})
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Hx-Push-Url"))
	page, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "intro", e2etest.Screen(page))
}

func Test_application_redirectAfterIntent(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()
	client := newClient(t, server)

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	values := neturl.Values{"csrf_token": {csrfToken(t, doc)}}

	resp, err := client.Post(ctx, "/audio", values, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, "name", e2etest.Screen(doc), "audio does not move the player")
}

func Test_application_concurrentIntents(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()
	client := newClient(t, server)

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	values := neturl.Values{"csrf_token": {csrfToken(t, doc)}}
	post := func() int {
		resp, postErr := client.Post(ctx, "/audio", values, nil)
		if postErr != nil {
			return 0
		}
		_ = resp.Body.Close()
		return resp.StatusCode
	}
	// The first toggle creates the session the others share.
	require.Equal(t, http.StatusSeeOther, post())
	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	before := doc.Find(".audio-toggle button").Text()

	// An even number of toggles ends where it started only when none of them is lost.
	const toggles = 20
	statuses := make(chan int, toggles)
	var wg sync.WaitGroup
	for range toggles {
		wg.Add(1)
		go func() {
			defer wg.Done()
			statuses <- post()
		}()
	}
	wg.Wait()
	close(statuses)
	for status := range statuses {
		assert.Equal(t, http.StatusSeeOther, status)
	}

	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, before, doc.Find(".audio-toggle button").Text())
}

// readEvents reads the Server-Sent Events stream at path until the server closes it and returns the event names.
func readEvents(t *testing.T, client *e2etest.Client, path string) []string {
	t.Helper()
	resp, err := client.Get(context.Background(), path)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var events []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if name, ok := strings.CutPrefix(scanner.Text(), "event: "); ok {
			events = append(events, name)
		}
	}
	require.NoError(t, scanner.Err())
	return events
}

func count(events []string, name string) int {
	n := 0
	for _, e := range events {
		if e == name {
			n++
		}
	}
	return n
}
