package e2etest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/casefile/internal/errors"
)

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates an HTTP client with a cookie jar that keeps the session and CSRF cookies of the server at url.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{Jar: jar}, //nolint:exhaustruct // defaults are fine
		url:    url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			c.url+urlPath,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = c.client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
		doc  *goquery.Document
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req, nil
}

// Post posts values as a form to urlPath with the extra header and returns the response without following
// redirects. The caller closes the response body.
func (c *Client) Post(
	ctx context.Context,
	urlPath string,
	values neturl.Values,
	header http.Header,
) (*http.Response, error) {
	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "new request with context")
	}
	for key, v := range header {
		req.Header[key] = v
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	client := *c.client
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request", slog.String("path", urlPath))
	}
	return resp, nil
}

// Submit posts the form matching formSelector in doc and returns the resulting document with its status code.
//
// The posted values are the form's own inputs, including the CSRF token, overridden by values. Redirects are
// followed, so a successful intent answers with the re-rendered screen and status 200. Rejected intents answer
// with their error status and the re-rendered screen.
func (c *Client) Submit(
	ctx context.Context,
	doc *goquery.Document,
	formSelector string,
	values neturl.Values,
) (*goquery.Document, int, error) {
	form := doc.Find(formSelector)
	if form.Length() != 1 {
		return nil, 0, errors.New("form not found",
			slog.String("selector", formSelector), slog.Int("matches", form.Length()))
	}
	action, ok := form.Attr("action")
	if !ok {
		return nil, 0, errors.New("form without action", slog.String("selector", formSelector))
	}

	formData := neturl.Values{}
	form.Find("input[name]").Each(func(_ int, input *goquery.Selection) {
		name, _ := input.Attr("name")
		value, _ := input.Attr("value")
		formData.Set(name, value)
	})
	for name, v := range values {
		formData[name] = v
	}
	if formData.Get("csrf_token") == "" {
		return nil, 0, errors.New("csrf_token not found in form", slog.String("selector", formSelector))
	}

	req, err := c.newRequestWithContext(ctx, http.MethodPost, action, strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, 0, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var resp *http.Response
	if resp, err = c.client.Do(req); err != nil {
		return nil, 0, errors.Wrap(err, "do request", slog.String("action", action))
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, 0, errors.Wrap(err, "create document from reader")
	}
	return doc, resp.StatusCode, nil
}

// SubmitOK is Submit for intents that must be accepted.
func (c *Client) SubmitOK(
	ctx context.Context,
	doc *goquery.Document,
	formSelector string,
	values neturl.Values,
) (*goquery.Document, error) {
	next, status, err := c.Submit(ctx, doc, formSelector, values)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, errors.New("unexpected status code",
			slog.Int("status", status), slog.String("selector", formSelector))
	}
	return next, nil
}

// Navigate submits the navigation form towards screen.
func (c *Client) Navigate(ctx context.Context, doc *goquery.Document, screen string) (*goquery.Document, error) {
	return c.SubmitOK(ctx, doc, NavigateSelector(screen), nil)
}

// NavigateSelector selects the navigation form towards screen.
func NavigateSelector(screen string) string {
	return fmt.Sprintf("form[action='/navigate']:has(input[name='screen'][value='%s'])", screen)
}

// Screen returns the id of the screen rendered in doc.
func Screen(doc *goquery.Document) string {
	id, _ := doc.Find("section.screen").Attr("id")
	return strings.TrimPrefix(id, "screen-")
}
