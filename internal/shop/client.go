package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/storefront-tui/internal/logging/events"
	"github.com/google/uuid"
)

const (
	csrfCookie     = "csrftoken"
	csrfHeader     = "X-CSRFToken"
	DefaultTimeout = 10 * time.Second
	maxBody        = 4 << 20
)

// Client talks to the storefront backend. It keeps a cookie jar so the
// session and anti-forgery cookies survive between requests.
type Client struct {
	base    *url.URL
	HTTP    *http.Client
	Timeout time.Duration
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.HTTP = h
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// NewClient validates baseURL and returns a client rooted at it.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := Resolve(baseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		base:    base,
		HTTP:    &http.Client{Jar: jar},
		Timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.HTTP.Jar == nil {
		c.HTTP.Jar = jar
	}
	return c, nil
}

// Resolve normalizes a base URL. A missing scheme defaults to http.
func Resolve(raw string) (*url.URL, error) {
	in := strings.TrimSpace(raw)
	if in == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	if !strings.Contains(in, "://") {
		in = "http://" + in
	}
	u, err := url.Parse(in)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL (missing host): %q", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// BaseURL returns the normalized root the client talks to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// URL joins path (and an optional query) onto the base URL.
func (c *Client) URL(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// CartData fetches the current cart snapshot.
func (c *Client) CartData(ctx context.Context) (CartSnapshot, error) {
	var resp cartDataResponse
	if err := c.get(ctx, "cart data", "/cart/data/", nil, &resp); err != nil {
		return CartSnapshot{}, err
	}
	if err := resp.check("cart data"); err != nil {
		return CartSnapshot{}, err
	}
	return resp.CartSnapshot, nil
}

// UpdateQuantity sets the quantity of one cart line.
func (c *Client) UpdateQuantity(ctx context.Context, itemID, quantity int) (MutationResult, error) {
	form := url.Values{"quantity": {strconv.Itoa(quantity)}}
	var resp mutationResponse
	op := "update quantity"
	if err := c.post(ctx, op, fmt.Sprintf("/cart/update/%d/", itemID), form, &resp); err != nil {
		return MutationResult{}, err
	}
	if err := resp.check(op); err != nil {
		return MutationResult{}, err
	}
	return resp.MutationResult, nil
}

// RemoveItem deletes one cart line.
func (c *Client) RemoveItem(ctx context.Context, itemID int) (MutationResult, error) {
	var resp mutationResponse
	op := "remove item"
	if err := c.post(ctx, op, fmt.Sprintf("/cart/remove/%d/", itemID), url.Values{}, &resp); err != nil {
		return MutationResult{}, err
	}
	if err := resp.check(op); err != nil {
		return MutationResult{}, err
	}
	return resp.MutationResult, nil
}

// ProductVariants fetches the fabric and size catalog of a product.
func (c *Client) ProductVariants(ctx context.Context, productID int) (VariantCatalog, error) {
	var resp catalogResponse
	op := "product variants"
	if err := c.get(ctx, op, fmt.Sprintf("/product/%d/variants/", productID), nil, &resp); err != nil {
		return VariantCatalog{}, err
	}
	if err := resp.check(op); err != nil {
		return VariantCatalog{}, err
	}
	return resp.VariantCatalog, nil
}

// AddToCart submits a product, or a concrete variant when variantID > 0.
func (c *Client) AddToCart(ctx context.Context, productID, variantID, quantity int) (AddResult, error) {
	form := url.Values{"quantity": {strconv.Itoa(quantity)}}
	if variantID > 0 {
		form.Set("variant_id", strconv.Itoa(variantID))
	}
	var resp addResponse
	op := "add to cart"
	if err := c.post(ctx, op, fmt.Sprintf("/cart/add/%d/", productID), form, &resp); err != nil {
		return AddResult{}, err
	}
	if err := resp.check(op); err != nil {
		return AddResult{}, err
	}
	return resp.AddResult, nil
}

// Search runs the live search query.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var resp searchResponse
	if err := c.get(ctx, "search", "/search/api/", url.Values{"q": {query}}, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path, query), nil)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	return c.do(req, op, out)
}

func (c *Client) post(ctx context.Context, op, path string, form url.Values, out interface{}) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	token, err := c.csrfToken(ctx)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(csrfHeader, token)
	return c.do(req, op, out)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

func (c *Client) do(req *http.Request, op string, out interface{}) error {
	id := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-ID", id)
	events.HTTP.Request(id, req.Method, req.URL.RequestURI())
	started := time.Now()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		events.HTTP.Error(id, err)
		return &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	events.HTTP.Response(id, resp.StatusCode, time.Since(started))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		events.HTTP.Error(id, err)
		return &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedResponseError{Op: op, Err: err}
	}
	return nil
}

// csrfToken returns the anti-forgery cookie value, priming the jar with a
// GET of the site root when it has none yet.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	if token := c.cookie(csrfCookie); token != "" {
		return token, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL("/", nil), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
	_ = resp.Body.Close()
	if token := c.cookie(csrfCookie); token != "" {
		return token, nil
	}
	return "", errors.New("no csrftoken cookie issued")
}

func (c *Client) cookie(name string) string {
	if c.HTTP.Jar == nil {
		return ""
	}
	for _, ck := range c.HTTP.Jar.Cookies(c.base) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}
