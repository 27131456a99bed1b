package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/ordersctl/internal/order"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:8080"

// AdminPasswordHeader carries the shared admin secret.
const AdminPasswordHeader = "X-Admin-Password"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 1 << 20

// Client talks to the order service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	requestIDs RequestIDGenerator
	observers  []Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRequestIDGenerator overrides the UUIDv7 request id generator.
func WithRequestIDGenerator(g RequestIDGenerator) Option {
	return func(c *Client) { c.requestIDs = g }
}

// WithObserver registers an observer for completed calls. Observers run in
// registration order.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observers = append(c.observers, o) }
}

// New creates a client for the service at baseURL ("http://host:port").
// An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid API URL %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{},
		requestIDs: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListOptions pages GET /orders. Zero values are omitted from the query.
type ListOptions struct {
	Limit  int
	Offset int
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	return q
}

// CreateOrder submits a new order and returns it as stored by the server.
func (c *Client) CreateOrder(ctx context.Context, req order.CreateRequest) (*order.Order, error) {
	var out order.Order
	err := c.do(ctx, request{
		op:     OpCreateOrder,
		method: http.MethodPost,
		path:   "/orders",
		body:   req,
		out:    &out,
		idFrom: func() string { return out.ID },
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	var out order.Order
	err := c.do(ctx, request{
		op:      OpGetOrder,
		method:  http.MethodGet,
		path:    "/orders/" + url.PathEscape(orderID),
		orderID: orderID,
		out:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// listBody accepts both list shapes the service has served:
// {total_orders, orders} and the paged {count, next_offset, orders}.
type listBody struct {
	TotalOrders *int          `json:"total_orders"`
	Count       *int          `json:"count"`
	Orders      []order.Order `json:"orders"`
}

// ListOrders fetches all orders (or one page when opts is set).
func (c *Client) ListOrders(ctx context.Context, opts ListOptions) (*order.List, error) {
	var body listBody
	err := c.do(ctx, request{
		op:     OpListOrders,
		method: http.MethodGet,
		path:   "/orders",
		query:  opts.query(),
		out:    &body,
	})
	if err != nil {
		return nil, err
	}

	list := &order.List{Orders: body.Orders}
	if list.Orders == nil {
		list.Orders = []order.Order{}
	}
	switch {
	case body.TotalOrders != nil:
		list.Total = *body.TotalOrders
	case body.Count != nil:
		list.Total = *body.Count
	default:
		list.Total = len(list.Orders)
	}
	return list, nil
}

// UpdateOrderStatus sets an order's status. The value is sent as given; the
// server decides whether it is acceptable.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	var out order.Order
	err := c.do(ctx, request{
		op:      OpUpdateOrderStatus,
		method:  http.MethodPatch,
		path:    "/orders/" + url.PathEscape(orderID) + "/status",
		orderID: orderID,
		body:    map[string]order.Status{"status": status},
		out:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) (*order.Message, error) {
	var out order.Message
	err := c.do(ctx, request{
		op:      OpDeleteOrder,
		method:  http.MethodDelete,
		path:    "/orders/" + url.PathEscape(orderID),
		orderID: orderID,
		out:     &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetOrders deletes every order on the server.
func (c *Client) ResetOrders(ctx context.Context, password string) (*order.Message, error) {
	var out order.Message
	err := c.do(ctx, request{
		op:       OpResetOrders,
		method:   http.MethodPost,
		path:     "/admin/reset",
		password: password,
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SeedOrders asks the server to generate count sample orders.
func (c *Client) SeedOrders(ctx context.Context, password string, count int) (*order.Message, error) {
	var out order.Message
	err := c.do(ctx, request{
		op:       OpSeedOrders,
		method:   http.MethodPost,
		path:     "/admin/seed",
		password: password,
		body:     map[string]int{"count": count},
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// request describes one round trip.
type request struct {
	op       Operation
	method   string
	path     string
	query    url.Values
	orderID  string
	password string
	body     any
	out      any
	idFrom   func() string // order id known only after decoding (create)
}

func (c *Client) do(ctx context.Context, r request) (err error) {
	requestID := c.requestIDs.Generate()
	start := time.Now()
	status := 0

	defer func() {
		call := Call{
			Op:         r.op,
			OrderID:    r.orderID,
			RequestID:  requestID,
			StatusCode: status,
			Duration:   time.Since(start),
			Err:        err,
		}
		if err == nil && r.idFrom != nil {
			call.OrderID = r.idFrom()
		}
		if err != nil {
			slog.DebugContext(ctx, "api call failed", "op", r.op, "request_id", requestID, "status", status, "error", err)
		} else {
			slog.DebugContext(ctx, "api call ok", "op", r.op, "request_id", requestID, "status", status, "duration", call.Duration)
		}
		for _, o := range c.observers {
			o.Observe(ctx, call)
		}
	}()

	endpoint := c.baseURL + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var reader io.Reader
	if r.body != nil {
		payload, marshalErr := json.Marshal(r.body)
		if marshalErr != nil {
			return &Error{Op: r.op, Message: r.op.Fallback(), Err: fmt.Errorf("encode request: %w", marshalErr)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, reader)
	if err != nil {
		return &Error{Op: r.op, Message: r.op.Fallback(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.password != "" {
		req.Header.Set(AdminPasswordHeader, r.password)
	}

	slog.DebugContext(ctx, "api call", "op", r.op, "method", r.method, "url", endpoint, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: r.op, Message: r.op.Fallback(), Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: r.op, StatusCode: resp.StatusCode, Message: errorMessage(r.op, resp.Body)}
	}

	if r.out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
		return &Error{Op: r.op, StatusCode: resp.StatusCode, Message: r.op.Fallback(), Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage extracts the "error" field of a failed response, falling back
// to the operation's generic message.
func errorMessage(op Operation, body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return op.Fallback()
	}
	var eb errorBody
	if json.Unmarshal(raw, &eb) != nil || strings.TrimSpace(eb.Error) == "" {
		return op.Fallback()
	}
	return eb.Error
}
