package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ordersctl/internal/apitest"
	"github.com/roach88/ordersctl/internal/order"
)

func newTestClient(t *testing.T, srv *apitest.Server, opts ...Option) *Client {
	t.Helper()
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNew_DefaultsAndValidation(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c, err = New("http://example.test:9000/")
	require.NoError(t, err)
	assert.Equal(t, "http://example.test:9000", c.BaseURL())

	_, err = New("ftp://example.test")
	assert.ErrorContains(t, err, "scheme must be http or https")

	_, err = New("http://")
	assert.ErrorContains(t, err, "missing host")
}

func TestCreateGetUpdateDelete(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()

	created, err := c.CreateOrder(ctx, order.CreateRequest{
		CustomerName: "Anna Lee",
		Items:        []order.Item{{Name: "Burger", Quantity: 2}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, order.StatusReceived, created.Status)

	fetched, err := c.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	updated, err := c.UpdateOrderStatus(ctx, created.ID, order.StatusReady)
	require.NoError(t, err)
	assert.Equal(t, order.StatusReady, updated.Status)

	msg, err := c.DeleteOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Contains(t, msg.Message, "has been deleted")
	assert.Equal(t, 0, srv.Len())
}

func TestCreateOrder_SendsJSON(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv, WithRequestIDGenerator(NewFixedGenerator("req-1")))

	_, err := c.CreateOrder(context.Background(), order.CreateRequest{
		CustomerName: "Bob",
		Items:        []order.Item{{Name: "Fries", Quantity: 1}},
	})
	require.NoError(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/orders", reqs[0].Path)
	assert.Equal(t, "req-1", reqs[0].RequestID)
	assert.JSONEq(t, `{"customer_name":"Bob","items":[{"name":"Fries","quantity":1}]}`, string(reqs[0].Body))
}

func TestGetOrder_NotFoundUsesServerMessage(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)

	_, err := c.GetOrder(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Order with ID 'missing' not found.", err.Error())
}

func TestErrorFallbackMessages(t *testing.T) {
	tests := []struct {
		name string
		body string
		call func(c *Client) error
		want string
	}{
		{
			name: "create_no_error_field",
			body: `{"detail":"nope"}`,
			call: func(c *Client) error {
				_, err := c.CreateOrder(context.Background(), order.CreateRequest{CustomerName: "x", Items: []order.Item{{Name: "y", Quantity: 1}}})
				return err
			},
			want: "Failed to create order",
		},
		{
			name: "get_not_json",
			body: `<html>bad gateway</html>`,
			call: func(c *Client) error {
				_, err := c.GetOrder(context.Background(), "abc")
				return err
			},
			want: "Failed to fetch order",
		},
		{
			name: "list_empty_error",
			body: `{"error":""}`,
			call: func(c *Client) error {
				_, err := c.ListOrders(context.Background(), ListOptions{})
				return err
			},
			want: "Failed to fetch orders",
		},
		{
			name: "status_server_message",
			body: `{"error":"Missing 'status' in request body."}`,
			call: func(c *Client) error {
				_, err := c.UpdateOrderStatus(context.Background(), "abc", order.StatusReady)
				return err
			},
			want: "Missing 'status' in request body.",
		},
		{
			name: "delete_empty_body",
			body: ``,
			call: func(c *Client) error {
				_, err := c.DeleteOrder(context.Background(), "abc")
				return err
			},
			want: "Failed to delete order",
		},
		{
			name: "seed_fallback",
			body: `{}`,
			call: func(c *Client) error {
				_, err := c.SeedOrders(context.Background(), "pw", 3)
				return err
			},
			want: "Failed to seed orders.",
		},
		{
			name: "reset_fallback",
			body: `[]`,
			call: func(c *Client) error {
				_, err := c.ResetOrders(context.Background(), "pw")
				return err
			},
			want: "Failed to reset orders.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer(t)
			srv.FailNext(http.StatusInternalServerError, tt.body)
			c := newTestClient(t, srv)

			err := tt.call(c)
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestListOrders_TotalShapes(t *testing.T) {
	srv := apitest.NewServer(t)
	for _, name := range []string{"a", "b", "c"} {
		srv.Put(order.Order{ID: name, CustomerName: name, Status: order.StatusReceived})
	}
	c := newTestClient(t, srv)

	list, err := c.ListOrders(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Len(t, list.Orders, 3)

	srv.SetPaged(true)
	list, err = c.ListOrders(context.Background(), ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total, "paged shape reports count")
	require.Len(t, list.Orders, 2)
	assert.Equal(t, "b", list.Orders[0].ID)

	reqs := srv.Requests()
	assert.Equal(t, "/orders", reqs[len(reqs)-1].Path)
}

func TestListOrders_QueryOmittedWhenZero(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]any{"orders": []any{}})
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	list, err := c.ListOrders(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
	assert.Equal(t, 0, list.Total)
	assert.NotNil(t, list.Orders)

	_, err = c.ListOrders(context.Background(), ListOptions{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, "limit=10&offset=20", gotQuery)
}

func TestAdminCalls_SendPasswordHeader(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)
	ctx := context.Background()

	msg, err := c.SeedOrders(ctx, apitest.DefaultPassword, 4)
	require.NoError(t, err)
	assert.Equal(t, "Seeded 4 fake orders.", msg.Message)
	assert.Equal(t, 4, srv.Len())

	msg, err = c.ResetOrders(ctx, apitest.DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, "All orders have been removed.", msg.Message)
	assert.Equal(t, 0, srv.Len())

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, apitest.DefaultPassword, reqs[0].Password)
	assert.JSONEq(t, `{"count":4}`, string(reqs[0].Body))
	assert.Equal(t, "/admin/reset", reqs[1].Path)
}

func TestAdminCalls_WrongPassword(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)

	_, err := c.ResetOrders(context.Background(), "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Unauthorized.", err.Error())
}

func TestPathSegmentsEscaped(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)

	_, err := c.GetOrder(context.Background(), "a/b c")
	require.Error(t, err)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/orders/a/b c", reqs[0].Path, "decoded path keeps the id intact")
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(url)
	require.NoError(t, err)

	_, err = c.GetOrder(context.Background(), "x")
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.StatusCode)
	assert.Equal(t, "Failed to fetch order", apiErr.Message)
	assert.NotNil(t, apiErr.Unwrap())
}

func TestContextCancelled(t *testing.T) {
	srv := apitest.NewServer(t)
	c := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListOrders(ctx, ListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObserverSeesEveryCall(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.SetNextID(func() string { return "order-1" })

	var mu sync.Mutex
	var calls []Call
	obs := ObserverFunc(func(_ context.Context, call Call) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, call)
	})
	c := newTestClient(t, srv,
		WithObserver(obs),
		WithRequestIDGenerator(NewFixedGenerator("r1", "r2")),
	)

	_, err := c.CreateOrder(context.Background(), order.CreateRequest{CustomerName: "x", Items: []order.Item{{Name: "y", Quantity: 1}}})
	require.NoError(t, err)
	_, err = c.GetOrder(context.Background(), "nope")
	require.Error(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, OpCreateOrder, calls[0].Op)
	assert.Equal(t, "order-1", calls[0].OrderID, "create reports the server-assigned id")
	assert.Equal(t, "r1", calls[0].RequestID)
	assert.Equal(t, http.StatusCreated, calls[0].StatusCode)
	assert.True(t, calls[0].OK())

	assert.Equal(t, OpGetOrder, calls[1].Op)
	assert.Equal(t, "nope", calls[1].OrderID)
	assert.Equal(t, http.StatusNotFound, calls[1].StatusCode)
	assert.False(t, calls[1].OK())
}

func TestObserversRunInOrder(t *testing.T) {
	srv := apitest.NewServer(t)

	var seen []string
	record := func(name string) Observer {
		return ObserverFunc(func(_ context.Context, call Call) {
			seen = append(seen, name+":"+call.RequestID)
		})
	}
	c := newTestClient(t, srv,
		WithObserver(record("journal")),
		WithObserver(record("last")),
		WithRequestIDGenerator(NewFixedGenerator("r1")),
	)

	_, err := c.ListOrders(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"journal:r1", "last:r1"}, seen)
}

func TestFixedGeneratorExhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestUUIDv7Generator(t *testing.T) {
	a := UUIDv7Generator{}.Generate()
	b := UUIDv7Generator{}.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
