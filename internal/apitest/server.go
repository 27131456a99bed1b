package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/roach88/ordersctl/internal/order"
)

// DefaultPassword is the admin password accepted by a new Server.
const DefaultPassword = "secret"

// Recorded is one request seen by the fake.
type Recorded struct {
	Method    string
	Path      string
	RequestID string
	Password  string
	Body      []byte
}

// Server is a fake order service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	orders   map[string]order.Order
	sequence []string // insertion order of ids
	requests []Recorded
	failures []failure

	password string
	paged    bool
	nextID   func() string
}

type failure struct {
	status int
	body   string
}

// NewServer starts a fake service and closes it when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		orders:   make(map[string]order.Order),
		password: DefaultPassword,
		nextID:   uuid.NewString,
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.injectFailures)

	r.Post("/orders", s.createOrder)
	r.Get("/orders", s.listOrders)
	r.Get("/orders/{id}", s.getOrder)
	r.Patch("/orders/{id}/status", s.updateStatus)
	r.Delete("/orders/{id}", s.deleteOrder)
	r.Post("/admin/reset", s.reset)
	r.Post("/admin/seed", s.seed)
	return r
}

// SetPassword changes the admin secret. An empty password makes admin routes
// answer 500 "Admin password is not configured on the server."
func (s *Server) SetPassword(pw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.password = pw
}

// SetPaged switches GET /orders to the {count, next_offset, orders} shape.
func (s *Server) SetPaged(paged bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paged = paged
}

// SetNextID replaces the order id source (uuid.NewString by default).
func (s *Server) SetNextID(next func() string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = next
}

func (s *Server) newID() string {
	s.mu.Lock()
	next := s.nextID
	s.mu.Unlock()
	return next()
}

// FailNext makes the next request answer status with the raw body.
// Calls queue up; each injected failure is consumed by one request.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, body: body})
}

// Put stores an order directly, bypassing the API.
func (s *Server) Put(o order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[o.ID]; !exists {
		s.sequence = append(s.sequence, o.ID)
	}
	s.orders[o.ID] = o
}

// Order returns a stored order.
func (s *Server) Order(id string) (order.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

// Len returns the number of stored orders.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Requests returns a copy of every request seen so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// RequestCount returns how many requests have been received.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Recorded{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: r.Header.Get("X-Request-ID"),
			Password:  r.Header.Get("X-Admin-Password"),
		}
		if r.Body != nil {
			body, err := readBody(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable body")
				return
			}
			rec.Body = body
		}
		s.mu.Lock()
		s.requests = append(s.requests, rec)
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var f *failure
		if len(s.failures) > 0 {
			f = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if f != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req order.CreateRequest
	if err := decodeBody(r, &req); err != nil || req.CustomerName == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Request must include 'customer_name' and a non-empty list of 'items'.")
		return
	}
	for _, item := range req.Items {
		if item.Name == "" {
			writeError(w, http.StatusBadRequest, "Each item requires 'name' and 'quantity'.")
			return
		}
		if item.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "Quantity must be greater than zero.")
			return
		}
	}

	o := order.Order{
		ID:           s.newID(),
		CustomerName: req.CustomerName,
		Items:        req.Items,
		Status:       order.StatusReceived,
	}
	s.Put(o)
	writeJSON(w, http.StatusCreated, o)
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := make([]order.Order, 0, len(s.sequence))
	for _, id := range s.sequence {
		all = append(all, s.orders[id])
	}
	paged := s.paged
	s.mu.Unlock()

	if !paged {
		writeJSON(w, http.StatusOK, map[string]any{
			"total_orders": len(all),
			"orders":       all,
		})
		return
	}

	limit := queryInt(r, "limit", 50)
	if limit < 1 {
		limit = 1
	}
	if limit > 200 {
		limit = 200
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	page := []order.Order{}
	if offset < len(all) {
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		page = all[offset:end]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":       len(page),
		"next_offset": offset + len(page),
		"orders":      page,
	})
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, ok := s.Order(id)
	if !ok {
		writeError(w, http.StatusNotFound, notFound(id))
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "Missing 'status' in request body.")
		return
	}

	s.mu.Lock()
	o, ok := s.orders[id]
	if ok {
		o.Status = order.Status(body.Status)
		s.orders[id] = o
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, notFound(id))
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.orders[id]
	if ok {
		delete(s.orders, id)
		s.removeFromSequence(id)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, notFound(id))
		return
	}
	writeJSON(w, http.StatusOK, order.Message{Message: fmt.Sprintf("Order '%s' has been deleted.", id)})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	s.mu.Lock()
	s.orders = make(map[string]order.Order)
	s.sequence = nil
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, order.Message{Message: "All orders have been removed."})
}

func (s *Server) seed(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}
	var body struct {
		Count *int `json:"count"`
	}
	if err := decodeBody(r, &body); err != nil || body.Count == nil {
		writeError(w, http.StatusBadRequest, "Request body must include an integer 'count' value.")
		return
	}
	if *body.Count <= 0 {
		writeError(w, http.StatusBadRequest, "'count' must be greater than zero.")
		return
	}
	for i := 0; i < *body.Count; i++ {
		s.Put(order.Order{
			ID:           s.newID(),
			CustomerName: fmt.Sprintf("Seed Customer %d", i+1),
			Items:        []order.Item{{Name: "Desk Lamp", Quantity: 1}},
			Status:       order.StatusReceived,
		})
	}
	writeJSON(w, http.StatusCreated, order.Message{Message: fmt.Sprintf("Seeded %d fake orders.", *body.Count)})
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	s.mu.Lock()
	password := s.password
	s.mu.Unlock()

	if password == "" {
		writeError(w, http.StatusInternalServerError, "Admin password is not configured on the server.")
		return false
	}
	if r.Header.Get("X-Admin-Password") != password {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return false
	}
	return true
}

// removeFromSequence must be called with s.mu held.
func (s *Server) removeFromSequence(id string) {
	for i, existing := range s.sequence {
		if existing == id {
			s.sequence = append(s.sequence[:i], s.sequence[i+1:]...)
			return
		}
	}
}

func notFound(id string) string {
	return fmt.Sprintf("Order with ID '%s' not found.", id)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
