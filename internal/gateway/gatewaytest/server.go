// Package gatewaytest provides an in-memory stand-in for the product and cart
// services, speaking the same REST dialect as the real backends.
package gatewaytest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// Server serves /products and /cart from memory.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	products map[int]domain.Product
	rawItems []json.RawMessage
	cart     map[int]domain.CartItem
	nextID   int
	failures map[string]int
	calls    []string
}

func NewServer() *Server {
	s := &Server{
		products: make(map[int]domain.Product),
		cart:     make(map[int]domain.CartItem),
		failures: make(map[string]int),
		nextID:   100,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// AddProducts seeds the catalog.
func (s *Server) AddProducts(ps ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range ps {
		s.products[p.ID] = p
	}
}

// AddRawProduct seeds a product record verbatim, valid or not.
func (s *Server) AddRawProduct(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rawItems = append(s.rawItems, json.RawMessage(raw))
}

// AddCartItems seeds the cart. Items must carry ids.
func (s *Server) AddCartItems(items ...domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.cart[*it.ID] = it
	}
}

// FailNext makes the next request matching "METHOD /path" answer with status.
func (s *Server) FailNext(methodPath string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[methodPath] = status
}

func (s *Server) Product(id int) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *Server) CartItems() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedCart()
}

// Calls lists the "METHOD /path" of every request received, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	s.calls = append(s.calls, key)
	if status, ok := s.failures[key]; ok {
		delete(s.failures, key)
		writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] == "products":
		s.serveProducts(w, r)
	case len(parts) == 2 && parts[0] == "products":
		s.serveProduct(w, r, parts[1])
	case len(parts) == 1 && parts[0] == "cart":
		s.serveCart(w, r)
	case len(parts) == 2 && parts[0] == "cart":
		s.serveCartItem(w, r, parts[1])
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{})
	}
}

func (s *Server) serveProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ids := make([]int, 0, len(s.products))
		for id := range s.products {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		out := make([]json.RawMessage, 0, len(ids)+len(s.rawItems))
		for _, id := range ids {
			b, _ := json.Marshal(s.products[id])
			out = append(out, b)
		}
		out = append(out, s.rawItems...)
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var p domain.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		s.nextID++
		p.ID = s.nextID
		s.products[p.ID] = p
		writeJSON(w, http.StatusCreated, p)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) serveProduct(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	p, ok := s.products[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		var in domain.Product
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		in.ID = id
		s.products[id] = in
		writeJSON(w, http.StatusOK, in)
	case http.MethodDelete:
		delete(s.products, id)
		writeJSON(w, http.StatusOK, map[string]string{})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) serveCart(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.sortedCart())
	case http.MethodPost:
		var it domain.CartItem
		if err := json.NewDecoder(r.Body).Decode(&it); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		s.nextID++
		id := s.nextID
		it.ID = &id
		s.cart[id] = it
		writeJSON(w, http.StatusCreated, it)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) serveCartItem(w http.ResponseWriter, r *http.Request, rawID string) {
	id, err := strconv.Atoi(rawID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}
	it, ok := s.cart[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{})
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var patch domain.QuantityUpdate
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		it.ProductID = patch.ProductID
		it.Quantity = patch.Quantity
		s.cart[id] = it
		writeJSON(w, http.StatusOK, it)
	case http.MethodDelete:
		delete(s.cart, id)
		writeJSON(w, http.StatusOK, map[string]string{})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) sortedCart() []domain.CartItem {
	ids := make([]int, 0, len(s.cart))
	for id := range s.cart {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]domain.CartItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.cart[id])
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// IntPtr is a convenience for building cart items.
func IntPtr(i int) *int { return &i }
