// Package ui holds the collaborators controllers use to talk back to the
// visitor: alerts and navigation.
package ui

import (
	"context"
	"strconv"
	"sync"
)

// Routes the storefront can navigate to.
const (
	RouteProducts    = "/products"
	RouteNewProduct  = "/products/new"
	RouteCart        = "/cart"
	routeEditPattern = "/products/{id}/edit"
)

// EditProductRoute returns the edit page of product id.
func EditProductRoute(id int) string {
	return "/products/" + strconv.Itoa(id) + "/edit"
}

// EditProductPattern is the router pattern behind EditProductRoute.
func EditProductPattern() string {
	return routeEditPattern
}

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Message is one alert shown to the visitor.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Notifier shows alerts to the visitor.
type Notifier interface {
	Alert(ctx context.Context, level Level, message string)
}

// Navigator moves the visitor to another page.
type Navigator interface {
	Navigate(ctx context.Context, route string)
}

// Recorder collects the alerts and navigation target produced while handling
// one request. It satisfies both Notifier and Navigator.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	target   string
}

var (
	_ Notifier  = (*Recorder)(nil)
	_ Navigator = (*Recorder)(nil)
)

func (r *Recorder) Alert(_ context.Context, level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: message})
}

func (r *Recorder) Navigate(_ context.Context, route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = route
}

// Messages returns the alerts in the order they were raised.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Target is the last navigation route, or "" when none was requested.
func (r *Recorder) Target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.target
}
