package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

type widget struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestDoJSON_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in widget
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 42

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer server.Close()

	var out widget
	err := DoJSON(context.Background(), New(fastConfig(0)), "widget service", http.MethodPost, server.URL, widget{Name: "gear"}, &out)

	require.NoError(t, err)
	assert.Equal(t, widget{ID: 42, Name: "gear"}, out)
}

func TestDoJSON_NoBodyNoOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Equal(t, http.MethodDelete, r.Method)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := DoJSON(context.Background(), New(fastConfig(0)), "widget service", http.MethodDelete, server.URL, nil, nil)
	assert.NoError(t, err)
}

func TestDoJSON_MapsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := DoJSON(context.Background(), New(fastConfig(0)), "widget service", http.MethodGet, server.URL, nil, &widget{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDoJSON_DecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	err := DoJSON(context.Background(), New(fastConfig(0)), "widget service", http.MethodGet, server.URL, nil, &widget{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode widget service response")
}

func TestDoJSON_TransportFailureIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := DoJSON(context.Background(), New(fastConfig(0)), "widget service", http.MethodGet, url, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestDoJSON_ForwardsCorrelationID(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Correlation-ID")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx := logger.WithCorrelationID(context.Background(), "corr-42")
	var out []widget
	require.NoError(t, DoJSON(ctx, New(fastConfig(0)), "widget service", http.MethodGet, server.URL, nil, &out))
	assert.Equal(t, "corr-42", got)
	assert.Empty(t, out)
}
