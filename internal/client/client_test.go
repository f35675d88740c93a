package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/MMM_GO/internal/models"
	"github.com/AngelCh415/MMM_GO/internal/utils"
)

func fastRetry(base string, c HTTPClient) *Client {
	return New(base, c).WithBackoff(utils.NewBackoff(time.Millisecond, 2))
}

func TestClientRetries500(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := fastRetry(srv.URL, NewHTTPClient(2*time.Second)).Profiles(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientDoesNotRetry404(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "profile not found"})
	}))
	defer srv.Close()

	_, err := fastRetry(srv.URL, NewHTTPClient(2*time.Second)).Simulate(context.Background(), "x", nil)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.Contains(t, err.Error(), "profile not found")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cl := New(srv.URL, NewHTTPClient(50*time.Millisecond)).WithBackoff(utils.NewBackoff(time.Millisecond, 0))
	_, err := cl.Forecast(context.Background(), 1)
	assert.Error(t, err)
}

func TestClientSimulateRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/simulate/influencers", r.URL.Path)
		var in struct {
			Allocation models.Allocation `json:"allocation"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&in)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(models.Simulation{Profile: "influencers", Allocation: in.Allocation})
	}))
	defer srv.Close()

	sim, err := fastRetry(srv.URL+"/", NewHTTPClient(time.Second)).Simulate(context.Background(), "influencers", models.Allocation{"Mega": 10})
	require.NoError(t, err)
	assert.Equal(t, 10.0, sim.Allocation["Mega"])
}

func TestClientCurveQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("min"))
		assert.Equal(t, "250.5", r.URL.Query().Get("max"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		_ = json.NewEncoder(w).Encode([]models.CurveSample{{}, {}, {}})
	}))
	defer srv.Close()

	s, err := fastRetry(srv.URL, NewHTTPClient(time.Second)).Curve(context.Background(), 0, 250.5, 3)
	require.NoError(t, err)
	assert.Len(t, s, 3)
}
