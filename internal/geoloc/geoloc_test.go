package geoloc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onecho-dev/onecho/internal/model"
)

func TestResolve_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8", r.URL.Path)
		w.Write([]byte(`{"status":"success","countryCode":"US","lat":37.4,"lon":-122.0}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	loc := c.Resolve(context.Background(), "8.8.8.8")

	assert.Equal(t, "us", loc.Country)
	assert.Equal(t, model.CountryCode("us"), loc.CountryCode)
	assert.InDelta(t, 37.4, loc.Latitude, 0.001)
	assert.InDelta(t, -122.0, loc.Longitude, 0.001)
}

func TestResolve_FailureFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	loc := c.Resolve(context.Background(), "8.8.8.8")
	assert.Equal(t, fallback, loc)
}

func TestResolve_LookupFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	loc := c.Resolve(context.Background(), "8.8.8.8")
	assert.Equal(t, fallback, loc)
}

func TestResolve_PrivateAddressesSkipLookup(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewWithBaseURL(srv.URL)
	for _, ip := range []string{"127.0.0.1", "10.0.0.5", "192.168.1.2", "not-an-ip", ""} {
		loc := c.Resolve(context.Background(), ip)
		assert.Equal(t, fallback, loc, ip)
	}
	assert.False(t, called)
}
