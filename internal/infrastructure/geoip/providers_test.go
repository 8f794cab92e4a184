package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveJSON(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "geobadge-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIPAPIProvider_Fetch(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{
		"status": "success",
		"query": "203.0.113.7",
		"country": "Germany",
		"countryCode": "DE",
		"regionName": "Hesse",
		"org": "Hetzner Online GmbH",
		"isp": "ignored"
	}`)

	p := NewIPAPIProvider(Options{IPAPIURL: srv.URL, UserAgent: "geobadge-test", Timeout: time.Second})
	assert.Equal(t, entity.ProviderIPAPI, p.ID())

	rec, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", rec.IPAddress)
	assert.Equal(t, "Germany", rec.Country)
	assert.Equal(t, "DE", rec.CountryCode)
	assert.Equal(t, "Hesse", rec.Region)
	assert.Equal(t, "Hetzner Online GmbH", rec.ISP)
	assert.True(t, rec.FetchedAt.IsZero(), "timestamp is assigned by the refresh use case")
}

func TestIPAPIProvider_FailStatus(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{"status":"fail","message":"reserved range"}`)

	p := NewIPAPIProvider(Options{IPAPIURL: srv.URL, UserAgent: "geobadge-test"})
	_, err := p.Fetch(context.Background())
	require.ErrorIs(t, err, port.ErrProvider)
	assert.Contains(t, err.Error(), "reserved range")
}

func TestIPSBProvider_Fetch(t *testing.T) {
	srv := serveJSON(t, http.StatusOK, `{
		"ip": "198.51.100.4",
		"country": "France",
		"country_code": "FR",
		"region": "Ile-de-France",
		"organization": "Free SAS"
	}`)

	p := NewIPSBProvider(Options{IPSBURL: srv.URL, UserAgent: "geobadge-test"})
	assert.Equal(t, entity.ProviderIPSB, p.ID())

	rec, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &entity.LocationRecord{
		IPAddress:   "198.51.100.4",
		Country:     "France",
		CountryCode: "FR",
		Region:      "Ile-de-France",
		ISP:         "Free SAS",
	}, rec)
}

func TestProviders_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`},
		{name: "malformed body", status: http.StatusOK, body: `{"ip":`},
		{name: "missing address", status: http.StatusOK, body: `{"country":"France"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveJSON(t, tt.status, tt.body)
			opts := Options{IPAPIURL: srv.URL, IPSBURL: srv.URL, UserAgent: "geobadge-test"}

			_, err := NewIPSBProvider(opts).Fetch(context.Background())
			assert.ErrorIs(t, err, port.ErrProvider)

			_, err = NewIPAPIProvider(opts).Fetch(context.Background())
			assert.ErrorIs(t, err, port.ErrProvider)
		})
	}
}

func TestProviders_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	p := NewIPSBProvider(Options{IPSBURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := p.Fetch(context.Background())
	assert.ErrorIs(t, err, port.ErrProvider)
}

func TestFakeProvider_Fetch(t *testing.T) {
	p := NewFakeProvider(0)
	assert.Equal(t, entity.ProviderFake, p.ID())

	known := map[string]FakeLocation{}
	for _, loc := range FakeLocations() {
		known[loc.CountryCode] = loc
	}

	for range 50 {
		rec, err := p.Fetch(context.Background())
		require.NoError(t, err)

		loc, ok := known[rec.CountryCode]
		require.True(t, ok, "unexpected country %q", rec.CountryCode)
		assert.Equal(t, loc.Country, rec.Country)
		assert.Equal(t, loc.Region, rec.Region)
		assert.Equal(t, "Cloudflare", rec.ISP)
		assert.Regexp(t, `^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`, rec.IPAddress)
	}
}

func TestFakeProvider_Deterministic(t *testing.T) {
	p := NewFakeProvider(0)
	p.intN = func(n int) int { return n - 1 }

	rec, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "IT", rec.CountryCode)
	assert.Equal(t, "254.254.254.254", rec.IPAddress)
}

func TestFakeProvider_HonorsContext(t *testing.T) {
	p := NewFakeProvider(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Fetch(ctx)
	require.ErrorIs(t, err, port.ErrProvider)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(Options{})

	for _, id := range entity.Providers() {
		p, err := r.Resolve(id)
		require.NoError(t, err)
		assert.Equal(t, id, p.ID())
	}

	_, err := r.Resolve("maxmind")
	assert.ErrorIs(t, err, port.ErrUnknownProvider)
}
