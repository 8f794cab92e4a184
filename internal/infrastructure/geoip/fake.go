package geoip

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/domain/entity"
)

const fakeISP = "Cloudflare"

// FakeLocation is one row of the debug location table.
type FakeLocation struct {
	Country     string
	Region      string
	CountryCode string
}

var fakeLocations = []FakeLocation{
	{Country: "France", Region: "Paris", CountryCode: "FR"},
	{Country: "Germany", Region: "Berlin", CountryCode: "DE"},
	{Country: "United Kingdom", Region: "London", CountryCode: "GB"},
	{Country: "United States", Region: "New York", CountryCode: "US"},
	{Country: "Iran", Region: "Tehran", CountryCode: "IR"},
	{Country: "Canada", Region: "Toronto", CountryCode: "CA"},
	{Country: "Italy", Region: "Rome", CountryCode: "IT"},
}

// FakeLocations returns a copy of the table the fake provider draws from.
func FakeLocations() []FakeLocation {
	out := make([]FakeLocation, len(fakeLocations))
	copy(out, fakeLocations)
	return out
}

// FakeProvider returns random locations after an artificial delay. Debug only.
type FakeProvider struct {
	delay time.Duration
	intN  func(n int) int
}

var _ port.LocationProvider = (*FakeProvider)(nil)

// NewFakeProvider creates a fake provider that waits delay before answering.
func NewFakeProvider(delay time.Duration) *FakeProvider {
	return &FakeProvider{delay: delay, intN: rand.IntN}
}

func (p *FakeProvider) ID() entity.ProviderID {
	return entity.ProviderFake
}

func (p *FakeProvider) Fetch(ctx context.Context) (*entity.LocationRecord, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", port.ErrProvider, ctx.Err())
		case <-timer.C:
		}
	}

	loc := fakeLocations[p.intN(len(fakeLocations))]
	return &entity.LocationRecord{
		IPAddress:   p.randomIP(),
		Country:     loc.Country,
		Region:      loc.Region,
		CountryCode: loc.CountryCode,
		ISP:         fakeISP,
	}, nil
}

// randomIP returns a dotted quad with every octet in [0, 255).
func (p *FakeProvider) randomIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", p.intN(255), p.intN(255), p.intN(255), p.intN(255))
}
