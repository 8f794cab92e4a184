package geoip

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/domain/entity"
)

// DefaultIPAPIURL is the plain HTTP endpoint of ip-api.com.
const DefaultIPAPIURL = "http://ip-api.com/json"

type ipAPIResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Query       string `json:"query"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	Org         string `json:"org"`
	RegionName  string `json:"regionName"`
}

// IPAPIProvider queries ip-api.com.
type IPAPIProvider struct {
	client    *http.Client
	url       string
	userAgent string
}

var _ port.LocationProvider = (*IPAPIProvider)(nil)

// NewIPAPIProvider creates an ip-api.com provider.
func NewIPAPIProvider(opts Options) *IPAPIProvider {
	url := opts.IPAPIURL
	if url == "" {
		url = DefaultIPAPIURL
	}
	return &IPAPIProvider{client: newHTTPClient(opts.Timeout), url: url, userAgent: opts.UserAgent}
}

func (p *IPAPIProvider) ID() entity.ProviderID {
	return entity.ProviderIPAPI
}

func (p *IPAPIProvider) Fetch(ctx context.Context) (*entity.LocationRecord, error) {
	var body ipAPIResponse
	if err := getJSON(ctx, p.client, p.url, p.userAgent, &body); err != nil {
		return nil, err
	}
	// ip-api reports lookup failures with a 200 and status "fail".
	if body.Status == "fail" {
		return nil, fmt.Errorf("%w: ip-api: %s", port.ErrProvider, body.Message)
	}
	if body.Query == "" {
		return nil, fmt.Errorf("%w: ip-api: response has no address", port.ErrProvider)
	}

	return &entity.LocationRecord{
		IPAddress:   body.Query,
		Country:     body.Country,
		CountryCode: body.CountryCode,
		ISP:         body.Org,
		Region:      body.RegionName,
	}, nil
}
