package geoip

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/domain/entity"
)

// DefaultIPSBURL is the IPv4 geoip endpoint of ip.sb.
const DefaultIPSBURL = "https://api-ipv4.ip.sb/geoip"

type ipSBResponse struct {
	IP           string `json:"ip"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
	Organization string `json:"organization"`
	Region       string `json:"region"`
}

// IPSBProvider queries ip.sb.
type IPSBProvider struct {
	client    *http.Client
	url       string
	userAgent string
}

var _ port.LocationProvider = (*IPSBProvider)(nil)

// NewIPSBProvider creates an ip.sb provider.
func NewIPSBProvider(opts Options) *IPSBProvider {
	url := opts.IPSBURL
	if url == "" {
		url = DefaultIPSBURL
	}
	return &IPSBProvider{client: newHTTPClient(opts.Timeout), url: url, userAgent: opts.UserAgent}
}

func (p *IPSBProvider) ID() entity.ProviderID {
	return entity.ProviderIPSB
}

func (p *IPSBProvider) Fetch(ctx context.Context) (*entity.LocationRecord, error) {
	var body ipSBResponse
	if err := getJSON(ctx, p.client, p.url, p.userAgent, &body); err != nil {
		return nil, err
	}
	if body.IP == "" {
		return nil, fmt.Errorf("%w: ip.sb: response has no address", port.ErrProvider)
	}

	return &entity.LocationRecord{
		IPAddress:   body.IP,
		Country:     body.Country,
		CountryCode: body.CountryCode,
		ISP:         body.Organization,
		Region:      body.Region,
	}, nil
}
