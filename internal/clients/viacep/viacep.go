// Package viacep resolves Brazilian postal codes (CEP) through the public
// viaCEP API.
package viacep

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aanand-mishra/gym-api/internal/apperr"
	"github.com/aanand-mishra/gym-api/internal/lib/outbound"
)

const (
	serviceName = "postal service"

	// DefaultBaseURL is the public viaCEP endpoint.
	DefaultBaseURL = "https://viacep.com.br"
)

// Address is the subset of the viaCEP answer this service reads.
//
// For an unknown but well-formed CEP viaCEP answers 200 with {"erro": true}
// (older deployments send the string "true").
type Address struct {
	PostalCode string          `json:"cep"`
	Street     string          `json:"logradouro"`
	City       string          `json:"localidade"`
	UF         string          `json:"uf"`
	Erro       json.RawMessage `json:"erro,omitempty"`
}

func (a Address) notFound() bool {
	v := strings.Trim(string(a.Erro), `"`)
	return v != "" && v != "false"
}

// Client queries viaCEP. It is safe for concurrent use.
type Client struct {
	http *outbound.Client
}

// New returns a Client for the viaCEP API at baseURL, or DefaultBaseURL when
// baseURL is empty.
func New(baseURL string, timeout time.Duration, opts ...outbound.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: outbound.New(serviceName, baseURL, timeout, opts...)}
}

// Lookup fetches the address of an 8-digit CEP.
func (c *Client) Lookup(ctx context.Context, cep string) (Address, error) {
	var addr Address
	if err := c.http.DecodeJSON(ctx, http.MethodGet, "/ws/"+cep+"/json/", nil, &addr); err != nil {
		return Address{}, err
	}
	if addr.notFound() {
		return Address{}, apperr.NotFound("postal code not found")
	}
	return addr, nil
}

// Region returns the upper-cased state code (UF) of cep.
func (c *Client) Region(ctx context.Context, cep string) (string, error) {
	addr, err := c.Lookup(ctx, cep)
	if err != nil {
		return "", err
	}
	uf := strings.ToUpper(strings.TrimSpace(addr.UF))
	if uf == "" {
		return "", apperr.Dependency("invalid response from "+serviceName, errors.New("missing uf field"))
	}
	return uf, nil
}
