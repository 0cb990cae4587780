// Package metadata looks up papers in the OpenAlex catalog. Lookups only
// enrich the document; every failure is swallowed by the caller and the
// run proceeds without bibliographic data.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/scholarmind/internal/config"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/core"
	"github.com/hugo-lorenzo-mato/scholarmind/internal/logging"
)

// OpenAlexClient implements core.MetadataSource against the OpenAlex Works
// search endpoint.
type OpenAlexClient struct {
	baseURL string
	// email is sent as mailto parameter for polite pool access.
	email  string
	client *http.Client
	log    *logging.Logger
}

// NewOpenAlexClient creates a client from configuration.
func NewOpenAlexClient(cfg config.MetadataConfig, log *logging.Logger) *OpenAlexClient {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.openalex.org/works"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &OpenAlexClient{
		baseURL: base,
		email:   cfg.Email,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type worksResponse struct {
	Results []struct {
		ID              string `json:"id"`
		Title           string `json:"title"`
		DOI             string `json:"doi"`
		CitedByCount    int    `json:"cited_by_count"`
		PrimaryLocation struct {
			Source struct {
				DisplayName string `json:"display_name"`
			} `json:"source"`
		} `json:"primary_location"`
	} `json:"results"`
}

// Lookup searches for a title and returns the best match.
func (c *OpenAlexClient) Lookup(ctx context.Context, title string) (*core.ExternalRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("empty title")
	}

	params := url.Values{
		"search":   {title},
		"per_page": {"1"},
	}
	if c.email != "" {
		params.Set("mailto", c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned HTTP %d", resp.StatusCode)
	}

	var wr worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("parsing catalog response: %w", err)
	}
	if len(wr.Results) == 0 {
		return nil, fmt.Errorf("no catalog match for %q", title)
	}

	w := wr.Results[0]
	rec := &core.ExternalRecord{
		Source:    "openalex",
		ID:        w.ID,
		DOI:       strings.TrimPrefix(w.DOI, "https://doi.org/"),
		Venue:     w.PrimaryLocation.Source.DisplayName,
		Citations: w.CitedByCount,
	}
	c.log.Debug("catalog match", "title", title, "doi", rec.DOI, "citations", rec.Citations)
	return rec, nil
}
