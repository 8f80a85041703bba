// Package fred is a client for the FRED series observations API.
package fred

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
	xhttp "MacroPull/pkg/http"
	"MacroPull/pkg/util"
)

const (
	DefaultBaseURL = "https://api.stlouisfed.org/fred"
	providerName   = "fred"
	missingValue   = "."
)

type Option func(*Client)

// WithBaseURL points the client at another host (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient injects the transport.
func WithHTTPClient(h *xhttp.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client fetches observation series. It does no retries and no caching.
type Client struct {
	apiKey  string
	baseURL string
	http    *xhttp.Client
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{apiKey: apiKey, baseURL: DefaultBaseURL}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = xhttp.NewClient(xhttp.WithTimeout(15 * time.Second))
	}
	return c
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Observations returns the series in ascending date order. Missing values are
// dropped. An unknown series id yields an empty series.
func (c *Client) Observations(ctx context.Context, seriesID string, start *time.Time) (models.TimeSeries, error) {
	if c.apiKey == "" {
		return models.TimeSeries{}, errs.Unavailable(providerName, "observations", errors.New("missing api key"))
	}
	q := map[string][]string{
		"series_id": {seriesID},
		"api_key":   {c.apiKey},
		"file_type": {"json"},
	}
	if start != nil {
		q["observation_start"] = []string{util.FormatDate(start)}
	}

	var resp observationsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      http.MethodGet,
		URL:         c.baseURL + "/series/observations",
		QueryParams: q,
	}, &resp)
	if err != nil {
		if isUnknownSeries(err) {
			return models.TimeSeries{ID: seriesID}, nil
		}
		return models.TimeSeries{}, errs.Unavailable(providerName, "observations "+seriesID, err)
	}

	points := make([]models.Point, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		if o.Value == missingValue || o.Value == "" {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		t, ok := util.ParseDate(o.Date)
		if !ok {
			continue
		}
		points = append(points, models.Point{Time: t, Value: v})
	}
	return models.NewTimeSeries(seriesID, points), nil
}

// isUnknownSeries reports the 400 FRED returns for a series id it does not
// know. Other 400s (bad api key, bad params) are provider failures.
func isUnknownSeries(err error) bool {
	se, ok := xhttp.AsStatusError(err)
	if !ok || se.Code != http.StatusBadRequest {
		return false
	}
	msg := gjson.GetBytes(se.Body, "error_message").String()
	if msg == "" {
		msg = string(se.Body)
	}
	return strings.Contains(strings.ToLower(msg), "does not exist")
}
