package provider

import (
	"context"
	"fmt"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/ducklens-lab/trendlens/internal/types"
	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/ducklens-lab/trendlens/pkg/marketdata/writer"
)

// PolygonAggsIterator is the slice of the Polygon SDK iterator this provider
// consumes. The SDK's iterator satisfies it directly.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient abstracts the Polygon REST surface used here, so tests can
// substitute a canned iterator.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, opts ...models.RequestOption) PolygonAggsIterator
}

type polygonAPI struct {
	client *polygon.Client
}

func (p *polygonAPI) ListAggs(ctx context.Context, params *models.ListAggsParams, opts ...models.RequestOption) PolygonAggsIterator {
	return p.client.ListAggs(ctx, params, opts...)
}

// PolygonProvider downloads adjusted daily aggregates from Polygon.io.
type PolygonProvider struct {
	api    PolygonAPIClient
	writer writer.BarWriter
}

// NewPolygonProvider creates a provider authenticated with the given API key.
func NewPolygonProvider(apiKey string) (*PolygonProvider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeProviderNoAPIKey, "polygon api key is required")
	}

	return &PolygonProvider{api: &polygonAPI{client: polygon.New(apiKey)}}, nil
}

// NewPolygonProviderWithAPI creates a provider over an existing API client.
func NewPolygonProviderWithAPI(api PolygonAPIClient) *PolygonProvider {
	return &PolygonProvider{api: api}
}

// ConfigWriter sets the destination for downloaded bars.
func (c *PolygonProvider) ConfigWriter(w writer.BarWriter) {
	c.writer = w
}

// Download fetches daily aggregates for the symbol and lands them through the
// configured writer. Progress is reported in calendar days covered.
func (c *PolygonProvider) Download(ctx context.Context, symbol string, start time.Time, end time.Time, onProgress OnDownloadProgress) (path string, err error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeWriterUnavailable, "no writer configured, call ConfigWriter first")
	}

	if err = c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeWriterUnavailable, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := c.writer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	totalDays := end.Sub(start).Hours()/24 + 1

	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(start),
		To:         models.Millis(end),
	}.WithLimit(50000).WithAdjusted(true)

	aggs := c.api.ListAggs(ctx, params)

	for aggs.Next() {
		agg := aggs.Item()
		// Daily aggregate timestamps sit at midnight eastern; the stored
		// date is the calendar day.
		date := time.Time(agg.Timestamp).UTC().Truncate(24 * time.Hour)

		bar := types.DailyBar{
			Symbol: symbol,
			Date:   date,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		}

		if err = c.writer.Write(bar); err != nil {
			return "", err
		}

		if onProgress != nil {
			elapsed := date.Sub(start).Hours()/24 + 1
			onProgress(elapsed, totalDays, fmt.Sprintf("Downloading %s", symbol))
		}
	}

	if err = aggs.Err(); err != nil {
		return "", errors.Wrapf(errors.ErrCodeFetchFailed, err, "failed to list aggregates for %s", symbol)
	}

	return c.writer.Finalize()
}
