// Package marketdata downloads raw daily bars from a market data provider
// into a local DuckDB database.
package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ducklens-lab/trendlens/pkg/errors"
	"github.com/ducklens-lab/trendlens/pkg/marketdata/provider"
	"github.com/ducklens-lab/trendlens/pkg/marketdata/writer"
)

// ProviderType selects the market data source.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
)

// ClientConfig holds the configuration for the download client.
type ClientConfig struct {
	ProviderType  ProviderType `validate:"required,oneof=polygon"`
	DatabasePath  string       `validate:"required"`
	PolygonAPIKey string       `validate:"required_if=ProviderType polygon"`
}

// DownloadParams is one download request: a symbol over an inclusive date
// range.
type DownloadParams struct {
	Symbol    string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtefield=StartDate"`
}

// Client downloads bars from a provider and lands them in the local database.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
}

// NewClient validates the configuration and builds the configured provider.
// onProgress may be nil.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	var marketProvider provider.Provider

	switch config.ProviderType {
	case ProviderPolygon:
		polygonProvider, err := provider.NewPolygonProvider(config.PolygonAPIKey)
		if err != nil {
			return nil, err
		}

		marketProvider = polygonProvider
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider type %q", config.ProviderType)
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
	}, nil
}

// NewClientWithProvider builds a client over an existing provider.
func NewClientWithProvider(config ClientConfig, marketProvider provider.Provider, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	return &Client{
		provider:   marketProvider,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
	}, nil
}

// Download fetches the requested range and lands it in the daily_bars table,
// returning the database path.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if dir := filepath.Dir(c.config.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", errors.Wrap(errors.ErrCodeWriterUnavailable, "failed to create database folder", err)
		}
	}

	barWriter := writer.NewDuckDBBarWriter(c.config.DatabasePath)
	c.provider.ConfigWriter(barWriter)

	return c.provider.Download(ctx, params.Symbol, params.StartDate, params.EndDate, c.onProgress)
}
