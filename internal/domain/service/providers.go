package service

import (
	"context"
	"time"

	"MacroPull/internal/domain/models"
)

// StatisticalProvider fetches observation series keyed by series id.
// A nil start means the provider's full history.
type StatisticalProvider interface {
	Observations(ctx context.Context, seriesID string, start *time.Time) (models.TimeSeries, error)
}

// QuoteProvider fetches market data keyed by ticker.
type QuoteProvider interface {
	History(ctx context.Context, ticker string, period models.Period) (models.QuoteHistory, error)
	Fundamentals(ctx context.Context, ticker string) (models.Fundamentals, error)
	Statement(ctx context.Context, ticker string, kind models.StatementKind) (models.Statement, error)
}

// Fetcher is the single entry point to external data used by the dashboards.
type Fetcher interface {
	FetchStatisticalSeries(ctx context.Context, seriesID string, start *time.Time) (models.TimeSeries, error)
	FetchQuoteHistory(ctx context.Context, ticker string, period models.Period) (models.QuoteHistory, error)
	FetchFundamentals(ctx context.Context, ticker string) (models.Fundamentals, error)
	FetchStatement(ctx context.Context, ticker string, kind models.StatementKind) (models.Statement, error)
}
