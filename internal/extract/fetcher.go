package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mantle-data/genesys-export/internal/genesys"
)

// pageSize is the fixed page size for conversation-details queries.
const pageSize = 100

// Fetcher pages through the conversation-details results for one window.
type Fetcher struct {
	client *genesys.Client
	logger *slog.Logger
}

func NewFetcher(client *genesys.Client, logger *slog.Logger) *Fetcher {
	return &Fetcher{client: client, logger: logger}
}

// Fetch streams conversation batches for the interval to fn, one call per
// non-empty page, in page order. The initial query only establishes the
// total hit count; pages 1..ceil(hits/100) are then fetched sequentially.
// Returns the number of page queries issued. Any query failure aborts the
// run.
func (f *Fetcher) Fetch(ctx context.Context, interval string, fn func([]genesys.Conversation) error) (int, error) {
	initial, err := f.client.QueryConversationDetails(ctx, genesys.AnalyticsQuery{
		Interval: interval,
		Paging:   genesys.Paging{PageSize: pageSize, PageNumber: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("initial query: %w", err)
	}

	pages := (initial.TotalHits + pageSize - 1) / pageSize
	f.logger.Info("window queried",
		"interval", interval,
		"total_hits", initial.TotalHits,
		"pages", pages,
	)

	for page := 1; page <= pages; page++ {
		resp, err := f.client.QueryConversationDetails(ctx, genesys.AnalyticsQuery{
			Interval: interval,
			Paging:   genesys.Paging{PageSize: pageSize, PageNumber: page},
		})
		if err != nil {
			return page - 1, fmt.Errorf("query page %d: %w", page, err)
		}
		if len(resp.Conversations) == 0 {
			// A page inside the reported range can still come back empty
			// when records age out between queries. Not an error.
			continue
		}
		if err := fn(resp.Conversations); err != nil {
			return page, err
		}
	}

	return pages, nil
}
