package extract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mantle-data/genesys-export/internal/genesys"
)

// Sink persists the flattened records of one run. The tables package
// provides the CSV implementation.
type Sink interface {
	WriteRecords(records []Record) error
}

// Pipeline runs one extraction end to end: window, paged fetch, flatten,
// write. Strictly sequential; the records slice is the only state and lives
// for the duration of the run.
type Pipeline struct {
	fetcher  *Fetcher
	resolver Resolver
	sink     Sink
	logger   *slog.Logger
	days     int
}

func NewPipeline(client *genesys.Client, sink Sink, days int, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		fetcher:  NewFetcher(client, logger),
		resolver: NewResolver(client, logger),
		sink:     sink,
		logger:   logger,
		days:     days,
	}
}

// Summary reports what one run extracted.
type Summary struct {
	Interval      string
	Pages         int
	Conversations int
	AgentRows     int
	WrapUpRows    int
}

// Run extracts the trailing window ending at the most recent UTC midnight
// before now. The tables are written even when the window holds no
// conversations.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (Summary, error) {
	window := NewWindow(now, p.days)
	interval := window.Interval()

	var records []Record
	pages, err := p.fetcher.Fetch(ctx, interval, func(batch []genesys.Conversation) error {
		for _, conv := range batch {
			records = append(records, Flatten(ctx, conv, p.resolver, p.logger))
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	if err := p.sink.WriteRecords(records); err != nil {
		return Summary{}, fmt.Errorf("write tables: %w", err)
	}

	s := Summary{
		Interval:      interval,
		Pages:         pages,
		Conversations: len(records),
	}
	for _, rec := range records {
		s.AgentRows += len(rec.Agents)
		s.WrapUpRows += len(rec.WrapUpCodes)
	}
	return s, nil
}
