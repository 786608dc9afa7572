package search

import (
	"context"
	"log/slog"
)

// Querier runs one search cycle. *Searcher implements it.
type Querier interface {
	Search(ctx context.Context, query string) (ResultSet, error)
}

// Searcher fetches every collection and filters it for a query.
type Searcher struct {
	agg     *Aggregator
	matcher Matcher
	limit   int
	logger  *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithMatcher sets the free-text matcher.
func WithMatcher(m Matcher) Option {
	return func(s *Searcher) { s.matcher = m }
}

// WithLimit caps results per variant. Zero means unlimited.
func WithLimit(n int) Option {
	return func(s *Searcher) { s.limit = n }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) { s.logger = logger }
}

// NewSearcher creates a Searcher reading from f.
func NewSearcher(f Fetcher, opts ...Option) *Searcher {
	s := &Searcher{matcher: MatcherSubstring, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.agg = NewAggregator(f, s.logger)
	return s
}

// Search runs a full cycle: fetch, merge, filter and group.
func (s *Searcher) Search(ctx context.Context, query string) (ResultSet, error) {
	c, err := s.agg.Fetch(ctx)
	if err != nil {
		return ResultSet{}, err
	}

	filtered := Filter(c, query, FilterOptions{Matcher: s.matcher, Limit: s.limit})
	rs := NewResultSet(query, filtered)

	s.logger.Debug("search cycle done",
		slog.String("query", query),
		slog.Int("fetched", c.Len()),
		slog.Int("matched", rs.Len()),
	)
	return rs, nil
}
