package noticefeed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmcdole/gofeed"

	"FilingScanner/internal/config"
	"FilingScanner/internal/domain"
	"FilingScanner/internal/ports"
	"FilingScanner/internal/source"
	"FilingScanner/pkg/htmltext"
)

// noticeFilingType is the fixed category for everything from the feed; the
// feed carries regulatory notices, not typed filings.
const noticeFilingType = "Notice"

// Adapter turns syndication feed entries into filing records.
type Adapter struct {
	parser *gofeed.Parser
	url    string
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.FilingSource = (*Adapter)(nil)

// Factory builds the adapter from one configured source entry.
func Factory(cfg config.SourceConfig, deps source.Deps) (ports.FilingSource, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("source %s: feed adapter needs a feed url", cfg.Name)
	}

	parser := gofeed.NewParser()
	parser.UserAgent = deps.UserAgent
	if deps.Client != nil {
		parser.Client = deps.Client
	}

	return &Adapter{
		parser: parser,
		url:    cfg.URL,
		logger: deps.Logger,
		now:    time.Now,
	}, nil
}

// ID reports this adapter's provenance tag.
func (a *Adapter) ID() domain.Source {
	return domain.SourceNoticeFeed
}

// Fetch parses the feed and yields one record per entry. A feed that cannot
// be fetched or parsed degrades to an empty sequence rather than failing the
// source: syndication endpoints routinely serve malformed XML.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.FilingRecord, error) {
	feed, err := a.parser.ParseURLWithContext(a.url, ctx)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("notice feed unreadable, treating as empty", "url", a.url, "error", err)
		}
		return nil, nil
	}

	records := make([]domain.FilingRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		records = append(records, domain.FilingRecord{
			Company:    item.Title,
			FilingType: noticeFilingType,
			FilingDate: a.entryDate(item),
			Source:     domain.SourceNoticeFeed,
			URL:        item.Link,
			RawText:    htmltext.FromFragment(item.Description),
		})
	}
	return records, nil
}

// entryDate resolves the published timestamp at date precision; entries
// without one get the current processing time as an explicit fallback.
func (a *Adapter) entryDate(item *gofeed.Item) time.Time {
	published := a.now().UTC()
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	}
	return published.Truncate(24 * time.Hour)
}
