package usecase

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/lighthouse-check/internal/domain"
	"github.com/naka-gawa/lighthouse-check/internal/gateway"
)

// ErrNoReports is returned when a directory holds no Lighthouse reports at all.
var ErrNoReports = errors.New("no lighthouse reports found")

// Target identifies the commit the check run is attached to.
// An empty HeadSHA is resolved to the default branch head.
type Target struct {
	Owner   string
	Repo    string
	HeadSHA string
}

// Summary is the rendered result of one run.
type Summary struct {
	Title    string
	Markdown string
	Reports  []domain.Report
}

// Publisher is the use case for publishing Lighthouse scores as a check run.
// It orchestrates reading, merging, rendering and publishing.
type Publisher struct {
	reader    gateway.ReportReader
	publisher gateway.CheckPublisher
	logger    *log.Logger
}

// NewPublisher creates a new Publisher instance.
// publisher may be nil when only Summarize is used.
func NewPublisher(reader gateway.ReportReader, publisher gateway.CheckPublisher, logger *log.Logger) *Publisher {
	return &Publisher{
		reader:    reader,
		publisher: publisher,
		logger:    logger,
	}
}

// Collect reads every report in dir concurrently and merges them by URL.
// A file that is not valid JSON fails the whole run; documents without
// categories are skipped.
func (p *Publisher) Collect(ctx context.Context, dir string) ([]domain.Report, error) {
	p.logger.Infof("Collecting reports from %s", dir)
	paths, err := p.reader.List(ctx, dir)
	if err != nil {
		return nil, err
	}

	// Each goroutine owns one slot, so the merge below sees files in listing order.
	raws := make([]domain.RawReport, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			raw, err := p.reader.Read(egCtx, path)
			if err != nil {
				return err
			}
			raws[i] = raw
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	merger := NewMerger()
	for _, raw := range raws {
		report, ok := ParseReport(raw.Data)
		if !ok {
			p.logger.Debugf("Skipping %s: not a Lighthouse report", raw.Path)
			continue
		}
		merger.Add(report)
	}
	p.logger.Infof("Merged %d files into %d reports", len(raws), merger.Len())
	return merger.Reports(), nil
}

// Summarize collects the reports in dir and renders the title and Markdown body.
func (p *Publisher) Summarize(ctx context.Context, dir string) (*Summary, error) {
	reports, err := p.Collect(ctx, dir)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoReports, dir)
	}
	first, others := reports[0], reports[1:]
	return &Summary{
		Title:    ComposeTitle(first),
		Markdown: ComposeSummary(first, others),
		Reports:  reports,
	}, nil
}

// Publish summarizes dir and creates the check run on target.
func (p *Publisher) Publish(ctx context.Context, dir string, target Target) (*domain.CheckResult, error) {
	if p.publisher == nil {
		return nil, errors.New("no check publisher configured")
	}
	summary, err := p.Summarize(ctx, dir)
	if err != nil {
		return nil, err
	}

	sha := target.HeadSHA
	if sha == "" {
		sha, err = p.publisher.ResolveHeadSHA(ctx, target.Owner, target.Repo)
		if err != nil {
			return nil, err
		}
		p.logger.Infof("No commit given, using default branch head %s", sha)
	}

	return p.publisher.CreateCheck(ctx, domain.Check{
		Owner:   target.Owner,
		Repo:    target.Repo,
		HeadSHA: sha,
		Name:    domain.CheckName,
		Title:   summary.Title,
		Label:   domain.CheckLabel,
		Summary: summary.Markdown,
	})
}
