// Package pipeline runs one report pass: load the source, aggregate the
// records, build the report and classify the outcome.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dkoosis/wpstat/internal/report"
	"github.com/dkoosis/wpstat/internal/waterpoint"
	"github.com/dkoosis/wpstat/pkg/source"
)

// Kind classifies the result of a run.
type Kind int

const (
	KindSuccess Kind = iota
	KindDownloadFailed
	KindNoCommunityData
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindDownloadFailed:
		return "download_failed"
	case KindNoCommunityData:
		return "no_community_data"
	default:
		return "unknown"
	}
}

// User-facing failure messages.
const (
	MsgDownloadFailed  = "Unable To download Json"
	MsgNoCommunityData = "Json retrieved doesn't have community data"
)

// Outcome is the classified result of a run.
type Outcome struct {
	Kind    Kind
	Message string // set for failures
	Err     error  // underlying cause, for logging
	Report  report.Report
	Records int // records counted
	Skipped int // malformed records skipped
}

// OK reports whether the run produced a report.
func (o Outcome) OK() bool { return o.Kind == KindSuccess }

// Observer receives run measurements. *metrics.Recorder satisfies it.
type Observer interface {
	ObserveFetch(d time.Duration)
	ObserveAggregation(records, skipped int)
	ObserveReport(communities, functional, total int)
	ObserveOutcome(outcome string)
}

// Pipeline wires a Loader to the aggregator and reporter.
type Pipeline struct {
	Loader   source.Loader
	Options  []waterpoint.Option
	Logger   *zap.Logger
	Observer Observer // optional
}

// New returns a Pipeline with a no-op logger.
func New(loader source.Loader, opts ...waterpoint.Option) *Pipeline {
	return &Pipeline{Loader: loader, Options: opts, Logger: zap.NewNop()}
}

// Calculate runs the pipeline against src.
func (p *Pipeline) Calculate(ctx context.Context, src string) Outcome {
	log := p.logger().With(zap.String("source", src))
	out := p.calculate(ctx, src, log)
	if p.Observer != nil {
		p.Observer.ObserveOutcome(out.Kind.String())
	}
	return out
}

func (p *Pipeline) calculate(ctx context.Context, src string, log *zap.Logger) Outcome {
	start := time.Now()
	log.Debug("loading source")
	records, err := p.Loader.Load(ctx, src)
	if p.Observer != nil {
		p.Observer.ObserveFetch(time.Since(start))
	}
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return failure(KindDownloadFailed, err)
	}
	log.Debug("source loaded", zap.Int("records", len(records)), zap.Duration("elapsed", time.Since(start)))

	res, err := waterpoint.AggregateDetailed(records, p.Options...)
	if err != nil {
		log.Warn("aggregation aborted", zap.Error(err))
		return failure(KindNoCommunityData, err)
	}
	if p.Observer != nil {
		p.Observer.ObserveAggregation(res.Records, res.Skipped)
	}
	if res.Skipped > 0 {
		log.Warn("skipped malformed records", zap.Int("skipped", res.Skipped))
	}
	if len(res.Statistics) == 0 {
		log.Warn("no community statistics", zap.Int("records", len(records)))
		return failure(KindNoCommunityData, errors.New("no community statistics"))
	}

	r := report.Build(res.Statistics)
	if p.Observer != nil {
		p.Observer.ObserveReport(len(res.Statistics), r.NumberFunctional, r.TotalWaterPoints())
	}
	log.Debug("report built",
		zap.Int("communities", len(res.Statistics)),
		zap.Int("functional", r.NumberFunctional),
	)
	return Outcome{Kind: KindSuccess, Report: r, Records: res.Records, Skipped: res.Skipped}
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

func failure(kind Kind, err error) Outcome {
	msg := MsgNoCommunityData
	if kind == KindDownloadFailed {
		msg = MsgDownloadFailed
	}
	return Outcome{Kind: kind, Message: msg, Err: fmt.Errorf("%s: %w", kind, err)}
}
