package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"sales_ledger/internal/report"
	"sales_ledger/internal/sales"
)

// Lister reads the full ordered sale list.
type Lister interface {
	List(ctx context.Context) ([]sales.Sale, error)
}

// Syncer rebuilds the summary from the record store and publishes it.
// It is registered as a sales.Hook so every committed mutation triggers a pass.
type Syncer struct {
	sales     Lister
	catalog   report.Catalog
	state     StateStore
	publisher *Publisher
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewSyncer wires a sync pass. loc is the zone of the payload footer; nil means UTC.
func NewSyncer(lister Lister, catalog report.Catalog, state StateStore, publisher *Publisher, logger *zap.Logger, loc *time.Location) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Syncer{
		sales:     lister,
		catalog:   catalog,
		state:     state,
		publisher: publisher,
		logger:    logger,
		location:  loc,
		now:       time.Now,
	}
}

// Enabled reports whether a sync pass will reach the channel.
func (s *Syncer) Enabled() bool {
	return s.publisher.Enabled()
}

// Sync runs Aggregator, Formatter, Payload Builder and Publisher in order.
// The state is saved whenever Publish hands back a different one, even
// alongside an error.
func (s *Syncer) Sync(ctx context.Context) error {
	if !s.Enabled() {
		s.logger.Debug("notification channel not configured, skipping sync")
		return nil
	}

	timer := prometheus.NewTimer(syncDuration)
	defer timer.ObserveDuration()

	all, err := s.sales.List(ctx)
	if err != nil {
		return fmt.Errorf("list sales: %w", err)
	}
	payload := report.BuildPayload(report.Summarize(all, s.catalog), s.now().In(s.location))

	state, err := s.state.Load(ctx)
	if err != nil {
		return err
	}

	next, pubErr := s.publisher.Publish(ctx, state, payload)
	if next != state {
		if err := s.state.Save(ctx, next); err != nil {
			if pubErr != nil {
				return fmt.Errorf("%w (and %v)", pubErr, err)
			}
			return err
		}
	}
	return pubErr
}

// AfterCommit implements sales.Hook. Failures are logged and never reach
// the mutation that triggered them.
func (s *Syncer) AfterCommit(ctx context.Context, m sales.Mutation) {
	if err := s.Sync(ctx); err != nil {
		s.logger.Error("failed to publish sales summary",
			zap.String("op", string(m.Op)),
			zap.String("sale_id", m.SaleID),
			zap.Error(err))
	}
}
