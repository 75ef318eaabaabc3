package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Validation errors, rejected before anything is stored.
var (
	ErrInvalidStatus = errors.New("invalid status value")
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidValue  = errors.New("value must be a non-negative amount")
)

// Hook observes committed store mutations.
// Hooks run synchronously after the write succeeded and cannot fail it.
type Hook interface {
	AfterCommit(ctx context.Context, m Mutation)
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, m Mutation)

func (f HookFunc) AfterCommit(ctx context.Context, m Mutation) { f(ctx, m) }

// Service provides high-level sales management operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
	hooks   []Hook
	now     func() time.Time
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger, hooks ...Hook) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		storage: storage,
		logger:  logger,
		hooks:   hooks,
		now:     time.Now,
	}
}

// AddHook registers h after the existing hooks.
func (s *Service) AddHook(h Hook) {
	s.hooks = append(s.hooks, h)
}

// CreateSale validates and stores a new sale.
func (s *Service) CreateSale(ctx context.Context, in NewSale) (*Sale, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if in.Value == nil || in.Value.IsNegative() {
		return nil, ErrInvalidValue
	}
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidStatus, status)
	}

	now := s.now()
	sale := &Sale{
		ID:        uuid.NewString(),
		Name:      name,
		Value:     in.Value.Round(2),
		Buyer:     buyerOrDefault(in.Buyer),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.Create(ctx, sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.logger.Info("sale created", zap.String("sale_id", sale.ID), zap.String("status", string(sale.Status)))
	s.fire(ctx, Mutation{Op: OpCreate, SaleID: sale.ID, Sale: sale})
	return sale, nil
}

// UpdateSale applies a partial update to an existing sale.
func (s *Service) UpdateSale(ctx context.Context, id string, patch SalePatch) (*Sale, error) {
	sale, err := s.storage.Read(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		sale.Name = name
	}
	if patch.Value != nil {
		if patch.Value.IsNegative() {
			return nil, ErrInvalidValue
		}
		sale.Value = patch.Value.Round(2)
	}
	if patch.Buyer != nil {
		sale.Buyer = buyerOrDefault(*patch.Buyer)
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidStatus, *patch.Status)
		}
		sale.Status = *patch.Status
	}
	sale.UpdatedAt = s.now()

	if err := s.storage.Update(ctx, sale); err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", sale.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("sale updated", zap.String("sale_id", sale.ID), zap.String("status", string(sale.Status)))
	s.fire(ctx, Mutation{Op: OpUpdate, SaleID: sale.ID, Sale: sale})
	return sale, nil
}

// DeleteSale removes a sale by ID.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to delete sale", zap.String("sale_id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("sale deleted", zap.String("sale_id", id))
	s.fire(ctx, Mutation{Op: OpDelete, SaleID: id})
	return nil
}

// ListSales returns every sale, oldest first.
func (s *Service) ListSales(ctx context.Context) ([]Sale, error) {
	sales, err := s.storage.List(ctx)
	if err != nil {
		s.logger.Error("failed to get all sales from storage", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return sales, nil
}

func (s *Service) fire(ctx context.Context, m Mutation) {
	for _, h := range s.hooks {
		h.AfterCommit(ctx, m)
	}
}

func buyerOrDefault(buyer string) string {
	if b := strings.TrimSpace(buyer); b != "" {
		return b
	}
	return DefaultBuyer
}
