package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// ErrEmptyID is returned when trying to store a sale with an empty ID.
var ErrEmptyID = errors.New("empty sale ID")

// Storage is the main interface for our sales storage layer.
// List returns an ordered snapshot, oldest first.
type Storage interface {
	Create(ctx context.Context, sale *Sale) error
	Read(ctx context.Context, id string) (*Sale, error)
	Update(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Sale, error)
}

// LocalStorage provides an in-memory implementation for storing sales.
type LocalStorage struct {
	mu    sync.RWMutex
	m     map[string]*Sale
	order []string
}

// NewLocalStorage instantiates a new LocalStorage for sales with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]*Sale{},
	}
}

// Create stores a new sale.
// Returns ErrEmptyID if the sale has an empty ID.
func (l *LocalStorage) Create(_ context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[sale.ID]; ok {
		return fmt.Errorf("sale %s already exists", sale.ID)
	}
	cp := *sale
	l.m[sale.ID] = &cp
	l.order = append(l.order, sale.ID)
	return nil
}

// Read retrieves a sale from the local storage by ID.
// Returns ErrNotFound if the sale is not found.
func (l *LocalStorage) Read(_ context.Context, id string) (*Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// Update replaces a stored sale.
func (l *LocalStorage) Update(_ context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[sale.ID]; !ok {
		return ErrNotFound
	}
	cp := *sale
	l.m[sale.ID] = &cp
	return nil
}

// Delete removes a sale by ID.
func (l *LocalStorage) Delete(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[id]; !ok {
		return ErrNotFound
	}
	delete(l.m, id)
	for i, v := range l.order {
		if v == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns a copy of every sale ordered by creation time, ties in insertion order.
func (l *LocalStorage) List(_ context.Context) ([]Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sales := make([]Sale, 0, len(l.order))
	for _, id := range l.order {
		sales = append(sales, *l.m[id])
	}
	sort.SliceStable(sales, func(i, j int) bool {
		return sales[i].CreatedAt.Before(sales[j].CreatedAt)
	})
	return sales, nil
}

// DBStorage keeps sales in a gorm-managed table.
type DBStorage struct {
	db *gorm.DB
}

// NewDBStorage wraps an open gorm connection. The sales table must already be migrated.
func NewDBStorage(db *gorm.DB) *DBStorage {
	return &DBStorage{db: db}
}

func (d *DBStorage) Create(ctx context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	if err := d.db.WithContext(ctx).Create(sale).Error; err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (d *DBStorage) Read(ctx context.Context, id string) (*Sale, error) {
	var s Sale
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read sale: %w", err)
	}
	return &s, nil
}

func (d *DBStorage) Update(ctx context.Context, sale *Sale) error {
	if sale.ID == "" {
		return ErrEmptyID
	}
	res := d.db.WithContext(ctx).Model(&Sale{}).Where("id = ?", sale.ID).Updates(map[string]any{
		"name":       sale.Name,
		"value":      sale.Value,
		"buyer":      sale.Buyer,
		"status":     sale.Status,
		"updated_at": sale.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update sale: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DBStorage) Delete(ctx context.Context, id string) error {
	res := d.db.WithContext(ctx).Where("id = ?", id).Delete(&Sale{})
	if res.Error != nil {
		return fmt.Errorf("delete sale: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DBStorage) List(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if err := d.db.WithContext(ctx).Order("created_at ASC").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}
