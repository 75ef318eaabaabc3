package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// State is the durable record of the tracked remote message.
type State struct {
	MessageID string
}

// Tracked reports whether a remote message is currently tracked.
func (s State) Tracked() bool { return s.MessageID != "" }

// StateStore persists State across restarts.
type StateStore interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
}

const messageIDKey = "discord_message_id"

// NotificationState is a key/value row of the notification_state table.
type NotificationState struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     string
	UpdatedAt time.Time
}

func (NotificationState) TableName() string { return "notification_state" }

// DBStateStore keeps State in the notification_state table.
type DBStateStore struct {
	db *gorm.DB
}

func NewDBStateStore(db *gorm.DB) *DBStateStore {
	return &DBStateStore{db: db}
}

func (d *DBStateStore) Load(ctx context.Context) (State, error) {
	var row NotificationState
	err := d.db.WithContext(ctx).Where("name = ?", messageIDKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load notification state: %w", err)
	}
	return State{MessageID: row.Value}, nil
}

func (d *DBStateStore) Save(ctx context.Context, s State) error {
	row := NotificationState{Name: messageIDKey, Value: s.MessageID, UpdatedAt: time.Now()}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save notification state: %w", err)
	}
	return nil
}

// FileStateStore keeps State in a JSON metadata file. Unknown keys in the
// file are preserved; a missing or unreadable file counts as empty.
type FileStateStore struct {
	path string
}

const fileMessageIDKey = "discordMessageId"

func NewFileStateStore(path string) *FileStateStore {
	return &FileStateStore{path: path}
}

func (f *FileStateStore) read() map[string]any {
	meta := map[string]any{}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return meta
	}
	if err := json.Unmarshal(data, &meta); err != nil || meta == nil {
		return map[string]any{}
	}
	return meta
}

func (f *FileStateStore) Load(_ context.Context) (State, error) {
	id, _ := f.read()[fileMessageIDKey].(string)
	return State{MessageID: id}, nil
}

func (f *FileStateStore) Save(_ context.Context, s State) error {
	meta := f.read()
	if s.MessageID == "" {
		delete(meta, fileMessageIDKey)
	} else {
		meta[fileMessageIDKey] = s.MessageID
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create metadata dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace metadata: %w", err)
	}
	return nil
}

// RedisStateStore keeps State under a single redis key.
type RedisStateStore struct {
	rdb *redis.Client
	key string
}

// DefaultRedisKey is where RedisStateStore keeps the message id.
const DefaultRedisKey = "ledger:notification:message_id"

func NewRedisStateStore(rdb *redis.Client, key string) *RedisStateStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStateStore{rdb: rdb, key: key}
}

func (r *RedisStateStore) Load(ctx context.Context) (State, error) {
	val, err := r.rdb.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load notification state: %w", err)
	}
	return State{MessageID: val}, nil
}

func (r *RedisStateStore) Save(ctx context.Context, s State) error {
	var err error
	if s.MessageID == "" {
		err = r.rdb.Del(ctx, r.key).Err()
	} else {
		err = r.rdb.Set(ctx, r.key, s.MessageID, 0).Err()
	}
	if err != nil {
		return fmt.Errorf("save notification state: %w", err)
	}
	return nil
}
