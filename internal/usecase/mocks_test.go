//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-channel-access/internal/domain"
	"telegram-channel-access/internal/domain/model"
	"telegram-channel-access/internal/domain/ports/adapter"
	"telegram-channel-access/internal/domain/ports/repository"
	red "telegram-channel-access/internal/infra/redis"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// memCodeRepo is a small in-memory implementation used by unit tests.
type memCodeRepo struct {
	mu    sync.RWMutex
	store map[string]*model.AccessCode

	CreateFunc func(ctx context.Context, tx repository.Tx, code *model.AccessCode) error
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{store: make(map[string]*model.AccessCode)}
}

var _ repository.CodeRepository = (*memCodeRepo)(nil)

func (m *memCodeRepo) Create(ctx context.Context, tx repository.Tx, code *model.AccessCode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[code.Code]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *code
	m.store[code.Code] = &cp
	return nil
}

func (m *memCodeRepo) FindByCode(ctx context.Context, tx repository.Tx, code string) (*model.AccessCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCodeRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.AccessCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.AccessCode, 0, len(m.store))
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memCodeRepo) IncrementUse(ctx context.Context, tx repository.Tx, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[code]
	if !ok {
		return domain.ErrInvalidCode
	}
	if c.CurrentUses >= c.MaxUses {
		return domain.ErrCodeExhausted
	}
	c.CurrentUses++
	return nil
}

// memSubRepo mirrors the subscription table.
type memSubRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.Subscription
}

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{store: make(map[int64]*model.Subscription)}
}

var _ repository.SubscriptionRepository = (*memSubRepo)(nil)

func (m *memSubRepo) Create(ctx context.Context, tx repository.Tx, sub *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[sub.UserID]; ok {
		return domain.ErrAlreadySubscribed
	}
	cp := *sub
	m.store[sub.UserID] = &cp
	return nil
}

func (m *memSubRepo) FindByUser(ctx context.Context, tx repository.Tx, userID int64) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Subscription, 0, len(m.store))
	for _, s := range m.store {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memSubRepo) Remove(ctx context.Context, tx repository.Tx, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, userID)
	return nil
}

// MockTxManager runs the callback without a real transaction.
type MockTxManager struct{}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

// MockGateway captures channel operations.
type MockGateway struct {
	mu      sync.Mutex
	Invites int
	Kicked  []int64

	CreateInviteLinkFunc func(ctx context.Context) (string, error)
	KickFunc             func(ctx context.Context, userID int64) error
}

var _ adapter.ChannelGateway = (*MockGateway)(nil)

func (m *MockGateway) CreateInviteLink(ctx context.Context) (string, error) {
	if m.CreateInviteLinkFunc != nil {
		return m.CreateInviteLinkFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invites++
	return "https://t.me/+test-invite", nil
}

func (m *MockGateway) Kick(ctx context.Context, userID int64) error {
	if m.KickFunc != nil {
		return m.KickFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Kicked = append(m.Kicked, userID)
	return nil
}

// MockLocker hands out locks unconditionally unless told otherwise.
type MockLocker struct {
	TryLockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)
	Unlocked    []string
}

var _ red.Locker = (*MockLocker)(nil)

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.TryLockFunc != nil {
		return m.TryLockFunc(ctx, key, ttl)
	}
	return "token", nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	m.Unlocked = append(m.Unlocked, key)
	return nil
}
