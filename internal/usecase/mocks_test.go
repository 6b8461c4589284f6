// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/domain/ports/repository"
	"telegram-translation-gate/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// testPolicy mirrors the production defaults unless a test overrides it.
func testPolicy() usecase.Policy {
	return usecase.Policy{
		FreeQuota:        1,
		FreeCodeDays:     3,
		MaxGroupsPerCode: 2,
		MaxExtensions:    2,
		ExtensionDays:    30,
		SoloDays:         3,
		RequiredUSDT:     30,
	}
}

// memTxManager satisfies TransactionManager for unit tests: no real
// transaction, the callback just runs with a nil handle.
type memTxManager struct{}

func newMemTxManager() *memTxManager { return &memTxManager{} }

func (m *memTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, nil)
}

// memCodeRepo is a small in-memory ActivationCodeRepository.
type memCodeRepo struct {
	mu    sync.RWMutex
	store map[string]*model.ActivationCode
}

func newMemCodeRepo() *memCodeRepo {
	return &memCodeRepo{store: make(map[string]*model.ActivationCode)}
}

func (m *memCodeRepo) Insert(ctx context.Context, _ repository.Tx, code *model.ActivationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[code.Code]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *code
	m.store[code.Code] = &cp
	return nil
}

func (m *memCodeRepo) Save(ctx context.Context, _ repository.Tx, code *model.ActivationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *code
	m.store[code.Code] = &cp
	return nil
}

func (m *memCodeRepo) FindByCode(ctx context.Context, _ repository.Tx, code string) (*model.ActivationCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCodeRepo) CountLiveByIssuer(ctx context.Context, _ repository.Tx, issuerID int64, now time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.store {
		if c.IssuerID == issuerID && !c.Privileged && !c.Revoked && !c.ExpiresAt.Before(now) {
			n++
		}
	}
	return n, nil
}

// memBindingRepo is a small in-memory GroupBindingRepository.
type memBindingRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.GroupBinding
	saveErr error // used by tests to simulate save failures
}

func newMemBindingRepo() *memBindingRepo {
	return &memBindingRepo{store: make(map[int64]*model.GroupBinding)}
}

func (m *memBindingRepo) Save(ctx context.Context, _ repository.Tx, b *model.GroupBinding) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.store[b.ChatID] = &cp
	return nil
}

func (m *memBindingRepo) FindByChat(ctx context.Context, _ repository.Tx, chatID int64) (*model.GroupBinding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.store[chatID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBindingRepo) FindByCode(ctx context.Context, _ repository.Tx, code string) ([]*model.GroupBinding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.GroupBinding
	for _, b := range m.store {
		if b.Code == code {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBindingRepo) CountByCode(ctx context.Context, _ repository.Tx, code string) (int, error) {
	bs, _ := m.FindByCode(ctx, nil, code)
	return len(bs), nil
}

func (m *memBindingRepo) Remove(ctx context.Context, _ repository.Tx, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, chatID)
	return nil
}

func (m *memBindingRepo) List(ctx context.Context, _ repository.Tx) ([]*model.GroupBinding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.GroupBinding
	for _, b := range m.store {
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

// memSoloRepo is a small in-memory SoloEntitlementRepository.
type memSoloRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.SoloEntitlement
}

func newMemSoloRepo() *memSoloRepo {
	return &memSoloRepo{store: make(map[int64]*model.SoloEntitlement)}
}

func (m *memSoloRepo) Save(ctx context.Context, _ repository.Tx, s *model.SoloEntitlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.AccountID] = &cp
	return nil
}

func (m *memSoloRepo) FindByAccount(ctx context.Context, _ repository.Tx, accountID int64) (*model.SoloEntitlement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[accountID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

// memInvoiceRepo is a small in-memory PaymentInvoiceRepository.
type memInvoiceRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.PaymentInvoice
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{store: make(map[int64]*model.PaymentInvoice)}
}

func (m *memInvoiceRepo) Put(ctx context.Context, inv *model.PaymentInvoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.store[inv.ChatID] = &cp
	return nil
}

func (m *memInvoiceRepo) FindByChat(ctx context.Context, chatID int64) (*model.PaymentInvoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.store[chatID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoiceRepo) Remove(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, chatID)
	return nil
}

// memOwnerRepo is a small in-memory OwnerSettingsRepository.
type memOwnerRepo struct {
	mu       sync.RWMutex
	settings *model.OwnerSettings
}

func newMemOwnerRepo() *memOwnerRepo { return &memOwnerRepo{} }

func (m *memOwnerRepo) Get(ctx context.Context) (*model.OwnerSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return nil, domain.ErrNotFound
	}
	cp := *m.settings
	return &cp, nil
}

func (m *memOwnerRepo) Put(ctx context.Context, s *model.OwnerSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.settings = &cp
	return nil
}

// fakeIndexer is a scriptable PaymentIndexer.
type fakeIndexer struct {
	mu                       sync.Mutex
	createCalls              int
	CreateDepositAddressFunc func(ctx context.Context, chatID int64) (string, string, error)
	ConfirmedAmountFunc      func(ctx context.Context, inv *model.PaymentInvoice) (float64, error)
}

func (f *fakeIndexer) CreateDepositAddress(ctx context.Context, chatID int64) (string, string, error) {
	f.mu.Lock()
	f.createCalls++
	n := f.createCalls
	f.mu.Unlock()
	if f.CreateDepositAddressFunc != nil {
		return f.CreateDepositAddressFunc(ctx, chatID)
	}
	return "TADDR", "order-" + string(rune('0'+n)), nil
}

func (f *fakeIndexer) ConfirmedAmount(ctx context.Context, inv *model.PaymentInvoice) (float64, error) {
	if f.ConfirmedAmountFunc != nil {
		return f.ConfirmedAmountFunc(ctx, inv)
	}
	return 0, nil
}
