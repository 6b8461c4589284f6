package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"telegram-translation-gate/internal/application"
	"telegram-translation-gate/internal/domain"
	"telegram-translation-gate/internal/domain/model"
	"telegram-translation-gate/internal/infra/i18n"
	"telegram-translation-gate/internal/usecase"
)

// ---- light-weight mocks for the facade interfaces ----

type mockCodeUC struct {
	created    *model.ActivationCode
	createErr  error
	deleted    string
	deleteErr  error
	extended   string
	extendDays int
	extendErr  error
}

func (m *mockCodeUC) Create(ctx context.Context, issuerID int64, durationDays int, privileged bool) (*model.ActivationCode, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	c, err := model.NewActivationCode("123456", issuerID, durationDays, privileged)
	if err != nil {
		return nil, err
	}
	m.created = c
	return c, nil
}

func (m *mockCodeUC) Delete(ctx context.Context, code string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = code
	return nil
}

func (m *mockCodeUC) Extend(ctx context.Context, code string, durationDays int) (*model.ActivationCode, error) {
	if m.extendErr != nil {
		return nil, m.extendErr
	}
	m.extended = code
	m.extendDays = durationDays
	return model.NewActivationCode(code, 1, durationDays, false)
}

type mockBindUC struct {
	binding      *model.GroupBinding
	bindErr      error
	active       bool
	remaining    int64
	disconnected []int64
	list         []*model.GroupBinding
}

func (m *mockBindUC) Bind(ctx context.Context, code string, chatID int64) (*model.GroupBinding, error) {
	if m.bindErr != nil {
		return nil, m.bindErr
	}
	return m.binding, nil
}

func (m *mockBindUC) IsActive(ctx context.Context, chatID int64) (bool, error) {
	return m.active, nil
}

func (m *mockBindUC) RemainingSeconds(ctx context.Context, chatID int64) (int64, error) {
	return m.remaining, nil
}

func (m *mockBindUC) Disconnect(ctx context.Context, chatID int64) error {
	m.disconnected = append(m.disconnected, chatID)
	return nil
}

func (m *mockBindUC) List(ctx context.Context) ([]*model.GroupBinding, error) {
	return m.list, nil
}

type mockRenewUC struct {
	extendOK    bool
	extendErr   error
	solo        *model.SoloEntitlement
	soloOK      bool
	activated   bool
	soloExtends int
}

func (m *mockRenewUC) ExtendBinding(ctx context.Context, chatID int64, durationDays, maxExtensions int) (bool, error) {
	if m.extendErr != nil {
		return false, m.extendErr
	}
	return m.extendOK, nil
}

func (m *mockRenewUC) ActivateSolo(ctx context.Context, accountID int64, durationDays int) (*model.SoloEntitlement, error) {
	m.activated = true
	s, err := model.NewSoloEntitlement(accountID, durationDays)
	if err != nil {
		return nil, err
	}
	m.solo = s
	return s, nil
}

func (m *mockRenewUC) ExtendSolo(ctx context.Context, accountID int64, durationDays int) (bool, error) {
	m.soloExtends++
	return m.soloOK, nil
}

func (m *mockRenewUC) SoloStatus(ctx context.Context, accountID int64) (*model.SoloEntitlement, error) {
	return m.solo, nil
}

type mockPayUC struct {
	res *usecase.PaymentCheckResult
	err error
}

func (m *mockPayUC) CheckAndExtend(ctx context.Context, chatID int64) (*usecase.PaymentCheckResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.res, nil
}

type mockAccessUC struct {
	privileged bool
	authErr    error
}

func (m *mockAccessUC) Authenticate(ctx context.Context, actorID int64, secret string) error {
	return m.authErr
}
func (m *mockAccessUC) IsPrivileged(ctx context.Context, actorID int64) bool { return m.privileged }
func (m *mockAccessUC) Authorize(ctx context.Context, actorID, chatID int64) bool {
	return m.privileged
}
func (m *mockAccessUC) SetControlChat(ctx context.Context, actorID, chatID int64) error {
	if !m.privileged {
		return domain.ErrUnauthorized
	}
	return nil
}

type mockTranslator struct {
	source string
	byLang map[string]string
	err    error
}

func (m *mockTranslator) Translate(ctx context.Context, text string) (string, map[string]string, error) {
	return m.source, m.byLang, m.err
}

type facadeFixture struct {
	codes   *mockCodeUC
	binds   *mockBindUC
	renew   *mockRenewUC
	pay     *mockPayUC
	access  *mockAccessUC
	trans   *mockTranslator
	catalog *i18n.Catalog
	facade  *application.BotFacade
}

func newFacadeFixture(t *testing.T) *facadeFixture {
	t.Helper()
	catalog, err := i18n.NewCatalog(i18n.LocalesFS, i18n.DefaultLangs)
	if err != nil {
		t.Fatalf("NewCatalog failed: %v", err)
	}
	f := &facadeFixture{
		codes:   &mockCodeUC{},
		binds:   &mockBindUC{},
		renew:   &mockRenewUC{},
		pay:     &mockPayUC{},
		access:  &mockAccessUC{},
		trans:   &mockTranslator{},
		catalog: catalog,
	}
	policy := usecase.Policy{
		FreeQuota:        1,
		FreeCodeDays:     3,
		MaxGroupsPerCode: 2,
		MaxExtensions:    2,
		ExtensionDays:    30,
		SoloDays:         3,
		RequiredUSDT:     30,
	}
	f.facade = application.NewBotFacade(f.codes, f.binds, f.renew, f.pay, f.access, f.trans, catalog, policy)
	return f
}

func TestHandleCreateCode(t *testing.T) {
	ctx := context.Background()

	t.Run("should mint a code and report its lifetime", func(t *testing.T) {
		f := newFacadeFixture(t)
		msg, err := f.facade.HandleCreateCode(ctx, 42)
		if err != nil {
			t.Fatalf("HandleCreateCode returned error: %v", err)
		}
		if f.codes.created == nil || f.codes.created.IssuerID != 42 {
			t.Fatalf("expected code minted for issuer 42, got %+v", f.codes.created)
		}
		if !strings.Contains(msg, "123456") {
			t.Errorf("expected reply to contain the code, got %q", msg)
		}
	})

	t.Run("should render quota message when free tier is exhausted", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.codes.createErr = domain.ErrQuotaExceeded
		msg, err := f.facade.HandleCreateCode(ctx, 42)
		if err != nil {
			t.Fatalf("HandleCreateCode returned error: %v", err)
		}
		if want := f.catalog.Multi("code_quota"); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})
}

func TestHandleRegisterCode(t *testing.T) {
	ctx := context.Background()

	t.Run("should reply usage when the code argument is missing", func(t *testing.T) {
		f := newFacadeFixture(t)
		msg, err := f.facade.HandleRegisterCode(ctx, -100, "   ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := f.catalog.Multi("usage_registercode"); msg != want {
			t.Errorf("wanted usage reply, got %q", msg)
		}
	})

	t.Run("should map binding errors onto user replies", func(t *testing.T) {
		cases := []struct {
			err error
			key string
		}{
			{domain.ErrCodeNotFound, "code_invalid"},
			{domain.ErrCodeExpired, "code_invalid"},
			{domain.ErrBoundToOtherCode, "bound_other_code"},
			{domain.ErrAlreadyConnected, "already_connected"},
			{domain.ErrGroupQuotaExceeded, "register_limit"},
		}
		for _, c := range cases {
			f := newFacadeFixture(t)
			f.binds.bindErr = c.err
			msg, err := f.facade.HandleRegisterCode(ctx, -100, "123456")
			if err != nil {
				t.Fatalf("unexpected error for %v: %v", c.err, err)
			}
			if want := f.catalog.Multi(c.key); msg != want {
				t.Errorf("for %v wanted %q, got %q", c.err, want, msg)
			}
		}
	})

	t.Run("should report remaining days on success", func(t *testing.T) {
		f := newFacadeFixture(t)
		code, _ := model.NewActivationCode("123456", 1, 3, false)
		binding, err := model.NewGroupBinding(-100, code)
		if err != nil {
			t.Fatalf("NewGroupBinding failed: %v", err)
		}
		f.binds.binding = binding
		msg, err := f.facade.HandleRegisterCode(ctx, -100, "123456")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := f.catalog.Multi("register_ok", int64(2)); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})
}

func TestHandleSoloMode(t *testing.T) {
	ctx := context.Background()

	t.Run("should activate when no entitlement exists", func(t *testing.T) {
		f := newFacadeFixture(t)
		msg, err := f.facade.HandleSoloMode(ctx, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !f.renew.activated {
			t.Fatal("expected ActivateSolo call")
		}
		if want := f.catalog.Multi("solo_started", 3); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})

	t.Run("should extend an active entitlement once", func(t *testing.T) {
		f := newFacadeFixture(t)
		s, _ := model.NewSoloEntitlement(42, 3)
		f.renew.solo = s
		f.renew.soloOK = true
		msg, err := f.facade.HandleSoloMode(ctx, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.renew.soloExtends != 1 {
			t.Fatalf("expected one ExtendSolo call, got %d", f.renew.soloExtends)
		}
		if want := f.catalog.Multi("solo_extended", 3); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})

	t.Run("should report the limit after the single renewal", func(t *testing.T) {
		f := newFacadeFixture(t)
		s, _ := model.NewSoloEntitlement(42, 3)
		f.renew.solo = s
		f.renew.soloOK = false
		msg, err := f.facade.HandleSoloMode(ctx, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := f.catalog.Multi("solo_limit"); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})
}

func TestHandleExtendCode(t *testing.T) {
	ctx := context.Background()

	t.Run("should report new remaining time after an extension", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.renew.extendOK = true
		f.binds.remaining = 33 * 86400
		msg, err := f.facade.HandleExtendCode(ctx, -100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := f.catalog.Multi("extend_ok", 30, int64(33)); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})

	t.Run("should point at payment once the extension bound is hit", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.renew.extendOK = false
		msg, err := f.facade.HandleExtendCode(ctx, -100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := f.catalog.Multi("extend_limit", 30.0); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})

	t.Run("should ask for registration when the chat is unbound", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.renew.extendErr = domain.ErrNotRegistered
		msg, err := f.facade.HandleExtendCode(ctx, -100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := f.catalog.Multi("not_registered"); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})
}

func TestHandleRemaining(t *testing.T) {
	ctx := context.Background()
	f := newFacadeFixture(t)
	f.binds.remaining = 2*86400 + 3*3600 + 4*60
	msg, err := f.facade.HandleRemaining(ctx, -100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := f.catalog.Multi("remaining", int64(2), int64(3), int64(4)); msg != want {
		t.Errorf("wanted %q, got %q", want, msg)
	}

	f.binds.remaining = 0
	msg, err = f.facade.HandleRemaining(ctx, -100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := f.catalog.Multi("not_registered"); msg != want {
		t.Errorf("wanted %q, got %q", want, msg)
	}
}

func TestHandlePaymentCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("should confirm a paid invoice with new remaining time", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.pay.res = &usecase.PaymentCheckResult{
			Outcome:          usecase.OutcomePaid,
			AmountUSDT:       30.5,
			RemainingSeconds: 31 * 86400,
		}
		msg, err := f.facade.HandlePaymentCheck(ctx, -100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := f.catalog.Multi("payment_paid", 30.5, 30, int64(31)); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})

	t.Run("should show the deposit address while unpaid", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.pay.res = &usecase.PaymentCheckResult{
			Outcome:        usecase.OutcomeUnpaid,
			RequiredUSDT:   30,
			DepositAddress: "TDepositAddr",
		}
		msg, err := f.facade.HandlePaymentCheck(ctx, -100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(msg, "TDepositAddr") {
			t.Errorf("expected deposit address in reply, got %q", msg)
		}
	})

	t.Run("should report the limit without swallowing the payment", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.pay.res = &usecase.PaymentCheckResult{Outcome: usecase.OutcomeLimitReached, AmountUSDT: 30}
		msg, err := f.facade.HandlePaymentCheck(ctx, -100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := f.catalog.Multi("payment_limit"); msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})
}

func TestHandleAuth(t *testing.T) {
	ctx := context.Background()
	f := newFacadeFixture(t)
	msg, err := f.facade.HandleAuth(ctx, 42, "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := f.catalog.Multi("auth_ok"); msg != want {
		t.Errorf("wanted %q, got %q", want, msg)
	}

	f.access.authErr = domain.ErrUnauthorized
	msg, err = f.facade.HandleAuth(ctx, 42, "wrong")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := f.catalog.Multi("auth_fail"); msg != want {
		t.Errorf("wanted %q, got %q", want, msg)
	}
}

func TestHandleGroupMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("should stay silent in a lapsed group", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.binds.active = false
		msg, err := f.facade.HandleGroupMessage(ctx, -100, 42, "hello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg != "" {
			t.Errorf("expected empty reply for a lapsed group, got %q", msg)
		}
	})

	t.Run("should render translations one language per line", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.binds.active = true
		f.trans.source = "en"
		f.trans.byLang = map[string]string{"ko": "안녕", "vi": "xin chào"}
		msg, err := f.facade.HandleGroupMessage(ctx, -100, 42, "hello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "[ko] 안녕\n[vi] xin chào"
		if msg != want {
			t.Errorf("wanted %q, got %q", want, msg)
		}
	})

	t.Run("should gate private chats on the solo entitlement", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.trans.byLang = map[string]string{"ko": "안녕"}
		msg, err := f.facade.HandleGroupMessage(ctx, 42, 42, "hello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg != "" {
			t.Errorf("expected silence without a solo entitlement, got %q", msg)
		}

		s, _ := model.NewSoloEntitlement(42, 3)
		f.renew.solo = s
		msg, err = f.facade.HandleGroupMessage(ctx, 42, 42, "hello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if msg != "[ko] 안녕" {
			t.Errorf("expected translation for solo user, got %q", msg)
		}
	})

	t.Run("should surface translator failures", func(t *testing.T) {
		f := newFacadeFixture(t)
		f.binds.active = true
		f.trans.err = errors.New("upstream down")
		if _, err := f.facade.HandleGroupMessage(ctx, -100, 42, "hello"); err == nil {
			t.Fatal("expected an error when translation fails")
		}
	})
}

func TestOwnerHandlers(t *testing.T) {
	ctx := context.Background()

	t.Run("should list bindings with their state", func(t *testing.T) {
		f := newFacadeFixture(t)
		code, _ := model.NewActivationCode("123456", 1, 3, false)
		b1, _ := model.NewGroupBinding(-100, code)
		b2, _ := model.NewGroupBinding(-200, code)
		b2.Connected = false
		b2.ExpiresAt = time.Now().Add(-time.Hour)
		f.binds.list = []*model.GroupBinding{b1, b2}
		msg, err := f.facade.HandleListBindings(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(msg, "-100") || !strings.Contains(msg, "connected") {
			t.Errorf("expected chat ids and state in listing, got %q", msg)
		}
		if !strings.Contains(msg, "disconnected") {
			t.Errorf("expected disconnected state in listing, got %q", msg)
		}
	})

	t.Run("should revoke codes and report the deletion", func(t *testing.T) {
		f := newFacadeFixture(t)
		msg, err := f.facade.HandleDeleteCode(ctx, "123456")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.codes.deleted != "123456" {
			t.Fatalf("expected delete recorded, got %q", f.codes.deleted)
		}
		if !strings.Contains(msg, "123456") {
			t.Errorf("expected code in reply, got %q", msg)
		}
	})

	t.Run("should extend issued codes by the requested days", func(t *testing.T) {
		f := newFacadeFixture(t)
		msg, err := f.facade.HandleExtendIssued(ctx, "123456", 15)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.codes.extended != "123456" || f.codes.extendDays != 15 {
			t.Fatalf("expected extension recorded, got %q %d", f.codes.extended, f.codes.extendDays)
		}
		if !strings.Contains(msg, "123456") {
			t.Errorf("expected code in reply, got %q", msg)
		}
	})
}
