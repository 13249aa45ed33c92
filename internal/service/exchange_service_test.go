package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-backend/internal/models"
	"github.com/skillswap/skillswap-backend/internal/repository"
)

type mockExchangeStore struct {
	mock.Mock
}

func (m *mockExchangeStore) Create(ctx context.Context, ex *models.ExchangeRequest) error {
	args := m.Called(ctx, ex)
	return args.Error(0)
}

func (m *mockExchangeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ExchangeRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRequest), args.Error(1)
}

func (m *mockExchangeStore) Accept(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRequest), args.Error(1)
}

func (m *mockExchangeStore) Decline(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExchangeRequest), args.Error(1)
}

func (m *mockExchangeStore) Confirm(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, bool, error) {
	args := m.Called(ctx, id, actorID)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.ExchangeRequest), args.Bool(1), args.Error(2)
}

func (m *mockExchangeStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ExchangeRequest, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.ExchangeRequest), args.Error(1)
}

func (m *mockExchangeStore) ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]models.ExchangeRequest, error) {
	args := m.Called(ctx, receiverID)
	return args.Get(0).([]models.ExchangeRequest), args.Error(1)
}

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockSkillReader struct {
	mock.Mock
}

func (m *mockSkillReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skill), args.Error(1)
}

func newExchangeServiceForTest(t *testing.T) (*ExchangeService, *mockExchangeStore, *mockUserReader, *mockSkillReader) {
	t.Helper()
	exchanges := new(mockExchangeStore)
	users := new(mockUserReader)
	skills := new(mockSkillReader)
	return NewExchangeService(exchanges, users, skills), exchanges, users, skills
}

func TestExchangeService_Create_Success(t *testing.T) {
	svc, exchanges, users, skills := newExchangeServiceForTest(t)
	ctx := context.Background()

	senderID := uuid.New()
	receiverID := uuid.New()
	skillID := uuid.New()

	users.On("GetByID", ctx, receiverID).Return(&models.User{ID: receiverID}, nil)
	skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID}, nil)
	exchanges.On("Create", ctx, mock.AnythingOfType("*models.ExchangeRequest")).Return(nil)

	ex, err := svc.Create(ctx, CreateExchangeInput{
		SenderID:   senderID,
		ReceiverID: receiverID,
		SkillID:    skillID,
		Price:      5,
	})
	require.NoError(t, err)
	assert.Equal(t, senderID, ex.SenderID)
	assert.Equal(t, receiverID, ex.ReceiverID)
	assert.Equal(t, 5, ex.Price)
	exchanges.AssertExpectations(t)
}

func TestExchangeService_Create_SelfExchange(t *testing.T) {
	svc, _, _, _ := newExchangeServiceForTest(t)
	ctx := context.Background()

	userID := uuid.New()
	_, err := svc.Create(ctx, CreateExchangeInput{
		SenderID:   userID,
		ReceiverID: userID,
		SkillID:    uuid.New(),
		Price:      5,
	})
	assert.ErrorIs(t, err, ErrSelfExchange)
}

func TestExchangeService_Create_InvalidPrice(t *testing.T) {
	svc, _, _, _ := newExchangeServiceForTest(t)
	ctx := context.Background()

	for _, price := range []int{0, -1, -100} {
		_, err := svc.Create(ctx, CreateExchangeInput{
			SenderID:   uuid.New(),
			ReceiverID: uuid.New(),
			SkillID:    uuid.New(),
			Price:      price,
		})
		assert.Error(t, err)
	}
}

func TestExchangeService_Create_ReceiverNotFound(t *testing.T) {
	svc, _, users, _ := newExchangeServiceForTest(t)
	ctx := context.Background()

	receiverID := uuid.New()
	users.On("GetByID", ctx, receiverID).Return(nil, repository.ErrUserNotFound)

	_, err := svc.Create(ctx, CreateExchangeInput{
		SenderID:   uuid.New(),
		ReceiverID: receiverID,
		SkillID:    uuid.New(),
		Price:      5,
	})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestExchangeService_Create_InsufficientFunds(t *testing.T) {
	svc, exchanges, users, skills := newExchangeServiceForTest(t)
	ctx := context.Background()

	receiverID := uuid.New()
	skillID := uuid.New()

	users.On("GetByID", ctx, receiverID).Return(&models.User{ID: receiverID}, nil)
	skills.On("GetByID", ctx, skillID).Return(&models.Skill{ID: skillID}, nil)
	exchanges.On("Create", ctx, mock.Anything).Return(repository.ErrInsufficientFunds)

	_, err := svc.Create(ctx, CreateExchangeInput{
		SenderID:   uuid.New(),
		ReceiverID: receiverID,
		SkillID:    skillID,
		Price:      100,
	})
	assert.ErrorIs(t, err, repository.ErrInsufficientFunds)
}

func TestExchangeService_Accept_Forbidden(t *testing.T) {
	svc, exchanges, _, _ := newExchangeServiceForTest(t)
	ctx := context.Background()

	id := uuid.New()
	actorID := uuid.New()
	exchanges.On("Accept", ctx, id, actorID).Return(nil, repository.ErrForbidden)

	_, err := svc.Accept(ctx, id, actorID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestExchangeService_Decline_InvalidState(t *testing.T) {
	svc, exchanges, _, _ := newExchangeServiceForTest(t)
	ctx := context.Background()

	id := uuid.New()
	actorID := uuid.New()
	exchanges.On("Decline", ctx, id, actorID).Return(nil, repository.ErrInvalidState)

	_, err := svc.Decline(ctx, id, actorID)
	assert.ErrorIs(t, err, repository.ErrInvalidState)
}

func TestExchangeService_Confirm_ReportsCompletion(t *testing.T) {
	svc, exchanges, _, _ := newExchangeServiceForTest(t)
	ctx := context.Background()

	id := uuid.New()
	actorID := uuid.New()
	completed := &models.ExchangeRequest{
		ID:                id,
		SenderID:          actorID,
		ReceiverID:        uuid.New(),
		Status:            models.ExchangeStatusCompleted,
		SenderConfirmed:   true,
		ReceiverConfirmed: true,
		Price:             5,
	}
	exchanges.On("Confirm", ctx, id, actorID).Return(completed, true, nil)

	ex, done, err := svc.Confirm(ctx, id, actorID)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, models.ExchangeStatusCompleted, ex.Status)
}

func TestExchangeService_Confirm_FirstConfirmationOnly(t *testing.T) {
	svc, exchanges, _, _ := newExchangeServiceForTest(t)
	ctx := context.Background()

	id := uuid.New()
	actorID := uuid.New()
	pending := &models.ExchangeRequest{
		ID:              id,
		SenderID:        actorID,
		ReceiverID:      uuid.New(),
		Status:          models.ExchangeStatusAccepted,
		SenderConfirmed: true,
	}
	exchanges.On("Confirm", ctx, id, actorID).Return(pending, false, nil)

	_, done, err := svc.Confirm(ctx, id, actorID)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestExchangeService_Get_PartyCheck(t *testing.T) {
	svc, exchanges, _, _ := newExchangeServiceForTest(t)
	ctx := context.Background()

	id := uuid.New()
	ex := &models.ExchangeRequest{
		ID:         id,
		SenderID:   uuid.New(),
		ReceiverID: uuid.New(),
		Status:     models.ExchangeStatusPending,
	}
	exchanges.On("GetByID", ctx, id).Return(ex, nil)

	got, err := svc.Get(ctx, id, ex.SenderID)
	require.NoError(t, err)
	assert.Equal(t, ex, got)

	_, err = svc.Get(ctx, id, uuid.New())
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

// fakeExchangeLedger моделирует хранилище обменов и балансы в памяти под
// мьютексом, повторяя транзакционную семантику репозитория: guard по статусу
// и изменение балансов происходят атомарно. Используется для проверки того,
// что возврат и расчёт проходят не более одного раза.
type fakeExchangeLedger struct {
	mu       sync.Mutex
	ex       *models.ExchangeRequest
	policy   models.SettlementPolicy
	balances map[uuid.UUID]*models.UserBalance
	settles  int
	refunds  int
}

func (f *fakeExchangeLedger) Create(ctx context.Context, ex *models.ExchangeRequest) error {
	return nil
}

func (f *fakeExchangeLedger) GetByID(ctx context.Context, id uuid.UUID) (*models.ExchangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *f.ex
	return &cp, nil
}

func (f *fakeExchangeLedger) Accept(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error) {
	return nil, repository.ErrInvalidState
}

func (f *fakeExchangeLedger) Decline(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ex := f.ex
	if ex.ReceiverID != actorID {
		return nil, repository.ErrForbidden
	}
	if ex.Status != models.ExchangeStatusPending && ex.Status != models.ExchangeStatusAccepted {
		return nil, repository.ErrInvalidState
	}

	sender := f.balances[ex.SenderID]
	sender.Available += ex.Price
	sender.Held -= ex.Price
	ex.Status = models.ExchangeStatusDeclined
	f.refunds++

	cp := *ex
	return &cp, nil
}

func (f *fakeExchangeLedger) Confirm(ctx context.Context, id, actorID uuid.UUID) (*models.ExchangeRequest, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ex := f.ex
	if !ex.IsParty(actorID) {
		return nil, false, repository.ErrForbidden
	}
	if ex.Status == models.ExchangeStatusDeclined {
		return nil, false, repository.ErrInvalidState
	}

	if actorID == ex.SenderID {
		ex.SenderConfirmed = true
	} else {
		ex.ReceiverConfirmed = true
	}

	if !models.ReadyToComplete(ex.Status, ex.SenderConfirmed, ex.ReceiverConfirmed) {
		cp := *ex
		return &cp, false, nil
	}

	sender := f.balances[ex.SenderID]
	receiver := f.balances[ex.ReceiverID]
	res := f.policy.Apply(sender.Available, sender.Held, receiver.Available, ex.Price)
	sender.Available, sender.Held = res.SenderAvailable, res.SenderHeld
	receiver.Available = res.ReceiverAvailable
	ex.Status = models.ExchangeStatusCompleted
	f.settles++

	cp := *ex
	return &cp, true, nil
}

func (f *fakeExchangeLedger) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ExchangeRequest, error) {
	return nil, nil
}

func (f *fakeExchangeLedger) ListIncoming(ctx context.Context, receiverID uuid.UUID) ([]models.ExchangeRequest, error) {
	return nil, nil
}

func TestExchangeService_ConcurrentConfirm_SettlesOnce(t *testing.T) {
	senderID := uuid.New()
	receiverID := uuid.New()

	fake := &fakeExchangeLedger{
		ex: &models.ExchangeRequest{
			ID:         uuid.New(),
			SenderID:   senderID,
			ReceiverID: receiverID,
			Status:     models.ExchangeStatusAccepted,
			Price:      5,
		},
		policy: models.SettlementPolicy{Bonus: 10},
		balances: map[uuid.UUID]*models.UserBalance{
			senderID:   {UserID: senderID, Available: 15, Held: 5},
			receiverID: {UserID: receiverID, Available: 0, Held: 0},
		},
	}

	svc := NewExchangeService(fake, nil, nil)
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	completions := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		actor := senderID
		if i%2 == 0 {
			actor = receiverID
		}
		wg.Add(1)
		go func(actorID uuid.UUID) {
			defer wg.Done()
			_, done, err := svc.Confirm(ctx, fake.ex.ID, actorID)
			if err == nil && done {
				completions <- true
			}
		}(actor)
	}
	wg.Wait()
	close(completions)

	gotCompletions := 0
	for range completions {
		gotCompletions++
	}

	assert.Equal(t, 1, gotCompletions, "расчёт должен пройти ровно один раз")
	assert.Equal(t, 1, fake.settles)

	// Итоговые балансы из справочного сценария: у отправителя списываются
	// 5 замороженных и начисляется бонус 10, получатель получает 5 + 10.
	assert.Equal(t, 20, fake.balances[senderID].Available)
	assert.Equal(t, 0, fake.balances[senderID].Held)
	assert.Equal(t, 15, fake.balances[receiverID].Available)
}

// newDeclineFake собирает обмен в состоянии после создания: 5 баллов
// отправителя уже заморожены (до hold было 20/0).
func newDeclineFake() (*fakeExchangeLedger, uuid.UUID, uuid.UUID) {
	senderID := uuid.New()
	receiverID := uuid.New()
	fake := &fakeExchangeLedger{
		ex: &models.ExchangeRequest{
			ID:         uuid.New(),
			SenderID:   senderID,
			ReceiverID: receiverID,
			Status:     models.ExchangeStatusPending,
			Price:      5,
		},
		policy: models.SettlementPolicy{Bonus: 10},
		balances: map[uuid.UUID]*models.UserBalance{
			senderID:   {UserID: senderID, Available: 15, Held: 5},
			receiverID: {UserID: receiverID, Available: 0, Held: 0},
		},
	}
	return fake, senderID, receiverID
}

func TestExchangeService_Decline_RefundsHold(t *testing.T) {
	fake, senderID, receiverID := newDeclineFake()
	svc := NewExchangeService(fake, nil, nil)
	ctx := context.Background()

	ex, err := svc.Decline(ctx, fake.ex.ID, receiverID)
	require.NoError(t, err)
	assert.Equal(t, models.ExchangeStatusDeclined, ex.Status)

	// Возврат восстанавливает баланс отправителя ровно до значения до hold
	assert.Equal(t, 20, fake.balances[senderID].Available)
	assert.Equal(t, 0, fake.balances[senderID].Held)
	assert.Equal(t, 1, fake.refunds)
}

func TestExchangeService_Decline_SecondDeclineInvalidState(t *testing.T) {
	fake, senderID, receiverID := newDeclineFake()
	svc := NewExchangeService(fake, nil, nil)
	ctx := context.Background()

	_, err := svc.Decline(ctx, fake.ex.ID, receiverID)
	require.NoError(t, err)

	_, err = svc.Decline(ctx, fake.ex.ID, receiverID)
	assert.ErrorIs(t, err, repository.ErrInvalidState)

	// Повторный decline не трогает балансы: возврат прошёл ровно один раз
	assert.Equal(t, 20, fake.balances[senderID].Available)
	assert.Equal(t, 0, fake.balances[senderID].Held)
	assert.Equal(t, 1, fake.refunds)
}

func TestExchangeService_ConcurrentDecline_RefundsOnce(t *testing.T) {
	fake, senderID, receiverID := newDeclineFake()
	svc := NewExchangeService(fake, nil, nil)
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	declines := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Decline(ctx, fake.ex.ID, receiverID); err == nil {
				declines <- true
			}
		}()
	}
	wg.Wait()
	close(declines)

	gotDeclines := 0
	for range declines {
		gotDeclines++
	}

	assert.Equal(t, 1, gotDeclines, "возврат должен пройти ровно один раз")
	assert.Equal(t, 1, fake.refunds)
	assert.Equal(t, 20, fake.balances[senderID].Available)
	assert.Equal(t, 0, fake.balances[senderID].Held)
}
