package registration

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/technohack/backend/internal/models"
	"github.com/technohack/backend/internal/storage"
)

// fakeStore enforces the same (user_id, event_id) uniqueness the postgres
// index provides, guarded by a mutex so concurrent admissions race for real.
type fakeStore struct {
	mu     sync.Mutex
	events map[string]*models.Event // by slug
	regs   map[string]*models.Registration
	pairs  map[[2]string]string // (userID, eventID) -> registration id
}

func newFakeStore(events ...*models.Event) *fakeStore {
	f := &fakeStore{
		events: map[string]*models.Event{},
		regs:   map[string]*models.Registration{},
		pairs:  map[[2]string]string{},
	}
	for _, e := range events {
		f.events[e.Slug] = e
	}
	return f
}

func (f *fakeStore) GetEventBySlug(_ context.Context, slug string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[slug]
	if !ok {
		return nil, storage.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeStore) GetRegistrationForPair(_ context.Context, userID, eventID string) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.pairs[[2]string{userID, eventID}]
	if !ok {
		return nil, storage.ErrRegistrationNotFound
	}
	return f.regs[id], nil
}

func (f *fakeStore) CreateRegistration(_ context.Context, reg *models.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]string{reg.UserID, reg.EventID}
	if _, ok := f.pairs[key]; ok {
		return storage.ErrAlreadyRegistered
	}
	if reg.ID == "" {
		reg.ID = uuid.New().String()
	}
	f.pairs[key] = reg.ID
	f.regs[reg.ID] = reg
	return nil
}

func (f *fakeStore) GetRegistration(_ context.Context, registrationID string) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[registrationID]
	if !ok {
		return nil, storage.ErrRegistrationNotFound
	}
	return reg, nil
}

func (f *fakeStore) SetRegistrationStatus(_ context.Context, registrationID string, status models.RegistrationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[registrationID]
	if !ok {
		return storage.ErrRegistrationNotFound
	}
	reg.Status = status
	return nil
}

func (f *fakeStore) UpdatePayment(_ context.Context, registrationID string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.regs[registrationID]
	if !ok {
		return storage.ErrRegistrationNotFound
	}
	if v, ok := fields["payment_status"]; ok {
		reg.PaymentStatus = v.(models.PaymentStatus)
	}
	if v, ok := fields["payment_mode"]; ok {
		reg.PaymentMode = v.(models.PaymentMode)
	}
	if v, ok := fields["amount_paid"]; ok {
		reg.AmountPaid = v.(int)
	}
	if v, ok := fields["transaction_ref"]; ok {
		reg.TransactionRef = v.(string)
	}
	if v, ok := fields["cash_code"]; ok {
		reg.CashCode = v.(string)
	}
	return nil
}

type countingNotifier struct {
	mu            sync.Mutex
	registrations int
	payments      int
}

func (n *countingNotifier) RegistrationCreated(*models.User, *models.Event, *models.Registration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.registrations++
}

func (n *countingNotifier) PaymentUpdated(*models.Registration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payments++
}

func soloEvent() *models.Event {
	return &models.Event{
		ID:        uuid.New().String(),
		Slug:      "websprint",
		Title:     "WebSprint",
		TeamSize:  1,
		Price:     50,
		Published: true,
	}
}

func teamEvent() *models.Event {
	return &models.Event{
		ID:        uuid.New().String(),
		Slug:      "hacknight",
		Title:     "HackNight",
		TeamSize:  4,
		Price:     200,
		Published: true,
	}
}

func TestAdmit(t *testing.T) {
	store := newFakeStore(soloEvent())
	svc := NewService(store, &countingNotifier{})
	user := &models.User{ID: "u1"}

	reg, err := svc.Admit(context.Background(), user, "websprint", TeamInfo{})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusConfirmed, reg.Status)
	assert.Equal(t, models.PaymentStatusPending, reg.PaymentStatus)
	assert.Equal(t, 50, reg.AmountDue)

	// Same pair again: distinct, expected outcome, count stays 1.
	_, err = svc.Admit(context.Background(), user, "websprint", TeamInfo{})
	assert.ErrorIs(t, err, storage.ErrAlreadyRegistered)
	assert.Len(t, store.regs, 1)
}

func TestAdmitUnknownEvent(t *testing.T) {
	svc := NewService(newFakeStore(), &countingNotifier{})

	_, err := svc.Admit(context.Background(), &models.User{ID: "u1"}, "nope", TeamInfo{})
	assert.ErrorIs(t, err, storage.ErrEventNotFound)
}

func TestAdmitUnpublishedEvent(t *testing.T) {
	event := soloEvent()
	event.Published = false
	svc := NewService(newFakeStore(event), &countingNotifier{})

	_, err := svc.Admit(context.Background(), &models.User{ID: "u1"}, event.Slug, TeamInfo{})
	assert.ErrorIs(t, err, storage.ErrEventNotFound)
}

func TestAdmitTeamCapture(t *testing.T) {
	store := newFakeStore(soloEvent(), teamEvent())
	svc := NewService(store, &countingNotifier{})
	team := TeamInfo{
		Name: "Alpha, Beta",
		Members: []models.TeamMember{
			{Name: "M1", Email: "m1@example.org", Phone: "123"},
		},
	}

	reg, err := svc.Admit(context.Background(), &models.User{ID: "u1"}, "hacknight", team)
	require.NoError(t, err)
	assert.Equal(t, "Alpha, Beta", reg.TeamName)
	assert.Len(t, reg.TeamMembers, 1)

	// Solo events ignore submitted team info.
	reg, err = svc.Admit(context.Background(), &models.User{ID: "u1"}, "websprint", team)
	require.NoError(t, err)
	assert.Empty(t, reg.TeamName)
	assert.Empty(t, reg.TeamMembers)
}

func TestAdmitConcurrentExactlyOnce(t *testing.T) {
	store := newFakeStore(soloEvent())
	notifier := &countingNotifier{}
	svc := NewService(store, notifier)
	user := &models.User{ID: "u1"}

	const n = 16
	results := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Admit(context.Background(), user, "websprint", TeamInfo{})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded, duplicates := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, storage.ErrAlreadyRegistered):
			duplicates++
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, duplicates)
	assert.Len(t, store.regs, 1)
	assert.Equal(t, 1, notifier.registrations)
}

func TestCancel(t *testing.T) {
	store := newFakeStore(soloEvent())
	svc := NewService(store, &countingNotifier{})
	owner := &models.User{ID: "u1"}

	reg, err := svc.Admit(context.Background(), owner, "websprint", TeamInfo{})
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), &models.User{ID: "u2"}, reg.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.Cancel(context.Background(), owner, reg.ID))
	got, err := store.GetRegistration(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusCancelled, got.Status)
}

func TestSetPaymentStatusFreedom(t *testing.T) {
	store := newFakeStore(soloEvent())
	notifier := &countingNotifier{}
	svc := NewService(store, notifier)

	reg, err := svc.Admit(context.Background(), &models.User{ID: "u1"}, "websprint", TeamInfo{})
	require.NoError(t, err)

	// Any state reaches any other, including back to pending.
	all := []models.PaymentStatus{
		models.PaymentStatusCompleted,
		models.PaymentStatusFailed,
		models.PaymentStatusPending,
		models.PaymentStatusCompleted,
	}
	for _, status := range all {
		updated, err := svc.SetPaymentStatus(context.Background(), reg.ID, PaymentUpdate{Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, updated.PaymentStatus)
	}
	assert.Equal(t, len(all), notifier.payments)

	// Status does not cascade to the registration status.
	got, err := store.GetRegistration(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationStatusConfirmed, got.Status)
}

func TestSetPaymentDetails(t *testing.T) {
	store := newFakeStore(soloEvent())
	svc := NewService(store, &countingNotifier{})

	reg, err := svc.Admit(context.Background(), &models.User{ID: "u1"}, "websprint", TeamInfo{})
	require.NoError(t, err)

	paid := 50
	updated, err := svc.SetPaymentStatus(context.Background(), reg.ID, PaymentUpdate{
		Status:         models.PaymentStatusCompleted,
		Mode:           models.PaymentModeUPI,
		AmountPaid:     &paid,
		TransactionRef: "TXN42",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentModeUPI, updated.PaymentMode)
	assert.Equal(t, 50, updated.AmountPaid)
	assert.Equal(t, "TXN42", updated.TransactionRef)
}

func TestSetPaymentStatusValidation(t *testing.T) {
	svc := NewService(newFakeStore(), &countingNotifier{})

	_, err := svc.SetPaymentStatus(context.Background(), "r1", PaymentUpdate{Status: "refunded"})
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)

	_, err = svc.SetPaymentStatus(context.Background(), "r1", PaymentUpdate{
		Status: models.PaymentStatusCompleted,
		Mode:   "card",
	})
	assert.ErrorIs(t, err, ErrInvalidPaymentMode)

	_, err = svc.SetPaymentStatus(context.Background(), "missing", PaymentUpdate{Status: models.PaymentStatusCompleted})
	assert.ErrorIs(t, err, storage.ErrRegistrationNotFound)
}
