package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"mavina/internal/domain"
	"mavina/internal/modules/schedule"
	"mavina/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) CreateWithSlot(ctx context.Context, a *domain.Appointment) error {
	args := m.Called(ctx, a)
	if args.Error(0) == nil {
		a.ID = 100
	}
	return args.Error(0)
}

func (m *MockRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *MockRepo) List(ctx context.Context, f domain.AppointmentFilter) ([]domain.Appointment, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepo) Transition(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus, columns ...string) error {
	args := m.Called(ctx, a, from, columns)
	return args.Error(0)
}

func (m *MockRepo) CancelAndRelease(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus) error {
	args := m.Called(ctx, a, from)
	return args.Error(0)
}

func (m *MockRepo) MoveSlot(ctx context.Context, a *domain.Appointment, from domain.AppointmentStatus) error {
	args := m.Called(ctx, a, from)
	return args.Error(0)
}

func (m *MockRepo) ListExpiredAwaitingApproval(ctx context.Context, before time.Time, limit int) ([]domain.Appointment, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

type MockSlots struct {
	mock.Mock
}

func (m *MockSlots) CheckBookable(ctx context.Context, providerID int64, date, clock string) (time.Time, error) {
	args := m.Called(ctx, providerID, date, clock)
	return args.Get(0).(time.Time), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockCatalog) GetService(ctx context.Context, providerID, serviceID int64) (*domain.ServiceOffering, error) {
	args := m.Called(ctx, providerID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceOffering), args.Error(1)
}

type MockVehicles struct {
	mock.Mock
}

func (m *MockVehicles) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

type recordingEvents struct {
	changes []domain.AppointmentStatus
}

func (r *recordingEvents) PublishStatusChange(a *domain.Appointment, _ domain.AppointmentStatus) {
	r.changes = append(r.changes, a.Status)
}

const (
	customerID     int64 = 7
	providerUserID int64 = 20
	providerID     int64 = 3
)

var (
	customer  = Actor{UserID: customerID, Role: domain.RoleCustomer}
	provider  = Actor{UserID: providerUserID, Role: domain.RoleProvider}
	stranger  = Actor{UserID: 99, Role: domain.RoleCustomer}
	slotStart = time.Date(2026, 10, 20, 11, 0, 0, 0, time.UTC)
	testNow   = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	svc      *Service
	repo     *MockRepo
	slots    *MockSlots
	catalog  *MockCatalog
	vehicles *MockVehicles
	events   *recordingEvents
}

func newFixture() *fixture {
	f := &fixture{
		repo:     new(MockRepo),
		slots:    new(MockSlots),
		catalog:  new(MockCatalog),
		vehicles: new(MockVehicles),
		events:   &recordingEvents{},
	}
	f.svc = NewService(Deps{
		Repo:      f.repo,
		Slots:     f.slots,
		Providers: f.catalog,
		Vehicles:  f.vehicles,
		Events:    f.events,
	})
	f.svc.now = func() time.Time { return testNow }
	return f
}

func appointmentIn(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:             1,
		ProviderID:     providerID,
		ProviderUserID: providerUserID,
		CustomerID:     customerID,
		SlotDate:       "2026-10-20",
		SlotTime:       "11:00",
		ScheduledAt:    slotStart,
		Status:         status,
	}
}

func allPhotos() domain.CompletionPhotos {
	return domain.CompletionPhotos{Front: "f.jpg", Back: "b.jpg", Left: "l.jpg", Right: "r.jpg"}
}

func validCreate() CreateAppointmentRequest {
	return CreateAppointmentRequest{
		ProviderID: providerID,
		ServiceID:  5,
		Date:       "2026-10-20",
		Time:       "11:00",
		Address:    " Bağdat Cd. 12, Kadıköy ",
	}
}

func (f *fixture) expectCatalog() {
	f.catalog.On("GetByID", mock.Anything, providerID).
		Return(&domain.Provider{ID: providerID, UserID: providerUserID, BusinessName: "Parlak Oto"}, nil)
	f.catalog.On("GetService", mock.Anything, providerID, int64(5)).
		Return(&domain.ServiceOffering{ID: 5, ProviderID: providerID, Label: "İç-Dış Yıkama", Price: 450}, nil)
}

func TestCreate_Success(t *testing.T) {
	f := newFixture()
	f.expectCatalog()
	f.slots.On("CheckBookable", mock.Anything, providerID, "2026-10-20", "11:00").Return(slotStart, nil)
	f.repo.On("CreateWithSlot", mock.Anything, mock.AnythingOfType("*domain.Appointment")).Return(nil)

	a, err := f.svc.Create(context.Background(), customer, validCreate())
	require.NoError(t, err)

	assert.Equal(t, int64(100), a.ID)
	assert.Equal(t, domain.StatusPendingApproval, a.Status)
	assert.Equal(t, "Bağdat Cd. 12, Kadıköy", a.Address)
	assert.Equal(t, providerUserID, a.ProviderUserID)
	assert.Equal(t, "İç-Dış Yıkama", a.ServiceLabel)
	assert.Equal(t, 450.0, a.Price)
	assert.Equal(t, domain.DefaultCurrency, a.Currency)
	assert.True(t, a.ScheduledAt.Equal(slotStart))
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusPendingApproval}, f.events.changes)
}

func TestCreate_OnlyCustomers(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), provider, validCreate())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreate_AddressRequired(t *testing.T) {
	f := newFixture()
	req := validCreate()
	req.Address = "   "
	_, err := f.svc.Create(context.Background(), customer, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_UnknownProvider(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetByID", mock.Anything, providerID).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Create(context.Background(), customer, validCreate())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_ForeignVehicleRejected(t *testing.T) {
	f := newFixture()
	f.expectCatalog()
	vid := int64(8)
	f.vehicles.On("GetByID", mock.Anything, vid).Return(&domain.Vehicle{ID: vid, CustomerID: 99}, nil)

	req := validCreate()
	req.VehicleID = &vid
	_, err := f.svc.Create(context.Background(), customer, req)
	assert.ErrorIs(t, err, ErrValidation)
	f.repo.AssertNotCalled(t, "CreateWithSlot", mock.Anything, mock.Anything)
}

func TestCreate_ScheduleErrorsMapped(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"booked", schedule.ErrSlotUnavailable, ErrSlotUnavailable},
		{"closed day", schedule.ErrDayClosed, ErrValidation},
		{"off grid", schedule.ErrOutsideHours, ErrValidation},
		{"past", schedule.ErrSlotInPast, ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.expectCatalog()
			f.slots.On("CheckBookable", mock.Anything, providerID, mock.Anything, mock.Anything).Return(time.Time{}, tc.err)

			_, err := f.svc.Create(context.Background(), customer, validCreate())
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreate_LostRaceIsSlotUnavailable(t *testing.T) {
	f := newFixture()
	f.expectCatalog()
	f.slots.On("CheckBookable", mock.Anything, providerID, "2026-10-20", "11:00").Return(slotStart, nil)
	f.repo.On("CreateWithSlot", mock.Anything, mock.Anything).Return(repository.ErrSlotTaken)

	_, err := f.svc.Create(context.Background(), customer, validCreate())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Empty(t, f.events.changes)
}

func TestGet_OnlyParticipants(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusConfirmed), nil)

	_, err := f.svc.Get(context.Background(), customer, 1)
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), provider, 1)
	assert.NoError(t, err)
	_, err = f.svc.Get(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestList_ScopedByRole(t *testing.T) {
	f := newFixture()
	f.repo.On("List", mock.Anything, domain.AppointmentFilter{ProviderUserID: providerUserID, Status: domain.StatusConfirmed, Limit: 20}).
		Return([]domain.Appointment{*appointmentIn(domain.StatusConfirmed)}, int64(1), nil)

	out, err := f.svc.List(context.Background(), provider, "confirmed", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Appointments, 1)

	_, err = f.svc.List(context.Background(), customer, "done", 20, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApprove(t *testing.T) {
	for _, from := range []domain.AppointmentStatus{domain.StatusPendingApproval, domain.StatusRescheduled} {
		t.Run(string(from), func(t *testing.T) {
			f := newFixture()
			f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(from), nil)
			f.repo.On("Transition", mock.Anything, mock.Anything, from, []string(nil)).Return(nil)

			a, err := f.svc.Approve(context.Background(), provider, 1)
			require.NoError(t, err)
			assert.Equal(t, domain.StatusConfirmed, a.Status)
			assert.Equal(t, "Onaylandı", a.StatusLabel)
		})
	}
}

func TestApprove_CustomerForbidden(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Approve(context.Background(), customer, 1)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	for _, st := range []domain.AppointmentStatus{domain.StatusCompleted, domain.StatusCancelled} {
		t.Run(string(st), func(t *testing.T) {
			f := newFixture()
			f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(st), nil)
			ctx := context.Background()

			_, err := f.svc.Approve(ctx, provider, 1)
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			_, err = f.svc.Start(ctx, provider, 1)
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			_, err = f.svc.Complete(ctx, provider, 1, allPhotos())
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			_, err = f.svc.Cancel(ctx, provider, 1, "weather")
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)
			_, err = f.svc.Reschedule(ctx, customer, 1, "2026-10-21", "12:00")
			assert.ErrorIs(t, err, ErrInvalidStatusTransition)

			f.repo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.repo.AssertNotCalled(t, "CancelAndRelease", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestComplete_RequiresFourPhotos(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusInProgress), nil)

	_, err := f.svc.Complete(context.Background(), provider, 1, domain.CompletionPhotos{Front: "f.jpg", Left: "l.jpg"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var photosErr *MissingPhotosError
	require.True(t, errors.As(err, &photosErr))
	assert.Equal(t, []domain.PhotoAngle{domain.PhotoBack, domain.PhotoRight}, photosErr.Missing)
	f.repo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestComplete_Success(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusInProgress), nil)
	f.repo.On("Transition", mock.Anything, mock.Anything, domain.StatusInProgress, []string{"photos", "completed_at"}).Return(nil)

	photos := allPhotos()
	photos.Interior = []string{"i1.jpg"}
	a, err := f.svc.Complete(context.Background(), provider, 1, photos)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, a.Status)
	require.NotNil(t, a.CompletedAt)
	assert.True(t, a.CompletedAt.Equal(testNow))
	assert.Equal(t, []string{"i1.jpg"}, a.Photos.Interior)
}

func TestCancel_ProviderNeedsReason(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusConfirmed), nil)

	_, err := f.svc.Cancel(context.Background(), provider, 1, "  ")
	assert.ErrorIs(t, err, ErrReasonRequired)
	f.repo.AssertNotCalled(t, "CancelAndRelease", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancel_CustomerWithoutReason(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusPendingApproval), nil)
	f.repo.On("CancelAndRelease", mock.Anything, mock.Anything, domain.StatusPendingApproval).Return(nil)

	a, err := f.svc.Cancel(context.Background(), customer, 1, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, a.Status)
	assert.Equal(t, domain.RoleCustomer, a.CancelledBy)
	require.NotNil(t, a.CancelledAt)
}

func TestCancel_InProgressNotCancellable(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusInProgress), nil)

	_, err := f.svc.Cancel(context.Background(), customer, 1, "changed my mind")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestCancel_ConcurrentChange(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusConfirmed), nil)
	f.repo.On("CancelAndRelease", mock.Anything, mock.Anything, domain.StatusConfirmed).Return(repository.ErrStaleStatus)

	_, err := f.svc.Cancel(context.Background(), provider, 1, "vehicle not at address")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Empty(t, f.events.changes)
}

func TestReschedule_RequiresBothFields(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusConfirmed), nil)

	_, err := f.svc.Reschedule(context.Background(), customer, 1, "2026-10-21", "")
	assert.ErrorIs(t, err, ErrRescheduleFields)
	_, err = f.svc.Reschedule(context.Background(), customer, 1, "", "12:00")
	assert.ErrorIs(t, err, ErrRescheduleFields)
}

func TestReschedule_MovesSlot(t *testing.T) {
	f := newFixture()
	newAt := time.Date(2026, 10, 21, 12, 0, 0, 0, time.UTC)
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusConfirmed), nil)
	f.slots.On("CheckBookable", mock.Anything, providerID, "2026-10-21", "12:00").Return(newAt, nil)
	f.repo.On("MoveSlot", mock.Anything, mock.Anything, domain.StatusConfirmed).Return(nil)

	a, err := f.svc.Reschedule(context.Background(), customer, 1, "2026-10-21", "12:00")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRescheduled, a.Status)
	assert.Equal(t, "2026-10-21", a.SlotDate)
	assert.Equal(t, "12:00", a.SlotTime)
	assert.True(t, a.ScheduledAt.Equal(newAt))
}

func TestReschedule_TakenSlot(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusConfirmed), nil)
	f.slots.On("CheckBookable", mock.Anything, providerID, "2026-10-21", "12:00").Return(time.Time{}, schedule.ErrSlotUnavailable)

	_, err := f.svc.Reschedule(context.Background(), customer, 1, "2026-10-21", "12:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReschedule_PendingRequestRejected(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(1)).Return(appointmentIn(domain.StatusPendingApproval), nil)

	_, err := f.svc.Reschedule(context.Background(), customer, 1, "2026-10-21", "12:00")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	f.slots.AssertNotCalled(t, "CheckBookable", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "MoveSlot", mock.Anything, mock.Anything, mock.Anything)
}

func TestReschedule_ProviderForbidden(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Reschedule(context.Background(), provider, 1, "2026-10-21", "12:00")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestExpireStale(t *testing.T) {
	f := newFixture()
	a1 := appointmentIn(domain.StatusPendingApproval)
	a2 := appointmentIn(domain.StatusRescheduled)
	a2.ID = 2
	f.repo.On("ListExpiredAwaitingApproval", mock.Anything, testNow, 50).Return([]domain.Appointment{*a1, *a2}, nil)
	f.repo.On("CancelAndRelease", mock.Anything, mock.MatchedBy(func(a *domain.Appointment) bool { return a.ID == 1 }), domain.StatusPendingApproval).Return(nil)
	f.repo.On("CancelAndRelease", mock.Anything, mock.MatchedBy(func(a *domain.Appointment) bool { return a.ID == 2 }), domain.StatusRescheduled).Return(repository.ErrStaleStatus)

	n, err := f.svc.ExpireStale(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusCancelled}, f.events.changes)
}
