package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/paras1506/CSR-Health-Group/internal/auth"
	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
	"github.com/paras1506/CSR-Health-Group/internal/model"
	"github.com/paras1506/CSR-Health-Group/internal/repository"
)

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, request *model.SolarRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SolarRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SolarRequest), args.Error(1)
}

func (m *MockRequestRepository) AddDonor(ctx context.Context, pledge *model.DonorPledge) error {
	args := m.Called(ctx, pledge)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateFulfillment(ctx context.Context, id uuid.UUID, percentage float64) error {
	args := m.Called(ctx, id, percentage)
	return args.Error(0)
}

func (m *MockRequestRepository) List(ctx context.Context, filter repository.ListFilter, offset, limit int) ([]model.SolarRequest, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SolarRequest), args.Error(1)
}

func (m *MockRequestRepository) Count(ctx context.Context, filter repository.ListFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRequestRepository) DistinctTalukas(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRequestRepository) DistinctInstitutionTypes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRequestRepository) SearchVillages(ctx context.Context, query string, limit int) ([]string, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRequestRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]model.SolarRequest, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SolarRequest), args.Error(1)
}

func (m *MockRequestRepository) ListByDepartmentWithDonors(ctx context.Context, departmentID uuid.UUID) ([]model.SolarRequest, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SolarRequest), args.Error(1)
}

func appealerClaims(verified bool) *auth.Claims {
	return &auth.Claims{
		UserID:     uuid.New(),
		Role:       model.RoleAppealer,
		Name:       "Asha Patil",
		Email:      "asha@example.com",
		IsVerified: verified,
	}
}

func TestRequestService_Create(t *testing.T) {
	input := CreateRequestInput{
		OrganisationName: "Zilla Parishad School",
		InstitutionType:  "School",
		VillageName:      "Jatwad",
		Taluka:           "Jat",
		District:         "Sangli",
		SolarDemand:      decimal.NewFromInt(500),
		DepartmentID:     uuid.New(),
	}

	t.Run("unverified appealer is rejected without persistence", func(t *testing.T) {
		mockRepo := new(MockRequestRepository)
		svc := NewRequestService(mockRepo, new(MockUserRepository), new(MockNotifier))

		request, err := svc.Create(context.Background(), appealerClaims(false), input)
		assert.ErrorIs(t, err, apperrors.ErrNotVerified)
		assert.Nil(t, request)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("owner comes from the caller's claims", func(t *testing.T) {
		mockRepo := new(MockRequestRepository)
		claims := appealerClaims(true)
		mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *model.SolarRequest) bool {
			return r.UserID == claims.UserID
		})).Return(nil)

		svc := NewRequestService(mockRepo, new(MockUserRepository), new(MockNotifier))

		request, err := svc.Create(context.Background(), claims, input)
		assert.NoError(t, err)
		assert.Equal(t, claims.UserID, request.UserID)
		assert.Equal(t, "Jatwad", request.VillageName)
		mockRepo.AssertExpectations(t)
	})
}

func TestRequestService_DonorInterest(t *testing.T) {
	requestID := uuid.New()
	donorClaims := &auth.Claims{
		UserID: uuid.New(),
		Role:   model.RoleDonor,
		Name:   "Ravi Kulkarni",
		Email:  "ravi@example.com",
		Phone:  "9876543210",
	}

	t.Run("unknown request", func(t *testing.T) {
		mockRepo := new(MockRequestRepository)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewRequestService(mockRepo, new(MockUserRepository), new(MockNotifier))

		err := svc.DonorInterest(context.Background(), donorClaims, requestID, "")
		assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
	})

	t.Run("pledge is built from the caller's claims", func(t *testing.T) {
		mockRepo := new(MockRequestRepository)
		mockNotifier := new(MockNotifier)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(&model.SolarRequest{
			ID:               requestID,
			OrganisationName: "Zilla Parishad School",
		}, nil)
		mockRepo.On("AddDonor", mock.Anything, mock.MatchedBy(func(p *model.DonorPledge) bool {
			return p.RequestID == requestID &&
				p.DonorID == donorClaims.UserID &&
				p.Name == "Ravi Kulkarni" &&
				p.Email == "ravi@example.com" &&
				p.Phone == "9876543210"
		})).Return(nil)
		mockNotifier.On("Notify", mock.Anything, "ravi@example.com", "Interest recorded", mock.Anything).Return(nil)

		svc := NewRequestService(mockRepo, new(MockUserRepository), mockNotifier)

		err := svc.DonorInterest(context.Background(), donorClaims, requestID, "")
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
	})

	t.Run("notifier failure does not fail the pledge", func(t *testing.T) {
		mockRepo := new(MockRequestRepository)
		mockNotifier := new(MockNotifier)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(&model.SolarRequest{ID: requestID}, nil)
		mockRepo.On("AddDonor", mock.Anything, mock.Anything).Return(nil)
		mockNotifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		svc := NewRequestService(mockRepo, new(MockUserRepository), mockNotifier)

		err := svc.DonorInterest(context.Background(), donorClaims, requestID, "")
		assert.NoError(t, err)
	})
}

func TestRequestService_UpdateFulfillment(t *testing.T) {
	requestID := uuid.New()

	// Out-of-range values pass through verbatim; the ledger applies no clamp.
	for _, percentage := range []float64{-5, 0, 42.5, 100, 150} {
		mockRepo := new(MockRequestRepository)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(&model.SolarRequest{ID: requestID}, nil)
		mockRepo.On("UpdateFulfillment", mock.Anything, requestID, percentage).Return(nil)

		svc := NewRequestService(mockRepo, new(MockUserRepository), new(MockNotifier))

		err := svc.UpdateFulfillment(context.Background(), requestID, percentage)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	}

	t.Run("unknown request", func(t *testing.T) {
		mockRepo := new(MockRequestRepository)
		mockRepo.On("FindByID", mock.Anything, requestID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewRequestService(mockRepo, new(MockUserRepository), new(MockNotifier))

		err := svc.UpdateFulfillment(context.Background(), requestID, 50)
		assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
		mockRepo.AssertNotCalled(t, "UpdateFulfillment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRequestService_InterestedDonors(t *testing.T) {
	deptID := uuid.New()
	donorID := uuid.New()

	t.Run("caller without a department is forbidden", func(t *testing.T) {
		svc := NewRequestService(new(MockRequestRepository), new(MockUserRepository), new(MockNotifier))

		reports, err := svc.InterestedDonors(context.Background(), &auth.Claims{Role: model.RoleDonor})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.Nil(t, reports)
	})

	t.Run("snapshot and live profile are both returned", func(t *testing.T) {
		mockRepo := new(MockRequestRepository)
		mockUserRepo := new(MockUserRepository)

		requestID := uuid.New()
		mockRepo.On("ListByDepartmentWithDonors", mock.Anything, deptID).Return([]model.SolarRequest{
			{
				ID:               requestID,
				OrganisationName: "Primary Health Centre",
				DepartmentID:     deptID,
				Donors: []model.DonorPledge{
					{
						RequestID: requestID,
						DonorID:   donorID,
						Name:      "Ravi Kulkarni",
						Email:     "old@example.com", // snapshot from pledge time
					},
				},
			},
		}, nil)
		// The live profile has moved on since the pledge.
		mockUserRepo.On("FindByIDs", mock.Anything, []uuid.UUID{donorID}).Return([]model.User{
			{ID: donorID, FirstName: "Ravi", LastName: "Kulkarni", Email: "new@example.com"},
		}, nil)

		svc := NewRequestService(mockRepo, mockUserRepo, new(MockNotifier))

		headClaims := &auth.Claims{
			UserID:       uuid.New(),
			Role:         model.RoleHeadOfDepartment,
			DepartmentID: &deptID,
		}
		reports, err := svc.InterestedDonors(context.Background(), headClaims)
		assert.NoError(t, err)
		assert.Len(t, reports, 1)
		assert.Equal(t, "Primary Health Centre", reports[0].OrganisationName)
		assert.Len(t, reports[0].Donors, 1)

		entry := reports[0].Donors[0]
		assert.Equal(t, "old@example.com", entry.Snapshot.Email)
		if assert.NotNil(t, entry.Current) {
			assert.Equal(t, "new@example.com", entry.Current.Email)
		}
	})
}

// fakeRequestRepo is a thread-safe in-memory repository honoring the same
// set-insert contract as the SQL implementation. It backs the concurrency
// test below.
type fakeRequestRepo struct {
	MockRequestRepository

	mu      sync.Mutex
	request model.SolarRequest
	pledges map[uuid.UUID]model.DonorPledge
}

func newFakeRequestRepo(request model.SolarRequest) *fakeRequestRepo {
	return &fakeRequestRepo{
		request: request,
		pledges: make(map[uuid.UUID]model.DonorPledge),
	}
}

func (f *fakeRequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SolarRequest, error) {
	if id != f.request.ID {
		return nil, gorm.ErrRecordNotFound
	}
	req := f.request
	return &req, nil
}

func (f *fakeRequestRepo) AddDonor(ctx context.Context, pledge *model.DonorPledge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.pledges[pledge.DonorID]; exists {
		return nil // silent no-op, matching the unique-index contract
	}
	f.pledges[pledge.DonorID] = *pledge
	return nil
}

func TestRequestService_ConcurrentPledgesDeduplicate(t *testing.T) {
	requestID := uuid.New()
	repo := newFakeRequestRepo(model.SolarRequest{ID: requestID})

	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewRequestService(repo, new(MockUserRepository), notifier)

	donor1 := &auth.Claims{UserID: uuid.New(), Role: model.RoleDonor, Name: "Donor One", Email: "one@example.com"}
	donor2 := &auth.Claims{UserID: uuid.New(), Role: model.RoleDonor, Name: "Donor Two", Email: "two@example.com"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		claims := donor1
		if i%2 == 1 {
			claims = donor2
		}
		wg.Add(1)
		go func(c *auth.Claims) {
			defer wg.Done()
			assert.NoError(t, svc.DonorInterest(context.Background(), c, requestID, ""))
		}(claims)
	}
	wg.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Len(t, repo.pledges, 2)
	assert.Contains(t, repo.pledges, donor1.UserID)
	assert.Contains(t, repo.pledges, donor2.UserID)
}
