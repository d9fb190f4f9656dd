package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/paras1506/CSR-Health-Group/internal/auth"
	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
	"github.com/paras1506/CSR-Health-Group/internal/model"
	"github.com/paras1506/CSR-Health-Group/internal/notify"
	"github.com/paras1506/CSR-Health-Group/internal/repository"
)

// CreateRequestInput carries the fields an appealer supplies for a new
// request. The owner is never part of the input; it always comes from the
// caller's claims.
type CreateRequestInput struct {
	OrganisationName string
	InstitutionType  string
	VillageName      string
	Taluka           string
	District         string
	SolarDemand      decimal.Decimal
	Capacity         decimal.Decimal
	DepartmentID     uuid.UUID
}

// DonorContact is a donor's live profile joined from the users table at read
// time. It can diverge from the snapshot captured when the pledge was made.
type DonorContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// DonorReportEntry pairs the pledge-time snapshot with the live profile.
type DonorReportEntry struct {
	DonorID  uuid.UUID         `json:"donorId"`
	Snapshot model.DonorPledge `json:"snapshot"`
	Current  *DonorContact     `json:"current,omitempty"` // nil when the account no longer resolves
}

// DepartmentDonorReport lists the donors interested in one request of the
// caller's department.
type DepartmentDonorReport struct {
	RequestID        uuid.UUID          `json:"requestId"`
	OrganisationName string             `json:"organisationName"`
	Donors           []DonorReportEntry `json:"donors"`
}

// RequestService mutates the request ledger.
type RequestService interface {
	Create(ctx context.Context, claims *auth.Claims, input CreateRequestInput) (*model.SolarRequest, error)
	DonorInterest(ctx context.Context, claims *auth.Claims, requestID uuid.UUID, donatedFor string) error
	UpdateFulfillment(ctx context.Context, requestID uuid.UUID, percentage float64) error
	InterestedDonors(ctx context.Context, claims *auth.Claims) ([]DepartmentDonorReport, error)
}

type requestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	notifier    notify.Notifier
}

// NewRequestService creates a new request ledger service.
func NewRequestService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	notifier notify.Notifier,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// Create persists a new request owned by the calling appealer. The role gate
// lives in the routing layer; the verification gate lives here because it is
// state the middleware cannot see.
func (s *requestService) Create(ctx context.Context, claims *auth.Claims, input CreateRequestInput) (*model.SolarRequest, error) {
	if !claims.IsVerified {
		return nil, apperrors.ErrNotVerified
	}

	request := &model.SolarRequest{
		OrganisationName: input.OrganisationName,
		InstitutionType:  input.InstitutionType,
		VillageName:      input.VillageName,
		Taluka:           input.Taluka,
		District:         input.District,
		SolarDemand:      input.SolarDemand,
		Capacity:         input.Capacity,
		DepartmentID:     input.DepartmentID,
		UserID:           claims.UserID,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return request, nil
}

// DonorInterest appends the caller as an interested donor. The pledge is built
// from the caller's claims, never from client-supplied fields, and re-pledging
// is a silent success.
func (s *requestService) DonorInterest(ctx context.Context, claims *auth.Claims, requestID uuid.UUID, donatedFor string) error {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRequestNotFound
		}
		return fmt.Errorf("find request: %w", err)
	}

	pledge := &model.DonorPledge{
		RequestID:  request.ID,
		DonorID:    claims.UserID,
		Name:       claims.Name,
		Email:      claims.Email,
		Phone:      claims.Phone,
		DonatedFor: donatedFor,
	}

	if err := s.requestRepo.AddDonor(ctx, pledge); err != nil {
		return fmt.Errorf("add donor: %w", err)
	}

	body := fmt.Sprintf("Thank you for your interest in supporting %s.", request.OrganisationName)
	if err := s.notifier.Notify(ctx, claims.Email, "Interest recorded", body); err != nil {
		log.Printf("pledge confirmation to %s failed: %v", claims.Email, err)
	}
	return nil
}

// UpdateFulfillment overwrites the fulfillment percentage verbatim for an
// existing request. Values outside [0,100] pass through untouched.
func (s *requestService) UpdateFulfillment(ctx context.Context, requestID uuid.UUID, percentage float64) error {
	if _, err := s.requestRepo.FindByID(ctx, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRequestNotFound
		}
		return fmt.Errorf("find request: %w", err)
	}

	if err := s.requestRepo.UpdateFulfillment(ctx, requestID, percentage); err != nil {
		return fmt.Errorf("update fulfillment: %w", err)
	}
	return nil
}

// InterestedDonors returns, for every request in the caller's department, the
// pledge snapshots together with each donor's current profile.
func (s *requestService) InterestedDonors(ctx context.Context, claims *auth.Claims) ([]DepartmentDonorReport, error) {
	if claims.DepartmentID == nil {
		return nil, apperrors.ErrForbidden
	}

	requests, err := s.requestRepo.ListByDepartmentWithDonors(ctx, *claims.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("list department requests: %w", err)
	}

	donorIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]struct{})
	for _, req := range requests {
		for _, pledge := range req.Donors {
			if _, ok := seen[pledge.DonorID]; !ok {
				seen[pledge.DonorID] = struct{}{}
				donorIDs = append(donorIDs, pledge.DonorID)
			}
		}
	}

	donors, err := s.userRepo.FindByIDs(ctx, donorIDs)
	if err != nil {
		return nil, fmt.Errorf("load donor profiles: %w", err)
	}
	profiles := make(map[uuid.UUID]*DonorContact, len(donors))
	for i := range donors {
		d := donors[i]
		profiles[d.ID] = &DonorContact{Name: d.FullName(), Email: d.Email, Phone: d.Phone}
	}

	reports := make([]DepartmentDonorReport, 0, len(requests))
	for _, req := range requests {
		report := DepartmentDonorReport{
			RequestID:        req.ID,
			OrganisationName: req.OrganisationName,
			Donors:           make([]DonorReportEntry, 0, len(req.Donors)),
		}
		for _, pledge := range req.Donors {
			report.Donors = append(report.Donors, DonorReportEntry{
				DonorID:  pledge.DonorID,
				Snapshot: pledge,
				Current:  profiles[pledge.DonorID],
			})
		}
		reports = append(reports, report)
	}
	return reports, nil
}
