package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/paras1506/CSR-Health-Group/internal/model"
)

// ListFilter narrows a request listing. Zero-valued fields are ignored; set
// fields combine with AND.
type ListFilter struct {
	Taluka          string
	InstitutionType string
	Village         string // case-insensitive substring
}

// RequestRepository defines solar request persistence operations.
type RequestRepository interface {
	Create(ctx context.Context, request *model.SolarRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SolarRequest, error)
	AddDonor(ctx context.Context, pledge *model.DonorPledge) error
	UpdateFulfillment(ctx context.Context, id uuid.UUID, percentage float64) error
	List(ctx context.Context, filter ListFilter, offset, limit int) ([]model.SolarRequest, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	DistinctTalukas(ctx context.Context) ([]string, error)
	DistinctInstitutionTypes(ctx context.Context) ([]string, error)
	SearchVillages(ctx context.Context, query string, limit int) ([]string, error)
	ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]model.SolarRequest, error)
	ListByDepartmentWithDonors(ctx context.Context, departmentID uuid.UUID) ([]model.SolarRequest, error)
}

type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository builds a GORM-backed repository.
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *model.SolarRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SolarRequest, error) {
	var request model.SolarRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// AddDonor appends a pledge with set semantics: the composite unique index on
// (request_id, donor_id) plus the conflict clause make a re-pledge by the same
// donor a single atomic no-op statement, which keeps concurrent pledges safe.
func (r *requestRepository) AddDonor(ctx context.Context, pledge *model.DonorPledge) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(pledge).Error
}

// UpdateFulfillment overwrites the stored percentage verbatim. Range checks
// are intentionally absent; the value is operator-entered.
func (r *requestRepository) UpdateFulfillment(ctx context.Context, id uuid.UUID, percentage float64) error {
	return r.db.WithContext(ctx).Model(&model.SolarRequest{}).
		Where("id = ?", id).
		Update("fulfillment_percentage", percentage).Error
}

func (r *requestRepository) applyFilter(q *gorm.DB, filter ListFilter) *gorm.DB {
	if filter.Taluka != "" {
		q = q.Where("taluka = ?", filter.Taluka)
	}
	if filter.InstitutionType != "" {
		q = q.Where("institution_type = ?", filter.InstitutionType)
	}
	if filter.Village != "" {
		q = q.Where("LOWER(village_name) LIKE ?", "%"+strings.ToLower(filter.Village)+"%")
	}
	return q
}

// List returns one page of requests, newest first, without the donors
// collection.
func (r *requestRepository) List(ctx context.Context, filter ListFilter, offset, limit int) ([]model.SolarRequest, error) {
	var requests []model.SolarRequest
	q := r.applyFilter(r.db.WithContext(ctx).Model(&model.SolarRequest{}), filter)
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var total int64
	q := r.applyFilter(r.db.WithContext(ctx).Model(&model.SolarRequest{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *requestRepository) DistinctTalukas(ctx context.Context) ([]string, error) {
	var values []string
	if err := r.db.WithContext(ctx).Model(&model.SolarRequest{}).
		Distinct().Pluck("taluka", &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

func (r *requestRepository) DistinctInstitutionTypes(ctx context.Context) ([]string, error) {
	var values []string
	if err := r.db.WithContext(ctx).Model(&model.SolarRequest{}).
		Distinct().Pluck("institution_type", &values).Error; err != nil {
		return nil, err
	}
	return values, nil
}

// SearchVillages returns distinct matching village names ordered by name
// ascending, capped at limit.
func (r *requestRepository) SearchVillages(ctx context.Context, query string, limit int) ([]string, error) {
	var villages []string
	if err := r.db.WithContext(ctx).Model(&model.SolarRequest{}).
		Where("LOWER(village_name) LIKE ?", "%"+strings.ToLower(query)+"%").
		Distinct().
		Order("village_name ASC").
		Limit(limit).
		Pluck("village_name", &villages).Error; err != nil {
		return nil, err
	}
	return villages, nil
}

func (r *requestRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]model.SolarRequest, error) {
	var requests []model.SolarRequest
	if err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) ListByDepartmentWithDonors(ctx context.Context, departmentID uuid.UUID) ([]model.SolarRequest, error) {
	var requests []model.SolarRequest
	if err := r.db.WithContext(ctx).
		Preload("Donors").
		Where("department_id = ?", departmentID).
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
