package service

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
	"github.com/paras1506/CSR-Health-Group/internal/model"
	"github.com/paras1506/CSR-Health-Group/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 15

	maxVillageResults = 10
)

// ListParams selects and pages a request listing. Page and Limit fall back to
// defaults when unset or non-positive.
type ListParams struct {
	Taluka          string
	InstitutionType string
	Village         string
	Page            int
	Limit           int
}

// Pagination describes the page returned and its neighbours.
type Pagination struct {
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
}

// RequestPage is one page of requests plus the faceted-search affordances.
type RequestPage struct {
	Pagination      Pagination           `json:"pagination"`
	Requests        []model.SolarRequest `json:"requests"`
	DistinctTalukas []string             `json:"distinctTalukas"`
	DistinctTypes   []string             `json:"distinctDepartments"`
}

// QueryService serves the read side of the ledger.
type QueryService interface {
	ListRequests(ctx context.Context, params ListParams) (*RequestPage, error)
	SearchVillages(ctx context.Context, query string) ([]string, error)
	FilterByDepartment(ctx context.Context, departmentID uuid.UUID) ([]model.SolarRequest, error)
}

type queryService struct {
	requestRepo repository.RequestRepository
}

// NewQueryService creates a new query service.
func NewQueryService(requestRepo repository.RequestRepository) QueryService {
	return &queryService{requestRepo: requestRepo}
}

// ListRequests returns a filtered page ordered newest first, the donors
// collection omitted, plus the unfiltered facet sets recomputed on every call.
func (s *queryService) ListRequests(ctx context.Context, params ListParams) (*RequestPage, error) {
	page := params.Page
	if page < 1 {
		page = defaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	filter := repository.ListFilter{
		Taluka:          params.Taluka,
		InstitutionType: params.InstitutionType,
		Village:         params.Village,
	}

	total, err := s.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count requests: %w", err)
	}

	requests, err := s.requestRepo.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	talukas, err := s.requestRepo.DistinctTalukas(ctx)
	if err != nil {
		return nil, fmt.Errorf("distinct talukas: %w", err)
	}
	types, err := s.requestRepo.DistinctInstitutionTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("distinct institution types: %w", err)
	}

	return &RequestPage{
		Pagination:      paginate(total, page, limit),
		Requests:        requests,
		DistinctTalukas: talukas,
		DistinctTypes:   types,
	}, nil
}

func paginate(total int64, page, limit int) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	p := Pagination{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && total > 0,
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	return p
}

// SearchVillages returns up to ten distinct village names containing the
// query, matched case-insensitively. Results are ordered by village name
// ascending; the contract only promises a stable order.
func (s *queryService) SearchVillages(ctx context.Context, query string) ([]string, error) {
	if query == "" {
		return nil, apperrors.NewValidation("query")
	}
	villages, err := s.requestRepo.SearchVillages(ctx, query, maxVillageResults)
	if err != nil {
		return nil, fmt.Errorf("search villages: %w", err)
	}
	return villages, nil
}

// FilterByDepartment returns every request assigned to the department, donors
// omitted.
func (s *queryService) FilterByDepartment(ctx context.Context, departmentID uuid.UUID) ([]model.SolarRequest, error) {
	requests, err := s.requestRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("filter by department: %w", err)
	}
	return requests, nil
}
