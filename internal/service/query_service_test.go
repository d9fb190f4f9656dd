package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/paras1506/CSR-Health-Group/internal/errors"
	"github.com/paras1506/CSR-Health-Group/internal/model"
	"github.com/paras1506/CSR-Health-Group/internal/repository"
)

func TestQueryService_ListRequests_Pagination(t *testing.T) {
	// 40 matching requests at the default page size of 15 span three pages.
	tests := []struct {
		name         string
		page         int
		wantOffset   int
		wantHasNext  bool
		wantHasPrev  bool
		wantNextPage *int
		wantPrevPage *int
	}{
		{name: "first page", page: 1, wantOffset: 0, wantHasNext: true, wantNextPage: intPtr(2)},
		{name: "middle page", page: 2, wantOffset: 15, wantHasNext: true, wantHasPrev: true, wantNextPage: intPtr(3), wantPrevPage: intPtr(1)},
		{name: "last page", page: 3, wantOffset: 30, wantHasPrev: true, wantPrevPage: intPtr(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRequestRepository)
			mockRepo.On("Count", mock.Anything, repository.ListFilter{}).Return(int64(40), nil)
			mockRepo.On("List", mock.Anything, repository.ListFilter{}, tt.wantOffset, 15).Return([]model.SolarRequest{}, nil)
			mockRepo.On("DistinctTalukas", mock.Anything).Return([]string{"Jat", "Miraj"}, nil)
			mockRepo.On("DistinctInstitutionTypes", mock.Anything).Return([]string{"School", "Hospital"}, nil)

			svc := NewQueryService(mockRepo)

			page, err := svc.ListRequests(context.Background(), ListParams{Page: tt.page, Limit: 15})
			assert.NoError(t, err)

			p := page.Pagination
			assert.Equal(t, int64(40), p.TotalItems)
			assert.Equal(t, 3, p.TotalPages)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.wantHasNext, p.HasNextPage)
			assert.Equal(t, tt.wantHasPrev, p.HasPrevPage)
			assert.Equal(t, tt.wantNextPage, p.NextPage)
			assert.Equal(t, tt.wantPrevPage, p.PrevPage)

			assert.Equal(t, []string{"Jat", "Miraj"}, page.DistinctTalukas)
			assert.Equal(t, []string{"School", "Hospital"}, page.DistinctTypes)

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestQueryService_ListRequests_Defaults(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	mockRepo.On("Count", mock.Anything, repository.ListFilter{}).Return(int64(0), nil)
	// Unset page and limit fall back to page 1 with 15 per page.
	mockRepo.On("List", mock.Anything, repository.ListFilter{}, 0, 15).Return([]model.SolarRequest{}, nil)
	mockRepo.On("DistinctTalukas", mock.Anything).Return([]string{}, nil)
	mockRepo.On("DistinctInstitutionTypes", mock.Anything).Return([]string{}, nil)

	svc := NewQueryService(mockRepo)

	page, err := svc.ListRequests(context.Background(), ListParams{})
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNextPage)
	assert.False(t, page.Pagination.HasPrevPage)
	assert.Nil(t, page.Pagination.NextPage)
	assert.Nil(t, page.Pagination.PrevPage)
	mockRepo.AssertExpectations(t)
}

func TestQueryService_ListRequests_FiltersForwarded(t *testing.T) {
	mockRepo := new(MockRequestRepository)
	filter := repository.ListFilter{Taluka: "Jat", InstitutionType: "School", Village: "jat"}
	mockRepo.On("Count", mock.Anything, filter).Return(int64(1), nil)
	mockRepo.On("List", mock.Anything, filter, 0, 15).Return([]model.SolarRequest{{Taluka: "Jat"}}, nil)
	mockRepo.On("DistinctTalukas", mock.Anything).Return([]string{"Jat"}, nil)
	mockRepo.On("DistinctInstitutionTypes", mock.Anything).Return([]string{"School"}, nil)

	svc := NewQueryService(mockRepo)

	page, err := svc.ListRequests(context.Background(), ListParams{
		Taluka:          "Jat",
		InstitutionType: "School",
		Village:         "jat",
	})
	assert.NoError(t, err)
	assert.Len(t, page.Requests, 1)
	mockRepo.AssertExpectations(t)
}

func TestQueryService_SearchVillages(t *testing.T) {
	t.Run("empty query is rejected", func(t *testing.T) {
		svc := NewQueryService(new(MockRequestRepository))

		villages, err := svc.SearchVillages(context.Background(), "")
		assert.Nil(t, villages)

		var ve *apperrors.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("matches are deduplicated and capped at ten", func(t *testing.T) {
		mockRepo := new(MockRequestRepository)
		mockRepo.On("SearchVillages", mock.Anything, "jat", 10).Return([]string{"Jat Road", "Jatwad"}, nil)

		svc := NewQueryService(mockRepo)

		villages, err := svc.SearchVillages(context.Background(), "jat")
		assert.NoError(t, err)
		assert.Equal(t, []string{"Jat Road", "Jatwad"}, villages)
		mockRepo.AssertExpectations(t)
	})
}

func TestQueryService_FilterByDepartment(t *testing.T) {
	deptID := uuid.New()

	mockRepo := new(MockRequestRepository)
	mockRepo.On("ListByDepartment", mock.Anything, deptID).Return([]model.SolarRequest{
		{DepartmentID: deptID, OrganisationName: "Zilla Parishad School"},
	}, nil)

	svc := NewQueryService(mockRepo)

	requests, err := svc.FilterByDepartment(context.Background(), deptID)
	assert.NoError(t, err)
	assert.Len(t, requests, 1)
	assert.Empty(t, requests[0].Donors)
	mockRepo.AssertExpectations(t)
}

func intPtr(v int) *int {
	return &v
}
