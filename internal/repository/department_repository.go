package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/paras1506/CSR-Health-Group/internal/model"
)

// DepartmentRepository defines department persistence operations.
type DepartmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Department, error)
	FirstOrCreateByName(ctx context.Context, name string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
}

type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository builds a GORM-backed repository.
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	var dept model.Department
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) FirstOrCreateByName(ctx context.Context, name string) (*model.Department, error) {
	var dept model.Department
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&dept, model.Department{Name: name}).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context) ([]model.Department, error) {
	var depts []model.Department
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}
