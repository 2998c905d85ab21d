package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"parlour-attendance/models"
	"parlour-attendance/pkg/apperrors"
	"parlour-attendance/repository"
)

type memoryEmployeeRepo struct {
	employees map[primitive.ObjectID]*models.Employee
}

func newMemoryEmployeeRepo() *memoryEmployeeRepo {
	return &memoryEmployeeRepo{employees: map[primitive.ObjectID]*models.Employee{}}
}

func (r *memoryEmployeeRepo) CreateEmployee(_ context.Context, employee *models.Employee) error {
	for _, e := range r.employees {
		if e.Email == employee.Email {
			return repository.ErrDuplicateKey
		}
	}
	employee.ID = primitive.NewObjectID()
	copied := *employee
	r.employees[employee.ID] = &copied
	return nil
}

func (r *memoryEmployeeRepo) FindEmployeeByID(_ context.Context, id primitive.ObjectID) (*models.Employee, error) {
	if e, ok := r.employees[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, nil
}

func (r *memoryEmployeeRepo) FindEmployeeByEmail(_ context.Context, email string) (*models.Employee, error) {
	for _, e := range r.employees {
		if e.Email == email {
			copied := *e
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryEmployeeRepo) FindActiveEmployees(_ context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	for _, e := range r.employees {
		if e.IsActive {
			employees = append(employees, *e)
		}
	}
	return employees, nil
}

func (r *memoryEmployeeRepo) UpdateEmployee(_ context.Context, id primitive.ObjectID, updateData bson.M) (*models.Employee, error) {
	e, ok := r.employees[id]
	if !ok {
		return nil, nil
	}
	for key, value := range updateData {
		switch key {
		case "name":
			e.Name = value.(string)
		case "email":
			e.Email = value.(string)
		case "position":
			e.Position = value.(string)
		case "is_active":
			e.IsActive = value.(bool)
		case "salary":
			e.Salary = value.(float64)
		}
	}
	copied := *e
	return &copied, nil
}

func (r *memoryEmployeeRepo) DeactivateEmployee(_ context.Context, id primitive.ObjectID) (bool, error) {
	e, ok := r.employees[id]
	if !ok {
		return false, nil
	}
	e.IsActive = false
	return true, nil
}

func createPayload(email string) models.EmployeeCreatePayload {
	return models.EmployeeCreatePayload{
		Name:       "Sari Wulandari",
		Email:      email,
		Phone:      "081234567",
		Position:   "Stylist",
		Department: "Hair",
		Salary:     4500000,
	}
}

func TestEmployeeCreateNormalizesEmail(t *testing.T) {
	service := NewEmployeeService(newMemoryEmployeeRepo(), nil)

	employee, err := service.Create(context.Background(), createPayload("  Sari@Parlour.COM "))
	require.NoError(t, err)

	assert.Equal(t, "sari@parlour.com", employee.Email)
	assert.True(t, employee.IsActive)
	assert.False(t, employee.HireDate.IsZero())
}

func TestEmployeeCreateKeepsHireDate(t *testing.T) {
	service := NewEmployeeService(newMemoryEmployeeRepo(), nil)
	hired := time.Date(2023, time.January, 9, 0, 0, 0, 0, time.UTC)
	payload := createPayload("sari@parlour.com")
	payload.HireDate = &hired

	employee, err := service.Create(context.Background(), payload)
	require.NoError(t, err)
	assert.True(t, employee.HireDate.Equal(hired))
}

func TestEmployeeCreateRejectsDuplicateEmail(t *testing.T) {
	service := NewEmployeeService(newMemoryEmployeeRepo(), nil)
	ctx := context.Background()

	_, err := service.Create(ctx, createPayload("sari@parlour.com"))
	require.NoError(t, err)

	_, err = service.Create(ctx, createPayload("SARI@parlour.com"))
	assert.Equal(t, apperrors.ErrCodeEmailExists, apperrors.CodeOf(err))
}

func TestEmployeeGet(t *testing.T) {
	service := NewEmployeeService(newMemoryEmployeeRepo(), nil)
	ctx := context.Background()

	created, err := service.Create(ctx, createPayload("sari@parlour.com"))
	require.NoError(t, err)

	found, err := service.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.Email, found.Email)

	_, err = service.Get(ctx, "not-an-id")
	assert.Equal(t, apperrors.ErrCodeEmployeeNotFound, apperrors.CodeOf(err))

	_, err = service.Get(ctx, primitive.NewObjectID().Hex())
	assert.Equal(t, apperrors.ErrCodeEmployeeNotFound, apperrors.CodeOf(err))
}

func TestEmployeeUpdate(t *testing.T) {
	service := NewEmployeeService(newMemoryEmployeeRepo(), nil)
	ctx := context.Background()

	sari, err := service.Create(ctx, createPayload("sari@parlour.com"))
	require.NoError(t, err)
	_, err = service.Create(ctx, createPayload("rina@parlour.com"))
	require.NoError(t, err)

	position := "Senior Stylist"
	updated, err := service.Update(ctx, sari.ID.Hex(), models.EmployeeUpdatePayload{Position: &position})
	require.NoError(t, err)
	assert.Equal(t, "Senior Stylist", updated.Position)

	taken := "RINA@parlour.com"
	_, err = service.Update(ctx, sari.ID.Hex(), models.EmployeeUpdatePayload{Email: &taken})
	assert.Equal(t, apperrors.ErrCodeEmailExists, apperrors.CodeOf(err))

	same := "Sari@Parlour.com"
	updated, err = service.Update(ctx, sari.ID.Hex(), models.EmployeeUpdatePayload{Email: &same})
	require.NoError(t, err)
	assert.Equal(t, "sari@parlour.com", updated.Email)
}

func TestEmployeeUpdateWithoutChanges(t *testing.T) {
	service := NewEmployeeService(newMemoryEmployeeRepo(), nil)
	ctx := context.Background()

	sari, err := service.Create(ctx, createPayload("sari@parlour.com"))
	require.NoError(t, err)

	unchanged, err := service.Update(ctx, sari.ID.Hex(), models.EmployeeUpdatePayload{})
	require.NoError(t, err)
	assert.Equal(t, sari.Name, unchanged.Name)
}

func TestEmployeeDeactivate(t *testing.T) {
	repo := newMemoryEmployeeRepo()
	service := NewEmployeeService(repo, nil)
	ctx := context.Background()

	sari, err := service.Create(ctx, createPayload("sari@parlour.com"))
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, sari.ID.Hex()))

	active, err := service.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	// Deactivated employees can still be looked up by id.
	found, err := service.Get(ctx, sari.ID.Hex())
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	err = service.Deactivate(ctx, primitive.NewObjectID().Hex())
	assert.Equal(t, apperrors.ErrCodeEmployeeNotFound, apperrors.CodeOf(err))
}
