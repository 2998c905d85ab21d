package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"parlour-attendance/models"
	"parlour-attendance/pkg/apperrors"
	"parlour-attendance/pkg/logger"
	"parlour-attendance/repository"
)

type EmployeeService struct {
	repo repository.EmployeeRepository
	log  logger.Logger
	now  func() time.Time
}

func NewEmployeeService(repo repository.EmployeeRepository, log logger.Logger) *EmployeeService {
	if log == nil {
		log = logger.Nop{}
	}
	return &EmployeeService{repo: repo, log: log, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// List returns active employees, newest first.
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.FindActiveEmployees(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return employees, nil
}

// Get returns the employee whether or not it is still active.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.EmployeeNotFound(err)
	}

	employee, err := s.repo.FindEmployeeByID(ctx, objID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if employee == nil {
		return nil, apperrors.EmployeeNotFound(nil)
	}
	return employee, nil
}

func (s *EmployeeService) Create(ctx context.Context, payload models.EmployeeCreatePayload) (*models.Employee, error) {
	email := normalizeEmail(payload.Email)

	existing, err := s.repo.FindEmployeeByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.EmailExists()
	}

	hireDate := s.now()
	if payload.HireDate != nil {
		hireDate = *payload.HireDate
	}

	employee := &models.Employee{
		Name:       strings.TrimSpace(payload.Name),
		Email:      email,
		Phone:      strings.TrimSpace(payload.Phone),
		Position:   strings.TrimSpace(payload.Position),
		Department: strings.TrimSpace(payload.Department),
		HireDate:   hireDate,
		Salary:     payload.Salary,
		IsActive:   true,
		Avatar:     payload.Avatar,
	}

	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.EmailExists()
		}
		return nil, apperrors.Internal(err)
	}

	s.log.Info("employee %s created (%s)", employee.ID.Hex(), employee.Email)
	return employee, nil
}

func (s *EmployeeService) Update(ctx context.Context, id string, payload models.EmployeeUpdatePayload) (*models.Employee, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	update := bson.M{}
	if payload.Email != nil {
		email := normalizeEmail(*payload.Email)
		if email != current.Email {
			other, err := s.repo.FindEmployeeByEmail(ctx, email)
			if err != nil {
				return nil, apperrors.Internal(err)
			}
			if other != nil && other.ID != current.ID {
				return nil, apperrors.EmailExists()
			}
		}
		update["email"] = email
	}
	if payload.Name != nil {
		update["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Phone != nil {
		update["phone"] = strings.TrimSpace(*payload.Phone)
	}
	if payload.Position != nil {
		update["position"] = strings.TrimSpace(*payload.Position)
	}
	if payload.Department != nil {
		update["department"] = strings.TrimSpace(*payload.Department)
	}
	if payload.HireDate != nil {
		update["hire_date"] = *payload.HireDate
	}
	if payload.Salary != nil {
		update["salary"] = *payload.Salary
	}
	if payload.Avatar != nil {
		update["avatar"] = *payload.Avatar
	}
	if payload.IsActive != nil {
		update["is_active"] = *payload.IsActive
	}

	if len(update) == 0 {
		return current, nil
	}

	updated, err := s.repo.UpdateEmployee(ctx, current.ID, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.EmailExists()
		}
		return nil, apperrors.Internal(err)
	}
	if updated == nil {
		return nil, apperrors.EmployeeNotFound(nil)
	}
	return updated, nil
}

// Deactivate is a soft delete; attendance history keeps pointing at the
// employee document.
func (s *EmployeeService) Deactivate(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperrors.EmployeeNotFound(err)
	}

	found, err := s.repo.DeactivateEmployee(ctx, objID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !found {
		return apperrors.EmployeeNotFound(nil)
	}

	s.log.Info("employee %s deactivated", id)
	return nil
}
