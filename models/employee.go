package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Employee struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Email      string             `json:"email" bson:"email"`
	Phone      string             `json:"phone" bson:"phone"`
	Position   string             `json:"position" bson:"position"`
	Department string             `json:"department" bson:"department"`
	HireDate   time.Time          `json:"hireDate" bson:"hire_date"`
	Salary     float64            `json:"salary" bson:"salary"`
	IsActive   bool               `json:"isActive" bson:"is_active"`
	Avatar     string             `json:"avatar" bson:"avatar"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updated_at"`
}

type EmployeeCreatePayload struct {
	Name       string     `json:"name" validate:"required,min=2,max=100"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"required,min=5,max=30"`
	Position   string     `json:"position" validate:"required"`
	Department string     `json:"department" validate:"required"`
	HireDate   *time.Time `json:"hireDate"`
	Salary     float64    `json:"salary" validate:"min=0"`
	Avatar     string     `json:"avatar" validate:"omitempty,url"`
}

// EmployeeUpdatePayload uses pointers so an omitted field is left unchanged.
type EmployeeUpdatePayload struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email      *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string    `json:"phone,omitempty" validate:"omitempty,min=5,max=30"`
	Position   *string    `json:"position,omitempty"`
	Department *string    `json:"department,omitempty"`
	HireDate   *time.Time `json:"hireDate,omitempty"`
	Salary     *float64   `json:"salary,omitempty" validate:"omitempty,min=0"`
	Avatar     *string    `json:"avatar,omitempty" validate:"omitempty,url"`
	IsActive   *bool      `json:"isActive,omitempty"`
}
