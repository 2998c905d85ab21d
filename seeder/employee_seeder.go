package seeder

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"parlour-attendance/models"
)

type EmployeeStore interface {
	FindEmployeeByEmail(ctx context.Context, email string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, employee *models.Employee) error
}

var departmentPositions = map[string][]string{
	"Hair":       {"Senior Stylist", "Junior Stylist", "Colorist"},
	"Skin Care":  {"Esthetician", "Facial Therapist"},
	"Nails":      {"Nail Technician", "Nail Artist"},
	"Front Desk": {"Receptionist", "Parlour Manager"},
}

// SeedEmployees adds count demo employees named employeeNN@parlour.com,
// skipping any that already exist.
func SeedEmployees(ctx context.Context, employees EmployeeStore, count int) error {
	log.Printf("Seeding %d demo employees...", count)

	firstNames := []string{"Sari", "Dewi", "Rina", "Maya", "Putri", "Ayu", "Hana", "Tia", "Indah", "Lestari"}
	lastNames := []string{"Wulandari", "Rahayu", "Handayani", "Susanti", "Lestari", "Cahyani", "Pratiwi", "Utami"}

	departments := make([]string, 0, len(departmentPositions))
	for dept := range departmentPositions {
		departments = append(departments, dept)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 1; i <= count; i++ {
		email := fmt.Sprintf("employee%02d@parlour.com", i)
		existing, err := employees.FindEmployeeByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			log.Printf("Skipping: employee %s already exists", email)
			continue
		}

		department := departments[rng.Intn(len(departments))]
		positions := departmentPositions[department]

		employee := &models.Employee{
			Name:       fmt.Sprintf("%s %s", firstNames[rng.Intn(len(firstNames))], lastNames[rng.Intn(len(lastNames))]),
			Email:      email,
			Phone:      fmt.Sprintf("0812%07d", rng.Intn(10000000)),
			Position:   positions[rng.Intn(len(positions))],
			Department: department,
			HireDate:   time.Now().AddDate(0, -rng.Intn(36), 0),
			Salary:     float64(rng.Intn(3000001) + 3500000),
			IsActive:   true,
		}
		if err := employees.CreateEmployee(ctx, employee); err != nil {
			return err
		}
		log.Printf("Employee %s (%s, %s) created", employee.Name, employee.Position, employee.Department)
	}

	log.Println("Demo employees ready.")
	return nil
}
