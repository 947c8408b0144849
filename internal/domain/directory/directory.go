// Package directory is the read-only view of the org structure maintained
// by the external employee-profile service. The appraisal core uses it to
// resolve reporting lines and department names; it never writes here.
package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEmployeeNotFound = errors.New("employee not found in directory")

type Profile struct {
	EmployeeID   string `json:"employeeId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	DepartmentID string `json:"departmentId"`
	PositionID   string `json:"positionId,omitempty"`
	ManagerID    string `json:"managerId,omitempty"`
}

type API interface {
	Profile(ctx context.Context, employeeID string) (Profile, error)
	DepartmentName(ctx context.Context, departmentID string) (string, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Profile(ctx context.Context, employeeID string) (Profile, error) {
	var p Profile
	var departmentID, positionID, managerID *string
	err := s.DB.QueryRow(ctx, `
    SELECT id, first_name, last_name, email, department_id, position_id, manager_id
    FROM employees
    WHERE id = $1 AND status = 'active'
  `, employeeID).Scan(&p.EmployeeID, &p.FirstName, &p.LastName, &p.Email, &departmentID, &positionID, &managerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	if departmentID != nil {
		p.DepartmentID = *departmentID
	}
	if positionID != nil {
		p.PositionID = *positionID
	}
	if managerID != nil {
		p.ManagerID = *managerID
	}
	return p, nil
}

func (s *Store) DepartmentName(ctx context.Context, departmentID string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, "SELECT name FROM departments WHERE id = $1", departmentID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
