package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"talentops/internal/platform/config"
)

// Seed inserts a small org tree for local development. Employee and
// department data is owned by the external profile service in real
// deployments, so seeding is off unless RUN_SEED is set.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if !cfg.RunSeed {
		return nil
	}

	engineeringID, err := ensureDepartment(ctx, pool, "Engineering")
	if err != nil {
		return err
	}
	salesID, err := ensureDepartment(ctx, pool, "Sales")
	if err != nil {
		return err
	}

	managerID, err := ensureEmployee(ctx, pool, "Dana", "Whitfield", "dana.whitfield@example.com", engineeringID, "")
	if err != nil {
		return err
	}
	if _, err := ensureEmployee(ctx, pool, "Ivo", "Marchetti", "ivo.marchetti@example.com", engineeringID, managerID); err != nil {
		return err
	}
	if _, err := ensureEmployee(ctx, pool, "Priya", "Nair", "priya.nair@example.com", salesID, managerID); err != nil {
		return err
	}
	return nil
}

func ensureDepartment(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM departments WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = pool.QueryRow(ctx, "INSERT INTO departments (name) VALUES ($1) RETURNING id", name).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureEmployee(ctx context.Context, pool *pgxpool.Pool, firstName, lastName, email, departmentID, managerID string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE email = $1", email).Scan(&id)
	if err == nil {
		return id, nil
	}
	var manager any
	if managerID != "" {
		manager = managerID
	}
	err = pool.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, department_id, manager_id)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, firstName, lastName, email, departmentID, manager).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}
