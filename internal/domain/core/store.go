package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
  id, COALESCE(user_id::text, ''), employee_number, first_name, last_name, email,
  phone, address, COALESCE(department_id::text, ''), COALESCE(manager_id::text, ''),
  currency, employment_type, start_date, end_date, status, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeNumber, &e.FirstName, &e.LastName, &e.Email,
		&e.Phone, &e.Address, &e.DepartmentID, &e.ManagerID,
		&e.Currency, &e.EmploymentType, &e.StartDate, &e.EndDate, &e.Status,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+employeeColumns+" FROM employees WHERE id = $1", id)
	return scanEmployee(row)
}

func (s *Store) FindEmployeeByUserID(ctx context.Context, userID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, "SELECT"+employeeColumns+" FROM employees WHERE user_id = $1", userID)
	return scanEmployee(row)
}

func (s *Store) ListEmployees(ctx context.Context, status string, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT`+employeeColumns+`
    FROM employees
    WHERE ($1 = '' OR status = $1)
    ORDER BY employee_number
    LIMIT $2 OFFSET $3
  `, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) CreateEmployee(ctx context.Context, e Employee) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_number, first_name, last_name, email, phone,
                           address, department_id, manager_id, currency, employment_type,
                           start_date, status)
    VALUES (NULLIF($1,'')::uuid, $2, $3, $4, $5, $6, $7,
            NULLIF($8,'')::uuid, NULLIF($9,'')::uuid, $10, $11, $12, $13)
    RETURNING id
  `, e.UserID, e.EmployeeNumber, e.FirstName, e.LastName, e.Email, e.Phone,
		e.Address, e.DepartmentID, e.ManagerID, e.Currency, e.EmploymentType,
		e.StartDate, e.Status).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create employee: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $2, last_name = $3, email = $4, phone = $5, address = $6,
        department_id = NULLIF($7,'')::uuid, manager_id = NULLIF($8,'')::uuid,
        currency = $9, employment_type = $10, start_date = $11, end_date = $12,
        status = $13, updated_at = now()
    WHERE id = $1
  `, e.ID, e.FirstName, e.LastName, e.Email, e.Phone, e.Address,
		e.DepartmentID, e.ManagerID, e.Currency, e.EmploymentType,
		e.StartDate, e.EndDate, e.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(manager_id::text, ''), created_at
    FROM departments
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.ManagerID, &d.CreatedAt); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (s *Store) CreateDepartment(ctx context.Context, name, managerID string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, manager_id)
    VALUES ($1, NULLIF($2,'')::uuid)
    RETURNING id
  `, name, managerID).Scan(&id)
	return id, err
}
