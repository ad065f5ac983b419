package people

import (
	"context"
	"database/sql"
	"fmt"

	"moviweb/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Insert(ctx context.Context, name string) (*models.Person, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO people (name)
		VALUES (?)
	`, name)
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert person id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Person, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, created_at
		FROM people
		WHERE id = ?
	`, id)

	var p models.Person
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return &p, nil
}

// List returns all people in creation order.
func (r *Repo) List(ctx context.Context) ([]models.Person, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM people
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	out := make([]models.Person, 0)
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan person row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	return out, nil
}

func (r *Repo) ExistsName(ctx context.Context, name string) (bool, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM people
		WHERE LOWER(name) = LOWER(?)
	`, name)

	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("exists name: %w", err)
	}
	return n > 0, nil
}
