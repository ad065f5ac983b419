package movies

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

func (r *Repo) Insert(ctx context.Context, m *models.Movie) (*models.Movie, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO movies (person_id, title, year, genre, rating)
		VALUES (?, ?, ?, ?, ?)
	`, m.PersonID, m.Title, m.Year, m.Genre, m.Rating)
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert movie id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, person_id, title, year, genre, rating, created_at
		FROM movies
		WHERE id = ?
	`, id)

	m, err := scanMovie(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return m, nil
}

// ListByPerson returns the person's movies in creation order. An unknown
// person id yields an empty list, not an error.
func (r *Repo) ListByPerson(ctx context.Context, personID int64) ([]models.Movie, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, person_id, title, year, genre, rating, created_at
		FROM movies
		WHERE person_id = ?
		ORDER BY id
	`, personID)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	out := make([]models.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	return out, nil
}

// Rename changes a movie's title in one transaction: the existence
// check, the per-owner collision check and the update all see the same
// snapshot, so a concurrent rename can't sneak a duplicate in between.
// A missing movie yields (nil, nil); a collision yields ErrDuplicateTitle.
func (r *Repo) Rename(ctx context.Context, id int64, title string) (*models.Movie, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin rename: %w", err)
	}
	defer tx.Rollback()

	var personID int64
	err = tx.QueryRowContext(ctx, `
		SELECT person_id
		FROM movies
		WHERE id = ?
	`, id).Scan(&personID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rename lookup: %w", err)
	}

	var n int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM movies
		WHERE person_id = ? AND LOWER(title) = LOWER(?) AND id != ?
	`, personID, title, id).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("rename collision check: %w", err)
	}
	if n > 0 {
		return nil, ErrDuplicateTitle
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE movies
		SET title = ?
		WHERE id = ?
	`, title, id); err != nil {
		return nil, fmt.Errorf("rename update: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		SELECT id, person_id, title, year, genre, rating, created_at
		FROM movies
		WHERE id = ?
	`, id)
	m, err := scanMovie(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("rename reread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rename: %w", err)
	}
	return m, nil
}

func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM movies
		WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete movie: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteByPerson clears a person's whole list and reports how many rows went.
func (r *Repo) DeleteByPerson(ctx context.Context, personID int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM movies
		WHERE person_id = ?
	`, personID)
	if err != nil {
		return 0, fmt.Errorf("delete movies by person: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ExistsTitle reports whether the person already has a movie with this
// title (case-insensitive). excludeID skips one row, for rename checks.
func (r *Repo) ExistsTitle(ctx context.Context, personID int64, title string, excludeID int64) (bool, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM movies
		WHERE person_id = ? AND LOWER(title) = LOWER(?) AND id != ?
	`, personID, title, excludeID)

	var n int
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("exists title: %w", err)
	}
	return n > 0, nil
}

func scanMovie(scan func(dest ...any) error) (*models.Movie, error) {
	var (
		m      models.Movie
		year   sql.NullInt64
		genre  sql.NullString
		rating sql.NullFloat64
	)

	if err := scan(&m.ID, &m.PersonID, &m.Title, &year, &genre, &rating, &m.CreatedAt); err != nil {
		return nil, err
	}

	if year.Valid {
		y := int(year.Int64)
		m.Year = &y
	}
	if genre.Valid {
		g := genre.String
		m.Genre = &g
	}
	if rating.Valid {
		v := rating.Float64
		m.Rating = &v
	}
	return &m, nil
}
