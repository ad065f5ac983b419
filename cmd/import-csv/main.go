package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"moviweb/pkg/database"
)

// Imports a movies CSV (person_name, title, year, genre, rating) created
// by export-csv or by hand. People are created on first sight, movies are
// inserted as-is without a metadata lookup.
func main() {
	moviesIn := flag.String("movies", "data/movies.csv", "input CSV path for movies")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	n, err := importMovies(ctx, db, *moviesIn)
	if err != nil {
		log.Fatalf("import movies failed: %v", err)
	}

	log.Printf("imported %d movies from %s", n, *moviesIn)
}

func importMovies(ctx context.Context, db *sql.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return 0, err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO movies (person_id, title, year, genre, rating)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		if len(row) == 0 {
			continue
		}

		personName := valueAt(header, row, "person_name")
		title := valueAt(header, row, "title")
		if personName == "" || title == "" {
			continue
		}

		personID, err := ensurePerson(ctx, db, personName)
		if err != nil {
			return count, fmt.Errorf("ensure person %q: %w", personName, err)
		}

		year, err := parseNullInt(valueAt(header, row, "year"))
		if err != nil {
			return count, fmt.Errorf("parse year for %q: %w", title, err)
		}
		rating, err := parseNullFloat(valueAt(header, row, "rating"))
		if err != nil {
			return count, fmt.Errorf("parse rating for %q: %w", title, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			personID,
			title,
			year,
			nullString(valueAt(header, row, "genre")),
			rating,
		); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

func ensurePerson(ctx context.Context, db *sql.DB, name string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, `
		SELECT id FROM people WHERE LOWER(name) = LOWER(?)
	`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	res, err := db.ExecContext(ctx, `INSERT INTO people (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for i, name := range row {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseNullInt(s string) (sql.NullInt64, error) {
	if s == "" {
		return sql.NullInt64{}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

func parseNullFloat(s string) (sql.NullFloat64, error) {
	if s == "" {
		return sql.NullFloat64{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
