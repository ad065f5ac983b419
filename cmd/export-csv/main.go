package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"moviweb/pkg/database"
)

func main() {
	var (
		peopleOut = flag.String("people", "data/people.csv", "output CSV path for people")
		moviesOut = flag.String("movies", "data/movies.csv", "output CSV path for movies")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportPeople(ctx, db, *peopleOut); err != nil {
		log.Fatalf("export people failed: %v", err)
	}
	if err := exportMovies(ctx, db, *moviesOut); err != nil {
		log.Fatalf("export movies failed: %v", err)
	}

	log.Printf("exported people to %s and movies to %s", *peopleOut, *moviesOut)
}

func exportPeople(ctx context.Context, db *sql.DB, outPath string) error {
	w, f, err := openWriter(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{"id", "name"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, name
		FROM people
		ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		if err := w.Write([]string{strconv.FormatInt(id, 10), name}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportMovies(ctx context.Context, db *sql.DB, outPath string) error {
	w, f, err := openWriter(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.Write([]string{"id", "person_name", "title", "year", "genre", "rating"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT m.id, p.name, m.title, m.year, m.genre, m.rating
		FROM movies m
		JOIN people p ON p.id = m.person_id
		ORDER BY m.id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id         int64
			personName string
			title      string
			year       sql.NullInt64
			genre      sql.NullString
			rating     sql.NullFloat64
		)
		if err := rows.Scan(&id, &personName, &title, &year, &genre, &rating); err != nil {
			return err
		}

		record := []string{
			strconv.FormatInt(id, 10),
			personName,
			title,
			"",
			genre.String,
			"",
		}
		if year.Valid {
			record[3] = strconv.FormatInt(year.Int64, 10)
		}
		if rating.Valid {
			record[5] = strconv.FormatFloat(rating.Float64, 'f', 1, 64)
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func openWriter(outPath string) (*csv.Writer, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, nil, err
	}
	return csv.NewWriter(f), f, nil
}
