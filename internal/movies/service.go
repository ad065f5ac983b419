package movies

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"moviweb/internal/omdb"
	"moviweb/internal/people"
	"moviweb/pkg/models"
)

var (
	ErrInvalidTitle   = errors.New("title must be 1-200 chars")
	ErrDuplicateTitle = errors.New("movie already in this list")
	ErrNotFound       = errors.New("movie not found")
	ErrPersonNotFound = errors.New("person not found")
)

// Provider looks a title up in the external metadata source. A (nil, nil)
// result means "not found"; errors are treated the same way by Add.
type Provider interface {
	Lookup(ctx context.Context, title string) (*omdb.Result, error)
}

const lookupTimeout = 10 * time.Second

// Service implements the favorites operations. Add enriches the given
// title with provider metadata but never fails because of the provider:
// a lookup problem degrades to a title-only movie.
type Service struct {
	repo     *Repo
	people   *people.Repo
	provider Provider
}

func NewService(repo *Repo, peopleRepo *people.Repo, provider Provider) *Service {
	return &Service{repo: repo, people: peopleRepo, provider: provider}
}

func (s *Service) Add(ctx context.Context, personID int64, title string) (*models.Movie, error) {
	title = strings.TrimSpace(title)
	// bounds count characters, not bytes
	if title == "" || utf8.RuneCountInString(title) > 200 {
		return nil, ErrInvalidTitle
	}

	owner, err := s.people.GetByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrPersonNotFound
	}

	m := models.Movie{PersonID: personID, Title: title}

	lookupCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	res, err := s.provider.Lookup(lookupCtx, title)
	if err != nil {
		// provider trouble is absorbed here; the movie is still saved
		log.Printf("[movies] metadata lookup failed for %q: %v", title, err)
	} else if res != nil {
		if res.Title != "" && res.Title != omdb.NotAvailable {
			m.Title = res.Title
		}
		m.Year = parseOptionalInt(res.Year)
		m.Rating = parseOptionalFloat(res.ImdbRating)
		m.Genre = optionalString(res.Genre)
	}

	// checked against the stored title, which may be the provider's
	// canonical one rather than the search string
	exists, err := s.repo.ExistsTitle(ctx, personID, m.Title, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateTitle
	}

	return s.repo.Insert(ctx, &m)
}

func (s *Service) ListByPerson(ctx context.Context, personID int64) ([]models.Movie, error) {
	return s.repo.ListByPerson(ctx, personID)
}

func (s *Service) UpdateTitle(ctx context.Context, movieID int64, newTitle string) (*models.Movie, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" || utf8.RuneCountInString(newTitle) > 200 {
		return nil, ErrInvalidTitle
	}

	m, err := s.repo.Rename(ctx, movieID, newTitle)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, movieID int64) error {
	ok, err := s.repo.Delete(ctx, movieID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// ClearPerson empties a person's list. The person row itself stays; see
// the product note in DESIGN.md.
func (s *Service) ClearPerson(ctx context.Context, personID int64) (int64, error) {
	owner, err := s.people.GetByID(ctx, personID)
	if err != nil {
		return 0, err
	}
	if owner == nil {
		return 0, ErrPersonNotFound
	}
	return s.repo.DeleteByPerson(ctx, personID)
}

// parseOptionalInt treats the provider's "N/A" sentinel, blanks and
// unparsable literals (e.g. the range year "2010–2014") all as absent.
func parseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || s == omdb.NotAvailable {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == omdb.NotAvailable {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == omdb.NotAvailable {
		return nil
	}
	return &s
}
