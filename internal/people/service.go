package people

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"moviweb/pkg/models"
)

var (
	ErrInvalidName   = errors.New("name must be 2-100 chars")
	ErrDuplicateName = errors.New("person name already exists")
	ErrNotFound      = errors.New("person not found")
)

// Service owns person-level rules: name bounds and case-insensitive
// uniqueness. Repos stay dumb.
type Service struct {
	repo *Repo
}

func NewService(repo *Repo) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, name string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	// bounds count characters, not bytes
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return nil, ErrInvalidName
	}

	exists, err := s.repo.ExistsName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	return s.repo.Insert(ctx, name)
}

func (s *Service) List(ctx context.Context) ([]models.Person, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
