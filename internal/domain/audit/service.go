package audit

import "context"

// Service exposes the read side of the audit log.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Search(ctx context.Context, filter Filter, limit, offset int) ([]*Record, int, error) {
	return s.repo.Search(ctx, filter, limit, offset)
}
