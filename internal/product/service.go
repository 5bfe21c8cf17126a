package product

import "context"

// ServiceInterface lets collaborating handlers depend on the product service
// without a concrete type (stubbed in tests).
type ServiceInterface interface {
	GetByID(ctx context.Context, id int) (Product, error)
	ListByIDs(ctx context.Context, ids []int) ([]Product, error)
}

// Service provides read access to the catalog.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) GetByID(ctx context.Context, id int) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ctx, ids)
}

var _ ServiceInterface = (*Service)(nil)
