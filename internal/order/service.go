package order

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"
)

// ServiceInterface lets the HTTP handler depend on checkout behaviour
// without the concrete type (stubbed in tests).
type ServiceInterface interface {
	PlaceOrder(ctx context.Context, draft OrderDraft) (OrderView, error)
	GetOrder(ctx context.Context, id int) (OrderView, error)
}

// Service coordinates one checkout attempt as a single atomic unit of work.
// It owns the transaction boundary; the guard and repository never commit or
// roll back on their own.
type Service struct {
	db      *sql.DB
	guard   *InventoryGuard
	repo    Repository
	log     *slog.Logger
	timeout time.Duration
}

func NewService(db *sql.DB, guard *InventoryGuard, repo Repository, log *slog.Logger, timeout time.Duration) *Service {
	return &Service{db: db, guard: guard, repo: repo, log: log, timeout: timeout}
}

var _ ServiceInterface = (*Service)(nil)

// PlaceOrder durably records the draft as an order with its lines and
// decrements stock for every line, all-or-nothing. Any failure rolls the
// whole attempt back: no order row, no lines, no stock mutation survive.
func (s *Service) PlaceOrder(ctx context.Context, draft OrderDraft) (OrderView, error) {
	// the total invariant needs nothing from the store; reject a mismatched
	// draft before anything is written
	if err := draft.CheckTotal(); err != nil {
		return OrderView{}, err
	}

	// bound the time between BEGIN and COMMIT/ROLLBACK; the deadline reaches
	// every statement through ctx
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return OrderView{}, InfrastructureError{Err: err}
	}
	defer tx.Rollback()

	if err := s.guard.Reserve(ctx, tx, draft.Demands()); err != nil {
		s.log.Info("checkout reservation failed", slog.String("error", err.Error()))
		return OrderView{}, classify(err)
	}

	ord := Order{
		CustomerName:    draft.CustomerName,
		Email:           draft.Email,
		ShippingAddress: draft.ShippingAddress,
		TotalAmount:     draft.TotalAmount,
		Status:          StatusPending,
		UserID:          draft.UserID,
	}
	lines := make([]OrderLine, 0, len(draft.Lines))
	for _, l := range draft.Lines {
		lines = append(lines, OrderLine{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.PriceAtPurchase,
		})
	}

	id, err := s.repo.Insert(ctx, tx, ord, lines)
	if err != nil {
		s.log.Error("checkout insert failed", slog.String("error", err.Error()))
		return OrderView{}, classify(err)
	}

	if err := tx.Commit(); err != nil {
		s.log.Error("checkout commit failed", slog.String("error", err.Error()))
		return OrderView{}, InfrastructureError{Err: err}
	}

	view, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// the order is committed; only the read-back failed
		return OrderView{}, classify(err)
	}
	return view, nil
}

// GetOrder returns the denormalized view for a committed order.
func (s *Service) GetOrder(ctx context.Context, id int) (OrderView, error) {
	view, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return OrderView{}, classify(err)
	}
	return view, nil
}

// classify passes the taxonomy's typed errors through unchanged and wraps
// everything else as an infrastructure failure.
func classify(err error) error {
	var (
		verr ValidationError
		nerr NotFoundError
		serr InsufficientStockError
		ierr InfrastructureError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &nerr), errors.As(err, &serr), errors.As(err, &ierr):
		return err
	default:
		return InfrastructureError{Err: err}
	}
}
