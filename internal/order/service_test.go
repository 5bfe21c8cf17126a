package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	log := testLogger()
	svc := NewService(db, NewInventoryGuard(), NewPostgresRepository(db, log), log, 5*time.Second)
	return svc, mock, func() { db.Close() }
}

func testDraft() OrderDraft {
	return OrderDraft{
		CustomerName:    "Asha Verma",
		Email:           "asha@example.com",
		ShippingAddress: ShippingAddress{Address: "12 MG Road", City: "Bengaluru", PostalCode: "560001", Country: "India"},
		Lines:           []CartLine{{ProductID: 7, Quantity: 2, PriceAtPurchase: 500}},
		TotalAmount:     1000,
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").WithArgs(7, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO orders").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(42, 7, 2, 500.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	expectGetByID(mock, created)

	view, err := svc.PlaceOrder(context.Background(), testDraft())
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if view.ID != 42 || view.Status != StatusPending {
		t.Errorf("unexpected order %+v", view.Order)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Errorf("unexpected items %+v", view.Items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_InsufficientStockRollsBack(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").WithArgs(7, 2).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT stock_quantity").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), testDraft())

	var serr InsufficientStockError
	if !errors.As(err, &serr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if serr.Available != 1 || serr.Requested != 2 {
		t.Errorf("unexpected detail %+v", serr)
	}
	// no order insert, no line insert, and the transaction was rolled back
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_UnknownProductRollsBack(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").WithArgs(7, 2).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT stock_quantity").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}))
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), testDraft())

	var nerr NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPlaceOrder_TotalMismatchRejectedBeforeAnyWrite(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	draft := testDraft()
	draft.TotalAmount = 999 // true line sum is 1000

	_, err := svc.PlaceOrder(context.Background(), draft)

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// no expectations were registered: any database call would have failed the mock
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database traffic: %v", err)
	}
}

func TestPlaceOrder_StorageFaultIsInfrastructure(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").WithArgs(7, 2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO orders").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := svc.PlaceOrder(context.Background(), testDraft())

	var ierr InfrastructureError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected InfrastructureError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Two checkouts race for a single remaining unit: exactly one succeeds and
// the other is told the stock ran out, never two successes.
func TestPlaceOrder_LastUnitRace(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.MatchExpectationsInOrder(false)

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectBegin()
	// whichever transaction lands first wins the conditional decrement
	mock.ExpectExec("UPDATE products").WithArgs(7, 1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE products").WithArgs(7, 1).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT stock_quantity").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO orders").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(42, 7, 1, 500.0).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectRollback()
	expectGetByID(mock, created)

	draft := testDraft()
	draft.Lines = []CartLine{{ProductID: 7, Quantity: 1, PriceAtPurchase: 500}}
	draft.TotalAmount = 500

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PlaceOrder(context.Background(), draft)
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		var serr InsufficientStockError
		if errors.As(err, &serr) {
			conflicts++
		} else {
			t.Errorf("unexpected error %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one success and one stock conflict, got %d/%d (errors: %v)", successes, conflicts, results)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetOrder_PassesThroughNotFound(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.ExpectQuery("SELECT id, customer_name").WithArgs(404).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := svc.GetOrder(context.Background(), 404)

	var nerr NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
