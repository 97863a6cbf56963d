package billing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/fabrile/go-order-lifecycle/internal/orders"
)

func deliveredOrder() *orders.Order {
	return &orders.Order{
		ID:          "o1",
		OrderNumber: "ORD-000042",
		ClientID:    "c1",
		Status:      orders.StatusDelivered,
		TotalCents:  10000,
	}
}

func TestBuildInvoice(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	inv := BuildInvoice(deliveredOrder(), now)

	require.Equal(t, "o1", inv.OrderID)
	require.Equal(t, "c1", inv.ClientID)
	require.Equal(t, InvoicePending, inv.Status)
	require.Equal(t, 10000, inv.SubtotalCents)
	require.Equal(t, 20, inv.TaxRatePct)
	require.Equal(t, 2000, inv.TaxCents)
	require.Equal(t, 12000, inv.TotalCents)

	require.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), inv.IssueDate)
	require.Equal(t, inv.IssueDate.AddDate(0, 0, 30), inv.DueDate)
	require.Contains(t, inv.Notes, "ORD-000042")
	require.NotEmpty(t, inv.ID)
}

type fakeInvoiceStore struct {
	mu     sync.Mutex
	byOrd  map[string]*Invoice
	insErr error
}

func newFakeInvoiceStore() *fakeInvoiceStore { return &fakeInvoiceStore{byOrd: map[string]*Invoice{}} }

func (f *fakeInvoiceStore) Insert(_ context.Context, inv *Invoice) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insErr != nil {
		return false, f.insErr
	}
	if _, ok := f.byOrd[inv.OrderID]; ok {
		return false, nil
	}
	f.byOrd[inv.OrderID] = inv
	return true, nil
}

func TestOnDeliveredCreatesOnce(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := &Service{Invoices: store, Log: logrus.New()}

	created, err := svc.OnDelivered(context.Background(), deliveredOrder())
	require.NoError(t, err)
	require.True(t, created)

	// retried confirmation of the same delivery
	created, err = svc.OnDelivered(context.Background(), deliveredOrder())
	require.NoError(t, err)
	require.False(t, created)

	require.Len(t, store.byOrd, 1)
}

func TestOnDeliveredConcurrentSingleCreate(t *testing.T) {
	store := newFakeInvoiceStore()
	svc := &Service{Invoices: store, Log: logrus.New()}

	var wg sync.WaitGroup
	createds := make(chan bool, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := svc.OnDelivered(context.Background(), deliveredOrder())
			require.NoError(t, err)
			createds <- created
		}()
	}
	wg.Wait()
	close(createds)

	var wins int
	for c := range createds {
		if c {
			wins++
		}
	}
	require.Equal(t, 1, wins)
	require.Len(t, store.byOrd, 1)
}
