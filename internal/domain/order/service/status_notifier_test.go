package service

import (
	"context"
	"ecommerce_api/internal/domain/order/model"
	usermodel "ecommerce_api/internal/domain/user/model"
	"ecommerce_api/internal/pkg/notify"
	"ecommerce_api/pkg/database"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (r *recordingNotifier) Channel() string { return "test" }

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func TestStatusMessage(t *testing.T) {
	o := &model.Order{Status: model.StatusShipped}
	o.ID = "o-1"

	subject, body := StatusMessage(o)
	assert.Equal(t, "Order #o-1 Status Update", subject)
	assert.Equal(t, "Your order (ID: o-1) status is now: Shipped.", body)
}

func TestNotifyRecent(t *testing.T) {
	orders := newMemOrderRepository()
	recent := model.Order{UserID: "u-1", Status: model.StatusShipped}
	recent.ID = "o-1"
	recent.UpdatedAt = fixedNow.Add(-10 * time.Minute)
	orders.put(recent)

	stale := model.Order{UserID: "u-1", Status: model.StatusPending}
	stale.ID = "o-2"
	stale.UpdatedAt = fixedNow.Add(-3 * time.Hour)
	orders.put(stale)

	orphan := model.Order{UserID: "u-gone", Status: model.StatusCancelled}
	orphan.ID = "o-3"
	orphan.UpdatedAt = fixedNow.Add(-time.Minute)
	orders.put(orphan)

	owner := &usermodel.User{Email: "buyer@shop.io"}
	owner.ID = "u-1"
	users := new(MockUserReader)
	users.On("GetByID", "u-1").Return(owner, nil)
	users.On("GetByID", "u-gone").Return(nil, database.ErrNotFound)

	rec := &recordingNotifier{}
	n := NewStatusNotifier(orders, users, rec, nil, nil, zap.NewNop(), time.Hour)
	n.now = func() time.Time { return fixedNow }

	sent, err := n.NotifyRecent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	require.Len(t, rec.sent, 1)
	assert.Equal(t, "buyer@shop.io", rec.sent[0].Email)
	assert.Equal(t, "Order #o-1 Status Update", rec.sent[0].Subject)
	assert.Equal(t, "Shipped", rec.sent[0].Extra["status"])
}
