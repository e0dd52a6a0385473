package service

import (
	"context"
	"ecommerce_api/internal/domain/order/model"
	"ecommerce_api/internal/domain/order/repository"
	usermodel "ecommerce_api/internal/domain/user/model"
	"ecommerce_api/internal/pkg/notify"
	"ecommerce_api/internal/pkg/worker"
	"ecommerce_api/pkg/metrics"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// UserReader 查询订单所有者的邮箱
type UserReader interface {
	GetByID(ctx context.Context, id string) (*usermodel.User, error)
}

// StatusNotifier 定时扫描最近更新的订单并通知所有者
type StatusNotifier struct {
	orders   repository.OrderRepository
	users    UserReader
	notifier notify.Notifier
	workers  *worker.WorkerPool // 为空时同步发送
	metrics  *metrics.MetricsCollector
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
}

func NewStatusNotifier(
	orders repository.OrderRepository,
	users UserReader,
	notifier notify.Notifier,
	workers *worker.WorkerPool,
	collector *metrics.MetricsCollector,
	log *zap.Logger,
	interval time.Duration,
) *StatusNotifier {
	if interval <= 0 {
		interval = time.Hour
	}
	return &StatusNotifier{
		orders:   orders,
		users:    users,
		notifier: notifier,
		workers:  workers,
		metrics:  collector,
		log:      log,
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// StatusMessage 订单状态通知内容
func StatusMessage(order *model.Order) (subject, body string) {
	subject = fmt.Sprintf("Order #%s Status Update", order.ID)
	body = fmt.Sprintf("Your order (ID: %s) status is now: %s.", order.ID, order.Status)
	return subject, body
}

// Run 每个周期扫描一次，ctx 取消时返回
func (n *StatusNotifier) Run(ctx context.Context) error {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := n.NotifyRecent(ctx); err != nil {
				n.log.Error("order status notification scan failed", zap.Error(err))
			}
		}
	}
}

// NotifyRecent 扫描上一个周期内更新过的订单，返回已派发的通知数
func (n *StatusNotifier) NotifyRecent(ctx context.Context) (int, error) {
	since := n.now().Add(-n.interval)
	orders, err := n.orders.ListUpdatedSince(ctx, since)
	if err != nil {
		return 0, errors.Wrap(err, "list updated orders")
	}

	sent := 0
	for i := range orders {
		order := &orders[i]
		user, err := n.users.GetByID(ctx, order.UserID)
		if err != nil {
			// 用户已不存在时跳过
			n.log.Warn("skip notification, owner lookup failed",
				zap.String("order_id", order.ID),
				zap.String("user_id", order.UserID),
				zap.Error(err),
			)
			continue
		}

		subject, body := StatusMessage(order)
		msg := notify.Notification{
			UserID:  user.ID,
			Email:   user.Email,
			Subject: subject,
			Body:    body,
			Extra:   map[string]string{"orderId": order.ID, "status": order.Status},
		}
		if err := n.dispatch(ctx, order.ID, msg); err != nil {
			n.log.Warn("notification dropped", zap.String("order_id", order.ID), zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

func (n *StatusNotifier) dispatch(ctx context.Context, orderID string, msg notify.Notification) error {
	send := func(ctx context.Context) error {
		err := n.notifier.Notify(ctx, msg)
		n.metrics.RecordNotification(n.notifier.Channel(), err == nil)
		return err
	}

	if n.workers == nil {
		return send(ctx)
	}
	return n.workers.AddTask(worker.Task{Name: "order-status:" + orderID, Run: send})
}
