package notify

import (
	"context"
	"ecommerce_api/internal/pkg/config"
	"ecommerce_api/internal/pkg/push"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Notification 发给单个用户的消息
type Notification struct {
	UserID  string
	Email   string
	Subject string
	Body    string
	Extra   map[string]string
}

// Notifier 通知发送器
type Notifier interface {
	Channel() string
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier 只记录日志，开发环境默认
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (l *LogNotifier) Channel() string { return "log" }

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.log.Info("notification",
		zap.String("user_id", n.UserID),
		zap.String("email", n.Email),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body),
	)
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier SMTP 邮件
type EmailNotifier struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendMail sendMailFunc
}

func NewEmailNotifier(cfg config.NotifyConfig) *EmailNotifier {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPasswd, cfg.SMTPHost)
	}
	return &EmailNotifier{
		addr:     cfg.SMTPAddr,
		from:     cfg.From,
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

func (e *EmailNotifier) Channel() string { return "email" }

func (e *EmailNotifier) Notify(ctx context.Context, n Notification) error {
	if n.Email == "" {
		return errors.Errorf("user %s has no email", n.UserID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.sendMail(e.addr, e.auth, e.from, []string{n.Email}, buildMessage(e.from, n)); err != nil {
		return errors.Wrap(err, "send mail")
	}
	return nil
}

func buildMessage(from string, n Notification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", n.Email)
	fmt.Fprintf(&b, "Subject: %s\r\n", n.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(n.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// PushNotifier 阿里云推送，按用户 ID 推送到账号
type PushNotifier struct {
	push push.PushService
}

func NewPushNotifier(p push.PushService) *PushNotifier {
	return &PushNotifier{push: p}
}

func (p *PushNotifier) Channel() string { return "push" }

func (p *PushNotifier) Notify(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.push.PushToAccount(n.UserID, n.Subject, n.Body, n.Extra)
}

// New 按 notify.channel 选择发送器，push 配置缺失时退回日志
func New(cfg *config.Config, log *zap.Logger) Notifier {
	switch cfg.Notify.Channel {
	case "email":
		return NewEmailNotifier(cfg.Notify)
	case "push":
		svc, err := push.NewAliyunPushService(cfg.Push)
		if err != nil {
			log.Warn("push notifier unavailable, falling back to log", zap.Error(err))
			return NewLogNotifier(log)
		}
		return NewPushNotifier(svc)
	default:
		return NewLogNotifier(log)
	}
}
