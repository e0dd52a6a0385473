package push

import (
	"ecommerce_api/internal/pkg/config"
	"encoding/json"

	"github.com/aliyun/alibaba-cloud-sdk-go/sdk/requests"
	"github.com/aliyun/alibaba-cloud-sdk-go/services/push"
	"github.com/go-faster/errors"
)

// ErrPushNotConfigured 推送配置缺失
var ErrPushNotConfigured = errors.New("push config is missing")

// PushService 按账号推送通知，账号即用户 ID
type PushService interface {
	PushToAccount(accountID string, title, body string, extParameters map[string]string) error
}

// pushClient 便于测试替换 SDK 客户端
type pushClient interface {
	Push(request *push.PushRequest) (*push.PushResponse, error)
}

type AliyunPushService struct {
	client pushClient
	appKey int64
}

func NewAliyunPushService(cfg config.PushConfig) (*AliyunPushService, error) {
	if cfg.AccessKeyID == "" || cfg.AppKey == 0 {
		return nil, ErrPushNotConfigured
	}

	client, err := push.NewClientWithAccessKey(
		cfg.RegionID,
		cfg.AccessKeyID,
		cfg.AccessKeySecret,
	)
	if err != nil {
		return nil, errors.Wrap(err, "create push client")
	}

	return &AliyunPushService{
		client: client,
		appKey: cfg.AppKey,
	}, nil
}

func (s *AliyunPushService) PushToAccount(accountID string, title, body string, extParameters map[string]string) error {
	request := buildRequest(s.appKey, "ACCOUNT", accountID, title, body, extParameters)
	if _, err := s.client.Push(request); err != nil {
		return errors.Wrap(err, "aliyun push")
	}
	return nil
}

func buildRequest(appKey int64, target, targetValue, title, body string, extParameters map[string]string) *push.PushRequest {
	request := push.CreatePushRequest()
	request.AppKey = requests.NewInteger(int(appKey))
	request.Target = target
	request.TargetValue = targetValue
	request.Title = title
	request.Body = body
	request.DeviceType = "ALL"  // iOS & Android
	request.PushType = "NOTICE" // 通知

	// 扩展参数 (JSON 序列化)
	if len(extParameters) > 0 {
		extJSON, _ := json.Marshal(extParameters)
		request.AndroidExtParameters = string(extJSON)
		request.IOSExtParameters = string(extJSON)
	}
	return request
}
