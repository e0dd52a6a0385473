package uploader

import (
	"ecommerce_api/internal/pkg/config"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// ErrUnsupportedType 非图片文件
var ErrUnsupportedType = errors.New("unsupported file type")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Uploader interface {
	UploadFile(file *multipart.FileHeader) (string, error)
}

// objectPutter oss.Bucket 的子集
type objectPutter interface {
	PutObject(objectKey string, reader io.Reader, options ...oss.Option) error
}

type AliyunOSSUploader struct {
	bucket objectPutter
	config config.OSSConfig
	prefix string
	now    func() time.Time
}

// NewAliyunOSSUploader 创建商品图片上传器，未配置时返回 nil, nil
func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	if cfg.Endpoint == "" || cfg.BucketName == "" {
		return nil, nil
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "create oss client")
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, errors.Wrap(err, "open oss bucket")
	}

	return &AliyunOSSUploader{
		bucket: bucket,
		config: cfg,
		prefix: "products",
		now:    time.Now,
	}, nil
}

func (u *AliyunOSSUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExt[ext] {
		return "", errors.Wrap(ErrUnsupportedType, file.Filename)
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.Wrap(err, "open upload")
	}
	defer src.Close()

	// products/YYYYMMDD/uuid.ext
	key := fmt.Sprintf("%s/%s/%s%s", u.prefix, u.now().UTC().Format("20060102"), uuid.New().String(), ext)
	if err := u.bucket.PutObject(key, src); err != nil {
		return "", errors.Wrap(err, "put object")
	}

	// bucket 需为 public-read 或挂载 CDN
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, key), nil
}
