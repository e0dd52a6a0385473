package common

import (
	"ecommerce_api/internal/pkg/uploader"
	"ecommerce_api/pkg/logger"
	"ecommerce_api/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const maxFilesPerUpload = 10

// UploadHandler 商品图片上传
type UploadHandler struct {
	uploader uploader.Uploader
}

// NewUploadHandler uploader 为空时接口返回 503
func NewUploadHandler(u uploader.Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

// UploadImages 上传商品图片 (支持批量)
// @Summary 上传商品图片到 OSS（管理员，支持批量）
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param files formData file true "Images"
// @Success 200 {object} response.Response{data=[]string} "URLs"
// @Router /products/images [post]
func (h *UploadHandler) UploadImages(c *gin.Context) {
	if h.uploader == nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "Image storage is not configured")
		return
	}

	// 解析 multipart form
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No files uploaded")
		return
	}
	if len(files) > maxFilesPerUpload {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Too many files")
		return
	}

	// 按索引写入保证顺序，限制并发数为 5
	urls := make([]string, len(files))
	var g errgroup.Group
	g.SetLimit(5)
	for i, file := range files {
		g.Go(func() error {
			url, err := h.uploader.UploadFile(file)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, uploader.ErrUnsupportedType) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Only image files are allowed")
			return
		}
		logger.Log.Error("image upload failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Upload failed")
		return
	}

	response.Success(c, urls)
}
