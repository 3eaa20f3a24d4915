// Package upload 把渲染完成的卡面图推送到一个 HTTP 对象存储端点。
package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	envBaseURL = "CARDFORGE_UPLOAD_URL"
	envToken   = "CARDFORGE_UPLOAD_TOKEN"

	defaultTimeout = 30 * time.Second
)

// Uploader 通过 HTTP PUT 上传对象。对象名带 uuid 后缀避免覆盖。
type Uploader struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// NewFromEnv 从进程环境（自动加载工作目录下的 .env）构建上传器。
// 未配置 CARDFORGE_UPLOAD_URL 时返回错误。
func NewFromEnv(logger *zap.Logger) (*Uploader, error) {
	// .env 缺失不是错误，环境变量可能直接给出。
	_ = godotenv.Load()

	baseURL := os.Getenv(envBaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("upload: 未配置 %s", envBaseURL)
	}
	return New(baseURL, os.Getenv(envToken), logger), nil
}

// New 用显式的端点与令牌构建上传器。
func New(baseURL, token string, logger *zap.Logger) *Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Uploader{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// Put 上传一个对象，返回最终的对象 URL。
// name 是人类可读的前缀，最终对象名为 name-<uuid>.png。
func (u *Uploader) Put(ctx context.Context, name string, data []byte) (string, error) {
	object := fmt.Sprintf("%s-%s.png", name, uuid.NewString())
	target, err := url.JoinPath(u.baseURL, object)
	if err != nil {
		return "", fmt.Errorf("upload: 拼接对象地址失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("upload: 构建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "image/png")
	if u.token != "" {
		req.Header.Set("Authorization", "Bearer "+u.token)
	}

	start := time.Now()
	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: 上传 %s 失败: %w", object, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload: 上传 %s 返回 %s", object, resp.Status)
	}

	u.logger.Info("uploaded card image",
		zap.String("object", path.Base(object)),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))
	return target, nil
}
