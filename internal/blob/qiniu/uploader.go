// Package qiniu implements the blob relocation target on Qiniu object
// storage, where relocated images are served from a CDN domain.
package qiniu

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
)

const tokenTTLSeconds = 3600

type Config struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Domain    string
}

// Configured reports whether all credentials are present; the uploader
// is optional and images keep their original URLs without it.
func (c Config) Configured() bool {
	return c.AccessKey != "" && c.SecretKey != "" && c.Bucket != "" && c.Domain != ""
}

type Uploader struct {
	mac      *qbox.Mac
	uploader *storage.FormUploader
	bucket   string
	domain   string
	logger   *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Uploader {
	return &Uploader{
		mac:      qbox.NewMac(cfg.AccessKey, cfg.SecretKey),
		uploader: storage.NewFormUploader(&storage.Config{UseHTTPS: true}),
		bucket:   cfg.Bucket,
		domain:   strings.TrimRight(cfg.Domain, "/"),
		logger:   logger.With("target", "qiniu"),
	}
}

// Validate checks that an upload token can be minted for the bucket.
func (u *Uploader) Validate(_ context.Context) error {
	policy := storage.PutPolicy{Scope: u.bucket, Expires: tokenTTLSeconds}
	if token := policy.UploadToken(u.mac); token == "" {
		return fmt.Errorf("qiniu: empty upload token for bucket %s", u.bucket)
	}
	return nil
}

// Put uploads the bytes under key, overwrite allowed so identical
// content converges on one object, and returns the public URL.
func (u *Uploader) Put(ctx context.Context, key string, data []byte) (string, error) {
	policy := storage.PutPolicy{
		Scope:   fmt.Sprintf("%s:%s", u.bucket, key),
		Expires: tokenTTLSeconds,
	}
	token := policy.UploadToken(u.mac)

	var ret storage.PutRet
	err := u.uploader.Put(ctx, &ret, token, key, bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	u.logger.Debug("blob uploaded", "key", key, "bytes", len(data))
	return u.publicURL(key), nil
}

// publicURL builds the serving URL, always HTTPS.
func (u *Uploader) publicURL(key string) string {
	domain := u.domain
	switch {
	case strings.HasPrefix(domain, "http://"):
		domain = "https://" + strings.TrimPrefix(domain, "http://")
	case !strings.HasPrefix(domain, "https://"):
		domain = "https://" + domain
	}
	return domain + "/" + key
}
