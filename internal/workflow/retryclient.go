package workflow

import (
	"context"

	"ndnc-verifier/constants"
	"ndnc-verifier/internal/common"
	"ndnc-verifier/internal/dashboard"
	"ndnc-verifier/internal/retry"
)

// retryClient decorates a dashboard client with bounded retries on
// transient failures. Login is not retried here: it may block for minutes
// on interactive OTP entry, and a failed login is session fatal anyway.
type retryClient struct {
	inner dashboard.Client
	cfg   retry.Config
}

func withRetries(inner dashboard.Client, cfg retry.Config) dashboard.Client {
	cfg.RetryableErrors = []error{common.ErrTransient}
	return &retryClient{inner: inner, cfg: cfg}
}

func (c *retryClient) Login(ctx context.Context) error {
	return c.inner.Login(ctx)
}

func (c *retryClient) Search(ctx context.Context, phone string) ([]dashboard.Record, error) {
	return retry.DoWithResult(ctx, c.cfg, func() ([]dashboard.Record, error) {
		return c.inner.Search(ctx, phone)
	})
}

func (c *retryClient) Open(ctx context.Context, rec dashboard.Record) (dashboard.RecordDetail, error) {
	return retry.DoWithResult(ctx, c.cfg, func() (dashboard.RecordDetail, error) {
		return c.inner.Open(ctx, rec)
	})
}

func (c *retryClient) Download(ctx context.Context, detail dashboard.RecordDetail) (string, error) {
	return retry.DoWithResult(ctx, c.cfg, func() (string, error) {
		return c.inner.Download(ctx, detail)
	})
}

func (c *retryClient) Upload(ctx context.Context, detail dashboard.RecordDetail, localPath string) error {
	return retry.Do(ctx, c.cfg, func() error {
		return c.inner.Upload(ctx, detail, localPath)
	})
}

func (c *retryClient) Confirm(ctx context.Context, detail dashboard.RecordDetail) error {
	return retry.Do(ctx, c.cfg, func() error {
		return c.inner.Confirm(ctx, detail)
	})
}

func (c *retryClient) Status(ctx context.Context, detail dashboard.RecordDetail) (constants.RecordStatus, error) {
	return retry.DoWithResult(ctx, c.cfg, func() (constants.RecordStatus, error) {
		return c.inner.Status(ctx, detail)
	})
}
