package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ndnc-verifier/constants"
)

// fixtureRecord is the on-disk shape of one replay record.
type fixtureRecord struct {
	ID           string `json:"id"`
	Phone        string `json:"phone"`
	Date         string `json:"date"`
	Telemarketer string `json:"telemarketer"`
	Status       string `json:"status"`
	DocumentURL  string `json:"document_url"`
	// Document points at a local file standing in for the attached
	// dashboard document.
	Document string `json:"document"`
}

type fixtureFile struct {
	Records []fixtureRecord `json:"records"`
}

// ReplayClient serves Client calls from a JSON fixture file. It exists for
// dry runs and tests; it performs no network I/O.
type ReplayClient struct {
	records  []fixtureRecord
	scratch  string
	logger   *slog.Logger
	LoggedIn bool

	// Confirmed collects the record IDs Confirm was called with.
	Confirmed []string
	// Uploaded maps record ID -> uploaded local path.
	Uploaded map[string]string
}

// NewReplayClient loads and schema-validates a fixture file. scratchDir
// receives "downloaded" documents.
func NewReplayClient(fixturePath, scratchDir string, logger *slog.Logger) (*ReplayClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	if err := validateFixture(data); err != nil {
		return nil, err
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	logger.Info("replay fixture loaded", "path", fixturePath, "records", len(f.Records))
	return &ReplayClient{
		records:  f.Records,
		scratch:  scratchDir,
		logger:   logger,
		Uploaded: map[string]string{},
	}, nil
}

func (c *ReplayClient) Login(ctx context.Context) error {
	c.LoggedIn = true
	return nil
}

func (c *ReplayClient) Search(ctx context.Context, phone string) ([]Record, error) {
	var out []Record
	for _, r := range c.records {
		if r.Phone != phone {
			continue
		}
		out = append(out, Record{
			ID:           r.ID,
			Date:         r.Date,
			Telemarketer: r.Telemarketer,
			Status:       constants.RecordStatus(r.Status),
			HasDocument:  r.Document != "" || r.DocumentURL != "",
		})
	}
	c.logger.Debug("replay search", "phone", phone, "hits", len(out))
	return out, nil
}

func (c *ReplayClient) Open(ctx context.Context, rec Record) (RecordDetail, error) {
	for _, r := range c.records {
		if r.ID == rec.ID {
			return RecordDetail{Record: rec, DocumentURL: r.DocumentURL}, nil
		}
	}
	return RecordDetail{}, fmt.Errorf("record %s not in fixture", rec.ID)
}

func (c *ReplayClient) Download(ctx context.Context, detail RecordDetail) (string, error) {
	for _, r := range c.records {
		if r.ID != detail.ID {
			continue
		}
		if r.Document == "" {
			return "", fmt.Errorf("record %s has no attached document", detail.ID)
		}
		src, err := os.ReadFile(r.Document)
		if err != nil {
			return "", fmt.Errorf("read fixture document: %w", err)
		}
		dst := filepath.Join(c.scratch, filepath.Base(r.Document))
		if err := os.WriteFile(dst, src, 0o644); err != nil {
			return "", fmt.Errorf("write scratch copy: %w", err)
		}
		return dst, nil
	}
	return "", fmt.Errorf("record %s not in fixture", detail.ID)
}

func (c *ReplayClient) Upload(ctx context.Context, detail RecordDetail, localPath string) error {
	c.Uploaded[detail.ID] = localPath
	return nil
}

func (c *ReplayClient) Confirm(ctx context.Context, detail RecordDetail) error {
	c.Confirmed = append(c.Confirmed, detail.ID)
	return nil
}

func (c *ReplayClient) Status(ctx context.Context, detail RecordDetail) (constants.RecordStatus, error) {
	for _, r := range c.records {
		if r.ID == detail.ID {
			return constants.RecordStatus(r.Status), nil
		}
	}
	return constants.StatusUnknown, nil
}
