// pkg/recorder/sheetdb.go

package recorder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// SheetDB appends entries to a spreadsheet through a SheetDB endpoint.
type SheetDB struct {
	url    string
	client *http.Client
}

// NewSheetDB returns a SheetDB recorder posting to url. A nil client uses
// http.DefaultClient.
func NewSheetDB(url string, client *http.Client) *SheetDB {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetDB{url: url, client: client}
}

// Record implements Recorder.
func (s *SheetDB) Record(ctx context.Context, e Entry) error {
	body, err := json.Marshal(map[string]any{"data": e.Row()})
	if err != nil {
		return fmt.Errorf("sheetdb: encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sheetdb: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sheetdb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sheetdb: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
