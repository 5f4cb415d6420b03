package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// SheetsStore reads the maintenance log from the Google Sheets values API.
type SheetsStore struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	readRange     string
	apiKey        string
}

// SheetsConfig holds Google Sheets source configuration.
type SheetsConfig struct {
	SpreadsheetID string
	Range         string // e.g. "Sheet1"
	APIKey        string
	BaseURL       string // Default: https://sheets.googleapis.com/v4
	Timeout       time.Duration
}

// NewSheetsStore creates a Google Sheets backed store.
func NewSheetsStore(cfg SheetsConfig) (*SheetsStore, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://sheets.googleapis.com/v4"
	}
	if cfg.Range == "" {
		cfg.Range = "Sheet1"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SheetsStore{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       cfg.BaseURL,
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.Range,
		apiKey:        cfg.APIKey,
	}, nil
}

// valuesResponse is the Sheets values API payload.
type valuesResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// FetchAll retrieves every row of the configured range. The first row is
// treated as the header.
func (s *SheetsStore) FetchAll(ctx context.Context) ([]map[string]string, error) {
	u := fmt.Sprintf("%s/spreadsheets/%s/values/%s?key=%s",
		s.baseURL,
		url.PathEscape(s.spreadsheetID),
		url.PathEscape(s.readRange),
		url.QueryEscape(s.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp valuesResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
			return nil, fmt.Errorf("sheets API error: %s (status: %s)", errResp.Error.Message, errResp.Error.Status)
		}
		return nil, fmt.Errorf("sheets API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var vals valuesResponse
	if err := json.Unmarshal(body, &vals); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return rowsFromValues(vals.Values), nil
}

// rowsFromValues zips a header row with the data rows. Short rows are padded
// with empty strings.
func rowsFromValues(values [][]string) []map[string]string {
	if len(values) < 2 {
		return nil
	}

	header := values[0]
	rows := make([]map[string]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

var _ Store = (*SheetsStore)(nil)
