package condo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/okfngroup/hr-selfservice/internal/config"
)

// RoomFetcher issues the authenticated room-search call and extracts the
// distinct room-type names from the response.
type RoomFetcher struct {
	client     *http.Client
	bookingURL string
	payload    []byte
}

// NewRoomFetcher creates a fetcher for the configured booking endpoint. The
// search payload is opaque to this package and sent as-is.
func NewRoomFetcher(cfg config.CondoConfig) *RoomFetcher {
	return &RoomFetcher{
		client:     &http.Client{Timeout: cfg.Timeout},
		bookingURL: cfg.BookingURL,
		payload:    []byte(cfg.SearchPayload),
	}
}

type roomRecord struct {
	RoomTypeName string `json:"ROOM_TYPE_NM"`
}

// roomSearchResponse mirrors the upstream result nesting. Pointers
// distinguish an absent level from an empty one.
type roomSearchResponse struct {
	Data *struct {
		Ds *struct {
			Data *struct {
				DsResult json.RawMessage `json:"ds_result"`
			} `json:"Data"`
		} `json:"ds"`
	} `json:"data"`
}

// Fetch queries room availability with the given session ticket and returns
// the deduplicated set of room-type names. Records without a name are
// skipped; an empty set is a valid result.
func (f *RoomFetcher) Fetch(ctx context.Context, ticket Ticket) (map[string]struct{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.bookingURL, bytes.NewReader(f.payload))
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", ticket.CookieHeader())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &QueryError{Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &QueryError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	records, err := parseRoomRecords(body)
	if err != nil {
		return nil, &QueryError{Err: err}
	}

	catalog := make(map[string]struct{})
	for _, rec := range records {
		if rec.RoomTypeName != "" {
			catalog[rec.RoomTypeName] = struct{}{}
		}
	}
	return catalog, nil
}

// parseRoomRecords walks the data.ds.Data.ds_result path and decodes the
// record sequence. Any missing level or a non-sequence result is a shape
// error.
func parseRoomRecords(body []byte) ([]roomRecord, error) {
	var parsed roomSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unexpected response shape: %w", err)
	}
	if parsed.Data == nil || parsed.Data.Ds == nil || parsed.Data.Ds.Data == nil {
		return nil, fmt.Errorf("unexpected response shape: missing data.ds.Data")
	}
	raw := parsed.Data.Ds.Data.DsResult
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("unexpected response shape: missing ds_result")
	}
	var records []roomRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("unexpected response shape: ds_result is not a sequence: %w", err)
	}
	return records, nil
}
