package kvstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"rainbow-properties/internal/config"
)

const kvTable = "kv_store"

// SupabaseStore talks to the hosted PostgREST endpoint backing the
// kv_store table (key text primary key, value jsonb).
type SupabaseStore struct {
	url        string
	serviceKey string
	client     *http.Client
}

// NewSupabaseStore creates a store client using the service-role key.
func NewSupabaseStore(cfg *config.SupabaseConfig) *SupabaseStore {
	return &SupabaseStore{
		url:        cfg.URL,
		serviceKey: cfg.ServiceKey,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *SupabaseStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("key", "eq."+key)
	query.Set("select", "value")

	body, err := s.do(ctx, http.MethodGet, s.restURL(query), nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode kv row: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0].Value, nil
}

func (s *SupabaseStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	row := []map[string]json.RawMessage{{
		"key":   json.RawMessage(fmt.Sprintf("%q", key)),
		"value": raw,
	}}
	payload, err := json.Marshal(row)
	if err != nil {
		return err
	}

	headers := map[string]string{"Prefer": "resolution=merge-duplicates"}
	_, err = s.do(ctx, http.MethodPost, s.restURL(nil), bytes.NewReader(payload), headers)
	return err
}

func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	query := url.Values{}
	query.Set("key", "eq."+key)

	_, err := s.do(ctx, http.MethodDelete, s.restURL(query), nil, nil)
	return err
}

func (s *SupabaseStore) GetByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	query := url.Values{}
	query.Set("key", "like."+prefix+"*")
	query.Set("select", "key,value")

	body, err := s.do(ctx, http.MethodGet, s.restURL(query), nil, nil)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode kv rows: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, Entry{Key: row.Key, Value: row.Value})
	}
	return entries, nil
}

func (s *SupabaseStore) restURL(query url.Values) string {
	u := s.url + "/rest/v1/" + kvTable
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (s *SupabaseStore) do(ctx context.Context, method, rawURL string, body io.Reader, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("supabase error %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}
