package objstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rainbow-properties/internal/config"
)

// SupabaseStore uploads blobs to a private Supabase Storage bucket and
// issues signed URLs against it.
type SupabaseStore struct {
	url        string
	serviceKey string
	bucket     string
	client     *http.Client
}

// NewSupabaseStore creates a storage client for the configured bucket.
func NewSupabaseStore(cfg *config.SupabaseConfig, bucket string) *SupabaseStore {
	return &SupabaseStore{
		url:        cfg.URL,
		serviceKey: cfg.ServiceKey,
		bucket:     bucket,
		client:     &http.Client{Timeout: 60 * time.Second},
	}
}

// EnsureBucket creates the private bucket at startup. An already-existing
// bucket is not an error.
func (s *SupabaseStore) EnsureBucket(ctx context.Context) error {
	payload, err := json.Marshal(map[string]interface{}{
		"name":   s.bucket,
		"public": false,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.url+"/storage/v1/bucket", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusConflict || strings.Contains(string(body), "already exists") {
			return nil
		}
		return fmt.Errorf("create bucket %s: %d: %s", s.bucket, resp.StatusCode, string(body))
	}
	return nil
}

func (s *SupabaseStore) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.objectURL(key), data)
	if err != nil {
		return err
	}
	s.setHeaders(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload %s: %d: %s", key, resp.StatusCode, string(body))
	}
	return nil
}

func (s *SupabaseStore) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(map[string]int64{
		"expiresIn": int64(ttl.Seconds()),
	})
	if err != nil {
		return "", err
	}

	signURL := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", s.url, s.bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, signURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("sign %s: %d: %s", key, resp.StatusCode, string(body))
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.Unmarshal(body, &signed); err != nil {
		return "", fmt.Errorf("decode signed url: %w", err)
	}
	return s.url + "/storage/v1" + signed.SignedURL, nil
}

func (s *SupabaseStore) Remove(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key), nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("remove %s: %d: %s", key, resp.StatusCode, string(body))
	}
	return nil
}

func (s *SupabaseStore) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.url, s.bucket, key)
}

func (s *SupabaseStore) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
}
