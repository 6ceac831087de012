// Package inbox holds inbound contact-form submissions and their reply
// threads under the "contact:" namespace. Messages are never deleted.
package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rainbow-properties/internal/kvstore"
	"rainbow-properties/internal/models"
)

const keyPrefix = "contact:"

// ErrNotFound is returned for operations on nonexistent message ids.
var ErrNotFound = errors.New("message not found")

// ErrInvalid is returned when a submission misses a required field.
var ErrInvalid = errors.New("invalid submission")

// Service maintains the contact-message inbox.
type Service struct {
	store kvstore.Store
}

// NewService creates an inbox over the given store.
func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

// SubmitInput is a public contact-form submission. Phone is optional.
type SubmitInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit validates and stores a new message with status "new" and priority
// "medium". Nothing is stored when validation fails.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*models.ContactMessage, error) {
	for field, value := range map[string]string{
		"name":    in.Name,
		"email":   in.Email,
		"subject": in.Subject,
		"message": in.Message,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalid, field)
		}
	}

	now := time.Now().UTC()
	msg := models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    models.MessageStatusNew,
		Priority:  models.PriorityMedium,
		Responses: []models.MessageResponse{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Set(ctx, keyPrefix+msg.ID, msg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	return &msg, nil
}

// List returns all messages sorted newest-first — the one server-sorted
// list in the system.
func (s *Service) List(ctx context.Context) ([]models.ContactMessage, error) {
	entries, err := s.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}

	messages := make([]models.ContactMessage, 0, len(entries))
	for _, entry := range entries {
		var msg models.ContactMessage
		if len(entry.Value) == 0 || json.Unmarshal(entry.Value, &msg) != nil {
			continue
		}
		msg.ID = strings.TrimPrefix(entry.Key, keyPrefix)
		messages = append(messages, msg)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

// UpdateStatus overwrites the message status. No transition rules apply.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	msg, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	msg.Status = status
	msg.UpdatedAt = time.Now().UTC()
	if err := s.store.Set(ctx, keyPrefix+id, msg); err != nil {
		return fmt.Errorf("store message: %w", err)
	}
	return nil
}

// Reply appends an admin response and unconditionally forces the status to
// in_progress, even over resolved or closed. The sendEmail flag is logged
// only; no delivery is configured.
func (s *Service) Reply(ctx context.Context, id, message string, sendEmail bool) error {
	msg, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	msg.Responses = append(msg.Responses, models.MessageResponse{
		ID:          uuid.NewString(),
		Message:     message,
		IsFromAdmin: true,
		AuthorName:  "Admin",
		CreatedAt:   time.Now().UTC(),
	})
	msg.Status = models.MessageStatusInProgress
	msg.UpdatedAt = time.Now().UTC()

	if err := s.store.Set(ctx, keyPrefix+id, msg); err != nil {
		return fmt.Errorf("store message: %w", err)
	}

	if sendEmail {
		zap.S().Infow("email delivery not configured, reply stored only",
			"to", msg.Email, "messageId", id)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id string) (*models.ContactMessage, error) {
	raw, err := s.store.Get(ctx, keyPrefix+id)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch message: %w", err)
	}

	var msg models.ContactMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	msg.ID = id
	return &msg, nil
}
