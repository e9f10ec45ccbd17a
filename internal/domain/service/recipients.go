package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Badsnus/events-backend/internal/domain/entity"
)

// RecipientSet is a set of email addresses compared by exact string equality.
type RecipientSet map[string]struct{}

func (s RecipientSet) Add(emails ...string) {
	for _, email := range emails {
		if strings.TrimSpace(email) == "" {
			continue
		}
		s[email] = struct{}{}
	}
}

func (s RecipientSet) Contains(email string) bool {
	_, ok := s[email]
	return ok
}

// List returns the addresses in lexical order.
func (s RecipientSet) List() []string {
	list := make([]string, 0, len(s))
	for email := range s {
		list = append(list, email)
	}
	sort.Strings(list)
	return list
}

// ParseRecipientsList splits a comma separated list, trimming entries and dropping empty ones.
func ParseRecipientsList(list string) []string {
	var emails []string
	for _, part := range strings.Split(list, ",") {
		if email := strings.TrimSpace(part); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

type recipientUserStorage interface {
	GetAllEmails(ctx context.Context) ([]string, error)
}

type RecipientResolver struct {
	userStorage recipientUserStorage
}

func NewRecipientResolver(userStorage recipientUserStorage) *RecipientResolver {
	return &RecipientResolver{
		userStorage: userStorage,
	}
}

// Resolve merges the manual recipients list with every registered user's email
// when the config asks for it.
func (r *RecipientResolver) Resolve(ctx context.Context, cfg *entity.EmailNotificationConfig) (RecipientSet, error) {
	recipients := make(RecipientSet)
	if cfg == nil {
		return recipients, nil
	}

	recipients.Add(ParseRecipientsList(cfg.RecipientsList)...)

	if cfg.SendToAllUsers {
		emails, err := r.userStorage.GetAllEmails(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load user emails: %w", err)
		}
		recipients.Add(emails...)
	}

	return recipients, nil
}
