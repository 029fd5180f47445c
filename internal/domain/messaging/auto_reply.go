package messaging

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/livecommerce/backend/internal/domain/shared"
)

// MatchType decides how an auto-reply keyword is compared with a message
type MatchType string

const (
	MatchExact      MatchType = "exact"
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "starts_with"
)

// IsValid checks if the match type is known
func (m MatchType) IsValid() bool {
	return m == MatchExact || m == MatchContains || m == MatchStartsWith
}

// AutoReply is a keyword-triggered canned response
type AutoReply struct {
	ID        uuid.UUID
	Name      string
	Keywords  []string
	MatchType MatchType
	Response  string
	Priority  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AutoReplyInput holds the editable fields of an auto-reply rule
type AutoReplyInput struct {
	Name      string
	Keywords  []string
	MatchType MatchType
	Response  string
	Priority  int
	Active    bool
}

// NewAutoReply creates an auto-reply rule
func NewAutoReply(in AutoReplyInput) (*AutoReply, error) {
	now := time.Now()
	r := &AutoReply{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
	if err := r.apply(in); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the editable fields of the rule
func (r *AutoReply) Update(in AutoReplyInput) error {
	if err := r.apply(in); err != nil {
		return err
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (r *AutoReply) apply(in AutoReplyInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Rule name cannot be empty")
	}
	if !in.MatchType.IsValid() {
		return shared.NewDomainError("INVALID_MATCH_TYPE", fmt.Sprintf("Unknown match type %q", in.MatchType))
	}
	keywords := normalizeKeywords(in.Keywords)
	if len(keywords) == 0 {
		return shared.NewDomainError("INVALID_KEYWORDS", "At least one keyword is required")
	}
	response := strings.TrimSpace(in.Response)
	if response == "" {
		return shared.NewDomainError("INVALID_RESPONSE", "Response cannot be empty")
	}
	if len(response) > MaxMessageLength {
		return shared.NewDomainError("INVALID_RESPONSE", "Response is too long")
	}
	r.Name = name
	r.Keywords = keywords
	r.MatchType = in.MatchType
	r.Response = response
	r.Priority = in.Priority
	r.Active = in.Active
	return nil
}

// Matches reports whether the message triggers this rule.
// Comparison is case-insensitive on the trimmed message.
func (r *AutoReply) Matches(message string) bool {
	text := strings.ToLower(strings.TrimSpace(message))
	if text == "" {
		return false
	}
	for _, kw := range r.Keywords {
		switch r.MatchType {
		case MatchExact:
			if text == kw {
				return true
			}
		case MatchStartsWith:
			if strings.HasPrefix(text, kw) {
				return true
			}
		case MatchContains:
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}

// SelectAutoReply picks the rule that answers a message: the active matching
// rule with the highest priority, ties going to the oldest rule.
func SelectAutoReply(rules []AutoReply, message string) *AutoReply {
	candidates := make([]AutoReply, 0, len(rules))
	for _, r := range rules {
		if r.Active && r.Matches(message) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})
	winner := candidates[0]
	return &winner
}

func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
