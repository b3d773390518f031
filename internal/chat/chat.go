// Package chat builds the recent-conversation list. The server's summary
// endpoint is the primary source; when it comes back empty the list is
// synthesized from a bounded probe of per-user message histories, and as a
// last resort illustrative placeholder entries are shown instead of a blank
// first-run screen.
package chat

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skillforge/skillforge/internal/api"
)

// At most this many chat-eligible users are probed during the fallback, to
// keep the empty-primary path responsive.
const maxFallbackProbes = 5

// API is the slice of the data-access client this service needs.
// *api.Client satisfies it.
type API interface {
	RecentChats(ctx context.Context) ([]api.RecentChat, error)
	ChatUsers(ctx context.Context) ([]api.User, error)
	ChatHistory(ctx context.Context, partnerID string) ([]api.ChatMessage, error)
}

// Summary is one row of the recent-conversation list. Placeholder rows are
// illustrative only and must not be opened as real conversations.
type Summary struct {
	api.RecentChat
	Placeholder bool
}

type Service struct {
	api API
	log *zap.Logger
}

func NewService(a API, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: a, log: log}
}

// Recent returns the conversation summaries for selfID. Primary endpoint
// first; empty result triggers the history-probe fallback; still-empty falls
// through to placeholders.
func (s *Service) Recent(ctx context.Context, selfID string) ([]Summary, error) {
	primary, err := s.api.RecentChats(ctx)
	if err != nil {
		return nil, err
	}
	if len(primary) > 0 {
		out := make([]Summary, len(primary))
		for i, rc := range primary {
			out[i] = Summary{RecentChat: rc}
		}
		return out, nil
	}

	synthesized, err := s.synthesize(ctx, selfID)
	if err != nil {
		return nil, err
	}
	if len(synthesized) > 0 {
		return synthesized, nil
	}

	s.log.Debug("no conversations found, showing placeholders", zap.String("user", selfID))
	return Placeholders(), nil
}

// synthesize probes a bounded subset of chat-eligible users in parallel and
// builds summaries from any non-empty histories.
func (s *Service) synthesize(ctx context.Context, selfID string) ([]Summary, error) {
	users, err := s.api.ChatUsers(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]api.User, 0, maxFallbackProbes)
	for _, u := range users {
		if u.ID == selfID {
			continue // no self chat
		}
		candidates = append(candidates, u)
		if len(candidates) == maxFallbackProbes {
			break
		}
	}

	results := make([]*Summary, len(candidates))
	var wg sync.WaitGroup
	for i, u := range candidates {
		wg.Add(1)
		go func(i int, u api.User) {
			defer wg.Done()
			history, err := s.api.ChatHistory(ctx, u.ID)
			if err != nil {
				s.log.Debug("history probe failed", zap.String("partner", u.ID), zap.Error(err))
				return
			}
			if len(history) == 0 {
				return
			}
			last := history[len(history)-1]
			results[i] = &Summary{RecentChat: api.RecentChat{
				PartnerID:   u.ID,
				PartnerName: u.Username,
				LastMessage: last.Content,
				LastAt:      last.CreatedAt,
			}}
		}(i, u)
	}
	wg.Wait()

	var out []Summary
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAt.After(out[j].LastAt) })
	return out, nil
}

// Placeholders returns the illustrative first-run rows.
func Placeholders() []Summary {
	now := time.Now()
	return []Summary{
		{RecentChat: api.RecentChat{PartnerName: "Study Buddy", LastMessage: "Find learners to chat with from the directory", LastAt: now}, Placeholder: true},
		{RecentChat: api.RecentChat{PartnerName: "Mentor Match", LastMessage: "Follow someone to start a conversation", LastAt: now.Add(-time.Minute)}, Placeholder: true},
	}
}

// ConversationKey returns the unordered pair key for two user ids.
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
