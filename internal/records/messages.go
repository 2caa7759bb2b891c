package records

import (
	"context"
	"fmt"
	"sort"

	"github.com/advocase-dev/advocase-store/pkg/schema"
)

func messageVisibility() Visibility[schema.Message] {
	return func(actor schema.User, m schema.Message) bool {
		if actor.Role == schema.RoleAdmin {
			return true
		}
		return m.SenderID == actor.ID || m.ReceiverID == actor.ID
	}
}

// Messages returns every message the actor participates in.
func (s *Service) Messages(actor schema.User) []schema.Message {
	return s.messages.View(actor, messageVisibility())
}

// SendMessage delivers a message from the actor to another user.
func (s *Service) SendMessage(ctx context.Context, actor schema.User, receiverID, content string, attachments []schema.Attachment) (schema.Message, error) {
	if err := requireCap(actor, CapSendMessage, "send messages"); err != nil {
		return schema.Message{}, err
	}
	msg := schema.Message{
		ID:          s.newID(),
		SenderID:    actor.ID,
		ReceiverID:  receiverID,
		Content:     content,
		Timestamp:   s.now().UTC(),
		Attachments: attachments,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		s.observer.PersistFailed(KeyMessages)
		return msg, err
	}
	s.observer.RecordCreated(KeyMessages)
	s.recordAudit(ctx, actor, "MESSAGE_SEND", "Message", msg.ID, fmt.Sprintf("Message sent to user %s", receiverID), schema.SeverityLow)
	return msg, nil
}

// Conversation returns the actor's exchange with one other user, oldest
// first.
func (s *Service) Conversation(actor schema.User, otherID string) []schema.Message {
	var out []schema.Message
	for _, m := range s.messages.All() {
		if (m.SenderID == actor.ID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == actor.ID) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Conversations summarizes the actor's message threads, one entry per
// counterpart, most recent activity first.
func (s *Service) Conversations(actor schema.User) []schema.Conversation {
	latest := map[string]schema.Message{}
	unread := map[string]int{}
	for _, m := range s.Messages(actor) {
		other := m.ReceiverID
		if m.ReceiverID == actor.ID {
			other = m.SenderID
			if !m.IsRead {
				unread[other]++
			}
		}
		if other == actor.ID {
			continue
		}
		if cur, ok := latest[other]; !ok || m.Timestamp.After(cur.Timestamp) {
			latest[other] = m
		}
	}
	out := make([]schema.Conversation, 0, len(latest))
	for other, m := range latest {
		out = append(out, schema.Conversation{
			OtherUserID: other,
			LastMessage: m,
			UnreadCount: unread[other],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessage.Timestamp.After(out[j].LastMessage.Timestamp)
	})
	return out
}

// UnreadCount totals the actor's unread incoming messages.
func (s *Service) UnreadCount(actor schema.User) int {
	n := 0
	for _, m := range s.messages.All() {
		if m.ReceiverID == actor.ID && !m.IsRead {
			n++
		}
	}
	return n
}

// MarkRead flags every message from senderID to the actor as read.
func (s *Service) MarkRead(ctx context.Context, actor schema.User, senderID string) error {
	var changed bool
	recs := s.messages.All()
	for i, m := range recs {
		if m.SenderID == senderID && m.ReceiverID == actor.ID && !m.IsRead {
			recs[i].IsRead = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := s.messages.Replace(ctx, recs); err != nil {
		s.observer.PersistFailed(KeyMessages)
		return err
	}
	return nil
}
