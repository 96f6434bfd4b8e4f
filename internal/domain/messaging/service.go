package messaging

import (
	"context"
	"errors"
	"strings"

	"ems/internal/domain/rbac"
)

// Service gates the message store to the admin-company pairing. Every other
// combination, including employee-tier senders, comes back as ErrForbidden.
type Service struct {
	store *Store
	authz *rbac.Engine
}

func NewService(store *Store, authz *rbac.Engine) *Service {
	return &Service{store: store, authz: authz}
}

func (s *Service) Send(ctx context.Context, actor rbac.Actor, recipient rbac.Peer, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("message body is empty")
	}

	decision, err := s.authz.Authorize(ctx, actor, rbac.ActionSendMessage, rbac.Target{Recipient: &recipient})
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, ErrForbidden
	}

	return s.store.Insert(ctx, actor.Role, actor.ID, recipient.Role, recipient.ID, body)
}

// Thread returns the conversation between the actor and the other party and
// marks the actor's inbound messages read. Only a participant can read a
// thread, so the pairing check mirrors Send.
func (s *Service) Thread(ctx context.Context, actor rbac.Actor, other rbac.Peer) ([]Message, error) {
	if !validPairing(actor.Role, other.Role) {
		return nil, ErrForbidden
	}
	return s.store.ListThread(ctx, actor.Role, actor.ID, other.Role, other.ID)
}

func (s *Service) UnreadCount(ctx context.Context, actor rbac.Actor) (int, error) {
	if actor.Role != rbac.RoleAdmin && actor.Role != rbac.RoleCompany {
		return 0, ErrForbidden
	}
	return s.store.UnreadCount(ctx, actor.Role, actor.ID)
}

func validPairing(a, b rbac.Role) bool {
	return (a == rbac.RoleAdmin && b == rbac.RoleCompany) ||
		(a == rbac.RoleCompany && b == rbac.RoleAdmin)
}
