package messaging

import (
	"errors"
	"time"

	"ems/internal/domain/rbac"
)

// ErrForbidden rejects any exchange outside the admin and company pairing.
var ErrForbidden = errors.New("messaging is restricted to admin and companies")

type Message struct {
	ID            string    `json:"id"`
	SenderRole    rbac.Role `json:"senderRole"`
	SenderID      string    `json:"senderId"`
	RecipientRole rbac.Role `json:"recipientRole"`
	RecipientID   string    `json:"recipientId"`
	Body          string    `json:"body"`
	Read          bool      `json:"read"`
	SentAt        time.Time `json:"sentAt"`
}
