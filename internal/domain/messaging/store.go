package messaging

import (
	"context"

	"ems/internal/domain/rbac"
	"ems/internal/platform/db"
)

type Store struct {
	DB db.Conn
}

func NewStore(conn db.Conn) *Store {
	return &Store{DB: conn}
}

const messageColumns = `
    SELECT id, sender_role, sender_id, recipient_role, recipient_id, body, is_read, sent_at
    FROM messages`

func (s *Store) Insert(ctx context.Context, senderRole rbac.Role, senderID string, recipientRole rbac.Role, recipientID, body string) (*Message, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO messages (sender_role, sender_id, recipient_role, recipient_id, body)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, sender_role, sender_id, recipient_role, recipient_id, body, is_read, sent_at
  `, senderRole, senderID, recipientRole, recipientID, body)

	var m Message
	if err := row.Scan(&m.ID, &m.SenderRole, &m.SenderID, &m.RecipientRole, &m.RecipientID, &m.Body, &m.Read, &m.SentAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListThread returns both directions of one conversation, oldest first, and
// marks the messages addressed to the reader as read in the same transaction.
func (s *Store) ListThread(ctx context.Context, readerRole rbac.Role, readerID string, otherRole rbac.Role, otherID string) ([]Message, error) {
	var out []Message
	err := db.WithinTx(ctx, s.DB, func(q db.Queryer) error {
		rows, err := q.Query(ctx, messageColumns+`
      WHERE (sender_role = $1 AND sender_id = $2 AND recipient_role = $3 AND recipient_id = $4)
         OR (sender_role = $3 AND sender_id = $4 AND recipient_role = $1 AND recipient_id = $2)
      ORDER BY sent_at ASC
    `, readerRole, readerID, otherRole, otherID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var m Message
			if err := rows.Scan(&m.ID, &m.SenderRole, &m.SenderID, &m.RecipientRole, &m.RecipientID, &m.Body, &m.Read, &m.SentAt); err != nil {
				return err
			}
			out = append(out, m)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		_, err = q.Exec(ctx, `
      UPDATE messages
      SET is_read = TRUE
      WHERE recipient_role = $1 AND recipient_id = $2
        AND sender_role = $3 AND sender_id = $4
        AND NOT is_read
    `, readerRole, readerID, otherRole, otherID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UnreadCount(ctx context.Context, recipientRole rbac.Role, recipientID string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM messages
    WHERE recipient_role = $1 AND recipient_id = $2 AND NOT is_read
  `, recipientRole, recipientID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
