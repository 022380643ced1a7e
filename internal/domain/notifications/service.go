package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/platform/email"
)

const (
	KindLeaveDecision     = "leave_decision"
	KindTimesheetDecision = "timesheet_decision"
	KindPayslipReady      = "payslip_ready"
)

type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type Service struct {
	DB     *pgxpool.Pool
	Mailer *email.Sender
}

func New(db *pgxpool.Pool, mailer *email.Sender) *Service {
	return &Service{DB: db, Mailer: mailer}
}

// Notify stores an in-app notification and best-effort emails the user.
// Email failure is logged, never propagated: the decision that triggered the
// notification has already happened.
func (s *Service) Notify(ctx context.Context, userID, kind, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (user_id, kind, title, body)
    VALUES ($1,$2,$3,$4)
  `, userID, kind, title, body)
	if err != nil {
		return err
	}

	if s.Mailer != nil {
		var address string
		if err := s.DB.QueryRow(ctx, "SELECT email FROM users WHERE id = $1", userID).Scan(&address); err == nil {
			if err := s.Mailer.Send(address, title, body); err != nil {
				slog.Warn("notification email failed", "userId", userID, "err", err)
			}
		}
	}
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, kind, title, body, read, created_at
    FROM notifications
    WHERE user_id = $1 AND ($2 = FALSE OR read = FALSE)
    ORDER BY created_at DESC
    LIMIT $3 OFFSET $4
  `, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read = TRUE
    WHERE id = $1 AND user_id = $2
  `, notificationID, userID)
	return err
}
