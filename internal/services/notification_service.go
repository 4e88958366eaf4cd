package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hassaanshah24/minute2.0/internal/models"
	"github.com/hassaanshah24/minute2.0/internal/store"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// NotificationService stores in-app notifications and implements the
// workflow engine's Notifier. Delivery is best effort: failures are logged
// and swallowed, never surfaced to the transition that triggered them.
type NotificationService struct {
	db     *gorm.DB
	ledger store.LedgerStore
	log    zerolog.Logger
}

// NewNotificationService creates a notification service.
func NewNotificationService(db *gorm.DB, log zerolog.Logger) *NotificationService {
	return &NotificationService{db: db, log: log}
}

// TransitionApplied reacts to a committed workflow transition. The next
// current approver is told the minute awaits them; on terminal outcomes the
// creator learns the result.
func (s *NotificationService) TransitionApplied(minute *models.Minute, action string, actorID uint64, targetUserID *uint64) {
	link := fmt.Sprintf("/minutes/%d", minute.MinuteID)

	switch action {
	case models.ActionApprove:
		if minute.Terminal() {
			s.push(minute.CreatedByID, "Minute approved",
				fmt.Sprintf("Minute %s completed its approval chain.", minute.UniqueID),
				link, models.NotifySuccess)
			return
		}
		s.notifyCurrent(minute, link)

	case models.ActionReject:
		s.push(minute.CreatedByID, "Minute rejected",
			fmt.Sprintf("Minute %s was rejected.", minute.UniqueID),
			link, models.NotifyError)

	case models.ActionSubmit, models.ActionMarkTo, models.ActionReturnTo:
		if targetUserID != nil {
			s.push(*targetUserID, "Minute awaiting your action",
				fmt.Sprintf("Minute %s is waiting for your decision.", minute.UniqueID),
				link, models.NotifyInfo)
			return
		}
		s.notifyCurrent(minute, link)
	}
}

// notifyCurrent looks up the minute's current approver and pushes to them.
func (s *NotificationService) notifyCurrent(minute *models.Minute, link string) {
	entry, err := s.ledger.FindCurrent(s.db, minute.MinuteID)
	if err != nil || entry == nil {
		if err != nil {
			s.log.Warn().Err(err).
				Uint64("minute_id", minute.MinuteID).
				Msg("could not resolve current approver for notification")
		}
		return
	}
	s.push(entry.ApproverID, "Minute awaiting your action",
		fmt.Sprintf("Minute %s is waiting for your decision.", minute.UniqueID),
		link, models.NotifyInfo)
}

func (s *NotificationService) push(userID uint64, title, message, link, kind string) {
	n := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Link:    link,
		Type:    kind,
	}
	if err := s.db.Create(&n).Error; err != nil {
		s.log.Warn().Err(err).
			Uint64("user_id", userID).
			Str("title", title).
			Msg("notification write failed")
	}
}

// ListForUser returns a user's notifications, newest first. unreadOnly
// filters to unread ones.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint64, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	err := q.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

// MarkAllRead flags every unread notification of the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// PurgeExpired deletes notifications past their expiry. Run periodically.
func (s *NotificationService) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
