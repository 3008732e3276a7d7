package service

import (
	"context"
	"fmt"
	"time"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/payment"
	"app/internal/pubsub"
	"app/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PurchaseService coordinates checkout session creation and the enrollment
// side effects of payment confirmation.
type PurchaseService interface {
	// InitiateCheckout opens a checkout session for the course and records a
	// pending purchase. It returns the session's redirect target.
	InitiateCheckout(ctx context.Context, courseID, userID string) (string, error)
	// ConfirmPurchase handles the payment provider's asynchronous confirmation
	// callback: verifies authenticity, marks the purchase, and applies the
	// enrollment.
	ConfirmPurchase(ctx context.Context, payload []byte, signature string) error
}

type purchaseService struct {
	repo           repository.PurchaseRepository
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
	gateway        payment.Gateway
	publisher      pubsub.Publisher
	purchaseLogger zerolog.Logger
}

// NewPurchaseService creates a new PurchaseService. publisher may be nil when
// event publishing is not configured.
func NewPurchaseService(
	repo repository.PurchaseRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	gateway payment.Gateway,
	publisher pubsub.Publisher,
	logger zerolog.Logger,
) PurchaseService {
	return &purchaseService{
		repo:           repo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		gateway:        gateway,
		publisher:      publisher,
		purchaseLogger: logger.With().Str("service", "PurchaseService").Logger(),
	}
}

func (s *purchaseService) InitiateCheckout(ctx context.Context, courseID, userID string) (string, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return "", err
	}
	if course == nil {
		return "", fmt.Errorf("%w: course %s", apperr.ErrNotFound, courseID)
	}

	// The session is created before the purchase record; if session creation
	// fails nothing is persisted.
	session, err := s.gateway.CreateCheckoutSession(ctx, course, userID)
	if err != nil {
		s.purchaseLogger.Error().Err(err).Str("course_id", courseID).Msg("Failed to create checkout session")
		return "", err
	}

	purchase := &model.Purchase{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		UserID:      userID,
		Status:      model.PurchasePending,
		AmountCents: course.PriceCents,
		SessionID:   session.ID,
	}
	if err := s.repo.CreatePurchase(ctx, purchase); err != nil {
		s.purchaseLogger.Error().Err(err).Str("session_id", session.ID).Msg("Failed to persist pending purchase")
		return "", err
	}
	return session.RedirectURL, nil
}

func (s *purchaseService) ConfirmPurchase(ctx context.Context, payload []byte, signature string) error {
	notif, err := s.gateway.VerifyNotification(payload, signature)
	if err != nil {
		// Fails closed: an unverifiable notification touches nothing.
		return err
	}
	if notif == nil {
		// Event type the workflow does not act on; acknowledge and move on.
		return nil
	}

	purchase, err := s.repo.GetPurchaseBySessionID(ctx, notif.SessionID)
	if err != nil {
		return err
	}
	if purchase == nil {
		// The callback is not re-queued by this service.
		s.purchaseLogger.Error().Str("session_id", notif.SessionID).Msg("No purchase matches confirmed session")
		return fmt.Errorf("%w: purchase for session %s", apperr.ErrNotFound, notif.SessionID)
	}

	if !notif.Completed {
		if err := s.repo.UpdatePurchaseStatus(ctx, purchase.ID, model.PurchaseFailed); err != nil {
			s.purchaseLogger.Error().Err(err).Str("purchase_id", purchase.ID).Msg("Failed to mark purchase failed")
			return err
		}
		return nil
	}

	// Two dependent updates without a shared transaction: a purchase marked
	// completed with the enrollment not yet applied is an accepted transient
	// state.
	if err := s.repo.UpdatePurchaseStatus(ctx, purchase.ID, model.PurchaseCompleted); err != nil {
		s.purchaseLogger.Error().Err(err).Str("purchase_id", purchase.ID).Msg("Failed to mark purchase completed")
		return err
	}
	if err := s.userRepo.AddEnrollment(ctx, purchase.UserID, purchase.CourseID); err != nil {
		s.purchaseLogger.Error().Err(err).Str("purchase_id", purchase.ID).Msg("Failed to apply enrollment for completed purchase")
		return err
	}

	if s.publisher != nil {
		event := pubsub.PurchaseEvent{
			PurchaseID:  purchase.ID,
			CourseID:    purchase.CourseID,
			UserID:      purchase.UserID,
			AmountCents: purchase.AmountCents,
			CompletedAt: time.Now().UTC(),
		}
		if _, err := s.publisher.PublishPurchaseCompleted(ctx, event); err != nil {
			// Best-effort: the purchase is complete either way.
			s.purchaseLogger.Error().Err(err).Str("purchase_id", purchase.ID).Msg("Failed to publish purchase event")
		}
	}
	return nil
}
