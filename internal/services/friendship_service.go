package services

import (
	"context"
	"fmt"

	"github.com/mroshb/red_social/internal/metrics"
	"github.com/mroshb/red_social/internal/models"
	"github.com/mroshb/red_social/internal/repositories"
	"github.com/mroshb/red_social/internal/security"
	"github.com/mroshb/red_social/pkg/errors"
	"github.com/mroshb/red_social/pkg/logger"
)

// SendResult is the outcome of a successful SendRequest call.
type SendResult int

const (
	SendResultSent SendResult = iota
	SendResultDuplicate
)

// Message returns the text shown to the sender.
func (r SendResult) Message() string {
	if r == SendResultDuplicate {
		return "Ya existe una solicitud o son amigos."
	}
	return "Solicitud enviada con éxito."
}

func (r SendResult) String() string {
	if r == SendResultDuplicate {
		return "duplicate"
	}
	return "sent"
}

const (
	acceptedMessageFormat = "¡%s aceptó tu solicitud de amistad!"
	anonymousDisplayName  = "Un usuario"
)

// FriendshipService owns the friend request lifecycle. It keeps no state
// between calls; the database handle behind the repository belongs to the
// caller.
type FriendshipService struct {
	repo *repositories.FriendRepository
}

func NewFriendshipService(repo *repositories.FriendRepository) *FriendshipService {
	return &FriendshipService{repo: repo}
}

// SendRequest sends a friend request from requesterID to recipientID.
// A request already existing between the pair, in either direction and any
// status, yields SendResultDuplicate without touching any row. The error is
// non-nil only for invalid ids (VALIDATION_ERROR) or storage failures.
func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, recipientID uint) (SendResult, error) {
	request, err := s.repo.SendFriendRequest(ctx, requesterID, recipientID)
	switch {
	case err == nil:
		metrics.FriendRequestsTotal.WithLabelValues("sent").Inc()
		logger.Info("Friend request sent",
			"request_id", request.ID, "requester_id", requesterID, "recipient_id", recipientID)
		return SendResultSent, nil
	case errors.HasCode(err, errors.ErrCodeAlreadyExists):
		metrics.FriendRequestsTotal.WithLabelValues("duplicate").Inc()
		logger.Debug("Duplicate friend request ignored", "requester_id", requesterID, "recipient_id", recipientID)
		return SendResultDuplicate, nil
	case errors.HasCode(err, errors.ErrCodeValidation):
		metrics.FriendRequestsTotal.WithLabelValues("invalid").Inc()
		return SendResultSent, err
	default:
		metrics.FriendRequestsTotal.WithLabelValues("error").Inc()
		logger.Error("Failed to send friend request",
			"requester_id", requesterID, "recipient_id", recipientID, "error", err)
		return SendResultSent, err
	}
}

// ListFriendRequestNotifications returns the user's friend request
// notifications, most recent first.
func (s *FriendshipService) ListFriendRequestNotifications(ctx context.Context, userID uint) ([]models.NotificationView, error) {
	return s.repo.GetFriendRequestNotifications(ctx, userID)
}

// ListPendingRequests returns the requests waiting for userID's answer.
func (s *FriendshipService) ListPendingRequests(ctx context.Context, userID uint) ([]models.PendingRequestView, error) {
	return s.repo.GetPendingRequests(ctx, userID)
}

// GetRequest returns a single request, used to check who may act on it.
func (s *FriendshipService) GetRequest(ctx context.Context, requestID uint) (*models.FriendRequest, error) {
	return s.repo.GetFriendRequest(ctx, requestID)
}

// AcceptRequest accepts a pending request on behalf of its recipient,
// whose display name goes into the requester's notification. It reports
// true only when the friendship, the notification and the status change
// all committed. Missing or already processed requests report false.
func (s *FriendshipService) AcceptRequest(ctx context.Context, requestID uint, actingUserDisplayName string) bool {
	return s.AcceptRequestErr(ctx, requestID, actingUserDisplayName) == nil
}

// AcceptRequestErr is AcceptRequest with the cause kept: NOT_FOUND or
// INVALID_STATE when the request is not actionable, INTERNAL_ERROR when the
// transaction rolled back.
func (s *FriendshipService) AcceptRequestErr(ctx context.Context, requestID uint, actingUserDisplayName string) error {
	name := security.SanitizeDisplayName(actingUserDisplayName)
	if name == "" {
		name = anonymousDisplayName
	}

	request, err := s.repo.AcceptFriendRequest(ctx, requestID, fmt.Sprintf(acceptedMessageFormat, name))
	if err != nil {
		s.logTransitionFailure("accept", requestID, err)
		return err
	}

	metrics.FriendRequestTransitionsTotal.WithLabelValues("accept", "ok").Inc()
	logger.Info("Friend request accepted",
		"request_id", requestID, "requester_id", request.SolicitanteID, "recipient_id", request.ReceptorID)
	return nil
}

// RejectRequest rejects a pending request. Missing or already processed
// requests report false and change nothing.
func (s *FriendshipService) RejectRequest(ctx context.Context, requestID uint) bool {
	return s.RejectRequestErr(ctx, requestID) == nil
}

// RejectRequestErr is RejectRequest with the cause kept.
func (s *FriendshipService) RejectRequestErr(ctx context.Context, requestID uint) error {
	if err := s.repo.RejectFriendRequest(ctx, requestID); err != nil {
		s.logTransitionFailure("reject", requestID, err)
		return err
	}

	metrics.FriendRequestTransitionsTotal.WithLabelValues("reject", "ok").Inc()
	logger.Info("Friend request rejected", "request_id", requestID)
	return nil
}

// NotActionable reports whether a transition error means the request was
// missing or already processed, as opposed to a storage failure.
func NotActionable(err error) bool {
	code := errors.CodeOf(err)
	return code == errors.ErrCodeNotFound || code == errors.ErrCodeInvalidState
}

// ListFriends returns the other party of each of userID's friendships.
func (s *FriendshipService) ListFriends(ctx context.Context, userID uint) ([]models.FriendView, error) {
	return s.repo.GetFriends(ctx, userID)
}

// AreFriends reports whether the two users share a friendship.
func (s *FriendshipService) AreFriends(ctx context.Context, user1ID, user2ID uint) (bool, error) {
	return s.repo.AreFriends(ctx, user1ID, user2ID)
}

func (s *FriendshipService) logTransitionFailure(action string, requestID uint, err error) {
	switch {
	case NotActionable(err):
		metrics.FriendRequestTransitionsTotal.WithLabelValues(action, "rejected").Inc()
		logger.Warn("Friend request not actionable", "action", action, "request_id", requestID, "code", errors.CodeOf(err))
	default:
		metrics.FriendRequestTransitionsTotal.WithLabelValues(action, "error").Inc()
		logger.Error("Friend request transition rolled back", "action", action, "request_id", requestID, "error", err)
	}
}
