package repositories

import (
	"context"
	stderrors "errors"

	"github.com/mroshb/red_social/internal/models"
	"github.com/mroshb/red_social/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const friendRequestMessage = "Tienes una nueva solicitud de amistad."

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// SendFriendRequest creates a pending request and the recipient's
// notification. The existence check, both inserts and the unique pair index
// share one transaction, so concurrent senders cannot both succeed.
// Returns ALREADY_EXISTS when any request exists between the two users.
func (r *FriendRepository) SendFriendRequest(ctx context.Context, requesterID, recipientID uint) (*models.FriendRequest, error) {
	if requesterID == 0 || recipientID == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "user ids are required")
	}
	if requesterID == recipientID {
		return nil, errors.New(errors.ErrCodeValidation, "cannot send a friend request to yourself")
	}

	request := &models.FriendRequest{
		SolicitanteID: requesterID,
		ReceptorID:    recipientID,
		Estado:        models.FriendRequestPending,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.FriendRequest{}).
			Where(
				"(id_solicitante = ? AND id_receptor = ?) OR (id_solicitante = ? AND id_receptor = ?)",
				requesterID, recipientID, recipientID, requesterID,
			).Count(&count).Error
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check existing friend request")
		}
		if count > 0 {
			return errors.New(errors.ErrCodeAlreadyExists, "friend request already exists or already friends")
		}

		if err := tx.Omit(clause.Associations).Create(request).Error; err != nil {
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.Wrap(err, errors.ErrCodeAlreadyExists, "friend request already exists or already friends")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friend request")
		}

		notification := &models.Notification{
			UsuarioID:   recipientID,
			Tipo:        models.NotificationFriendRequest,
			Mensaje:     friendRequestMessage,
			SolicitudID: &request.ID,
		}
		if err := tx.Omit(clause.Associations).Create(notification).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friend request notification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// GetFriendRequest retrieves a friend request by ID
func (r *FriendRepository) GetFriendRequest(ctx context.Context, requestID uint) (*models.FriendRequest, error) {
	var request models.FriendRequest
	result := r.db.WithContext(ctx).First(&request, requestID)

	if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "friend request not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get friend request")
	}

	return &request, nil
}

// AcceptFriendRequest materializes the friendship, notifies the requester
// and marks the request accepted. All three writes commit together or not
// at all. Non-pending requests are refused with INVALID_STATE so a second
// accept never inserts a duplicate friendship.
func (r *FriendRepository) AcceptFriendRequest(ctx context.Context, requestID uint, message string) (*models.FriendRequest, error) {
	var request models.FriendRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.First(&request, requestID)
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return errors.New(errors.ErrCodeNotFound, "friend request not found")
		}
		if result.Error != nil {
			return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get friend request")
		}
		if !request.IsPending() {
			return errors.New(errors.ErrCodeInvalidState, "friend request already processed")
		}

		friendship := &models.Friendship{
			UsuarioID: request.SolicitanteID,
			AmigoID:   request.ReceptorID,
		}
		if err := tx.Omit(clause.Associations).Create(friendship).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create friendship")
		}

		notification := &models.Notification{
			UsuarioID:   request.SolicitanteID,
			Tipo:        models.NotificationFriendRequestAccepted,
			Mensaje:     message,
			SolicitudID: &request.ID,
		}
		if err := tx.Omit(clause.Associations).Create(notification).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create acceptance notification")
		}

		// The estado guard serializes concurrent accepts on the row lock.
		update := tx.Model(&models.FriendRequest{}).
			Where("id = ? AND estado = ?", request.ID, models.FriendRequestPending).
			Update("estado", models.FriendRequestAccepted)
		if update.Error != nil {
			return errors.Wrap(update.Error, errors.ErrCodeInternalError, "failed to accept friend request")
		}
		if update.RowsAffected == 0 {
			return errors.New(errors.ErrCodeInvalidState, "friend request already processed")
		}

		request.Estado = models.FriendRequestAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// RejectFriendRequest rejects a pending friend request. Missing or already
// processed requests yield NOT_FOUND.
func (r *FriendRepository) RejectFriendRequest(ctx context.Context, requestID uint) error {
	result := r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("id = ? AND estado = ?", requestID, models.FriendRequestPending).
		Update("estado", models.FriendRequestRejected)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to reject friend request")
	}

	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "friend request not found or already processed")
	}

	return nil
}

// GetFriendRequestNotifications lists the user's friend request
// notifications with the sender's name and photo, newest first.
func (r *FriendRepository) GetFriendRequestNotifications(ctx context.Context, userID uint) ([]models.NotificationView, error) {
	var views []models.NotificationView

	err := r.db.WithContext(ctx).Table("notificaciones AS n").
		Select(`n.id AS notification_id, n.id_usuario AS user_id, n.tipo AS type, n.mensaje AS message,
			n.fecha AS created_at, s.id AS request_id, s.id_solicitante AS requester_id,
			u.nombre AS requester_name, u.foto_perfil AS requester_photo`).
		Joins("JOIN solicitudes s ON s.id = n.id_solicitud").
		Joins("JOIN users u ON u.id = s.id_solicitante").
		Where("n.id_usuario = ? AND n.tipo = ?", userID, models.NotificationFriendRequest).
		Order("n.fecha DESC").
		Order("n.id DESC").
		Scan(&views).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friend request notifications")
	}

	return views, nil
}

// GetPendingRequests retrieves pending friend requests received by a user
func (r *FriendRepository) GetPendingRequests(ctx context.Context, userID uint) ([]models.PendingRequestView, error) {
	var views []models.PendingRequestView

	err := r.db.WithContext(ctx).Table("solicitudes AS s").
		Select("s.id AS request_id, u.id AS requester_id, u.nombre AS requester_name, u.foto_perfil AS requester_photo").
		Joins("JOIN users u ON u.id = s.id_solicitante").
		Where("s.id_receptor = ? AND s.estado = ?", userID, models.FriendRequestPending).
		Scan(&views).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get pending requests")
	}

	return views, nil
}

// GetFriends retrieves the other party of every friendship the user is in
func (r *FriendRepository) GetFriends(ctx context.Context, userID uint) ([]models.FriendView, error) {
	var friends []models.FriendView

	err := r.db.WithContext(ctx).Table("amigos AS a").
		Select("u.id AS friend_id, u.nombre AS friend_name").
		Joins("JOIN users u ON u.id = CASE WHEN a.usuario_id = ? THEN a.amigo_id ELSE a.usuario_id END", userID).
		Where("(a.usuario_id = ? OR a.amigo_id = ?) AND u.id <> ?", userID, userID, userID).
		Order("u.nombre").
		Scan(&friends).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get friends")
	}

	return friends, nil
}

// CountFriends counts the friendships a user takes part in
func (r *FriendRepository) CountFriends(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("usuario_id = ? OR amigo_id = ?", userID, userID).
		Count(&count).Error

	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternalError, "failed to count friends")
	}

	return count, nil
}

// AreFriends checks if two users are friends
func (r *FriendRepository) AreFriends(ctx context.Context, user1ID, user2ID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where(
			"(usuario_id = ? AND amigo_id = ?) OR (usuario_id = ? AND amigo_id = ?)",
			user1ID, user2ID, user2ID, user1ID,
		).Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check friendship")
	}

	return count > 0, nil
}
