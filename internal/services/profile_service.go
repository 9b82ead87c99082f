package services

import (
	"context"

	"github.com/mroshb/red_social/internal/models"
	"github.com/mroshb/red_social/internal/repositories"
)

type ProfileService struct {
	userRepo   *repositories.UserRepository
	friendRepo *repositories.FriendRepository
}

func NewProfileService(userRepo *repositories.UserRepository, friendRepo *repositories.FriendRepository) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.friendRepo.CountFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:          user.ID,
		Nombre:      user.Nombre,
		FotoPerfil:  user.FotoPerfil,
		FriendCount: count,
	}, nil
}
