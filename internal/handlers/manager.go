package handlers

import (
	"github.com/mroshb/red_social/internal/config"
	"github.com/mroshb/red_social/internal/repositories"
	"github.com/mroshb/red_social/internal/services"
)

type HandlerManager struct {
	Config     *config.Config
	UserRepo   *repositories.UserRepository
	Friendship *services.FriendshipService
	Profiles   *services.ProfileService
}

func NewHandlerManager(
	cfg *config.Config,
	userRepo *repositories.UserRepository,
	friendship *services.FriendshipService,
	profiles *services.ProfileService,
) *HandlerManager {
	return &HandlerManager{
		Config:     cfg,
		UserRepo:   userRepo,
		Friendship: friendship,
		Profiles:   profiles,
	}
}
