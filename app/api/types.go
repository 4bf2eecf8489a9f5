package api

import (
	"github.com/lysyi3m/arxiv-favorites/app/favorites"
)

type AppenderInterface interface {
	Append(action string, paper favorites.Paper) error
}

var _ AppenderInterface = (*favorites.Appender)(nil)

type ProjectorInterface interface {
	Project() ([]favorites.Paper, error)
}

var _ ProjectorInterface = (*favorites.Projector)(nil)

type Handler struct {
	appender  AppenderInterface
	projector ProjectorInterface
}

type FavoriteEventRequest struct {
	Action string          `json:"action" binding:"required"`
	Paper  favorites.Paper `json:"paper"`
}

type FavoritesResponse struct {
	Favorites []favorites.Paper `json:"favorites"`
	Count     int               `json:"count"`
	UpdatedAt string            `json:"updated_at"`
}
