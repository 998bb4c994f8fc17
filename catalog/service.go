// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/stallbook/core"
	"github.com/poiesic/stallbook/storage"
)

// Store is the repository surface the catalog needs for one entity type.
// *indexed.Repository satisfies it.
type Store[T any] interface {
	Exists(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, state T) (T, error)
	Mutate(ctx context.Context, id string, fn func(T) (T, error)) (T, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]T, error)
	EnsureSeed(ctx context.Context) (bool, error)
}

// Service implements the stall catalog operations on top of the stall and
// admin user stores. Every stall operation makes sure the default catalog
// has been seeded first; Login does the same for admin users.
type Service struct {
	stalls Store[core.Stall]
	admins Store[core.AdminUser]
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewService creates a catalog service.
func NewService(stalls Store[core.Stall], admins Store[core.AdminUser], opts ...Option) (*Service, error) {
	if stalls == nil {
		return nil, ErrStallStoreRequired
	}
	if admins == nil {
		return nil, ErrAdminStoreRequired
	}
	s := &Service{
		stalls: stalls,
		admins: admins,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) ensureStalls(ctx context.Context) error {
	seeded, err := s.stalls.EnsureSeed(ctx)
	if err != nil {
		return err
	}
	if seeded {
		s.logger.Info("seeded default stall catalog")
	}
	return nil
}

// ListSummaries returns every stall without its menu, in catalog order.
func (s *Service) ListSummaries(ctx context.Context) ([]core.StallSummary, error) {
	stalls, err := s.ListStalls(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]core.StallSummary, len(stalls))
	for i, stall := range stalls {
		summaries[i] = stall.Summary()
	}
	return summaries, nil
}

// ListStalls returns every stall with its full menu, in catalog order.
func (s *Service) ListStalls(ctx context.Context) ([]core.Stall, error) {
	if err := s.ensureStalls(ctx); err != nil {
		return nil, err
	}
	return s.stalls.List(ctx)
}

// GetStall returns one stall, or ErrStallNotFound.
func (s *Service) GetStall(ctx context.Context, id string) (core.Stall, error) {
	if err := s.ensureStalls(ctx); err != nil {
		return core.Stall{}, err
	}
	stall, err := s.stalls.Get(ctx, id)
	if err != nil {
		return core.Stall{}, stallError(err)
	}
	return stall, nil
}

// CreateStall adds a stall under a fresh ID with an empty rating.
// Placeholder menu IDs are replaced with server IDs.
func (s *Service) CreateStall(ctx context.Context, input core.StallInput) (core.Stall, error) {
	if err := s.ensureStalls(ctx); err != nil {
		return core.Stall{}, err
	}
	stall := stallFromInput(core.NewID(), input, core.Rating{})
	created, err := s.stalls.Create(ctx, stall)
	if err != nil {
		return core.Stall{}, err
	}
	s.logger.Debug("created stall", "id", created.ID, "name", created.Name)
	return created, nil
}

// UpdateStall replaces the editable fields of a stall. The stored rating is
// kept and placeholder menu IDs are replaced.
func (s *Service) UpdateStall(ctx context.Context, id string, input core.StallInput) (core.Stall, error) {
	if err := s.ensureStalls(ctx); err != nil {
		return core.Stall{}, err
	}
	next := stallFromInput(id, input, core.Rating{})
	updated, err := s.stalls.Mutate(ctx, id, func(current core.Stall) (core.Stall, error) {
		next.Rating = current.Rating
		return next, nil
	})
	if err != nil {
		return core.Stall{}, stallError(err)
	}
	return updated, nil
}

// DeleteStall removes a stall, or returns ErrStallNotFound.
func (s *Service) DeleteStall(ctx context.Context, id string) error {
	if err := s.ensureStalls(ctx); err != nil {
		return err
	}
	deleted, err := s.stalls.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrStallNotFound
	}
	s.logger.Debug("deleted stall", "id", id)
	return nil
}

// RateStall folds a submitted score into the stall's rating.
func (s *Service) RateStall(ctx context.Context, id string, rating float64) (core.Stall, error) {
	if err := s.ensureStalls(ctx); err != nil {
		return core.Stall{}, err
	}
	if err := s.requireStall(ctx, id); err != nil {
		return core.Stall{}, err
	}
	updated, err := s.stalls.Mutate(ctx, id, func(current core.Stall) (core.Stall, error) {
		current.Rating = core.CalculateNewRating(current.Rating, rating)
		return current, nil
	})
	if err != nil {
		return core.Stall{}, stallError(err)
	}
	return updated, nil
}

// RateMenuItem folds a submitted score into the rating of one menu item.
// Nothing is written when the stall has no such item.
func (s *Service) RateMenuItem(ctx context.Context, stallID, itemID string, rating float64) (core.Stall, error) {
	if err := s.ensureStalls(ctx); err != nil {
		return core.Stall{}, err
	}
	if err := s.requireStall(ctx, stallID); err != nil {
		return core.Stall{}, err
	}
	updated, err := s.stalls.Mutate(ctx, stallID, func(current core.Stall) (core.Stall, error) {
		next, found := core.ApplyMenuItemRating(current, itemID, rating)
		if !found {
			return current, ErrMenuItemNotFound
		}
		return next, nil
	})
	if err != nil {
		if errors.Is(err, ErrMenuItemNotFound) {
			return core.Stall{}, err
		}
		return core.Stall{}, stallError(err)
	}
	return updated, nil
}

// Login checks a username and password against the admin users.
func (s *Service) Login(ctx context.Context, username, password string) (core.AdminUser, error) {
	seeded, err := s.admins.EnsureSeed(ctx)
	if err != nil {
		return core.AdminUser{}, err
	}
	if seeded {
		s.logger.Info("seeded default admin user")
	}

	users, err := s.admins.List(ctx)
	if err != nil {
		return core.AdminUser{}, err
	}
	for _, user := range users {
		if user.Username != username {
			continue
		}
		if !passwordsMatch(user.Password, password) {
			break
		}
		return user, nil
	}
	s.logger.Debug("rejected login", "username", username)
	return core.AdminUser{}, ErrInvalidCredentials
}

func (s *Service) requireStall(ctx context.Context, id string) error {
	exists, err := s.stalls.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrStallNotFound
	}
	return nil
}

func stallFromInput(id string, input core.StallInput, rating core.Rating) core.Stall {
	menu := core.NormalizeIncomingMenu(input.Menu)
	if menu == nil {
		menu = []core.MenuCategory{}
	}
	return core.Stall{
		ID:          id,
		Name:        input.Name,
		Cuisine:     input.Cuisine,
		Category:    input.Category,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Rating:      rating,
		Menu:        menu,
	}
}

// stallError maps a repository miss to ErrStallNotFound.
func stallError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrStallNotFound
	}
	return err
}
