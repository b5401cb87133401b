// AngelaMos | 2026
// service.go

package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/condoview/api/internal/core"
	"github.com/condoview/api/internal/lookup"
)

// PostalLookup resolves a postal code to a street address. Implemented by the
// lookup client; faked in tests.
type PostalLookup interface {
	PostalCode(ctx context.Context, raw string) (*lookup.Address, error)
}

type Service struct {
	repo   Repository
	postal PostalLookup
	logger *slog.Logger
}

func NewService(repo Repository, postal PostalLookup, logger *slog.Logger) *Service {
	return &Service{repo: repo, postal: postal, logger: logger}
}

// CreateCondominium fills street, neighborhood, city and state from the
// postal lookup when the request leaves them blank. A failed lookup is not
// fatal: the record is created with whatever the request carried.
func (s *Service) CreateCondominium(
	ctx context.Context,
	req CreateCondominiumRequest,
) (*Condominium, error) {
	c := &Condominium{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Street:       req.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Phone:        req.Phone,
		Email:        req.Email,
	}

	if c.Street == "" || c.City == "" {
		address, err := s.postal.PostalCode(ctx, req.PostalCode)
		if err != nil {
			s.logger.Warn("postal autofill failed",
				"postal_code", req.PostalCode,
				"error", err,
			)
		} else {
			if c.Street == "" {
				c.Street = address.Street
			}
			if c.Neighborhood == "" {
				c.Neighborhood = address.Neighborhood
			}
			if c.City == "" {
				c.City = address.City
			}
			if c.State == "" {
				c.State = address.State
			}
			c.PostalCode = address.PostalCode
		}
	}

	if err := s.repo.CreateCondominium(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) GetCondominium(
	ctx context.Context,
	id string,
) (*Condominium, error) {
	return s.repo.GetCondominium(ctx, id)
}

func (s *Service) ListCondominiums(ctx context.Context) ([]Condominium, error) {
	return s.repo.ListCondominiums(ctx)
}

func (s *Service) UpdateCondominium(
	ctx context.Context,
	id string,
	req UpdateCondominiumRequest,
) (*Condominium, error) {
	c, err := s.repo.GetCondominium(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		c.Email = *req.Email
	}

	if err := s.repo.UpdateCondominium(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) DeleteCondominium(ctx context.Context, id string) error {
	return s.repo.DeleteCondominium(ctx, id)
}

func (s *Service) CreateUnit(
	ctx context.Context,
	req CreateUnitRequest,
) (*Unit, error) {
	u := &Unit{
		ID:            uuid.New().String(),
		CondominiumID: req.CondominiumID,
		Number:        req.Number,
		Block:         req.Block,
		Floor:         req.Floor,
	}

	if err := s.repo.CreateUnit(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) ListUnits(
	ctx context.Context,
	condominiumID string,
) ([]Unit, error) {
	return s.repo.ListUnits(ctx, condominiumID)
}

func (s *Service) UpsertProfile(
	ctx context.Context,
	req UpsertProfileRequest,
) (*Profile, error) {
	p := &Profile{
		ID:            req.UserID,
		CondominiumID: req.CondominiumID,
		UnitID:        req.UnitID,
		FullName:      req.FullName,
		Phone:         req.Phone,
	}

	if err := s.repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) GetProfile(
	ctx context.Context,
	userID string,
) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *Service) ListResidents(
	ctx context.Context,
	condominiumID string,
) ([]Profile, error) {
	return s.repo.ListProfiles(ctx, condominiumID)
}

func (s *Service) UpdateMyProfile(
	ctx context.Context,
	userID string,
	req UpdateMyProfileRequest,
) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Phone != nil {
		p.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		p.AvatarURL = *req.AvatarURL
	}

	if err := s.repo.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// Membership supplies the gate with the user's residence scope. A user
// without a profile row simply has no scope yet; that is not an error.
func (s *Service) Membership(
	ctx context.Context,
	userID string,
) (string, string, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("membership: %w", err)
	}

	return p.CondominiumID, p.UnitID, nil
}
