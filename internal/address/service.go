package address

import (
	"context"
	"strings"

	"shopco-storefront/internal/auth"
	"shopco-storefront/internal/logger"
	"shopco-storefront/internal/validate"

	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context) ([]Address, error)
	Add(ctx context.Context, addr Address) ([]Address, error)
	Remove(ctx context.Context, id string) ([]Address, error)
}

type service struct {
	repo    Repository
	session auth.Session
}

func NewService(repo Repository, session auth.Session) Service {
	return &service{repo: repo, session: session}
}

func (s *service) token(ctx context.Context) (string, error) {
	token := s.session.Token(ctx)
	if token == "" {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

func (s *service) List(ctx context.Context) ([]Address, error) {
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.List(ctx, token)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list addresses",
			zap.String("layer", "service"),
			zap.String("method", "List"),
			zap.Error(err),
		)
		return nil, err
	}
	return res.Data, nil
}

// Add validates addr and returns the updated address book.
func (s *service) Add(ctx context.Context, addr Address) ([]Address, error) {
	addr.Name = strings.TrimSpace(addr.Name)
	addr.City = strings.TrimSpace(addr.City)
	addr.Details = strings.TrimSpace(addr.Details)
	addr.Phone = strings.TrimSpace(addr.Phone)

	if err := validate.Struct(addr); err != nil {
		return nil, err
	}
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Add"),
	)
	res, err := s.repo.Add(ctx, token, addr)
	if err != nil {
		log.Error("failed to add address", zap.Error(err))
		return nil, err
	}
	log.Info("address added", zap.Int("count", len(res.Data)))
	return res.Data, nil
}

func (s *service) Remove(ctx context.Context, id string) ([]Address, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingAddressID
	}
	token, err := s.token(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.repo.Remove(ctx, token, id)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to remove address",
			zap.String("layer", "service"),
			zap.String("method", "Remove"),
			zap.String("address_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return res.Data, nil
}
