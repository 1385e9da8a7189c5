package product

import (
	"context"
	"errors"
	"fmt"

	"shopco-storefront/internal/logger"

	"go.uber.org/zap"
)

const (
	homeSectionSize = 4
	relatedLimit    = 4
)

// Membership reports whether a product is already in the visitor's wishlist or cart.
type Membership interface {
	IsInWishlist(productID string) bool
	IsInCart(productID string) bool
}

type Service interface {
	Home(ctx context.Context, m Membership) (*Home, error)
	List(ctx context.Context, m Membership) ([]Product, error)
	Detail(ctx context.Context, id string, m Membership) (*Detail, error)
	Get(ctx context.Context, id string) (*Product, error)
	Categories(ctx context.Context) ([]Category, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Home(ctx context.Context, m Membership) (*Home, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Home"),
	)

	newest, err := s.repo.GetProducts(ctx, Query{Sort: "-createdAt", Limit: homeSectionSize})
	if err != nil {
		log.Error("failed to load new arrivals", zap.Error(err))
		return nil, err
	}
	top, err := s.repo.GetProducts(ctx, Query{Sort: "-sold", Limit: homeSectionSize})
	if err != nil {
		log.Error("failed to load top selling", zap.Error(err))
		return nil, err
	}

	// The landing page still renders without categories.
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		log.Warn("failed to load categories", zap.Error(err))
		categories = []Category{}
	}

	return &Home{
		NewArrivals: annotate(newest.Data, m),
		TopSelling:  annotate(top.Data, m),
		Categories:  categories,
	}, nil
}

func (s *service) List(ctx context.Context, m Membership) ([]Product, error) {
	res, err := s.repo.GetProducts(ctx, Query{})
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load products",
			zap.String("layer", "service"),
			zap.String("method", "List"),
			zap.Error(err),
		)
		return nil, err
	}
	return annotate(res.Data, m), nil
}

func (s *service) Detail(ctx context.Context, id string, m Membership) (*Detail, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Detail"),
		zap.String("product_id", id),
	)

	if id == "" {
		return nil, ErrMissingProductID
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			log.Error("failed to load product", zap.Error(err))
		}
		return nil, err
	}

	detail := &Detail{
		Product:       annotate([]Product{*p}, m)[0],
		Related:       []Product{},
		Sizes:         Sizes,
		Colors:        Colors,
		SelectedSize:  DefaultSize,
		SelectedColor: DefaultColor,
		Images:        p.AllImages(),
		Discount:      p.DiscountPercentage(),
	}

	if p.Category.ID == "" {
		return detail, nil
	}

	related, err := s.repo.GetProducts(ctx, Query{CategoryIDs: []string{p.Category.ID}})
	if err != nil {
		log.Warn("failed to load related products", zap.Error(err))
		return detail, nil
	}
	detail.Related = annotate(Related(related.Data, p.ID, relatedLimit), m)
	return detail, nil
}

// Get loads a single product without related items, for cart and wishlist adds.
func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, ErrMissingProductID
	}
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrProductNotFound) {
			logger.FromCtx(ctx).Error("failed to load product",
				zap.String("layer", "service"),
				zap.String("method", "Get"),
				zap.String("product_id", id),
				zap.Error(err),
			)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.repo.GetCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	return categories, nil
}

// Related keeps up to limit products other than excludeID, in order.
func Related(products []Product, excludeID string, limit int) []Product {
	out := make([]Product, 0, limit)
	for _, p := range products {
		if len(out) == limit {
			break
		}
		if p.ID != excludeID {
			out = append(out, p)
		}
	}
	return out
}

func annotate(products []Product, m Membership) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		if m != nil {
			p.InWishlist = m.IsInWishlist(p.ID)
			p.InCart = m.IsInCart(p.ID)
		}
		out[i] = p
	}
	return out
}
