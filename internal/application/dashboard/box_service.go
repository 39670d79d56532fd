package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/dashboard"
	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/infrastructure/cache"
)

const defaultLayoutTTL = 10 * time.Minute

// ErrBadUserID is returned when a request targets another user's dashboard
var ErrBadUserID = shared.NewDomainError("FORBIDDEN", "Bad userid parameter. Must match logged user.")

// Translator resolves message keys for a language
type Translator interface {
	T(lang, key string, args ...any) string
}

// BoxRequest is a box move, add or close sent by the dashboard
type BoxRequest struct {
	BoxID    int64
	BoxOrder string
	// Zone is nil when the request carries no zone
	Zone    *int
	UserID  uuid.UUID
	Closing bool
}

// BoxResult reports what was done
type BoxResult struct {
	// Counts is "<left>-<right>", set when a box was inserted
	Counts  string `json:"counts,omitempty"`
	Order   string `json:"order,omitempty"`
	Saved   bool   `json:"saved"`
	Message string `json:"message,omitempty"`
}

// LayoutResponse is the saved layout of a zone
type LayoutResponse struct {
	Zone  int     `json:"zone"`
	Order string  `json:"order"`
	A     []int64 `json:"a"`
	B     []int64 `json:"b"`
}

// BoxService persists dashboard box positions
type BoxService struct {
	repo       dashboard.BoxRepository
	cache      cache.Store
	ttl        time.Duration
	translator Translator
	logger     *zap.Logger
}

// NewBoxService creates the service. store may be nil to disable layout caching.
func NewBoxService(repo dashboard.BoxRepository, store cache.Store, ttl time.Duration, translator Translator, logger *zap.Logger) *BoxService {
	if ttl <= 0 {
		ttl = defaultLayoutTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoxService{repo: repo, cache: store, ttl: ttl, translator: translator, logger: logger}
}

// Handle applies a dashboard request: an optional box insertion at the head of the
// shorter column, then the persistence of the resulting order.
func (s *BoxService) Handle(ctx context.Context, actor identity.Actor, req BoxRequest) (*BoxResult, error) {
	if req.UserID != actor.UserID {
		return nil, ErrBadUserID
	}
	res := &BoxResult{}
	order := req.BoxOrder
	hasUser := req.UserID != uuid.Nil

	if req.BoxID > 0 && req.Zone != nil && hasUser {
		ins := dashboard.InsertBox(order, req.BoxID)
		order = ins.Order
		res.Counts = ins.Counts()
	}

	if order == "" || req.Zone == nil || !hasUser {
		return res, nil
	}
	s.logger.Debug("Saving box order",
		zap.String("boxorder", order),
		zap.Int("zone", *req.Zone),
		zap.String("user_id", req.UserID.String()))

	if _, err := s.SaveBoxOrder(ctx, actor.TenantID, *req.Zone, order, req.UserID); err != nil {
		return nil, err
	}
	res.Order = order
	res.Saved = true
	if !req.Closing && s.translator != nil {
		res.Message = s.translator.T(actor.Language, "BoxAdded")
	}
	return res, nil
}

// SaveBoxOrder replaces the user's layout of zone with order. It returns the number
// of rows written, which is positive on success.
func (s *BoxService) SaveBoxOrder(ctx context.Context, tenantID uuid.UUID, zone int, order string, userID uuid.UUID) (int, error) {
	parsed, err := dashboard.ParseBoxOrder(order)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	rows := dashboard.Layout(tenantID, userID, zone, parsed)
	if err := s.repo.ReplaceLayout(ctx, tenantID, userID, zone, rows); err != nil {
		return 0, err
	}
	s.invalidate(ctx, tenantID, userID, zone)
	// an empty order still clears the zone successfully
	return max(len(rows), 1), nil
}

// GetLayout returns the saved layout of zone
func (s *BoxService) GetLayout(ctx context.Context, actor identity.Actor, zone int) (*LayoutResponse, error) {
	key := layoutKey(actor.TenantID, actor.UserID, zone)
	var cached LayoutResponse
	if s.cache != nil {
		err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Box layout cache read failed", zap.Error(err))
		}
	}

	rows, err := s.repo.FindLayout(ctx, actor.TenantID, actor.UserID, zone)
	if err != nil {
		return nil, err
	}
	order := dashboard.OrderFromRows(rows)
	resp := &LayoutResponse{Zone: zone, Order: order.String(), A: order.A, B: order.B}
	if resp.A == nil {
		resp.A = []int64{}
	}
	if resp.B == nil {
		resp.B = []int64{}
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, resp, s.ttl); err != nil {
			s.logger.Warn("Box layout cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

func (s *BoxService) invalidate(ctx context.Context, tenantID, userID uuid.UUID, zone int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, layoutKey(tenantID, userID, zone)); err != nil {
		s.logger.Warn("Box layout cache invalidation failed", zap.Error(err))
	}
}

func layoutKey(tenantID, userID uuid.UUID, zone int) string {
	return fmt.Sprintf("boxes:%s:%s:%d", tenantID, userID, zone)
}
