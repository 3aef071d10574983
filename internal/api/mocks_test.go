package api

import (
	"context"
	"miner_registry/internal/domain"
	"miner_registry/internal/ledger"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockRegistry is a mock implementation of Registry
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Create(ctx context.Context, pubkey string) (*domain.Miner, error) {
	args := m.Called(ctx, pubkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Miner), args.Error(1)
}

func (m *MockRegistry) GetByPubkey(ctx context.Context, pubkey string) (*domain.Miner, error) {
	args := m.Called(ctx, pubkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Miner), args.Error(1)
}

func (m *MockRegistry) GetByID(ctx context.Context, id uint) (*domain.Miner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Miner), args.Error(1)
}

func (m *MockRegistry) List(ctx context.Context, enabledOnly bool, offset, limit int) ([]domain.Miner, int64, error) {
	args := m.Called(ctx, enabledOnly, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Miner), args.Get(1).(int64), args.Error(2)
}

func (m *MockRegistry) SetEnabled(ctx context.Context, id uint, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *MockRegistry) Adjust(ctx context.Context, id uint, delta int64, reason string) (int64, error) {
	args := m.Called(ctx, id, delta, reason)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRegistry) Adjustments(ctx context.Context, minerID uint, offset, limit int) ([]domain.Adjustment, int64, error) {
	args := m.Called(ctx, minerID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Adjustment), args.Get(1).(int64), args.Error(2)
}

func (m *MockRegistry) ListAdjustments(ctx context.Context, filter ledger.AdjustmentFilter, offset, limit int) ([]domain.Adjustment, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Adjustment), args.Get(1).(int64), args.Error(2)
}

// newTestRouter mirrors the server's route table over a mock registry.
// The Redis client points at a closed port so every cache call misses fast
// and handlers fall through to the registry.
func newTestRouter(reg Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("redisClient", rdb)
		c.Next()
	})
	miners := r.Group("/miners")
	miners.POST("", RegisterMinerHandler(reg))
	miners.GET("", ListMinersHandler(reg, rdb))
	miners.PATCH("/:id/enabled", SetEnabledHandler(reg))
	miners.POST("/:id/adjust", AdjustHandler(reg))
	miners.GET("/:id/adjustments", AdjustmentHistoryHandler(reg, rdb))
	r.GET("/miner", GetMinerHandler(reg, rdb))
	r.GET("/adjustments", ListAdjustmentsHandler(reg, rdb))
	r.GET("/timestamp", TimestampHandler())
	return r
}
