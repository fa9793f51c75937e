package health

import (
	"net/http"

	"github.com/heptiolabs/healthcheck"

	"casemanager/backend/internal/storage"
)

// Checker 健康检查器
type Checker struct {
	health healthcheck.Handler
	store  storage.Store
}

// NewChecker 创建健康检查器
func NewChecker(store storage.Store) *Checker {
	c := &Checker{
		health: healthcheck.NewHandler(),
		store:  store,
	}

	// 存活检查：进程自身
	c.health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(200))

	// 就绪检查：存储可用
	c.health.AddReadinessCheck("storage", func() error {
		return c.store.Health()
	})

	return c
}

// LiveEndpoint 存活探针处理器
func (c *Checker) LiveEndpoint() http.HandlerFunc {
	return c.health.LiveEndpoint
}

// ReadyEndpoint 就绪探针处理器
func (c *Checker) ReadyEndpoint() http.HandlerFunc {
	return c.health.ReadyEndpoint
}
