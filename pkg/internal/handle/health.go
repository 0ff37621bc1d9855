package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/soundboard/pkg/context"
)

const (
	timeout = 2 * time.Second
	// probeKey 健康检查读取的键，不存在也算健康
	probeKey = "soundboard:health"
)

type componentStatus struct {
	Component string `json:"component"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

func checkKV(ctx context.Context) componentStatus {
	kvc := ctxPkg.GetKVClient(ctx)
	if kvc == nil || kvc.KVStore == nil {
		return componentStatus{Component: "kv", Status: "unhealthy", Error: "kv client not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := kvc.Exists(ctx, probeKey); err != nil {
		return componentStatus{Component: "kv", Status: "unhealthy", Detail: string(kvc.Type), Error: err.Error()}
	}

	return componentStatus{Component: "kv", Status: "ok", Detail: string(kvc.Type)}
}

func checkMQ(ctx context.Context) componentStatus {
	mqc := ctxPkg.GetMQClient(ctx)
	if mqc == nil {
		// 事件总线是可选的
		return componentStatus{Component: "mq", Status: "disabled"}
	}

	return componentStatus{Component: "mq", Status: "ok", Detail: string(mqc.Type)}
}

func checkCatalog(ctx context.Context) componentStatus {
	svc := ctxPkg.GetServices(ctx)
	if svc == nil {
		return componentStatus{Component: "catalog", Status: "unhealthy", Error: "services not initialized"}
	}

	cat := svc.Catalog.Current(ctx)
	if len(cat.Sounds) == 0 {
		return componentStatus{Component: "catalog", Status: "degraded", Detail: cat.Version, Error: "catalog is empty"}
	}

	return componentStatus{Component: "catalog", Status: "ok", Detail: cat.Version}
}

// Health 汇总健康检查. KV 不可用时返回 503，曲库为空只算降级.
//
//	@Summary	健康检查
//	@Tags		系统
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Failure	503	{object}	map[string]any
//	@Router		/api/v1/health [get]
func Health(c *gin.Context) {
	ctx := c.Request.Context()
	kv := checkKV(ctx)
	components := []componentStatus{kv, checkMQ(ctx), checkCatalog(ctx)}

	status, code := "ok", http.StatusOK
	if kv.Status != "ok" {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{"status": status, "components": components})
}

// HealthKV 本地存储健康检查.
func HealthKV(c *gin.Context) {
	writeComponent(c, checkKV(c.Request.Context()))
}

// HealthMQ 事件总线健康检查.
func HealthMQ(c *gin.Context) {
	writeComponent(c, checkMQ(c.Request.Context()))
}

// HealthCatalog 曲库健康检查.
func HealthCatalog(c *gin.Context) {
	writeComponent(c, checkCatalog(c.Request.Context()))
}

func writeComponent(c *gin.Context, s componentStatus) {
	code := http.StatusOK
	if s.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, s)
}
