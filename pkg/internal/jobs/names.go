package jobs

// 任务名称常量，便于统一管理与引用.
const (
	JobCatalogRefresh = "catalog.refresh"
	JobKVSweep        = "kv.sweep"
)

// Cron 表达式常量.
const (
	CronKVSweep = "17 * * * *"
)
