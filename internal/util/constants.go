package util

const FileTimeFormat = "20060102-150405"

// 持久化后端
const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
)

// 对象存储
const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	AnonymousUserID = "anonymous"
	RoleAdmin       = "admin"
	RolePlayer      = "player"
)

const (
	DefaultSessionListLimit = 50
	DefaultAttemptListLimit = 100
	MimeJSON                = "application/json"
)
