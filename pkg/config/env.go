package config

// EnvPrefix is passed to envconfig; every tag below spells out its full name.
const EnvPrefix = "POS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:pos.db?cache=shared"
)

const (
	EnvAppEnv                = "POS_APP_ENV"
	EnvPort                  = "POS_APP_PORT"
	EnvLogLevel              = "POS_LOG_LEVEL"
	EnvRegisterID            = "POS_REGISTER_ID"
	EnvDBDSN                 = "POS_DB_DSN"
	EnvDBHost                = "POS_DB_HOST"
	EnvDBUser                = "POS_DB_USER"
	EnvDBName                = "POS_DB_NAME"
	EnvRedisURL              = "POS_REDIS_URL"
	EnvLoyaltyAccountID      = "POS_LOYALTY_ACCOUNT_ID"
	EnvLoyaltyOpeningBalance = "POS_LOYALTY_OPENING_BALANCE"
	EnvLoyaltyPointsPerUnit  = "POS_LOYALTY_POINTS_PER_UNIT"
	EnvCatalogSource         = "POS_CATALOG_SOURCE"
	EnvUseSQLite             = "POS_USE_SQLITE"
	EnvPersistLoyalty        = "POS_PERSIST_LOYALTY"
)
