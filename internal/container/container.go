package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/config"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/blob"
	"github.com/oksasatya/recipe-share-api/internal/infrastructure/records"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	blobStore   blob.Store
	recordStore *records.Store
	redisClient *redis.Client
)

func SetConfig(c *config.Config)     { cfg = c }
func GetConfig() *config.Config      { return cfg }
func SetLogger(l *logrus.Logger)     { logger = l }
func GetLogger() *logrus.Logger      { return logger }
func SetBlob(b blob.Store)           { blobStore = b }
func GetBlob() blob.Store            { return blobStore }
func SetRecords(s *records.Store)    { recordStore = s }
func GetRecords() *records.Store     { return recordStore }
func SetRedis(r *redis.Client)       { redisClient = r }
func GetRedis() *redis.Client        { return redisClient }
