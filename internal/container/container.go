package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/coinacademia/affiliate-api/config"
	"github.com/coinacademia/affiliate-api/internal/payment"
	"github.com/coinacademia/affiliate-api/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router modules are auto-wired from these singletons at startup; nothing
// mutates them after main finishes wiring.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	jwtManager  *helpers.JWTManager
	rabbitPub   *helpers.RabbitPublisher
	payClient   *payment.Client
	oauthConfig *oauth2.Config
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetPaymentClient(c *payment.Client)      { payClient = c }
func GetPaymentClient() *payment.Client       { return payClient }
func SetOAuthConfig(c *oauth2.Config)         { oauthConfig = c }
func GetOAuthConfig() *oauth2.Config          { return oauthConfig }
