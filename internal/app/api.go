package app

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/yene-farm/yene-farm/internal/auth"
	"github.com/yene-farm/yene-farm/internal/categories"
	"github.com/yene-farm/yene-farm/internal/observability"
	"github.com/yene-farm/yene-farm/internal/orders"
	"github.com/yene-farm/yene-farm/internal/platform/db"
	"github.com/yene-farm/yene-farm/internal/products"
	"github.com/yene-farm/yene-farm/internal/rbac"
	"github.com/yene-farm/yene-farm/internal/shared"
	"github.com/yene-farm/yene-farm/internal/users"
)

// Stores are the persistence ports behind the API.
type Stores struct {
	Users      auth.Repository
	Profiles   users.RepositoryPort
	Products   products.Repository
	Categories categories.Repository
	Orders     orders.Repository
	// Denylist is optional; without it logout cannot revoke tokens.
	Denylist auth.Denylist
}

// NewPGStores builds PostgreSQL backed stores and, when a Redis client is
// given, the token denylist.
func NewPGStores(conn db.DBTX, redisClient *redis.Client) Stores {
	stores := Stores{
		Users:      auth.NewRepository(conn),
		Profiles:   users.NewRepository(conn),
		Products:   products.NewRepository(conn),
		Categories: categories.NewRepository(conn),
		Orders:     orders.NewRepository(conn),
	}
	if redisClient != nil {
		stores.Denylist = auth.NewRedisDenylist(redisClient)
	}
	return stores
}

// APIParams groups dependencies for building the API.
type APIParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
	Stores  Stores
	Ready   ReadinessCheck
}

// NewAPI assembles services, guards and handlers into the HTTP router.
func NewAPI(params APIParams) (http.Handler, error) {
	cfg := params.Config
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var tokenOpts []auth.TokenOption
	if params.Stores.Denylist != nil {
		tokenOpts = append(tokenOpts, auth.WithDenylist(params.Stores.Denylist))
	}
	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, tokenOpts...)
	if err != nil {
		return nil, err
	}
	authService := auth.NewService(params.Stores.Users, auth.NewPasswordHasher(cfg.BcryptCost), tokens)

	identity := auth.Middleware{Resolver: authService.Resolver(), Logger: logger, Metrics: params.Metrics}
	policies := rbac.Middleware{AdminKey: cfg.AdminAPIKey, Logger: logger, Metrics: params.Metrics}

	productService := products.NewService(params.Stores.Products)
	productOwner := rbac.Ownership{Lookup: productService.SellerOf, Param: "id", Logger: logger, Metrics: params.Metrics}

	authThrottle := RateLimit(cfg.RateLimitAuthRequests, cfg.RateLimitAuthWindow, "auth", "too_many_auth_attempts", params.Metrics)

	return NewRouter(RouterParams{
		Logger:      logger,
		Config:      cfg,
		Metrics:     params.Metrics,
		Ready:       params.Ready,
		AuthHandler: auth.NewHandler(logger, authService).WithThrottle(authThrottle),
		UsersHandler: users.NewHandler(logger,
			users.NewService(params.Stores.Profiles, authService), identity.RequireAuth),
		ProductsHandler: products.NewHandler(logger, productService, products.Guards{
			Authenticate: identity.RequireAuth,
			Identify:     identity.OptionalAuth,
			Farmer:       policies.RequireUserType(shared.RoleFarmer),
			Owner:        productOwner.Require,
		}),
		CategoriesHandler: categories.NewHandler(logger,
			categories.NewService(params.Stores.Categories), identity.OptionalAuth, policies.RequireAdmin),
		OrdersHandler: orders.NewHandler(logger, orders.NewService(params.Stores.Orders), identity.RequireAuth),
	}), nil
}
