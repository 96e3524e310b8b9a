package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TimohaSheff/uch-pract-parfum/pkg/health"
	"github.com/TimohaSheff/uch-pract-parfum/pkg/middleware"

	"github.com/TimohaSheff/uch-pract-parfum/internal/auth"
	"github.com/TimohaSheff/uch-pract-parfum/internal/domain"
	"github.com/TimohaSheff/uch-pract-parfum/internal/service"
)

// Services bundles the application services the router depends on.
type Services struct {
	User     *service.UserService
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Order    *service.OrderService
	Review   *service.ReviewService
	Wishlist *service.WishlistService
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	services Services,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsCfg middleware.CORSConfig,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(corsCfg))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Login:  claims.Login,
			Role:   claims.Role,
		}, nil
	}
	authn := middleware.Auth(tokenValidator)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	authHandler := NewAuthHandler(services.User, logger)
	userHandler := NewUserHandler(services.User, logger)
	catalogHandler := NewCatalogHandler(services.Catalog, logger)
	cartHandler := NewCartHandler(services.Cart, logger)
	orderHandler := NewOrderHandler(services.Order, logger)
	reviewHandler := NewReviewHandler(services.Review, logger)
	wishlistHandler := NewWishlistHandler(services.Wishlist, logger)

	// Auth endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)
	})

	// User profile endpoints (auth required)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authn)

		r.Get("/me", userHandler.GetProfile)
		r.Put("/me", userHandler.UpdateProfile)
	})

	// Catalog read endpoints (public, cacheable)
	r.Group(func(r chi.Router) {
		r.Use(middleware.CacheControl(60))

		r.Get("/api/v1/brands", catalogHandler.ListBrands)
		r.Get("/api/v1/categories", catalogHandler.ListCategories)
		r.Get("/api/v1/products", catalogHandler.ListProducts)
		r.Get("/api/v1/products/{id}", catalogHandler.GetProduct)
		r.Get("/api/v1/products/{id}/reviews", reviewHandler.ListReviews)
	})

	// Reviews (auth required)
	r.Group(func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authn)

		r.Post("/api/v1/products/{id}/reviews", reviewHandler.CreateReview)
	})

	// Catalog write endpoints (admin only)
	r.Group(func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authn)
		r.Use(adminOnly)

		r.Post("/api/v1/brands", catalogHandler.CreateBrand)
		r.Post("/api/v1/categories", catalogHandler.CreateCategory)
		r.Post("/api/v1/products", catalogHandler.CreateProduct)
		r.Put("/api/v1/products/{id}", catalogHandler.UpdateProduct)
	})

	// Cart endpoints (auth required)
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authn)

		r.Get("/", cartHandler.GetCart)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items/{id}", cartHandler.UpdateItem)
		r.Delete("/items/{id}", cartHandler.RemoveItem)
	})

	// Order endpoints (auth required)
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authn)

		r.Post("/", orderHandler.PlaceOrder)
		r.Get("/", orderHandler.ListOrders)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Post("/{id}/cancel", orderHandler.CancelOrder)
		r.Delete("/{id}", orderHandler.DeleteOrder)
	})

	// Admin order management
	r.Route("/api/v1/admin/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authn)
		r.Use(adminOnly)

		r.Get("/", orderHandler.ListAllOrders)
		r.Put("/{id}/status", orderHandler.UpdateOrderStatus)
	})

	// Wishlist endpoints (auth required)
	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(authn)

		r.Get("/", wishlistHandler.List)
		r.Post("/{productId}", wishlistHandler.Add)
		r.Delete("/{productId}", wishlistHandler.Remove)
	})

	return r
}
