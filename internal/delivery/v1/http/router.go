package http

import (
	"net/http"

	_ "github.com/DRSN-tech/storefront-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

// UseCases собирает зависимости HTTP-слоя.
type UseCases struct {
	Catalog  usecase.CatalogUC
	Cart     usecase.CartUC
	Order    usecase.OrderUC
	Wishlist usecase.WishlistUC
	Auth     usecase.AuthUC
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(uc UseCases, allowedOrigins []string) {
	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Recoverer)
	r.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders:   []string{SessionHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	sessions := NewSessionMiddleware(uc.Auth, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(sessions.Handle)

		registerCatalogRoutes(v1, NewCatalogHandler(uc.Catalog, r.logger))
		registerCartRoutes(v1, NewCartHandler(uc.Cart, r.logger))
		registerAuthRoutes(v1, NewAuthHandler(uc.Auth, r.logger), sessions)

		v1.Group(func(private chi.Router) {
			private.Use(sessions.RequireUser)
			registerOrderRoutes(private, NewOrderHandler(uc.Order, r.logger))
			registerWishlistRoutes(private, NewWishlistHandler(uc.Wishlist, r.logger))
		})
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Get("/categories", h.categories)
	router.Get("/categories/{id}", h.category)
	router.Get("/brands", h.brands)

	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Get("/featured", h.featured)
		pr.Get("/new", h.newArrivals)
		pr.Get("/{id}", h.getProduct)
		pr.Get("/{id}/related", h.related)
	})
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(c chi.Router) {
		c.Get("/", h.getCart)
		c.Delete("/", h.clear)
		c.Post("/items", h.addItem)
		c.Patch("/items/{lineId}", h.setQuantity)
		c.Delete("/items/{lineId}", h.removeItem)
	})
}

func registerAuthRoutes(router chi.Router, h *AuthHandler, sessions *SessionMiddleware) {
	router.Route("/auth", func(a chi.Router) {
		a.Post("/signup", h.signUp)
		a.Post("/signin", h.signIn)
		a.Post("/signout", h.signOut)
		a.With(sessions.RequireUser).Get("/me", h.me)
	})

	router.Route("/users/me", func(u chi.Router) {
		u.Use(sessions.RequireUser)
		u.Patch("/", h.updateProfile)
		u.Post("/password", h.changePassword)
		u.Delete("/", h.deleteAccount)
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler) {
	router.Route("/orders", func(o chi.Router) {
		o.Get("/", h.listOrders)
		o.Post("/", h.createOrder)
		o.Post("/checkout", h.checkout)
		o.Get("/{id}", h.getOrder)
		o.Patch("/{id}/status", h.updateStatus)
		o.Post("/{id}/cancel", h.cancelOrder)
	})
}

func registerWishlistRoutes(router chi.Router, h *WishlistHandler) {
	router.Route("/wishlist", func(wl chi.Router) {
		wl.Get("/", h.list)
		wl.Get("/{productId}", h.contains)
		wl.Put("/{productId}", h.add)
		wl.Delete("/{productId}", h.remove)
	})
}
