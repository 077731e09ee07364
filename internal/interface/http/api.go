package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	domcart "example.com/shop-backend/internal/domain/cart"
	domproduct "example.com/shop-backend/internal/domain/product"
	domuser "example.com/shop-backend/internal/domain/user"
	authuc "example.com/shop-backend/internal/usecase/auth"
	cartuc "example.com/shop-backend/internal/usecase/cart"
	checkoutuc "example.com/shop-backend/internal/usecase/checkout"
	productuc "example.com/shop-backend/internal/usecase/product"
	useruc "example.com/shop-backend/internal/usecase/user"
)

type API struct {
	authSvc     *authuc.Service
	userSvc     *useruc.Service
	productSvc  *productuc.Service
	cartSvc     *cartuc.Service
	checkoutSvc *checkoutuc.Service
	tokenSvc    authuc.TokenService
	validator   *validator.Validate
	log         *slog.Logger
}

type Dependencies struct {
	AuthService     *authuc.Service
	UserService     *useruc.Service
	ProductService  *productuc.Service
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
	TokenService    authuc.TokenService
	Logger          *slog.Logger
}

func NewAPI(deps Dependencies) *API {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &API{
		authSvc:     deps.AuthService,
		userSvc:     deps.UserService,
		productSvc:  deps.ProductService,
		cartSvc:     deps.CartService,
		checkoutSvc: deps.CheckoutService,
		tokenSvc:    deps.TokenService,
		validator:   validator.New(),
		log:         log,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", a.handleSignup)
		r.Post("/auth/login", a.handleLogin)
		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)

			pr.Route("/cart", func(cr chi.Router) {
				cr.Get("/", a.handleGetCart)
				cr.Delete("/", a.handleClearCart)
				cr.Get("/count", a.handleCartItemCount)
				cr.Get("/total", a.handleCartTotal)
				cr.Post("/items", a.handleAddCartItem)
				cr.Patch("/items/{itemId}", a.handleUpdateCartItem)
				cr.Delete("/items/{itemId}", a.handleRemoveCartItem)
				cr.Post("/checkout", a.handleCheckout)
			})
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authMiddleware)
			ar.Use(a.requireAdmin)

			ar.Route("/admin", func(admin chi.Router) {
				admin.Route("/users", func(rr chi.Router) {
					rr.Get("/", a.handleListUsers)
					rr.Get("/{id}", a.handleGetUser)
					rr.Put("/{id}", a.handleUpdateUser)
					rr.Delete("/{id}", a.handleDeleteUser)
				})

				admin.Route("/products", func(rr chi.Router) {
					rr.Get("/", a.handleListProducts)
					rr.Post("/", a.handleCreateProduct)
					rr.Put("/{id}", a.handleUpdateProduct)
					rr.Delete("/{id}", a.handleDeleteProduct)
				})
			})
		})
	})

	return r
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"id":       u.ID,
		"name":     u.Name,
		"email":    u.Email,
		"is_admin": u.IsAdmin,
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	images := make([]map[string]any, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, map[string]any{
			"id":  img.ID,
			"url": img.URL,
		})
	}
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"brand":       p.Brand,
		"category":    p.Category,
		"price":       p.Price,
		"stock":       p.Stock,
		"images":      images,
		"created_at":  p.CreatedAt,
	}
}

func mapCartItem(item *domcart.Item) map[string]any {
	m := map[string]any{
		"id":            item.ID,
		"product_id":    item.ProductID,
		"quantity":      item.Quantity,
		"price_at_time": item.PriceAtTime,
	}
	if item.Product != nil {
		m["product"] = mapProduct(item.Product)
	}
	return m
}

func mapCartView(v *domcart.View) map[string]any {
	items := make([]map[string]any, 0, len(v.Items))
	for i := range v.Items {
		items = append(items, mapCartItem(&v.Items[i]))
	}
	return map[string]any{
		"id":          v.ID,
		"user_id":     v.UserID,
		"items":       items,
		"total_items": v.TotalItems,
		"total_price": v.TotalPrice,
	}
}

func mapSummary(s *checkoutuc.Summary) map[string]any {
	return map[string]any{
		"success":     s.Success,
		"message":     s.Message,
		"timestamp":   s.Timestamp,
		"total_items": s.TotalItems,
		"total_price": s.TotalPrice,
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	var stockErr *domcart.InsufficientStockError
	switch {
	case errors.Is(err, domcart.ErrQuantityNotPositive),
		errors.Is(err, domuser.ErrNameRequired),
		errors.Is(err, domuser.ErrInvalidEmail),
		errors.Is(err, domuser.ErrPasswordTooShort):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, domuser.ErrEmailAlreadyUsed):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domuser.ErrUserNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domcart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domuser.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err)
	case errors.As(err, &stockErr),
		errors.Is(err, domcart.ErrEmptyCart):
		respondError(w, http.StatusUnprocessableEntity, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
