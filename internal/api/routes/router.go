package routes

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/coachlanding/internal/api/handlers"
	"github.com/zatekoja/coachlanding/internal/api/middleware"
	"github.com/zatekoja/coachlanding/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	availabilityHandler *handlers.AvailabilityHandler
	bookingHandler      *handlers.BookingHandler
	companyHandler      *handlers.CompanyHandler
	conversionHandler   *handlers.ConversionHandler

	cacheMiddleware *middleware.CacheMiddleware
	rateLimiter     *middleware.RateLimiter
	clientIP        *middleware.ClientIPResolver
	allowedOrigins  []string
	metrics         *observability.Metrics
	health          map[string]interface{}
}

// Options carries the optional pieces of the router
type Options struct {
	CacheMiddleware *middleware.CacheMiddleware
	RateLimiter     *middleware.RateLimiter
	ClientIP        *middleware.ClientIPResolver
	AllowedOrigins  []string
	Metrics         *observability.Metrics
	// Health is merged into the GET /health body
	Health map[string]interface{}
}

// NewRouter creates a new router
func NewRouter(
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
	companyHandler *handlers.CompanyHandler,
	conversionHandler *handlers.ConversionHandler,
	opts Options,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
		companyHandler:      companyHandler,
		conversionHandler:   conversionHandler,
		cacheMiddleware:     opts.CacheMiddleware,
		rateLimiter:         opts.RateLimiter,
		clientIP:            opts.ClientIP,
		allowedOrigins:      opts.AllowedOrigins,
		metrics:             opts.Metrics,
		health:              opts.Health,
	}
}

// limited wraps write endpoints with the per-IP rate limiter when configured
func (r *Router) limited(h http.HandlerFunc) http.Handler {
	if r.rateLimiter == nil {
		return h
	}
	return r.rateLimiter.Middleware(h)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	body := map[string]interface{}{"status": "ok"}
	for k, v := range r.health {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthCheck)

	// Scheduling endpoints
	r.mux.HandleFunc("GET /api/availability", r.availabilityHandler.GetAvailability)
	r.mux.Handle("POST /api/book", r.limited(r.bookingHandler.Book))
	r.mux.HandleFunc("GET /api/bookings", r.bookingHandler.ListBookings)
	r.mux.HandleFunc("GET /api/bookings/{id}", r.bookingHandler.GetBooking)
	r.mux.HandleFunc("GET /api/company", r.companyHandler.GetCompany)

	// Conversion reporting endpoints
	r.mux.Handle("POST /api/conversions", r.limited(r.conversionHandler.SendEvent))
	r.mux.Handle("POST /api/conversions/test", r.limited(r.conversionHandler.SendTestEvent))
	r.mux.HandleFunc("GET /api/conversions/status", r.conversionHandler.GetStatus)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	// Outermost so every layer and handler sees the same client address
	if r.clientIP != nil {
		handler = r.clientIP.Middleware(handler)
	}

	return handler
}
