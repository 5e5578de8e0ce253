package api

import (
	"net/http"

	"github.com/munera-collective/munera-platform/internal/api/handlers"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/metrics"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Cart        *handlers.CartHandler
	Checkout    *handlers.CheckoutHandler
	Product     *handlers.ProductHandler
	Event       *handlers.EventHandler
	Contest     *handlers.ContestHandler
	Leaderboard *handlers.LeaderboardHandler
	Flyer       *handlers.FlyerHandler
	// Health serves the aggregated component checks.
	Health http.Handler
}

// NewRouter registers every route on a fresh mux.
func NewRouter(h Handlers, auth *middleware.AuthMiddleware) *http.ServeMux {

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/v1/auth/magic-link", h.Auth.RequestMagicLink())
	mux.HandleFunc("GET /api/v1/auth/callback", h.Auth.Callback())
	mux.HandleFunc("GET /api/v1/auth/session", auth.Authenticate(h.Auth.Session()))
	mux.HandleFunc("POST /api/v1/auth/signout", auth.Authenticate(h.Auth.SignOut()))

	// Shop
	mux.HandleFunc("GET /api/v1/products", h.Product.ListProducts())
	mux.HandleFunc("GET /api/v1/products/{id}", h.Product.GetProduct())
	mux.HandleFunc("GET /api/v1/cart", h.Cart.GetCart())
	mux.HandleFunc("DELETE /api/v1/cart", h.Cart.ClearCart())
	mux.HandleFunc("POST /api/v1/cart/items", h.Cart.AddItem())
	mux.HandleFunc("PATCH /api/v1/cart/items", h.Cart.UpdateQuantity())
	mux.HandleFunc("DELETE /api/v1/cart/items", h.Cart.RemoveItem())
	mux.HandleFunc("POST /api/v1/checkout", h.Checkout.Checkout())
	mux.HandleFunc("POST /api/v1/payments/webhook", h.Checkout.Webhook())

	// Events
	mux.HandleFunc("GET /api/v1/events", h.Event.ListEvents())
	mux.HandleFunc("GET /api/v1/events/{id}", h.Event.GetEvent())

	// Contest
	mux.HandleFunc("GET /api/v1/contestants", h.Contest.ListContestants())
	mux.HandleFunc("GET /api/v1/contestants/{id}", h.Contest.GetContestant())
	mux.HandleFunc("GET /api/v1/contestants/{id}/vote", auth.OptionalAuthenticate(h.Contest.VoteStatus()))
	mux.HandleFunc("POST /api/v1/contestants/{id}/vote", auth.Authenticate(h.Contest.SubmitVote()))
	mux.HandleFunc("POST /api/v1/contestants/{id}/vote/login", h.Contest.RequestVoteLogin())
	mux.HandleFunc("GET /api/v1/contestants/{id}/vote/await", h.Contest.AwaitVote())
	mux.HandleFunc("GET /api/v1/leaderboard", h.Leaderboard.GetLeaderboard())
	mux.HandleFunc("GET /api/v1/leaderboard/stream", h.Leaderboard.Stream())

	mux.HandleFunc("POST /api/v1/flyers", h.Flyer.Render())

	// Admin
	mux.HandleFunc("GET /api/v1/admin/products", auth.RequireAdmin(h.Product.ListAllProducts()))
	mux.HandleFunc("POST /api/v1/admin/products", auth.RequireAdmin(h.Product.CreateProduct()))
	mux.HandleFunc("PUT /api/v1/admin/products/{id}", auth.RequireAdmin(h.Product.UpdateProduct()))
	mux.HandleFunc("POST /api/v1/admin/products/{id}/toggle", auth.RequireAdmin(h.Product.ToggleActive()))
	mux.HandleFunc("DELETE /api/v1/admin/products/{id}", auth.RequireAdmin(h.Product.DeleteProduct()))
	mux.HandleFunc("POST /api/v1/admin/products/{id}/images", auth.RequireAdmin(h.Product.UploadImage()))

	mux.HandleFunc("POST /api/v1/admin/events", auth.RequireAdmin(h.Event.CreateEvent()))
	mux.HandleFunc("PUT /api/v1/admin/events/{id}", auth.RequireAdmin(h.Event.UpdateEvent()))
	mux.HandleFunc("DELETE /api/v1/admin/events/{id}", auth.RequireAdmin(h.Event.DeleteEvent()))
	mux.HandleFunc("POST /api/v1/admin/events/{id}/flyer", auth.RequireAdmin(h.Event.UploadFlyer()))
	mux.HandleFunc("GET /api/v1/admin/events/{id}/media", auth.RequireAdmin(h.Event.ListMedia()))
	mux.HandleFunc("POST /api/v1/admin/events/{id}/media/photos", auth.RequireAdmin(h.Event.UploadPhoto()))
	mux.HandleFunc("POST /api/v1/admin/events/{id}/media/videos", auth.RequireAdmin(h.Event.AddVideo()))
	mux.HandleFunc("DELETE /api/v1/admin/media/{id}", auth.RequireAdmin(h.Event.DeleteMedia()))

	mux.HandleFunc("POST /api/v1/admin/contestants", auth.RequireAdmin(h.Contest.CreateContestant()))
	mux.HandleFunc("PUT /api/v1/admin/contestants/{id}", auth.RequireAdmin(h.Contest.UpdateContestant()))
	mux.HandleFunc("DELETE /api/v1/admin/contestants/{id}", auth.RequireAdmin(h.Contest.DeleteContestant()))
	mux.HandleFunc("POST /api/v1/admin/contestants/{id}/photo", auth.RequireAdmin(h.Contest.UploadContestantPhoto()))

	mux.HandleFunc("POST /api/v1/admin/flyers/render", auth.RequireAdmin(h.Flyer.SaveFlyer()))
	mux.HandleFunc("GET /api/v1/admin/flyers", auth.RequireAdmin(h.Flyer.ListFlyers()))
	mux.HandleFunc("POST /api/v1/admin/flyers", auth.RequireAdmin(h.Flyer.UploadFlyer()))
	mux.HandleFunc("DELETE /api/v1/admin/flyers/{name}", auth.RequireAdmin(h.Flyer.DeleteFlyer()))

	// Ops
	mux.Handle("GET /metrics", metrics.Handler())
	if h.Health != nil {
		mux.Handle("GET /health", h.Health)
	}
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return mux
}
