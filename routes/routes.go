package routes

import (
	"github.com/julienschmidt/httprouter"

	"zaika/addresses"
	"zaika/admin"
	"zaika/auth"
	"zaika/cart"
	"zaika/catalog"
	"zaika/checkout"
	"zaika/invoice"
	"zaika/live"
	"zaika/middleware"
	"zaika/orders"
	"zaika/ratelim"
	"zaika/reviews"
	"zaika/wishlist"
)

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(auth.RefreshToken))
}

func AddCatalogRoutes(router *httprouter.Router) {
	router.GET("/api/products", catalog.GetProducts)
	router.GET("/api/products/:productid", middleware.OptionalAuth(catalog.GetProduct))
	router.GET("/api/products/:productid/price", catalog.QuoteLinePrice)
	router.GET("/api/products/:productid/reviews", reviews.GetReviews)

	router.POST("/api/admin/products", middleware.RequireAdmin(catalog.CreateProduct))
	router.PUT("/api/admin/products/:productid", middleware.RequireAdmin(catalog.EditProduct))
	router.DELETE("/api/admin/products/:productid", middleware.RequireAdmin(catalog.DeleteProduct))
}

func AddCartRoutes(router *httprouter.Router) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart", middleware.Authenticate(cart.AddToCart))
	router.PUT("/api/cart/:productid/:weight", middleware.Authenticate(cart.SetQuantity))
	router.DELETE("/api/cart/:productid/:weight", middleware.Authenticate(cart.RemoveLine))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
	router.POST("/api/cart/apply-code", ratelim.RateLimit(middleware.Authenticate(cart.ApplyCode)))
}

func AddCheckoutRoutes(router *httprouter.Router, hub *live.Hub) {
	router.POST("/api/checkout", ratelim.RateLimit(middleware.Authenticate(checkout.PlaceOrder(hub))))
}

func AddOrderRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/api/orders", middleware.Authenticate(orders.GetMyOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/orders/:orderid/invoice", invoice.PrintInvoice)

	router.GET("/api/admin/orders", middleware.RequireAdmin(orders.GetAllOrders))
	router.PUT("/api/admin/orders/:orderid/status", middleware.RequireAdmin(orders.UpdateOrderStatus(hub)))
}

func AddReviewsRoutes(router *httprouter.Router) {
	router.POST("/api/reviews/:productid", middleware.Authenticate(reviews.AddReview))
	router.PUT("/api/reviews/:productid/:reviewid", middleware.Authenticate(reviews.EditReview))
	router.DELETE("/api/reviews/:productid/:reviewid", middleware.Authenticate(reviews.DeleteReview))
}

func AddAddressRoutes(router *httprouter.Router) {
	router.GET("/api/addresses", middleware.Authenticate(addresses.GetAddresses))
	router.POST("/api/addresses", middleware.Authenticate(addresses.AddAddress))
	router.PUT("/api/addresses/:addressid", middleware.Authenticate(addresses.EditAddress))
	router.DELETE("/api/addresses/:addressid", middleware.Authenticate(addresses.DeleteAddress))
}

func AddWishlistRoutes(router *httprouter.Router) {
	router.GET("/api/wishlist", middleware.Authenticate(wishlist.GetWishlist))
	router.POST("/api/wishlist/:productid", middleware.Authenticate(wishlist.AddToWishlist))
	router.DELETE("/api/wishlist/:productid", middleware.Authenticate(wishlist.RemoveFromWishlist))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/stats", middleware.RequireAdmin(admin.GetDashboardStats))
	router.GET("/api/admin/discounts", middleware.RequireAdmin(admin.GetDiscounts))
	router.POST("/api/admin/discounts", middleware.RequireAdmin(admin.CreateDiscount))
	router.PUT("/api/admin/discounts/:code", middleware.RequireAdmin(admin.EditDiscount))
	router.DELETE("/api/admin/discounts/:code", middleware.RequireAdmin(admin.DeleteDiscount))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/api/admin/live", live.OrderFeed(hub))
}
