package routes

import (
	"net/http"

	"orderdesk-backend/desk"
	"orderdesk-backend/handlers"
	"orderdesk-backend/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the shared services the routes are wired to. DB may be nil.
type Dependencies struct {
	DB            *gorm.DB
	Sessions      *desk.Store
	Backoffice    handlers.Backoffice
	SubmitLimiter *middleware.RateLimiter
	Log           *zap.Logger
}

func SetupRoutes(r *gin.Engine, deps Dependencies) {
	// Initialize handlers
	deskHandler := &handlers.DeskHandler{
		Sessions:   deps.Sessions,
		Backoffice: deps.Backoffice,
		DB:         deps.DB,
		Log:        deps.Log,
	}
	lookupHandler := &handlers.LookupHandler{Backoffice: deps.Backoffice, Log: deps.Log}
	submissionHandler := &handlers.SubmissionHandler{DB: deps.DB, Log: deps.Log}

	// Staff routes (require a staff token bound to a shop)
	api := r.Group("/api/desk")
	api.Use(middleware.AuthMiddleware())
	api.Use(middleware.StaffMiddleware())
	{
		// Sessions
		api.POST("/sessions", deskHandler.CreateSession)
		api.GET("/sessions/:id", deskHandler.GetSession)
		api.DELETE("/sessions/:id", deskHandler.CloseSession)

		// Catalog
		api.GET("/sessions/:id/products", deskHandler.SearchProducts)

		// Cart
		api.POST("/sessions/:id/items", deskHandler.AddItem)
		api.PATCH("/sessions/:id/items/:product_id/:attribute_id", deskHandler.ChangeQuantity)
		api.DELETE("/sessions/:id/items/:product_id/:attribute_id", deskHandler.RemoveItem)

		// Variant picker
		api.POST("/sessions/:id/picker", deskHandler.OpenPicker)
		api.PUT("/sessions/:id/picker", deskHandler.ChooseAttribute)
		api.DELETE("/sessions/:id/picker", deskHandler.CancelPicker)
		api.POST("/sessions/:id/picker/confirm", deskHandler.ConfirmPicker)

		// Customer and payment
		api.PUT("/sessions/:id/customer", deskHandler.SetCustomer)
		api.PUT("/sessions/:id/payment", deskHandler.SetPayment)

		// Submission
		submit := []gin.HandlerFunc{deskHandler.Submit}
		if deps.SubmitLimiter != nil {
			submit = append([]gin.HandlerFunc{deps.SubmitLimiter.Middleware()}, submit...)
		}
		api.POST("/sessions/:id/submit", submit...)
		api.GET("/submissions", submissionHandler.GetSubmissions)

		// Lookups
		api.GET("/customers", lookupHandler.Customers)
		api.GET("/payment-methods", lookupHandler.PaymentMethods)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": deps.Sessions.Len()})
	})
}
