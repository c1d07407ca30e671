// server/internal/api/routes/routes.go
package routes

import (
	"net/http"

	"reeutil-tradein-api-server/config"
	"reeutil-tradein-api-server/internal/api/handlers"
	"reeutil-tradein-api-server/internal/api/middleware"
	"reeutil-tradein-api-server/internal/delivery"
	"reeutil-tradein-api-server/internal/inspection"
	"reeutil-tradein-api-server/internal/intake"
	"reeutil-tradein-api-server/internal/s3"
	"reeutil-tradein-api-server/internal/socket"
	"reeutil-tradein-api-server/internal/valuation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRouter wires the handlers onto the HTTP surface.
func SetupRouter(
	cfg config.Config,
	db *mongo.Database,
	valuationSvc *valuation.Service,
	intakeSvc *intake.Service,
	deliverySvc *delivery.Service,
	inspectionSvc *inspection.Service,
	s3Uploader *s3.Uploader,
	wsHub *socket.Hub,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	jwtSecret := []byte(cfg.JWT.Secret)

	valuationHandler := &handlers.ValuationHandler{Service: valuationSvc}
	intakeHandler := &handlers.IntakeHandler{Service: intakeSvc}
	deliveryHandler := &handlers.DeliveryHandler{Service: deliverySvc}
	inspectionHandler := &handlers.InspectionHandler{Service: inspectionSvc, S3Uploader: s3Uploader}
	userHandler := &handlers.UserHandler{DB: db, Cfg: cfg}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub, JWTSecret: jwtSecret}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// Public routes: pricing, quote lookup and the user-facing side of
		// the workflow (confirmations, kit dispatch, offer responses).
		public := apiV1.Group("/")
		{
			public.POST("/price", valuationHandler.PriceQuote)
			public.POST("/quotes", valuationHandler.CreateQuote)
			public.GET("/quotes/:ref", valuationHandler.GetQuote)

			public.POST("/confirmations", intakeHandler.CreateConfirmation)
			public.POST("/kits", intakeHandler.DispatchKit)

			public.POST("/inspections/:id/counter-offer/response", inspectionHandler.RespondCounterOffer)
		}

		// Admin console routes.
		admin := apiV1.Group("/admin")
		admin.Use(middleware.Authenticate(jwtSecret))
		admin.Use(middleware.Authorize("admin"))
		{
			confirmations := admin.Group("/confirmations")
			{
				confirmations.GET("/", intakeHandler.ListConfirmations)
				confirmations.GET("/:id", intakeHandler.GetConfirmation)
				confirmations.PATCH("/:id/process", intakeHandler.ProcessConfirmation)
			}

			deliveries := admin.Group("/deliveries")
			{
				deliveries.POST("/", deliveryHandler.Receive)
				deliveries.GET("/", deliveryHandler.List)
				deliveries.GET("/:id", deliveryHandler.Get)
				deliveries.PATCH("/:id/status", deliveryHandler.SetStatus)
			}

			inspections := admin.Group("/inspections")
			{
				inspections.GET("/", inspectionHandler.List)
				inspections.GET("/:id", inspectionHandler.Get)
				inspections.POST("/:id/review", inspectionHandler.Review)
				inspections.PATCH("/:id/status", inspectionHandler.SetStatus)
				inspections.POST("/:id/counter-offer", inspectionHandler.SendCounterOffer)
				inspections.POST("/:id/payment", inspectionHandler.RegisterPayment)
				inspections.POST("/:id/finalize", inspectionHandler.Finalize)
				inspections.POST("/:id/photos", inspectionHandler.UploadPhoto)
			}
		}
	}

	return router
}
