package api

import (
	v1 "github.com/flexprice/paymirror/internal/api/v1"
	"github.com/flexprice/paymirror/internal/auth"
	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/rest/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health    *v1.HealthHandler
	Webhook   *v1.WebhookHandler
	Plan      *v1.PlanHandler
	Agreement *v1.AgreementHandler
	Payment   *v1.PaymentHandler
	Report    *v1.ReportHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, verifier auth.Verifier) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.PyroscopeMiddleware(cfg),
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1Group := router.Group("/v1")

	// Provider notifications are not signed by a client
	v1Group.POST("/notifications/webhooks", handlers.Webhook.ReceiveNotification)

	private := v1Group.Group("/")
	private.Use(middleware.ClientAuthMiddleware(verifier, logger))
	registerPrivateRoutes(private, handlers)

	return router
}

func registerPrivateRoutes(router *gin.RouterGroup, handlers Handlers) {
	payments := router.Group("/payments")
	{
		payments.POST("/payment", handlers.Payment.CreatePayment)
		payments.GET("/payment/:id", handlers.Payment.GetPaymentDetails)
		payments.POST("/payment/:id/execute", handlers.Payment.ExecutePayment)

		payments.POST("/billing-plans", handlers.Plan.CreatePlan)
		payments.PATCH("/billing-plans/:id", handlers.Plan.ActivatePlan)

		payments.POST("/billing-agreements", handlers.Agreement.CreateAgreement)
		payments.POST("/billing-agreements/:token/agreement-execute", handlers.Agreement.ExecuteAgreement)
	}

	reports := router.Group("/reports")
	{
		reports.GET("/billing-agreements", handlers.Report.ListAgreements)
		reports.GET("/payments", handlers.Report.ListPayments)
	}
}
