package main

import (
	"context"
	"time"

	"github.com/flexprice/paymirror/internal/api"
	v1 "github.com/flexprice/paymirror/internal/api/v1"
	"github.com/flexprice/paymirror/internal/auth"
	"github.com/flexprice/paymirror/internal/cache"
	"github.com/flexprice/paymirror/internal/config"
	"github.com/flexprice/paymirror/internal/gateway"
	"github.com/flexprice/paymirror/internal/httpclient"
	"github.com/flexprice/paymirror/internal/ledger"
	"github.com/flexprice/paymirror/internal/logger"
	"github.com/flexprice/paymirror/internal/postgres"
	"github.com/flexprice/paymirror/internal/pubsub"
	"github.com/flexprice/paymirror/internal/pubsub/kafka"
	"github.com/flexprice/paymirror/internal/pubsub/memory"
	pubsubRouter "github.com/flexprice/paymirror/internal/pubsub/router"
	"github.com/flexprice/paymirror/internal/pyroscope"
	"github.com/flexprice/paymirror/internal/reconcile"
	"github.com/flexprice/paymirror/internal/repository"
	"github.com/flexprice/paymirror/internal/s3"
	"github.com/flexprice/paymirror/internal/sentry"
	"github.com/flexprice/paymirror/internal/service"
	"github.com/flexprice/paymirror/internal/types"
	"github.com/flexprice/paymirror/internal/validator"
	"go.uber.org/fx"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	_ "github.com/flexprice/paymirror/docs/swagger"
	"github.com/gin-gonic/gin"
)

// @title PayMirror API
// @version 1.0
// @description PayPal payment proxy and webhook reconciliation service
// @BasePath /v1
// @schemes http https
// @securityDefinitions.apikey OpenAM
// @in header
// @name Openam-Client-Token
// @description OpenAM access token of the calling user, sent together with Openam-Client and Paypal-Access-Token

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// HTTP Client
			httpclient.NewPayPalClient,

			// Provider and identity
			gateway.NewPayPalGateway,
			auth.NewVerifier,

			// Raw notification archive
			s3.NewArchiver,

			// Notification ledger
			ledger.New,

			// PubSub
			providePubSub,
			pubsubRouter.NewRouter,
		),
		fx.Decorate(postgres.NewSentryClient),
	)

	// Monitoring and storage modules
	opts = append(opts,
		sentry.Module(),
		pyroscope.Module(),
		postgres.Module(),
		repository.Module(),
		reconcile.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewNotificationService,
			service.NewNotificationConsumer,
			service.NewPlanService,
			service.NewAgreementService,
			service.NewPaymentService,
			service.NewReportService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func providePubSub(cfg *config.Configuration, logger *logger.Logger) (pubsub.PubSub, error) {
	switch cfg.Ingestion.PubSub {
	case types.KafkaPubSub:
		return kafka.NewPubSub(cfg, logger)
	default:
		return memory.NewPubSub(logger), nil
	}
}

func provideHandlers(
	logger *logger.Logger,
	notificationService service.NotificationService,
	planService service.PlanService,
	agreementService service.AgreementService,
	paymentService service.PaymentService,
	reportService service.ReportService,
) api.Handlers {
	return api.Handlers{
		Health:    v1.NewHealthHandler(logger),
		Webhook:   v1.NewWebhookHandler(notificationService, logger),
		Plan:      v1.NewPlanHandler(planService, logger),
		Agreement: v1.NewAgreementHandler(agreementService, logger),
		Payment:   v1.NewPaymentHandler(paymentService, logger),
		Report:    v1.NewReportHandler(reportService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger, verifier auth.Verifier) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger, verifier)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	router *pubsubRouter.Router,
	subscriber pubsub.PubSub,
	consumer service.NotificationConsumer,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startMessageRouter(lc, cfg, router, subscriber, consumer, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeConsumer:
		if !cfg.Ingestion.Enabled {
			log.Fatal("Ingestion must be enabled for consumer mode")
		}
		startMessageRouter(lc, cfg, router, subscriber, consumer, log)
	case types.ModeAWSLambdaAPI:
		startAWSLambdaAPI(r)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}

func startAWSLambdaAPI(r *gin.Engine) {
	ginLambda := ginadapter.New(r)
	lambda.Start(ginLambda.ProxyWithContext)
}

func startMessageRouter(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	router *pubsubRouter.Router,
	subscriber pubsub.PubSub,
	consumer service.NotificationConsumer,
	logger *logger.Logger,
) {
	if !cfg.Ingestion.Enabled {
		logger.Info("queue ingestion is disabled")
		return
	}

	// Register handlers before starting the router
	consumer.RegisterHandler(router, subscriber)

	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting message router")
			go func() {
				if err := router.Run(runCtx); err != nil {
					logger.Errorw("message router failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping message router")
			cancel()
			if err := router.Close(); err != nil {
				return err
			}
			return subscriber.Close()
		},
	})
}
