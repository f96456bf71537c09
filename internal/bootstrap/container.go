package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-ordertaking-be/internal/config"
	"ai-ordertaking-be/internal/controller"
	"ai-ordertaking-be/internal/handler"
	"ai-ordertaking-be/internal/pkg/logger"
	"ai-ordertaking-be/internal/pkg/mailer"
	"ai-ordertaking-be/internal/repository/contract"
	"ai-ordertaking-be/internal/repository/memory"
	redisrepo "ai-ordertaking-be/internal/repository/redis"
	"ai-ordertaking-be/internal/repository/unitofwork"
	"ai-ordertaking-be/internal/service"
	"ai-ordertaking-be/pkg/aiclient"
	"ai-ordertaking-be/pkg/matching"
	"ai-ordertaking-be/pkg/whatsapp"

	pktNats "ai-ordertaking-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	VisitController   controller.IVisitController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Fulfillment event log worker
	OrderEventHandler *handler.OrderEventHandler
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Draft cart storage. Memory serves a single instance; Redis is for
	// deployments where several replicas share the webhook.
	cartTTL := time.Duration(cfg.App.CartTTLMinutes) * time.Minute
	var cartRepo contract.CartRepository
	if cfg.App.CartBackend == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		cartRepo = redisrepo.NewCartRepository(rdb, cartTTL)
		log.Printf("[INFO] Using Cart Backend: REDIS")
	} else {
		cartRepo = memory.NewCartRepository(cartTTL)
		log.Printf("[INFO] Using Cart Backend: MEMORY")
	}

	// External clients
	aiClient := aiclient.NewClient(
		cfg.Ai.BaseURL,
		cfg.Ai.ServiceToken,
		time.Duration(cfg.Ai.TextTimeoutSeconds)*time.Second,
		time.Duration(cfg.Ai.MediaTimeoutSeconds)*time.Second,
	)

	waClient := whatsapp.NewClient(
		cfg.WhatsApp.GraphBaseURL,
		cfg.WhatsApp.PhoneNumberId,
		cfg.WhatsApp.AccessToken,
	)
	if !waClient.Enabled() {
		log.Printf("[WARN] WhatsApp credentials missing, outbound replies run in dry-run mode")
	}

	// 3. Services
	matchCfg := matching.DefaultConfig()
	matchCfg.MinScore = cfg.Matching.MinScore
	matchCfg.TokenExactWeight = cfg.Matching.TokenExactWeight
	matchCfg.TokenPartialWeight = cfg.Matching.TokenPartialWeight

	publisherService := service.NewPublisherService(cfg.App.InboundTopic, pubSub)
	parserService := service.NewParserService(aiClient, sysLogger)
	orderService := service.NewOrderService(
		uowFactory,
		cartRepo,
		natsPub,
		matchCfg,
		cfg.Matching.ClarifyThreshold,
	)
	conversationService := service.NewConversationService(
		uowFactory,
		parserService,
		orderService,
		waClient,
		emailService,
		cfg.App.OpsAlertEmail,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.InboundTopic,
		conversationService,
	)
	visitService := service.NewVisitService(uowFactory, cfg.Visit.RadiusMeters)

	// 3.5 Fulfillment-side event log (Worker)
	var orderEventHandler *handler.OrderEventHandler
	if natsSub != nil {
		orderEventLogger := logger.NewIsolatedLogger("logs/order_events.log")
		orderEventHandler = handler.NewOrderEventHandler(natsSub, orderEventLogger)
		go orderEventHandler.Start()
	}

	// 4. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		WebhookController: controller.NewWebhookController(
			cfg.WhatsApp.VerifyToken,
			cfg.WhatsApp.AppSecret,
			publisherService,
			conversationService,
		),
		VisitController: controller.NewVisitController(visitService),

		ConsumerService:   consumerService,
		OrderEventHandler: orderEventHandler,
	}
}
