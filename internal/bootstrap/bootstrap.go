package bootstrap

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kirillkom/tour-inquiry-service/internal/config"
	"github.com/kirillkom/tour-inquiry-service/internal/core/ports"
	"github.com/kirillkom/tour-inquiry-service/internal/core/usecase"
	rediscache "github.com/kirillkom/tour-inquiry-service/internal/infrastructure/cache/redis"
	"github.com/kirillkom/tour-inquiry-service/internal/infrastructure/classifier/keyword"
	"github.com/kirillkom/tour-inquiry-service/internal/infrastructure/notifier/smtp"
	"github.com/kirillkom/tour-inquiry-service/internal/infrastructure/queue/nats"
	"github.com/kirillkom/tour-inquiry-service/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/tour-inquiry-service/internal/infrastructure/resilience"
	"github.com/kirillkom/tour-inquiry-service/internal/infrastructure/stream/kafka"
)

type App struct {
	Config config.Config

	Queue     *nats.Queue
	Inquiries ports.InquiryRepository
	Responses ports.ResponseRepository
	Templates ports.TemplateRepository
	Reader    ports.InquiryReader

	SubmitUC ports.InquirySubmitter
	TriageUC *usecase.TriageInquiryUseCase
	AdminUC  ports.InquiryAdmin

	closeFn func()
}

// New wires the whole service. Redis, Kafka and SMTP are optional: leave
// their addresses empty and the related decorators simply stay out of the
// graph.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	inquiries := postgres.NewInquiryRepository(db)
	if err := inquiries.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	responses := postgres.NewResponseRepository(db)

	var templates ports.TemplateRepository = postgres.NewTemplateRepository(db)
	var redisClient *goredis.Client
	if cfg.RedisAddr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		templates = rediscache.NewTemplateCache(
			templates,
			redisClient,
			time.Duration(cfg.TemplateCacheTTL)*time.Second,
		)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	rules := keyword.DefaultRules()
	if cfg.ClassifierRulesPath != "" {
		rules, err = keyword.LoadRules(cfg.ClassifierRulesPath)
		if err != nil {
			return nil, fmt.Errorf("load classifier rules: %w", err)
		}
	}
	analyzer, err := keyword.New(rules)
	if err != nil {
		return nil, fmt.Errorf("compile classifier rules: %w", err)
	}

	var notifier ports.Notifier
	if cfg.SMTPHost != "" {
		mailer, err := smtp.NewMailer(smtp.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			UseTLS:   cfg.SMTPUseTLS,
		}, executor)
		if err != nil {
			return nil, fmt.Errorf("init smtp notifier: %w", err)
		}
		notifier = mailer
	}

	var events ports.EventPublisher
	var eventsProducer *kafka.TriageEventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		eventsProducer = kafka.NewTriageEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		events = eventsProducer
	}

	submitUC := usecase.NewSubmitInquiryUseCase(inquiries, queue)
	triageUC := usecase.NewTriageInquiryUseCase(
		inquiries,
		responses,
		analyzer,
		usecase.NewResponseSelector(templates),
		usecase.NewEscalationEvaluator(),
		notifier,
		events,
		cfg.AdminEmails,
	)
	adminUC := usecase.NewInquiryAdminUseCase(inquiries, responses)

	return &App{
		Config: cfg,

		Queue:     queue,
		Inquiries: inquiries,
		Responses: responses,
		Templates: templates,
		Reader:    inquiries,

		SubmitUC: submitUC,
		TriageUC: triageUC,
		AdminUC:  adminUC,

		closeFn: func() {
			queue.Close()
			if eventsProducer != nil {
				_ = eventsProducer.Close()
			}
			if redisClient != nil {
				_ = redisClient.Close()
			}
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
