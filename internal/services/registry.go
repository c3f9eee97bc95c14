package services

import (
	"climatework_backend/internal/config"
	"climatework_backend/internal/email"
	"climatework_backend/internal/logger"
	"climatework_backend/internal/queue"
	"climatework_backend/internal/repositories"
	"climatework_backend/internal/storage"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService           AuthService
	CallbackService       CallbackService
	OnboardingService     OnboardingService
	ProfileService        ProfileService
	RecommendationService RecommendationService
	UploadService         UploadService
	UserService           UserService
	AuditService          AuditService
}

// BuildServices wires repositories, the email sender, storage, and the
// optional queue producer into the service graph.
func BuildServices(cfg *config.Config) (*ServiceContainer, error) {
	userRepo := repositories.NewUserRepository()
	codeRepo := repositories.NewAuthCodeRepository()
	profileRepo := repositories.NewProfileRepository()
	skillRepo := repositories.NewSkillRepository()
	pendingRepo := repositories.NewPendingRegistrationRepository()
	recRepo := repositories.NewRecommendationRepository()
	eventRepo := repositories.NewSecurityEventRepository()

	sender := buildSender(cfg)

	store, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		return nil, err
	}

	// Welcome delivery goes through Kafka when a broker is configured;
	// otherwise the SMTP sender delivers inline.
	var notifier WelcomeNotifier = sender
	if cfg.Queue.Enabled {
		producer := queue.NewProducer(cfg.Queue.Broker, cfg.Queue.Topic, cfg.Queue.User, cfg.Queue.Pass)
		notifier = NewQueueWelcomeNotifier(producer)
	}

	audit := NewAuditService(eventRepo)
	recService := NewRecommendationService(profileRepo, skillRepo, recRepo)
	profileService := NewProfileService(profileRepo, skillRepo, recService)

	return &ServiceContainer{
		AuthService:           NewAuthService(userRepo, codeRepo, profileRepo, pendingRepo, sender, audit),
		CallbackService:       NewCallbackService(userRepo, codeRepo, profileRepo, pendingRepo, notifier, audit),
		OnboardingService:     NewOnboardingService(userRepo, profileRepo, skillRepo, pendingRepo, recService, audit),
		ProfileService:        profileService,
		RecommendationService: recService,
		UploadService:         NewUploadService(store, profileService, audit),
		UserService:           NewUserService(userRepo, profileRepo),
		AuditService:          audit,
	}, nil
}

func buildSender(cfg *config.Config) email.Sender {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("email not configured, using noop sender")
		return email.NoopSender{}
	}

	sender, err := email.NewSMTPSender(email.Config{
		SMTPHost:  cfg.Email.SMTPHost,
		SMTPPort:  cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
		BaseURL:   cfg.Email.BaseURL,
	})
	if err != nil {
		logger.WithError(err).Warn("email sender init failed, using noop sender")
		return email.NoopSender{}
	}
	return sender
}
