package usecase

import (
	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/service/responsecache"
	"github.com/doc-forge-buddy/docforge/pkg/service/slack"
	"github.com/m-mizutani/gollem"
)

type UseCases struct {
	repo         interfaces.Repository
	cache        *responsecache.Cache
	llmClient    gollem.LLMClient
	slackService slack.Service
	slackChannel string
	scanPolicy   ScanPolicy

	Scan         *NotificationScanUseCase
	Notification *NotificationUseCase
	Assist       *AssistUseCase
}

type Option func(*UseCases)

// WithResponseCache enables the assist use case
func WithResponseCache(cache *responsecache.Cache) Option {
	return func(uc *UseCases) {
		uc.cache = cache
	}
}

func WithLLMClient(client gollem.LLMClient) Option {
	return func(uc *UseCases) {
		uc.llmClient = client
	}
}

// WithSlack posts elevated notifications to channelID
func WithSlack(svc slack.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
		uc.slackChannel = channelID
	}
}

func WithScanPolicy(policy ScanPolicy) Option {
	return func(uc *UseCases) {
		uc.scanPolicy = policy
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:       repo,
		scanPolicy: DefaultScanPolicy(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	scanOpts := []ScanOption{WithPolicy(uc.scanPolicy)}
	if uc.slackService != nil && uc.slackChannel != "" {
		scanOpts = append(scanOpts, WithSlackDelivery(uc.slackService, uc.slackChannel))
	}
	uc.Scan = NewNotificationScanUseCase(repo, scanOpts...)
	uc.Notification = NewNotificationUseCase(repo)
	if uc.cache != nil {
		uc.Assist = NewAssistUseCase(uc.cache, uc.llmClient)
	}

	return uc
}
