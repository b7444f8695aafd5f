package usecase

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/doc-forge-buddy/docforge/pkg/domain/interfaces"
	"github.com/doc-forge-buddy/docforge/pkg/domain/model"
	"github.com/doc-forge-buddy/docforge/pkg/domain/types"
	"github.com/doc-forge-buddy/docforge/pkg/service/slack"
	"github.com/doc-forge-buddy/docforge/pkg/utils/logging"
	"github.com/doc-forge-buddy/docforge/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// ScanPolicy tunes the notification scan
type ScanPolicy struct {
	// ContractWindowDays is the largest daysRemaining that is notified
	ContractWindowDays int
	// ContractDedupWindow suppresses a new contract notification when one exists within it
	ContractDedupWindow time.Duration
	// InspectionDedupWindow is the same for vistoria notifications
	InspectionDedupWindow time.Duration
	// Workers bounds how many users are scanned at once
	Workers int
	// UserTimeout bounds the time spent on a single user
	UserTimeout time.Duration
}

func DefaultScanPolicy() ScanPolicy {
	return ScanPolicy{
		ContractWindowDays:    30,
		ContractDedupWindow:   7 * 24 * time.Hour,
		InspectionDedupWindow: 24 * time.Hour,
		Workers:               4,
		UserTimeout:           30 * time.Second,
	}
}

// NotificationScanUseCase detects expiring contracts and upcoming vistorias
// and emits deduplicated notifications
type NotificationScanUseCase struct {
	repo         interfaces.Repository
	policy       ScanPolicy
	slackService slack.Service
	slackChannel string
	now          func() time.Time
}

type ScanOption func(*NotificationScanUseCase)

func WithPolicy(policy ScanPolicy) ScanOption {
	return func(uc *NotificationScanUseCase) {
		uc.policy = policy
	}
}

// WithSlackDelivery posts urgent and high priority notifications to channelID
func WithSlackDelivery(svc slack.Service, channelID string) ScanOption {
	return func(uc *NotificationScanUseCase) {
		uc.slackService = svc
		uc.slackChannel = channelID
	}
}

func WithScanClock(now func() time.Time) ScanOption {
	return func(uc *NotificationScanUseCase) {
		uc.now = now
	}
}

func NewNotificationScanUseCase(repo interfaces.Repository, opts ...ScanOption) *NotificationScanUseCase {
	uc := &NotificationScanUseCase{
		repo:   repo,
		policy: DefaultScanPolicy(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.policy.Workers < 1 {
		uc.policy.Workers = 1
	}
	return uc
}

// Scan visits every active user once. Per-entity and per-user failures are
// counted in the result; only a missing repository or a failure to list
// users aborts the scan.
func (uc *NotificationScanUseCase) Scan(ctx context.Context) (*model.ScanResult, error) {
	if uc.repo == nil {
		metrics.ScanRuns.WithLabelValues("failure").Inc()
		return nil, goerr.Wrap(ErrRepositoryNotConfigured, "cannot scan notifications")
	}

	logger := logging.From(ctx)
	startTime := time.Now()
	now := uc.now()

	users, err := uc.repo.User().ListActive(ctx)
	if err != nil {
		metrics.ScanRuns.WithLabelValues("failure").Inc()
		return nil, goerr.Wrap(err, "failed to list active users")
	}

	logger.Info("notification scan started", "users", len(users), "workers", uc.policy.Workers)

	var (
		mu     sync.Mutex
		result = &model.ScanResult{}
		eg     errgroup.Group
	)
	eg.SetLimit(uc.policy.Workers)

	for _, user := range users {
		eg.Go(func() error {
			userCtx := ctx
			if uc.policy.UserTimeout > 0 {
				var cancel context.CancelFunc
				userCtx, cancel = context.WithTimeout(ctx, uc.policy.UserTimeout)
				defer cancel()
			}

			created, errs := uc.scanUser(userCtx, user, now)

			mu.Lock()
			result.NotificationsCreated += created
			result.Errors += errs
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	cleaned, err := uc.repo.Notification().CleanupExpired(ctx, now)
	if err != nil {
		logger.Error("failed to clean up notifications", "error", err.Error(), "cleaned", cleaned)
		result.Errors++
	}
	result.CleanedCount = cleaned
	result.FinishedAt = uc.now()

	metrics.ScanErrors.Add(float64(result.Errors))
	metrics.ScanRuns.WithLabelValues("success").Inc()

	logger.Info("notification scan completed",
		"created", result.NotificationsCreated,
		"errors", result.Errors,
		"cleaned", result.CleanedCount,
		"duration", time.Since(startTime).String())

	return result, nil
}

func (uc *NotificationScanUseCase) scanUser(ctx context.Context, user *model.User, now time.Time) (created, errs int) {
	logger := logging.From(ctx).With("user_id", user.ID)

	contracts, err := uc.repo.Contract().ListWithDeadline(ctx, user.ID)
	if err != nil {
		logger.Error("failed to list contracts", "error", err.Error())
		errs++
	}
	for _, contract := range contracts {
		ok, err := uc.processContract(ctx, user, contract, now)
		if err != nil {
			logger.Error("failed to process contract", "contract_id", contract.ID, "error", err.Error())
			errs++
			continue
		}
		if ok {
			created++
		}
	}

	inspections, err := uc.repo.Inspection().ListScheduled(ctx, user.ID)
	if err != nil {
		logger.Error("failed to list vistorias", "error", err.Error())
		errs++
	}
	for _, inspection := range inspections {
		ok, err := uc.processInspection(ctx, user, inspection, now)
		if err != nil {
			logger.Error("failed to process vistoria", "vistoria_id", inspection.ID, "error", err.Error())
			errs++
			continue
		}
		if ok {
			created++
		}
	}

	return created, errs
}

// DaysRemaining rounds the time left until deadline up to whole days
func DaysRemaining(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

type contractClass struct {
	notificationType types.NotificationType
	priority         types.NotificationPriority
}

// classifyContract maps days remaining to type and priority. Callers
// filter out values below 1.
func classifyContract(days int) contractClass {
	switch {
	case days <= 1:
		return contractClass{types.NotificationTypeContractExpiring1Day, types.NotificationPriorityUrgent}
	case days <= 7:
		return contractClass{types.NotificationTypeContractExpiring7Days, types.NotificationPriorityHigh}
	default:
		return contractClass{types.NotificationTypeContractExpiring, types.NotificationPriorityNormal}
	}
}

func contractText(number string, days int, date string) (title, message string) {
	switch {
	case days <= 1:
		return fmt.Sprintf("Contrato %s expira hoje!", number),
			fmt.Sprintf("O contrato %s expira hoje (%s). Ação necessária.", number, date)
	case days <= 7:
		title = fmt.Sprintf("Contrato %s expira em %d dias", number, days)
	default:
		title = fmt.Sprintf("Contrato %s próximo de expiração", number)
	}
	return title, fmt.Sprintf("O contrato %s expira em %d dias (%s).", number, days, date)
}

func (uc *NotificationScanUseCase) processContract(ctx context.Context, user *model.User, contract *model.Contract, now time.Time) (bool, error) {
	deadline, err := contract.Deadline()
	if err != nil {
		return false, err
	}

	days := DaysRemaining(deadline, now)
	if days < 1 || days > uc.policy.ContractWindowDays {
		return false, nil
	}

	ref := model.EntityRef{Kind: model.EntityKindContract, ID: string(contract.ID)}
	recent, err := uc.repo.Notification().FindRecent(ctx, user.ID, ref,
		types.ContractExpiringTypes(), now.Add(-uc.policy.ContractDedupWindow))
	if err != nil {
		return false, goerr.Wrap(err, "failed to check recent notifications", goerr.V("contract_id", contract.ID))
	}
	if len(recent) > 0 {
		return false, nil
	}

	class := classifyContract(days)
	title, message := contractText(contract.DisplayNumber(), days, contract.TerminationDate)

	n := &model.Notification{
		UserID:  user.ID,
		Type:    class.notificationType,
		Title:   title,
		Message: message,
		Metadata: model.NotificationMetadata{
			ContractID:    contract.ID,
			DaysRemaining: &days,
			Date:          contract.TerminationDate,
		},
		Priority:  class.priority,
		CreatedAt: now,
		ExpiresAt: deadline,
	}

	return uc.emit(ctx, n)
}

func (uc *NotificationScanUseCase) processInspection(ctx context.Context, user *model.User, inspection *model.Inspection, now time.Time) (bool, error) {
	scheduled, err := inspection.Scheduled()
	if err != nil {
		return false, err
	}

	scheduledDay := scheduled.UTC().Format(time.DateOnly)
	isToday := scheduledDay == now.UTC().Format(time.DateOnly)
	isTomorrow := scheduledDay == now.UTC().Add(24*time.Hour).Format(time.DateOnly)
	if !isToday && !isTomorrow {
		return false, nil
	}

	ref := model.EntityRef{Kind: model.EntityKindVistoria, ID: string(inspection.ID)}
	recent, err := uc.repo.Notification().FindRecent(ctx, user.ID, ref,
		types.VistoriaTypes(), now.Add(-uc.policy.InspectionDedupWindow))
	if err != nil {
		return false, goerr.Wrap(err, "failed to check recent notifications", goerr.V("vistoria_id", inspection.ID))
	}
	if len(recent) > 0 {
		return false, nil
	}

	number := inspection.ContractNumber()
	n := &model.Notification{
		UserID: user.ID,
		Metadata: model.NotificationMetadata{
			VistoriaID: inspection.ID,
			ContractID: inspection.ContractID,
			Date:       inspection.ScheduledDate,
		},
		CreatedAt: now,
		// the notification stays valid until the end of the scheduled day
		ExpiresAt: scheduled.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour),
	}
	if isToday {
		n.Type = types.NotificationTypeVistoriaToday
		n.Priority = types.NotificationPriorityUrgent
		n.Title = fmt.Sprintf("Vistoria hoje: %s", number)
		n.Message = fmt.Sprintf("A vistoria do contrato %s está agendada para hoje (%s).", number, inspection.ScheduledDate)
	} else {
		n.Type = types.NotificationTypeVistoriaReminder
		n.Priority = types.NotificationPriorityHigh
		n.Title = fmt.Sprintf("Lembrete: Vistoria amanhã - %s", number)
		n.Message = fmt.Sprintf("A vistoria do contrato %s está agendada para amanhã (%s).", number, inspection.ScheduledDate)
	}

	return uc.emit(ctx, n)
}

func (uc *NotificationScanUseCase) emit(ctx context.Context, n *model.Notification) (bool, error) {
	created, err := uc.repo.Notification().Create(ctx, n)
	if err != nil {
		return false, goerr.Wrap(err, "failed to create notification", goerr.V("type", n.Type))
	}
	metrics.NotificationsCreated.WithLabelValues(created.Type.String()).Inc()

	uc.deliver(ctx, created)
	return true, nil
}

// deliver posts elevated notifications to Slack. Failures are logged only.
func (uc *NotificationScanUseCase) deliver(ctx context.Context, n *model.Notification) {
	if uc.slackService == nil || uc.slackChannel == "" || !n.Priority.IsElevated() {
		return
	}

	blocks, text := slack.NotificationBlocks(n)
	if _, err := uc.slackService.PostMessage(ctx, uc.slackChannel, blocks, text); err != nil {
		logging.From(ctx).Warn("failed to deliver notification to Slack",
			"notification_id", n.ID,
			"channel", uc.slackChannel,
			"error", err.Error())
	}
}
