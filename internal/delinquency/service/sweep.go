package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	portfoliodomain "github.com/smallbiznis/rentfolio/internal/portfolio/domain"
	"github.com/smallbiznis/rentfolio/pkg/db"
	"go.uber.org/zap"
)

// dedupeWindow suppresses repeat firings of the same interval for the same
// payment. Sweeps may run more often than daily without double-texting.
const dedupeWindow = 24 * time.Hour

func (s *Service) ProcessDelinquentPayments(ctx context.Context) (domain.SweepResult, error) {
	now := s.clock.Now()

	payments, err := s.portfolio.ListOverduePayments(ctx, s.db, now)
	if err != nil {
		return domain.SweepResult{}, fmt.Errorf("list overdue payments: %w", err)
	}
	playbooks, err := s.repo.ListActivePlaybooks(ctx, s.db)
	if err != nil {
		return domain.SweepResult{}, fmt.Errorf("list active playbooks: %w", err)
	}

	byOrg := make(map[snowflake.ID][]domain.DelinquencyPlaybook)
	for _, playbook := range playbooks {
		byOrg[playbook.OrgID] = append(byOrg[playbook.OrgID], playbook)
	}

	s.metrics.IncSweep()
	result := domain.SweepResult{}
	for i := range payments {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		payment := &payments[i]
		result.PaymentsChecked++

		if err := s.processPayment(ctx, payment, byOrg[payment.OrgID], now, &result); err != nil {
			result.Errors = append(result.Errors, domain.PaymentError{
				PaymentID: payment.ID.String(),
				Error:     err.Error(),
			})
		}
	}

	s.metrics.AddPaymentErrors(len(result.Errors))
	s.log.Info("delinquency sweep finished",
		zap.Int("payments_checked", result.PaymentsChecked),
		zap.Int("actions_sent", result.ActionsSent),
		zap.Int("actions_failed", result.ActionsFailed),
		zap.Int("payment_errors", len(result.Errors)),
	)
	return result, nil
}

func (s *Service) processPayment(ctx context.Context, payment *portfoliodomain.Payment, playbooks []domain.DelinquencyPlaybook, now time.Time, result *domain.SweepResult) error {
	overdueDays := daysOverdue(now, payment.DueDate)

	property, err := s.resolveProperty(ctx, payment)
	if err != nil {
		return err
	}

	for i := range playbooks {
		playbook := &playbooks[i]
		if playbook.PropertyID != nil && *playbook.PropertyID != property.ID {
			continue
		}
		if overdueDays < playbook.GracePeriodDays {
			continue
		}
		intervals, err := playbook.Intervals()
		if err != nil {
			return fmt.Errorf("playbook %s: %w", playbook.ID, err)
		}
		for _, interval := range intervals {
			if overdueDays < interval.Days {
				continue
			}
			if err := s.fireInterval(ctx, payment, playbook, interval, property, now, result); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveProperty walks the payment's lease to its property. A broken link
// is a per-payment error, the sweep moves on.
func (s *Service) resolveProperty(ctx context.Context, payment *portfoliodomain.Payment) (*portfoliodomain.Property, error) {
	lease, err := s.portfolio.GetLease(ctx, s.db, payment.LeaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, fmt.Errorf("lease %s not found", payment.LeaseID)
	}
	property, err := s.portfolio.GetProperty(ctx, s.db, lease.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, fmt.Errorf("property %s not found", lease.PropertyID)
	}
	return property, nil
}

// daysOverdue rounds partial days up, so a payment one hour past due is one
// day overdue.
func daysOverdue(now, dueDate time.Time) int {
	overdue := now.Sub(dueDate)
	if overdue <= 0 {
		return 0
	}
	return int(math.Ceil(overdue.Hours() / 24))
}

func (s *Service) fireInterval(ctx context.Context, payment *portfoliodomain.Payment, playbook *domain.DelinquencyPlaybook, interval domain.ReminderInterval, property *portfoliodomain.Property, now time.Time, result *domain.SweepResult) error {
	seen, err := s.repo.HasRecentAction(ctx, s.db, payment.ID, playbook.ID, interval.Days, interval.ActionType, now.Add(-dedupeWindow))
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	action := domain.DelinquencyAction{
		ID:           s.genID.Generate(),
		OrgID:        payment.OrgID,
		PaymentID:    payment.ID,
		PlaybookID:   playbook.ID,
		TenantID:     payment.TenantID,
		IntervalDays: interval.Days,
		ActionType:   interval.ActionType,
		CreatedAt:    now,
	}

	switch interval.ActionType {
	case domain.ActionTypeSMS:
		if err := s.sendReminder(ctx, payment, interval, property, &action); err != nil {
			return err
		}
		if action.Status == domain.ActionStatusSent {
			sentAt := now
			action.SentAt = &sentAt
		}
	default:
		action.Status = domain.ActionStatusSkipped
		action.Detail = "unsupported action type"
	}

	if err := s.repo.InsertAction(ctx, s.db, &action); err != nil {
		// A concurrent sweep recorded the same tuple first.
		if db.IsDuplicateKeyErr(err) {
			return nil
		}
		return err
	}

	s.metrics.IncAction(action.Status)
	switch action.Status {
	case domain.ActionStatusSent:
		result.ActionsSent++
	case domain.ActionStatusFailed:
		result.ActionsFailed++
	}
	return nil
}

// sendReminder renders the template and delivers it, recording the outcome
// on the action. Delivery problems are action failures, not sweep errors.
func (s *Service) sendReminder(ctx context.Context, payment *portfoliodomain.Payment, interval domain.ReminderInterval, property *portfoliodomain.Property, action *domain.DelinquencyAction) error {
	tenant, err := s.portfolio.GetTenant(ctx, s.db, payment.TenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return fmt.Errorf("tenant %s not found", payment.TenantID)
	}
	prefs, err := s.portfolio.GetSmsPreferences(ctx, s.db, tenant.ID)
	if err != nil {
		return err
	}

	phone := tenant.Phone
	if prefs != nil && prefs.PhoneNumber != "" {
		phone = prefs.PhoneNumber
	}

	message := renderMessage(payment, tenant, property, interval)
	action.Message = message

	switch {
	case phone == "":
		action.Status = domain.ActionStatusFailed
		action.Detail = "no phone number on file"
	case prefs == nil || !prefs.OptedIn:
		action.Status = domain.ActionStatusFailed
		action.Detail = "tenant has not opted in to sms"
	case !prefs.RentReminders:
		action.Status = domain.ActionStatusFailed
		action.Detail = "rent reminders disabled"
	default:
		if err := s.sms.Send(ctx, phone, message); err != nil {
			action.Status = domain.ActionStatusFailed
			action.Detail = err.Error()
		} else {
			action.Status = domain.ActionStatusSent
		}
	}
	return nil
}

// renderMessage substitutes template tokens. {daysOverdue} carries the
// interval threshold that fired, not the raw elapsed count.
func renderMessage(payment *portfoliodomain.Payment, tenant *portfoliodomain.Tenant, property *portfoliodomain.Property, interval domain.ReminderInterval) string {
	replacer := strings.NewReplacer(
		"{tenantName}", strings.TrimSpace(tenant.FirstName+" "+tenant.LastName),
		"{amount}", fmt.Sprintf("$%.2f", payment.Amount),
		"{daysOverdue}", fmt.Sprintf("%d", interval.Days),
		"{dueDate}", payment.DueDate.Format("2006-01-02"),
		"{propertyName}", property.Name,
	)
	return replacer.Replace(interval.MessageTemplate)
}
