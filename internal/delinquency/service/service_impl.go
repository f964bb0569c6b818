package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/rentfolio/internal/clock"
	"github.com/smallbiznis/rentfolio/internal/delinquency/domain"
	"github.com/smallbiznis/rentfolio/internal/observability/metrics"
	"github.com/smallbiznis/rentfolio/internal/orgcontext"
	portfoliodomain "github.com/smallbiznis/rentfolio/internal/portfolio/domain"
	"github.com/smallbiznis/rentfolio/internal/providers/sms"
	"github.com/smallbiznis/rentfolio/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Portfolio portfoliodomain.Repository
	SMS       sms.Provider
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	portfolio portfoliodomain.Repository
	sms       sms.Provider
	metrics   *metrics.DelinquencyMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("delinquency.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		portfolio: p.Portfolio,
		sms:       p.SMS,
		metrics:   metrics.Delinquency(),
	}
}

func (s *Service) CreatePlaybook(ctx context.Context, req domain.CreatePlaybookRequest) (domain.DelinquencyPlaybook, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.DelinquencyPlaybook{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.DelinquencyPlaybook{}, domain.ErrInvalidName
	}
	if req.GracePeriodDays < 0 {
		return domain.DelinquencyPlaybook{}, domain.ErrInvalidGracePeriod
	}
	encoded, err := encodeIntervals(req.ReminderIntervals)
	if err != nil {
		return domain.DelinquencyPlaybook{}, err
	}
	propertyID, err := parsePropertyID(req.PropertyID)
	if err != nil {
		return domain.DelinquencyPlaybook{}, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := s.clock.Now()
	playbook := domain.DelinquencyPlaybook{
		ID:                s.genID.Generate(),
		OrgID:             orgID,
		PropertyID:        propertyID,
		Name:              name,
		Description:       strings.TrimSpace(req.Description),
		GracePeriodDays:   req.GracePeriodDays,
		ReminderIntervals: encoded,
		IsActive:          isActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.InsertPlaybook(ctx, s.db, &playbook); err != nil {
		return domain.DelinquencyPlaybook{}, err
	}
	return playbook, nil
}

func (s *Service) UpdatePlaybook(ctx context.Context, req domain.UpdatePlaybookRequest) (domain.DelinquencyPlaybook, error) {
	playbook, err := s.loadPlaybook(ctx, req.ID)
	if err != nil {
		return domain.DelinquencyPlaybook{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.DelinquencyPlaybook{}, domain.ErrInvalidName
		}
		playbook.Name = name
	}
	if req.Description != nil {
		playbook.Description = strings.TrimSpace(*req.Description)
	}
	if req.PropertyID != nil {
		propertyID, err := parsePropertyID(*req.PropertyID)
		if err != nil {
			return domain.DelinquencyPlaybook{}, err
		}
		playbook.PropertyID = propertyID
	}
	if req.GracePeriodDays != nil {
		if *req.GracePeriodDays < 0 {
			return domain.DelinquencyPlaybook{}, domain.ErrInvalidGracePeriod
		}
		playbook.GracePeriodDays = *req.GracePeriodDays
	}
	if req.ReminderIntervals != nil {
		encoded, err := encodeIntervals(req.ReminderIntervals)
		if err != nil {
			return domain.DelinquencyPlaybook{}, err
		}
		playbook.ReminderIntervals = encoded
	}
	if req.IsActive != nil {
		playbook.IsActive = *req.IsActive
	}

	if err := s.repo.UpdatePlaybook(ctx, s.db, playbook); err != nil {
		return domain.DelinquencyPlaybook{}, err
	}
	return *playbook, nil
}

func (s *Service) GetPlaybook(ctx context.Context, req domain.GetPlaybookRequest) (domain.DelinquencyPlaybook, error) {
	playbook, err := s.loadPlaybook(ctx, req.ID)
	if err != nil {
		return domain.DelinquencyPlaybook{}, err
	}
	return *playbook, nil
}

func (s *Service) ListPlaybooks(ctx context.Context, req domain.ListPlaybooksRequest) (domain.ListPlaybooksResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListPlaybooksResponse{}, domain.ErrInvalidOrganization
	}
	propertyID, err := parsePropertyID(req.PropertyID)
	if err != nil {
		return domain.ListPlaybooksResponse{}, err
	}
	playbooks, err := s.repo.ListPlaybooks(ctx, s.db, orgID, domain.ListPlaybooksFilter{
		ActiveOnly: req.ActiveOnly,
		PropertyID: propertyID,
	})
	if err != nil {
		return domain.ListPlaybooksResponse{}, err
	}
	return domain.ListPlaybooksResponse{Playbooks: playbooks}, nil
}

func (s *Service) DeletePlaybook(ctx context.Context, req domain.DeletePlaybookRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return domain.ErrInvalidID
	}
	deleted, err := s.repo.DeletePlaybook(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) ListActions(ctx context.Context, req domain.ListActionsRequest) (domain.ListActionsResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListActionsResponse{}, domain.ErrInvalidOrganization
	}
	paymentID, err := snowflake.ParseString(strings.TrimSpace(req.PaymentID))
	if err != nil {
		return domain.ListActionsResponse{}, domain.ErrInvalidID
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	items, err := s.repo.ListActionsByPayment(ctx, s.db, orgID, paymentID, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListActionsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(action *domain.DelinquencyAction) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        action.ID.String(),
			CreatedAt: action.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	actions := make([]domain.DelinquencyAction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		actions = append(actions, *item)
	}

	resp := domain.ListActionsResponse{Actions: actions}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) loadPlaybook(ctx context.Context, rawID string) (*domain.DelinquencyPlaybook, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	playbook, err := s.repo.FindPlaybookByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if playbook == nil {
		return nil, domain.ErrNotFound
	}
	return playbook, nil
}

func parsePropertyID(raw string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	return &id, nil
}

func encodeIntervals(intervals []domain.ReminderInterval) (datatypes.JSON, error) {
	if len(intervals) == 0 {
		return nil, domain.ErrInvalidIntervals
	}
	for _, interval := range intervals {
		if interval.Days < 1 {
			return nil, domain.ErrInvalidIntervals
		}
		if strings.TrimSpace(interval.ActionType) == "" {
			return nil, domain.ErrInvalidIntervals
		}
		if interval.ActionType == domain.ActionTypeSMS && strings.TrimSpace(interval.MessageTemplate) == "" {
			return nil, domain.ErrInvalidIntervals
		}
	}
	encoded, err := json.Marshal(intervals)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}
