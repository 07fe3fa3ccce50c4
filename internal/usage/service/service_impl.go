package service

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	machinedomain "github.com/lunelaser/lunebill/internal/machine/domain"
	"github.com/lunelaser/lunebill/internal/period"
	"github.com/lunelaser/lunebill/internal/pricing"
	"github.com/lunelaser/lunebill/internal/usage/domain"
	"github.com/lunelaser/lunebill/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	MachineRepo machinedomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	machineRepo machinedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("usage.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		machineRepo: p.MachineRepo,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordUsageRequest) (domain.UsageRecord, error) {
	if req.MachineID == 0 {
		return domain.UsageRecord{}, domain.ErrInvalidMachine
	}
	if req.ButtonNumber < 1 || req.ButtonNumber > pricing.ButtonCount {
		return domain.UsageRecord{}, domain.ErrInvalidButton
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || req.EndTime.Before(req.StartTime) {
		return domain.UsageRecord{}, domain.ErrInvalidTimeRange
	}

	machine, err := s.machineRepo.FindByID(ctx, s.db, req.MachineID)
	if err != nil {
		return domain.UsageRecord{}, err
	}
	if machine == nil {
		return domain.UsageRecord{}, machinedomain.ErrNotFound
	}

	start := req.StartTime.UTC()
	end := req.EndTime.UTC()

	usageDate := truncateToDate(start)
	if req.UsageDate != nil && !req.UsageDate.IsZero() {
		usageDate = truncateToDate(req.UsageDate.UTC())
	}

	record := domain.UsageRecord{
		ID:              s.genID.Generate(),
		MachineID:       req.MachineID,
		ButtonNumber:    req.ButtonNumber,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: int64(end.Sub(start) / time.Second),
		UsageDate:       usageDate,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		return domain.UsageRecord{}, err
	}
	return record, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateUsageRequest) (domain.UsageRecord, error) {
	record, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.UsageRecord{}, err
	}
	if record == nil {
		return domain.UsageRecord{}, domain.ErrNotFound
	}

	if req.ButtonNumber != nil {
		if *req.ButtonNumber < 1 || *req.ButtonNumber > pricing.ButtonCount {
			return domain.UsageRecord{}, domain.ErrInvalidButton
		}
		record.ButtonNumber = *req.ButtonNumber
	}
	if req.StartTime != nil {
		record.StartTime = req.StartTime.UTC()
	}
	if req.EndTime != nil {
		record.EndTime = req.EndTime.UTC()
	}
	if record.StartTime.IsZero() || record.EndTime.IsZero() || record.EndTime.Before(record.StartTime) {
		return domain.UsageRecord{}, domain.ErrInvalidTimeRange
	}
	record.DurationSeconds = int64(record.EndTime.Sub(record.StartTime) / time.Second)

	if req.UsageDate != nil && !req.UsageDate.IsZero() {
		record.UsageDate = truncateToDate(req.UsageDate.UTC())
	} else if req.StartTime != nil {
		record.UsageDate = truncateToDate(record.StartTime)
	}

	if err := s.repo.Update(ctx, s.db, record); err != nil {
		return domain.UsageRecord{}, err
	}
	return *record, nil
}

func (s *Service) List(ctx context.Context, req domain.ListUsageRequest) (domain.ListUsageResponse, error) {
	limit := req.PageSize
	if limit <= 0 {
		limit = 50
	}

	filter := domain.ListUsageFilter{
		MachineID: req.MachineID,
		Limit:     limit + 1,
	}
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListUsageResponse{}, err
		}
		afterID, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return domain.ListUsageResponse{}, err
		}
		filter.AfterID = afterID
	}

	records, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return domain.ListUsageResponse{}, err
	}

	records, pageInfo := pagination.BuildPageInfo(records, limit, func(rec domain.UsageRecord) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: rec.ID.String()})
		return token
	})

	return domain.ListUsageResponse{
		PageInfo:     pageInfo,
		UsageRecords: records,
	}, nil
}

func (s *Service) MonthlyStats(ctx context.Context, machineID snowflake.ID, year, month int) (domain.MonthlyStats, error) {
	m, err := period.New(year, month)
	if err != nil {
		return domain.MonthlyStats{}, err
	}

	machine, err := s.machineRepo.FindByID(ctx, s.db, machineID)
	if err != nil {
		return domain.MonthlyStats{}, err
	}
	if machine == nil {
		return domain.MonthlyStats{}, machinedomain.ErrNotFound
	}

	summary, err := s.repo.StatsForMachine(ctx, s.db, machineID, m)
	if err != nil {
		return domain.MonthlyStats{}, err
	}
	details, err := s.repo.ListForMachineMonth(ctx, s.db, machineID, m)
	if err != nil {
		return domain.MonthlyStats{}, err
	}

	return domain.MonthlyStats{
		MachineID: machineID,
		Year:      year,
		Month:     month,
		Summary:   summary,
		Details:   details,
	}, nil
}

func (s *Service) AvailableMonths(ctx context.Context, machineID snowflake.ID) ([]domain.AvailableMonth, error) {
	machine, err := s.machineRepo.FindByID(ctx, s.db, machineID)
	if err != nil {
		return nil, err
	}
	if machine == nil {
		return nil, machinedomain.ErrNotFound
	}
	return s.repo.AvailableMonths(ctx, s.db, machineID)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	deleted, err := s.repo.Delete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	s.log.Info("usage record deleted", zap.String("usage_id", strconv.FormatInt(int64(id), 10)))
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
