package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/machine/domain"
	officedomain "github.com/lunelaser/lunebill/internal/office/domain"
	"github.com/lunelaser/lunebill/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	OfficeRepo officedomain.Repository
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	officeRepo officedomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("machine.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		officeRepo: p.OfficeRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateMachineRequest) (domain.Machine, error) {
	serial := strings.TrimSpace(req.SerialNumber)
	if serial == "" {
		return domain.Machine{}, domain.ErrInvalidSerial
	}
	if req.OfficeID == 0 {
		return domain.Machine{}, domain.ErrInvalidOffice
	}
	if req.PurchaseDate.IsZero() {
		return domain.Machine{}, domain.ErrInvalidPurchaseDate
	}

	office, err := s.officeRepo.FindByID(ctx, s.db, req.OfficeID)
	if err != nil {
		return domain.Machine{}, err
	}
	if office == nil {
		return domain.Machine{}, officedomain.ErrNotFound
	}

	existing, err := s.repo.FindBySerial(ctx, s.db, serial)
	if err != nil {
		return domain.Machine{}, err
	}
	if existing != nil {
		return domain.Machine{}, domain.ErrSerialExists
	}

	now := time.Now().UTC()
	machine := domain.Machine{
		ID:           s.genID.Generate(),
		SerialNumber: serial,
		OfficeID:     req.OfficeID,
		Model:        strings.TrimSpace(req.Model),
		PurchaseDate: req.PurchaseDate.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, &machine); err != nil {
		// Two concurrent creates with the same serial both pass the
		// pre-check; the unique index decides.
		if db.IsDuplicateKeyErr(err) {
			return domain.Machine{}, domain.ErrSerialExists
		}
		return domain.Machine{}, err
	}

	s.log.Info("machine created",
		zap.Int64("machine_id", int64(machine.ID)),
		zap.String("serial_number", machine.SerialNumber),
		zap.Int64("office_id", int64(machine.OfficeID)),
	)
	return machine, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateMachineRequest) (domain.Machine, error) {
	machine, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Machine{}, err
	}
	if machine == nil {
		return domain.Machine{}, domain.ErrNotFound
	}

	if req.SerialNumber != nil {
		serial := strings.TrimSpace(*req.SerialNumber)
		if serial == "" {
			return domain.Machine{}, domain.ErrInvalidSerial
		}
		if serial != machine.SerialNumber {
			existing, err := s.repo.FindBySerial(ctx, s.db, serial)
			if err != nil {
				return domain.Machine{}, err
			}
			if existing != nil {
				return domain.Machine{}, domain.ErrSerialExists
			}
			machine.SerialNumber = serial
		}
	}
	if req.Model != nil {
		machine.Model = strings.TrimSpace(*req.Model)
	}
	if req.PurchaseDate != nil {
		if req.PurchaseDate.IsZero() {
			return domain.Machine{}, domain.ErrInvalidPurchaseDate
		}
		machine.PurchaseDate = req.PurchaseDate.UTC()
	}
	machine.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, machine); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Machine{}, domain.ErrSerialExists
		}
		return domain.Machine{}, err
	}
	return *machine, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Machine, error) {
	machine, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Machine{}, err
	}
	if machine == nil {
		return domain.Machine{}, domain.ErrNotFound
	}
	return *machine, nil
}

func (s *Service) GetBySerial(ctx context.Context, serial string) (domain.Machine, error) {
	serial = strings.TrimSpace(serial)
	if serial == "" {
		return domain.Machine{}, domain.ErrInvalidSerial
	}
	machine, err := s.repo.FindBySerial(ctx, s.db, serial)
	if err != nil {
		return domain.Machine{}, err
	}
	if machine == nil {
		return domain.Machine{}, domain.ErrNotFound
	}
	return *machine, nil
}

func (s *Service) List(ctx context.Context, req domain.ListMachineRequest) (domain.ListMachineResponse, error) {
	machines, err := s.repo.List(ctx, s.db, domain.ListMachineFilter{
		Search:         strings.TrimSpace(req.Search),
		OfficeID:       req.OfficeID,
		IncludeDeleted: req.IncludeDeleted,
	})
	if err != nil {
		return domain.ListMachineResponse{}, err
	}
	return domain.ListMachineResponse{Machines: machines}, nil
}

func (s *Service) ListActiveByOffice(ctx context.Context, officeID snowflake.ID) ([]domain.Machine, error) {
	return s.repo.ListActiveByOffice(ctx, s.db, officeID)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	deleted, err := s.repo.SoftDelete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	s.log.Info("machine deleted", zap.Int64("machine_id", int64(id)))
	return nil
}
