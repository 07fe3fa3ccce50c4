package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/office/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("office.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateOfficeRequest) (domain.Office, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Office{}, domain.ErrInvalidName
	}

	npiID := strings.TrimSpace(req.NPIID)
	if npiID == "" {
		return domain.Office{}, domain.ErrInvalidNPIID
	}

	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return domain.Office{}, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	office := domain.Office{
		ID:            s.genID.Generate(),
		Name:          name,
		NPIID:         npiID,
		Address:       strings.TrimSpace(req.Address),
		Town:          strings.TrimSpace(req.Town),
		State:         strings.TrimSpace(req.State),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         email,
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &office); err != nil {
		return domain.Office{}, err
	}

	s.log.Info("office created",
		zap.Int64("office_id", int64(office.ID)),
		zap.String("npi_id", office.NPIID),
	)
	return office, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateOfficeRequest) (domain.Office, error) {
	office, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Office{}, err
	}
	if office == nil {
		return domain.Office{}, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Office{}, domain.ErrInvalidName
		}
		office.Name = name
	}
	if req.NPIID != nil {
		npiID := strings.TrimSpace(*req.NPIID)
		if npiID == "" {
			return domain.Office{}, domain.ErrInvalidNPIID
		}
		office.NPIID = npiID
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !strings.Contains(email, "@") {
			return domain.Office{}, domain.ErrInvalidEmail
		}
		office.Email = email
	}
	if req.Address != nil {
		office.Address = strings.TrimSpace(*req.Address)
	}
	if req.Town != nil {
		office.Town = strings.TrimSpace(*req.Town)
	}
	if req.State != nil {
		office.State = strings.TrimSpace(*req.State)
	}
	if req.Phone != nil {
		office.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.ContactPerson != nil {
		office.ContactPerson = strings.TrimSpace(*req.ContactPerson)
	}
	office.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, office); err != nil {
		return domain.Office{}, err
	}
	return *office, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Office, error) {
	office, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Office{}, err
	}
	if office == nil {
		return domain.Office{}, domain.ErrNotFound
	}
	return *office, nil
}

func (s *Service) List(ctx context.Context, req domain.ListOfficeRequest) (domain.ListOfficeResponse, error) {
	offices, err := s.repo.List(ctx, s.db, domain.ListOfficeFilter{
		Search:         strings.TrimSpace(req.Search),
		IncludeDeleted: req.IncludeDeleted,
	})
	if err != nil {
		return domain.ListOfficeResponse{}, err
	}
	return domain.ListOfficeResponse{Offices: offices}, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	deleted, err := s.repo.SoftDelete(ctx, s.db, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	s.log.Info("office deleted", zap.Int64("office_id", int64(id)))
	return nil
}
