package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lunelaser/lunebill/internal/clock"
	"github.com/lunelaser/lunebill/internal/config"
	"github.com/lunelaser/lunebill/internal/invoice/domain"
	machinedomain "github.com/lunelaser/lunebill/internal/machine/domain"
	officedomain "github.com/lunelaser/lunebill/internal/office/domain"
	"github.com/lunelaser/lunebill/internal/period"
	"github.com/lunelaser/lunebill/internal/pricing"
	"github.com/lunelaser/lunebill/internal/providers/email"
	"github.com/lunelaser/lunebill/internal/providers/pdf"
	usagedomain "github.com/lunelaser/lunebill/internal/usage/domain"
	"github.com/lunelaser/lunebill/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Cfg         config.Config
	Repo        domain.Repository
	OfficeRepo  officedomain.Repository
	MachineRepo machinedomain.Repository
	UsageRepo   usagedomain.Repository
	PDF         pdf.Provider
	Email       email.Provider
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	tariff      pricing.Tariff
	minYear     int
	repo        domain.Repository
	officeRepo  officedomain.Repository
	machineRepo machinedomain.Repository
	usageRepo   usagedomain.Repository
	pdf         pdf.Provider
	email       email.Provider
}

func New(p Params) (domain.Service, error) {
	tariff, err := pricing.FromConfig(p.Cfg.Billing)
	if err != nil {
		return nil, err
	}
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		tariff:      tariff,
		minYear:     p.Cfg.Billing.MinInvoiceYear,
		repo:        p.Repo,
		officeRepo:  p.OfficeRepo,
		machineRepo: p.MachineRepo,
		usageRepo:   p.UsageRepo,
		pdf:         p.PDF,
		email:       p.Email,
	}, nil
}

func (s *Service) Generate(ctx context.Context, req domain.GenerateInvoiceRequest) (domain.Invoice, error) {
	m, err := period.New(req.Year, req.Month)
	if err != nil {
		return domain.Invoice{}, err
	}
	if req.Year < s.minYear {
		return domain.Invoice{}, period.ErrInvalidYear
	}

	office, err := s.officeRepo.FindByID(ctx, s.db, req.OfficeID)
	if err != nil {
		return domain.Invoice{}, dependency("load office", err)
	}
	if office == nil {
		return domain.Invoice{}, officedomain.ErrNotFound
	}

	existing, err := s.repo.FindByPeriod(ctx, s.db, req.OfficeID, req.Month, req.Year)
	if err != nil {
		return domain.Invoice{}, dependency("check existing invoice", err)
	}
	if existing != nil {
		return domain.Invoice{}, domain.ErrAlreadyExists
	}

	machines, err := s.machineRepo.ListActiveByOffice(ctx, s.db, req.OfficeID)
	if err != nil {
		return domain.Invoice{}, dependency("load machines", err)
	}
	if len(machines) == 0 {
		return domain.Invoice{}, domain.ErrNoMachines
	}

	machineIDs := make([]snowflake.ID, 0, len(machines))
	for _, machine := range machines {
		machineIDs = append(machineIDs, machine.ID)
	}

	aggregates, err := s.usageRepo.AggregateForMachines(ctx, s.db, machineIDs, m)
	if err != nil {
		return domain.Invoice{}, dependency("aggregate usage", err)
	}

	usageByMachine := make(map[snowflake.ID]map[int]pricing.ButtonUsage, len(machines))
	for _, agg := range aggregates {
		buttons := usageByMachine[agg.MachineID]
		if buttons == nil {
			buttons = make(map[int]pricing.ButtonUsage, pricing.ButtonCount)
			usageByMachine[agg.MachineID] = buttons
		}
		buttons[agg.ButtonNumber] = pricing.ButtonUsage{
			PressCount:           agg.PressCount,
			TotalDurationSeconds: agg.TotalDurationSeconds,
		}
	}

	lunes := make([]domain.LuneBreakdown, 0, len(machines))
	subtotals := make([]decimal.Decimal, 0, len(machines))
	for _, machine := range machines {
		lines := s.tariff.Lines(usageByMachine[machine.ID])
		subtotal := pricing.Subtotal(lines)
		lunes = append(lunes, domain.LuneBreakdown{
			SerialNumber: machine.SerialNumber,
			PurchaseDate: machine.PurchaseDate.Format("2006-01-02"),
			Buttons:      lines,
			TotalCost:    subtotal,
		})
		subtotals = append(subtotals, subtotal)
	}
	total := pricing.Total(subtotals)

	data := domain.InvoiceData{
		Office: domain.OfficeSnapshot{
			ID:            office.ID,
			Name:          office.Name,
			NPIID:         office.NPIID,
			Address:       office.Address,
			Town:          office.Town,
			State:         office.State,
			Email:         office.Email,
			ContactPerson: office.ContactPerson,
		},
		Month:       req.Month,
		Year:        req.Year,
		Lunes:       lunes,
		TotalAmount: total,
	}

	invoice := domain.Invoice{
		ID:            s.genID.Generate(),
		OfficeID:      office.ID,
		Month:         req.Month,
		Year:          req.Year,
		InvoiceNumber: fmt.Sprintf("INV-%d%02d-%s", req.Year, req.Month, office.NPIID),
		TotalAmount:   total,
		Data:          datatypes.NewJSONType(data),
		Status:        domain.InvoiceStatusUnpaid,
		GeneratedAt:   s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		// A racing generation for the same period lost to the unique index.
		// Indistinguishable from the pre-check hit for the caller.
		if db.IsDuplicateKeyErr(err) {
			return domain.Invoice{}, domain.ErrAlreadyExists
		}
		return domain.Invoice{}, dependency("persist invoice", err)
	}

	s.log.Info("invoice generated",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int64("office_id", int64(office.ID)),
		zap.String("period", m.String()),
		zap.String("total_amount", total.StringFixed(2)),
	)
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	invoices, err := s.repo.List(ctx, s.db, domain.ListInvoiceFilter{
		OfficeID: req.OfficeID,
		Year:     req.Year,
		Status:   domain.InvoiceStatus(strings.TrimSpace(req.Status)),
	})
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}
	return domain.ListInvoiceResponse{Invoices: invoices}, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *invoice, nil
}

func (s *Service) MarkPaid(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	paidAt := s.clock.Now()
	return s.transition(ctx, id, domain.InvoiceStatusPaid, &paidAt)
}

func (s *Service) MarkUnpaid(ctx context.Context, id snowflake.ID) (domain.Invoice, error) {
	return s.transition(ctx, id, domain.InvoiceStatusUnpaid, nil)
}

func (s *Service) transition(ctx context.Context, id snowflake.ID, status domain.InvoiceStatus, paidAt *time.Time) (domain.Invoice, error) {
	updated, err := s.repo.UpdateStatus(ctx, s.db, id, status, paidAt)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !updated {
		return domain.Invoice{}, domain.ErrNotFound
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	s.log.Info("invoice status updated",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("status", string(status)),
	)
	return *invoice, nil
}

func (s *Service) SendByEmail(ctx context.Context, id snowflake.ID) error {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	recipient := strings.TrimSpace(invoice.Data.Data().Office.Email)
	if recipient == "" {
		return domain.ErrNoRecipient
	}

	doc, err := s.pdf.RenderInvoice(ctx, invoice)
	if err != nil {
		return fmt.Errorf("render invoice pdf: %w", err)
	}

	subject := fmt.Sprintf("Lune Laser invoice %s", invoice.InvoiceNumber)
	body := fmt.Sprintf(
		"<p>Please find attached invoice <strong>%s</strong> for %04d-%02d.</p><p>Total due: $%s</p>",
		invoice.InvoiceNumber, invoice.Year, invoice.Month, invoice.TotalAmount.StringFixed(2),
	)
	err = s.email.Send(ctx, []string{recipient}, subject, body, email.Attachment{
		Filename:    invoice.InvoiceNumber + ".pdf",
		ContentType: "application/pdf",
		Content:     doc,
	})
	if err != nil {
		return fmt.Errorf("send invoice email: %w", err)
	}

	s.log.Info("invoice emailed",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("recipient", recipient),
	)
	return nil
}

// dependency marks a collaborator store failure while keeping the cause in
// the chain. Callers may retry: nothing was written.
func dependency(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrDependency, err))
}
