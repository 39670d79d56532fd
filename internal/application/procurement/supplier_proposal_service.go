package procurement

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/domain/procurement"
	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/infrastructure/telemetry"
)

// maxNumberingAttempts bounds retries when a concurrent validation took the same reference
const maxNumberingAttempts = 3

// SupplierProposalService runs the supplier proposal lifecycle
type SupplierProposalService struct {
	repo           procurement.SupplierProposalRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewSupplierProposalService creates a new SupplierProposalService
func NewSupplierProposalService(repo procurement.SupplierProposalRepository, logger *zap.Logger) *SupplierProposalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierProposalService{repo: repo, logger: logger, now: time.Now}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SupplierProposalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create persists a new draft with its initial lines and returns it
func (s *SupplierProposalService) Create(ctx context.Context, actor identity.Actor, req CreateSupplierProposalRequest) (_ *SupplierProposalResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supplier_proposal", "create")
	defer telemetry.End(span, &err)

	if err := actor.Require(identity.PermSupplierProposalCreate); err != nil {
		return nil, err
	}
	p, err := procurement.NewSupplierProposal(actor.TenantID, req.SupplierID, actor.UserID)
	if err != nil {
		return nil, err
	}
	p.RefSupplier = strings.TrimSpace(req.RefSupplier)
	p.NotePublic = req.NotePublic
	p.NotePrivate = req.NotePrivate
	p.ModelPDF = req.ModelPDF
	p.DeliveryDate = req.DeliveryDate
	for _, l := range req.Lines {
		if _, err := p.AddLine(l.input()); err != nil {
			return nil, err
		}
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Supplier proposal created",
		zap.String("proposal_id", p.ID.String()),
		zap.String("ref", p.Ref),
		zap.Int("lines", len(p.Lines)))
	resp := ToSupplierProposalResponse(p)
	return &resp, nil
}

// CreateSpecimen persists the sample proposal used for demos
func (s *SupplierProposalService) CreateSpecimen(ctx context.Context, actor identity.Actor, supplierID uuid.UUID) (*SupplierProposalResponse, error) {
	if err := actor.Require(identity.PermSupplierProposalCreate); err != nil {
		return nil, err
	}
	p, err := procurement.NewSpecimen(actor.TenantID, supplierID, actor.UserID, s.now())
	if err != nil {
		return nil, err
	}
	// a stored specimen is an ordinary draft; refs are unique per tenant
	p.Ref = procurement.ProvisionalRef(p.ID)
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToSupplierProposalResponse(p)
	return &resp, nil
}

// GetByID fetches a proposal with its lines
func (s *SupplierProposalService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*SupplierProposalResponse, error) {
	if err := actor.Require(identity.PermSupplierProposalRead); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierProposalResponse(p)
	return &resp, nil
}

// GetByRef fetches a proposal by reference, provisional or definitive
func (s *SupplierProposalService) GetByRef(ctx context.Context, actor identity.Actor, ref string) (*SupplierProposalResponse, error) {
	if err := actor.Require(identity.PermSupplierProposalRead); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByRef(ctx, actor.TenantID, ref)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierProposalResponse(p)
	return &resp, nil
}

// List returns one page of proposals and the total count
func (s *SupplierProposalService) List(ctx context.Context, actor identity.Actor, f ListFilter) ([]SupplierProposalResponse, int64, error) {
	if err := actor.Require(identity.PermSupplierProposalRead); err != nil {
		return nil, 0, err
	}
	filter := procurement.ProposalFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		},
		SupplierID: f.SupplierID,
		Search:     f.Search,
	}
	if f.Status != "" {
		status, ok := procurement.ParseProposalStatus(f.Status)
		if !ok {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown proposal status "+f.Status)
		}
		filter.Status = &status
	}

	proposals, total, err := s.repo.FindAll(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SupplierProposalResponse, len(proposals))
	for i := range proposals {
		out[i] = ToSupplierProposalResponse(&proposals[i])
	}
	return out, total, nil
}

// AddLine appends a line to a draft and returns it
func (s *SupplierProposalService) AddLine(ctx context.Context, actor identity.Actor, id uuid.UUID, req LineRequest) (*LineResponse, error) {
	var line *procurement.SupplierProposalLine
	_, err := s.mutate(ctx, actor, identity.PermSupplierProposalCreate, id, func(p *procurement.SupplierProposal) error {
		l, err := p.AddLine(req.input())
		line = l
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := ToLineResponse(*line)
	return &resp, nil
}

// UpdateLine changes a line of a draft
func (s *SupplierProposalService) UpdateLine(ctx context.Context, actor identity.Actor, id, lineID uuid.UUID, req LineRequest) (*SupplierProposalResponse, error) {
	return s.mutate(ctx, actor, identity.PermSupplierProposalCreate, id, func(p *procurement.SupplierProposal) error {
		return p.UpdateLine(lineID, req.input())
	})
}

// DeleteLine removes a line of a draft
func (s *SupplierProposalService) DeleteLine(ctx context.Context, actor identity.Actor, id, lineID uuid.UUID) (*SupplierProposalResponse, error) {
	return s.mutate(ctx, actor, identity.PermSupplierProposalCreate, id, func(p *procurement.SupplierProposal) error {
		return p.RemoveLine(lineID)
	})
}

// SetDeliveryDate sets or clears the expected delivery date
func (s *SupplierProposalService) SetDeliveryDate(ctx context.Context, actor identity.Actor, id uuid.UUID, date *time.Time) (*SupplierProposalResponse, error) {
	return s.mutate(ctx, actor, identity.PermSupplierProposalCreate, id, func(p *procurement.SupplierProposal) error {
		p.SetDeliveryDate(date, actor.UserID)
		return nil
	})
}

// Validate freezes a draft and gives it its definitive reference
func (s *SupplierProposalService) Validate(ctx context.Context, actor identity.Actor, id uuid.UUID) (_ *SupplierProposalResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supplier_proposal", "validate",
		attribute.String("proposal_id", id.String()))
	defer telemetry.End(span, &err)

	if err := actor.Require(identity.PermSupplierProposalValidate); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		p, err := s.repo.FindByID(ctx, actor.TenantID, id)
		if err != nil {
			return nil, err
		}
		ref := ""
		if procurement.IsProvisionalRef(p.Ref) {
			refs, err := s.repo.DefinitiveRefs(ctx, actor.TenantID)
			if err != nil {
				return nil, err
			}
			ref = procurement.NextRef(s.now(), refs)
		}
		if err := p.Validate(ref, actor.UserID); err != nil {
			return nil, err
		}

		err = s.save(ctx, p)
		if errors.Is(err, shared.ErrAlreadyExists) && attempt < maxNumberingAttempts {
			s.logger.Warn("Reference taken by a concurrent validation, retrying",
				zap.String("ref", p.Ref), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		s.logger.Info("Supplier proposal validated",
			zap.String("proposal_id", p.ID.String()),
			zap.String("ref", p.Ref))
		resp := ToSupplierProposalResponse(p)
		return &resp, nil
	}
}

// Reopen moves a proposal one step back in its lifecycle
func (s *SupplierProposalService) Reopen(ctx context.Context, actor identity.Actor, id uuid.UUID) (*SupplierProposalResponse, error) {
	return s.mutate(ctx, actor, identity.PermSupplierProposalValidate, id, func(p *procurement.SupplierProposal) error {
		return p.Reopen(actor.UserID)
	})
}

// Close records whether the supplier answer was accepted
func (s *SupplierProposalService) Close(ctx context.Context, actor identity.Actor, id uuid.UUID, req CloseRequest) (*SupplierProposalResponse, error) {
	return s.mutate(ctx, actor, identity.PermSupplierProposalClose, id, func(p *procurement.SupplierProposal) error {
		return p.Close(req.Signed, req.Note, actor.UserID)
	})
}

// Classify marks a signed proposal as processed
func (s *SupplierProposalService) Classify(ctx context.Context, actor identity.Actor, id uuid.UUID) (*SupplierProposalResponse, error) {
	return s.mutate(ctx, actor, identity.PermSupplierProposalClose, id, func(p *procurement.SupplierProposal) error {
		return p.Classify(actor.UserID)
	})
}

// Info returns the audit trail of a proposal
func (s *SupplierProposalService) Info(ctx context.Context, actor identity.Actor, id uuid.UUID) (*InfoResponse, error) {
	if err := actor.Require(identity.PermSupplierProposalRead); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInfoResponse(p.Info())
	return &resp, nil
}

// Delete removes a proposal and its lines, whatever its status
func (s *SupplierProposalService) Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supplier_proposal", "delete",
		attribute.String("proposal_id", id.String()))
	defer telemetry.End(span, &err)

	if err := actor.Require(identity.PermSupplierProposalDelete); err != nil {
		return err
	}
	p, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.TenantID, id); err != nil {
		return err
	}
	p.MarkDeleted(actor.UserID)
	s.publish(ctx, p)

	s.logger.Info("Supplier proposal deleted",
		zap.String("proposal_id", id.String()),
		zap.String("ref", p.Ref))
	return nil
}

// mutate loads a proposal, applies fn and saves it
func (s *SupplierProposalService) mutate(ctx context.Context, actor identity.Actor, perm string, id uuid.UUID, fn func(*procurement.SupplierProposal) error) (*SupplierProposalResponse, error) {
	if err := actor.Require(perm); err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToSupplierProposalResponse(p)
	return &resp, nil
}

func (s *SupplierProposalService) save(ctx context.Context, p *procurement.SupplierProposal) error {
	p.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, p); err != nil {
		return err
	}
	s.publish(ctx, p)
	return nil
}

func (s *SupplierProposalService) publish(ctx context.Context, p *procurement.SupplierProposal) {
	events := p.GetDomainEvents()
	p.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish supplier proposal events", zap.Error(err))
	}
}
