package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/voltcert/voltcert-backend/internal/clients/gcp"
	"github.com/voltcert/voltcert-backend/internal/clients/redis"
	"github.com/voltcert/voltcert-backend/internal/domain"
	"github.com/voltcert/voltcert-backend/internal/pkg/ctxutil"
	"github.com/voltcert/voltcert-backend/internal/pkg/faults"
	"github.com/voltcert/voltcert-backend/internal/pkg/logger"
	"github.com/voltcert/voltcert-backend/internal/render"
	"github.com/voltcert/voltcert-backend/internal/repos"
)

const downloadURLTTL = 15 * time.Minute

type CertificateService interface {
	Generate(ctx context.Context, testID uuid.UUID) (*domain.Certificate, error)
	DownloadURL(ctx context.Context, certID uuid.UUID) (string, error)
	ListByTest(ctx context.Context, testID uuid.UUID) ([]*domain.Certificate, error)
}

type certificateService struct {
	db       *gorm.DB
	log      *logger.Logger
	testRepo repos.TestRepo
	certRepo repos.CertificateRepo
	renderer *render.Renderer
	store    gcp.CertificateStore
	bus      redis.EventBus
}

func NewCertificateService(db *gorm.DB, log *logger.Logger, testRepo repos.TestRepo, certRepo repos.CertificateRepo, renderer *render.Renderer, store gcp.CertificateStore, bus redis.EventBus) CertificateService {
	serviceLog := log.With("service", "CertificateService")
	return &certificateService{
		db:       db,
		log:      serviceLog,
		testRepo: testRepo,
		certRepo: certRepo,
		renderer: renderer,
		store:    store,
		bus:      bus,
	}
}

// Generate renders, uploads and records a certificate for a completed test.
// The sequence allocation, render and metadata insert share one transaction so
// a failed render or upload never burns a certificate number. Regeneration
// simply allocates the next sequence; prior certificates stay untouched.
func (cs *certificateService) Generate(ctx context.Context, testID uuid.UUID) (*domain.Certificate, error) {
	const op = "CertificateService.Generate"

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, faults.InvalidArgument(op, "tenant context required")
	}

	status, err := cs.testRepo.GetStatus(ctx, nil, rd.TenantID, testID)
	if err != nil {
		return nil, err
	}
	if status != domain.StatusCompleted {
		return nil, faults.PreconditionFailed(op, "certificates can only be generated for completed tests")
	}

	issueDate := time.Now().UTC()
	var cert *domain.Certificate
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		test, err := cs.testRepo.GetByID(ctx, tx, rd.TenantID, testID)
		if err != nil {
			return err
		}

		seq, err := cs.certRepo.NextSequence(ctx, tx, rd.TenantID, test.Type)
		if err != nil {
			return err
		}
		number := FormatCertificateNumber(test.Type, seq)

		data, err := AssembleCertificateData(test, number, issueDate)
		if err != nil {
			return err
		}

		renderCtx, span := otel.Tracer("voltcert/services").Start(ctx, "certificate.render")
		span.SetAttributes(
			attribute.String("certificate.number", number),
			attribute.String("certificate.type", string(test.Type)),
		)
		doc, err := cs.renderer.Render(renderCtx, *data)
		span.End()
		if err != nil {
			return faults.New(faults.CodeInternal, op, "render failed", err)
		}

		locator, err := cs.store.Upload(ctx, rd.TenantID, number, doc)
		if err != nil {
			return err
		}

		cert = &domain.Certificate{
			TenantID:       rd.TenantID,
			TestID:         testID,
			Type:           test.Type,
			Sequence:       seq,
			Number:         number,
			IssueDate:      issueDate,
			StorageLocator: locator,
			SizeBytes:      int64(len(doc)),
			GeneratedBy:    rd.UserID,
			GeneratedAt:    issueDate,
		}
		cert, err = cs.certRepo.Create(ctx, tx, cert)
		return err
	})
	if err != nil {
		return nil, err
	}

	cs.publishGeneratedEvent(ctx, rd.TenantID, cert)
	return cert, nil
}

func (cs *certificateService) DownloadURL(ctx context.Context, certID uuid.UUID) (string, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return "", faults.InvalidArgument("CertificateService.DownloadURL", "tenant context required")
	}
	cert, err := cs.certRepo.GetByID(ctx, nil, rd.TenantID, certID)
	if err != nil {
		return "", err
	}
	return cs.store.SignedDownloadURL(ctx, cert.StorageLocator, downloadURLTTL)
}

func (cs *certificateService) ListByTest(ctx context.Context, testID uuid.UUID) ([]*domain.Certificate, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TenantID == uuid.Nil {
		return nil, faults.InvalidArgument("CertificateService.ListByTest", "tenant context required")
	}
	return cs.certRepo.ListByTest(ctx, nil, rd.TenantID, testID)
}

func (cs *certificateService) publishGeneratedEvent(ctx context.Context, tenantID uuid.UUID, cert *domain.Certificate) {
	if cs.bus == nil || cert == nil {
		return
	}
	evt := domain.Event{
		Name:     domain.EventCertificateGenerated,
		TenantID: tenantID,
		Payload: map[string]any{
			"certificate_id":     cert.ID,
			"test_id":            cert.TestID,
			"certificate_number": cert.Number,
		},
	}
	if err := cs.bus.Publish(ctx, evt); err != nil {
		cs.log.Warn("event publish failed (ignored)", "event", evt.Name, "error", err)
	}
}
