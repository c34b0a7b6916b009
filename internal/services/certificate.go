package services

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/courseware-backend/internal/data/repos"
	types "github.com/yungbote/courseware-backend/internal/domain"
	domainagg "github.com/yungbote/courseware-backend/internal/domain/aggregates"
	"github.com/yungbote/courseware-backend/internal/observability"
	"github.com/yungbote/courseware-backend/internal/platform/dbctx"
	"github.com/yungbote/courseware-backend/internal/platform/logger"
)

const (
	certificateWidth  = 1600
	certificateHeight = 1131
)

type CertificateService interface {
	IssueCertificate(ctx context.Context, courseID uuid.UUID) (*types.Certificate, error)
	RenderCertificate(ctx context.Context, courseID uuid.UUID) (bytes.Buffer, error)
}

type CertificateServiceDeps struct {
	Log          *logger.Logger
	Metrics      *observability.Metrics
	Courses      repos.CourseRepo
	Certificates repos.CertificateRepo
	Aggregate    domainagg.CertificateAggregate
	Notifier     LearningNotifier
	Timeout      time.Duration
}

// certificateService keeps only the parsed font; faces carry a glyph buffer and are built per render.
type certificateService struct {
	deps CertificateServiceDeps
	log  *logger.Logger
	font *truetype.Font
}

func NewCertificateService(deps CertificateServiceDeps) (CertificateService, error) {
	serviceLog := deps.Log.With("service", "CertificateService")
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("could not parse certificate font: %w", err)
	}
	return &certificateService{deps: deps, log: serviceLog, font: f}, nil
}

func (s *certificateService) face(size float64) font.Face {
	return truetype.NewFace(s.font, &truetype.Options{Size: size})
}

func (s *certificateService) IssueCertificate(ctx context.Context, courseID uuid.UUID) (*types.Certificate, error) {
	const op = "Learning.Certificate.Issue"
	userID, err := callerID(ctx, op)
	if err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()

	res, err := s.deps.Aggregate.Issue(ctx, domainagg.IssueCertificateInput{UserID: userID, CourseID: courseID})
	if err != nil {
		return nil, err
	}
	if res.Created {
		s.deps.Metrics.IncCertificateIssued()
		if s.deps.Notifier != nil {
			s.deps.Notifier.CertificateIssued(ctx, userID, res.Certificate)
		}
		s.log.Info("certificate issued", "user_id", userID, "course_id", courseID, "number", res.Certificate.Number)
	}
	return res.Certificate, nil
}

func (s *certificateService) RenderCertificate(ctx context.Context, courseID uuid.UUID) (bytes.Buffer, error) {
	const op = "Learning.Certificate.Render"
	var buf bytes.Buffer
	userID, err := callerID(ctx, op)
	if err != nil {
		return buf, err
	}
	ctx, cancel := withTimeout(ctx, s.deps.Timeout)
	defer cancel()
	dbc := dbctx.Context{Ctx: ctx}

	cert, err := s.deps.Certificates.Get(dbc, userID, courseID)
	if err != nil {
		return buf, mapReadErr(op, err)
	}
	if cert == nil {
		return buf, notFound(op, "certificate")
	}
	course, err := s.deps.Courses.GetByID(dbc, courseID)
	if err != nil {
		return buf, mapReadErr(op, err)
	}
	if course == nil {
		return buf, notFound(op, "course")
	}
	return s.draw(course.Title, cert)
}

func (s *certificateService) draw(courseTitle string, cert *types.Certificate) (bytes.Buffer, error) {
	var buf bytes.Buffer
	w, h := float64(certificateWidth), float64(certificateHeight)
	dc := gg.NewContext(certificateWidth, certificateHeight)
	titleFace, bodyFace, smallFace := s.face(64), s.face(36), s.face(24)

	dc.SetColor(color.NRGBA{R: 0xFB, G: 0xF8, B: 0xF1, A: 0xFF})
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()

	// Double frame
	dc.SetColor(color.NRGBA{R: 0x1F, G: 0x3A, B: 0x5F, A: 0xFF})
	dc.SetLineWidth(12)
	dc.DrawRectangle(40, 40, w-80, h-80)
	dc.Stroke()
	dc.SetLineWidth(3)
	dc.DrawRectangle(70, 70, w-140, h-140)
	dc.Stroke()

	dc.SetFontFace(bodyFace)
	dc.DrawStringAnchored("Certificate of Completion", w/2, 240, 0.5, 0.5)

	dc.SetFontFace(smallFace)
	dc.DrawStringAnchored("This certifies that", w/2, 360, 0.5, 0.5)

	dc.SetFontFace(bodyFace)
	dc.DrawStringAnchored(cert.UserID, w/2, 430, 0.5, 0.5)

	dc.SetFontFace(smallFace)
	dc.DrawStringAnchored("has completed every chapter of", w/2, 510, 0.5, 0.5)

	dc.SetFontFace(titleFace)
	dc.DrawStringWrapped(courseTitle, w/2, 600, 0.5, 0, w-360, 1.3, gg.AlignCenter)

	dc.SetFontFace(smallFace)
	dc.DrawStringAnchored(cert.IssuedAt.UTC().Format("January 2, 2006"), w/2-360, h-180, 0.5, 0.5)
	dc.DrawStringAnchored("No. "+cert.Number, w/2+360, h-180, 0.5, 0.5)

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}
