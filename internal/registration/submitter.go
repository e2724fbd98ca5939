package registration

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lensfolio/lensfolio/internal/log"
	"github.com/lensfolio/lensfolio/internal/tracing"
)

// Registrar is the registration service as seen by the form.
//
// Register returns the new creator's ID. A business rejection must be
// reported as *RejectedError; any other error counts as a transport failure.
type Registrar interface {
	Register(ctx context.Context, p Payload) (string, error)
	UploadProfilePhoto(ctx context.Context, creatorID, path string) error
}

// Result is the outcome of one submission.
type Result struct {
	CreatorID string
	Err       *SubmitError
	// PhotoUploaded is true when the follow-up upload succeeded.
	PhotoUploaded bool
	// PhotoWarning holds the upload error. It never fails the submission.
	PhotoWarning error
}

// Submitter performs the network side of a submission.
type Submitter struct {
	registrar Registrar
	tracer    trace.Tracer
}

// SubmitterOption configures a Submitter.
type SubmitterOption func(*Submitter)

// WithTracer sets the tracer used for submission spans.
func WithTracer(t trace.Tracer) SubmitterOption {
	return func(s *Submitter) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewSubmitter creates a Submitter that talks to r.
func NewSubmitter(r Registrar, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		registrar: r,
		tracer:    otel.Tracer("lensfolio/registration"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run registers the creator and, when a photo was staged and the service
// returned an ID, uploads it. onPhase is told when the upload starts and
// may be nil.
func (s *Submitter) Run(ctx context.Context, sub Submission, onPhase func(State)) Result {
	ctx, span := s.tracer.Start(ctx, tracing.SpanSubmit, trace.WithAttributes(
		attribute.String(tracing.AttrCreatorType, string(sub.Payload.CreatorType)),
		attribute.Int(tracing.AttrServiceCount, len(sub.Payload.Services)),
		attribute.Bool(tracing.AttrHasPhoto, sub.Photo != nil),
	))
	defer span.End()

	creatorID, err := s.registrar.Register(ctx, sub.Payload)
	if err != nil {
		serr := classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, serr.Kind.String())
		span.SetAttributes(attribute.String(tracing.AttrErrorKind, serr.Kind.String()))
		log.ErrorErr(log.CatHTTP, "registration failed", err, "kind", serr.Kind)
		return Result{Err: serr}
	}

	span.SetAttributes(attribute.String(tracing.AttrCreatorID, creatorID))
	res := Result{CreatorID: creatorID}

	if sub.Photo == nil || creatorID == "" {
		span.SetStatus(codes.Ok, "")
		return res
	}

	if onPhase != nil {
		onPhase(UploadingPhoto)
	}
	if err := s.registrar.UploadProfilePhoto(ctx, creatorID, sub.Photo.Path); err != nil {
		log.Warn(log.CatHTTP, "profile photo upload failed", "creator_id", creatorID,
			"path", sub.Photo.Path, "error", err)
		span.AddEvent(tracing.EventPhotoUploadFailed, trace.WithAttributes(
			attribute.String(tracing.AttrErrorMessage, err.Error()),
		))
		res.PhotoWarning = err
	} else {
		res.PhotoUploaded = true
	}

	span.SetStatus(codes.Ok, "")
	return res
}

func classify(err error) *SubmitError {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return &SubmitError{Kind: RegistrationRejected, Message: rej.Message, Err: err}
	}
	return &SubmitError{Kind: NetworkError, Message: "network error", Err: err}
}
