package registration_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/lensfolio/lensfolio/internal/mocks"
	"github.com/lensfolio/lensfolio/internal/registration"
	"github.com/lensfolio/lensfolio/internal/tracing"
)

func readyController(t *testing.T) *registration.Controller {
	t.Helper()
	c := registration.New(registration.DefaultCatalog())
	require.NoError(t, c.SetProfileField(registration.FieldFullName, "Asha Rao"))
	require.NoError(t, c.SetProfileField(registration.FieldEmail, "asha@example.com"))
	require.NoError(t, c.SetProfileField(registration.FieldPhone, "555-0100"))
	require.NoError(t, c.SetProfileField(registration.FieldLocation, "Pune"))
	require.NoError(t, c.SetProfileField(registration.FieldAvailability, "weekdays"))
	require.NoError(t, c.ToggleService("wedding_photography", true))
	require.NoError(t, c.SetServicePrice("wedding_photography", "150"))
	return c
}

func recordingTracer(t *testing.T) (*tracetest.SpanRecorder, registration.SubmitterOption) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return rec, registration.WithTracer(tp.Tracer("test"))
}

func TestSubmit_RegisterThenUpload(t *testing.T) {
	c := readyController(t)
	c.StagePhoto("/photos/me.png")

	reg := mocks.NewMockRegistrar(t)
	var order []string
	reg.EXPECT().Register(mock.Anything, mock.MatchedBy(func(p registration.Payload) bool {
		return p.CreatorType == registration.Photographer && len(p.Services) == 1 && p.Services[0].Price == 150
	})).Run(func(context.Context, registration.Payload) {
		order = append(order, "register")
	}).Return("42", nil).Once()
	reg.EXPECT().UploadProfilePhoto(mock.Anything, "42", "/photos/me.png").Run(func(context.Context, string, string) {
		order = append(order, "upload")
	}).Return(nil).Once()

	rec, opt := recordingTracer(t)
	res, err := c.Submit(context.Background(), registration.NewSubmitter(reg, opt))
	require.NoError(t, err)
	require.Equal(t, []string{"register", "upload"}, order)
	require.Equal(t, "42", res.CreatorID)
	require.True(t, res.PhotoUploaded)
	require.NoError(t, res.PhotoWarning)

	require.Equal(t, registration.Success, c.State())
	require.Nil(t, c.Photo())
	require.Empty(t, c.Profile().FullName)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, tracing.SpanSubmit, spans[0].Name())
}

func TestSubmit_UploadFailureIsWarning(t *testing.T) {
	c := readyController(t)
	c.StagePhoto("/photos/me.png")

	reg := mocks.NewMockRegistrar(t)
	reg.EXPECT().Register(mock.Anything, mock.Anything).Return("42", nil).Once()
	reg.EXPECT().UploadProfilePhoto(mock.Anything, "42", "/photos/me.png").
		Return(errors.New("413 request entity too large")).Once()

	rec, opt := recordingTracer(t)
	res, err := c.Submit(context.Background(), registration.NewSubmitter(reg, opt))
	require.NoError(t, err)
	require.False(t, res.PhotoUploaded)
	require.EqualError(t, res.PhotoWarning, "413 request entity too large")
	require.Equal(t, registration.Success, c.State(), "upload outcome never fails the submission")

	spans := rec.Ended()
	require.Len(t, spans, 1)
	events := spans[0].Events()
	require.Len(t, events, 1)
	require.Equal(t, tracing.EventPhotoUploadFailed, events[0].Name)
}

func TestSubmit_NoPhotoSkipsUpload(t *testing.T) {
	c := readyController(t)

	reg := mocks.NewMockRegistrar(t)
	reg.EXPECT().Register(mock.Anything, mock.Anything).Return("42", nil).Once()

	res, err := c.Submit(context.Background(), registration.NewSubmitter(reg))
	require.NoError(t, err)
	require.False(t, res.PhotoUploaded)
	reg.AssertNotCalled(t, "UploadProfilePhoto", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_EmptyCreatorIDSkipsUpload(t *testing.T) {
	c := readyController(t)
	c.StagePhoto("/photos/me.png")

	reg := mocks.NewMockRegistrar(t)
	reg.EXPECT().Register(mock.Anything, mock.Anything).Return("", nil).Once()

	_, err := c.Submit(context.Background(), registration.NewSubmitter(reg))
	require.NoError(t, err)
	require.Equal(t, registration.Success, c.State())
}

func TestSubmit_RejectedKeepsFormAndSkipsUpload(t *testing.T) {
	c := readyController(t)
	c.StagePhoto("/photos/me.png")
	before := c.Profile()

	reg := mocks.NewMockRegistrar(t)
	reg.EXPECT().Register(mock.Anything, mock.Anything).
		Return("", &registration.RejectedError{Status: 400, Message: "duplicate email"}).Once()

	rec, opt := recordingTracer(t)
	res, err := c.Submit(context.Background(), registration.NewSubmitter(reg, opt))
	require.Error(t, err)
	require.NotNil(t, res.Err)
	require.Equal(t, registration.RegistrationRejected, res.Err.Kind)
	require.Equal(t, "Registration failed: duplicate email", res.Err.UserMessage())

	require.Equal(t, registration.Failed, c.State())
	require.Equal(t, before, c.Profile())
	require.NotNil(t, c.Photo())
	require.True(t, c.ServiceChecked("wedding_photography"))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "Error", spans[0].Status().Code.String())
}

func TestSubmit_NetworkError(t *testing.T) {
	c := readyController(t)

	reg := mocks.NewMockRegistrar(t)
	reg.EXPECT().Register(mock.Anything, mock.Anything).
		Return("", context.DeadlineExceeded).Once()

	res, err := c.Submit(context.Background(), registration.NewSubmitter(reg))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, registration.NetworkError, res.Err.Kind)
	require.Equal(t, "An error occurred. Please try again later.", res.Err.UserMessage())
	require.Equal(t, registration.Failed, c.State())
}

func TestSubmit_NoServiceMakesNoCalls(t *testing.T) {
	c := registration.New(registration.DefaultCatalog())
	reg := mocks.NewMockRegistrar(t)

	res, err := c.Submit(context.Background(), registration.NewSubmitter(reg))
	require.ErrorIs(t, err, registration.ErrNoServiceSelected)
	require.Equal(t, registration.NoServiceSelected, res.Err.Kind)
	reg.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestRun_ReportsUploadPhase(t *testing.T) {
	c := readyController(t)
	c.StagePhoto("/photos/me.png")
	sub, err := c.BeginSubmit()
	require.NoError(t, err)

	reg := mocks.NewMockRegistrar(t)
	reg.EXPECT().Register(mock.Anything, mock.Anything).Return("7", nil).Once()
	reg.EXPECT().UploadProfilePhoto(mock.Anything, "7", "/photos/me.png").Return(nil).Once()

	var phases []registration.State
	res := registration.NewSubmitter(reg).Run(context.Background(), sub, func(s registration.State) {
		phases = append(phases, s)
		c.MarkUploading()
	})
	require.Equal(t, []registration.State{registration.UploadingPhoto}, phases)
	require.Equal(t, registration.UploadingPhoto, c.State())

	_, err = c.BeginSubmit()
	require.ErrorIs(t, err, registration.ErrSubmitInFlight)

	require.NoError(t, c.FinishSubmit(res))
	require.Equal(t, registration.Success, c.State())
}
