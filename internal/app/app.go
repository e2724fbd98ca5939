// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/lensfolio/lensfolio/internal/config"
	"github.com/lensfolio/lensfolio/internal/keys"
	"github.com/lensfolio/lensfolio/internal/log"
	"github.com/lensfolio/lensfolio/internal/photo"
	"github.com/lensfolio/lensfolio/internal/registration"
	"github.com/lensfolio/lensfolio/internal/ui/alert"
	"github.com/lensfolio/lensfolio/internal/ui/regform"
	"github.com/lensfolio/lensfolio/internal/ui/toaster"
	"github.com/lensfolio/lensfolio/internal/watcher"
)

// Success and warning texts shown after a submission.
const (
	successMessage      = "Registration successful!"
	photoWarningMessage = "Registered, but the profile photo could not be uploaded"
)

// previewMsg carries a decoded preview back with the token it was staged under.
type previewMsg struct {
	token   uint64
	preview *photo.Preview
	err     error
}

// phaseMsg reports that the running submission moved to a new state.
type phaseMsg struct {
	state registration.State
}

// submitDoneMsg carries the outcome of a submission.
type submitDoneMsg struct {
	result registration.Result
}

// photoChangedMsg is sent when the watched photo file changes on disk.
type photoChangedMsg struct {
	w *watcher.Watcher
}

// Model is the root application state.
type Model struct {
	ctx       context.Context
	cancel    context.CancelFunc
	cfg       config.Config
	ctrl      *registration.Controller
	submitter *registration.Submitter
	decoder   *photo.Decoder

	form    regform.Model
	toaster toaster.Model
	alert   alert.Model

	// Watcher for the staged photo, replaced on every stage.
	photoWatcher *watcher.Watcher

	width  int
	height int
}

// New creates the root model. The submitter performs network calls and the
// decoder renders photo previews.
func New(
	cfg config.Config,
	ctrl *registration.Controller,
	submitter *registration.Submitter,
	decoder *photo.Decoder,
) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		ctrl:      ctrl,
		submitter: submitter,
		decoder:   decoder,
		form: regform.New(ctrl,
			regform.WithHelp(cfg.UI.ShowHelp),
			regform.WithPreview(cfg.UI.ShowPreview),
		),
		toaster: toaster.New(),
		alert:   alert.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form = m.form.SetSize(msg.Width, msg.Height)
		m.alert = m.alert.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Form.Quit) {
			return m, tea.Quit
		}
		// The alert is modal.
		if m.alert.Visible() {
			var cmd tea.Cmd
			m.alert, cmd = m.alert.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		if m.alert.Visible() {
			return m, nil
		}

	case alert.DismissedMsg:
		m.ctrl.Acknowledge()
		m.form = m.form.Sync()
		return m, nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case regform.SubmitMsg:
		return m.beginSubmit()

	case phaseMsg:
		if msg.state == registration.UploadingPhoto {
			m.ctrl.MarkUploading()
			m.form = m.form.Sync()
		}
		return m, nil

	case submitDoneMsg:
		return m.finishSubmit(msg.result)

	case regform.StagePhotoMsg:
		return m.stagePhoto(msg.Path)

	case regform.ClearPhotoMsg:
		m.ctrl.ClearPhoto()
		m.stopWatcher()
		m.form = m.form.Sync()
		return m, nil

	case regform.ResetMsg:
		m.ctrl.Reset()
		m.stopWatcher()
		m.form = m.form.Reset()
		return m, nil

	case previewMsg:
		return m.applyPreview(msg)

	case photoChangedMsg:
		if msg.w != m.photoWatcher {
			return m, nil
		}
		p := m.ctrl.Photo()
		if p == nil {
			return m, nil
		}
		log.Debug(log.CatPhoto, "staged photo changed on disk", "path", p.Path)
		token := m.ctrl.StagePhoto(p.Path)
		m.form = m.form.Sync()
		return m, tea.Batch(m.decode(token, p.Path), listenPhoto(msg.w))
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) beginSubmit() (tea.Model, tea.Cmd) {
	sub, err := m.ctrl.BeginSubmit()
	if errors.Is(err, registration.ErrSubmitInFlight) {
		return m, nil
	}
	m.form = m.form.Sync()
	if err != nil {
		var serr *registration.SubmitError
		if errors.As(err, &serr) {
			m.alert = m.alert.Show("Cannot submit yet", serr.UserMessage())
		} else {
			m.alert = m.alert.Show("Cannot submit yet", err.Error())
		}
		return m, nil
	}
	return m, runSubmission(m.ctx, m.submitter, sub)
}

// runSubmission runs the submitter in the background. Phase changes and the
// final result come back as messages through a channel.
func runSubmission(ctx context.Context, s *registration.Submitter, sub registration.Submission) tea.Cmd {
	events := make(chan tea.Msg, 2)
	go func() {
		defer close(events)
		res := s.Run(ctx, sub, func(st registration.State) {
			events <- phaseMsg{state: st}
		})
		events <- submitDoneMsg{result: res}
	}()
	return waitForSubmission(events)
}

func waitForSubmission(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		if _, isPhase := msg.(phaseMsg); isPhase {
			return tea.BatchMsg{
				func() tea.Msg { return msg },
				waitForSubmission(events),
			}
		}
		return msg
	}
}

func (m Model) finishSubmit(res registration.Result) (tea.Model, tea.Cmd) {
	if err := m.ctrl.FinishSubmit(res); err != nil {
		m.form = m.form.Sync()
		m.alert = m.alert.Show("Registration failed", res.Err.UserMessage())
		return m, nil
	}

	m.stopWatcher()
	m.form = m.form.Reset()

	var cmd tea.Cmd
	if res.PhotoWarning != nil {
		m.toaster, cmd = m.toaster.Flash(photoWarningMessage, toaster.StyleWarn, toaster.WarnDuration)
	} else {
		m.toaster, cmd = m.toaster.Flash(successMessage, toaster.StyleSuccess, toaster.SuccessDuration)
	}
	return m, cmd
}

func (m Model) stagePhoto(path string) (tea.Model, tea.Cmd) {
	// Applies with previews off too.
	if _, err := photo.Check(path); err != nil {
		msg := fmt.Sprintf("Cannot use photo: %v", err)
		if errors.Is(err, photo.ErrUnsupportedType) {
			msg = "Unsupported photo type. Use png, jpg, jpeg or gif."
		}
		log.Warn(log.CatPhoto, "photo rejected", "path", path, "error", err)
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Flash(msg, toaster.StyleError, toaster.WarnDuration)
		return m, cmd
	}

	token := m.ctrl.StagePhoto(path)
	m.form = m.form.Sync()
	cmds := []tea.Cmd{m.decode(token, path)}

	m.stopWatcher()
	if m.cfg.Photo.Watch {
		w, err := watcher.New(watcher.Config{Path: path, Debounce: m.cfg.Photo.WatchDebounce})
		if err == nil {
			if _, err = w.Start(); err == nil {
				m.photoWatcher = w
				cmds = append(cmds, listenPhoto(w))
			} else {
				_ = w.Stop()
			}
		}
		if err != nil {
			// The form works without live reload.
			log.Warn(log.CatWatcher, "cannot watch staged photo", "path", path, "error", err)
		}
	}
	return m, tea.Batch(cmds...)
}

// decode renders the preview off the update goroutine.
func (m Model) decode(token uint64, path string) tea.Cmd {
	if !m.cfg.UI.ShowPreview || m.decoder == nil {
		return nil
	}
	ctx := m.ctx
	d := m.decoder
	return func() tea.Msg {
		p, err := d.Decode(ctx, path)
		return previewMsg{token: token, preview: p, err: err}
	}
}

func (m Model) applyPreview(msg previewMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		cur := m.ctrl.Photo()
		if cur == nil || cur.Token != msg.token {
			return m, nil
		}
		log.ErrorErr(log.CatPhoto, "preview failed", msg.err, "path", cur.Path)
		m.ctrl.ClearPhoto()
		m.stopWatcher()
		m.form = m.form.Sync()
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Flash(fmt.Sprintf("Cannot use photo: %v", msg.err),
			toaster.StyleError, toaster.WarnDuration)
		return m, cmd
	}
	if m.ctrl.ApplyPhotoPreview(msg.token, msg.preview) {
		m.form = m.form.Sync()
	}
	return m, nil
}

// listenPhoto waits for the next change of w's file, or for w to stop.
func listenPhoto(w *watcher.Watcher) tea.Cmd {
	ch, done := w.Changes(), w.Done()
	return func() tea.Msg {
		select {
		case <-ch:
			return photoChangedMsg{w: w}
		case <-done:
			return nil
		}
	}
}

func (m *Model) stopWatcher() {
	if m.photoWatcher == nil {
		return
	}
	if err := m.photoWatcher.Stop(); err != nil {
		log.Warn(log.CatWatcher, "stopping photo watcher", "error", err)
	}
	m.photoWatcher = nil
}

// View implements tea.Model.
func (m Model) View() string {
	view := m.form.View()

	if m.alert.Visible() {
		view = m.alert.Overlay(view)
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	return zone.Scan(view)
}

// Close releases resources held by the application.
func (m *Model) Close() error {
	m.cancel()
	m.stopWatcher()
	return nil
}
