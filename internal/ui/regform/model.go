// Package regform renders the creator registration form and turns key and
// mouse input into registration.Controller calls.
//
// The form writes every edit through to the controller, which stays the
// single source of truth. Actions that need work outside the form (network
// submission, photo decoding, file watching) are emitted as messages for the
// parent model to handle.
package regform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/lensfolio/lensfolio/internal/keys"
	"github.com/lensfolio/lensfolio/internal/log"
	"github.com/lensfolio/lensfolio/internal/registration"
)

// SubmitMsg asks the parent to start a submission.
type SubmitMsg struct{}

// StagePhotoMsg asks the parent to stage the photo at Path.
type StagePhotoMsg struct {
	Path string
}

// ClearPhotoMsg is sent after the staged photo was dropped from the form.
type ClearPhotoMsg struct{}

// ResetMsg asks the parent to reset the whole form.
type ResetMsg struct{}

type itemKind int

const (
	itemTabs itemKind = iota
	itemInput
	itemService
	itemAddLink
	itemPayment
	itemSubmit
)

// item is one focus stop. key is the input key for itemInput and the option
// ID for itemService and itemPayment.
type item struct {
	kind  itemKind
	key   string
	entry registration.EntryID
}

const photoKey = "photo"

func profileKey(f registration.ProfileField) string { return "profile:" + string(f) }
func priceKey(id string) string { return "price:" + id }
func portfolioKey(id registration.EntryID) string { return fmt.Sprintf("portfolio:%d", id) }

// fieldSpec describes how a profile input is labelled.
type fieldSpec struct {
	label       string
	placeholder string
	required    bool
	limit       int
}

var fieldSpecs = map[registration.ProfileField]fieldSpec{
	registration.FieldFullName:     {"Full name", "Jane Doe", true, 120},
	registration.FieldEmail:        {"Email", "jane@example.com", true, 254},
	registration.FieldPhone:        {"Phone", "+1 555 0100", true, 32},
	registration.FieldLocation:     {"Location", "City, Country", true, 120},
	registration.FieldExperience:   {"Experience", "5 years", false, 120},
	registration.FieldEquipment:    {"Equipment", "Camera bodies, lenses", false, 500},
	registration.FieldBio:          {"Bio", "A few words about your work", false, 2000},
	registration.FieldWebsite:      {"Website", "https://", false, 500},
	registration.FieldInstagram:    {"Instagram", "@handle", false, 100},
	registration.FieldAvailability: {"Availability", "Weekends", true, 200},
}

// Model is the registration form view state.
type Model struct {
	ctrl *registration.Controller
	snap registration.Snapshot

	inputs map[string]*textinput.Model
	items  []item
	focus  int

	viewport viewport.Model
	help     help.Model
	width    int
	height   int

	showHelp    bool
	showPreview bool
}

// Option configures a form.
type Option func(*Model)

// WithHelp shows or hides the key help below the form.
func WithHelp(show bool) Option {
	return func(m *Model) { m.showHelp = show }
}

// WithPreview shows or hides the staged photo preview.
func WithPreview(show bool) Option {
	return func(m *Model) { m.showPreview = show }
}

// New creates a form view over ctrl. Focus starts on the first profile input.
func New(ctrl *registration.Controller, opts ...Option) Model {
	m := Model{
		ctrl:        ctrl,
		inputs:      make(map[string]*textinput.Model),
		focus:       1,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
		showHelp:    true,
		showPreview: true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m.Sync()
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Controller returns the controller the form edits.
func (m Model) Controller() *registration.Controller {
	return m.ctrl
}

// SetSize sets the outer dimensions of the form.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	for _, in := range m.inputs {
		in.Width = m.inputWidth()
	}
	return m.refresh()
}

// Sync rebuilds the focus order and input values from the controller.
// Call it after the controller was changed outside the form.
func (m Model) Sync() Model {
	m.snap = m.ctrl.Snapshot()

	var current item
	hadFocus := m.focus >= 0 && m.focus < len(m.items)
	if hadFocus {
		current = m.items[m.focus]
	}

	live := map[string]bool{photoKey: true}
	items := []item{{kind: itemTabs}}

	for _, f := range registration.ProfileFields {
		k := profileKey(f)
		spec := fieldSpecs[f]
		m.ensureInput(k, spec.placeholder, spec.limit, m.snap.Profile.Get(f))
		live[k] = true
		items = append(items, item{kind: itemInput, key: k})
	}

	for _, s := range m.snap.Services {
		items = append(items, item{kind: itemService, key: s.ID})
		if s.Checked {
			k := priceKey(s.ID)
			m.ensureInput(k, "0.00", 12, s.Price)
			live[k] = true
			items = append(items, item{kind: itemInput, key: k})
		}
	}

	for _, e := range m.snap.Portfolio {
		k := portfolioKey(e.ID)
		m.ensureInput(k, "https://", 500, e.URL)
		live[k] = true
		items = append(items, item{kind: itemInput, key: k, entry: e.ID})
	}
	items = append(items, item{kind: itemAddLink})

	for _, p := range m.snap.PaymentMethods {
		items = append(items, item{kind: itemPayment, key: p.ID})
	}

	// The path input keeps what is being typed until it is staged.
	photoValue := ""
	if in, ok := m.inputs[photoKey]; ok {
		photoValue = in.Value()
	}
	if m.snap.Photo != nil {
		photoValue = m.snap.Photo.Path
	}
	m.ensureInput(photoKey, "/path/to/photo.jpg", 4096, photoValue)
	items = append(items, item{kind: itemInput, key: photoKey}, item{kind: itemSubmit})

	for k := range m.inputs {
		if !live[k] {
			delete(m.inputs, k)
		}
	}

	m.items = items
	if hadFocus {
		m.focus = min(m.focus, len(items)-1)
		for i, it := range items {
			if it == current {
				m.focus = i
				break
			}
		}
	}
	m.applyFocus()
	return m.refresh()
}

// Reset empties the photo path input and resyncs. Call it after the
// controller was reset.
func (m Model) Reset() Model {
	if in, ok := m.inputs[photoKey]; ok {
		in.SetValue("")
	}
	m.focus = 1
	return m.Sync()
}

func (m *Model) ensureInput(k, placeholder string, limit int, value string) {
	in, ok := m.inputs[k]
	if !ok {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = m.inputWidth()
		in = &ti
		m.inputs[k] = in
	}
	if in.Value() != value {
		in.SetValue(value)
	}
}

func (m Model) inputWidth() int {
	// section border, label column and cursor
	return max(m.contentWidth()-labelWidth-6, 10)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 72
	}
	return min(m.width, 96)
}

// applyFocus focuses the input under the cursor and blurs the rest.
func (m *Model) applyFocus() {
	focused := ""
	if it, ok := m.focused(); ok && it.kind == itemInput {
		focused = it.key
	}
	for k, in := range m.inputs {
		if k == focused {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (m Model) focused() (item, bool) {
	if m.focus < 0 || m.focus >= len(m.items) {
		return item{}, false
	}
	return m.items[m.focus], true
}

// Focused describes the focused item, e.g. "input:profile:email" or
// "service:retouching".
func (m Model) Focused() string {
	it, ok := m.focused()
	if !ok {
		return ""
	}
	switch it.kind {
	case itemTabs:
		return "tabs"
	case itemInput:
		return "input:" + it.key
	case itemService:
		return "service:" + it.key
	case itemAddLink:
		return "add-link"
	case itemPayment:
		return "payment:" + it.key
	case itemSubmit:
		return "submit"
	}
	return ""
}

// InputValue returns the text of input k, for tests and the status bar.
func (m Model) InputValue(k string) string {
	if in, ok := m.inputs[k]; ok {
		return in.Value()
	}
	return ""
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			if handled, cmd := m.handleClick(msg); handled {
				m = m.refresh()
				return m, cmd
			}
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	// Blink and other input messages go to the focused input.
	if it, ok := m.focused(); ok && it.kind == itemInput {
		var cmd tea.Cmd
		in := m.inputs[it.key]
		*in, cmd = in.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Form.NextField):
		return m.move(1), nil
	case key.Matches(msg, keys.Form.PrevField):
		return m.move(-1), nil
	case key.Matches(msg, keys.Form.Submit):
		return m, m.submit()
	case key.Matches(msg, keys.Form.AddLink):
		return m.addLink(), nil
	case key.Matches(msg, keys.Form.ClearPhoto):
		return m.clearPhoto()
	case key.Matches(msg, keys.Form.Reset):
		return m, func() tea.Msg { return ResetMsg{} }
	case key.Matches(msg, keys.Form.Help):
		m.showHelp = true
		m.help.ShowAll = !m.help.ShowAll
		return m.refresh(), nil
	}

	it, ok := m.focused()
	if !ok {
		return m, nil
	}
	activate := key.Matches(msg, keys.Form.Toggle) || key.Matches(msg, keys.Form.Activate)

	switch it.kind {
	case itemTabs:
		switch {
		case key.Matches(msg, keys.Form.PrevTab):
			return m.selectType(registration.Photographer), nil
		case key.Matches(msg, keys.Form.NextTab):
			return m.selectType(registration.Editor), nil
		case activate:
			next := registration.Editor
			if m.snap.CreatorType == registration.Editor {
				next = registration.Photographer
			}
			return m.selectType(next), nil
		}
	case itemService:
		if activate {
			return m.toggleService(it.key), nil
		}
	case itemPayment:
		if activate {
			return m.togglePayment(it.key), nil
		}
	case itemAddLink:
		if activate {
			return m.addLink(), nil
		}
	case itemSubmit:
		if activate {
			return m, m.submit()
		}
	case itemInput:
		return m.handleInputKey(it, msg)
	}
	return m, nil
}

func (m Model) handleInputKey(it item, msg tea.KeyMsg) (Model, tea.Cmd) {
	if it.entry != 0 && key.Matches(msg, keys.Form.RemoveLink) {
		return m.removeLink(it.entry), nil
	}
	if key.Matches(msg, keys.Form.Activate) {
		if it.key == photoKey {
			return m, m.stagePhoto()
		}
		return m.move(1), nil
	}

	in := m.inputs[it.key]
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	if in.Value() != before {
		m.writeThrough(it, in.Value())
		m.snap = m.ctrl.Snapshot()
		m = m.refresh()
	}
	return m, cmd
}

// writeThrough copies an input value into the controller.
func (m Model) writeThrough(it item, value string) {
	var err error
	switch {
	case strings.HasPrefix(it.key, "profile:"):
		err = m.ctrl.SetProfileField(registration.ProfileField(strings.TrimPrefix(it.key, "profile:")), value)
	case strings.HasPrefix(it.key, "price:"):
		err = m.ctrl.SetServicePrice(strings.TrimPrefix(it.key, "price:"), value)
	case it.entry != 0:
		m.ctrl.SetPortfolioURL(it.entry, value)
	}
	if err != nil {
		log.ErrorErr(log.CatUI, "write through failed", err, "input", it.key)
	}
}

func (m Model) move(delta int) Model {
	if len(m.items) == 0 {
		return m
	}
	m.focus = (m.focus + delta + len(m.items)) % len(m.items)
	m.applyFocus()
	return m.refresh()
}

func (m Model) focusItem(target item) Model {
	for i, it := range m.items {
		if it == target {
			m.focus = i
			break
		}
	}
	m.applyFocus()
	return m.refresh()
}

func (m Model) selectType(t registration.CreatorType) Model {
	if err := m.ctrl.SelectCreatorType(t); err != nil {
		log.ErrorErr(log.CatUI, "select creator type failed", err)
		return m
	}
	return m.Sync()
}

func (m Model) toggleService(id string) Model {
	if err := m.ctrl.ToggleService(id, !m.ctrl.ServiceChecked(id)); err != nil {
		log.ErrorErr(log.CatUI, "toggle service failed", err, "service", id)
		return m
	}
	return m.Sync()
}

func (m Model) togglePayment(id string) Model {
	if err := m.ctrl.TogglePaymentMethod(id, !m.ctrl.PaymentMethodChecked(id)); err != nil {
		log.ErrorErr(log.CatUI, "toggle payment method failed", err, "method", id)
		return m
	}
	return m.Sync()
}

// addLink appends a portfolio row and focuses it.
func (m Model) addLink() Model {
	id := m.ctrl.AddPortfolioEntry()
	m = m.Sync()
	return m.focusItem(item{kind: itemInput, key: portfolioKey(id), entry: id})
}

func (m Model) removeLink(id registration.EntryID) Model {
	m.ctrl.RemovePortfolioEntry(id)
	return m.Sync()
}

func (m Model) stagePhoto() tea.Cmd {
	path := strings.TrimSpace(m.inputs[photoKey].Value())
	if path == "" {
		return nil
	}
	return func() tea.Msg { return StagePhotoMsg{Path: path} }
}

func (m Model) clearPhoto() (Model, tea.Cmd) {
	m.inputs[photoKey].SetValue("")
	return m.refresh(), func() tea.Msg { return ClearPhotoMsg{} }
}

// submit emits SubmitMsg unless a submission is already running.
func (m Model) submit() tea.Cmd {
	if m.ctrl.State().InFlight() {
		return nil
	}
	return func() tea.Msg { return SubmitMsg{} }
}

// handleClick maps a left click to the zone under it.
func (m *Model) handleClick(msg tea.MouseMsg) (bool, tea.Cmd) {
	in := func(id string) bool {
		z := zone.Get(id)
		return z != nil && z.InBounds(msg)
	}

	if in(zoneSubmit) {
		*m = m.focusItem(item{kind: itemSubmit})
		return true, m.submit()
	}
	for _, t := range registration.CreatorTypes {
		if in(tabZoneID(t)) {
			*m = m.selectType(t).focusItem(item{kind: itemTabs})
			return true, nil
		}
	}
	for _, s := range m.snap.Services {
		if in(serviceZoneID(s.ID)) {
			*m = m.toggleService(s.ID).focusItem(item{kind: itemService, key: s.ID})
			return true, nil
		}
	}
	for _, p := range m.snap.PaymentMethods {
		if in(paymentZoneID(p.ID)) {
			*m = m.togglePayment(p.ID).focusItem(item{kind: itemPayment, key: p.ID})
			return true, nil
		}
	}
	for _, e := range m.snap.Portfolio {
		if in(removeZoneID(e.ID)) {
			*m = m.removeLink(e.ID)
			return true, nil
		}
	}
	if in(zoneAddLink) {
		*m = m.addLink()
		return true, nil
	}
	for _, it := range m.items {
		if it.kind == itemInput && in(inputZoneID(it.key)) {
			*m = m.focusItem(it)
			return true, textinput.Blink
		}
	}
	return false, nil
}
