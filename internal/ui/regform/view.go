package regform

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/lensfolio/lensfolio/internal/keys"
	"github.com/lensfolio/lensfolio/internal/registration"
	"github.com/lensfolio/lensfolio/internal/ui/styles"
)

// Zone IDs for mouse support.
const (
	zoneAddLink = "regform-add"
	zoneSubmit  = "regform-submit"
)

func tabZoneID(t registration.CreatorType) string { return "regform-tab-" + string(t) }
func serviceZoneID(id string) string { return "regform-svc-" + id }
func paymentZoneID(id string) string { return "regform-pay-" + id }
func removeZoneID(id registration.EntryID) string { return fmt.Sprintf("regform-rm-%d", id) }
func inputZoneID(k string) string { return "regform-input-" + k }

const labelWidth = 16

// headerHeight is the title line plus a blank line.
const headerHeight = 2

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(styles.AccentColor)

// section collects the rows of one bordered form group.
type section struct {
	title    string
	hint     string
	rows     []string
	focusRow int
}

func newSection(title, hint string) *section {
	return &section{title: title, hint: hint, focusRow: -1}
}

func (s *section) add(row string, focused bool) {
	if focused {
		s.focusRow = len(s.rows)
	}
	s.rows = append(s.rows, row)
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Register as a creator"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(m.help.View(keys.Form))
	}
	return b.String()
}

// refresh re-renders the body into the viewport and scrolls the focused
// row into view.
func (m Model) refresh() Model {
	lines, focusLine := m.renderBody()

	m.help.Width = m.contentWidth()
	m.viewport.Width = m.contentWidth()
	if m.height > 0 {
		footer := 0
		if m.showHelp {
			footer = lipgloss.Height(m.help.View(keys.Form)) + 1
		}
		m.viewport.Height = max(m.height-headerHeight-footer, 3)
	} else {
		m.viewport.Height = len(lines)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if focusLine < m.viewport.YOffset {
		m.viewport.SetYOffset(focusLine)
	} else if focusLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(focusLine - m.viewport.Height + 1)
	}
	return m
}

// renderBody returns the body lines and the line holding the focused item.
func (m Model) renderBody() ([]string, int) {
	width := m.contentWidth()
	focused, _ := m.focused()

	var lines []string
	focusLine := 0
	emit := func(s *section) {
		start := len(lines)
		out := styles.RenderFormSection(s.rows, s.title, s.hint, width, s.focusRow >= 0)
		lines = append(lines, strings.Split(out, "\n")...)
		if s.focusRow >= 0 {
			focusLine = start + 1 + s.focusRow
		}
		lines = append(lines, "")
	}

	emit(m.tabsSection(focused))
	emit(m.profileSection(focused))
	emit(m.servicesSection(focused))
	emit(m.portfolioSection(focused))
	emit(m.paymentSection(focused))
	emit(m.photoSection(focused))

	if msg := m.bannerError(); msg != "" {
		for _, l := range strings.Split(msg, "\n") {
			lines = append(lines, " "+styles.FieldErrorStyle.Render(l))
		}
		lines = append(lines, "")
	}

	onSubmit := focused.kind == itemSubmit
	if onSubmit {
		focusLine = len(lines)
	}
	lines = append(lines, cursor(onSubmit)+m.renderSubmit(onSubmit))
	return lines, focusLine
}

func cursor(focused bool) string {
	if focused {
		return styles.SelectionIndicatorStyle.Render(">") + " "
	}
	return "  "
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// label renders a fixed-width label cell with an optional required mark.
func label(text string, required, focused bool) string {
	style := styles.FormLabelStyle
	if focused {
		style = styles.FormFocusedLabelStyle
	}
	out := style.Render(text)
	w := lipgloss.Width(text)
	if required {
		out += styles.RequiredMarkStyle.Render(" *")
		w += 2
	}
	return out + strings.Repeat(" ", max(labelWidth-w, 1))
}

func errorRow(msg string) string {
	return "  " + strings.Repeat(" ", labelWidth) + styles.FieldErrorStyle.Render(msg)
}

func (m Model) inputView(k string) string {
	in, ok := m.inputs[k]
	if !ok {
		return ""
	}
	return zone.Mark(inputZoneID(k), in.View())
}

func (m Model) tabsSection(focused item) *section {
	s := newSection("I am a", "←/→ to switch")
	var tabs []string
	for _, t := range registration.CreatorTypes {
		style := styles.TabStyle
		if t == m.snap.CreatorType {
			style = styles.ActiveTabStyle
		}
		tabs = append(tabs, zone.Mark(tabZoneID(t), style.Render(t.Label())))
	}
	on := focused.kind == itemTabs
	s.add(cursor(on)+strings.Join(tabs, " "), on)
	return s
}

func (m Model) profileSection(focused item) *section {
	s := newSection("Profile", "* required")
	for _, f := range registration.ProfileFields {
		k := profileKey(f)
		spec := fieldSpecs[f]
		on := focused.kind == itemInput && focused.key == k
		s.add(cursor(on)+label(spec.label, spec.required, on)+m.inputView(k), on)
		if msg := m.fieldError(string(f)); msg != "" {
			s.add(errorRow(msg), false)
		}
	}
	return s
}

func (m Model) servicesSection(focused item) *section {
	s := newSection("Services", "price "+registration.UnitPerSession)
	if m.noServiceError() {
		s.add("  "+styles.FieldErrorStyle.Render("Please select at least one service to offer"), false)
	}
	for _, svc := range m.snap.Services {
		on := focused.kind == itemService && focused.key == svc.ID
		s.add(cursor(on)+zone.Mark(serviceZoneID(svc.ID), checkbox(svc.Checked)+" "+svc.Label), on)
		if !svc.Checked {
			continue
		}
		k := priceKey(svc.ID)
		on = focused.kind == itemInput && focused.key == k
		s.add(cursor(on)+label("    Price", svc.Required, on)+m.inputView(k), on)
		if msg := m.fieldError("price[" + svc.ID + "]"); msg != "" {
			s.add(errorRow(msg), false)
		}
	}
	return s
}

func (m Model) portfolioSection(focused item) *section {
	s := newSection("Portfolio", "links to your work")
	if len(m.snap.Portfolio) == 0 {
		s.add("  "+styles.HintStyle.Render("No links yet"), false)
	}
	submitted := 0
	for _, e := range m.snap.Portfolio {
		k := portfolioKey(e.ID)
		on := focused.kind == itemInput && focused.key == k
		remove := zone.Mark(removeZoneID(e.ID), styles.HintStyle.Render("[remove]"))
		s.add(cursor(on)+label("Link", false, on)+m.inputView(k)+" "+remove, on)
		// Blank rows are dropped from the payload, so errors index the rest.
		if strings.TrimSpace(e.URL) == "" {
			continue
		}
		if msg := m.fieldError(fmt.Sprintf("portfolio[%d]", submitted)); msg != "" {
			s.add(errorRow(msg), false)
		}
		submitted++
	}
	on := focused.kind == itemAddLink
	s.add(cursor(on)+zone.Mark(zoneAddLink, styles.HintStyle.Render("+ Add link")), on)
	return s
}

func (m Model) paymentSection(focused item) *section {
	s := newSection("Payment methods", "")
	for _, p := range m.snap.PaymentMethods {
		on := focused.kind == itemPayment && focused.key == p.ID
		s.add(cursor(on)+zone.Mark(paymentZoneID(p.ID), checkbox(p.Checked)+" "+p.Label), on)
	}
	return s
}

func (m Model) photoSection(focused item) *section {
	s := newSection("Profile photo", "png, jpg, jpeg or gif · enter to stage")
	on := focused.kind == itemInput && focused.key == photoKey
	s.add(cursor(on)+label("Path", false, on)+m.inputView(photoKey), on)

	p := m.snap.Photo
	if p == nil {
		return s
	}
	if !m.showPreview {
		s.add("  "+styles.HintStyle.Render("Staged: "+p.Name), false)
		return s
	}
	if p.Preview == nil {
		s.add("  "+styles.HintStyle.Render("Loading preview of "+p.Name+"..."), false)
		return s
	}
	for _, l := range strings.Split(p.Preview.View(), "\n") {
		s.add("  "+l, false)
	}
	s.add("  "+styles.HintStyle.Render(p.Preview.Caption()), false)
	return s
}

func (m Model) renderSubmit(focused bool) string {
	text := "Register"
	style := styles.PrimaryButtonStyle
	switch m.snap.State {
	case registration.SubmittingRegistration, registration.Validating:
		text = "Submitting..."
		style = styles.DisabledButtonStyle
	case registration.UploadingPhoto:
		text = "Uploading photo..."
		style = styles.DisabledButtonStyle
	default:
		if focused {
			style = styles.PrimaryButtonFocusedStyle
		}
	}
	return zone.Mark(zoneSubmit, style.Render(text))
}

func (m Model) fieldError(name string) string {
	e := m.snap.LastError
	if e == nil || e.Fields == nil {
		return ""
	}
	return e.Fields[name]
}

func (m Model) noServiceError() bool {
	e := m.snap.LastError
	return e != nil && (e.Kind == registration.NoServiceSelected || e.Fields["services"] != "")
}

// bannerError is the form-level error shown above the submit button.
func (m Model) bannerError() string {
	e := m.snap.LastError
	if e == nil || m.snap.State != registration.Failed {
		return ""
	}
	switch e.Kind {
	case registration.RegistrationRejected, registration.NetworkError:
		return e.UserMessage()
	}
	return ""
}
