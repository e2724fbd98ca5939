package regform

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/lensfolio/lensfolio/internal/registration"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func newForm(t *testing.T) (Model, *registration.Controller) {
	t.Helper()
	ctrl := registration.New(registration.DefaultCatalog())
	return New(ctrl).SetSize(100, 200), ctrl
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		if r == ' ' {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func focusOn(t *testing.T, m Model, target string) Model {
	t.Helper()
	for range len(m.items) {
		if m.Focused() == target {
			return m
		}
		m, _ = press(m, tea.KeyTab)
	}
	require.Equal(t, target, m.Focused())
	return m
}

func plain(m Model) string {
	return ansi.Strip(zone.Scan(m.View()))
}

func TestNew_FocusesFullName(t *testing.T) {
	m, _ := newForm(t)
	require.Equal(t, "input:profile:full_name", m.Focused())
}

func TestTyping_WritesThroughToController(t *testing.T) {
	m, ctrl := newForm(t)

	m = typeText(m, "Asha Rao")

	require.Equal(t, "Asha Rao", m.InputValue(profileKey(registration.FieldFullName)))
	require.Equal(t, "Asha Rao", ctrl.Profile().FullName)
}

func TestSpaceInInputIsText(t *testing.T) {
	m, ctrl := newForm(t)
	m = focusOn(t, m, "input:profile:location")

	m = typeText(m, "New Delhi")

	require.Equal(t, "New Delhi", ctrl.Profile().Location)
}

func TestTabs_SwitchChecklist(t *testing.T) {
	m, ctrl := newForm(t)

	m, _ = press(m, tea.KeyShiftTab)
	require.Equal(t, "tabs", m.Focused())

	m, _ = press(m, tea.KeyRight)
	require.Equal(t, registration.Editor, ctrl.CreatorType())
	view := plain(m)
	require.Contains(t, view, "Color Grading")
	require.NotContains(t, view, "Wedding Photography")

	m, _ = press(m, tea.KeyLeft)
	require.Equal(t, registration.Photographer, ctrl.CreatorType())
	require.Contains(t, plain(m), "Wedding Photography")
}

func TestShiftTabWrapsToSubmit(t *testing.T) {
	m, _ := newForm(t)
	m, _ = press(m, tea.KeyShiftTab)
	m, _ = press(m, tea.KeyShiftTab)
	require.Equal(t, "submit", m.Focused())
}

func TestService_ToggleShowsPriceInput(t *testing.T) {
	m, ctrl := newForm(t)
	m = focusOn(t, m, "service:portrait_photography")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.True(t, ctrl.ServiceChecked("portrait_photography"))

	m, _ = press(m, tea.KeyTab)
	require.Equal(t, "input:price:portrait_photography", m.Focused())
	m = typeText(m, "150")
	require.Equal(t, "150", ctrl.ServicePrice("portrait_photography"))

	m, _ = press(m, tea.KeyShiftTab)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.False(t, ctrl.ServiceChecked("portrait_photography"))
	require.Empty(t, ctrl.ServicePrice("portrait_photography"))
	require.NotContains(t, m.inputs, priceKey("portrait_photography"))

	// Checking again starts from an empty price.
	m, _ = press(m, tea.KeyEnter)
	require.Empty(t, m.InputValue(priceKey("portrait_photography")))
}

func TestPayment_Toggle(t *testing.T) {
	m, ctrl := newForm(t)
	m = focusOn(t, m, "payment:paypal")

	m, _ = press(m, tea.KeyEnter)
	require.True(t, ctrl.PaymentMethodChecked("paypal"))
	require.Contains(t, plain(m), "[x] PayPal")

	m, _ = press(m, tea.KeyEnter)
	require.False(t, ctrl.PaymentMethodChecked("paypal"))
}

func TestPortfolio_AddEditRemove(t *testing.T) {
	m, ctrl := newForm(t)

	m, _ = press(m, tea.KeyCtrlN)
	entries := ctrl.Portfolio()
	require.Len(t, entries, 1)
	require.Equal(t, "input:"+portfolioKey(entries[0].ID), m.Focused())

	m = typeText(m, "https://x.com/a")
	require.Equal(t, "https://x.com/a", ctrl.Portfolio()[0].URL)

	m, _ = press(m, tea.KeyCtrlD)
	require.Empty(t, ctrl.Portfolio())
	require.Equal(t, "add-link", m.Focused())

	m, _ = press(m, tea.KeyEnter)
	require.Len(t, ctrl.Portfolio(), 1)
}

func TestPortfolio_RemoveOnlyFromLinkInput(t *testing.T) {
	m, ctrl := newForm(t)
	m, _ = press(m, tea.KeyCtrlN)
	m = focusOn(t, m, "input:profile:email")

	_, _ = press(m, tea.KeyCtrlD)

	require.Len(t, ctrl.Portfolio(), 1)
}

func TestSubmit_EmitsMsg(t *testing.T) {
	m, _ := newForm(t)

	_, cmd := press(m, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	require.IsType(t, SubmitMsg{}, cmd())

	m = focusOn(t, m, "submit")
	_, cmd = press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	require.IsType(t, SubmitMsg{}, cmd())
}

func fillValid(t *testing.T, ctrl *registration.Controller) {
	t.Helper()
	for f, v := range map[registration.ProfileField]string{
		registration.FieldFullName:     "Asha Rao",
		registration.FieldEmail:        "asha@example.com",
		registration.FieldPhone:        "+91 98450 00000",
		registration.FieldLocation:     "Bengaluru",
		registration.FieldAvailability: "weekends",
	} {
		require.NoError(t, ctrl.SetProfileField(f, v))
	}
	require.NoError(t, ctrl.ToggleService("wedding_photography", true))
}

func TestSubmit_DisabledWhileInFlight(t *testing.T) {
	m, ctrl := newForm(t)
	fillValid(t, ctrl)
	_, err := ctrl.BeginSubmit()
	require.NoError(t, err)
	m = m.Sync()

	_, cmd := press(m, tea.KeyCtrlS)
	require.Nil(t, cmd)
	require.Contains(t, plain(m), "Submitting...")

	ctrl.MarkUploading()
	m = m.Sync()
	require.Contains(t, plain(m), "Uploading photo...")
}

func TestPhoto_StageAndClear(t *testing.T) {
	m, _ := newForm(t)
	m = focusOn(t, m, "input:photo")

	m = typeText(m, "/tmp/me.png")
	_, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	require.Equal(t, StagePhotoMsg{Path: "/tmp/me.png"}, cmd())

	m, cmd = press(m, tea.KeyCtrlX)
	require.NotNil(t, cmd)
	require.Equal(t, ClearPhotoMsg{}, cmd())
	require.Empty(t, m.InputValue(photoKey))
}

func TestPhoto_EmptyPathIgnored(t *testing.T) {
	m, _ := newForm(t)
	m = focusOn(t, m, "input:photo")

	_, cmd := press(m, tea.KeyEnter)
	require.Nil(t, cmd)
}

func TestPhoto_StagedShowsLoading(t *testing.T) {
	m, ctrl := newForm(t)
	ctrl.StagePhoto("/tmp/portrait.jpg")
	m = m.Sync()

	require.Equal(t, "/tmp/portrait.jpg", m.InputValue(photoKey))
	require.Contains(t, plain(m), "Loading preview of portrait.jpg...")
}

func TestInlineErrors(t *testing.T) {
	m, ctrl := newForm(t)
	fillValid(t, ctrl)
	require.NoError(t, ctrl.SetProfileField(registration.FieldEmail, "not-an-email"))
	require.NoError(t, ctrl.SetServicePrice("wedding_photography", "-5"))

	_, err := ctrl.BeginSubmit()
	require.Error(t, err)
	m = m.Sync()

	view := plain(m)
	require.Contains(t, view, "Must be 0 or more")
}

func TestInlineErrors_ValidatorFields(t *testing.T) {
	m, ctrl := newForm(t)
	fillValid(t, ctrl)
	require.NoError(t, ctrl.SetProfileField(registration.FieldEmail, "not-an-email"))
	id := ctrl.AddPortfolioEntry()
	ctrl.AddPortfolioEntry() // blank, not submitted
	ctrl.SetPortfolioURL(id, "nope")

	_, err := ctrl.BeginSubmit()
	require.Error(t, err)
	m = m.Sync()

	view := plain(m)
	require.Contains(t, view, "Must be a valid email address")
	require.Contains(t, view, "Must be a valid URL")
}

func TestNoServiceError(t *testing.T) {
	m, ctrl := newForm(t)
	_, err := ctrl.BeginSubmit()
	require.Error(t, err)
	m = m.Sync()

	require.Contains(t, plain(m), "Please select at least one service to offer")
}

func TestBanner_ShowsRejection(t *testing.T) {
	m, ctrl := newForm(t)
	fillValid(t, ctrl)
	_, err := ctrl.BeginSubmit()
	require.NoError(t, err)
	_ = ctrl.FinishSubmit(registration.Result{Err: &registration.SubmitError{
		Kind:    registration.RegistrationRejected,
		Message: "duplicate email",
	}})
	m = m.Sync()

	require.Contains(t, plain(m), "Registration failed: duplicate email")
}

func TestReset_ClearsInputs(t *testing.T) {
	m, ctrl := newForm(t)
	m = typeText(m, "Asha")
	m, _ = press(m, tea.KeyCtrlN)
	m = typeText(m, "https://x.com/a")

	ctrl.Reset()
	m = m.Reset()

	require.Empty(t, m.InputValue(profileKey(registration.FieldFullName)))
	require.Empty(t, ctrl.Portfolio())
	require.Equal(t, "input:profile:full_name", m.Focused())
	require.Len(t, m.inputs, len(registration.ProfileFields)+1)
}

func TestResetKey_EmitsMsg(t *testing.T) {
	m, _ := newForm(t)
	_, cmd := press(m, tea.KeyCtrlR)
	require.NotNil(t, cmd)
	require.Equal(t, ResetMsg{}, cmd())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newForm(t)
	require.NotContains(t, plain(m), "add portfolio link")

	m, _ = press(m, tea.KeyF1)
	require.Contains(t, plain(m), "add portfolio link")
}

func TestViewport_KeepsFocusVisible(t *testing.T) {
	m, _ := newForm(t)
	m = m.SetSize(100, 20)

	m, _ = press(m, tea.KeyShiftTab)
	m, _ = press(m, tea.KeyShiftTab)
	require.Equal(t, "submit", m.Focused())

	view := plain(m)
	require.Contains(t, view, "Register")
	require.NotContains(t, view, "Full name")
	require.LessOrEqual(t, len(strings.Split(view, "\n")), 20)
}

func TestClick_TogglesService(t *testing.T) {
	m, ctrl := newForm(t)
	id := serviceZoneID("event_photography")

	var z *zone.ZoneInfo
	for range 10 {
		_ = zone.Scan(m.View())
		// Zone registration is asynchronous.
		time.Sleep(time.Millisecond)
		z = zone.Get(id)
		if z != nil && !z.IsZero() {
			break
		}
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	m, _ = m.Update(tea.MouseMsg{
		X:      z.StartX + 1,
		Y:      z.StartY,
		Button: tea.MouseButtonLeft,
		Action: tea.MouseActionRelease,
	})

	require.True(t, ctrl.ServiceChecked("event_photography"))
	require.Equal(t, "service:event_photography", m.Focused())
}

func TestOptions_HidePreviewAndHelp(t *testing.T) {
	ctrl := registration.New(registration.DefaultCatalog())
	ctrl.StagePhoto("/tmp/portrait.jpg")
	m := New(ctrl, WithPreview(false), WithHelp(false)).SetSize(100, 200)

	view := plain(m)
	require.Contains(t, view, "Staged: portrait.jpg")
	require.NotContains(t, view, "Loading preview")
	require.NotContains(t, view, "toggle help")
}
