package registration

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/lensfolio/lensfolio/internal/log"
	"github.com/lensfolio/lensfolio/internal/photo"
)

// Controller owns the state of one registration form and mediates its
// submission. Handlers call its methods in response to user input; all
// methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	catalog     Catalog
	validator   *inputValidator
	initialType CreatorType

	creatorType CreatorType
	profile     Profile
	checked     map[string]bool
	prices      map[string]string // raw text of each price field
	payments    map[string]bool
	portfolio   []PortfolioEntry
	nextEntry   EntryID

	photo      *StagedPhoto
	photoToken uint64

	state   State
	lastErr *SubmitError
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithCreatorType sets the creator type selected on a fresh form.
func WithCreatorType(t CreatorType) ControllerOption {
	return func(c *Controller) {
		if t.Valid() {
			c.initialType = t
		}
	}
}

// New creates a controller with an empty form.
func New(catalog Catalog, opts ...ControllerOption) *Controller {
	c := &Controller{
		catalog:     catalog,
		validator:   newInputValidator(),
		initialType: Photographer,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	c.state = Idle
	return c
}

// Catalog returns the catalog the form was built from.
func (c *Controller) Catalog() Catalog {
	return c.catalog
}

// CreatorType returns the active creator type.
func (c *Controller) CreatorType() CreatorType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creatorType
}

// SelectCreatorType switches the active checklist. Checked state of the
// other list is left alone but is never submitted.
func (c *Controller) SelectCreatorType(t CreatorType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCreatorType, t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.creatorType != t {
		log.Debug(log.CatForm, "creator type selected", "from", c.creatorType, "to", t)
	}
	c.creatorType = t
	return nil
}

// VisibleServices returns the checklist for the active creator type.
func (c *Controller) VisibleServices() []Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalog.Services(c.creatorType)
}

// AddPortfolioEntry appends an empty portfolio row.
func (c *Controller) AddPortfolioEntry() EntryID {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextEntry++
	c.portfolio = append(c.portfolio, PortfolioEntry{ID: c.nextEntry})
	return c.nextEntry
}

// RemovePortfolioEntry removes the row with id, keeping the order of the
// others. It returns false when no such row exists.
func (c *Controller) RemovePortfolioEntry(id EntryID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, e := range c.portfolio {
		if e.ID == id {
			c.portfolio = append(c.portfolio[:i], c.portfolio[i+1:]...)
			return true
		}
	}
	return false
}

// SetPortfolioURL updates the URL of row id.
func (c *Controller) SetPortfolioURL(id EntryID, url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.portfolio {
		if c.portfolio[i].ID == id {
			c.portfolio[i].URL = url
			return true
		}
	}
	return false
}

// Portfolio returns a copy of the portfolio rows in display order.
func (c *Controller) Portfolio() []PortfolioEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]PortfolioEntry(nil), c.portfolio...)
}

// ToggleService checks or unchecks service id. Checking makes its price
// required; unchecking clears the price and the requirement.
func (c *Controller) ToggleService(id string, checked bool) error {
	if _, ok := c.catalog.ServiceType(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if checked {
		c.checked[id] = true
		return nil
	}
	delete(c.checked, id)
	delete(c.prices, id)
	return nil
}

// ServiceChecked reports whether service id is checked.
func (c *Controller) ServiceChecked(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checked[id]
}

// PriceRequired reports whether the price field of service id is required.
func (c *Controller) PriceRequired(id string) bool {
	return c.ServiceChecked(id)
}

// SetServicePrice stores the raw price text for service id. Parsing happens
// when the payload is built.
func (c *Controller) SetServicePrice(id, raw string) error {
	if _, ok := c.catalog.ServiceType(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if raw == "" {
		delete(c.prices, id)
	} else {
		c.prices[id] = raw
	}
	return nil
}

// ServicePrice returns the raw price text for service id.
func (c *Controller) ServicePrice(id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prices[id]
}

// SetProfileField sets one profile input.
func (c *Controller) SetProfileField(f ProfileField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ptr := c.profile.field(f)
	if ptr == nil {
		return fmt.Errorf("unknown profile field %q", f)
	}
	*ptr = value
	return nil
}

// Profile returns the current profile values.
func (c *Controller) Profile() Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// TogglePaymentMethod checks or unchecks payment method id.
func (c *Controller) TogglePaymentMethod(id string, checked bool) error {
	if !c.catalog.HasPaymentMethod(id) {
		return fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, id)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if checked {
		c.payments[id] = true
	} else {
		delete(c.payments, id)
	}
	return nil
}

// PaymentMethodChecked reports whether payment method id is checked.
func (c *Controller) PaymentMethodChecked(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.payments[id]
}

// StagePhoto replaces any staged photo with path and returns the token
// that its preview must be applied with. Any decode still running for an
// earlier photo becomes stale.
func (c *Controller) StagePhoto(path string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.photoToken++
	c.photo = &StagedPhoto{Path: path, Name: filepath.Base(path), Token: c.photoToken}
	log.Debug(log.CatPhoto, "photo staged", "path", path, "token", c.photoToken)
	return c.photoToken
}

// ApplyPhotoPreview attaches p to the staged photo if token is still the
// current one. Stale results are dropped and false is returned.
func (c *Controller) ApplyPhotoPreview(token uint64, p *photo.Preview) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.photo == nil || token != c.photoToken {
		log.Debug(log.CatPhoto, "stale preview dropped", "token", token, "current", c.photoToken)
		return false
	}
	c.photo.Preview = p
	return true
}

// ClearPhoto drops the staged photo.
func (c *Controller) ClearPhoto() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.photoToken++
	c.photo = nil
}

// Photo returns a copy of the staged photo, or nil.
func (c *Controller) Photo() *StagedPhoto {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.photo == nil {
		return nil
	}
	cp := *c.photo
	return &cp
}

// State returns the submission state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error of the last failed submission, if the form
// is in the Failed state.
func (c *Controller) LastError() *SubmitError {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Acknowledge returns a finished form (Success or Failed) to Idle.
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Success || c.state == Failed {
		c.state = Idle
	}
}

// Reset clears every input back to a fresh form.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.creatorType = c.initialType
	c.profile = Profile{}
	c.checked = make(map[string]bool)
	c.prices = make(map[string]string)
	c.payments = make(map[string]bool)
	c.portfolio = nil
	c.photo = nil
	c.photoToken++
	c.lastErr = nil
}

// Payload builds the registration body from the current inputs without
// validating it. The map holds price fields that could not be parsed.
func (c *Controller) Payload() (Payload, map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildPayload()
}

func (c *Controller) buildPayload() (Payload, map[string]string) {
	p := Payload{
		CreatorType:    c.creatorType,
		Profile:        c.profile,
		Services:       make([]ServiceSelection, 0),
		Portfolio:      make([]string, 0),
		PaymentMethods: make([]string, 0),
	}
	var fields map[string]string

	for _, o := range c.catalog.Services(c.creatorType) {
		if !c.checked[o.ID] {
			continue
		}
		price, err := parsePrice(c.prices[o.ID])
		if err != nil {
			if fields == nil {
				fields = make(map[string]string)
			}
			fields["price["+o.ID+"]"] = err.Error()
		}
		p.Services = append(p.Services, ServiceSelection{
			ServiceName: o.ID,
			Price:       price,
			Unit:        UnitPerSession,
		})
	}

	for _, e := range c.portfolio {
		if url := strings.TrimSpace(e.URL); url != "" {
			p.Portfolio = append(p.Portfolio, url)
		}
	}

	for _, o := range c.catalog.PaymentMethods {
		if c.payments[o.ID] {
			p.PaymentMethods = append(p.PaymentMethods, o.ID)
		}
	}

	return p, fields
}

// parsePrice reads a price field. Blank means 0.
func parsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("Must be a number")
	}
	if v < 0 {
		return 0, errors.New("Must be 0 or more")
	}
	return v, nil
}

func (c *Controller) anyServiceChecked() bool {
	for _, o := range c.catalog.Services(c.creatorType) {
		if c.checked[o.ID] {
			return true
		}
	}
	return false
}

// Submission is a validated payload ready to send, plus the photo that was
// staged when the submission began.
type Submission struct {
	Payload Payload
	Photo   *StagedPhoto
}

// BeginSubmit validates the form and, on success, moves it to
// SubmittingRegistration and returns what to send. Validation failures move
// the form to Failed and are returned as *SubmitError. While a submission is
// in flight it returns ErrSubmitInFlight and changes nothing.
func (c *Controller) BeginSubmit() (Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.InFlight() {
		log.Debug(log.CatForm, "submit ignored while in flight", "state", c.state)
		return Submission{}, ErrSubmitInFlight
	}
	c.state = Validating

	if !c.anyServiceChecked() {
		err := &SubmitError{
			Kind:    NoServiceSelected,
			Message: ErrNoServiceSelected.Error(),
			Err:     ErrNoServiceSelected,
		}
		c.failLocked(err)
		return Submission{}, err
	}

	p, fields := c.buildPayload()
	vfields, verr := c.validator.payload(p)
	if verr != nil {
		err := &SubmitError{Kind: InvalidInput, Message: verr.Error(), Err: verr}
		c.failLocked(err)
		return Submission{}, err
	}
	for k, v := range vfields {
		if fields == nil {
			fields = make(map[string]string)
		}
		fields[k] = v
	}
	if len(fields) > 0 {
		err := &SubmitError{Kind: InvalidInput, Message: "invalid input", Fields: fields}
		c.failLocked(err)
		return Submission{}, err
	}

	c.state = SubmittingRegistration
	c.lastErr = nil

	sub := Submission{Payload: p}
	if c.photo != nil {
		cp := *c.photo
		sub.Photo = &cp
	}
	log.Info(log.CatForm, "submission started", "creator_type", p.CreatorType,
		"services", len(p.Services), "portfolio", len(p.Portfolio), "photo", sub.Photo != nil)
	return sub, nil
}

// markPhase records progress reported by the submitter.
func (c *Controller) markPhase(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.InFlight() && s.InFlight() {
		c.state = s
	}
}

// MarkUploading records that the photo upload step has started.
func (c *Controller) MarkUploading() {
	c.markPhase(UploadingPhoto)
}

// FinishSubmit applies the outcome of a submission. Success resets the form;
// failure keeps every input so the user can retry.
func (c *Controller) FinishSubmit(res Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Err != nil {
		c.failLocked(res.Err)
		return res.Err
	}

	c.resetLocked()
	c.state = Success
	log.Info(log.CatForm, "submission succeeded", "creator_id", res.CreatorID,
		"photo_uploaded", res.PhotoUploaded)
	return nil
}

func (c *Controller) failLocked(err *SubmitError) {
	c.state = Failed
	c.lastErr = err
	log.Warn(log.CatForm, "submission failed", "kind", err.Kind, "message", err.Message)
}

// Submit runs the whole flow synchronously: validate, send, apply.
func (c *Controller) Submit(ctx context.Context, s *Submitter) (Result, error) {
	sub, err := c.BeginSubmit()
	if err != nil {
		var serr *SubmitError
		if errors.As(err, &serr) {
			return Result{Err: serr}, err
		}
		return Result{}, err
	}
	res := s.Run(ctx, sub, c.markPhase)
	return res, c.FinishSubmit(res)
}

// ServiceRow is one visible checklist line.
type ServiceRow struct {
	Option
	Checked  bool
	Price    string
	Required bool
}

// PaymentRow is one payment method checkbox.
type PaymentRow struct {
	Option
	Checked bool
}

// Snapshot is a consistent copy of everything a view needs to render.
type Snapshot struct {
	CreatorType    CreatorType
	Services       []ServiceRow
	Profile        Profile
	Portfolio      []PortfolioEntry
	PaymentMethods []PaymentRow
	Photo          *StagedPhoto
	State          State
	LastError      *SubmitError
}

// Snapshot copies the form state under a single lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		CreatorType: c.creatorType,
		Profile:     c.profile,
		Portfolio:   append([]PortfolioEntry(nil), c.portfolio...),
		State:       c.state,
		LastError:   c.lastErr,
	}
	for _, o := range c.catalog.Services(c.creatorType) {
		s.Services = append(s.Services, ServiceRow{
			Option:   o,
			Checked:  c.checked[o.ID],
			Price:    c.prices[o.ID],
			Required: c.checked[o.ID],
		})
	}
	for _, o := range c.catalog.PaymentMethods {
		s.PaymentMethods = append(s.PaymentMethods, PaymentRow{Option: o, Checked: c.payments[o.ID]})
	}
	if c.photo != nil {
		cp := *c.photo
		s.Photo = &cp
	}
	return s
}
