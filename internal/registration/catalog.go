package registration

import (
	"fmt"
	"slices"
)

// Option is a selectable checklist entry. ID is what gets submitted.
type Option struct {
	ID    string `mapstructure:"id" yaml:"id"`
	Label string `mapstructure:"label" yaml:"label"`
}

// Catalog lists the services each creator type can offer and the accepted
// payment methods. Service IDs are unique across both creator types.
type Catalog struct {
	Photographer   []Option `mapstructure:"photographer" yaml:"photographer"`
	Editor         []Option `mapstructure:"editor" yaml:"editor"`
	PaymentMethods []Option `mapstructure:"payment_methods" yaml:"payment_methods"`
}

// DefaultCatalog returns the services and payment methods of the public site.
func DefaultCatalog() Catalog {
	return Catalog{
		Photographer: []Option{
			{ID: "wedding_photography", Label: "Wedding Photography"},
			{ID: "portrait_photography", Label: "Portrait Photography"},
			{ID: "event_photography", Label: "Event Photography"},
			{ID: "product_photography", Label: "Product Photography"},
			{ID: "fashion_photography", Label: "Fashion Photography"},
		},
		Editor: []Option{
			{ID: "photo_editing", Label: "Photo Editing"},
			{ID: "video_editing", Label: "Video Editing"},
			{ID: "color_grading", Label: "Color Grading"},
			{ID: "retouching", Label: "Retouching"},
			{ID: "album_design", Label: "Album Design"},
		},
		PaymentMethods: []Option{
			{ID: "upi", Label: "UPI"},
			{ID: "bank_transfer", Label: "Bank Transfer"},
			{ID: "cash", Label: "Cash"},
			{ID: "paypal", Label: "PayPal"},
		},
	}
}

// Services returns the checklist for t.
func (c Catalog) Services(t CreatorType) []Option {
	switch t {
	case Photographer:
		return c.Photographer
	case Editor:
		return c.Editor
	default:
		return nil
	}
}

// ServiceType returns the creator type that offers service id.
func (c Catalog) ServiceType(id string) (CreatorType, bool) {
	for _, t := range CreatorTypes {
		if slices.ContainsFunc(c.Services(t), func(o Option) bool { return o.ID == id }) {
			return t, true
		}
	}
	return "", false
}

// HasPaymentMethod reports whether id is a known payment method.
func (c Catalog) HasPaymentMethod(id string) bool {
	return slices.ContainsFunc(c.PaymentMethods, func(o Option) bool { return o.ID == id })
}

// Validate checks that every list is non-empty and IDs are unique.
func (c Catalog) Validate() error {
	seen := make(map[string]string)
	for _, t := range CreatorTypes {
		services := c.Services(t)
		if len(services) == 0 {
			return fmt.Errorf("catalog.%s: at least one service is required", t)
		}
		for i, o := range services {
			if o.ID == "" {
				return fmt.Errorf("catalog.%s[%d]: id is required", t, i)
			}
			if prev, dup := seen[o.ID]; dup {
				return fmt.Errorf("catalog.%s[%d]: duplicate service id %q (also in %s)", t, i, o.ID, prev)
			}
			seen[o.ID] = string(t)
		}
	}

	methods := make(map[string]bool)
	for i, o := range c.PaymentMethods {
		if o.ID == "" {
			return fmt.Errorf("catalog.payment_methods[%d]: id is required", i)
		}
		if methods[o.ID] {
			return fmt.Errorf("catalog.payment_methods[%d]: duplicate id %q", i, o.ID)
		}
		methods[o.ID] = true
	}
	return nil
}
