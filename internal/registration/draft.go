package registration

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Draft is a form filled in ahead of time, read by the headless submit
// command. Services maps a service ID to its price text.
type Draft struct {
	CreatorType    CreatorType       `yaml:"creator_type"`
	Profile        Profile           `yaml:"profile"`
	Services       map[string]string `yaml:"services"`
	Portfolio      []string          `yaml:"portfolio"`
	PaymentMethods []string          `yaml:"payment_methods"`
}

// ReadDraft decodes a YAML draft. Unknown keys are rejected so typos do not
// silently drop a field.
func ReadDraft(r io.Reader) (Draft, error) {
	var d Draft
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return Draft{}, errors.New("draft is empty")
		}
		return Draft{}, fmt.Errorf("parsing draft: %w", err)
	}
	return d, nil
}

// ApplyDraft fills the form from d the way a user would: select the tab,
// check and price each service, type the profile, add links, and check
// payment methods. Inputs already on the form are kept unless d sets them.
func (c *Controller) ApplyDraft(d Draft) error {
	if d.CreatorType != "" {
		if err := c.SelectCreatorType(d.CreatorType); err != nil {
			return err
		}
	}

	ids := make([]string, 0, len(d.Services))
	for id := range d.Services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if t, ok := c.catalog.ServiceType(id); ok && t != c.CreatorType() {
			return fmt.Errorf("service %q is offered to %s, not %s", id, t, c.CreatorType())
		}
		if err := c.ToggleService(id, true); err != nil {
			return err
		}
		if err := c.SetServicePrice(id, d.Services[id]); err != nil {
			return err
		}
	}

	for _, f := range ProfileFields {
		if v := d.Profile.Get(f); v != "" {
			if err := c.SetProfileField(f, v); err != nil {
				return err
			}
		}
	}

	for _, url := range d.Portfolio {
		c.SetPortfolioURL(c.AddPortfolioEntry(), url)
	}

	for _, id := range d.PaymentMethods {
		if err := c.TogglePaymentMethod(id, true); err != nil {
			return err
		}
	}
	return nil
}
