package types

import (
	"fmt"
	"slices"
	"strings"
)

// TagRequest is a seller's purchase of a promotional tag for one property.
type TagRequest struct {
	ID                string  `json:"id"`
	PropertyID        string  `json:"property_id"`
	SellerID          string  `json:"seller_id"`
	TagName           string  `json:"tag_name"`
	Price             float64 `json:"price"`
	PaymentScreenshot *string `json:"payment_screenshot,omitempty"`
	ModerationMeta
}

// CreateTagRequestParams holds parameters for purchasing a tag.
type CreateTagRequestParams struct {
	TagName           string  `json:"tag_name"`
	Price             float64 `json:"price"`
	PaymentScreenshot *string `json:"payment_screenshot,omitempty"`
}

// Validate performs the required-field checks.
func (p CreateTagRequestParams) Validate() error {
	if err := requireFields(map[string]string{"tag_name": p.TagName}); err != nil {
		return err
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrBadRequest)
	}
	return nil
}

// requireFields returns ErrBadRequest listing every blank field.
func requireFields(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s is required", ErrBadRequest, strings.Join(missing, ", "))
}
