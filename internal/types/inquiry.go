package types

import (
	"fmt"
	"time"
)

// InquiryStatus tracks a seller's handling of a customer inquiry.
type InquiryStatus string

const (
	InquiryNew       InquiryStatus = "new"
	InquiryResponded InquiryStatus = "responded"
	InquiryClosed    InquiryStatus = "closed"
)

var inquiryTransitions = map[InquiryStatus][]InquiryStatus{
	InquiryNew:       {InquiryResponded, InquiryClosed},
	InquiryResponded: {InquiryClosed},
}

// ParseInquiryStatus converts a raw string to an InquiryStatus.
func ParseInquiryStatus(s string) (InquiryStatus, error) {
	st := InquiryStatus(s)
	switch st {
	case InquiryNew, InquiryResponded, InquiryClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown inquiry status %q", s)
}

// CanMoveInquiry reports whether an inquiry may move from → to.
func CanMoveInquiry(from, to InquiryStatus) bool {
	for _, s := range inquiryTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Inquiry is an informational booking request. No reservation is made.
type Inquiry struct {
	ID            string        `json:"id"`
	PropertyID    string        `json:"property_id"`
	SellerID      string        `json:"seller_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	CustomerPhone string        `json:"customer_phone"`
	Message       string        `json:"message"`
	CheckIn       *time.Time    `json:"check_in,omitempty"`
	CheckOut      *time.Time    `json:"check_out,omitempty"`
	Guests        *int          `json:"guests,omitempty"`
	Status        InquiryStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CreateInquiryParams is the property-detail inquiry form.
type CreateInquiryParams struct {
	CustomerName  string     `json:"customer_name"`
	CustomerEmail string     `json:"customer_email"`
	CustomerPhone string     `json:"customer_phone"`
	Message       string     `json:"message"`
	CheckIn       *time.Time `json:"check_in,omitempty"`
	CheckOut      *time.Time `json:"check_out,omitempty"`
	Guests        *int       `json:"guests,omitempty"`
}

// Validate performs the required-field checks.
func (p CreateInquiryParams) Validate() error {
	if err := requireFields(map[string]string{
		"customer_name":  p.CustomerName,
		"customer_email": p.CustomerEmail,
		"customer_phone": p.CustomerPhone,
		"message":        p.Message,
	}); err != nil {
		return err
	}
	if p.CheckIn != nil && p.CheckOut != nil && p.CheckOut.Before(*p.CheckIn) {
		return fmt.Errorf("%w: check_out is before check_in", ErrBadRequest)
	}
	if p.Guests != nil && *p.Guests < 1 {
		return fmt.Errorf("%w: guests must be positive", ErrBadRequest)
	}
	return nil
}

// GlobalSetting is an admin-managed key/value pair.
type GlobalSetting struct {
	Key       string    `json:"setting_key"`
	Value     string    `json:"setting_value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingValue returns the value stored under key, or "" when unset.
func SettingValue(settings []GlobalSetting, key string) string {
	for _, s := range settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
