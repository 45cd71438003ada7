// Moderation status graph shared by contact requests, tag requests and reviews:
//
//	pending ──► approved
//	   │
//	   └──────► rejected
//
// approved and rejected are terminal.
package types

import (
	"fmt"
	"time"
)

// ModerationStatus mirrors the status column of the moderated tables.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

var moderationTransitions = map[ModerationStatus][]ModerationStatus{
	StatusPending: {StatusApproved, StatusRejected},
}

// ParseModerationStatus converts a raw string to a ModerationStatus.
func ParseModerationStatus(s string) (ModerationStatus, error) {
	st := ModerationStatus(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown moderation status %q", s)
}

// CanModerate reports whether a record in status from may move to to.
func CanModerate(from, to ModerationStatus) bool {
	for _, s := range moderationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ModerationDecision is the admin's verdict on a pending record.
type ModerationDecision struct {
	Status     ModerationStatus `json:"status"`
	AdminNotes *string          `json:"admin_notes,omitempty"`
	ReviewerID string           `json:"-"`
}

// Validate checks that the decision targets a terminal status.
func (d ModerationDecision) Validate() error {
	if d.Status != StatusApproved && d.Status != StatusRejected {
		return fmt.Errorf("%w: status must be approved or rejected", ErrBadRequest)
	}
	return nil
}

// ModerationMeta holds the review trail common to every moderated record.
type ModerationMeta struct {
	Status      ModerationStatus `json:"status"`
	AdminNotes  *string          `json:"admin_notes,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	ReviewedAt  *time.Time       `json:"reviewed_at,omitempty"`
	ReviewedBy  *string          `json:"reviewed_by,omitempty"`
}

// ContactRequest asks the admin to publish a seller's contact details on a property.
type ContactRequest struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	SellerID   string `json:"seller_id"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Location   string `json:"location"`
	ModerationMeta
}

// CreateContactRequestParams is the seller's submission.
type CreateContactRequestParams struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// Validate performs the required-field checks.
func (p CreateContactRequestParams) Validate() error {
	return requireFields(map[string]string{
		"phone":    p.Phone,
		"email":    p.Email,
		"location": p.Location,
	})
}

// Review is a customer review awaiting or past moderation.
type Review struct {
	ID            string  `json:"id"`
	PropertyID    string  `json:"property_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	Rating        int     `json:"rating"`
	Comment       string  `json:"comment"`
	ModerationMeta
}

// CreateReviewParams is what the public review form submits.
type CreateReviewParams struct {
	CustomerName  string  `json:"customer_name"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	Rating        int     `json:"rating"`
	Comment       string  `json:"comment"`
}

// Validate performs the required-field checks.
func (p CreateReviewParams) Validate() error {
	if err := requireFields(map[string]string{
		"customer_name": p.CustomerName,
		"comment":       p.Comment,
	}); err != nil {
		return err
	}
	if p.Rating < 1 || p.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrBadRequest)
	}
	return nil
}

// ModerationQueues is the admin view over every moderated table.
type ModerationQueues struct {
	ContactRequests []ContactRequest `json:"contact_requests"`
	TagRequests     []TagRequest     `json:"tag_requests"`
	Reviews         []Review         `json:"reviews"`
}
