package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Niroshana-SinharaRalalage/LankaConnect-sub028/internal/pricing"
)

var validate = validator.New()

// AttendeeDetails is one person covered by a registration. It is immutable;
// build it with NewAttendee.
type AttendeeDetails struct {
	name     string
	category pricing.AgeCategory
	gender   string
}

// NewAttendee validates and builds an attendee.
func NewAttendee(name string, category pricing.AgeCategory, gender string) (AttendeeDetails, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AttendeeDetails{}, fmt.Errorf("%w: attendee name is required", ErrValidation)
	}
	if !category.Valid() {
		return AttendeeDetails{}, fmt.Errorf("%w: unknown age category %q", ErrValidation, category)
	}
	return AttendeeDetails{name: name, category: category, gender: strings.TrimSpace(gender)}, nil
}

// RestoreAttendee rebuilds a stored attendee without validation.
func RestoreAttendee(name string, category pricing.AgeCategory, gender string) AttendeeDetails {
	return AttendeeDetails{name: name, category: category, gender: gender}
}

func (a AttendeeDetails) Name() string                     { return a.name }
func (a AttendeeDetails) AgeCategory() pricing.AgeCategory { return a.category }
func (a AttendeeDetails) Gender() string                   { return a.gender }

func (a AttendeeDetails) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string              `json:"name"`
		AgeCategory pricing.AgeCategory `json:"age_category"`
		Gender      string              `json:"gender,omitempty"`
	}{a.name, a.category, a.gender})
}

// Categories lists the age category of each attendee, in order.
func Categories(attendees []AttendeeDetails) []pricing.AgeCategory {
	out := make([]pricing.AgeCategory, len(attendees))
	for i, a := range attendees {
		out[i] = a.category
	}
	return out
}

// Contact is how the registrant is reached about the registration.
type Contact struct {
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address,omitempty"`
}

// NewContact normalises and validates contact details.
func NewContact(email, phone, address string) (Contact, error) {
	c := Contact{
		Email:   strings.ToLower(strings.TrimSpace(email)),
		Phone:   strings.TrimSpace(phone),
		Address: strings.TrimSpace(address),
	}
	if err := validate.Struct(c); err != nil {
		return Contact{}, fmt.Errorf("%w: contact: %v", ErrValidation, err)
	}
	return c, nil
}

// Submission is a registration request as the registrant sent it. The
// waitlist keeps it so promotion can replay the original request.
type Submission struct {
	UserID    string            `json:"user_id,omitempty"`
	Contact   Contact           `json:"contact"`
	Attendees []AttendeeDetails `json:"attendees"`
}

// Validate checks the attendee bounds.
func (s Submission) Validate() error {
	n := len(s.Attendees)
	if n < MinAttendees {
		return fmt.Errorf("%w: at least one attendee is required", ErrValidation)
	}
	if n > MaxAttendees {
		return fmt.Errorf("%w: a registration can cover at most %d attendees", ErrValidation, MaxAttendees)
	}
	if s.Contact.Email == "" {
		return fmt.Errorf("%w: contact email is required", ErrValidation)
	}
	return nil
}
