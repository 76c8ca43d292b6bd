package intake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/poiesic/lostfound/core"
)

// MaxImageSize bounds the opaque image attached to a report.
const MaxImageSize = 5 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// Submission is a new report as entered by a reporter.
type Submission struct {
	Name        string      `validate:"required,max=200"`
	Contact     string      `validate:"required,max=320"`
	Description string      `validate:"required,max=2000"`
	Status      core.Status `validate:"oneof=1 2"`
	Secret      string      `validate:"max=500"`
	OwnerID     string      `validate:"max=128"`
	Image       []byte      `validate:"max=5242880"`
}

// Normalize trims surrounding whitespace from the reporter's name and
// contact. Descriptions are normalized when the report is stored.
func (s Submission) Normalize() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Contact = strings.TrimSpace(s.Contact)
	return s
}

// Validate checks field constraints. Descriptions that are blank after
// trimming are rejected.
func (s Submission) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSubmission, describeValidation(err))
	}
	if core.NormalizeDescription(s.Description) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSubmission, core.ErrEmptyDescription)
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
