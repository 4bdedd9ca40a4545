package registry

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/deals-registry/internal/types"
)

// Field names a form field that can carry an inline error.
type Field string

const (
	FieldName     Field = "name"
	FieldID       Field = "id"
	FieldEmail    Field = "email"
	FieldCareer   Field = "career"
	FieldSemester Field = "semester"
)

// Fields lists every validated field in form order.
func Fields() []Field {
	return []Field{FieldName, FieldID, FieldEmail, FieldCareer, FieldSemester}
}

// Inline error texts, one per field. FieldID has two mutually exclusive
// messages.
const (
	MsgNameTooShort    = "name must be at least 3 characters"
	MsgIDTooShort      = "student code must be at least 4 characters"
	MsgIDDuplicate     = "this student code is already registered"
	MsgEmailInvalid    = "enter a valid email address"
	MsgCareerMissing   = "select a career"
	MsgSemesterInvalid = "semester must be between 1 and 10"
)

var fieldMessages = map[Field]string{
	FieldName:     MsgNameTooShort,
	FieldID:       MsgIDTooShort,
	FieldEmail:    MsgEmailInvalid,
	FieldCareer:   MsgCareerMissing,
	FieldSemester: MsgSemesterInvalid,
}

// Result is the outcome of validating one candidate. FieldErrors holds one
// message for every failing field; it is empty when Valid is true.
type Result struct {
	Valid       bool             `json:"valid"`
	FieldErrors map[Field]string `json:"fields,omitempty"`
}

// Error returns the message for f, or "".
func (r Result) Error(f Field) string { return r.FieldErrors[f] }

// candidate is the trimmed input with the rules attached. The validator
// checks every field; within one field it stops at the first failing tag.
type candidate struct {
	Name     string `json:"name" validate:"min=3"`
	ID       string `json:"id" validate:"min=4"`
	Email    string `json:"email" validate:"student_email"`
	Career   string `json:"career" validate:"required,career"`
	Semester int    `json:"semester" validate:"min=1,max=10"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their json name so FieldError.Field() maps onto Field.
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		return name
	})

	_ = v.RegisterValidation("student_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("career", func(fl validator.FieldLevel) bool {
		return types.Career(fl.Field().String()).Valid()
	})

	return v
}

// Normalize trims the free-text fields the way the form does before
// validation and storage.
func Normalize(in types.StudentInput) types.StudentInput {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// Validate checks a candidate against the registry rules. existingIDs is
// the set of student codes already in the live collection.
func Validate(in types.StudentInput, existingIDs map[string]struct{}) Result {
	in = Normalize(in)
	res := Result{FieldErrors: map[Field]string{}}

	c := candidate{
		Name:     in.Name,
		ID:       in.ID,
		Email:    in.Email,
		Career:   in.Career,
		Semester: in.Semester,
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			// Only InvalidValidationError lands here, which means c itself
			// is not a struct.
			panic(err)
		}
		for _, fe := range verrs {
			f := Field(fe.Field())
			res.FieldErrors[f] = fieldMessages[f]
		}
	}

	if _, failed := res.FieldErrors[FieldID]; !failed {
		if _, dup := existingIDs[in.ID]; dup {
			res.FieldErrors[FieldID] = MsgIDDuplicate
		}
	}

	res.Valid = len(res.FieldErrors) == 0
	if res.Valid {
		res.FieldErrors = nil
	}
	return res
}
