package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Field messages shared by the form views and the JSON validation surface.
const (
	MsgStudentID  = "Student ID must start with S followed by 5+ digits"
	MsgCourseCode = "Course code must be in the format ABC123"
	MsgEmail      = "Please enter a valid email address"
	MsgGrade      = "Grade must be a number between 0 and 100 with at most one decimal place"
	MsgCredits    = "Credits must be a whole number between 1 and 6"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup registers the validator with English translations and the records
// tags (student_id, course_code, grade) on Gin's binding engine.
// Call once during application startup.
func Setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}

	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("student_id", func(fl govalidator.FieldLevel) bool {
		return ValidateStudentID(fl.Field().String())
	})
	_ = v.RegisterValidation("course_code", func(fl govalidator.FieldLevel) bool {
		return ValidateCourseCode(fl.Field().String())
	})
	_ = v.RegisterValidation("grade", func(fl govalidator.FieldLevel) bool {
		f := fl.Field()
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			g := f.Float()
			return ValidateGrade(&g)
		case reflect.Int, reflect.Int64, reflect.Int32:
			g := float64(f.Int())
			return ValidateGrade(&g)
		}
		return false
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Same wording as the form views.
	override(v, "required", "{0} is required", true)
	override(v, "email", MsgEmail, false)
	override(v, "student_id", MsgStudentID, false)
	override(v, "course_code", MsgCourseCode, false)
	override(v, "grade", MsgGrade, false)
}

func override(v *govalidator.Validate, tag, text string, withField bool) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe govalidator.FieldError) string {
			var msg string
			if withField {
				msg, _ = t.T(tag, fe.Field())
			} else {
				msg, _ = t.T(tag)
			}
			return msg
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Struct validates an already-built value with the same engine and
// translations as Bind. Used outside HTTP handlers (the seeder).
func Struct(v interface{}) map[string]string {
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
