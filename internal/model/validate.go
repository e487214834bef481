package model

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"cv-builder/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/cv.schema.json
var cvSchema []byte

var (
	docValidator = newValidator()
	schemaLoader = gojsonschema.NewBytesLoader(cvSchema)
	dataURIImage = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/=\s]+$`)
	monthLayouts = []string{"2006-01", "2006-01-02", "2006"}
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("month", validateMonth)
	v.RegisterValidation("present_or_month", validatePresentOrMonth)
	v.RegisterValidation("picture", validatePicture)
	return v
}

// Schema is the JSON schema imported documents must satisfy.
func Schema() []byte { return cvSchema }

func validateMonth(fl validator.FieldLevel) bool {
	return IsDate(fl.Field().String())
}

func validatePresentOrMonth(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return v == PresentSentinel || IsDate(v)
}

func validatePicture(fl validator.FieldLevel) bool {
	return IsPictureSource(fl.Field().String())
}

// IsDate accepts the date forms a CV uses: YYYY-MM, YYYY-MM-DD and YYYY.
func IsDate(v string) bool {
	for _, layout := range monthLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

// IsPictureSource accepts an absolute http(s) URL or a base64 image data URI.
func IsPictureSource(v string) bool {
	if strings.HasPrefix(v, "data:") {
		return dataURIImage.MatchString(v)
	}
	u, err := url.Parse(v)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate checks a document before it is saved.
func (d *Document) Validate() error { return ValidateStruct(d) }

// ValidateStruct runs the shared validator on any tagged struct.
func ValidateStruct(v any) error {
	err := docValidator.Struct(v)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.NewValidationError(fieldPath(fe.Namespace()), "failed %q check", fe.Tag())
	}
	return err
}

// ValidateMap validates a generic map, typically model output, against
// the embedded CV schema.
func ValidateMap(m map[string]interface{}) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(m))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("schema validation failed: %s", msgs)
}

// fieldPath turns "Document.skills[0].level" into "skills[0].level".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
