package options

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(jsonName)
	if err := validate.RegisterValidation("finite", isFinite); err != nil {
		panic(err)
	}
}

// Issue reports an option value that was rejected and replaced by its
// default.
type Issue struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Default string `json:"default"`
}

// Resolve fills unset values with their defaults and validates the result.
// Every invalid value is reset to its default and reported as an Issue, so the
// returned Options are always complete and valid.
func Resolve(o Options) (Options, []Issue, error) {
	if err := setDefaults(&o); err != nil {
		return Options{}, nil, err
	}

	err := validate.Struct(&o)
	if err == nil {
		return o, nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Options{}, nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	issues := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		def, rerr := reset(&o, fe.StructNamespace())
		if rerr != nil {
			return Options{}, nil, rerr
		}
		issues = append(issues, Issue{
			Field:   trimRoot(fe.Namespace()),
			Code:    "ERR_" + strings.ToUpper(fe.Tag()),
			Message: issueMessage(fe),
			Default: def,
		})
	}

	if err := setDefaults(&o); err != nil {
		return Options{}, nil, err
	}
	if err := validate.Struct(&o); err != nil {
		return Options{}, nil, fmt.Errorf("%w: defaults: %w", ErrInvalidOptions, err)
	}
	return o, issues, nil
}

func setDefaults(o *Options) error {
	if err := defaults.Set(o); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return nil
}

// reset zeroes the field at a struct namespace such as
// "Options.Settings.Marker.Size" and returns its default tag.
func reset(o *Options, namespace string) (string, error) {
	parts := strings.Split(namespace, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: bad namespace %q", ErrInvalidOptions, namespace)
	}

	v := reflect.ValueOf(o).Elem()
	var sf reflect.StructField
	for _, name := range parts[1:] {
		f, ok := v.Type().FieldByName(name)
		if !ok {
			return "", fmt.Errorf("%w: no field %q", ErrInvalidOptions, namespace)
		}
		sf = f
		v = v.FieldByIndex(f.Index)
	}
	v.Set(reflect.Zero(v.Type()))
	return sf.Tag.Get("default"), nil
}

func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func isFinite(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		v := f.Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	}
	return true
}

func issueMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "finite":
		return fmt.Sprintf("%s must be a finite number", field)
	case "iscolor":
		return fmt.Sprintf("%s must be a color", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
