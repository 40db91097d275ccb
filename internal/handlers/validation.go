package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom binding rules on gin's validator.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding engine is not go-playground/validator")
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		rules := map[string]validator.Func{
			"notblank": validators.NotBlank,
			"entrykind": func(fl validator.FieldLevel) bool {
				_, err := entrymodels.ParseKind(fl.Field().String())
				return err == nil
			},
			"mediakind": func(fl validator.FieldLevel) bool {
				_, err := entrymodels.ParseMediaKind(fl.Field().String())
				return err == nil
			},
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = fmt.Errorf("register %s validator: %w", tag, err)
				return
			}
		}
	})
	return registerErr
}

// bindErrorMessage turns a binding failure into the client facing message
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request format"
	}

	// Missing fields win over every other complaint
	for _, fe := range verrs {
		if fe.Tag() == "required" || fe.Tag() == "notblank" {
			if strings.Contains(fe.Namespace(), ".media[") {
				return "Media items need a kind and a url"
			}
			return "Missing required fields"
		}
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "entrykind":
		return fmt.Sprintf("Invalid kind %q", fe.Value())
	case "mediakind":
		return fmt.Sprintf("Invalid media kind %q", fe.Value())
	case "min":
		return fmt.Sprintf("%s must not be negative", fe.Field())
	}
	return fmt.Sprintf("Invalid value for %s", fe.Field())
}
