package service

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator. Decimal fields are validated
// as float64 so the numeric gt/gte tags apply to amounts.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		validate = v
	})
	return validate
}

// fieldErrors maps each invalid field to the tag it failed.
func fieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return fields
}

// validateRequest checks msg against its validate tags and returns an
// InvalidArgument error listing every failing field.
func validateRequest(msg any) error {
	err := getValidator().Struct(msg)
	if err == nil {
		return nil
	}

	fields := fieldErrors(err)
	if fields == nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		_, field, _ := strings.Cut(name, ".")
		parts[i] = fmt.Sprintf("%s: %s", field, fields[name])
	}
	return connect.NewError(connect.CodeInvalidArgument,
		fmt.Errorf("invalid request: %s", strings.Join(parts, ", ")))
}

// validateItemTotals rejects items whose discount exceeds price times
// quantity.
func validateItemTotals(items []models.Item) error {
	for i, item := range items {
		if item.Total().IsNegative() {
			return connect.NewError(connect.CodeInvalidArgument,
				fmt.Errorf("invalid request: items[%d] %q: discount exceeds line total", i, item.Name))
		}
	}
	return nil
}
