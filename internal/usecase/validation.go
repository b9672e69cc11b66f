package usecase

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"
	"github.com/polkiloo/detta3d-orders/internal/domain/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("delivery_method", func(fl validator.FieldLevel) bool {
		for _, m := range model.DeliveryMethods() {
			if fl.Field().String() == string(m) {
				return true
			}
		}
		return false
	})
	_ = v.RegisterValidation("payment_channel", func(fl validator.FieldLevel) bool {
		for _, c := range model.PaymentChannels() {
			if fl.Field().String() == string(c) {
				return true
			}
		}
		return false
	})
	return v
}

// ValidateCreate checks a raw create payload and normalizes it.
// Server-assigned keys (id, created_at, updated_at) and unknown keys are ignored.
func ValidateCreate(payload map[string]any, now time.Time) (model.OrderCreate, error) {
	r := payloadReader{payload: payload}

	var in model.OrderCreate
	if v := r.text("user_id"); v != nil {
		in.UserID = *v
	}
	if v := r.text("product"); v != nil {
		in.Product = *v
	}
	if v := r.number("price"); v != nil {
		in.Price = *v
	} else if !r.failed("price") {
		r.fail("price", "field required")
	}
	if v := r.deliveryMethod("status"); v != nil {
		in.Status = *v
	}
	if v := r.paymentChannel("payment_status"); v != nil {
		in.PaymentStatus = *v
	}
	if v := r.text("address"); v != nil {
		in.Address = *v
	}
	if v := r.text("notes"); v != nil {
		in.Notes = *v
	}
	in.CreatedAt = now.UTC()

	if err := r.check(in); err != nil {
		return model.OrderCreate{}, err
	}
	return in, nil
}

// ValidateUpdate checks a raw partial update payload. At least one field must be present.
func ValidateUpdate(payload map[string]any) (model.OrderUpdate, error) {
	r := payloadReader{payload: payload}

	var upd model.OrderUpdate
	upd.UserID = r.text("user_id")
	upd.Product = r.text("product")
	upd.Price = r.number("price")
	upd.Status = r.deliveryMethod("status")
	upd.PaymentStatus = r.paymentChannel("payment_status")
	upd.Address = r.text("address")
	upd.Notes = r.text("notes")

	if err := r.check(upd); err != nil {
		return model.OrderUpdate{}, err
	}
	if upd.Empty() {
		return model.OrderUpdate{}, domainErrors.NewEmptyUpdateError()
	}
	return upd, nil
}

// payloadReader extracts typed values from a decoded JSON object and collects type errors.
type payloadReader struct {
	payload map[string]any
	errs    []domainErrors.FieldError
}

func (r *payloadReader) fail(field, message string) {
	r.errs = append(r.errs, domainErrors.FieldError{Field: field, Message: message})
}

func (r *payloadReader) failed(field string) bool {
	for _, e := range r.errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

// text returns a trimmed string. Null and blank optional values read as absent.
func (r *payloadReader) text(key string) *string {
	raw, ok := r.payload[key]
	if !ok || raw == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		r.fail(key, "must be a string")
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" && (key == "address" || key == "notes") {
		return nil
	}
	return &s
}

// deliveryMethod resolves a present value to its canonical form. Blank is not a member.
func (r *payloadReader) deliveryMethod(key string) *model.DeliveryMethod {
	v := r.text(key)
	if v == nil {
		return nil
	}
	m, ok := model.ParseDeliveryMethod(*v)
	if !ok {
		r.fail(key, "must be one of: "+joinValues(model.DeliveryMethods()))
		return nil
	}
	return &m
}

func (r *payloadReader) paymentChannel(key string) *model.PaymentChannel {
	v := r.text(key)
	if v == nil {
		return nil
	}
	c, ok := model.ParsePaymentChannel(*v)
	if !ok {
		r.fail(key, "must be one of: "+joinValues(model.PaymentChannels()))
		return nil
	}
	return &c
}

func (r *payloadReader) number(key string) *float64 {
	raw, ok := r.payload[key]
	if !ok || raw == nil {
		return nil
	}

	var (
		f   float64
		err error
	)
	switch v := raw.(type) {
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		err = errors.New("not a number")
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.fail(key, "must be a number")
		return nil
	}
	return &f
}

// check runs struct constraints and merges their failures with extraction failures.
func (r *payloadReader) check(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			if r.failed(fe.Field()) {
				continue
			}
			msg := constraintMessage(fe)
			if fe.Tag() == "required" && r.payload[fe.Field()] == nil {
				msg = "field required"
			}
			r.fail(fe.Field(), msg)
		}
	}
	if len(r.errs) > 0 {
		return domainErrors.NewValidationError(r.errs...)
	}
	return nil
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "must not be empty"
	case "gt":
		return "must be greater than " + fe.Param()
	case "delivery_method":
		return "must be one of: " + joinValues(model.DeliveryMethods())
	case "payment_channel":
		return "must be one of: " + joinValues(model.PaymentChannels())
	default:
		return "failed " + fe.Tag() + " constraint"
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
