package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

var pgDuplicateDetail = regexp.MustCompile(`Key \((.+?)\)=\((.*)\) already exists`)

// Translate maps any error reaching a handler onto an AppError.
// Domain errors pass through; persistence and binding failures are normalised
// into 400/404; anything else becomes a generic 500.
func Translate(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var idErr *InvalidIDError
	if errors.As(err, &idErr) {
		return BadRequest(ValidationInvalidID, idErr.Error())
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(ResourceNotFound, "Resource not found")
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return BadRequest(ValidationInvalidInput, validationMessage(validationErrs))
	}

	if isMalformedBody(err) {
		return BadRequest(ValidationInvalidInput, "Invalid request body")
	}

	if field, value, ok := duplicateKey(err); ok {
		return BadRequest(ValidationDuplicate, duplicateMessage(field, value))
	}

	return Internal()
}

func validationMessage(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, fieldMessage(fe))
	}
	return strings.Join(messages, ",")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func isMalformedBody(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, http.ErrNotMultipart)
}

// duplicateKey extracts the offending column (and value when the driver reports it)
// from a unique-constraint violation
func duplicateKey(err error) (field, value string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if m := pgDuplicateDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			return m[1], m[2], true
		}
		return pgErr.ConstraintName, "", true
	}

	msg := err.Error()
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "value", "", true
	}
	// SQLite: "UNIQUE constraint failed: users.email"
	if idx := strings.Index(msg, "UNIQUE constraint failed: "); idx >= 0 {
		cols := msg[idx+len("UNIQUE constraint failed: "):]
		first := strings.TrimSpace(strings.Split(cols, ",")[0])
		if dot := strings.LastIndexByte(first, '.'); dot >= 0 {
			first = first[dot+1:]
		}
		return first, "", true
	}
	if m := pgDuplicateDetail.FindStringSubmatch(msg); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

func duplicateMessage(field, value string) string {
	if value == "" {
		return fmt.Sprintf("Duplicate value for '%s'. Please use a different value.", field)
	}
	return fmt.Sprintf("Duplicate value for '%s': %q. Please use a different value.", field, value)
}

// RegisterJSONFieldNames makes binding errors report json field names instead of Go field names
func RegisterJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.Split(f.Tag.Get(tag), ",")[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}
