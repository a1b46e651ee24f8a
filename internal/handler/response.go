package handler

import (
	"errors"
	"log/slog"
	"reflect"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-stockbit/internal/service"
	"go-stockbit/pkg/logger"
	"go-stockbit/pkg/validator"
)

func init() {
	// Form bodies carry prices and amounts as text.
	fiber.SetParserDecoder(fiber.ParserConfig{
		IgnoreUnknownKeys: true,
		ZeroEmpty:         true,
		ParserType: []fiber.ParserType{{
			Customtype: decimal.Decimal{},
			Converter: func(s string) reflect.Value {
				d, err := decimal.NewFromString(s)
				if err != nil {
					return reflect.Value{}
				}
				return reflect.ValueOf(d)
			},
		}},
	})
}

var (
	errInvalidBody = errors.New("Invalid request body")
	errInvalidID   = errors.New("Invalid ID")
)

var statusByError = map[error]int{
	service.ErrUnauthorized:       fiber.StatusForbidden,
	service.ErrAdminOnly:          fiber.StatusForbidden,
	service.ErrInvalidCredentials: fiber.StatusUnauthorized,
	service.ErrSessionExpired:     fiber.StatusUnauthorized,
	service.ErrInvalidQuantity:    fiber.StatusBadRequest,
	service.ErrNotEnoughStock:     fiber.StatusBadRequest,
	service.ErrSelfDelete:         fiber.StatusBadRequest,
	service.ErrNotPremium:         fiber.StatusBadRequest,
	service.ErrUsernameExists:     fiber.StatusConflict,
	service.ErrEmailExists:        fiber.StatusConflict,
	service.ErrPaymentReviewed:    fiber.StatusConflict,
	service.ErrLastAdmin:          fiber.StatusConflict,
	service.ErrLastAdminDemotion:  fiber.StatusConflict,
	service.ErrUserNotFound:       fiber.StatusNotFound,
	service.ErrPaymentNotFound:    fiber.StatusNotFound,
	errInvalidBody:                fiber.StatusBadRequest,
	errInvalidID:                  fiber.StatusBadRequest,
}

// fail writes err as a JSON error response. Errors without a known status
// are logged and reported as a generic 500.
func fail(c *fiber.Ctx, log *slog.Logger, err error) error {
	var fields validator.FieldErrors
	if errors.As(err, &fields) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "Validation failed",
			"fields": fields,
		})
	}

	for target, status := range statusByError {
		if errors.Is(err, target) {
			return c.Status(status).JSON(fiber.Map{"error": target.Error()})
		}
	}

	log.Error("request failed",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		logger.Err(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}
