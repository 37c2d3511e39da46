package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

// NewErrorHandler maps domain errors to statuses and renders the error page.
func NewErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := statusOf(err)
		if code >= fiber.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("request failed")
		}

		c.Status(code)
		if rerr := render(c, "error", "", fiber.Map{"status": code, "message": message}); rerr != nil {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.SendString(message)
		}
		return nil
	}
}

func statusOf(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	switch domain.KindOf(err) {
	case domain.KindInvalid, domain.KindConflict, domain.KindState:
		return fiber.StatusBadRequest, err.Error()
	case domain.KindForbidden:
		return fiber.StatusForbidden, err.Error()
	case domain.KindNotFound:
		return fiber.StatusNotFound, err.Error()
	}
	return fiber.StatusInternalServerError, "Internal Server Error"
}
