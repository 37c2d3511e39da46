package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/rs/zerolog"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/service"
)

// Session keys and request locals.
const (
	sessUserID       = "uid"
	sessFlashMessage = "flash_message"
	sessFlashError   = "flash_error"

	localUser         = "currentUser"
	localFlashMessage = "flashMessage"
	localFlashError   = "flashError"
)

// Handler contains all HTTP handlers
type Handler struct {
	svc      *service.Services
	store    domain.Store
	sessions *session.Store
	logger   zerolog.Logger
}

// NewHandler creates a new handler
func NewHandler(svc *service.Services, store domain.Store, sessions *session.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		store:    store,
		sessions: sessions,
		logger:   logger.With().Str("component", "http").Logger(),
	}
}

// LoadSession resolves the signed-in user and consumes pending flash
// messages so they are shown exactly once.
func (h *Handler) LoadSession(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}

	dirty := false
	if id, ok := sess.Get(sessUserID).(uint64); ok {
		u, err := h.svc.Users.Get(c.UserContext(), id)
		switch {
		case err == nil:
			c.Locals(localUser, &u)
		case errors.Is(err, domain.ErrNotFound):
			sess.Delete(sessUserID)
			dirty = true
		default:
			return err
		}
	}
	for key, local := range map[string]string{
		sessFlashMessage: localFlashMessage,
		sessFlashError:   localFlashError,
	} {
		if msg, ok := sess.Get(key).(string); ok {
			c.Locals(local, msg)
			sess.Delete(key)
			dirty = true
		}
	}
	if dirty {
		if err := sess.Save(); err != nil {
			return err
		}
	}
	return c.Next()
}

// RequireLogin sends anonymous visitors to the login page.
func (h *Handler) RequireLogin(c *fiber.Ctx) error {
	if currentUser(c) == nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(localUser).(*domain.User)
	return u
}

// flash stores a message for the next page view.
func (h *Handler) flash(c *fiber.Ctx, key, msg string) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	sess.Set(key, msg)
	return sess.Save()
}

// render fills the layout fields shared by every page.
func render(c *fiber.Ctx, name, active string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["user"] = currentUser(c)
	data["active"] = active
	data["categories"] = domain.Categories
	if msg, ok := c.Locals(localFlashMessage).(string); ok {
		data["flashMessage"] = msg
	}
	if msg, ok := c.Locals(localFlashError).(string); ok {
		data["flashError"] = msg
	}
	return c.Render(name, data)
}

// afterAction redirects to next with a success flash, or back to back with
// the domain error as a flash. Other errors go to the error handler.
func (h *Handler) afterAction(c *fiber.Ctx, err error, success, next, back string) error {
	if err != nil {
		if !isDomainErr(err) {
			return err
		}
		if ferr := h.flash(c, sessFlashError, err.Error()); ferr != nil {
			return ferr
		}
		return c.Redirect(back, fiber.StatusSeeOther)
	}
	if success != "" {
		if ferr := h.flash(c, sessFlashMessage, success); ferr != nil {
			return ferr
		}
	}
	return c.Redirect(next, fiber.StatusSeeOther)
}

func isDomainErr(err error) bool {
	var de *domain.Error
	return errors.As(err, &de)
}

func paramID(c *fiber.Ctx, name string) (uint64, error) {
	n, err := c.ParamsInt(name)
	if err != nil || n <= 0 {
		return 0, fiber.ErrNotFound
	}
	return uint64(n), nil
}

func formID(c *fiber.Ctx, name string) (uint64, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(c.FormValue(name)), 10, 64)
	return n, err == nil && n > 0
}

// boardURL builds /board/<category>/<parts...> with the category escaped.
func boardURL(category string, parts ...any) string {
	var b strings.Builder
	b.WriteString("/board/")
	b.WriteString(url.PathEscape(category))
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(fmt.Sprint(p))
	}
	return b.String()
}

func groupURL(id uint64) string {
	return "/groups/" + strconv.FormatUint(id, 10)
}
