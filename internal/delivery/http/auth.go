package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/metrics"
	"github.com/donghyeon639/SYU-Spring-web/internal/service"
)

const msgTooManyAttempts = "too many login attempts, try again later"

// LoginForm shows the login page; ?error marks a failed attempt.
func (h *Handler) LoginForm(c *fiber.Ctx) error {
	data := fiber.Map{}
	if c.Context().QueryArgs().Has("error") {
		data["errorMessage"] = "invalid credentials"
	}
	return render(c, "login", "login", data)
}

// Login signs the user in and starts a fresh session.
func (h *Handler) Login(c *fiber.Ctx) error {
	u, err := h.svc.Users.Authenticate(c.UserContext(), c.FormValue("userId"), c.FormValue("password"))
	if err != nil {
		if domain.KindOf(err) == domain.KindInvalid {
			metrics.RecordLogin("failure")
			return c.Redirect("/login?error", fiber.StatusSeeOther)
		}
		return err
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessUserID, u.ID)
	if err := sess.Save(); err != nil {
		return err
	}

	metrics.RecordLogin("success")
	h.logger.Info().Uint64("user_id", u.ID).Msg("user signed in")
	return c.Redirect("/home", fiber.StatusSeeOther)
}

// LoginThrottled answers login attempts over the per-IP limit.
func (h *Handler) LoginThrottled(c *fiber.Ctx) error {
	metrics.RecordLogin("throttled")
	c.Status(fiber.StatusTooManyRequests)
	return render(c, "login", "login", fiber.Map{"errorMessage": msgTooManyAttempts})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return c.Redirect("/home", fiber.StatusSeeOther)
}

func (h *Handler) SignupForm(c *fiber.Ctx) error {
	return render(c, "signup", "signup", nil)
}

// Signup registers an account and shows the login page on success.
func (h *Handler) Signup(c *fiber.Ctx) error {
	in := service.SignupInput{
		LoginID:         c.FormValue("userId"),
		Password:        c.FormValue("password"),
		PasswordConfirm: c.FormValue("passwordConfirm"),
		UserName:        c.FormValue("userName"),
	}
	if _, err := h.svc.Users.Register(c.UserContext(), in); err != nil {
		if !isDomainErr(err) {
			return err
		}
		c.Status(fiber.StatusBadRequest)
		return render(c, "signup", "signup", fiber.Map{
			"errorMessage": err.Error(),
			"userId":       in.LoginID,
			"userName":     in.UserName,
		})
	}
	return render(c, "login", "login", fiber.Map{
		"message": "sign-up complete, please log in",
		"userId":  in.LoginID,
	})
}
