package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/service"
)

func (h *Handler) MyPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	me := currentUser(c)

	led, err := h.svc.Groups.LeaderGroups(ctx, me.ID, "")
	if err != nil {
		return err
	}
	joined, err := h.svc.Groups.MyGroups(ctx, me.ID, "")
	if err != nil {
		return err
	}
	return render(c, "mypage", "mypage", fiber.Map{"led": led, "joined": joined})
}

func (h *Handler) EditProfileForm(c *fiber.Ctx) error {
	return render(c, "mypage-edit", "mypage", nil)
}

// UpdateProfile applies the non-blank fields of the profile form.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	in := service.ProfileInput{
		UserName:        c.FormValue("userName"),
		Password:        c.FormValue("password"),
		PasswordConfirm: c.FormValue("passwordConfirm"),
		NewLoginID:      c.FormValue("newUserId"),
	}
	if _, err := h.svc.Users.UpdateProfile(c.UserContext(), currentUser(c).ID, in); err != nil {
		if !isDomainErr(err) {
			return err
		}
		c.Status(fiber.StatusBadRequest)
		return render(c, "mypage-edit", "mypage", fiber.Map{"errorMessage": err.Error()})
	}
	return h.afterAction(c, nil, "profile updated", "/mypage", "/mypage")
}

// DeleteAccount removes the signed-in user's own account and signs out.
func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if id != currentUser(c).ID {
		return domain.Forbidden("you can only delete your own account")
	}

	if err := h.svc.Users.DeleteAccount(c.UserContext(), id); err != nil {
		return h.afterAction(c, err, "", "/mypage", "/mypage")
	}

	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Destroy(); err != nil {
		return err
	}
	return c.Redirect("/home", fiber.StatusSeeOther)
}
