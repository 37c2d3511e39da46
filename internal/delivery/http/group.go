package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

// ListGroups shows the groups the user joined and the ones they lead,
// optionally narrowed to one category.
func (h *Handler) ListGroups(c *fiber.Ctx) error {
	ctx := c.UserContext()
	me := currentUser(c)
	category := c.Query("category")
	if category != "" {
		if err := domain.ValidateCategory(category); err != nil {
			return err
		}
	}

	joined, err := h.svc.Groups.MyGroups(ctx, me.ID, category)
	if err != nil {
		return err
	}
	led, err := h.svc.Groups.LeaderGroups(ctx, me.ID, category)
	if err != nil {
		return err
	}
	return render(c, "groups", "groups", fiber.Map{
		"category": category,
		"joined":   joined,
		"led":      led,
	})
}

func (h *Handler) GroupDetail(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.svc.Groups.Detail(c.UserContext(), id, currentUser(c).ID)
	if domain.KindOf(err) == domain.KindNotFound {
		return h.afterAction(c, err, "", "/groups", "/groups")
	}
	if err != nil {
		return err
	}
	return render(c, "group-detail", "groups", fiber.Map{"detail": detail})
}

func (h *Handler) LeaveGroup(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = h.svc.Groups.Leave(c.UserContext(), currentUser(c).ID, id)
	return h.afterAction(c, err, "you left the group", "/groups", groupURL(id))
}

func (h *Handler) KickMember(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	target, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	err = h.svc.Groups.Kick(c.UserContext(), target, id, currentUser(c).ID)
	return h.afterAction(c, err, "member removed", groupURL(id), groupURL(id))
}

func (h *Handler) TransferLeadership(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	next, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	err = h.svc.Groups.TransferLeadership(c.UserContext(), currentUser(c).ID, next, id)
	return h.afterAction(c, err, "leadership transferred", groupURL(id), groupURL(id))
}

func (h *Handler) DeleteGroup(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = h.svc.Groups.Delete(c.UserContext(), id, currentUser(c).ID)
	return h.afterAction(c, err, "group deleted", "/groups", groupURL(id))
}

func (h *Handler) CloseGroup(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = h.svc.Groups.Close(c.UserContext(), id, currentUser(c).ID)
	return h.afterAction(c, err, "group closed", groupURL(id), groupURL(id))
}

func (h *Handler) ReopenGroup(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = h.svc.Groups.Reopen(c.UserContext(), id, currentUser(c).ID)
	return h.afterAction(c, err, "group reopened", groupURL(id), groupURL(id))
}
