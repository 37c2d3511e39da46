package http

import (
	"github.com/gofiber/fiber/v2"
)

// SubmitJoinRequest applies to the group named by the groupId form field.
func (h *Handler) SubmitJoinRequest(c *fiber.Ctx) error {
	groupID, ok := formID(c, "groupId")
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "groupId is required")
	}
	_, err := h.svc.JoinRequests.Request(c.UserContext(), currentUser(c).ID, groupID, c.FormValue("message"))
	return h.afterAction(c, err, "join request sent", groupURL(groupID), groupURL(groupID))
}

func (h *Handler) ApproveJoinRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = h.svc.JoinRequests.Approve(c.UserContext(), id, currentUser(c).ID)
	back := h.returnTo(c, "/join-requests/pending")
	return h.afterAction(c, err, "join request approved", back, back)
}

func (h *Handler) RejectJoinRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = h.svc.JoinRequests.Reject(c.UserContext(), id, currentUser(c).ID)
	back := h.returnTo(c, "/join-requests/pending")
	return h.afterAction(c, err, "join request rejected", back, back)
}

func (h *Handler) CancelJoinRequest(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	err = h.svc.JoinRequests.Cancel(c.UserContext(), id, currentUser(c).ID)
	back := h.returnTo(c, "/join-requests/my-requests")
	return h.afterAction(c, err, "join request cancelled", back, back)
}

func (h *Handler) MyJoinRequests(c *fiber.Ctx) error {
	requests, err := h.svc.JoinRequests.MyRequests(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return render(c, "join-requests-my", "join-requests", fiber.Map{"requests": requests})
}

func (h *Handler) PendingJoinRequests(c *fiber.Ctx) error {
	requests, err := h.svc.JoinRequests.PendingForLeader(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return render(c, "join-requests-pending", "join-requests", fiber.Map{"requests": requests})
}

// returnTo is the group page when the form names one, otherwise fallback.
func (h *Handler) returnTo(c *fiber.Ctx, fallback string) string {
	if groupID, ok := formID(c, "groupId"); ok {
		return groupURL(groupID)
	}
	return fallback
}

// Notifications lists requests waiting on the user and answers they got.
func (h *Handler) Notifications(c *fiber.Ctx) error {
	n, err := h.svc.Notifications.For(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return render(c, "notifications", "notifications", fiber.Map{"notifications": n})
}
