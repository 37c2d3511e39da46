package http

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/pkg/utils"
)

// postForm holds the raw form values so a rejected form can be shown again.
type postForm struct {
	Title            string
	Content          string
	Location         string
	MeetingStartTime string
	MeetingEndTime   string
	LimitCount       string
}

func formFromPost(p domain.Post) postForm {
	f := postForm{
		Title:            p.Title,
		Content:          p.Content,
		Location:         p.Location,
		MeetingStartTime: utils.DateTimeLocal(p.MeetingStartTime),
		MeetingEndTime:   utils.DateTimeLocal(p.MeetingEndTime),
	}
	if p.LimitCount != nil {
		f.LimitCount = strconv.Itoa(*p.LimitCount)
	}
	return f
}

func readPostForm(c *fiber.Ctx) postForm {
	return postForm{
		Title:            c.FormValue("title"),
		Content:          c.FormValue("content"),
		Location:         c.FormValue("location"),
		MeetingStartTime: c.FormValue("meetingStartTime"),
		MeetingEndTime:   c.FormValue("meetingEndTime"),
		LimitCount:       c.FormValue("limitCount"),
	}
}

func (f postForm) input(category string) (domain.PostInput, error) {
	in := domain.PostInput{
		Category: category,
		Title:    f.Title,
		Content:  f.Content,
		Location: f.Location,
	}
	var err error
	if in.MeetingStartTime, err = utils.ParseDateTimeLocal(f.MeetingStartTime, time.Local); err != nil {
		return in, domain.Invalid("invalid meeting start time")
	}
	if in.MeetingEndTime, err = utils.ParseDateTimeLocal(f.MeetingEndTime, time.Local); err != nil {
		return in, domain.Invalid("invalid meeting end time")
	}
	if s := strings.TrimSpace(f.LimitCount); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return in, domain.Invalid("limit must be a number")
		}
		in.LimitCount = &n
	}
	return in, nil
}

// ListPosts shows every board at once.
func (h *Handler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.svc.Posts.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return render(c, "board-list", "board", fiber.Map{"category": domain.CategoryAll, "posts": posts})
}

func (h *Handler) SearchPosts(c *fiber.Ctx) error {
	keyword := c.Query("keyword")
	posts, err := h.svc.Posts.Search(c.UserContext(), keyword)
	if err != nil {
		return err
	}
	return render(c, "board-list", "board", fiber.Map{
		"category": domain.CategorySearch,
		"keyword":  keyword,
		"posts":    posts,
	})
}

func (h *Handler) ListCategory(c *fiber.Ctx) error {
	cat := c.Params("cat")
	posts, err := h.svc.Posts.ListByCategory(c.UserContext(), cat)
	if err != nil {
		return err
	}
	return render(c, "board-list", "board", fiber.Map{"category": cat, "posts": posts})
}

func (h *Handler) WriteForm(c *fiber.Ctx) error {
	cat := c.Params("cat")
	if err := domain.ValidateCategory(cat); err != nil {
		return err
	}
	return render(c, "board-form", "board", fiber.Map{
		"category": cat,
		"form":     postForm{},
		"action":   boardURL(cat, "write"),
	})
}

// CreatePost publishes a post and opens its group.
func (h *Handler) CreatePost(c *fiber.Ctx) error {
	cat := c.Params("cat")
	form := readPostForm(c)

	in, err := form.input(cat)
	if err == nil {
		_, err = h.svc.Posts.Create(c.UserContext(), *currentUser(c), in)
	}
	if err != nil {
		if domain.KindOf(err) != domain.KindInvalid || !domain.ValidCategory(cat) {
			return err
		}
		c.Status(fiber.StatusBadRequest)
		return render(c, "board-form", "board", fiber.Map{
			"category":     cat,
			"form":         form,
			"action":       boardURL(cat, "write"),
			"errorMessage": err.Error(),
		})
	}
	return c.Redirect(boardURL(cat), fiber.StatusSeeOther)
}

// PostDetail shows a post with its comments and group. A post requested
// under the wrong board is redirected to its own.
func (h *Handler) PostDetail(c *fiber.Ctx) error {
	cat := c.Params("cat")
	if err := domain.ValidateCategory(cat); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	post, err := h.svc.Posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.Category != cat {
		return c.Redirect(boardURL(post.Category, post.ID), fiber.StatusSeeOther)
	}

	comments, err := h.svc.Comments.ListByPost(ctx, id)
	if err != nil {
		return err
	}

	me := currentUser(c)
	data := fiber.Map{
		"category": cat,
		"post":     post,
		"comments": comments,
		"isAuthor": post.IsAuthor(me.ID),
	}

	g, err := h.svc.Groups.GetByPost(ctx, id)
	switch {
	case err == nil:
		detail, err := h.svc.Groups.Detail(ctx, g.ID, me.ID)
		if err != nil {
			return err
		}
		data["group"] = detail
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	return render(c, "board-detail", "board", data)
}

func (h *Handler) EditForm(c *fiber.Ctx) error {
	cat := c.Params("cat")
	if err := domain.ValidateCategory(cat); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.svc.Posts.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !post.IsAuthor(currentUser(c).ID) {
		return domain.Forbidden("only the author can edit this post")
	}
	return render(c, "board-form", "board", fiber.Map{
		"category": cat,
		"post":     post,
		"form":     formFromPost(post),
		"action":   boardURL(cat, id, "edit"),
		"editing":  true,
	})
}

func (h *Handler) UpdatePost(c *fiber.Ctx) error {
	cat := c.Params("cat")
	if err := domain.ValidateCategory(cat); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	form := readPostForm(c)

	in, err := form.input(cat)
	if err == nil {
		_, err = h.svc.Posts.Update(c.UserContext(), currentUser(c).ID, id, in)
	}
	if err != nil {
		if domain.KindOf(err) != domain.KindInvalid {
			return err
		}
		c.Status(fiber.StatusBadRequest)
		return render(c, "board-form", "board", fiber.Map{
			"category":     cat,
			"form":         form,
			"action":       boardURL(cat, id, "edit"),
			"editing":      true,
			"errorMessage": err.Error(),
		})
	}
	return c.Redirect(boardURL(cat, id), fiber.StatusSeeOther)
}

func (h *Handler) DeletePost(c *fiber.Ctx) error {
	cat := c.Params("cat")
	if err := domain.ValidateCategory(cat); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Posts.Delete(c.UserContext(), currentUser(c).ID, id); err != nil {
		return err
	}
	return c.Redirect(boardURL(cat), fiber.StatusSeeOther)
}

// CreateComment adds a comment; a blank comment comes back as a flash error.
func (h *Handler) CreateComment(c *fiber.Ctx) error {
	cat := c.Params("cat")
	if err := domain.ValidateCategory(cat); err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	_, err = h.svc.Comments.Create(c.UserContext(), id, c.FormValue("content"), currentUser(c))
	if domain.KindOf(err) == domain.KindNotFound {
		return err
	}
	return h.afterAction(c, err, "", boardURL(cat, id), boardURL(cat, id))
}
