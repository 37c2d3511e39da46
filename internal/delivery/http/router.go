package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donghyeon639/SYU-Spring-web/internal/ratelimit"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, h *Handler, loginLimiter *ratelimit.Limiter) {
	// Operational endpoints
	app.Get("/health", h.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(h.LoadSession)

	// Public pages
	app.Get("/", h.Home)
	app.Get("/home", h.Home)
	app.Get("/login", h.LoginForm)
	app.Post("/login", ratelimit.Middleware(loginLimiter, h.LoginThrottled), h.Login)
	app.Post("/logout", h.Logout)
	app.Get("/signup", h.SignupForm)
	app.Post("/signup", h.Signup)

	auth := h.RequireLogin

	board := app.Group("/board", auth)
	{
		board.Get("/", h.ListPosts)
		board.Get("/search", h.SearchPosts)
		board.Get("/:cat", h.ListCategory)
		board.Get("/:cat/write", h.WriteForm)
		board.Post("/:cat/write", h.CreatePost)
		board.Get("/:cat/:id<int>", h.PostDetail)
		board.Get("/:cat/:id<int>/edit", h.EditForm)
		board.Post("/:cat/:id<int>/edit", h.UpdatePost)
		board.Post("/:cat/:id<int>/delete", h.DeletePost)
		board.Post("/:cat/:id<int>/comment", h.CreateComment)
	}

	groups := app.Group("/groups", auth)
	{
		groups.Get("/", h.ListGroups)
		groups.Get("/:id<int>", h.GroupDetail)
		groups.Post("/:id<int>/leave", h.LeaveGroup)
		groups.Post("/:id<int>/kick/:userId<int>", h.KickMember)
		groups.Post("/:id<int>/transfer/:userId<int>", h.TransferLeadership)
		groups.Post("/:id<int>/delete", h.DeleteGroup)
		groups.Post("/:id<int>/close", h.CloseGroup)
		groups.Post("/:id<int>/reopen", h.ReopenGroup)
	}

	requests := app.Group("/join-requests", auth)
	{
		requests.Post("/request", h.SubmitJoinRequest)
		requests.Post("/:id<int>/approve", h.ApproveJoinRequest)
		requests.Post("/:id<int>/reject", h.RejectJoinRequest)
		requests.Post("/:id<int>/cancel", h.CancelJoinRequest)
		requests.Get("/my-requests", h.MyJoinRequests)
		requests.Get("/pending", h.PendingJoinRequests)
	}

	app.Get("/notifications", auth, h.Notifications)

	mypage := app.Group("/mypage", auth)
	{
		mypage.Get("/", h.MyPage)
		mypage.Get("/edit", h.EditProfileForm)
		mypage.Post("/edit", h.UpdateProfile)
		mypage.Delete("/:id<int>", h.DeleteAccount)
		mypage.Post("/:id<int>/delete", h.DeleteAccount)
	}
}
