package http

import (
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
	"github.com/donghyeon639/SYU-Spring-web/internal/ratelimit"
	"github.com/donghyeon639/SYU-Spring-web/internal/repository/gormstore"
	"github.com/donghyeon639/SYU-Spring-web/internal/service"
)

const testPassword = "pass!word"

type testEnv struct {
	ctx context.Context
	app *fiber.App
	svc *service.Services
}

func newTestEnv(t *testing.T, limit ratelimit.Config) *testEnv {
	t.Helper()
	ctx := context.Background()
	store, err := gormstore.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := service.New(store, zerolog.Nop())
	app, err := NewApp(Config{
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		SessionTTL:   time.Hour,
		LoginLimit:   limit,
	}, svc, store, zerolog.Nop())
	require.NoError(t, err)
	return &testEnv{ctx: ctx, app: app, svc: svc}
}

func newEnv(t *testing.T) *testEnv {
	return newTestEnv(t, ratelimit.Config{Rate: 100, Burst: 100, IdleTTL: time.Minute, CleanupInterval: time.Minute})
}

func (e *testEnv) register(t *testing.T, loginID string) domain.User {
	t.Helper()
	u, err := e.svc.Users.Register(e.ctx, service.SignupInput{
		LoginID: loginID, Password: testPassword, PasswordConfirm: testPassword, UserName: loginID,
	})
	require.NoError(t, err)
	return u
}

// client carries cookies between requests like a browser.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, app: e.app, cookies: map[string]string{}}
}

func (e *testEnv) loggedIn(t *testing.T, loginID string) *client {
	t.Helper()
	c := e.client(t)
	resp := c.post("/login", url.Values{"userId": {loginID}, "password": {testPassword}})
	require.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/home", resp.Header.Get("Location"))
	return c
}

func (c *client) do(method, path string, form url.Values) *nethttp.Response {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for name, value := range c.cookies {
		req.AddCookie(&nethttp.Cookie{Name: name, Value: value})
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck.Value
	}
	return resp
}

func (c *client) get(path string) *nethttp.Response { return c.do(nethttp.MethodGet, path, nil) }

func (c *client) post(path string, form url.Values) *nethttp.Response {
	if form == nil {
		form = url.Values{}
	}
	return c.do(nethttp.MethodPost, path, form)
}

func body(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func id(n uint64) string { return strconv.FormatUint(n, 10) }

func TestHealthCheck(t *testing.T) {
	e := newEnv(t)
	resp := e.client(t).get("/health")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	e := newEnv(t)
	c := e.client(t)
	c.get("/home")

	resp := c.get("/metrics")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "syucap_http_requests_total")
}

func TestHomeIsPublic(t *testing.T) {
	e := newEnv(t)
	resp := e.client(t).get("/")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "Recent posts")
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	e := newEnv(t)
	for _, path := range []string{"/board", "/groups", "/mypage", "/notifications", "/join-requests/my-requests"} {
		resp := e.client(t).get(path)
		assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestSignupAndLogin(t *testing.T) {
	e := newEnv(t)
	c := e.client(t)

	form := url.Values{"userId": {"alice"}, "password": {"secret!1"}, "passwordConfirm": {"secret!1"}, "userName": {"Alice"}}
	resp := c.post("/signup", form)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "sign-up complete")

	resp = c.post("/signup", form)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body(t, resp), "login id is already taken")

	resp = c.post("/login", url.Values{"userId": {"alice"}, "password": {"wrong!pw"}})
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?error", resp.Header.Get("Location"))
	assert.Contains(t, body(t, c.get("/login?error")), "invalid credentials")

	resp = c.post("/login", url.Values{"userId": {"alice"}, "password": {"secret!1"}})
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, body(t, c.get("/home")), "Alice")

	resp = c.post("/logout", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", c.get("/board").Header.Get("Location"))
}

func TestLoginIsRateLimited(t *testing.T) {
	e := newTestEnv(t, ratelimit.Config{Rate: 0.001, Burst: 1, IdleTTL: time.Minute, CleanupInterval: time.Minute})
	c := e.client(t)
	creds := url.Values{"userId": {"nobody"}, "password": {"whatever!"}}

	assert.Equal(t, nethttp.StatusSeeOther, c.post("/login", creds).StatusCode)
	resp := c.post("/login", creds)
	assert.Equal(t, nethttp.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, body(t, resp), msgTooManyAttempts)
}

func TestBoardFlow(t *testing.T) {
	e := newEnv(t)
	e.register(t, "writer")
	c := e.loggedIn(t, "writer")
	study := url.PathEscape("스터디")

	assert.Equal(t, nethttp.StatusOK, c.get("/board/"+study+"/write").StatusCode)

	resp := c.post("/board/"+study+"/write", url.Values{"title": {" "}, "content": {"body"}})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body(t, resp), "title is required")

	resp = c.post("/board/"+study+"/write", url.Values{
		"title": {"go study"}, "content": {"concurrency chapter"}, "limitCount": {"4"},
		"meetingStartTime": {"2025-03-01T18:00"}, "meetingEndTime": {"2025-03-01T20:00"},
	})
	require.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/"+study, resp.Header.Get("Location"))

	list := body(t, c.get("/board/"+study))
	assert.Contains(t, list, "go study")

	posts, err := e.svc.Posts.ListByCategory(e.ctx, "스터디")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	postID := id(posts[0].ID)

	resp = c.get("/board/" + url.PathEscape("게임") + "/" + postID)
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/"+study+"/"+postID, resp.Header.Get("Location"))

	detail := body(t, c.get("/board/"+study+"/"+postID))
	assert.Contains(t, detail, "concurrency chapter")
	assert.Contains(t, detail, "You are the leader")

	resp = c.post("/board/"+study+"/"+postID+"/comment", url.Values{"content": {"count me in"}})
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, body(t, c.get("/board/"+study+"/"+postID)), "count me in")

	resp = c.post("/board/"+study+"/"+postID+"/edit", url.Values{"title": {"go study v2"}, "content": {"ch. 9"}, "limitCount": {"0"}})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body(t, resp), "limit must be at least 1")

	resp = c.post("/board/"+study+"/"+postID+"/edit", url.Values{"title": {"go study v2"}, "content": {"ch. 9"}})
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)

	found := body(t, c.get("/board/search?keyword=v2"))
	assert.Contains(t, found, "go study v2")

	resp = c.post("/board/"+study+"/"+postID+"/delete", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, nethttp.StatusNotFound, c.get("/board/"+study+"/"+postID).StatusCode)
}

func TestUnknownCategory(t *testing.T) {
	e := newEnv(t)
	e.register(t, "writer")
	c := e.loggedIn(t, "writer")

	resp := c.get("/board/" + url.PathEscape("낚시"))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body(t, resp), "unknown category")
}

func TestUnknownCategoryOnPostRoutes(t *testing.T) {
	e := newEnv(t)
	author := e.register(t, "writer")
	p, err := e.svc.Posts.Create(e.ctx, author, domain.PostInput{Category: "게임", Title: "t", Content: "c"})
	require.NoError(t, err)
	c := e.loggedIn(t, "writer")

	resp := c.get(boardURL("낚시", p.ID))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"))

	resp = c.get(boardURL("낚시", p.ID, "edit"))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = c.post(boardURL("낚시", p.ID, "edit"), url.Values{"title": {"new"}, "content": {"c"}})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = c.post(boardURL("낚시", p.ID, "comment"), url.Values{"content": {"hi"}})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp = c.post(boardURL("낚시", p.ID, "delete"), nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	got, err := e.svc.Posts.Get(e.ctx, p.ID)
	require.NoError(t, err, "post must survive a delete under an unknown board")
	assert.Equal(t, "t", got.Title)

	comments, err := e.svc.Comments.ListByPost(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestOnlyAuthorCanEdit(t *testing.T) {
	e := newEnv(t)
	author := e.register(t, "author")
	e.register(t, "other")
	p, err := e.svc.Posts.Create(e.ctx, author, domain.PostInput{Category: "영화", Title: "t", Content: "c"})
	require.NoError(t, err)

	c := e.loggedIn(t, "other")
	resp := c.get(boardURL("영화", p.ID, "edit"))
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
}

func TestJoinRequestFlow(t *testing.T) {
	e := newEnv(t)
	leader := e.register(t, "leader")
	e.register(t, "member")
	p, err := e.svc.Posts.Create(e.ctx, leader, domain.PostInput{Category: "운동", Title: "futsal", Content: "friday night", LimitCount: intPtr(2)})
	require.NoError(t, err)
	g, err := e.svc.Groups.GetByPost(e.ctx, p.ID)
	require.NoError(t, err)
	groupPath := "/groups/" + id(g.ID)

	mc := e.loggedIn(t, "member")
	resp := mc.post("/join-requests/request", url.Values{"groupId": {id(g.ID)}, "message": {"I play keeper"}})
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, groupPath, resp.Header.Get("Location"))

	page := body(t, mc.get(groupPath))
	assert.Contains(t, page, "join request sent")
	assert.Contains(t, page, "Your join request is pending")

	resp = mc.post(groupPath+"/close", nil)
	assert.Equal(t, groupPath, resp.Header.Get("Location"))
	assert.Contains(t, body(t, mc.get(groupPath)), "only the group leader can close the group")
	assert.NotContains(t, body(t, mc.get(groupPath)), "only the group leader", "flash is shown once")

	lc := e.loggedIn(t, "leader")
	pending := body(t, lc.get("/join-requests/pending"))
	assert.Contains(t, pending, "I play keeper")
	assert.Contains(t, body(t, lc.get("/notifications")), "wants to join")

	requests, err := e.svc.JoinRequests.PendingForGroup(e.ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, requests, 1)

	resp = lc.post("/join-requests/"+id(requests[0].ID)+"/approve", url.Values{"groupId": {id(g.ID)}})
	assert.Equal(t, groupPath, resp.Header.Get("Location"))
	page = body(t, lc.get(groupPath))
	assert.Contains(t, page, "join request approved")
	assert.Contains(t, page, "CLOSED")

	assert.Contains(t, body(t, mc.get("/notifications")), "approved")
	assert.Contains(t, body(t, mc.get("/groups")), "futsal")

	resp = mc.post(groupPath+"/leave", nil)
	assert.Equal(t, "/groups", resp.Header.Get("Location"))
	g, err = e.svc.Groups.Get(e.ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, g.CurrentCount)
	assert.Equal(t, domain.GroupActive, g.Status)
}

func TestMissingGroupRedirects(t *testing.T) {
	e := newEnv(t)
	e.register(t, "someone")
	c := e.loggedIn(t, "someone")

	resp := c.get("/groups/999")
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/groups", resp.Header.Get("Location"))
}

func TestProfileAndAccountDeletion(t *testing.T) {
	e := newEnv(t)
	me := e.register(t, "me")
	other := e.register(t, "other")
	c := e.loggedIn(t, "me")

	resp := c.post("/mypage/edit", url.Values{"userName": {"Renamed"}})
	assert.Equal(t, "/mypage", resp.Header.Get("Location"))
	assert.Contains(t, body(t, c.get("/mypage")), "Renamed")

	resp = c.post("/mypage/edit", url.Values{"newUserId": {"other"}})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, nethttp.StatusForbidden, c.post("/mypage/"+id(other.ID)+"/delete", nil).StatusCode)

	resp = c.post("/mypage/"+id(me.ID)+"/delete", nil)
	assert.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/home", resp.Header.Get("Location"))
	assert.Equal(t, "/login", c.get("/board").Header.Get("Location"))

	_, err := e.svc.Users.Get(e.ctx, me.ID)
	require.Error(t, err)
}

func TestLeaderCannotDeleteAccount(t *testing.T) {
	e := newEnv(t)
	leader := e.register(t, "leader")
	_, err := e.svc.Posts.Create(e.ctx, leader, domain.PostInput{Category: "밥약", Title: "lunch", Content: "noodles"})
	require.NoError(t, err)
	c := e.loggedIn(t, "leader")

	resp := c.post("/mypage/"+id(leader.ID)+"/delete", nil)
	assert.Equal(t, "/mypage", resp.Header.Get("Location"))
	assert.Contains(t, body(t, c.get("/mypage")), "transfer leadership")
}

func intPtr(n int) *int { return &n }
