package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/smartspend/smartspend-api/handlers"
	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/routes"
	"github.com/smartspend/smartspend-api/services"
	"github.com/smartspend/smartspend-api/store"
)

const (
	testSecret    = "routes-test-secret"
	adminPassword = "admin-pass-123"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	srv  *httptest.Server
	deps routes.Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := store.NewMemory()
	ws := handlers.NewWSHandler()

	deps := routes.Deps{
		Auth:       services.NewAuthService(st, ""),
		Finance:    services.NewFinanceService(st, ws, nil),
		Budgets:    services.NewBudgetService(st),
		Summary:    services.NewSummaryService(st),
		Moderation: services.NewModerationService(st, ws),
		WS:         ws,
		Session:    handlers.SessionConfig{Secret: testSecret, TTL: time.Hour},
	}
	if _, _, err := deps.Auth.EnsureAdmin(context.Background(), services.AdminAccount{
		Username: "admin",
		Email:    "admin@smartspend.local",
		Password: adminPassword,
		FullName: "Admin",
	}); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(routes.NewRouter(deps))
	t.Cleanup(func() {
		srv.Close()
		ws.Close()
	})
	return &env{srv: srv, deps: deps}
}

// client keeps its own cookie jar, so each one is a separate browser session.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func (e *env) client(t *testing.T) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &client{t: t, base: e.srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body interface{}) (int, []byte) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	if err != nil {
		c.t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatal(err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	out.ReadFrom(resp.Body)
	return resp.StatusCode, out.Bytes()
}

// expect performs the request, checks the status and decodes the body into out
// when out is non-nil.
func (c *client) expect(method, path string, body interface{}, status int, out interface{}) {
	c.t.Helper()
	got, raw := c.do(method, path, body)
	if got != status {
		c.t.Fatalf("%s %s: status = %d, want %d (body %s)", method, path, got, status, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.t.Fatalf("%s %s: decode %s: %v", method, path, raw, err)
		}
	}
}

func (e *env) student(t *testing.T, username string) *client {
	t.Helper()
	c := e.client(t)
	c.expect(http.MethodPost, "/api/register", map[string]string{
		"username": username,
		"email":    username + "@uni.edu",
		"password": "secret123",
		"fullName": "Student " + username,
	}, http.StatusCreated, nil)
	return c
}

func (e *env) admin(t *testing.T) *client {
	t.Helper()
	c := e.client(t)
	c.expect(http.MethodPost, "/api/login", map[string]string{
		"username": "admin",
		"password": adminPassword,
	}, http.StatusOK, nil)
	return c
}

func today() string {
	return time.Now().Format("2006-01-02")
}

func monthStart() string {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	var body map[string]string
	e.client(t).expect(http.MethodGet, "/health", nil, http.StatusOK, &body)
	if body["status"] != "healthy" || body["version"] != routes.Version {
		t.Errorf("health = %v", body)
	}
}

func TestAuthSessionLifecycle(t *testing.T) {
	e := newEnv(t)
	c := e.student(t, "sam")

	var me map[string]interface{}
	c.expect(http.MethodGet, "/api/user", nil, http.StatusOK, &me)
	if me["username"] != "sam" || me["isAdmin"] != false {
		t.Errorf("current user = %v", me)
	}
	if _, ok := me["passwordHash"]; ok {
		t.Error("password hash exposed")
	}

	c.expect(http.MethodPost, "/api/logout", nil, http.StatusOK, nil)
	c.expect(http.MethodGet, "/api/user", nil, http.StatusUnauthorized, nil)

	c.expect(http.MethodPost, "/api/login", map[string]string{
		"username": "sam@uni.edu",
		"password": "wrong-password",
	}, http.StatusUnauthorized, nil)
	c.expect(http.MethodPost, "/api/login", map[string]string{
		"username": "sam@uni.edu",
		"password": "secret123",
	}, http.StatusOK, nil)
	c.expect(http.MethodGet, "/api/user", nil, http.StatusOK, nil)

	dup := e.client(t)
	dup.expect(http.MethodPost, "/api/register", map[string]string{
		"username": "SAM",
		"email":    "other@uni.edu",
		"password": "secret123",
		"fullName": "Another Sam",
	}, http.StatusBadRequest, nil)
}

func TestBearerHeaderAccepted(t *testing.T) {
	e := newEnv(t)
	c := e.student(t, "sam")

	u, _ := http.NewRequest(http.MethodGet, e.srv.URL+"/api/user", nil)
	var tok string
	for _, ck := range c.http.Jar.Cookies(u.URL) {
		if ck.Name == middleware.SessionCookie {
			tok = ck.Value
		}
	}
	if tok == "" {
		t.Fatal("no session cookie issued")
	}
	u.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(u)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestValidationErrors(t *testing.T) {
	e := newEnv(t)
	c := e.student(t, "sam")

	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	c.expect(http.MethodPost, "/api/incomes", map[string]interface{}{
		"amount": 0,
		"date":   "15/03/2026",
	}, http.StatusBadRequest, &body)

	fields := map[string]bool{}
	for _, fe := range body.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"source", "amount", "date"} {
		if !fields[want] {
			t.Errorf("missing field error for %q in %+v", want, body.Errors)
		}
	}

	status, raw := c.do(http.MethodPost, "/api/budgets", nil)
	if status != http.StatusBadRequest {
		t.Errorf("empty body: status = %d (%s)", status, raw)
	}
}

func TestUnauthenticatedRequests(t *testing.T) {
	e := newEnv(t)
	c := e.client(t)
	for _, path := range []string{"/api/incomes", "/api/expenses", "/api/budgets", "/api/summary", "/api/admin/users"} {
		c.expect(http.MethodGet, path, nil, http.StatusUnauthorized, nil)
	}
	// The approved board is public.
	c.expect(http.MethodGet, "/api/community-tips", nil, http.StatusOK, nil)
	c.expect(http.MethodGet, "/api/deals", nil, http.StatusOK, nil)
}

func TestOwnershipAndNotFound(t *testing.T) {
	e := newEnv(t)
	sam := e.student(t, "sam")
	alex := e.student(t, "alex")

	var exp map[string]interface{}
	sam.expect(http.MethodPost, "/api/expenses", map[string]interface{}{
		"amount":      12.5,
		"date":        today(),
		"description": "Pizza night",
	}, http.StatusCreated, &exp)
	if exp["category"] != "Food" {
		t.Errorf("derived category = %v", exp["category"])
	}
	id := exp["id"].(string)

	update := map[string]interface{}{
		"category":    "Food",
		"amount":      20,
		"date":        today(),
		"description": "Pizza",
	}
	alex.expect(http.MethodPut, "/api/expenses/"+id, update, http.StatusForbidden, nil)
	alex.expect(http.MethodDelete, "/api/expenses/"+id, nil, http.StatusForbidden, nil)
	sam.expect(http.MethodPut, "/api/expenses/"+id, update, http.StatusOK, nil)
	sam.expect(http.MethodDelete, "/api/expenses/missing-id", nil, http.StatusNotFound, nil)

	var list []map[string]interface{}
	alex.expect(http.MethodGet, "/api/expenses", nil, http.StatusOK, &list)
	if len(list) != 0 {
		t.Errorf("alex sees %d expenses", len(list))
	}
	sam.expect(http.MethodDelete, "/api/expenses/"+id, nil, http.StatusNoContent, nil)
}

func TestBudgetStatusAndAlerts(t *testing.T) {
	e := newEnv(t)
	c := e.student(t, "sam")

	c.expect(http.MethodPost, "/api/budgets", map[string]interface{}{
		"category":  "Food",
		"amount":    100,
		"period":    "monthly",
		"startDate": monthStart(),
	}, http.StatusCreated, nil)
	c.expect(http.MethodPost, "/api/budgets", map[string]interface{}{
		"category":       "Rent",
		"amount":         500,
		"period":         "monthly",
		"startDate":      monthStart(),
		"alertThreshold": 90,
	}, http.StatusCreated, nil)
	c.expect(http.MethodPost, "/api/expenses", map[string]interface{}{
		"category":    "food",
		"amount":      85,
		"date":        today(),
		"description": "Groceries run",
	}, http.StatusCreated, nil)

	var statuses []map[string]interface{}
	c.expect(http.MethodGet, "/api/budgets/status", nil, http.StatusOK, &statuses)
	if len(statuses) != 2 {
		t.Fatalf("got %d statuses", len(statuses))
	}

	var alerts []map[string]interface{}
	c.expect(http.MethodGet, "/api/budgets/alerts", nil, http.StatusOK, &alerts)
	if len(alerts) != 1 {
		t.Fatalf("alerts = %v", alerts)
	}
	a := alerts[0]
	if a["category"] != "Food" || a["percentSpent"] != float64(85) || a["status"] != "near_limit" {
		t.Errorf("alert = %v", a)
	}

	var summary map[string]interface{}
	c.expect(http.MethodGet, "/api/summary", nil, http.StatusOK, &summary)
	if summary["monthlyBudget"] != float64(600) || summary["monthlyExpenses"] != float64(85) {
		t.Errorf("summary = %v", summary)
	}
}

func TestTipModeration(t *testing.T) {
	e := newEnv(t)
	sam := e.student(t, "sam")
	alex := e.student(t, "alex")
	admin := e.admin(t)

	var tip map[string]interface{}
	sam.expect(http.MethodPost, "/api/community-tips", map[string]string{
		"title":   "Cook in batches",
		"content": "Cooking on Sunday saves money all week.",
	}, http.StatusCreated, &tip)
	if tip["approved"] != false {
		t.Fatalf("student tip approved on submit: %v", tip)
	}
	id := tip["id"].(string)

	var public []map[string]interface{}
	alex.expect(http.MethodGet, "/api/community-tips", nil, http.StatusOK, &public)
	if len(public) != 0 {
		t.Errorf("pending tip is public: %v", public)
	}

	sam.expect(http.MethodPost, "/api/community-tips/"+id+"/approve", nil, http.StatusForbidden, nil)
	sam.expect(http.MethodGet, "/api/community-tips/all", nil, http.StatusForbidden, nil)

	var all []map[string]interface{}
	admin.expect(http.MethodGet, "/api/community-tips/all", nil, http.StatusOK, &all)
	if len(all) != 1 {
		t.Errorf("admin sees %d tips", len(all))
	}

	admin.expect(http.MethodPost, "/api/community-tips/"+id+"/approve", nil, http.StatusOK, &tip)
	if tip["approved"] != true {
		t.Errorf("tip not approved: %v", tip)
	}
	alex.expect(http.MethodGet, "/api/community-tips", nil, http.StatusOK, &public)
	if len(public) != 1 {
		t.Errorf("approved tip missing from board: %v", public)
	}

	alex.expect(http.MethodPost, "/api/community-tips/"+id+"/like", nil, http.StatusOK, &tip)
	alex.expect(http.MethodPost, "/api/community-tips/"+id+"/like", nil, http.StatusOK, &tip)
	sam.expect(http.MethodPost, "/api/community-tips/"+id+"/like", nil, http.StatusOK, &tip)
	if tip["likes"] != float64(2) {
		t.Errorf("likes = %v, want 2", tip["likes"])
	}

	admin.expect(http.MethodDelete, "/api/community-tips/"+id, nil, http.StatusConflict, nil)
	admin.expect(http.MethodPost, "/api/community-tips/missing/approve", nil, http.StatusNotFound, nil)

	var adminTip map[string]interface{}
	admin.expect(http.MethodPost, "/api/community-tips", map[string]string{
		"title":   "Student discounts",
		"content": "Always ask whether a student discount exists.",
	}, http.StatusCreated, &adminTip)
	if adminTip["approved"] != true {
		t.Errorf("admin tip should publish directly: %v", adminTip)
	}
}

func TestDealModeration(t *testing.T) {
	e := newEnv(t)
	sam := e.student(t, "sam")
	admin := e.admin(t)

	var deal map[string]interface{}
	sam.expect(http.MethodPost, "/api/deals", map[string]string{
		"store":       "Campus Books",
		"description": "Textbooks",
		"discount":    "20%",
		"expiryDate":  time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
	}, http.StatusCreated, &deal)
	id := deal["id"].(string)

	var mine []map[string]interface{}
	sam.expect(http.MethodGet, "/api/deals/user", nil, http.StatusOK, &mine)
	if len(mine) != 1 {
		t.Fatalf("own deals = %v", mine)
	}

	sam.expect(http.MethodDelete, "/api/deals/"+id, nil, http.StatusForbidden, nil)
	admin.expect(http.MethodDelete, "/api/deals/"+id, nil, http.StatusNoContent, nil)
	admin.expect(http.MethodDelete, "/api/deals/"+id, nil, http.StatusNotFound, nil)

	sam.expect(http.MethodGet, "/api/deals/user", nil, http.StatusOK, &mine)
	if len(mine) != 0 {
		t.Errorf("rejected deal still listed: %v", mine)
	}
}

func TestAdminRoutes(t *testing.T) {
	e := newEnv(t)
	sam := e.student(t, "sam")
	admin := e.admin(t)

	sam.expect(http.MethodGet, "/api/admin/users", nil, http.StatusForbidden, nil)
	sam.expect(http.MethodGet, "/api/admin/analytics", nil, http.StatusForbidden, nil)

	status, raw := admin.do(http.MethodGet, "/api/admin/users", nil)
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if strings.Contains(string(raw), "passwordHash") || strings.Contains(string(raw), "$2a$") {
		t.Errorf("user list leaks credentials: %s", raw)
	}
	var users []map[string]interface{}
	if err := json.Unmarshal(raw, &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Errorf("users = %d, want 2", len(users))
	}

	var analytics map[string]interface{}
	admin.expect(http.MethodGet, "/api/admin/analytics", nil, http.StatusOK, &analytics)
	if months, _ := analytics["monthlyExpenses"].([]interface{}); len(months) != 6 {
		t.Errorf("monthlyExpenses = %v", analytics["monthlyExpenses"])
	}
}

// dialWS opens the event socket with c's session and waits until the server
// has registered it.
func (e *env) dialWS(t *testing.T, c *client) *websocket.Conn {
	t.Helper()
	u, _ := http.NewRequest(http.MethodGet, e.srv.URL+"/api/ws", nil)
	header := http.Header{}
	for _, ck := range c.http.Jar.Cookies(u.URL) {
		header.Add("Cookie", ck.String())
	}

	before := e.deps.WS.M.Len()
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for e.deps.WS.M.Len() <= before {
		if time.Now().After(deadline) {
			t.Fatal("websocket session was never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) services.Event {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var evt services.Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return evt
}

func TestWebSocketRequiresSession(t *testing.T) {
	e := newEnv(t)
	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/api/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded without a session")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("resp = %v", resp)
	}
}

func TestWebSocketBudgetAlert(t *testing.T) {
	e := newEnv(t)
	c := e.student(t, "sam")
	conn := e.dialWS(t, c)

	c.expect(http.MethodPost, "/api/budgets", map[string]interface{}{
		"category":  "Entertainment",
		"amount":    50,
		"period":    "monthly",
		"startDate": monthStart(),
	}, http.StatusCreated, nil)
	c.expect(http.MethodPost, "/api/expenses", map[string]interface{}{
		"category":    "Entertainment",
		"amount":      45,
		"date":        today(),
		"description": "Concert tickets",
	}, http.StatusCreated, nil)

	evt := readEvent(t, conn)
	if evt.Type != services.EventBudgetAlert {
		t.Errorf("event type = %q", evt.Type)
	}
}

func TestWebSocketAdminSeesSubmissions(t *testing.T) {
	e := newEnv(t)
	sam := e.student(t, "sam")
	admin := e.admin(t)
	conn := e.dialWS(t, admin)

	sam.expect(http.MethodPost, "/api/community-tips", map[string]string{
		"title":   "Library printing",
		"content": "Print at the library, it is cheaper than the copy shop.",
	}, http.StatusCreated, nil)

	evt := readEvent(t, conn)
	if evt.Type != services.EventTipSubmitted {
		t.Errorf("event type = %q", evt.Type)
	}
}
