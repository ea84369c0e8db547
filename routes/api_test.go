package routes

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"volunteerhub/middlewares"
	"volunteerhub/models"
)

func TestSignupLoginAndCurrentUser(t *testing.T) {
	d := setupServerWithDeps(t)

	w := doReq(d.s, http.MethodPost, "/api/signup",
		`{"email":"org@example.org","password":"pw","userType":"organization","organizationName":"Harbor Trust"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("signup code=%d body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), `"password"`) {
		t.Fatalf("password must not be serialized: %s", w.Body.String())
	}

	w = doReq(d.s, http.MethodPost, "/api/login", `{"email":"org@example.org","password":"pw"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, w, &resp)
	if resp.Token == "" || resp.User.UserType != models.UserTypeOrganization {
		t.Fatalf("unexpected login response: %s", w.Body.String())
	}
	if c := cookieNamed(w, middlewares.TokenCookie); c == nil || c.Value != resp.Token || !c.HttpOnly {
		t.Fatalf("login must set an HttpOnly session cookie, got %+v", c)
	}

	w = doReq(d.s, http.MethodGet, "/api/user", "", "Bearer "+resp.Token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Harbor Trust") {
		t.Fatalf("current user code=%d body=%s", w.Code, w.Body.String())
	}
}

func TestSignupValidation(t *testing.T) {
	d := setupServerWithDeps(t)
	cases := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"missing password", `{"email":"a@b.c","userType":"individual"}`, http.StatusBadRequest},
		{"unknown type", `{"email":"a@b.c","password":"x","userType":"admin"}`, http.StatusBadRequest},
		{"org without name", `{"email":"a@b.c","password":"x","userType":"organization"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := doReq(d.s, http.MethodPost, "/api/signup", tc.body, ""); w.Code != tc.code {
				t.Fatalf("want %d, got %d (%s)", tc.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	d := setupServerWithDeps(t)
	body := `{"email":"a@example.org","password":"x","userType":"individual"}`
	doReq(d.s, http.MethodPost, "/api/signup", body, "")
	if w := doReq(d.s, http.MethodPost, "/api/signup", body, ""); w.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", w.Code)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	d := setupServerWithDeps(t)
	w := doReq(d.s, http.MethodPost, "/api/login", `{"email":"nobody@example.org","password":"x"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	d := setupServerWithDeps(t)
	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/user"},
		{http.MethodGet, "/api/events/registered"},
		{http.MethodPost, "/api/events/e1/register"},
		{http.MethodPost, "/api/applications"},
	} {
		if w := doReq(d.s, r.method, r.path, "", "bad-token"); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: want 401, got %d", r.method, r.path, w.Code)
		}
	}
}

func TestRegisterForEventAPI(t *testing.T) {
	d := setupServerWithDeps(t)
	tok := individualToken(t)

	w := doReq(d.s, http.MethodPost, "/api/events/e1/register", "", tok)
	if w.Code != http.StatusCreated {
		t.Fatalf("register code=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Event models.Event `json:"event"`
	}
	decode(t, w, &resp)
	if !resp.Event.HasRegistrant("u1") {
		t.Fatalf("response should carry the refreshed event, got %+v", resp.Event)
	}

	if w := doReq(d.s, http.MethodPost, "/api/events/e1/register", "", tok); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: want 409, got %d", w.Code)
	}
	if w := doReq(d.s, http.MethodPost, "/api/events/nope/register", "", tok); w.Code != http.StatusNotFound {
		t.Fatalf("missing event: want 404, got %d", w.Code)
	}

	w = doReq(d.s, http.MethodGet, "/api/events/registered", "", tok)
	var registered []models.Event
	decode(t, w, &registered)
	if len(registered) != 1 || registered[0].ID != "e1" {
		t.Fatalf("registered events: %s", w.Body.String())
	}

	if w := doReq(d.s, http.MethodDelete, "/api/events/e1/register", "", tok); w.Code != http.StatusOK {
		t.Fatalf("cancel: want 200, got %d", w.Code)
	}
	if w := doReq(d.s, http.MethodDelete, "/api/events/e1/register", "", tok); w.Code != http.StatusNotFound {
		t.Fatalf("cancel twice: want 404, got %d", w.Code)
	}
}

func TestRegisterStoreFailureIs500(t *testing.T) {
	d := setupServerWithDeps(t)
	d.rr.Err = errors.New("db down")

	w := doReq(d.s, http.MethodPost, "/api/events/e1/register", "", individualToken(t))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "db down") {
		t.Fatalf("internal error leaked: %s", w.Body.String())
	}
}

func TestEventCRUDAPI(t *testing.T) {
	d := setupServerWithDeps(t)
	body := `{"title":"Food Drive","date":"2025-07-01","time":"12:00","location":"Hall"}`

	if w := doReq(d.s, http.MethodPost, "/api/events", body, individualToken(t)); w.Code != http.StatusForbidden {
		t.Fatalf("individual create: want 403, got %d", w.Code)
	}
	if w := doReq(d.s, http.MethodPost, "/api/events", `{"title":"x"}`, orgToken(t)); w.Code != http.StatusBadRequest {
		t.Fatalf("incomplete create: want 400, got %d", w.Code)
	}

	w := doReq(d.s, http.MethodPost, "/api/events", body, orgToken(t))
	if w.Code != http.StatusCreated {
		t.Fatalf("create code=%d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		Event models.Event `json:"event"`
	}
	decode(t, w, &created)
	id := created.Event.ID

	other := authToken(t, "org2", models.UserTypeOrganization)
	if w := doReq(d.s, http.MethodPut, "/api/events/"+id, body, other); w.Code != http.StatusForbidden {
		t.Fatalf("foreign update: want 403, got %d", w.Code)
	}
	if w := doReq(d.s, http.MethodPut, "/api/events/"+id, body, orgToken(t)); w.Code != http.StatusOK {
		t.Fatalf("update: want 200, got %d", w.Code)
	}
	if w := doReq(d.s, http.MethodDelete, "/api/events/"+id, "", orgToken(t)); w.Code != http.StatusOK {
		t.Fatalf("delete: want 200, got %d", w.Code)
	}
	if w := doReq(d.s, http.MethodGet, "/api/events/"+id, "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("deleted event: want 404, got %d", w.Code)
	}
}

func TestApplicationsAPI(t *testing.T) {
	d := setupServerWithDeps(t)
	tok := individualToken(t)

	if w := doReq(d.s, http.MethodPost, "/api/applications", `{}`, tok); w.Code != http.StatusBadRequest {
		t.Fatalf("missing id: want 400, got %d", w.Code)
	}
	if w := doReq(d.s, http.MethodPost, "/api/applications", `{"opportunityId":"o1"}`, orgToken(t)); w.Code != http.StatusForbidden {
		t.Fatalf("organization: want 403, got %d", w.Code)
	}

	w := doReq(d.s, http.MethodPost, "/api/applications", `{"opportunityId":"o1"}`, tok)
	if w.Code != http.StatusCreated {
		t.Fatalf("apply code=%d body=%s", w.Code, w.Body.String())
	}
	if w := doReq(d.s, http.MethodPost, "/api/applications", `{"opportunityId":"o1"}`, tok); w.Code != http.StatusConflict {
		t.Fatalf("duplicate: want 409, got %d", w.Code)
	}
	if d.ar.CallCount() != 1 {
		t.Fatalf("duplicate must not reach the store, calls=%d", d.ar.CallCount())
	}

	w = doReq(d.s, http.MethodGet, "/api/applications", "", tok)
	var apps []models.Application
	decode(t, w, &apps)
	if len(apps) != 1 || apps[0].OpportunityID != "o1" {
		t.Fatalf("applications: %s", w.Body.String())
	}
}

func TestCreateOpportunityAPI(t *testing.T) {
	d := setupServerWithDeps(t)
	org := models.User{ID: "org1", Email: "org1@example.org", UserType: models.UserTypeOrganization, OrganizationName: "Harbor Trust"}
	if err := d.ur.Create(t.Context(), &org); err != nil {
		t.Fatal(err)
	}

	body := `{"title":"Mentor","description":"Weekly","location":"Online","startDate":"2025-09-01T00:00:00Z","requiredSkills":["Listening"]}`
	w := doReq(d.s, http.MethodPost, "/api/opportunities", body, orgToken(t))
	if w.Code != http.StatusCreated {
		t.Fatalf("create code=%d body=%s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"organizationName":"Harbor Trust"`) {
		t.Fatalf("organization should be filled in: %s", w.Body.String())
	}
}

func TestCache_MissHitThenInvalidatedByRegister(t *testing.T) {
	d := setupServerWithDeps(t)

	if w := doReq(d.s, http.MethodGet, "/api/events", "", ""); w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("want MISS, got %q", w.Header().Get("X-Cache"))
	}
	if w := doReq(d.s, http.MethodGet, "/api/events", "", ""); w.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("want HIT, got %q", w.Header().Get("X-Cache"))
	}

	if w := doReq(d.s, http.MethodPost, "/api/events/e1/register", "", individualToken(t)); w.Code != http.StatusCreated {
		t.Fatalf("register code=%d", w.Code)
	}

	w := doReq(d.s, http.MethodGet, "/api/events", "", "")
	if w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("after write: want MISS, got %q", w.Header().Get("X-Cache"))
	}
	var events []models.Event
	decode(t, w, &events)
	if !events[0].HasRegistrant("u1") {
		t.Fatalf("list should reflect the registration: %s", w.Body.String())
	}
}

func TestQuotaHeaderOnAuthenticatedRoutes(t *testing.T) {
	d := setupServerWithDeps(t)
	w := doReq(d.s, http.MethodGet, "/api/events/registered", "", individualToken(t))
	if w.Header().Get("X-Quota-Used") != "1/2000" {
		t.Fatalf("want X-Quota-Used 1/2000, got %q", w.Header().Get("X-Quota-Used"))
	}
}

func TestLimitsWithDefaults(t *testing.T) {
	got := Limits{AuthRPS: 3, AuthBurst: 4}.withDefaults()
	want := DefaultLimits
	want.AuthRPS, want.AuthBurst = 3, 4
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
	if (Limits{}).withDefaults() != DefaultLimits {
		t.Fatalf("zero limits should fall back to defaults")
	}
}
