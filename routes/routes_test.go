package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"volunteerhub/middlewares"
	"volunteerhub/mocks"
	"volunteerhub/models"
	"volunteerhub/services"
	"volunteerhub/utils"
)

/* ---------- helpers ---------- */

type serverDeps struct {
	s      *gin.Engine
	svc    *services.Service
	ur     *mocks.MockUserRepo
	er     *mocks.MockEventRepo
	or     *mocks.MockOpportunityRepo
	rr     *mocks.MockRegRepo
	ar     *mocks.MockAppRepo
	mr     *miniredis.Miniredis
	budget time.Duration
}

type option func(*serverDeps)

func withBudget(b time.Duration) option { return func(d *serverDeps) { d.budget = b } }

func withEventGate(g chan struct{}) option { return func(d *serverDeps) { d.er.Gate = g } }

func withOpportunityGate(g chan struct{}) option { return func(d *serverDeps) { d.or.Gate = g } }

func setupServerWithDeps(t *testing.T, opts ...option) serverDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	d := serverDeps{
		ur: mocks.NewUserRepo(),
		er: mocks.NewEventRepo(
			models.Event{ID: "e1", Title: "Beach Cleanup", Date: "2025-06-01", Time: "09:00", Location: "Pier 3", Description: "Bring gloves.", OrganizerID: "org1"},
			models.Event{ID: "e2", Title: "Tree Planting", Date: "2025-06-08", Time: "10:00", Location: "North Park", OrganizerID: "org1"},
		),
		or: mocks.NewOpportunityRepo(
			models.Opportunity{
				ID: "o1", Title: "Reading Tutor", Description: "Help kids read", Location: "Library",
				StartDate:      time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
				RequiredSkills: []string{"Reading", "Patience"},
				Organization:   models.OrganizationRef{ID: "org1", OrganizationName: "Harbor Trust"},
			},
			models.Opportunity{
				ID: "o2", Title: "Meal Driver", Description: "Deliver meals", Location: "Citywide",
				StartDate:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
				Organization: models.OrganizationRef{ID: "org1", OrganizationName: "Harbor Trust"},
			},
		),
		rr:     mocks.NewRegRepo(),
		ar:     mocks.NewAppRepo(),
		mr:     mr,
		budget: time.Second,
	}
	for _, o := range opts {
		o(&d)
	}

	d.svc = services.New(services.Deps{
		Users:         d.ur,
		Events:        d.er,
		Opportunities: d.or,
		Registrations: d.rr,
		Applications:  d.ar,
		Cache:         utils.NewCacheInvalidator(rdb),
	})

	s := gin.New()
	s.Use(middlewares.ResponseCache(rdb, 30*time.Second))
	RegisterRoutes(s, Options{
		Users:           d.ur,
		Service:         d.svc,
		Redis:           rdb,
		PageFetchBudget: d.budget,
		Limits:          Limits{RPS: 1000, Burst: 1000, UserRPS: 1000, UserBurst: 1000, AuthRPS: 1000, AuthBurst: 1000},
	})
	d.s = s
	return d
}

func authToken(t *testing.T, uid, userType string) string {
	t.Helper()
	token, err := utils.GenerateToken(uid, uid+"@example.org", userType)
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}
	return token
}

func individualToken(t *testing.T) string { return authToken(t, "u1", models.UserTypeIndividual) }

func orgToken(t *testing.T) string { return authToken(t, "org1", models.UserTypeOrganization) }

func doReq(s *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	s.ServeHTTP(w, req)
	return w
}

// doPage sends a browser-style request: session and flash travel as cookies.
func doPage(s *gin.Engine, method, path, token string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middlewares.TokenCookie, Value: token})
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	s.ServeHTTP(w, req)
	return w
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func viewerFor(t *testing.T, token string) *models.Viewer {
	t.Helper()
	claims, err := utils.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	return &models.Viewer{ID: claims.UserID, Email: claims.Email, UserType: claims.UserType}
}
