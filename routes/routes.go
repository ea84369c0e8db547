package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"volunteerhub/middlewares"
	"volunteerhub/models"
	"volunteerhub/pages"
	"volunteerhub/services"
)

// Limits configures the request throttles.
type Limits struct {
	RPS        float64
	Burst      int
	UserRPS    float64
	UserBurst  int
	AuthRPS    float64 // signup and login, per IP
	AuthBurst  int
	DailyQuota int
}

var DefaultLimits = Limits{RPS: 20, Burst: 40, UserRPS: 5, UserBurst: 10, AuthRPS: 0.5, AuthBurst: 2, DailyQuota: 2000}

// withDefaults fills every unset field from DefaultLimits.
func (l Limits) withDefaults() Limits {
	if l.RPS <= 0 || l.Burst <= 0 {
		l.RPS, l.Burst = DefaultLimits.RPS, DefaultLimits.Burst
	}
	if l.UserRPS <= 0 || l.UserBurst <= 0 {
		l.UserRPS, l.UserBurst = DefaultLimits.UserRPS, DefaultLimits.UserBurst
	}
	if l.AuthRPS <= 0 || l.AuthBurst <= 0 {
		l.AuthRPS, l.AuthBurst = DefaultLimits.AuthRPS, DefaultLimits.AuthBurst
	}
	if l.DailyQuota <= 0 {
		l.DailyQuota = DefaultLimits.DailyQuota
	}
	return l
}

// Options carries everything RegisterRoutes wires together.
type Options struct {
	Users           models.UserRepository
	Service         *services.Service
	Redis           *redis.Client // optional; enables the daily quota
	Logger          *slog.Logger
	Limits          Limits
	PageFetchBudget time.Duration
	SecureCookies   bool
}

type eventsData struct {
	Events     []models.Event
	Registered []models.Event
}

type deps struct {
	users         models.UserRepository
	svc           *services.Service
	logger        *slog.Logger
	budget        time.Duration
	secure        bool
	eventsQuery   *pages.Query[eventsData]
	opportunities *pages.Query[[]models.Opportunity]
}

const pageFetchTimeout = 30 * time.Second

func RegisterRoutes(server *gin.Engine, opts Options) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PageFetchBudget <= 0 {
		opts.PageFetchBudget = 2 * time.Second
	}
	opts.Limits = opts.Limits.withDefaults()
	d := &deps{
		users:         opts.Users,
		svc:           opts.Service,
		logger:        opts.Logger,
		budget:        opts.PageFetchBudget,
		secure:        opts.SecureCookies,
		eventsQuery:   pages.NewQuery[eventsData](pageFetchTimeout),
		opportunities: pages.NewQuery[[]models.Opportunity](pageFetchTimeout),
	}

	server.SetHTMLTemplate(pages.Templates())

	// ===== ① 全域 IP 限速（預設 20 rps / 40 burst）=====
	globalLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     opts.Limits.RPS,
		Burst:   opts.Limits.Burst,
		IdleTTL: 3 * time.Minute,
	})
	server.Use(globalLimiter.Middleware(func(c *gin.Context) string {
		return "ip:" + c.ClientIP()
	}))

	// ===== ② 敏感端點限速（更嚴）：/api/signup、/api/login 以 IP 計 =====
	authLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     opts.Limits.AuthRPS,
		Burst:   opts.Limits.AuthBurst,
		IdleTTL: 10 * time.Minute,
	})
	// ===== ③ 使用者層級限速（瞬時尖峰），沒登入就交給 IP 限速 =====
	userLimiter := middlewares.NewRateLimiter(middlewares.LimiterConfig{
		RPS:     opts.Limits.UserRPS,
		Burst:   opts.Limits.UserBurst,
		IdleTTL: 10 * time.Minute,
	})
	byViewer := userLimiter.Middleware(func(c *gin.Context) string {
		if id := middlewares.ViewerID(c); id != "" {
			return "u:" + id
		}
		return ""
	})

	api := server.Group("/api")
	api.POST("/signup",
		authLimiter.Middleware(func(c *gin.Context) string { return "signup:" + c.ClientIP() }),
		d.signup,
	)
	api.POST("/login",
		authLimiter.Middleware(func(c *gin.Context) string { return "login:" + c.ClientIP() }),
		d.login,
	)
	api.POST("/logout", d.logout)

	// ===== ④ 公開讀取：list 與 item 都會經過 ResponseCache =====
	api.GET("/events", d.getEvents)
	api.GET("/events/:id", d.getEvent)
	api.GET("/events/:id/calendar.ics", d.eventCalendar)
	api.GET("/opportunities", d.getOpportunities)
	api.GET("/opportunities/:id", d.getOpportunity)

	// ===== ⑤ 受保護群組：先驗證，再以 viewer 限速 + 每日配額 =====
	auth := api.Group("/")
	auth.Use(middlewares.Authenticate, byViewer) // 會把 viewer 放入 context
	if opts.Redis != nil {                       // 🔥 沒有 Redis 就不算配額
		auth.Use(middlewares.Quota(opts.Redis, middlewares.DailyViewerQuota(opts.Limits.DailyQuota)))
	}

	auth.GET("/user", d.currentUser)
	auth.GET("/events/registered", d.registeredEvents)
	auth.POST("/events", d.createEvent)
	auth.PUT("/events/:id", d.updateEvent)
	auth.DELETE("/events/:id", d.deleteEvent)
	auth.POST("/events/:id/register", d.registerForEvent)
	auth.DELETE("/events/:id/register", d.cancelRegistration)
	auth.POST("/opportunities", d.createOpportunity)
	auth.GET("/applications", d.listApplications)
	auth.POST("/applications", d.createApplication)

	// ===== ⑥ HTML 頁面：訪客可以瀏覽，按鈕動作要登入 =====
	site := server.Group("/")
	site.Use(middlewares.OptionalAuth, byViewer)
	site.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/events") })
	site.GET("/events", d.eventsPage)
	site.POST("/events/:id/register", d.registerAction)
	site.GET("/opportunities", d.opportunitiesPage)
	site.POST("/opportunities/:id/apply", d.applyAction)
}
