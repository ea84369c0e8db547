package middlewares

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type QuotaRule struct {
	Limit  int           // 視窗內允許多少次請求
	Window time.Duration // 視窗大小，例如 24 小時
	// KeyFn picks the counter; an empty key skips the quota.
	KeyFn func(*gin.Context) string
}

// DailyViewerQuota counts requests per signed-in viewer per day.
func DailyViewerQuota(limit int) QuotaRule {
	return QuotaRule{
		Limit:  limit,
		Window: 24 * time.Hour,
		KeyFn: func(c *gin.Context) string {
			id := ViewerID(c)
			if id == "" {
				return ""
			}
			return "quota:user:" + id + ":day"
		},
	}
}

// Quota enforces a fixed-window request budget stored in Redis. When Redis is
// unavailable the request is let through.
func Quota(rdb *redis.Client, rule QuotaRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rule.KeyFn(c)
		if key == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		// INCR 計數 +1，key 不存在時 Redis 從 0 開始
		n, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// Redis 掛了 → 降級放行
			c.Next()
			return
		}
		if n == 1 { // 視窗第一個請求才設過期
			_ = rdb.Expire(ctx, key, rule.Window).Err()
		}
		if int(n) > rule.Limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Usage quota exceeded. Please try again later.",
			})
			return
		}
		c.Header("X-Quota-Used", fmt.Sprintf("%d/%d", n, rule.Limit)) // 🔥 讓 client 看得到用量
		c.Next()
	}
}
