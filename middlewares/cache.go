package middlewares

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"volunteerhub/utils"
)

type cachedBody struct {
	Status int
	Header map[string][]string
	Body   []byte
}

// cacheable maps public route templates to the resource they serve. Viewer
// specific routes (registered events, applications, pages) are never cached.
var cacheable = map[string]struct {
	resource string
	item     bool
}{
	"/api/events":            {"events", false},
	"/api/events/:id":        {"events", true},
	"/api/opportunities":     {"opportunities", false},
	"/api/opportunities/:id": {"opportunities", true},
}

// CacheKeyFrom returns the Redis key for a cacheable GET and its kind ("list" or
// "item"), or empty strings when the response must not be cached.
func CacheKeyFrom(c *gin.Context) (string, string) {
	if c.Request.Method != "GET" {
		return "", ""
	}
	route, ok := cacheable[c.FullPath()]
	if !ok {
		return "", ""
	}
	if route.item {
		return utils.ItemCacheKey(route.resource, c.Param("id")), "item"
	}
	return "cache:" + route.resource + ":list:" + c.Request.URL.RawQuery, "list"
}

func ResponseCache(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, _ := CacheKeyFrom(c)
		if key == "" {
			c.Next() // 不是可快取的 GET，直接跑下一個 handler
			return
		}
		ctx := c.Request.Context()

		// 先查 Redis 有沒有 hit；Redis 掛了就當 miss
		if b, err := rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
			var hit cachedBody
			if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&hit); err == nil {
				for k, vals := range hit.Header {
					for _, v := range vals {
						c.Writer.Header().Add(k, v)
					}
				}
				// 還原 header / status / body
				c.Writer.Header().Set("X-Cache", "HIT")
				c.Status(hit.Status)
				_, _ = c.Writer.Write(hit.Body)
				c.Abort() // 有快取，不跑後面的 handler
				return
			}
		}

		// 沒 hit：換成 bufferedWriter 偷偷存一份回應
		buf := &bytes.Buffer{}
		bw := &bufferedWriter{ResponseWriter: c.Writer, buf: buf}
		c.Writer = bw
		c.Header("X-Cache", "MISS") // body 寫出去之前就要設好

		c.Next()

		// 只快取 2xx
		if bw.Status() >= 200 && bw.Status() < 300 {
			item := cachedBody{
				Status: bw.Status(),
				Header: c.Writer.Header(),
				Body:   buf.Bytes(),
			}

			var o bytes.Buffer
			if err := gob.NewEncoder(&o).Encode(item); err == nil {
				_ = rdb.Set(ctx, key, o.Bytes(), ttl).Err()
			}
		}
	}
}

type bufferedWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bufferedWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)                   // 先存一份到記憶體
	return w.ResponseWriter.Write(b) // 再寫給 client
}
