package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"food-truck-api/cache"
)

// RefreshThrottle limits explicit refreshes (refresh=true) to one per
// cooldown window per user and scope. Ordinary reads pass through.
func RefreshThrottle(cooldown cache.Cooldown, scope string, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Query("refresh") != "true" {
			c.Next()
			return
		}
		key := scope + ":" + GetUserID(c)
		ok, wait, err := cooldown.Acquire(c.Request.Context(), key)
		if err != nil {
			// a broken cache should not block reads
			log.WithError(err).WithField("scope", scope).Warn("refresh cooldown unavailable")
			c.Next()
			return
		}
		if !ok {
			secs := int(math.Ceil(wait.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":               "Please wait before refreshing again",
				"retry_after_seconds": secs,
			})
			return
		}
		c.Next()
	}
}
