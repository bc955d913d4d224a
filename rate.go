package netmsg

import (
	"time"

	"github.com/myeof/gonetmsg/pkg/logger"
	"golang.org/x/time/rate"
)

var sendRateLimiter *rate.Limiter
var receiveRateLimiter *rate.Limiter

// InitRate caps send and receive throughput at limit bytes per second.
// A limit of 0 leaves both directions unthrottled.
func InitRate(limit float64) {
	if limit == 0 {
		sendRateLimiter = nil
		receiveRateLimiter = nil
		return
	}
	burst := max(int(limit), 1)
	sendRateLimiter = rate.NewLimiter(rate.Limit(limit), burst)
	receiveRateLimiter = rate.NewLimiter(rate.Limit(limit), burst)
}

// reserve books n bytes on l and returns a timer for the delay, or nil when
// there is nothing to wait for. Frames larger than the burst are booked in
// burst-sized chunks; the last chunk's delay covers the whole frame.
func reserve(l *rate.Limiter, n int, direction string) *time.Timer {
	if l == nil || n <= 0 {
		return nil
	}
	now := time.Now()
	burst := l.Burst()
	if burst < 1 {
		logger.Warnw("Rate limiter has no burst", "direction", direction, "bytes", n)
		return nil
	}
	var delay time.Duration
	for left := n; left > 0; left -= burst {
		r := l.ReserveN(now, min(left, burst))
		if !r.OK() {
			logger.Warnw("Rate limiter reservation failed", "direction", direction, "bytes", n)
			return nil
		}
		delay = r.DelayFrom(now)
	}
	if delay <= 0 {
		return nil
	}
	return time.NewTimer(delay)
}
