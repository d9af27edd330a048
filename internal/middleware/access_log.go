package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/kit/log"
)

// AccessLog logs one line per handled request
func AccessLog() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		c.Next(ctx)
		log.CtxInfo(ctx, "%s %s status=%d cost=%s",
			string(c.Method()), string(c.Path()), c.Response.StatusCode(), time.Since(start))
	}
}
