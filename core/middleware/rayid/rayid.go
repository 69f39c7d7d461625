// Package rayid generates a unique request id (RayID) for every incoming
// request, injecting it into the context locals and the response headers so
// logs and responses for one request can be correlated.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header is the response header carrying the generated id.
const Header = "X-Ray-Id"

// New returns the RayID middleware. An incoming X-Ray-Id header is honored
// so upstream proxies can propagate their own ids.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("ray_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
