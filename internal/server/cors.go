package server

import "github.com/gofiber/fiber/v3"

const allowedMethods = "GET, HEAD, OPTIONS"

// corsMiddleware 在所有响应（包括错误响应）上写入 Access-Control-Allow-Origin，
// 并直接应答 OPTIONS 预检请求。
func corsMiddleware(origin string) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		if origin != "*" {
			c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
		}

		if c.Method() != fiber.MethodOptions {
			return c.Next()
		}

		c.Set(fiber.HeaderAccessControlAllowMethods, allowedMethods)
		if requested := c.Get(fiber.HeaderAccessControlRequestHeaders); requested != "" {
			c.Set(fiber.HeaderAccessControlAllowHeaders, requested)
		}
		c.Set(fiber.HeaderAllow, allowedMethods)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
