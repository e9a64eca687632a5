package viewer

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// ZstdMiddleware compresses response bodies with zstd when the client accepts it.
// Paths in skipRoutes are passed through untouched.
func ZstdMiddleware(skipRoutes []string) fiber.Handler {
	if skipRoutes == nil {
		skipRoutes = []string{"/health"}
	}

	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, route := range skipRoutes {
			if path == route {
				return c.Next()
			}
		}

		if err := c.Next(); err != nil {
			return err
		}

		if !strings.Contains(strings.ToLower(c.Get(fiber.HeaderAcceptEncoding)), "zstd") {
			return nil
		}
		body := c.Response().Body()
		if len(body) == 0 {
			return nil
		}

		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			log.Err(err).Msg("Failed to create zstd encoder")
			return nil // serve uncompressed
		}
		defer encoder.Close()

		compressed := encoder.EncodeAll(body, make([]byte, 0, len(body)))
		c.Response().SetBody(compressed)
		c.Set(fiber.HeaderContentEncoding, "zstd")
		c.Set(fiber.HeaderVary, fiber.HeaderAcceptEncoding)
		log.Trace().Str("path", path).Int("raw", len(body)).Int("compressed", len(compressed)).
			Msg("Response compressed with zstd")
		return nil
	}
}
