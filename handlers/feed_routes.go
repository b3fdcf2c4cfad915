// handlers/feed_routes.go
package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"mission-bridge/utils"
	"mission-bridge/workers"

	"github.com/gofiber/fiber/v2"
)

const feedKeepalive = 15 * time.Second

func SetupFeedRoutes(app *fiber.App, feed *workers.FeedSimulator) {
	app.Get("/feed", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"posts": feed.Posts(),
		})
	})

	// Server-sent events: one "post" event per new feed entry.
	app.Get("/feed/stream", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no") // nginx

		c.Context().SetBodyStreamWriter(feedStreamWriter(feed, c.Context().Done(), feedKeepalive))
		return nil
	})
}

// feedStreamWriter subscribes to the feed and returns the body writer for one
// SSE client. The subscription ends when the writer returns.
func feedStreamWriter(feed *workers.FeedSimulator, done <-chan struct{}, keepaliveEvery time.Duration) func(w *bufio.Writer) {
	posts, cancel := feed.Subscribe()

	return func(w *bufio.Writer) {
		defer cancel()

		keepalive := time.NewTicker(keepaliveEvery)
		defer keepalive.Stop()

		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case post := <-posts:
				payload, err := json.Marshal(post)
				if err != nil {
					utils.Log.Error().Err(err).Msg("feed stream encode failed")
					continue
				}
				fmt.Fprintf(w, "event: post\ndata: %s\n\n", payload)
				if err := w.Flush(); err != nil {
					// client went away
					return
				}
			case <-keepalive.C:
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
