package main

import (
	"log"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/JochenSunaert/PlotTwist/internal/config"
	"github.com/JochenSunaert/PlotTwist/internal/game"
	"github.com/JochenSunaert/PlotTwist/internal/gateway"
	"github.com/JochenSunaert/PlotTwist/internal/narrator"
	"github.com/JochenSunaert/PlotTwist/internal/room"
	"github.com/JochenSunaert/PlotTwist/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger.EnableDebug(cfg.Debug)

	hub := gateway.NewHub()
	registry := room.NewRegistry(hub)
	engine := game.NewEngine(registry, hub, narrator.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel), game.Options{
		PromptSeconds: cfg.PromptPhaseSeconds,
		AnswerSeconds: cfg.AnswerPhaseSeconds,
	})
	hub.Attach(registry, engine)

	app := fiber.New()
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowOrigins}))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(hub.HandleConn))

	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	logger.Info("Server %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
