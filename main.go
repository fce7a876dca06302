package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"siagabencana_backend/internals/configs"
	database "siagabencana_backend/internals/databases"
	attendanceScheduler "siagabencana_backend/internals/features/attendance/sessions/scheduler"
	authScheduler "siagabencana_backend/internals/features/users/auth/scheduler"
	ossHelper "siagabencana_backend/internals/helpers/oss"
	middlewares "siagabencana_backend/internals/middlewares"
	routes "siagabencana_backend/internals/route"
	"siagabencana_backend/internals/seeds"
)

func main() {
	configs.LoadEnv()

	// Mode CLI: `migrate` / `seed` jalan sekali lalu keluar, tanpa HTTP server.
	if len(os.Args) > 1 {
		runCommand(os.Args[1])
		return
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // sesuaikan dengan CIDR LB produksi jika perlu
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing (observability ringan)
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// HTTP timeout guard (selaras dengan statement_timeout di DB)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		dur := time.Since(start)
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), dur)
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	// 🔌 Redis opsional (cache status sesi live); nil = lewat langsung ke DB
	database.ConnectRedis()

	// ⏱ scheduler setelah DB siap
	authScheduler.StartBlacklistCleanupScheduler(database.DB)
	attendanceScheduler.StartSessionExpiryScheduler(database.DB)
	if os.Getenv("ENABLE_TRASH_REAPER") == "true" {
		ossHelper.StartTrashReaperCron(database.DB)
	}

	// ✅ Routes (termasuk /health & /metrics)
	routes.SetupRoutes(app, database.DB)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server non-blocking
	go func() {
		log.Printf("✅ SiagaBencana API listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if database.RedisClient != nil {
		_ = database.RedisClient.Close()
	}
}

// runCommand menangani subcommand non-server. Seeding sengaja TIDAK pernah
// jalan otomatis saat boot; provisioning harus eksplisit lewat `seed`.
func runCommand(cmd string) {
	switch cmd {
	case "migrate":
		database.ConnectDB()
		if err := database.Migrate(database.DB); err != nil {
			log.Fatalf("❌ Migrasi gagal: %v", err)
		}
		log.Println("✅ Migrasi selesai")
	case "seed":
		database.ConnectDB()
		if err := seeds.RunAllSeeds(database.DB); err != nil {
			log.Fatalf("❌ Seeding gagal: %v", err)
		}
		log.Println("✅ Seeding selesai")
	default:
		log.Fatalf("perintah tidak dikenal: %q (pilihan: migrate, seed)", cmd)
	}
}
