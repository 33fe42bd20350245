package server

import (
	"backend-howmanybeds/internal/auth"
	"backend-howmanybeds/internal/config"
	"backend-howmanybeds/internal/geocode"
	"backend-howmanybeds/internal/hospital"
	"backend-howmanybeds/internal/store"
	"backend-howmanybeds/internal/stream"
	"backend-howmanybeds/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    *pgxpool.Pool
	Redis *redis.Client
	Store *store.Store
	Hub   *stream.Hub
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	st := store.New(db, redisClient)

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    db,
		Redis: redisClient,
		Store: st,
		Hub:   stream.NewHub(st),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	users := user.NewService(s.Store)
	hospitals := hospital.NewService(s.Store)
	authSvc := auth.NewService(s.Cfg.JWTSecret, s.DB, users)

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	profileMiddleware := user.ProfileMiddleware(users)

	auth.RegisterRoutes(s.App.Group("/auth"), authSvc)
	hospital.RegisterRoutes(s.App.Group("/hospitals"), hospitals, jwtMiddleware, profileMiddleware)
	user.RegisterRoutes(s.App.Group("/admin/users"), users, jwtMiddleware)
	geocode.RegisterRoutes(s.App.Group("/geocode"), geocode.NewClient(s.Cfg.GeocoderURL))
	stream.RegisterRoutes(s.App.Group("/stream"), s.Hub, users, s.Store, authSvc.IdentityFromToken)
}
