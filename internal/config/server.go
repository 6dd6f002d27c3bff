package config

import (
	"EstimAgent/database/postgres"
	analysisHandler "EstimAgent/internal/api/analysis/handler"
	analysisRepository "EstimAgent/internal/api/analysis/repository"
	analysisService "EstimAgent/internal/api/analysis/service"
	calibrationHandler "EstimAgent/internal/api/calibration/handler"
	calibrationService "EstimAgent/internal/api/calibration/service"
	projectHandler "EstimAgent/internal/api/project/handler"
	projectRepository "EstimAgent/internal/api/project/repository"
	projectService "EstimAgent/internal/api/project/service"
	takeoffHandler "EstimAgent/internal/api/takeoff/handler"
	takeoffRepository "EstimAgent/internal/api/takeoff/repository"
	takeoffService "EstimAgent/internal/api/takeoff/service"
	"EstimAgent/internal/middleware"
	"EstimAgent/pkg/detector"
	"EstimAgent/pkg/redis"
	"EstimAgent/pkg/s3"
	"EstimAgent/pkg/utils"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine          *fiber.App
	db              *sqlx.DB
	log             *logrus.Logger
	middleware      middleware.Middleware
	validator       *validator.Validate
	utils           utils.IUtils
	handlers        []handler
	redisServer     redis.IRedis
	s3Client        s3.ItfS3
	primaryDetector detector.Detector
	localDetector   detector.ILocalDetector
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithHostedDetector() ServerOption {
	return func(s *Server) error {
		s.primaryDetector = detector.NewHostedDetector()
		return nil
	}
}

func WithLocalDetector() ServerOption {
	return func(s *Server) error {
		s.localDetector = detector.NewLocalDetector()
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Project Domain
	projectRepo := projectRepository.New(s.db, s.log)
	projectServices := projectService.NewProjectService(s.log, projectRepo, s.s3Client, s.utils)
	projectHandlers := projectHandler.New(s.log, s.validator, s.middleware, projectServices)

	// Calibration Domain
	calibrationServices := calibrationService.NewCalibrationService(s.log, projectRepo, s.redisServer)
	calibrationHandlers := calibrationHandler.New(s.log, s.validator, s.middleware, calibrationServices)

	// Analysis Domain
	analysisRepo := analysisRepository.New(s.db, s.log)
	analysisServices := analysisService.NewAnalysisService(s.log, analysisRepo, projectRepo, s.redisServer, s.primaryDetector, s.localDetector, s.s3Client, s.utils)
	analysisHandlers := analysisHandler.New(s.log, s.validator, s.middleware, analysisServices)

	// Takeoff Domain
	takeoffRepo := takeoffRepository.New(s.db, s.log)
	takeoffServices := takeoffService.NewTakeoffService(s.log, takeoffRepo, analysisRepo, projectRepo, s.utils)
	takeoffHandlers := takeoffHandler.New(s.log, s.validator, s.middleware, takeoffServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, projectHandlers, calibrationHandlers, analysisHandlers, takeoffHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.localDetector != nil {
			s.localDetector.Close()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
