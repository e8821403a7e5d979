// FILE: internal/transport/http/handler.go
package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"draughts/internal/core"
	"draughts/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

var validate = validator.New()

type HTTPHandler struct {
	svc *service.Service
}

func NewHTTPHandler(svc *service.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func NewFiberApp(svc *service.Service, devMode bool) *fiber.App {
	// Create handler
	h := NewHTTPHandler(svc)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  10 * time.Second,
		// long-poll requests hold the response for up to WaitTimeout
		WriteTimeout: service.WaitTimeout + 5*time.Second,
		IdleTimeout:  30 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	// API v1 routes with rate limiting
	api := app.Group("/api/v1")

	// Rate limiter: 1/10 req/sec per IP with expiry
	maxReq := 1
	if devMode {
		maxReq = 10
	}
	api.Use(limiter.New(limiter.Config{
		Max:        maxReq,          // Allow requests per second
		Expiration: 1 * time.Second, // Per second
		KeyGenerator: func(c *fiber.Ctx) string {
			// Check X-Forwarded-For first, then X-Real-IP, then RemoteIP
			if xff := c.Get("X-Forwarded-For"); xff != "" {
				// Take the first IP from X-Forwarded-For chain
				if idx := strings.Index(xff, ","); idx != -1 {
					return strings.TrimSpace(xff[:idx])
				}
				return xff
			}
			if xri := c.Get("X-Real-IP"); xri != "" {
				return xri
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
				Error:   "rate limit exceeded",
				Code:    core.CodeRateLimitExceeded,
				Details: fmt.Sprintf("%d requests per second allowed", maxReq),
			})
		},
	}))

	// Content-Type validation for POST requests
	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	// Register game routes
	api.Post("/games", h.CreateGame)
	api.Get("/games", h.ListGames)

	games := api.Group("/games/:gameId", gameIDValidator)
	games.Get("", h.GetGame)
	games.Delete("", h.DeleteGame)
	games.Post("/moves", h.MakeMove)
	games.Get("/moves", h.GetMoves)
	games.Post("/undo", h.UndoMove)
	games.Post("/reset", h.ResetGame)
	games.Get("/board", h.GetBoard)
	games.Get("/board.svg", h.GetBoardSVG)
	games.Get("/events", h.upgradeEvents, h.Events())

	return app
}

// contentTypeValidator ensures POST requests have application/json
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		contentType := c.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.CodeInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// validationMiddleware parses and validates request bodies, storing the
// result under the "validatedBody" local
func validationMiddleware(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Next()
	}

	// Determine request type based on path
	path := c.Path()
	var requestType interface{}

	switch {
	case strings.HasSuffix(path, "/games"):
		requestType = &CreateGameRequest{}
	case strings.HasSuffix(path, "/moves"):
		requestType = &MoveRequest{}
	default:
		return c.Next() // No body on undo/reset
	}

	// An empty body is an empty request
	if len(c.Body()) > 0 {
		if err := c.BodyParser(requestType); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid request body",
				Code:    core.CodeInvalidRequest,
				Details: err.Error(),
			})
		}
	}

	if errs := validate.Struct(requestType); errs != nil {
		var verrs validator.ValidationErrors
		if !errors.As(errs, &verrs) {
			return errs
		}
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation failed",
			Code:    core.CodeInvalidRequest,
			Details: describeValidation(verrs),
		})
	}

	// Store validated body for handler use
	c.Locals("validatedBody", requestType)

	return c.Next()
}

func describeValidation(errs validator.ValidationErrors) string {
	var details strings.Builder
	for _, err := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch err.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", err.Field()))
		case "len":
			details.WriteString(fmt.Sprintf("%s must be %s characters", err.Field(), err.Param()))
		case "min":
			if err.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at least %s characters", err.Field(), err.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must have at least %s entries", err.Field(), err.Param()))
			}
		case "max":
			if err.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must have at most %s entries", err.Field(), err.Param()))
			}
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
		}
	}
	return details.String()
}

// gameIDValidator rejects ids that are not uuids before any lookup
func gameIDValidator(c *fiber.Ctx) error {
	if !isValidUUID(c.Params("gameId")) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid game ID format",
			Code:    core.CodeInvalidRequest,
			Details: "game ID must be a valid UUID",
		})
	}
	return c.Next()
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// statusForError maps service and engine errors to an HTTP status and code
func statusForError(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Details: err.Error()}
	switch {
	case errors.Is(err, core.ErrGameNotFound):
		resp.Error, resp.Code = "game not found", core.CodeGameNotFound
		return fiber.StatusNotFound, resp
	case errors.Is(err, core.ErrNoMoveToUndo):
		resp.Error, resp.Code = "no move to undo", core.CodeNoMoveToUndo
		return fiber.StatusConflict, resp
	case errors.Is(err, core.ErrInvalidState):
		resp.Error, resp.Code = "invalid game state", core.CodeInvalidState
		return fiber.StatusBadRequest, resp
	case errors.Is(err, core.ErrIllegalMove),
		errors.Is(err, core.ErrMoveNotFound),
		errors.Is(err, core.ErrInvalidCoordinate):
		resp.Error, resp.Code = "invalid move", core.CodeInvalidMove
		return fiber.StatusBadRequest, resp
	default:
		resp.Error, resp.Code = "internal server error", core.CodeInternalError
		return fiber.StatusInternalServerError, resp
	}
}

func sendError(c *fiber.Ctx, err error) error {
	status, resp := statusForError(err)
	return c.Status(status).JSON(resp)
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := ErrorResponse{
		Error: "internal server error",
		Code:  core.CodeInternalError,
	}

	// Check if it's a Fiber error
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		response.Error = e.Message

		// Map HTTP status to error codes
		switch code {
		case fiber.StatusNotFound:
			response.Code = core.CodeGameNotFound
		case fiber.StatusBadRequest, fiber.StatusUpgradeRequired, fiber.StatusMethodNotAllowed:
			response.Code = core.CodeInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.CodeRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// Health check endpoint
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}
