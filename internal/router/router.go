package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/teamtask/backend/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Task      *apiHandler.TaskHandler
	Dashboard *apiHandler.DashboardHandler
	Team      *apiHandler.TeamHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Task CRUD
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.ListTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	// Approval workflow
	r.POST("/api/v1/tasks/{id}/start-work", authMiddleware(handlers.Task.StartWork))
	r.POST("/api/v1/tasks/{id}/submit", authMiddleware(handlers.Task.SubmitTask))
	r.POST("/api/v1/tasks/{id}/approve", authMiddleware(handlers.Task.ApproveTask))
	r.POST("/api/v1/tasks/{id}/reject", authMiddleware(handlers.Task.RejectTask))
	r.POST("/api/v1/tasks/{id}/comments", authMiddleware(handlers.Task.AddComment))

	// Dashboard and calendar
	r.GET("/api/v1/dashboard", authMiddleware(handlers.Dashboard.Summary))
	r.GET("/api/v1/calendar", authMiddleware(handlers.Task.Calendar))

	// Team management
	r.GET("/api/v1/team", authMiddleware(handlers.Team.ListMembers))
	r.PATCH("/api/v1/team/{id}/role", authMiddleware(handlers.Team.UpdateRole))

	return r
}
