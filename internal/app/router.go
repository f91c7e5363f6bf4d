// internal/app/router.go
package app

import (
	"fieldops-service/internal/domain/identity"
	authHandler "fieldops-service/internal/handlers/auth"
	dashboardHandler "fieldops-service/internal/handlers/dashboard"
	leadHandler "fieldops-service/internal/handlers/lead"
	orderHandler "fieldops-service/internal/handlers/order"
	orgHandler "fieldops-service/internal/handlers/organization"
	ticketHandler "fieldops-service/internal/handlers/ticket"
	wsHandler "fieldops-service/internal/handlers/websocket"
	"fieldops-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler      *authHandler.AuthHandler
	OrderHandler     *orderHandler.OrderHandler
	OrgHandler       *orgHandler.OrganizationHandler
	LeadHandler      *leadHandler.LeadHandler
	TicketHandler    *ticketHandler.TicketHandler
	DashboardHandler *dashboardHandler.DashboardHandler
	WSHandler        *wsHandler.WebSocketHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.POST("/logout", h.AuthHandler.Logout)
		authProtected.POST("/logout-all", h.AuthHandler.LogoutAll)
		authProtected.PUT("/change-password", h.AuthHandler.ChangePassword)
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Service Orders ====================
	orders := api.Group("/orders")
	orders.Use(h.AuthMiddleware.Auth())
	{
		orders.GET("", h.OrderHandler.ListOrders)
		orders.GET("/stats", h.OrderHandler.Stats)
		orders.GET("/:id", h.OrderHandler.GetOrder)
		orders.GET("/process/:process_number", h.OrderHandler.GetOrderByProcessNumber)

		orders.PUT("/:id/status", h.OrderHandler.UpdateOrderStatus)
		orders.POST("/:id/signature", h.OrderHandler.AttachSignature)
		orders.POST("/:id/images", h.OrderHandler.AddImage)

		// Creation and editing are back-office operations
		staff := orders.Group("")
		staff.Use(h.AuthMiddleware.StaffOnly())
		{
			staff.POST("", h.OrderHandler.CreateOrder)
			staff.PUT("/:id", h.OrderHandler.UpdateOrder)
		}
	}

	// ==================== Technicians ====================
	technicians := api.Group("/technicians")
	technicians.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.StaffOnly())
	{
		technicians.GET("/:id/performance", h.OrderHandler.TechnicianPerformance)
	}

	// ==================== Organizations ====================
	organizations := api.Group("/organizations")
	organizations.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.StaffOnly())
	{
		organizations.GET("", h.OrgHandler.ListOrganizations)
		organizations.GET("/revenue", h.OrgHandler.Revenue)
		organizations.GET("/quote", h.OrgHandler.Quote)
		organizations.GET("/:id", h.OrgHandler.GetOrganization)

		organizations.POST("", h.OrgHandler.CreateOrganization)
		organizations.PUT("/:id", h.OrgHandler.UpdateOrganization)
		organizations.PUT("/:id/suspend", h.OrgHandler.SuspendOrganization)
		organizations.PUT("/:id/reactivate", h.OrgHandler.ReactivateOrganization)
	}

	// ==================== CRM Leads ====================
	leads := api.Group("/leads")
	leads.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.StaffOnly())
	{
		leads.GET("", h.LeadHandler.ListLeads)
		leads.GET("/pipeline", h.LeadHandler.Pipeline)
		leads.GET("/:id", h.LeadHandler.GetLead)

		leads.POST("", h.LeadHandler.CreateLead)
		leads.POST("/bulk-import", h.LeadHandler.BulkImport)
		leads.PUT("/:id", h.LeadHandler.UpdateLead)
		leads.PUT("/:id/status", h.LeadHandler.UpdateLeadStatus)
		leads.POST("/:id/convert", h.LeadHandler.ConvertLead)
	}

	// ==================== Support Tickets ====================
	tickets := api.Group("/tickets")
	tickets.Use(h.AuthMiddleware.Auth())
	{
		tickets.GET("", h.TicketHandler.ListTickets)
		tickets.GET("/:id", h.TicketHandler.GetTicket)
		tickets.POST("", h.TicketHandler.CreateTicket)
		tickets.POST("/:id/messages", h.TicketHandler.AddMessage)

		tickets.PUT("/:id/status",
			h.AuthMiddleware.RequireRole(
				identity.RoleSuperAdmin, identity.RoleAdmin, identity.RoleDirector,
			),
			h.TicketHandler.UpdateTicketStatus,
		)
	}

	// ==================== Dashboard ====================
	dashboard := api.Group("/dashboard")
	dashboard.Use(h.AuthMiddleware.Auth(), h.AuthMiddleware.StaffOnly())
	{
		dashboard.GET("", h.DashboardHandler.GetSnapshot)
	}

	// ==================== ADMIN ROUTES ====================
	admin := api.Group("/admin")
	{
		superAdmin := admin.Group("")
		superAdmin.Use(h.AuthMiddleware.SuperAdminOnly()...)
		{
			superAdmin.GET("/ws/stats", h.WSHandler.GetStats)
		}

		adminAuth := admin.Group("")
		adminAuth.Use(h.AuthMiddleware.AdminOnly()...)
		{
			adminAuth.POST("/users", h.AuthHandler.RegisterUser)
			adminAuth.GET("/users", h.AuthHandler.ListUsers)
			adminAuth.PUT("/users/:id/active", h.AuthHandler.SetUserActive)
		}
	}
}
