package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Handlers bundles every route handler.
type Handlers struct {
	Health    *HealthHandler
	Directory *DirectoryHandler
	Roster    *RosterHandler
	Lots      *LotHandler
}

// RegisterRoutes mounts the health endpoints and the /api routes.
// Request bodies with unknown fields are rejected.
func RegisterRoutes(router gin.IRouter, h Handlers) {
	binding.EnableDecoderDisallowUnknownFields = true

	router.GET("/health", h.Health.Health)
	router.GET("/health/ready", h.Health.Ready)

	api := router.Group("/api")
	{
		api.GET("/info", h.Health.Info)

		directory := api.Group("/directory")
		{
			directory.GET("", h.Directory.List)
			directory.POST("", h.Directory.Create)
			directory.GET("/search", h.Directory.Search)
			directory.GET("/template", h.Directory.Template)
			directory.POST("/bulk-import", h.Directory.Import)
			directory.PUT("/:id", h.Directory.Update)
			directory.DELETE("/:id", h.Directory.Delete)
		}

		bod := api.Group("/bod")
		{
			bod.GET("", h.Roster.ListBoard)
			bod.POST("", h.Roster.SaveBoard)
			bod.GET("/years", h.Roster.BoardYears)
		}

		api.GET("/committees", h.Roster.ListCommittees)
		api.POST("/committees", h.Roster.SaveCommittee)

		owners := api.Group("/lot-owners")
		{
			owners.GET("", h.Lots.ListOwners)
			owners.POST("", h.Lots.SaveOwner)
			owners.GET("/template", h.Lots.OwnersTemplate)
			owners.POST("/bulk-import", h.Lots.ImportOwners)
			owners.POST("/sync-directory", h.Lots.SyncOwners)
		}

		regions := api.Group("/lot-map/regions")
		{
			regions.GET("", h.Lots.ListRegions)
			regions.POST("", h.Lots.SaveRegion)
			regions.GET("/:lot_number", h.Lots.GetRegion)
		}
	}
}
