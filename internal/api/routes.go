package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/painrelief/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	sessionService service.SessionService,
	trackerService service.TrackerService,
	exerciseService service.ExerciseService,
) {
	sessionHandler := NewSessionHandler(sessionService)
	sceneHandler := NewSceneHandler(trackerService)
	recordHandler := NewRecordHandler(trackerService)
	exerciseHandler := NewExerciseHandler(exerciseService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/sessions", sessionHandler.StartSession)

		// Catalog and region graph are the same for everyone.
		apiV1.GET("/regions", exerciseHandler.ListRegions)
		apiV1.GET("/regions/:region/related", exerciseHandler.GetRelatedRegions)
		apiV1.GET("/exercises", exerciseHandler.ListExercises)
		apiV1.GET("/exercises/recommend", exerciseHandler.RecommendExercises)
		apiV1.GET("/exercises/:id", exerciseHandler.GetExercise)
	}

	protected := apiV1.Group("")
	protected.Use(SessionMiddleware(sessionService))
	{
		sceneGroup := protected.Group("/scene")
		{
			sceneGroup.GET("", sceneHandler.GetScene)
			sceneGroup.POST("/frame", sceneHandler.AdvanceFrame)
			sceneGroup.PUT("/motion", sceneHandler.SetMotion)
			sceneGroup.PUT("/camera", sceneHandler.SetCamera)
			sceneGroup.GET("/preview.png", sceneHandler.GetPreview)
		}

		pointerGroup := protected.Group("/pointer")
		{
			pointerGroup.POST("/enter", sceneHandler.PointerEnter)
			pointerGroup.POST("/leave", sceneHandler.PointerLeave)
			pointerGroup.POST("/click", sceneHandler.PointerClick)
			pointerGroup.POST("/move-at", sceneHandler.PointerMoveAt)
			pointerGroup.POST("/click-at", sceneHandler.PointerClickAt)
		}

		selectionGroup := protected.Group("/selection")
		{
			selectionGroup.PUT("", sceneHandler.SetSelection)
			selectionGroup.DELETE("", sceneHandler.ClearSelection)
			selectionGroup.PUT("/intensity", sceneHandler.SetIntensity)
		}
		protected.GET("/recommendations", sceneHandler.GetRecommendations)

		prefGroup := protected.Group("/preferences")
		{
			prefGroup.GET("/equipment", sceneHandler.GetEquipment)
			prefGroup.PUT("/equipment", sceneHandler.SetEquipment)
			prefGroup.DELETE("/equipment", sceneHandler.ClearEquipment)
		}

		recordGroup := protected.Group("/records")
		{
			recordGroup.POST("", recordHandler.SaveRecord)
			recordGroup.GET("", recordHandler.ListRecords)
			recordGroup.DELETE("", recordHandler.ClearRecords)
			recordGroup.GET("/insights", recordHandler.GetInsights)
		}
	}
}
