package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tegami/tegami-backend/internal/handler"
)

// Handlers bundles every HTTP handler the API mounts
type Handlers struct {
	Letter  *handler.LetterHandler
	Penpal  *handler.PenpalHandler
	Journal *handler.JournalHandler
	Audio   *handler.AudioHandler
	WS      *handler.WSHandler
	Health  *handler.HealthHandler
}

// Setup configures all API routes. auth runs on every /api and /ws route,
// followed by guards (rate limiting), so guards can key on the caller.
func Setup(router *gin.Engine, h Handlers, auth gin.HandlerFunc, guards ...gin.HandlerFunc) {
	handler.RegisterValidators()

	router.GET("/health", h.Health.Health)

	chain := append([]gin.HandlerFunc{auth}, guards...)
	api := router.Group("/api", chain...)

	letters := api.Group("/letters")
	letters.GET("", h.Letter.ListLetters)
	letters.GET("/user/:userId", h.Letter.GetUserLetter)
	letters.POST("", h.Letter.CreateLetter)
	letters.PUT("/:id", h.Letter.UpdateLetter)

	penpals := api.Group("/penpals")
	penpals.POST("", h.Penpal.CreateRequest)
	penpals.POST("/letters", h.Penpal.SendLetter)
	penpals.PUT("/letters/:id/read", h.Penpal.MarkRead)
	penpals.GET("/request/:id/details", h.Penpal.RequestDetails)
	penpals.GET("/:userId", h.Penpal.ListPenpals)
	penpals.GET("/:userId/requests", h.Penpal.ListRequests)
	penpals.GET("/:userId/letters", h.Penpal.ListLetters)
	penpals.PUT("/:id/accept", h.Penpal.AcceptRequest)
	penpals.PUT("/:id/decline", h.Penpal.DeclineRequest)

	journal := api.Group("/journal")
	journal.GET("/moods", h.Journal.Moods)
	journal.GET("/:userId", h.Journal.ListEntries)
	journal.GET("/:userId/moods", h.Journal.MoodStats)
	journal.POST("", h.Journal.CreateEntry)
	journal.DELETE("/:id", h.Journal.DeleteEntry)

	audio := api.Group("/audio")
	audio.GET("/:userId", h.Audio.ListMemories)
	audio.POST("", h.Audio.CreateMemory)
	audio.DELETE("/:id", h.Audio.DeleteMemory)

	if h.WS != nil {
		router.GET("/ws/letters", append(chain, h.WS.Connect)...)
	}
}
