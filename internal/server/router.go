package server

import (
	handler "auction-engine/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(engine handler.AuctionEngineInterface) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(engine)

	sessions := router.Group("/sessions")
	{
		sessions.POST("", auctionHandler.StartSessionHandler)
		sessions.GET("/:session_id", auctionHandler.QuerySessionHandler)
		sessions.GET("/:session_id/bids", auctionHandler.SessionHistoryHandler)
		sessions.POST("/:session_id/bids", auctionHandler.SubmitBidHandler)
		sessions.POST("/:session_id/pause", auctionHandler.PauseHandler())
		sessions.POST("/:session_id/resume", auctionHandler.ResumeHandler())
		sessions.POST("/:session_id/skip", auctionHandler.SkipHandler())
		sessions.POST("/:session_id/final-call", auctionHandler.FinalCallHandler())
		sessions.POST("/:session_id/resolve", auctionHandler.ResolveHandler())
		sessions.POST("/:session_id/undo", auctionHandler.UndoHandler())
		sessions.POST("/:session_id/close", auctionHandler.CloseHandler())
	}

	bidders := router.Group("/bidders")
	{
		bidders.GET("/:bidder_id", auctionHandler.GetBidderHandler)
	}

	return router
}
