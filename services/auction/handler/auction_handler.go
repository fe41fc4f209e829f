package handler

import (
	"fmt"
	"net/http"
	"time"

	"auction-engine/internal/models"
	"auction-engine/services/auction/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=auction_handler.go -destination=mock_engine.go -package=handler

// AuctionEngineInterface is the engine surface the command layer drives.
type AuctionEngineInterface interface {
	StartSession(groupID string, item models.Item, startingPrice int64, mode models.Mode, duration time.Duration) (string, error)
	SubmitBid(sessionID, bidderID string, amount int64) (models.BidDecision, error)
	Pause(sessionID string) error
	Resume(sessionID string) error
	Skip(sessionID string) error
	FinalCall(sessionID string) error
	Resolve(sessionID string) error
	UndoLastBid(sessionID string) error
	CloseSession(sessionID string) error
	Query(sessionID string) (models.SessionView, error)
	History(sessionID string) ([]models.Bid, error)
	Bidder(bidderID string) (models.BidderAccount, error)
}

type AuctionHandler struct {
	engine AuctionEngineInterface
}

func NewAuctionHandler(engine AuctionEngineInterface) *AuctionHandler {
	return &AuctionHandler{engine: engine}
}

// StartSessionHandler handles POST /sessions
func (h *AuctionHandler) StartSessionHandler(c *gin.Context) {
	var req helpers.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "StartSessionHandler", err)
		return
	}

	item := models.Item{
		ItemID:    req.Item.ItemID,
		Name:      req.Item.Name,
		Position:  req.Item.Position,
		Rating:    req.Item.Rating,
		BasePrice: req.Item.BasePrice,
	}
	duration := time.Duration(req.DurationSec) * time.Second

	sessionID, err := h.engine.StartSession(req.GroupID, item, req.StartingPrice, models.Mode(req.Mode), duration)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message, nil)
		utils.Error("StartSessionHandler: failed to start session", map[string]any{
			"group_id": req.GroupID,
			"item_id":  req.Item.ItemID,
			"error":    err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.StartSessionResponse{SessionID: sessionID}, "session started")
	helpers.LogSuccess("StartSessionHandler", "session started", map[string]any{
		"session_id": sessionID,
		"group_id":   req.GroupID,
		"item_id":    req.Item.ItemID,
	})
}

// SubmitBidHandler handles POST /sessions/:session_id/bids
func (h *AuctionHandler) SubmitBidHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitBidHandler", err)
		return
	}

	decision, err := h.engine.SubmitBid(sessionID, req.BidderID, req.Amount)
	resp := helpers.BidDecisionResponse{
		Accepted: decision.Accepted,
		Seq:      decision.Seq,
		Leader:   decision.Leader,
		Price:    decision.Price,
	}
	if err != nil {
		// Rejections still carry the authoritative leader/price so the
		// bidder learns why without a follow-up query.
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message, resp)
		utils.Warn("SubmitBidHandler: bid rejected", map[string]any{
			"session_id": sessionID,
			"bidder_id":  req.BidderID,
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "bid accepted")
	helpers.LogSuccess("SubmitBidHandler", "bid accepted", map[string]any{
		"session_id": sessionID,
		"bidder_id":  req.BidderID,
		"amount":     req.Amount,
		"seq":        decision.Seq,
	})
}

// QuerySessionHandler handles GET /sessions/:session_id
func (h *AuctionHandler) QuerySessionHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	view, err := h.engine.Query(sessionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, view, "session retrieved")
}

// SessionHistoryHandler handles GET /sessions/:session_id/bids
func (h *AuctionHandler) SessionHistoryHandler(c *gin.Context) {
	sessionID := c.Param("session_id")

	bids, err := h.engine.History(sessionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message, nil)
		return
	}
	if bids == nil {
		bids = []models.Bid{}
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved")
}

// GetBidderHandler handles GET /bidders/:bidder_id
func (h *AuctionHandler) GetBidderHandler(c *gin.Context) {
	bidderID := c.Param("bidder_id")

	account, err := h.engine.Bidder(bidderID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message, nil)
		return
	}

	utils.JSONResponse(c, http.StatusOK, account, "bidder retrieved")
}

// adminAction wraps the session lifecycle commands that share a shape:
// session id in, ok or mapped error out.
func (h *AuctionHandler) adminAction(name string, action func(string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session_id")

		if err := action(sessionID); err != nil {
			status, message := helpers.MapErrorToHTTP(err)
			utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message, nil)
			utils.Warn(name+": rejected", map[string]any{"session_id": sessionID, "error": err.Error()})
			return
		}

		utils.JSONResponse(c, http.StatusOK, gin.H{"session_id": sessionID}, name+" applied")
		helpers.LogSuccess(name, "applied", map[string]any{"session_id": sessionID})
	}
}

// PauseHandler handles POST /sessions/:session_id/pause
func (h *AuctionHandler) PauseHandler() gin.HandlerFunc {
	return h.adminAction("pause", h.engine.Pause)
}

// ResumeHandler handles POST /sessions/:session_id/resume
func (h *AuctionHandler) ResumeHandler() gin.HandlerFunc {
	return h.adminAction("resume", h.engine.Resume)
}

// SkipHandler handles POST /sessions/:session_id/skip
func (h *AuctionHandler) SkipHandler() gin.HandlerFunc {
	return h.adminAction("skip", h.engine.Skip)
}

// FinalCallHandler handles POST /sessions/:session_id/final-call
func (h *AuctionHandler) FinalCallHandler() gin.HandlerFunc {
	return h.adminAction("final_call", h.engine.FinalCall)
}

// ResolveHandler handles POST /sessions/:session_id/resolve
func (h *AuctionHandler) ResolveHandler() gin.HandlerFunc {
	return h.adminAction("resolve", h.engine.Resolve)
}

// UndoHandler handles POST /sessions/:session_id/undo
func (h *AuctionHandler) UndoHandler() gin.HandlerFunc {
	return h.adminAction("undo", h.engine.UndoLastBid)
}

// CloseHandler handles POST /sessions/:session_id/close
func (h *AuctionHandler) CloseHandler() gin.HandlerFunc {
	return h.adminAction("close", h.engine.CloseSession)
}
