// Package server exposes the analytics pipeline over HTTP.
package server

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"panion/internal/analytics"
	"panion/internal/coupon"
	"panion/internal/model"
	"panion/internal/parser"
)

const (
	maxUploadBytes   = 50 * 1024 * 1024
	defaultListLimit = 20
)

// Storage persists analytics snapshots and coupon redemptions.
type Storage interface {
	SaveReport(id string, analytics *model.Analytics) error
	GetReport(id string) (*model.Analytics, error)
	ListReports(limit int, tf *model.TimeFilter) ([]model.Report, error)
	RedeemCoupon(code string) (bool, error)
	IsCouponRedeemed(code string) (bool, error)
}

// LiveSession exposes the state the API reports for a live connection.
type LiveSession interface {
	QRCode() string
	Paired() bool
	Ready() bool
	MessageCount() int
	AnalyticsID() string
}

// LiveManager drives live WhatsApp sessions.
type LiveManager interface {
	Connect(ctx context.Context, sessionID, couponCode string) (LiveSession, error)
	Session(sessionID string) (LiveSession, bool)
	SessionForCoupon(couponCode string) (string, LiveSession, bool)
	Disconnect(sessionID string)
	GenerateNow(sessionID string) (string, error)
}

// Narrator turns a snapshot into a prose write-up.
type Narrator interface {
	Narrate(analytics *model.Analytics) (string, error)
}

// Server wires the HTTP routes to storage, live sessions, and narration.
// Manager and narrator may be nil; the routes that need them report the
// feature as unavailable.
type Server struct {
	store    Storage
	manager  LiveManager
	narrator Narrator
	log      zerolog.Logger
}

// New returns a Server with its collaborators attached.
func New(store Storage, manager LiveManager, narrator Narrator, log zerolog.Logger) *Server {
	return &Server{store: store, manager: manager, narrator: narrator, log: log}
}

// Router builds the gin engine with all API routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Accept", "Cache-Control", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Authorization", "Content-Type"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: true,
	}))

	api := router.Group("/api")
	{
		api.POST("/upload", s.handleUpload)
		api.GET("/analytics/:id", s.handleGetAnalytics)
		api.GET("/analytics/:id/narrative", s.handleNarrative)
		api.GET("/reports", s.handleListReports)
		api.POST("/validate-coupon", s.handleValidateCoupon)

		api.POST("/whatsapp/check-session", s.handleCheckSession)
		api.POST("/whatsapp/connect", s.handleConnect)
		api.GET("/whatsapp/qr/:sessionId", s.handleQR)
		api.POST("/whatsapp/disconnect/:sessionId", s.handleDisconnect)
		api.POST("/whatsapp/generate-analytics/:sessionId", s.handleGenerateNow)
	}

	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// --- Upload and reports ---

func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text") && !strings.EqualFold(filepath.Ext(header.Filename), ".txt") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Please upload a WhatsApp chat export (.txt file)"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}

	messages := parser.Parse(string(content))
	if len(messages) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No messages found in file"})
		return
	}

	userName := c.PostForm("userName")
	engine := analytics.New(messages, userName)

	if userName == "" {
		if participants := engine.Participants(); len(participants) > 1 {
			c.JSON(http.StatusOK, gin.H{
				"requiresUserSelection": true,
				"participants":          participants,
			})
			return
		}
	}

	snapshot := engine.Generate()
	id := uuid.NewString()
	if err := s.store.SaveReport(id, snapshot); err != nil {
		s.log.Error().Err(err).Msg("save report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "analytics": snapshot})
}

func (s *Server) handleGetAnalytics(c *gin.Context) {
	snapshot, err := s.store.GetReport(c.Param("id"))
	if err != nil {
		s.log.Error().Err(err).Msg("get report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analytics not found"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleListReports(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	tf, err := model.ParseTimeFilter(c.Query("since"), c.Query("until"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reports, err := s.store.ListReports(limit, tf)
	if err != nil {
		s.log.Error().Err(err).Msg("list reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}
	if reports == nil {
		reports = []model.Report{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *Server) handleNarrative(c *gin.Context) {
	if s.narrator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Narrative generation is not configured"})
		return
	}

	snapshot, err := s.store.GetReport(c.Param("id"))
	if err != nil {
		s.log.Error().Err(err).Msg("get report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
		return
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analytics not found"})
		return
	}

	text, err := s.narrator.Narrate(snapshot)
	if err != nil {
		s.log.Error().Err(err).Msg("narrate")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate narrative"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"narrative": text})
}

// --- Coupons ---

func (s *Server) handleValidateCoupon(c *gin.Context) {
	var body struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code is required"})
		return
	}

	code := coupon.Canonical(body.Code)
	redeemed, err := s.store.IsCouponRedeemed(code)
	if err != nil {
		s.log.Error().Err(err).Msg("check coupon")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
		return
	}
	if redeemed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This coupon has already been used"})
		return
	}
	if !coupon.Valid(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon code"})
		return
	}

	if _, err := s.store.RedeemCoupon(code); err != nil {
		s.log.Error().Err(err).Msg("redeem coupon")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":     true,
		"sessionId": uuid.NewString(),
		"message":   "Coupon validated successfully",
	})
}

// --- Live sessions ---

func (s *Server) handleCheckSession(c *gin.Context) {
	if s.manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live pairing is not available"})
		return
	}

	var body struct {
		CouponCode string `json:"couponCode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.CouponCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code is required"})
		return
	}

	sessionID, session, ok := s.manager.SessionForCoupon(coupon.Canonical(body.CouponCode))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No session found for this coupon code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":    sessionID,
		"isPaired":     session.Paired(),
		"isReady":      session.Ready(),
		"messageCount": session.MessageCount(),
	})
}

func (s *Server) handleConnect(c *gin.Context) {
	if s.manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live pairing is not available"})
		return
	}

	var body struct {
		SessionID  string `json:"sessionId"`
		CouponCode string `json:"couponCode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.SessionID == "" || body.CouponCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID and coupon code are required"})
		return
	}

	session, err := s.manager.Connect(c.Request.Context(), body.SessionID, coupon.Canonical(body.CouponCode))
	if err != nil {
		s.log.Error().Err(err).Msg("connect session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to connect WhatsApp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "WhatsApp session initiated",
		"isPaired": session.Paired(),
		"isReady":  session.Ready(),
	})
}

func (s *Server) handleQR(c *gin.Context) {
	if s.manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live pairing is not available"})
		return
	}

	session, ok := s.manager.Session(c.Param("sessionId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qrCode":       session.QRCode(),
		"isReady":      session.Ready(),
		"isPaired":     session.Paired(),
		"messageCount": session.MessageCount(),
		"analyticsId":  session.AnalyticsID(),
	})
}

func (s *Server) handleDisconnect(c *gin.Context) {
	if s.manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live pairing is not available"})
		return
	}
	s.manager.Disconnect(c.Param("sessionId"))
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleGenerateNow(c *gin.Context) {
	if s.manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live pairing is not available"})
		return
	}

	analyticsID, err := s.manager.GenerateNow(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No messages to analyze"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyticsId": analyticsID})
}
