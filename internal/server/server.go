// Package server exposes the email-understanding pipeline over HTTP. The
// transport is deliberately thin: all decisions live in the extract, router,
// and provider packages.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xaenox/mailmind/internal/action"
	"github.com/xaenox/mailmind/internal/calendar"
	"github.com/xaenox/mailmind/internal/classify"
	"github.com/xaenox/mailmind/internal/features"
	"github.com/xaenox/mailmind/internal/storage"
	"go.uber.org/zap"
)

type Extractor interface {
	Extract(ctx context.Context, emailText string) (*features.EmailFeatures, error)
}

type Router interface {
	Route(ctx context.Context, f *features.EmailFeatures, emailText string) ([]action.Result, error)
}

type CalendarPipeline interface {
	Process(ctx context.Context, f *features.EmailFeatures, deadline action.Deadline) *calendar.PipelineResult
}

type MusicRecommender interface {
	Recommend(ctx context.Context, emailText string, deadline action.Deadline) *action.Result
}

type AttractionFinder interface {
	DiscoverMultiStep(ctx context.Context, f *features.EmailFeatures, emailText string, deadline action.Deadline) *action.Result
}

// Budgets are the soft wall-clock ceilings for the multi-step pipelines.
type Budgets struct {
	Calendar   time.Duration
	Music      time.Duration
	Attraction time.Duration
}

type Server struct {
	extractor   Extractor
	router      Router
	classifier  classify.Classifier
	explainer   *classify.Explainer
	calendarOps CalendarPipeline
	music       MusicRecommender
	attractions AttractionFinder
	featureLog  storage.FeatureLog
	budgets     Budgets
	logger      *zap.Logger
	engine      *gin.Engine
}

func New(
	extractor Extractor,
	rtr Router,
	classifier classify.Classifier,
	explainer *classify.Explainer,
	calendarOps CalendarPipeline,
	musicRec MusicRecommender,
	attractions AttractionFinder,
	featureLog storage.FeatureLog,
	budgets Budgets,
	logger *zap.Logger,
) *Server {
	s := &Server{
		extractor:   extractor,
		router:      rtr,
		classifier:  classifier,
		explainer:   explainer,
		calendarOps: calendarOps,
		music:       musicRec,
		attractions: attractions,
		featureLog:  featureLog,
		budgets:     budgets,
		logger:      logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)
	engine.POST("/predict", s.handlePredict)
	engine.POST("/extract", s.handleExtract)
	engine.POST("/function_call", s.handleFunctionCall)
	engine.POST("/create", s.handleCreate)
	engine.GET("/data/emails", s.handleListEmails)
	engine.GET("/data/emails/:idx", s.handleGetEmail)

	s.engine = engine
	return s
}

// Engine exposes the HTTP handler, for tests and embedding.
func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// EmailRequest is the inbound email payload shared by every endpoint.
type EmailRequest struct {
	Subject  string `json:"subject"`
	Body     string `json:"body" binding:"required"`
	Category string `json:"category"`
	Location string `json:"location"`
}

func (r *EmailRequest) fullText() string {
	if r.Subject == "" {
		return r.Body
	}
	return fmt.Sprintf("Subject: %s\n\nBody: %s", r.Subject, r.Body)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"message": "mailmind email understanding API is running",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok", "code": 200})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	prediction, err := s.classifier.Classify(c.Request.Context(), req.fullText())
	if err != nil {
		serverError(c, err.Error())
		return
	}

	explanation := ""
	if s.explainer != nil {
		explanation, err = s.explainer.Explain(c.Request.Context(), req.fullText(), prediction.Label)
		if err != nil {
			// The label alone is still useful.
			s.logger.Warn("explanation failed", zap.Error(err))
		}
	}

	ok(c, gin.H{
		"prediction":  prediction.Label,
		"confidence":  prediction.Confidence,
		"explanation": explanation,
	})
}

func (s *Server) handleExtract(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	feats, err := s.extractor.Extract(c.Request.Context(), req.fullText())
	if err != nil {
		serverError(c, err.Error())
		return
	}
	s.logFeatures(c.Request.Context(), feats)

	ok(c, feats)
}

func (s *Server) handleFunctionCall(c *gin.Context) {
	start := time.Now()

	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	feats, err := s.extractor.Extract(c.Request.Context(), req.fullText())
	if err != nil {
		serverError(c, err.Error())
		return
	}
	s.applyOverrides(c.Request.Context(), feats, &req)
	s.logFeatures(c.Request.Context(), feats)

	results, err := s.router.Route(c.Request.Context(), feats, req.fullText())
	if err != nil {
		serverError(c, err.Error())
		return
	}

	ok(c, gin.H{
		"features":         feats,
		"function_result":  results,
		"_processing_time": round2(time.Since(start)),
	})
}

// handleCreate runs the multi-step pipelines: calendar always, music and
// attractions gated on coarse keyword detection.
func (s *Server) handleCreate(c *gin.Context) {
	start := time.Now()

	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	feats, err := s.extractor.Extract(c.Request.Context(), req.fullText())
	if err != nil {
		serverError(c, err.Error())
		return
	}
	s.applyOverrides(c.Request.Context(), feats, &req)
	s.logFeatures(c.Request.Context(), feats)

	result := gin.H{
		"calendar_event": nil,
		"spotify_links":  nil,
		"attractions":    nil,
		"features":       feats,
	}

	calendarResult := s.calendarOps.Process(c.Request.Context(), feats, action.NewDeadline(s.budgets.Calendar))
	if calendarResult != nil && calendarResult.Event != nil {
		result["calendar_event"] = calendarResult
	}

	text := req.fullText()
	if hasMusicContent(text) {
		result["spotify_links"] = s.music.Recommend(c.Request.Context(), text, action.NewDeadline(s.budgets.Music))
	}
	if hasTravelContent(text) {
		result["attractions"] = s.attractions.DiscoverMultiStep(c.Request.Context(), feats, text, action.NewDeadline(s.budgets.Attraction))
	}
	result["_processing_time"] = round2(time.Since(start))

	ok(c, result)
}

func (s *Server) handleListEmails(c *gin.Context) {
	offset, limit, err := paginationParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	items, err := s.featureLog.List(c.Request.Context())
	if err != nil {
		serverError(c, err.Error())
		return
	}

	total := len(items)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	ok(c, gin.H{
		"total":  total,
		"offset": offset,
		"limit":  limit,
		"items":  items[offset:end],
	})
}

func (s *Server) handleGetEmail(c *gin.Context) {
	idx, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		badRequest(c, "index must be an integer")
		return
	}

	items, listErr := s.featureLog.List(c.Request.Context())
	if listErr != nil {
		serverError(c, listErr.Error())
		return
	}
	if idx < 0 || idx >= len(items) {
		notFound(c, "index out of range")
		return
	}

	ok(c, gin.H{"item": items[idx], "index": idx})
}

// applyOverrides is the single allowed mutation of extracted features before
// routing.
func (s *Server) applyOverrides(ctx context.Context, f *features.EmailFeatures, req *EmailRequest) {
	if req.Category != "" {
		f.Category = req.Category
	} else if f.Category == "" && s.classifier != nil {
		if prediction, err := s.classifier.Classify(ctx, req.fullText()); err == nil {
			f.Category = prediction.Label
		}
	}
	if req.Location != "" {
		loc := req.Location
		f.Location = &loc
	}
}

func (s *Server) logFeatures(ctx context.Context, f *features.EmailFeatures) {
	if s.featureLog == nil {
		return
	}
	raw, err := json.Marshal(f)
	if err != nil {
		s.logger.Warn("failed to encode features for log", zap.Error(err))
		return
	}
	if err := s.featureLog.Append(ctx, raw); err != nil {
		s.logger.Warn("failed to append feature log", zap.Error(err))
	}
}

var musicKeywords = []string{"music", "song", "artist", "concert", "spotify", "band", "album", "track"}

var travelKeywords = []string{"travel", "tourism", "attraction", "visit", "tour", "sightseeing", "landmark"}

func hasMusicContent(text string) bool { return containsAny(text, musicKeywords) }

func hasTravelContent(text string) bool { return containsAny(text, travelKeywords) }

func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func paginationParams(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, errors.New("offset must be a non-negative integer")
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 200 {
		return 0, 0, errors.New("limit must be an integer between 1 and 200")
	}
	return offset, limit, nil
}

func round2(d time.Duration) float64 {
	return float64(int(d.Seconds()*100)) / 100
}
