package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abusehound/lattice/internal/cache"
	"github.com/abusehound/lattice/internal/config"
	"github.com/abusehound/lattice/internal/core"
	"github.com/abusehound/lattice/internal/core/content"
	"github.com/abusehound/lattice/internal/core/model"
	"github.com/abusehound/lattice/internal/core/risk"
	"github.com/abusehound/lattice/internal/store"
)

type Server struct {
	Engine *core.Engine
	Cache  *cache.AssessmentCache

	// Default similarity threshold for content clustering when the
	// request does not set one.
	ContentThreshold float64
}

// NewServer wires the engine to its collaborators. A collaborator that
// cannot be reached degrades to "no data" rather than aborting startup;
// the engine is specified to keep working with whatever is available.
// An empty cfgPath falls back to $CONFIG_PATH, then the default location.
func NewServer(cfgPath string) *Server {
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}
	if uri := os.Getenv("GRAPH_URI"); uri != "" {
		cfg.Graph.URI = uri
	}
	if user := os.Getenv("GRAPH_USER"); user != "" {
		cfg.Graph.User = user
	}
	if pass := os.Getenv("GRAPH_PASSWORD"); pass != "" {
		cfg.Graph.Password = pass
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		cfg.Database.Path = path
	}

	var graph store.GraphQuerier = store.NopGraph{}
	if g, err := store.NewBoltGraph(cfg.Graph.URI, cfg.Graph.User, cfg.Graph.Password); err != nil {
		log.Printf("Warning: graph store unavailable: %v. Graph signals disabled", err)
	} else {
		store.BuildIndices(context.Background(), g)
		graph = g
	}

	var db store.RelationalStore
	if s, err := store.NewSQLiteStore(cfg.Database.Path); err != nil {
		log.Printf("Warning: relational store unavailable: %v. History and network signals disabled", err)
	} else {
		log.Printf("Connected to relational store at %s", cfg.Database.Path)
		db = s
	}

	engine := core.NewEngine(graph, db)
	if cfg.Engine.ConfidenceFloor > 0 {
		engine.Detector.ConfidenceFloor = cfg.Engine.ConfidenceFloor
	}

	return &Server{
		Engine: engine,
		Cache: cache.NewAssessmentCache(
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
			time.Duration(cfg.Cache.CleanupSeconds)*time.Second,
		),
		ContentThreshold: cfg.Engine.ContentThreshold,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.POST("/clusters/detect", s.handleDetectClusters)
		v1.POST("/clusters/content", s.handleContentClusters)
		v1.GET("/clusters/vendors", s.handleVendorClusters)
		v1.POST("/risk/assess", s.handleAssessRisk)
	}

	return r
}

type entityRequest struct {
	ID         string         `json:"id" binding:"required"`
	Enrichment map[string]any `json:"enrichment"`
	Attributes map[string]any `json:"attributes"`
}

type detectRequest struct {
	Phones  []entityRequest `json:"phones"`
	Domains []entityRequest `json:"domains"`
	Wallets []entityRequest `json:"wallets"`
	Handles []entityRequest `json:"handles"`
}

func toEntities(reqs []entityRequest, entityType model.EntityType) []model.Entity {
	entities := make([]model.Entity, 0, len(reqs))
	for _, r := range reqs {
		entities = append(entities, model.Entity{
			Type:       entityType,
			ID:         r.ID,
			Enrichment: model.ParseEnrichment(r.Enrichment),
			Attributes: r.Attributes,
		})
	}
	return entities
}

func (s *Server) handleDetectClusters(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clusters := s.Engine.DetectClusters(c.Request.Context(), model.EntitiesByType{
		Phones:  toEntities(req.Phones, model.EntityPhone),
		Domains: toEntities(req.Domains, model.EntityDomain),
		Wallets: toEntities(req.Wallets, model.EntityWallet),
		Handles: toEntities(req.Handles, model.EntityHandle),
	})

	c.JSON(http.StatusOK, gin.H{"clusters": clusters, "count": len(clusters)})
}

type contentRequest struct {
	Vendors   []model.Vendor `json:"vendors" binding:"required"`
	Threshold float64        `json:"threshold"`
	MinSize   int            `json:"min_size"`
}

func (s *Server) handleContentClusters(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	threshold := req.Threshold
	if threshold <= 0 {
		threshold = s.ContentThreshold
	}
	clusters := s.Engine.DetectContentClusters(req.Vendors, content.Options{
		Threshold: threshold,
		MinSize:   req.MinSize,
	})

	c.JSON(http.StatusOK, gin.H{"clusters": clusters, "count": len(clusters)})
}

func (s *Server) handleVendorClusters(c *gin.Context) {
	clusters := s.Engine.DetectVendorClusters(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"clusters": clusters, "count": len(clusters)})
}

type assessRequest struct {
	EntityType string                 `json:"entity_type" binding:"required"`
	Value      string                 `json:"value" binding:"required"`
	Enrichment map[string]any         `json:"enrichment"`
	History    *model.InternalHistory `json:"history"`
}

func (s *Server) handleAssessRisk(c *gin.Context) {
	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entityType, err := model.ParseEntityType(req.EntityType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cached, ok := s.Cache.Get(entityType, req.Value); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	assessment := s.Engine.AssessRisk(c.Request.Context(), risk.Request{
		EntityType: entityType,
		Value:      req.Value,
		Enrichment: model.ParseEnrichment(req.Enrichment),
		History:    req.History,
	})
	s.Cache.Put(assessment)

	c.JSON(http.StatusOK, assessment)
}
