package main

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rentdesk/pkg/importer"
	"rentdesk/pkg/match"
)

// importSessions is the in-memory registry for running import wizards.
// Sessions live until committed or deleted; a server restart drops them,
// which only costs the operator a re-upload.
var importSessions = struct {
	sync.Mutex
	m map[uuid.UUID]*importer.Session
}{m: make(map[uuid.UUID]*importer.Session)}

func setupImportRoutes(g *gin.RouterGroup) {
	g.POST("/imports", createImportHandler)
	g.GET("/imports/:id", getImportHandler)
	g.PUT("/imports/:id/mappings", setImportMappingsHandler)
	g.PATCH("/imports/:id/rows/:index", editImportRowHandler)
	g.POST("/imports/:id/commit", commitImportHandler)
	g.DELETE("/imports/:id", deleteImportHandler)
}

func lookupImportSession(c *gin.Context) (*importer.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return nil, false
	}
	importSessions.Lock()
	s, ok := importSessions.m[id]
	importSessions.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}

func importSessionResponse(s *importer.Session) gin.H {
	valid, warning, errors := s.Counts()
	return gin.H{
		"id":         s.ID,
		"mode":       s.Mode,
		"headers":    s.Headers,
		"mappings":   s.Mappings,
		"candidates": s.Candidates,
		"counts":     gin.H{"valid": valid, "warning": warning, "error": errors},
	}
}

// createImportHandler takes a multipart CSV upload plus a mode field and
// opens a wizard session with default mappings already applied.
func createImportHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	mode := match.Mode(c.PostForm("mode"))
	switch mode {
	case "":
		mode = match.ModeTenant
	case match.ModeTenant, match.ModeOwner:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be tenant or owner"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()
	headers, rows, err := importer.Parse(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ref, err := store.LoadReferenceData(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reference data"})
		return
	}

	s := importer.NewSession(mode, headers, rows, ref)
	// The wizard reviews rows before commit, so the first-tenant fallback
	// is safe to enable here.
	s.TenantFallback = c.PostForm("tenant_fallback") != "off"
	s.Process()

	importSessions.Lock()
	importSessions.m[s.ID] = s
	importSessions.Unlock()

	logger.Info().Str("session", s.ID.String()).Str("mode", string(mode)).
		Int("rows", len(rows)).Str("file", fileHeader.Filename).Msg("import session opened")
	c.JSON(http.StatusOK, importSessionResponse(s))
}

func getImportHandler(c *gin.Context) {
	s, ok := lookupImportSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, importSessionResponse(s))
}

// setImportMappingsHandler replaces the column mapping and reprocesses
// every row; manual edits made under the old mapping are discarded.
func setImportMappingsHandler(c *gin.Context) {
	s, ok := lookupImportSession(c)
	if !ok {
		return
	}
	var m importer.Mappings
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.Mappings = m
	s.Process()
	c.JSON(http.StatusOK, importSessionResponse(s))
}

func editImportRowHandler(c *gin.Context) {
	s, ok := lookupImportSession(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row index"})
		return
	}
	var patch importer.CandidatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Edit(index, patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.Candidates[index])
}

func commitImportHandler(c *gin.Context) {
	s, ok := lookupImportSession(c)
	if !ok {
		return
	}
	inserted, err := s.Commit(c.Request.Context(), store)
	if err != nil {
		if err == importer.ErrNoImportableRows {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error().Err(err).Str("session", s.ID.String()).Msg("import commit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "commit failed"})
		return
	}

	importSessions.Lock()
	delete(importSessions.m, s.ID)
	importSessions.Unlock()

	_, _, skipped := s.Counts()
	logger.Info().Str("session", s.ID.String()).Int("imported", len(inserted)).
		Int("skipped", skipped).Msg("import committed")
	c.JSON(http.StatusOK, gin.H{"imported": len(inserted), "skipped": skipped})
}

func deleteImportHandler(c *gin.Context) {
	s, ok := lookupImportSession(c)
	if !ok {
		return
	}
	importSessions.Lock()
	delete(importSessions.m, s.ID)
	importSessions.Unlock()
	c.JSON(http.StatusOK, gin.H{"message": "session discarded"})
}
