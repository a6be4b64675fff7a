package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebServer holds the HTTP server configuration
type WebServer struct {
	config   *Config
	addr     string
	holder   *StoreHolder
	metrics  *Metrics
	template *template.Template
	engine   *gin.Engine
}

// NewWebServer creates a new web server instance around a loaded store
func NewWebServer(config *Config, holder *StoreHolder, metrics *Metrics) (*WebServer, error) {
	tmpl, err := ParseTemplates()
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	ws := &WebServer{
		config:   config,
		addr:     config.Server.GetAddr(),
		holder:   holder,
		metrics:  metrics,
		template: tmpl,
	}
	ws.engine = ws.routes()
	return ws, nil
}

// APIResponse is the envelope for every JSON endpoint
type APIResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// APITaxResponse is the payload of the ad-hoc and per-persona tax endpoints
type APITaxResponse struct {
	Persona *Persona  `json:"persona,omitempty"`
	Detail  TaxDetail `json:"detail"`
}

// Handler exposes the router, mainly for tests
func (ws *WebServer) Handler() http.Handler {
	return ws.engine
}

func (ws *WebServer) routes() *gin.Engine {
	if ws.config.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CorrelationIDMiddleware())
	r.Use(RequestLoggingMiddleware(ws.metrics))

	corsConfig := cors.DefaultConfig()
	if len(ws.config.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = ws.config.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	corsConfig.AddExposeHeaders(CorrelationIDHeader, "Content-Disposition")
	r.Use(cors.New(corsConfig))

	// Pages
	r.GET("/", ws.handleIndex)
	r.GET("/explore/:persona", ws.handleProfile)
	r.GET("/explore/:persona/:page", ws.handleJourneyPage)
	r.GET("/charts/:persona/:chart", ws.handleChart)

	// JSON API
	api := r.Group("/api")
	api.GET("/personas", ws.handleListPersonas)
	api.GET("/personas/:id", ws.handleGetPersona)
	api.GET("/personas/:id/tax", ws.handlePersonaTax)
	api.GET("/tax", ws.handleTax)
	api.GET("/compare", ws.handleCompare)
	api.GET("/data/:kind", ws.handleData)
	api.GET("/export-pdf/:id", ws.handleExportPDF)

	r.GET("/healthz", ws.handleHealth)
	r.GET("/metrics", gin.WrapH(ws.metrics.Handler()))

	r.NoRoute(func(c *gin.Context) {
		ws.renderNotFound(c, "Page not found")
	})
	return r
}

// listen opens the listener and works out the browser URL
func (ws *WebServer) listen() (net.Listener, string, error) {
	// Listen on the address (use :0 for auto-assign)
	listener, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return nil, "", err
	}

	actualAddr := listener.Addr().String()
	url := fmt.Sprintf("http://%s", actualAddr)

	// If listening on all interfaces, use localhost for the URL
	if strings.HasPrefix(actualAddr, ":") || strings.HasPrefix(actualAddr, "0.0.0.0:") || strings.HasPrefix(actualAddr, "[::]:") {
		port := actualAddr[strings.LastIndex(actualAddr, ":")+1:]
		url = fmt.Sprintf("http://localhost:%s", port)
	}
	return listener, url, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (ws *WebServer) Start(ctx context.Context) error {
	listener, url, err := ws.listen()
	if err != nil {
		return err
	}

	Log.Info("Starting web server", zap.String("addr", listener.Addr().String()), zap.String("url", url))
	if ws.config.Server.OpenBrowser {
		Log.Info("Opening browser", zap.String("url", url))
		go openBrowser(url)
	}

	server := &http.Server{Handler: ws.engine, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		Log.Info("Shutting down web server")
		return server.Shutdown(shutdownCtx)
	}
}

// StartForEmbedded starts the server and returns the URL and a cleanup function.
// Unlike Start(), this does NOT open the browser and does NOT block.
// The caller is responsible for stopping the server via the cleanup function.
func (ws *WebServer) StartForEmbedded() (url string, cleanup func(), err error) {
	listener, url, err := ws.listen()
	if err != nil {
		return "", nil, err
	}

	Log.Info("Starting embedded web server", zap.String("addr", listener.Addr().String()))

	server := &http.Server{Handler: ws.engine, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			Log.Error("Server error", zap.Error(err))
		}
	}()

	cleanup = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			Log.Warn("Server shutdown", zap.Error(err))
		}
	}

	return url, cleanup, nil
}

// renderHTML buffers a template so a failure can still become a clean 500
func (ws *WebServer) renderHTML(c *gin.Context, status int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		requestLogger(c).Error("Template failed", zap.Error(err))
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Error loading data")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (ws *WebServer) renderNotFound(c *gin.Context, message string) {
	data := newPageData(ws.holder.Get(), nil, linksServer)
	data.Title = message
	ws.renderHTML(c, http.StatusNotFound, func(buf *bytes.Buffer) error {
		return ws.template.ExecuteTemplate(buf, "notfound", data)
	})
}

// handleIndex serves the persona selection page
func (ws *WebServer) handleIndex(c *gin.Context) {
	store := ws.holder.Get()
	ws.renderHTML(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return renderHome(buf, ws.template, store, linksServer)
	})
}

// handleProfile redirects unknown personas back to the selection page
func (ws *WebServer) handleProfile(c *gin.Context) {
	p, err := NewPerspective(ws.holder.Get(), c.Param("persona"), PageProfile)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	ws.renderHTML(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return renderPage(buf, ws.template, p, linksServer)
	})
}

func (ws *WebServer) handleJourneyPage(c *gin.Context) {
	page, ok := ParsePage(c.Param("page"))
	if !ok || page == PageProfile {
		ws.renderNotFound(c, "Page not found")
		return
	}
	p, err := NewPerspective(ws.holder.Get(), c.Param("persona"), page)
	if err != nil {
		ws.renderNotFound(c, "Persona not found")
		return
	}
	if page == PageTaxation {
		ws.metrics.ObserveTax("persona")
	}
	ws.renderHTML(c, http.StatusOK, func(buf *bytes.Buffer) error {
		return renderPage(buf, ws.template, p, linksServer)
	})
}

func (ws *WebServer) handleChart(c *gin.Context) {
	name, ok := strings.CutSuffix(c.Param("chart"), ".svg")
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	p, err := NewPerspective(ws.holder.Get(), c.Param("persona"), PageEngagement)
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	svg, err := PersonaChartSVG(p, name)
	switch {
	case errors.Is(err, ErrUnknownChart):
		c.Status(http.StatusNotFound)
	case err != nil:
		requestLogger(c).Error("Chart failed", zap.String("chart", name), zap.Error(err))
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
	default:
		c.Header("Cache-Control", "no-cache")
		c.Data(http.StatusOK, "image/svg+xml", svg)
	}
}

// sendJSONError sends a JSON error response
func sendJSONError(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   message,
	})
}

func sendJSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func (ws *WebServer) handleListPersonas(c *gin.Context) {
	sendJSON(c, ws.holder.Get().Personas())
}

func (ws *WebServer) handleGetPersona(c *gin.Context) {
	persona, ok := ws.holder.Get().Persona(c.Param("id"))
	if !ok {
		sendJSONError(c, http.StatusNotFound, fmt.Sprintf("persona %q not found", c.Param("id")))
		return
	}
	sendJSON(c, persona)
}

func (ws *WebServer) handlePersonaTax(c *gin.Context) {
	p, err := NewPerspective(ws.holder.Get(), c.Param("id"), PageTaxation)
	if err != nil {
		sendJSONError(c, http.StatusNotFound, err.Error())
		return
	}
	ws.metrics.ObserveTax("persona")
	sendJSON(c, APITaxResponse{Persona: &p.Persona, Detail: p.Detail})
}

// handleTax computes a breakdown for any income and municipality
func (ws *WebServer) handleTax(c *gin.Context) {
	raw := c.Query("income")
	if raw == "" {
		sendJSONError(c, http.StatusBadRequest, "income is required")
		return
	}
	income, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(income) || math.IsInf(income, 0) {
		sendJSONError(c, http.StatusBadRequest, fmt.Sprintf("invalid income %q", raw))
		return
	}
	municipality := c.Query("municipality")

	ws.metrics.ObserveTax("adhoc")
	detail := ComputeTaxDetail(income, municipality, ws.holder.Get().Tax)
	sendJSON(c, APITaxResponse{Detail: detail})
}

func (ws *WebServer) handleCompare(c *gin.Context) {
	store := ws.holder.Get()
	ws.metrics.ObserveTax("compare")
	sendJSON(c, CompareTax(store.Personas(), store.Tax))
}

func (ws *WebServer) handleData(c *gin.Context) {
	store := ws.holder.Get()
	switch c.Param("kind") {
	case "spending":
		sendJSON(c, store.Spending)
	case "influence":
		sendJSON(c, store.Influence)
	case "engagement":
		sendJSON(c, store.Engagement)
	case "tax":
		sendJSON(c, store.Tax)
	default:
		sendJSONError(c, http.StatusNotFound, fmt.Sprintf("unknown data set %q", c.Param("kind")))
	}
}

// handleExportPDF returns PDF content directly for browser download
func (ws *WebServer) handleExportPDF(c *gin.Context) {
	p, err := NewPerspective(ws.holder.Get(), c.Param("id"), PageTaxation)
	if err != nil {
		sendJSONError(c, http.StatusNotFound, err.Error())
		return
	}

	pdfBytes, err := GenerateTaxPDFReport(p)
	if err != nil {
		requestLogger(c).Error("PDF generation failed", zap.String("persona", p.Persona.ID), zap.Error(err))
		sendJSONError(c, http.StatusInternalServerError, "Failed to generate PDF: "+err.Error())
		return
	}

	filename := fmt.Sprintf("tax-report-%s.pdf", p.Persona.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (ws *WebServer) handleHealth(c *gin.Context) {
	store := ws.holder.Get()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  Version,
		"personas": len(store.Personas()),
	})
}
