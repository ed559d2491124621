package api

import (
	"context"
	"embed"
	"html/template"
	"net/http"

	"github.com/axellelanca/urlshortener-frontend/internal/models"
	"github.com/axellelanca/urlshortener-frontend/internal/services"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// StatsLoader loads the stats page data. *services.StatsService implements it.
type StatsLoader interface {
	Load(ctx context.Context) ([]models.StatsItem, error)
}

// shortenPage is the data rendered by shorten.tmpl
type shortenPage struct {
	Rows    []models.Row
	Results []models.Result
}

// statsPage is the data rendered by stats.tmpl
type statsPage struct {
	APIBase string
	Items   []models.StatsItem
}

// SetupRoutes configures the page routes and injects the services they use.
// Parameters:
//   - router: Gin engine instance to configure routes on
//   - submitter: pipeline behind the shorten form
//   - stats: loader behind the stats page
//   - apiBase: backend base URL, used to build short links on the stats page
func SetupRoutes(router *gin.Engine, submitter services.Submitter, stats StatsLoader, apiBase string) {
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))

	// Health Check Route - used for monitoring service availability
	router.GET("/health", HealthCheckHandler)

	router.GET("/", ShortenFormHandler())
	router.POST("/", SubmitHandler(submitter))
	router.GET("/stats", StatsHandler(stats, apiBase))
}

// HealthCheckHandler handles the /health route to verify service status
func HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ShortenFormHandler renders the empty five-row form.
func ShortenFormHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "shorten.tmpl", shortenPage{Rows: make([]models.Row, services.MaxRows)})
	}
}

// SubmitHandler validates the posted rows, submits them in one batch and
// renders the form again with its results. Each request drives its own form.
func SubmitHandler(submitter services.Submitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows := rowsFromForm(c)

		// a fresh form is never busy, so Submit cannot refuse here
		st, _ := services.NewForm(submitter).Submit(c.Request.Context(), rows)

		page := shortenPage{Rows: padRows(rows)}
		switch s := st.(type) {
		case services.Done:
			page.Results = s.Results
		case services.Failed:
			page.Results = s.Results
		}
		c.HTML(http.StatusOK, "shorten.tmpl", page)
	}
}

// StatsHandler renders every shortened link with its clicks. A failed load
// renders an empty list; the failure itself is logged by the loader.
func StatsHandler(stats StatsLoader, apiBase string) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, _ := stats.Load(c.Request.Context())
		c.HTML(http.StatusOK, "stats.tmpl", statsPage{APIBase: apiBase, Items: items})
	}
}

// rowsFromForm rebuilds rows from the parallel input arrays of the form.
func rowsFromForm(c *gin.Context) []models.Row {
	urls := c.PostFormArray("originalUrl")
	validity := c.PostFormArray("validityMinutes")
	codes := c.PostFormArray("preferredShortcode")

	n := max(len(urls), len(validity), len(codes))
	rows := make([]models.Row, n)
	for i := range rows {
		rows[i] = models.Row{
			OriginalURL:        at(urls, i),
			ValidityMinutes:    at(validity, i),
			PreferredShortcode: at(codes, i),
		}
	}
	return rows
}

func padRows(rows []models.Row) []models.Row {
	for len(rows) < services.MaxRows {
		rows = append(rows, models.Row{})
	}
	return rows
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
