package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"streamadmin/internal/service"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	DB       *sql.DB
	Catalog  service.CatalogService
	Exports  service.ExportService
	Insights service.InsightsService
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	app.Get("/dashboard", Dashboard(d.Catalog))
	app.Get("/notifications", Notifications(d.Insights))
	app.Get("/analytics", Analytics(d.Insights))

	app.Get("/titles", ListTitles(d.Catalog))
	app.Post("/titles", CreateTitle(d.Catalog))
	app.Get("/titles/:id", GetTitle(d.Catalog))
	app.Put("/titles/:id", UpdateTitle(d.Catalog))
	app.Patch("/titles/:id/status", SetStatus(d.Catalog, service.EntityTitles))
	app.Put("/titles/:id/views", RecordViews(d.Insights))
	app.Put("/titles/:id/interactions", RecordInteractions(d.Insights))

	app.Get("/licenses", ListLicenses(d.Catalog))
	app.Post("/licenses", CreateLicense(d.Catalog))
	app.Get("/licenses/expiring/count", ExpiringLicenseCount(d.Catalog))
	app.Put("/licenses/:id", UpdateLicense(d.Catalog))
	app.Patch("/licenses/:id/status", SetStatus(d.Catalog, service.EntityLicenses))

	app.Get("/providers", ListProviders(d.Catalog))
	app.Post("/providers", CreateProvider(d.Catalog))
	app.Put("/providers/:id", UpdateProvider(d.Catalog))
	app.Patch("/providers/:id/status", SetStatus(d.Catalog, service.EntityProviders))

	app.Get("/genres", ListGenres(d.Catalog))
	app.Post("/genres", CreateGenre(d.Catalog))
	app.Put("/genres/:id", UpdateGenre(d.Catalog))
	app.Delete("/genres/:id", DeleteGenre(d.Catalog))

	app.Get("/origins", ListOrigins(d.Catalog))
	app.Post("/origins", CreateOrigin(d.Catalog))
	app.Put("/origins/:id", UpdateOrigin(d.Catalog))
	app.Delete("/origins/:id", DeleteOrigin(d.Catalog))

	app.Get("/admins", ListAdmins(d.Catalog))
	app.Post("/admins", CreateAdmin(d.Catalog))
	app.Put("/admins/:id", UpdateAdmin(d.Catalog))
	app.Patch("/admins/:id/status", SetStatus(d.Catalog, service.EntityAdmins))

	app.Get("/viewers", ListViewers(d.Catalog))

	app.Post("/exports/:entity", Export(d.Exports))
}
