package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/service"
)

// listHandler adapts a plain list operation to an endpoint returning the page envelope.
func listHandler[T any](list func(c *fiber.Ctx, p service.ListParams) (*pagination.Page[T], error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := listParams(c)
		if err != nil {
			return respond(c, err)
		}
		page, err := list(c, p)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(page)
	}
}

// ListTitles serves GET /titles. Filters: type, origin, genre.
func ListTitles(svc service.CatalogService) fiber.Handler {
	return listHandler(func(c *fiber.Ctx, p service.ListParams) (*pagination.Page[model.Title], error) {
		tp := service.TitleParams{ListParams: p, Type: c.Query("type")}
		var err error
		if tp.OriginID, err = queryID(c, "origin"); err != nil {
			return nil, err
		}
		if tp.GenreID, err = queryID(c, "genre"); err != nil {
			return nil, err
		}
		return svc.ListTitles(c.UserContext(), tp)
	})
}

// ListLicenses serves GET /licenses. filter is one of all, active, inactive, expiring.
func ListLicenses(svc service.CatalogService) fiber.Handler {
	return listHandler(func(c *fiber.Ctx, p service.ListParams) (*pagination.Page[model.License], error) {
		return svc.ListLicenses(c.UserContext(), service.LicenseParams{ListParams: p, Filter: c.Query("filter")})
	})
}

func ListProviders(svc service.CatalogService) fiber.Handler {
	return listHandler(func(c *fiber.Ctx, p service.ListParams) (*pagination.Page[model.Provider], error) {
		return svc.ListProviders(c.UserContext(), p)
	})
}

func ListGenres(svc service.CatalogService) fiber.Handler {
	return listHandler(func(c *fiber.Ctx, p service.ListParams) (*pagination.Page[model.Genre], error) {
		return svc.ListGenres(c.UserContext(), p)
	})
}

func ListOrigins(svc service.CatalogService) fiber.Handler {
	return listHandler(func(c *fiber.Ctx, p service.ListParams) (*pagination.Page[model.Origin], error) {
		return svc.ListOrigins(c.UserContext(), p)
	})
}

func ListAdmins(svc service.CatalogService) fiber.Handler {
	return listHandler(func(c *fiber.Ctx, p service.ListParams) (*pagination.Page[model.Admin], error) {
		return svc.ListAdmins(c.UserContext(), p)
	})
}

func ListViewers(svc service.CatalogService) fiber.Handler {
	return listHandler(func(c *fiber.Ctx, p service.ListParams) (*pagination.Page[model.Viewer], error) {
		return svc.ListViewers(c.UserContext(), p)
	})
}

// GetTitle serves GET /titles/:id.
func GetTitle(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respond(c, err)
		}
		t, err := svc.GetTitle(c.UserContext(), id)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(t)
	}
}

type statusRequest struct {
	Deleted *bool `json:"deleted"`
}

// SetStatus serves PATCH /<entity>/:id/status with body {"deleted": bool}.
func SetStatus(svc service.CatalogService, entity service.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respond(c, err)
		}
		var req statusRequest
		if err := c.BodyParser(&req); err != nil || req.Deleted == nil {
			return respond(c, fmt.Errorf("%w: body must be {\"deleted\": bool}", service.ErrInvalidInput))
		}
		if err := svc.SetDeleted(c.UserContext(), entity, id, *req.Deleted); err != nil {
			return respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type genreRequest struct {
	Name string `json:"name"`
}

// CreateGenre serves POST /genres.
func CreateGenre(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req genreRequest
		if err := c.BodyParser(&req); err != nil {
			return respond(c, fmt.Errorf("%w: malformed body", service.ErrInvalidInput))
		}
		g, err := svc.CreateGenre(c.UserContext(), req.Name)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(g)
	}
}

type originRequest struct {
	Country  string `json:"country"`
	Language string `json:"language"`
}

// CreateOrigin serves POST /origins.
func CreateOrigin(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req originRequest
		if err := c.BodyParser(&req); err != nil {
			return respond(c, fmt.Errorf("%w: malformed body", service.ErrInvalidInput))
		}
		o, err := svc.CreateOrigin(c.UserContext(), req.Country, req.Language)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

func Dashboard(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sum, err := svc.Dashboard(c.UserContext())
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(sum)
	}
}

func ExpiringLicenseCount(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := svc.CountExpiringLicenses(c.UserContext())
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(fiber.Map{"count": n})
	}
}

// Export serves POST /exports/:entity. It accepts the list query parameters of the entity.
func Export(svc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := listParams(c)
		if err != nil {
			return respond(c, err)
		}
		res, err := svc.Export(c.UserContext(), c.Params("entity"), p)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
