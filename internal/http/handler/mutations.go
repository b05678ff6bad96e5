package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"streamadmin/internal/model"
	"streamadmin/internal/service"
)

func bind[T any](c *fiber.Ctx) (T, error) {
	var v T
	if err := c.BodyParser(&v); err != nil {
		return v, fmt.Errorf("%w: malformed body", service.ErrInvalidInput)
	}
	return v, nil
}

// createHandler decodes a JSON body into In and answers 201 with the created record.
func createHandler[In, Out any](create func(ctx context.Context, in In) (*Out, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in, err := bind[In](c)
		if err != nil {
			return respond(c, err)
		}
		out, err := create(c.UserContext(), in)
		if err != nil {
			return respond(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
}

// updateHandler is createHandler for PUT /<entity>/:id; it answers 200.
func updateHandler[In, Out any](update func(ctx context.Context, id int64, in In) (*Out, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respond(c, err)
		}
		in, err := bind[In](c)
		if err != nil {
			return respond(c, err)
		}
		out, err := update(c.UserContext(), id, in)
		if err != nil {
			return respond(c, err)
		}
		return c.JSON(out)
	}
}

// deleteHandler serves DELETE /<entity>/:id and answers 204.
func deleteHandler(del func(ctx context.Context, id int64) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return respond(c, err)
		}
		if err := del(c.UserContext(), id); err != nil {
			return respond(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CreateTitle serves POST /titles.
func CreateTitle(svc service.CatalogService) fiber.Handler { return createHandler(svc.CreateTitle) }

// UpdateTitle serves PUT /titles/:id. genre_ids replaces the title's genres.
func UpdateTitle(svc service.CatalogService) fiber.Handler { return updateHandler(svc.UpdateTitle) }

func CreateLicense(svc service.CatalogService) fiber.Handler { return createHandler(svc.CreateLicense) }

func UpdateLicense(svc service.CatalogService) fiber.Handler { return updateHandler(svc.UpdateLicense) }

func CreateProvider(svc service.CatalogService) fiber.Handler {
	return createHandler(svc.CreateProvider)
}

func UpdateProvider(svc service.CatalogService) fiber.Handler {
	return updateHandler(svc.UpdateProvider)
}

func CreateAdmin(svc service.CatalogService) fiber.Handler { return createHandler(svc.CreateAdmin) }

// UpdateAdmin serves PUT /admins/:id. An empty password keeps the current one.
func UpdateAdmin(svc service.CatalogService) fiber.Handler { return updateHandler(svc.UpdateAdmin) }

// UpdateGenre serves PUT /genres/:id.
func UpdateGenre(svc service.CatalogService) fiber.Handler {
	return updateHandler(func(ctx context.Context, id int64, req genreRequest) (*model.Genre, error) {
		return svc.UpdateGenre(ctx, id, req.Name)
	})
}

// DeleteGenre serves DELETE /genres/:id. Titles lose the genre.
func DeleteGenre(svc service.CatalogService) fiber.Handler { return deleteHandler(svc.DeleteGenre) }

// UpdateOrigin serves PUT /origins/:id.
func UpdateOrigin(svc service.CatalogService) fiber.Handler {
	return updateHandler(func(ctx context.Context, id int64, req originRequest) (*model.Origin, error) {
		return svc.UpdateOrigin(ctx, id, req.Country, req.Language)
	})
}

// DeleteOrigin serves DELETE /origins/:id. It answers 409 IN_USE while titles reference it.
func DeleteOrigin(svc service.CatalogService) fiber.Handler { return deleteHandler(svc.DeleteOrigin) }
