package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"streamadmin/internal/service"
)

// listParams reads the query parameters shared by every list endpoint. Absent values stay
// zero so that the service can apply its defaults.
func listParams(c *fiber.Ctx) (service.ListParams, error) {
	p := service.ListParams{
		Search: c.Query("q"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
		Status: c.Query("status"),
	}

	var err error
	if p.Page, err = queryInt(c, "page"); err != nil {
		return p, err
	}
	if p.Size, err = queryInt(c, "size"); err != nil {
		return p, err
	}
	if raw := c.Query("showAll"); raw != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return p, fmt.Errorf("%w: showAll must be true or false", service.ErrInvalidInput)
		}
		p.ShowAll = &b
	}
	return p, nil
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidInput, key)
	}
	return n, nil
}

func queryID(c *fiber.Ctx, key string) (int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidInput, key)
	}
	return n, nil
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid id format", service.ErrInvalidInput)
	}
	return id, nil
}
