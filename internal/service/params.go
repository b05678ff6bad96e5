package service

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"streamadmin/internal/config"
	"streamadmin/internal/repository"
)

// ListParams are list query parameters as a client sent them. Zero values mean "not given".
type ListParams struct {
	Page    int    `validate:"gte=0"`
	Size    int    `validate:"gte=0"`
	ShowAll *bool  `validate:"-"`
	Search  string `validate:"max=200"`
	Sort    string `validate:"max=64"`
	Order   string `validate:"omitempty,oneof=asc desc ASC DESC"`
	Status  string `validate:"omitempty,oneof=active deleted"`
}

// TitleParams adds the title listing filters.
type TitleParams struct {
	ListParams
	Type     string `validate:"omitempty,oneof=Movie Series"`
	OriginID int64  `validate:"gte=0"`
	GenreID  int64  `validate:"gte=0"`
}

// LicenseParams adds the license availability filter.
type LicenseParams struct {
	ListParams
	Filter string `validate:"omitempty,oneof=all active inactive expiring"`
}

type genreInput struct {
	Name string `validate:"required,max=100"`
}

type originInput struct {
	Country  string `validate:"required,max=100"`
	Language string `validate:"required,max=100"`
}

// normalizer turns raw parameters into repository options.
type normalizer struct {
	validate *validator.Validate
	limits   config.PaginationConfig
}

func newNormalizer(limits config.PaginationConfig) normalizer {
	return normalizer{validate: validator.New(), limits: limits}
}

// options applies the listing defaults. Without page or showAll the whole set is returned.
// The page size cap only applies to windowed reads.
func (n normalizer) options(p ListParams) (repository.ListOptions, error) {
	showAll := p.Page == 0
	if p.ShowAll != nil {
		showAll = *p.ShowAll
	}

	opts := repository.ListOptions{
		Search:   strings.TrimSpace(p.Search),
		Status:   p.Status,
		Sort:     p.Sort,
		Order:    p.Order,
		Page:     p.Page,
		PageSize: p.Size,
		ShowAll:  showAll,
	}
	if opts.Status == "" {
		opts.Status = repository.StatusActive
	}
	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.PageSize == 0 {
		opts.PageSize = n.limits.DefaultPageSize
	}
	if !showAll && opts.PageSize > n.limits.MaxPageSize {
		return repository.ListOptions{}, invalid(errPageSizeTooLarge(n.limits.MaxPageSize))
	}
	return opts, nil
}

func (n normalizer) check(v any) error {
	return checkStruct(n.validate, v)
}

func checkStruct(validate *validator.Validate, v any) error {
	if err := validate.Struct(v); err != nil {
		out, _ := classify(err)
		return out
	}
	return nil
}

func errPageSizeTooLarge(limit int) error {
	return fmt.Errorf("size: must be at most %d", limit)
}
