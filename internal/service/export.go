package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/storage"
)

const (
	csvContentType = "text/csv"
	dateLayout     = "2006-01-02"
)

// ExportResult locates an uploaded export.
type ExportResult struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

// ExportService writes whole listings to object storage as CSV.
type ExportService interface {
	// Export renders every record matching p, ignoring its paging fields.
	Export(ctx context.Context, entity string, p ListParams) (*ExportResult, error)
}

type exportService struct {
	catalog CatalogService
	store   storage.Storage
	expiry  time.Duration
	log     zerolog.Logger
}

// NewExportService constructs an ExportService. A nil store disables exports.
func NewExportService(catalog CatalogService, store storage.Storage, expiry time.Duration, log zerolog.Logger) ExportService {
	return &exportService{
		catalog: catalog,
		store:   store,
		expiry:  expiry,
		log:     log.With().Str("component", "export").Logger(),
	}
}

// table is a rendered export before encoding.
type table struct {
	header []string
	rows   [][]string
}

func (s *exportService) Export(ctx context.Context, entity string, p ListParams) (*ExportResult, error) {
	if s.store == nil {
		return nil, ErrExportDisabled
	}

	all := true
	p.ShowAll = &all
	p.Page, p.Size = 0, 0

	t, err := s.render(ctx, entity, p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.header); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	if err := w.WriteAll(t.rows); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.csv", entity, uuid.New().String())
	info, err := s.store.Put(ctx, key, &buf, storage.PutObjectOptions{
		Size:        int64(buf.Len()),
		ContentType: csvContentType,
		Metadata: map[string]string{
			"entity": entity,
			"rows":   strconv.Itoa(len(t.rows)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	url, err := s.store.PresignGet(ctx, info.Key, s.expiry)
	if err != nil {
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("presign failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("presign failed: %w", err)
	}

	s.log.Info().
		Str("entity", entity).
		Str("key", info.Key).
		Int("rows", len(t.rows)).
		Int64("bytes", info.Size).
		Msg("export uploaded")

	return &ExportResult{Key: info.Key, URL: url, Rows: len(t.rows)}, nil
}

func (s *exportService) render(ctx context.Context, entity string, p ListParams) (*table, error) {
	switch entity {
	case "titles":
		page, err := s.catalog.ListTitles(ctx, TitleParams{ListParams: p})
		return tabulate(page, err, []string{"title_id", "name", "type", "release_date", "original", "seasons", "episodes", "country", "language"}, titleRow)
	case "licenses":
		page, err := s.catalog.ListLicenses(ctx, LicenseParams{ListParams: p})
		return tabulate(page, err, []string{"license_id", "title", "provider", "start_date", "end_date", "active", "days_remaining"}, licenseRow)
	case "providers":
		page, err := s.catalog.ListProviders(ctx, p)
		return tabulate(page, err, []string{"provider_id", "name", "email", "phone", "licenses"}, func(v model.Provider) []string {
			return []string{formatID(v.ID), v.Name, v.Email, v.Phone, strconv.Itoa(v.LicenseCount)}
		})
	case "genres":
		page, err := s.catalog.ListGenres(ctx, p)
		return tabulate(page, err, []string{"genre_id", "name", "titles"}, func(v model.Genre) []string {
			return []string{formatID(v.ID), v.Name, strconv.Itoa(v.TitleCount)}
		})
	case "origins":
		page, err := s.catalog.ListOrigins(ctx, p)
		return tabulate(page, err, []string{"origin_id", "country", "language", "titles"}, func(v model.Origin) []string {
			return []string{formatID(v.ID), v.Country, v.Language, strconv.Itoa(v.TitleCount)}
		})
	case "admins":
		page, err := s.catalog.ListAdmins(ctx, p)
		return tabulate(page, err, []string{"admin_id", "username", "email", "role", "created_date"}, func(v model.Admin) []string {
			return []string{formatID(v.ID), v.Username, v.Email, v.Role, v.CreatedDate.Format(dateLayout)}
		})
	case "viewers":
		page, err := s.catalog.ListViewers(ctx, p)
		return tabulate(page, err, []string{"viewer_id", "username", "email", "created_date"}, func(v model.Viewer) []string {
			return []string{formatID(v.ID), v.Username, v.Email, v.CreatedDate.Format(dateLayout)}
		})
	}
	return nil, ErrNotFound
}

func tabulate[T any](page *pagination.Page[T], err error, header []string, row func(T) []string) (*table, error) {
	if err != nil {
		return nil, err
	}
	t := &table{header: header, rows: make([][]string, 0, len(page.Data))}
	for _, v := range page.Data {
		t.rows = append(t.rows, row(v))
	}
	return t, nil
}

func titleRow(v model.Title) []string {
	release := ""
	if v.OriginalReleaseDate != nil {
		release = v.OriginalReleaseDate.Format(dateLayout)
	}
	return []string{
		formatID(v.ID), v.Name, v.Type, release, strconv.FormatBool(v.IsOriginal),
		optInt(v.SeasonCount), optInt(v.EpisodeCount), v.Country, v.Language,
	}
}

func licenseRow(v model.License) []string {
	return []string{
		formatID(v.ID), v.TitleName, v.ProviderName,
		v.StartDate.Format(dateLayout), v.EndDate.Format(dateLayout),
		strconv.FormatBool(v.IsActive), strconv.Itoa(v.DaysRemaining),
	}
}

func formatID(v int64) string {
	return strconv.FormatInt(v, 10)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
