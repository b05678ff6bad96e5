package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/service"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListTitles(ctx context.Context, p service.TitleParams) (*pagination.Page[model.Title], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Title]), args.Error(1)
}

func (m *MockCatalogService) GetTitle(ctx context.Context, id int64) (*model.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Title), args.Error(1)
}

func (m *MockCatalogService) ListLicenses(ctx context.Context, p service.LicenseParams) (*pagination.Page[model.License], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.License]), args.Error(1)
}

func (m *MockCatalogService) ListProviders(ctx context.Context, p service.ListParams) (*pagination.Page[model.Provider], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Provider]), args.Error(1)
}

func (m *MockCatalogService) ListGenres(ctx context.Context, p service.ListParams) (*pagination.Page[model.Genre], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Genre]), args.Error(1)
}

func (m *MockCatalogService) ListOrigins(ctx context.Context, p service.ListParams) (*pagination.Page[model.Origin], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Origin]), args.Error(1)
}

func (m *MockCatalogService) ListAdmins(ctx context.Context, p service.ListParams) (*pagination.Page[model.Admin], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Admin]), args.Error(1)
}

func (m *MockCatalogService) ListViewers(ctx context.Context, p service.ListParams) (*pagination.Page[model.Viewer], error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Viewer]), args.Error(1)
}

func (m *MockCatalogService) SetDeleted(ctx context.Context, entity service.Entity, id int64, deleted bool) error {
	args := m.Called(ctx, entity, id, deleted)
	return args.Error(0)
}

func (m *MockCatalogService) CreateGenre(ctx context.Context, name string) (*model.Genre, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Genre), args.Error(1)
}

func (m *MockCatalogService) CreateOrigin(ctx context.Context, country, language string) (*model.Origin, error) {
	args := m.Called(ctx, country, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Origin), args.Error(1)
}

func (m *MockCatalogService) Dashboard(ctx context.Context) (*model.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardSummary), args.Error(1)
}

func (m *MockCatalogService) CountExpiringLicenses(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCatalogService) CreateTitle(ctx context.Context, in service.TitleInput) (*model.Title, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Title), args.Error(1)
}

func (m *MockCatalogService) UpdateTitle(ctx context.Context, id int64, in service.TitleInput) (*model.Title, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Title), args.Error(1)
}

func (m *MockCatalogService) CreateLicense(ctx context.Context, in service.LicenseInput) (*model.License, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.License), args.Error(1)
}

func (m *MockCatalogService) UpdateLicense(ctx context.Context, id int64, in service.LicenseInput) (*model.License, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.License), args.Error(1)
}

func (m *MockCatalogService) CreateProvider(ctx context.Context, in service.ProviderInput) (*model.Provider, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Provider), args.Error(1)
}

func (m *MockCatalogService) UpdateProvider(ctx context.Context, id int64, in service.ProviderInput) (*model.Provider, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Provider), args.Error(1)
}

func (m *MockCatalogService) CreateAdmin(ctx context.Context, in service.AdminInput) (*model.Admin, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockCatalogService) UpdateAdmin(ctx context.Context, id int64, in service.AdminInput) (*model.Admin, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockCatalogService) UpdateGenre(ctx context.Context, id int64, name string) (*model.Genre, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Genre), args.Error(1)
}

func (m *MockCatalogService) DeleteGenre(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) UpdateOrigin(ctx context.Context, id int64, country, language string) (*model.Origin, error) {
	args := m.Called(ctx, id, country, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Origin), args.Error(1)
}

func (m *MockCatalogService) DeleteOrigin(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, entity string, p service.ListParams) (*service.ExportResult, error) {
	args := m.Called(ctx, entity, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}

type MockInsightsService struct {
	mock.Mock
}

func (m *MockInsightsService) Notifications(ctx context.Context) ([]model.Notification, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockInsightsService) Analytics(ctx context.Context) (*model.Analytics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analytics), args.Error(1)
}

func (m *MockInsightsService) RecordViews(ctx context.Context, titleID int64, in service.ViewInput) error {
	args := m.Called(ctx, titleID, in)
	return args.Error(0)
}

func (m *MockInsightsService) RecordInteractions(ctx context.Context, titleID int64, in service.InteractionInput) error {
	args := m.Called(ctx, titleID, in)
	return args.Error(0)
}
