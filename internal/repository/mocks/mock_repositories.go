package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"streamadmin/internal/model"
	"streamadmin/internal/pagination"
	"streamadmin/internal/repository"
)

type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) List(ctx context.Context, opts repository.ListOptions, f repository.TitleFilter) (*pagination.Page[model.Title], error) {
	args := m.Called(ctx, opts, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Title]), args.Error(1)
}

func (m *MockTitleRepository) FindByID(ctx context.Context, id int64) (*model.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Title), args.Error(1)
}

func (m *MockTitleRepository) Create(ctx context.Context, in repository.TitleInput) (int64, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTitleRepository) Update(ctx context.Context, id int64, in repository.TitleInput) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockTitleRepository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	args := m.Called(ctx, id, deleted)
	return args.Error(0)
}

type MockLicenseRepository struct {
	mock.Mock
}

func (m *MockLicenseRepository) List(ctx context.Context, opts repository.ListOptions, f repository.LicenseFilter) (*pagination.Page[model.License], error) {
	args := m.Called(ctx, opts, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.License]), args.Error(1)
}

func (m *MockLicenseRepository) FindByID(ctx context.Context, id int64) (*model.License, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.License), args.Error(1)
}

func (m *MockLicenseRepository) Create(ctx context.Context, in repository.LicenseInput) (int64, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLicenseRepository) Update(ctx context.Context, id int64, in repository.LicenseInput) error {
	args := m.Called(ctx, id, in)
	return args.Error(0)
}

func (m *MockLicenseRepository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	args := m.Called(ctx, id, deleted)
	return args.Error(0)
}

func (m *MockLicenseRepository) CountExpiring(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Provider], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Provider]), args.Error(1)
}

func (m *MockProviderRepository) Create(ctx context.Context, in repository.ProviderInput) (*model.Provider, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Provider), args.Error(1)
}

func (m *MockProviderRepository) Update(ctx context.Context, id int64, in repository.ProviderInput) (*model.Provider, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Provider), args.Error(1)
}

func (m *MockProviderRepository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	args := m.Called(ctx, id, deleted)
	return args.Error(0)
}

type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Genre], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Genre]), args.Error(1)
}

func (m *MockGenreRepository) Create(ctx context.Context, name string) (*model.Genre, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Genre), args.Error(1)
}

func (m *MockGenreRepository) Update(ctx context.Context, id int64, name string) (*model.Genre, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Genre), args.Error(1)
}

func (m *MockGenreRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOriginRepository struct {
	mock.Mock
}

func (m *MockOriginRepository) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Origin], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Origin]), args.Error(1)
}

func (m *MockOriginRepository) Create(ctx context.Context, country, language string) (*model.Origin, error) {
	args := m.Called(ctx, country, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Origin), args.Error(1)
}

func (m *MockOriginRepository) Update(ctx context.Context, id int64, country, language string) (*model.Origin, error) {
	args := m.Called(ctx, id, country, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Origin), args.Error(1)
}

func (m *MockOriginRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Admin], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Admin]), args.Error(1)
}

func (m *MockAdminRepository) Create(ctx context.Context, in repository.AdminInput) (*model.Admin, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) Update(ctx context.Context, id int64, in repository.AdminInput) (*model.Admin, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Admin), args.Error(1)
}

func (m *MockAdminRepository) SetDeleted(ctx context.Context, id int64, deleted bool) error {
	args := m.Called(ctx, id, deleted)
	return args.Error(0)
}

type MockViewerRepository struct {
	mock.Mock
}

func (m *MockViewerRepository) List(ctx context.Context, opts repository.ListOptions) (*pagination.Page[model.Viewer], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[model.Viewer]), args.Error(1)
}

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardSummary), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) ExpiringLicenses(ctx context.Context, limit int) ([]model.ExpiringLicense, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExpiringLicense), args.Error(1)
}

func (m *MockNotificationRepository) RecentTitles(ctx context.Context, limit int) ([]model.RecentTitle, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecentTitle), args.Error(1)
}

type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Report(ctx context.Context) (*model.Analytics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analytics), args.Error(1)
}

func (m *MockAnalyticsRepository) RecordViews(ctx context.Context, titleID int64, day time.Time, views int64) error {
	args := m.Called(ctx, titleID, day, views)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) RecordInteractions(ctx context.Context, titleID int64, day time.Time, likes, listAdds int64) error {
	args := m.Called(ctx, titleID, day, likes, listAdds)
	return args.Error(0)
}
