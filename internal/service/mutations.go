package service

import (
	"context"

	"streamadmin/internal/model"
	"streamadmin/internal/repository"
)

func (s *catalogService) CreateTitle(ctx context.Context, in TitleInput) (*model.Title, error) {
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	rec, err := titleRecord(in)
	if err != nil {
		return nil, err
	}
	id, err := s.repos.Titles.Create(ctx, rec)
	if err != nil {
		return nil, s.fail("create_title", err)
	}
	s.log.Info().Int64("title_id", id).Int("genres", len(rec.GenreIDs)).Msg("title created")
	return s.GetTitle(ctx, id)
}

func (s *catalogService) UpdateTitle(ctx context.Context, id int64, in TitleInput) (*model.Title, error) {
	if id < 1 {
		return nil, invalid(errBadID)
	}
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	rec, err := titleRecord(in)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Titles.Update(ctx, id, rec); err != nil {
		return nil, s.fail("update_title", err)
	}
	return s.GetTitle(ctx, id)
}

func (s *catalogService) CreateLicense(ctx context.Context, in LicenseInput) (*model.License, error) {
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	rec, err := licenseRecord(in)
	if err != nil {
		return nil, err
	}
	rec.IsActive = true
	id, err := s.repos.Licenses.Create(ctx, rec)
	if err != nil {
		return nil, s.fail("create_license", err)
	}
	s.log.Info().Int64("license_id", id).Int64("title_id", rec.TitleID).Msg("license created")
	return s.getLicense(ctx, id)
}

func (s *catalogService) UpdateLicense(ctx context.Context, id int64, in LicenseInput) (*model.License, error) {
	if id < 1 {
		return nil, invalid(errBadID)
	}
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	rec, err := licenseRecord(in)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Licenses.Update(ctx, id, rec); err != nil {
		return nil, s.fail("update_license", err)
	}
	return s.getLicense(ctx, id)
}

func (s *catalogService) getLicense(ctx context.Context, id int64) (*model.License, error) {
	l, err := s.repos.Licenses.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("get_license", err)
	}
	return l, nil
}

func (s *catalogService) CreateProvider(ctx context.Context, in ProviderInput) (*model.Provider, error) {
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	p, err := s.repos.Providers.Create(ctx, repository.ProviderInput(in))
	if err != nil {
		return nil, s.fail("create_provider", err)
	}
	return p, nil
}

func (s *catalogService) UpdateProvider(ctx context.Context, id int64, in ProviderInput) (*model.Provider, error) {
	if id < 1 {
		return nil, invalid(errBadID)
	}
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	p, err := s.repos.Providers.Update(ctx, id, repository.ProviderInput(in))
	if err != nil {
		return nil, s.fail("update_provider", err)
	}
	return p, nil
}

func (s *catalogService) CreateAdmin(ctx context.Context, in AdminInput) (*model.Admin, error) {
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, invalid(errPasswordMissing)
	}
	rec, err := s.adminRecord(in)
	if err != nil {
		return nil, err
	}
	a, err := s.repos.Admins.Create(ctx, rec)
	if err != nil {
		return nil, s.fail("create_admin", err)
	}
	s.log.Info().Int64("admin_id", a.ID).Str("role", a.Role).Msg("admin created")
	return a, nil
}

func (s *catalogService) UpdateAdmin(ctx context.Context, id int64, in AdminInput) (*model.Admin, error) {
	if id < 1 {
		return nil, invalid(errBadID)
	}
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	rec, err := s.adminRecord(in)
	if err != nil {
		return nil, err
	}
	a, err := s.repos.Admins.Update(ctx, id, rec)
	if err != nil {
		return nil, s.fail("update_admin", err)
	}
	return a, nil
}

// adminRecord hashes a non-empty password; an empty one stays empty.
func (s *catalogService) adminRecord(in AdminInput) (repository.AdminInput, error) {
	rec := repository.AdminInput{Username: in.Username, Email: in.Email, Role: in.Role}
	if in.Password == "" {
		return rec, nil
	}
	h, err := s.hash(in.Password)
	if err != nil {
		return rec, s.fail("hash_password", err)
	}
	rec.PasswordHash = h
	return rec, nil
}

func (s *catalogService) UpdateGenre(ctx context.Context, id int64, name string) (*model.Genre, error) {
	if id < 1 {
		return nil, invalid(errBadID)
	}
	in := genreInput{Name: name}
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	g, err := s.repos.Genres.Update(ctx, id, in.Name)
	if err != nil {
		return nil, s.fail("update_genre", err)
	}
	return g, nil
}

func (s *catalogService) DeleteGenre(ctx context.Context, id int64) error {
	if id < 1 {
		return invalid(errBadID)
	}
	if err := s.repos.Genres.Delete(ctx, id); err != nil {
		return s.fail("delete_genre", err)
	}
	s.log.Info().Int64("genre_id", id).Msg("genre deleted")
	return nil
}

func (s *catalogService) UpdateOrigin(ctx context.Context, id int64, country, language string) (*model.Origin, error) {
	if id < 1 {
		return nil, invalid(errBadID)
	}
	in := originInput{Country: country, Language: language}
	if err := s.norm.check(in); err != nil {
		return nil, err
	}
	o, err := s.repos.Origins.Update(ctx, id, in.Country, in.Language)
	if err != nil {
		return nil, s.fail("update_origin", err)
	}
	return o, nil
}

func (s *catalogService) DeleteOrigin(ctx context.Context, id int64) error {
	if id < 1 {
		return invalid(errBadID)
	}
	if err := s.repos.Origins.Delete(ctx, id); err != nil {
		return s.fail("delete_origin", err)
	}
	s.log.Info().Int64("origin_id", id).Msg("origin deleted")
	return nil
}
