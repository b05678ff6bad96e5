package service

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"streamadmin/internal/repository"
)

// TitleInput is a title as a client writes it. Dates use the YYYY-MM-DD form and
// GenreIDs replaces the title's genre set.
type TitleInput struct {
	Name                string  `json:"name" validate:"required,max=200"`
	Type                string  `json:"type" validate:"required,oneof=Movie Series"`
	OriginID            int64   `json:"origin_id" validate:"gt=0"`
	OriginalReleaseDate string  `json:"original_release_date" validate:"omitempty,datetime=2006-01-02"`
	IsOriginal          bool    `json:"is_original"`
	SeasonCount         *int    `json:"season_count" validate:"omitempty,gte=0"`
	EpisodeCount        *int    `json:"episode_count" validate:"omitempty,gte=0"`
	GenreIDs            []int64 `json:"genre_ids" validate:"unique,dive,gt=0"`
}

type LicenseInput struct {
	TitleID    int64  `json:"title_id" validate:"gt=0"`
	ProviderID int64  `json:"provider_id" validate:"gt=0"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
	// IsActive is ignored on create; new licenses are always active.
	IsActive bool `json:"is_active"`
}

type ProviderInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email,max=200"`
	Phone string `json:"phone" validate:"required,max=50"`
}

// AdminInput carries the plain password. It is required on create; on update an empty
// password keeps the current one.
type AdminInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=200"`
	Role     string `json:"role" validate:"required,max=50"`
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

// ViewInput sets the view count of one title for one day.
type ViewInput struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Views int64  `json:"views" validate:"gte=0"`
}

// InteractionInput sets the likes and list adds of one title for one day.
type InteractionInput struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Likes    int64  `json:"likes" validate:"gte=0"`
	ListAdds int64  `json:"list_adds" validate:"gte=0"`
}

var (
	errSeriesCounts    = errors.New("SeasonCount, EpisodeCount: required for series")
	errEndBeforeStart  = errors.New("EndDate: must not be before StartDate")
	errPasswordMissing = errors.New("Password: required")
)

// titleRecord converts a validated TitleInput. Movies carry no season or episode counts.
func titleRecord(in TitleInput) (repository.TitleInput, error) {
	rec := repository.TitleInput{
		Name:       in.Name,
		Type:       in.Type,
		OriginID:   in.OriginID,
		IsOriginal: in.IsOriginal,
		GenreIDs:   in.GenreIDs,
	}
	if in.OriginalReleaseDate != "" {
		d, err := time.Parse(dateLayout, in.OriginalReleaseDate)
		if err != nil {
			return rec, invalid(err)
		}
		rec.OriginalReleaseDate = &d
	}
	if in.Type == "Series" {
		if in.SeasonCount == nil || in.EpisodeCount == nil {
			return rec, invalid(errSeriesCounts)
		}
		rec.SeasonCount = in.SeasonCount
		rec.EpisodeCount = in.EpisodeCount
	}
	return rec, nil
}

func licenseRecord(in LicenseInput) (repository.LicenseInput, error) {
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return repository.LicenseInput{}, invalid(err)
	}
	end, err := time.Parse(dateLayout, in.EndDate)
	if err != nil {
		return repository.LicenseInput{}, invalid(err)
	}
	if end.Before(start) {
		return repository.LicenseInput{}, invalid(errEndBeforeStart)
	}
	return repository.LicenseInput{
		TitleID:    in.TitleID,
		ProviderID: in.ProviderID,
		StartDate:  start,
		EndDate:    end,
		IsActive:   in.IsActive,
	}, nil
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
