package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/pkg/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var socialBaseURLs = map[string]string{
	"instagram": "https://instagram.com/",
	"linkedin":  "https://www.linkedin.com/in/",
	"facebook":  "https://facebook.com/",
	"x":         "https://x.com/",
}

type CompanyProfileRequest struct {
	Name     string             `json:"name" validate:"required"`
	Phone    string             `json:"phone"`
	WhatsApp string             `json:"whatsapp"`
	Address  string             `json:"address"`
	Emails   []string           `json:"emails" validate:"required,min=1,dive,required,email"`
	Socials  models.SocialLinks `json:"socials"`
}

type CompanyProfileService struct {
	db *gorm.DB
}

func NewCompanyProfileService(db *gorm.DB) *CompanyProfileService {
	return &CompanyProfileService{db: db}
}

func (s *CompanyProfileService) Get() (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	if err := s.db.Order("id ASC").First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("company profile not configured")
		}
		return nil, fmt.Errorf("load company profile: %w", err)
	}
	return &profile, nil
}

// Save validates and stores the profile, creating the single row on first use.
func (s *CompanyProfileService) Save(req *CompanyProfileRequest) (*models.CompanyProfile, error) {
	req.Name = strings.TrimSpace(req.Name)
	emails := make([]string, 0, len(req.Emails))
	for _, e := range req.Emails {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, strings.ToLower(e))
		}
	}
	req.Emails = emails

	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	socials, err := normalizeSocials(req.Socials)
	if err != nil {
		return nil, err
	}

	var profile models.CompanyProfile
	err = s.db.Order("id ASC").First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load company profile: %w", err)
	}

	profile.Name = req.Name
	profile.Phone = strings.TrimSpace(req.Phone)
	profile.WhatsApp = normalizePhone(req.WhatsApp)
	profile.Address = strings.TrimSpace(req.Address)
	profile.Emails = datatypes.JSONSlice[string](req.Emails)
	profile.Socials = datatypes.NewJSONType(socials)

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("save company profile: %w", err)
	}
	return &profile, nil
}

func normalizeSocials(in models.SocialLinks) (models.SocialLinks, error) {
	var out models.SocialLinks
	var err error
	if out.Instagram, err = normalizeSocialURL("instagram", in.Instagram); err != nil {
		return out, err
	}
	if out.LinkedIn, err = normalizeSocialURL("linkedin", in.LinkedIn); err != nil {
		return out, err
	}
	if out.Facebook, err = normalizeSocialURL("facebook", in.Facebook); err != nil {
		return out, err
	}
	if out.X, err = normalizeSocialURL("x", in.X); err != nil {
		return out, err
	}
	return out, nil
}

// normalizeSocialURL accepts a full URL, a bare domain path or an @handle
// and returns an absolute https URL. Empty stays empty.
func normalizeSocialURL(network, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", nil
	}
	if strings.HasPrefix(v, "@") {
		handle := strings.TrimPrefix(v, "@")
		if handle == "" || strings.ContainsAny(handle, " /") {
			return "", response.NewBadRequest("socials." + network + " is not a valid handle")
		}
		v = socialBaseURLs[network] + handle
	} else if !strings.Contains(v, "://") {
		v = "https://" + v
	}

	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || !strings.Contains(u.Host, ".") {
		return "", response.NewBadRequest("socials." + network + " must be a valid URL")
	}
	if err := validate.Var(u.String(), "url"); err != nil {
		return "", response.NewBadRequest("socials." + network + " must be a valid URL")
	}
	return u.String(), nil
}

// normalizePhone keeps digits and a leading plus, the form wa.me links expect.
func normalizePhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
