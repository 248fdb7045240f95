package services

import (
	"net/http"
	"testing"

	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSocialURL(t *testing.T) {
	tests := []struct {
		network string
		input   string
		want    string
		wantErr bool
	}{
		{"instagram", "", "", false},
		{"instagram", "  ", "", false},
		{"instagram", "@baharimarine", "https://instagram.com/baharimarine", false},
		{"linkedin", "linkedin.com/company/bahari", "https://linkedin.com/company/bahari", false},
		{"facebook", "http://facebook.com/bahari", "http://facebook.com/bahari", false},
		{"x", "https://x.com/bahari", "https://x.com/bahari", false},
		{"x", "@", "", true},
		{"facebook", "not a url", "", true},
		{"linkedin", "ftp://linkedin.com/x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.network+" "+tt.input, func(t *testing.T) {
			got, err := normalizeSocialURL(tt.network, tt.input)
			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+6281234567", normalizePhone(" +62 812-345-67 "))
	assert.Equal(t, "0812", normalizePhone("(08) 12"))
	assert.Equal(t, "", normalizePhone(""))
}

func TestCompanyProfileService_SaveAndGet(t *testing.T) {
	svc := NewCompanyProfileService(newTestDB(t))

	_, err := svc.Get()
	assert.Equal(t, http.StatusNotFound, response.StatusOf(err))

	saved, err := svc.Save(&CompanyProfileRequest{
		Name:     "PT Bahari Marine",
		Phone:    "+62 21 555 0101",
		WhatsApp: "+62 812 3456 789",
		Emails:   []string{" Info@Bahari.example ", ""},
		Socials:  models.SocialLinks{Instagram: "@bahari"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"info@bahari.example"}, []string(saved.Emails))
	assert.Equal(t, "+628123456789", saved.WhatsApp)
	assert.Equal(t, "https://instagram.com/bahari", saved.Socials.Data().Instagram)

	again, err := svc.Save(&CompanyProfileRequest{Name: "Bahari", Emails: []string{"sales@bahari.example"}})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "Bahari", got.Name)
	assert.Equal(t, "", got.Socials.Data().Instagram)
}

func TestCompanyProfileService_Validation(t *testing.T) {
	svc := NewCompanyProfileService(newTestDB(t))

	tests := []struct {
		name string
		req  CompanyProfileRequest
	}{
		{"missing name", CompanyProfileRequest{Emails: []string{"a@b.example"}}},
		{"no emails", CompanyProfileRequest{Name: "X"}},
		{"blank emails only", CompanyProfileRequest{Name: "X", Emails: []string{" "}}},
		{"malformed email", CompanyProfileRequest{Name: "X", Emails: []string{"not-an-email"}}},
		{"bad social", CompanyProfileRequest{Name: "X", Emails: []string{"a@b.example"}, Socials: models.SocialLinks{X: "nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Save(&req)
			assert.Equal(t, http.StatusBadRequest, response.StatusOf(err))
		})
	}
}
