package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleetrent/internal/entities"
	apperrors "fleetrent/internal/errors"
	"fleetrent/internal/repository"
)

const heroImageKey = "hero_image"

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type SettingsService struct {
	repo      *repository.SettingsRepository
	uploadDir string
	baseURL   string
}

func NewSettingsService(repo *repository.SettingsRepository, uploadDir, baseURL string) *SettingsService {
	return &SettingsService{repo: repo, uploadDir: uploadDir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *SettingsService) Get() (*entities.SettingsResponse, error) {
	value, updatedAt, err := s.repo.Get(heroImageKey)
	if err != nil {
		return nil, err
	}
	return &entities.SettingsResponse{HeroImage: value, HeroImageUpdatedAt: updatedAt}, nil
}

// SetHeroImageFromUpload stores the uploaded file under the upload directory
// and persists its public URL with a cache-busting query parameter.
func (s *SettingsService) SetHeroImageFromUpload(filename string, file io.Reader) (*entities.SettingsResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExts[ext] {
		return nil, apperrors.NewValidation("image must be a jpg, jpeg, png or webp file")
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("error writing upload file: %w", err)
	}

	return s.persistHeroImage(s.baseURL + "/uploads/" + name)
}

// SetHeroImageURL persists an externally hosted hero image URL.
func (s *SettingsService) SetHeroImageURL(externalURL string) (*entities.SettingsResponse, error) {
	if !strings.HasPrefix(externalURL, "http://") && !strings.HasPrefix(externalURL, "https://") {
		return nil, apperrors.NewValidation("external_url must be a valid URL")
	}
	return s.persistHeroImage(externalURL)
}

func (s *SettingsService) persistHeroImage(url string) (*entities.SettingsResponse, error) {
	// Cache-busting parameter so clients pick up replacements immediately.
	separator := "?"
	if strings.Contains(url, "?") {
		separator = "&"
	}
	busted := fmt.Sprintf("%s%sv=%d", url, separator, time.Now().Unix())

	if err := s.repo.Set(heroImageKey, &busted); err != nil {
		return nil, err
	}
	return s.Get()
}

// DeleteHeroImage resets the hero image to the default.
func (s *SettingsService) DeleteHeroImage() (*entities.SettingsResponse, error) {
	if err := s.repo.Set(heroImageKey, nil); err != nil {
		return nil, err
	}
	return s.Get()
}
