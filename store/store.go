package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"neon-cinema-cli/model"
)

const (
	movieCacheTTL    = 10 * time.Minute
	showtimeCacheTTL = 5 * time.Minute
)

const appDirName = "neon-cinema-cli"

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

// RecentContact is the last contact detail pair used for a booking,
// remembered to prefill the details form.
type RecentContact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func LoadMovieCache() ([]model.Movie, bool, error) {
	path, err := cachePath("movies.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Movie](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= movieCacheTTL, nil
}

func SaveMovieCache(movies []model.Movie) error {
	path, err := cachePath("movies.json")
	if err != nil {
		return err
	}
	return saveCache(path, movies)
}

func LoadShowtimeCache(movieID string) ([]model.Showtime, bool, error) {
	path, err := cachePath(fmt.Sprintf("showtimes_%s.json", movieID))
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Showtime](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= showtimeCacheTTL, nil
}

func SaveShowtimeCache(movieID string, showtimes []model.Showtime) error {
	path, err := cachePath(fmt.Sprintf("showtimes_%s.json", movieID))
	if err != nil {
		return err
	}
	return saveCache(path, showtimes)
}

// InvalidateShowtimeCache drops the cached showtime list for a movie.
// Called after a successful booking so the taken-seat set is refetched.
func InvalidateShowtimeCache(movieID string) error {
	path, err := cachePath(fmt.Sprintf("showtimes_%s.json", movieID))
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func LoadRecentContact() (RecentContact, error) {
	path, err := configPath("contact.json")
	if err != nil {
		return RecentContact{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RecentContact{}, nil
		}
		return RecentContact{}, err
	}

	var contact RecentContact
	if err := json.Unmarshal(data, &contact); err != nil {
		return RecentContact{}, fmt.Errorf("invalid contact format: %w", err)
	}
	return contact, nil
}

func RememberContact(contact RecentContact) error {
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = strings.TrimSpace(contact.Email)
	if contact.Name == "" && contact.Email == "" {
		return nil
	}

	path, err := configPath("contact.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(contact, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}
