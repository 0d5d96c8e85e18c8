package geocoding

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/domain/geo"
)

// Disabled is used when no provider key is configured.
type Disabled struct{}

func (Disabled) Resolve(context.Context, string) (geo.Point, error) {
	return geo.Point{}, ErrUnavailable
}

// New builds the geocoder described by cfg. The returned cleanup closes
// the cache connection, if any.
func New(ctx context.Context, cfg *config.Config) (geo.Geocoder, func()) {
	if cfg.GeocodingAPIKey == "" {
		log.Warn().Msg("GEOCODING_API_KEY not set, shops will be stored without coordinates")
		return Disabled{}, func() {}
	}

	client := NewClient(cfg.GeocodingBaseURL, cfg.GeocodingAPIKey, NewBreaker(DefaultBreakerConfig()))

	if cfg.RedisURL == "" {
		return client, func() {}
	}

	rdb, err := NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, geocode cache disabled")
		return client, func() {}
	}

	ttl := time.Duration(cfg.GeocodeCacheTTLHours) * time.Hour
	log.Info().Dur("ttl", ttl).Msg("geocode cache enabled")

	return NewCachedGeocoder(client, rdb, ttl), func() { _ = rdb.Close() }
}
