package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barber-booking/internal/domain/geo"
)

const cachePrefix = "geocode:"

// NewRedis parses url and checks the server answers.
func NewRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// CachedGeocoder remembers successful lookups in Redis. Cache errors
// are logged and fall through to the wrapped geocoder.
type CachedGeocoder struct {
	next geo.Geocoder
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedGeocoder(next geo.Geocoder, rdb *redis.Client, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{next: next, rdb: rdb, ttl: ttl}
}

func (g *CachedGeocoder) Resolve(ctx context.Context, address string) (geo.Point, error) {
	key := cachePrefix + NormalizeAddress(address)

	raw, err := g.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if p, perr := decodePoint(raw); perr == nil {
			return p, nil
		}
		log.Warn().Str("key", key).Msg("discarding malformed geocode cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Msg("geocode cache read failed")
	}

	p, err := g.next.Resolve(ctx, address)
	if err != nil {
		return geo.Point{}, err
	}

	if err := g.rdb.Set(ctx, key, encodePoint(p), g.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("geocode cache write failed")
	}
	return p, nil
}

func encodePoint(p geo.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func decodePoint(raw string) (geo.Point, error) {
	latStr, lngStr, ok := strings.Cut(raw, ",")
	if !ok {
		return geo.Point{}, fmt.Errorf("geocoding: bad cache value %q", raw)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return geo.Point{}, err
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: lat, Lng: lng}, nil
}
