package geo

import (
	"context"
	"math"
	"sort"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

const EarthRadiusKm = 6371.0

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// HaversineKm is the great-circle distance between a and b in kilometers.
func HaversineKm(a, b Point) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

type Query struct {
	Origin   Point
	RadiusKm float64
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (q Query) Validate() error {
	if !finite(q.Origin.Lat) || !finite(q.Origin.Lng) ||
		q.Origin.Lat < -90 || q.Origin.Lat > 90 ||
		q.Origin.Lng < -180 || q.Origin.Lng > 180 {
		return httperr.ErrBusiness("invalid_coordinates")
	}
	if !finite(q.RadiusKm) || q.RadiusKm <= 0 {
		return httperr.ErrBusiness("invalid_radius")
	}
	return nil
}

// BoundingBox is a coarse prefilter for storage queries. It always contains
// the whole search circle; the exact radius test is done by Rank.
type BoundingBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64

	// FilterLat/FilterLng are false when that axis cannot be bounded
	// (circle covers a pole or crosses the antimeridian).
	FilterLat bool
	FilterLng bool
}

// slack keeps rounding in the storage engine from cutting the box edge.
const slack = 1e-6

func (q Query) Bounds() BoundingBox {
	ang := q.RadiusKm / EarthRadiusKm
	if ang >= math.Pi {
		return BoundingBox{}
	}

	box := BoundingBox{
		MinLat:    q.Origin.Lat - degrees(ang) - slack,
		MaxLat:    q.Origin.Lat + degrees(ang) + slack,
		FilterLat: true,
	}

	if box.MinLat <= -90 || box.MaxLat >= 90 {
		return box
	}

	ratio := math.Sin(ang) / math.Cos(radians(q.Origin.Lat))
	if ratio >= 1 {
		return box
	}

	dLng := degrees(math.Asin(ratio)) + slack
	if q.Origin.Lng-dLng < -180 || q.Origin.Lng+dLng > 180 {
		return box
	}

	box.MinLng = q.Origin.Lng - dLng
	box.MaxLng = q.Origin.Lng + dLng
	box.FilterLng = true
	return box
}

type Result struct {
	Barbershop models.Barbershop `json:"barbershop"`
	DistanceKm float64           `json:"distance_km"`
}

// Rank keeps the shops within the query radius, nearest first. Shops
// without coordinates are skipped; equal distances are ordered by id.
func Rank(q Query, shops []models.Barbershop) []Result {
	out := make([]Result, 0, len(shops))

	for _, s := range shops {
		if !s.HasCoordinates() {
			continue
		}
		d := HaversineKm(q.Origin, Point{Lat: *s.Lat, Lng: *s.Lng})
		if d <= q.RadiusKm {
			out = append(out, Result{Barbershop: s, DistanceKm: d})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].Barbershop.ID.String() < out[j].Barbershop.ID.String()
	})

	return out
}

// Geocoder resolves a free-form address to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Point, error)
}
