package geo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func shopAt(lat, lng float64) models.Barbershop {
	return models.Barbershop{ID: uuid.New(), Lat: &lat, Lng: &lng}
}

func TestHaversineKm(t *testing.T) {
	madrid := Point{Lat: 40.4168, Lng: -3.7038}
	barcelona := Point{Lat: 41.3874, Lng: 2.1686}

	assert.Zero(t, HaversineKm(madrid, madrid))
	assert.InDelta(t, 505, HaversineKm(madrid, barcelona), 5)
	assert.InDelta(t, HaversineKm(madrid, barcelona), HaversineKm(barcelona, madrid), 1e-9)

	// one degree of latitude
	assert.InDelta(t, 111.19, HaversineKm(Point{0, 0}, Point{1, 0}), 0.01)
}

func TestHaversineKmAntipodes(t *testing.T) {
	half := math.Pi * EarthRadiusKm
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 10000; i++ {
		a := Point{Lat: rng.Float64()*180 - 90, Lng: rng.Float64()*180 - 90}
		b := Point{Lat: -a.Lat, Lng: a.Lng + 180}
		d := HaversineKm(a, b)
		require.False(t, math.IsNaN(d), "antipode of %+v", a)
		require.InDelta(t, half, d, 1e-3)
	}

	d := HaversineKm(Point{18.84, 158.58}, Point{-18.84, -21.42})
	assert.InDelta(t, half, d, 1e-3)
}

func TestRankWholeGlobeKeepsAntipode(t *testing.T) {
	q := Query{Origin: Point{Lat: 18.84, Lng: 158.58}, RadiusKm: 20100}
	require.NoError(t, q.Validate())

	got := Rank(q, []models.Barbershop{shopAt(-18.84, -21.42)})
	require.Len(t, got, 1)
	assert.InDelta(t, math.Pi*EarthRadiusKm, got[0].DistanceKm, 1e-3)
}

func TestQueryValidate(t *testing.T) {
	assert.NoError(t, Query{Origin: Point{40, -3}, RadiusKm: 10}.Validate())

	err := Query{Origin: Point{91, 0}, RadiusKm: 10}.Validate()
	assert.True(t, httperr.IsBusiness(err, "invalid_coordinates"))

	err = Query{Origin: Point{0, -181}, RadiusKm: 10}.Validate()
	assert.True(t, httperr.IsBusiness(err, "invalid_coordinates"))

	err = Query{Origin: Point{0, 0}, RadiusKm: 0}.Validate()
	assert.True(t, httperr.IsBusiness(err, "invalid_radius"))
}

func TestRankNearbyScenario(t *testing.T) {
	q := Query{Origin: Point{Lat: 40.0, Lng: -3.0}, RadiusKm: 10}

	near := shopAt(40.01, -3.0) // ~1.1 km
	mid := shopAt(40.05, -3.05) // ~7 km
	far := shopAt(40.2, -3.0)   // ~22 km
	noCoords := models.Barbershop{ID: uuid.New()}

	got := Rank(q, []models.Barbershop{far, mid, noCoords, near})
	require.Len(t, got, 2)

	assert.Equal(t, near.ID, got[0].Barbershop.ID)
	assert.Equal(t, mid.ID, got[1].Barbershop.ID)
	for _, r := range got {
		assert.LessOrEqual(t, r.DistanceKm, 10.0)
	}
}

func TestRankTiesOrderedByID(t *testing.T) {
	q := Query{Origin: Point{0, 0}, RadiusKm: 500}

	a := shopAt(1, 0)
	b := shopAt(1, 0)
	first, second := a, b
	if b.ID.String() < a.ID.String() {
		first, second = b, a
	}

	got := Rank(q, []models.Barbershop{second, first})
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].Barbershop.ID)
	assert.Equal(t, second.ID, got[1].Barbershop.ID)
}

func TestRankIdempotent(t *testing.T) {
	q := Query{Origin: Point{40, -3}, RadiusKm: 25}
	shops := []models.Barbershop{shopAt(40.1, -3.1), shopAt(39.9, -2.9), shopAt(40, -3.2)}

	assert.Equal(t, Rank(q, shops), Rank(q, shops))
}

func inBox(b BoundingBox, p Point) bool {
	if b.FilterLat && (p.Lat < b.MinLat || p.Lat > b.MaxLat) {
		return false
	}
	if b.FilterLng && (p.Lng < b.MinLng || p.Lng > b.MaxLng) {
		return false
	}
	return true
}

// Every point within the radius must survive the bounding box prefilter.
func TestBoundsContainCircle(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	origins := []Point{{40, -3}, {-33.9, 151.2}, {89.95, 10}, {0, 179.99}, {64, -21}}
	for _, o := range origins {
		q := Query{Origin: o, RadiusKm: 50}
		box := q.Bounds()

		for i := 0; i < 2000; i++ {
			p := Point{
				Lat: o.Lat + (rng.Float64()*2-1)*1.0,
				Lng: o.Lng + (rng.Float64()*2-1)*3.0,
			}
			if p.Lat > 90 || p.Lat < -90 || p.Lng > 180 || p.Lng < -180 {
				continue
			}
			if HaversineKm(o, p) <= q.RadiusKm {
				assert.Truef(t, inBox(box, p), "origin %v point %v outside box", o, p)
			}
		}
	}
}

func TestBoundsEdgeCases(t *testing.T) {
	polar := Query{Origin: Point{89.99, 0}, RadiusKm: 10}.Bounds()
	assert.True(t, polar.FilterLat)
	assert.False(t, polar.FilterLng)

	dateline := Query{Origin: Point{0, 179.99}, RadiusKm: 10}.Bounds()
	assert.False(t, dateline.FilterLng)

	whole := Query{Origin: Point{0, 0}, RadiusKm: 30000}.Bounds()
	assert.False(t, whole.FilterLat)
	assert.False(t, whole.FilterLng)
}
