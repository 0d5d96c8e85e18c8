package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/domain/authz"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/domain/geo"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/testutil"
	apuc "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

type stubGeocoder struct {
	point geo.Point
	err   error
	calls []string
}

func (g *stubGeocoder) Resolve(_ context.Context, address string) (geo.Point, error) {
	g.calls = append(g.calls, address)
	return g.point, g.err
}

type fixture struct {
	db       *gorm.DB
	repo     *repository.CatalogGormRepository
	authz    *authz.Authorizer
	geocoder *stubGeocoder

	shops    *Barbershops
	services *Services

	owner *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		repo:     repository.NewCatalogGormRepository(db),
		authz:    authz.NewAuthorizer(repository.NewIdentityGormRepository(db)),
		geocoder: &stubGeocoder{point: geo.Point{Lat: 40.4168, Lng: -3.7038}},
	}
	f.shops = NewBarbershops(f.repo, f.authz, f.geocoder, nil)
	f.services = NewServices(f.repo, f.authz, nil)
	f.owner = testutil.SeedUser(t, db, models.RoleBarber)
	return f
}

func as(u *models.User) authz.Principal {
	return authz.Principal{ID: u.ID, Role: u.Role}
}

func (f *fixture) createShop(t *testing.T) *models.Barbershop {
	t.Helper()

	shop, err := f.shops.Create(context.Background(), as(f.owner), CreateBarbershopInput{
		Name:     "Navaja",
		Address:  "Calle de Alcalá 10",
		City:     "Madrid",
		Timezone: "Europe/Madrid",
	})
	require.NoError(t, err)
	return shop
}

// ======================================================
// Barbershops
// ======================================================

func TestCreateBarbershopMakesOwner(t *testing.T) {
	f := newFixture(t)

	shop := f.createShop(t)

	require.True(t, shop.HasCoordinates())
	assert.InDelta(t, 40.4168, *shop.Lat, 1e-9)
	assert.Equal(t, []string{"Calle de Alcalá 10, Madrid"}, f.geocoder.calls)

	err := f.authz.Require(context.Background(), as(f.owner), shop.ID, authz.RequireOwner)
	assert.NoError(t, err)
}

func TestCreateBarbershopGeocodeFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.geocoder.err = errors.New("upstream down")

	shop := f.createShop(t)
	assert.False(t, shop.HasCoordinates())
}

func TestCreateBarbershopExplicitCoordinates(t *testing.T) {
	f := newFixture(t)
	lat, lng := testutil.Coords(41.39, 2.17)

	shop, err := f.shops.Create(context.Background(), as(f.owner), CreateBarbershopInput{
		Name: "Barna", Address: "Passeig de Gràcia 1", Lat: lat, Lng: lng,
	})
	require.NoError(t, err)
	assert.Empty(t, f.geocoder.calls)
	assert.Equal(t, 41.39, *shop.Lat)
	assert.Equal(t, "America/Sao_Paulo", shop.Timezone)

	bad := 91.0
	_, err = f.shops.Create(context.Background(), as(f.owner), CreateBarbershopInput{
		Name: "Nowhere", Address: "-", Lat: &bad, Lng: lng,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_coordinates"))
}

func TestCreateBarbershopRequiresBarber(t *testing.T) {
	f := newFixture(t)
	client := testutil.SeedUser(t, f.db, models.RoleClient)

	_, err := f.shops.Create(context.Background(), as(client), CreateBarbershopInput{Name: "x", Address: "y"})
	assert.True(t, httperr.IsBusiness(err, domain.ReasonNotBarber))
	assert.Zero(t, testutil.Count(t, f.db, &models.Barbershop{}, ""))
}

func TestCreateBarbershopIsAtomic(t *testing.T) {
	f := newFixture(t)
	testutil.FailCreate(t, f.db, "barber_profiles")

	_, err := f.shops.Create(context.Background(), as(f.owner), CreateBarbershopInput{Name: "x", Address: "y"})
	require.ErrorIs(t, err, testutil.ErrInjected)
	assert.Zero(t, testutil.Count(t, f.db, &models.Barbershop{}, ""))
}

func TestUpdateBarbershop(t *testing.T) {
	f := newFixture(t)
	shop := f.createShop(t)

	f.geocoder.point = geo.Point{Lat: 41.0, Lng: -4.0}

	name := "Navaja Centro"
	got, err := f.shops.Update(context.Background(), as(f.owner), shop.ID, UpdateBarbershopInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Len(t, f.geocoder.calls, 1, "name change must not re-geocode")

	address := "Gran Vía 1"
	got, err = f.shops.Update(context.Background(), as(f.owner), shop.ID, UpdateBarbershopInput{Address: &address})
	require.NoError(t, err)
	assert.Len(t, f.geocoder.calls, 2)
	assert.Equal(t, 41.0, *got.Lat)

	barber := testutil.SeedUser(t, f.db, models.RoleBarber)
	testutil.SeedMember(t, f.db, barber, shop, models.StaffBarber)
	_, err = f.shops.Update(context.Background(), as(barber), shop.ID, UpdateBarbershopInput{Name: &name})
	assert.True(t, httperr.IsBusiness(err, authz.ReasonNotOwner))
}

func TestDeleteBarbershopCascades(t *testing.T) {
	f := newFixture(t)
	shop := f.createShop(t)

	barber := testutil.SeedUser(t, f.db, models.RoleBarber)
	testutil.SeedMember(t, f.db, barber, shop, models.StaffBarber)
	cut := testutil.SeedService(t, f.db, shop, "Haircut", "20")
	client := testutil.SeedUser(t, f.db, models.RoleClient)

	_, err := apuc.NewCreateAppointment(repository.NewAppointmentGormRepository(f.db), nil).Execute(
		context.Background(),
		as(client),
		apuc.CreateAppointmentInput{
			BarbershopID:    shop.ID,
			BarberID:        barber.ID,
			ServiceIDs:      []uuid.UUID{cut.ID},
			AppointmentDate: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		},
	)
	require.NoError(t, err)

	err = f.shops.Delete(context.Background(), as(barber), shop.ID)
	assert.True(t, httperr.IsBusiness(err, authz.ReasonNotOwner))

	require.NoError(t, f.shops.Delete(context.Background(), as(f.owner), shop.ID))

	for _, model := range []any{
		&models.Barbershop{}, &models.BarberProfile{}, &models.Service{},
		&models.Customer{}, &models.Appointment{}, &models.AppointmentService{},
	} {
		assert.Zero(t, testutil.Count(t, f.db, model, ""), "%T", model)
	}

	_, err = f.shops.Get(context.Background(), shop.ID)
	assert.True(t, httperr.IsBusiness(err, domain.ReasonShopNotFound))
}

func TestNearby(t *testing.T) {
	f := newFixture(t)

	seed := func(lat, lng *float64) *models.Barbershop {
		s := &models.Barbershop{Name: "shop", Address: "-", Lat: lat, Lng: lng}
		require.NoError(t, f.db.Create(s).Error)
		return s
	}

	near := seed(testutil.Coords(40.02, -3.01))
	mid := seed(testutil.Coords(39.95, -3.06))
	seed(testutil.Coords(40.2, -3.0))   // ~22 km
	seed(testutil.Coords(-33.9, 151.2)) // other hemisphere
	seed(nil, nil)

	got, err := f.shops.Nearby(context.Background(), geo.Query{Origin: geo.Point{Lat: 40.0, Lng: -3.0}, RadiusKm: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, near.ID, got[0].Barbershop.ID)
	assert.Equal(t, mid.ID, got[1].Barbershop.ID)
	assert.LessOrEqual(t, got[0].DistanceKm, got[1].DistanceKm)
	assert.LessOrEqual(t, got[1].DistanceKm, 10.0)

	_, err = f.shops.Nearby(context.Background(), geo.Query{Origin: geo.Point{Lat: 40, Lng: -3}, RadiusKm: -1})
	assert.True(t, httperr.IsBusiness(err, "invalid_radius"))
}

func TestStaff(t *testing.T) {
	f := newFixture(t)
	shop := f.createShop(t)

	staff, err := f.shops.Staff(context.Background(), as(f.owner), shop.ID)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, models.StaffOwner, staff[0].Role)

	outsider := testutil.SeedUser(t, f.db, models.RoleBarber)
	_, err = f.shops.Staff(context.Background(), as(outsider), shop.ID)
	assert.True(t, httperr.IsBusiness(err, authz.ReasonNotMember))
}

// ======================================================
// Services
// ======================================================

func serviceInput(name, price string) CreateServiceInput {
	return CreateServiceInput{
		Name:            name,
		Price:           decimal.RequireFromString(price),
		DurationMinutes: 30,
	}
}

func TestCreateService(t *testing.T) {
	f := newFixture(t)
	shop := f.createShop(t)

	s, err := f.services.Create(context.Background(), as(f.owner), shop.ID, serviceInput("Haircut", "20.50"))
	require.NoError(t, err)
	assert.True(t, s.IsActive)
	assert.Equal(t, shop.ID, s.BarbershopID)

	_, err = f.services.Create(context.Background(), as(f.owner), shop.ID, serviceInput(" haircut ", "10"))
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonServiceNameTaken, be.Code)
	assert.Equal(t, httperr.KindConflict, be.Kind)

	_, err = f.services.Create(context.Background(), as(f.owner), shop.ID, serviceInput("Shave", "10.999"))
	assert.True(t, httperr.IsBusiness(err, domain.ReasonInvalidPrice))

	in := serviceInput("Shave", "10")
	in.DurationMinutes = 0
	_, err = f.services.Create(context.Background(), as(f.owner), shop.ID, in)
	assert.True(t, httperr.IsBusiness(err, domain.ReasonInvalidDuration))

	barber := testutil.SeedUser(t, f.db, models.RoleBarber)
	testutil.SeedMember(t, f.db, barber, shop, models.StaffBarber)
	_, err = f.services.Create(context.Background(), as(barber), shop.ID, serviceInput("Shave", "10"))
	assert.True(t, httperr.IsBusiness(err, authz.ReasonNotOwner))
}

func TestUpdateService(t *testing.T) {
	f := newFixture(t)
	shop := f.createShop(t)
	cut := testutil.SeedService(t, f.db, shop, "Haircut", "20")
	testutil.SeedService(t, f.db, shop, "Beard", "15")

	price := decimal.RequireFromString("22.00")
	inactive := false
	got, err := f.services.Update(context.Background(), as(f.owner), cut.ID, UpdateServiceInput{
		Price:    &price,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(price))
	assert.False(t, got.IsActive)

	stored, err := f.services.Get(context.Background(), cut.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	name := "Beard"
	_, err = f.services.Update(context.Background(), as(f.owner), cut.ID, UpdateServiceInput{Name: &name})
	assert.True(t, httperr.IsBusiness(err, domain.ReasonServiceNameTaken))
}

func TestDeleteServiceIsSoft(t *testing.T) {
	f := newFixture(t)
	shop := f.createShop(t)
	cut := testutil.SeedService(t, f.db, shop, "Haircut", "20")

	require.NoError(t, f.services.Delete(context.Background(), as(f.owner), cut.ID))

	_, err := f.services.Get(context.Background(), cut.ID)
	assert.True(t, httperr.IsBusiness(err, domain.ReasonServiceNotFound))

	err = f.services.Delete(context.Background(), as(f.owner), cut.ID)
	assert.True(t, httperr.IsBusiness(err, domain.ReasonServiceNotFound))

	// the row is still there
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &models.Service{}, "id = ?", cut.ID))

	// the name is free again
	_, err = f.services.Create(context.Background(), as(f.owner), shop.ID, serviceInput("Haircut", "25"))
	assert.NoError(t, err)
}

func TestListServices(t *testing.T) {
	f := newFixture(t)
	shop := f.createShop(t)
	testutil.SeedService(t, f.db, shop, "Haircut", "20")
	beard := testutil.SeedService(t, f.db, shop, "Beard", "15")
	require.NoError(t, f.services.Delete(context.Background(), as(f.owner), beard.ID))

	items, total, err := f.services.ListByShop(context.Background(), shop.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Haircut", items[0].Name)

	_, _, err = f.services.ListAll(context.Background(), as(f.owner), ListServicesInput{})
	assert.True(t, httperr.IsBusiness(err, authz.ReasonAdminRequired))

	admin := authz.Principal{ID: uuid.New(), Role: models.RoleAdmin}

	_, total, err = f.services.ListAll(context.Background(), admin, ListServicesInput{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	items, total, err = f.services.ListAll(context.Background(), admin, ListServicesInput{IncludeDeleted: true, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)
}
