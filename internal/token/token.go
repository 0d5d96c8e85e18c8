package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var ErrWrongType = errors.New("token: wrong type")

// Claims carry the user id in the standard "sub" claim.
type Claims struct {
	Role models.UserRole `json:"role"`
	Type Type            `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type Pair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (i *Issuer) Issue(userID uuid.UUID, role models.UserRole) (Pair, error) {
	now := i.now()

	access, err := i.sign(userID, role, TypeAccess, now, i.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.sign(userID, role, TypeRefresh, now, i.refreshTTL)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(i.accessTTL),
	}, nil
}

func (i *Issuer) sign(
	userID uuid.UUID,
	role models.UserRole,
	typ Type,
	now time.Time,
	ttl time.Duration,
) (string, error) {

	claims := Claims{
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies signature, expiry and type.
func (i *Issuer) Parse(raw string, want Type) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		raw,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return i.secret, nil
		},
		jwt.WithTimeFunc(i.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, err
	}

	if claims.Type != want {
		return nil, ErrWrongType
	}
	return claims, nil
}
