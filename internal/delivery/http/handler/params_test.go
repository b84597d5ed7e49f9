package handler

import (
	stderrors "errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vishrutha-23/SafeWalk/internal/domain"
	"github.com/Vishrutha-23/SafeWalk/internal/pkg/errors"
)

func TestParseCoordinateQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected domain.Coordinate
		wantErr  bool
	}{
		{name: "lat lon", query: "lat=12.97&lon=77.59", expected: domain.Coordinate{Lat: 12.97, Lon: 77.59}},
		{name: "lng alias", query: "lat=12.97&lng=77.59", expected: domain.Coordinate{Lat: 12.97, Lon: 77.59}},
		{name: "missing lon", query: "lat=12.97", wantErr: true},
		{name: "not a number", query: "lat=north&lon=1", wantErr: true},
		{name: "NaN", query: "lat=NaN&lon=1", wantErr: true},
		{name: "infinite", query: "lat=1&lon=Inf", wantErr: true},
		{name: "out of range", query: "lat=91&lon=0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got    domain.Coordinate
				gotErr error
			)
			app := fiber.New()
			app.Get("/p", func(c *fiber.Ctx) error {
				got, gotErr = parseCoordinateQuery(c)
				return c.SendStatus(fiber.StatusNoContent)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/p?"+tt.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

			if tt.wantErr {
				assert.True(t, stderrors.Is(gotErr, errors.ErrInvalidCoordinates))
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseFloatQuery_Absent(t *testing.T) {
	var (
		ok     bool
		gotErr error
	)
	app := fiber.New()
	app.Get("/p", func(c *fiber.Ctx) error {
		_, ok, gotErr = parseFloatQuery(c, "radiusKm")
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/p", nil))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, gotErr)
}
