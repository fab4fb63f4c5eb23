package main

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/avelkovic/matchpoint/internal/modules/location"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createLocation(t *testing.T, session string) uuid.UUID {
	model := location.CreateLocationModel{
		Slug:       uuid.NewString(),
		Name:       fmt.Sprintf("Court %s", uuid.NewString()),
		Address:    "1 Baseline Road",
		CourtCount: 4,
		Indoor:     true,
	}

	var locationID uuid.UUID

	_, err := sendRequest[location.CreateLocationModel, any](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/locations"),
		http.MethodPost,
		session,
		model,
		func(resp *http.Response) {
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			header := resp.Header.Get("Location")
			require.NotEmpty(t, header)

			segments := strings.Split(header, "/")
			id, err := uuid.Parse(segments[len(segments)-1])
			require.NoError(t, err)

			locationID = id
		},
	)
	require.NoError(t, err)

	return locationID
}

func Test_CreateLocation_Makes_Location_Retrievable(t *testing.T) {
	// Arrange
	session, _ := registerAndLogin(t)

	// Act
	locationID := createLocation(t, session)

	// Assert
	loc, err := sendRequest[any, location.Location](
		fixture.client,
		fmt.Sprintf("%s/locations/%s", fixture.baseURL, locationID),
		http.MethodGet,
		"",
		nil,
		func(resp *http.Response) { require.Equal(t, http.StatusOK, resp.StatusCode) },
	)
	require.NoError(t, err)
	require.Equal(t, locationID, loc.ID)
	require.Equal(t, 4, loc.CourtCount)
}

func Test_CreateLocation_Returns_400_When_Name_Empty(t *testing.T) {
	// Arrange
	session, _ := registerAndLogin(t)

	model := location.CreateLocationModel{Slug: uuid.NewString()}

	// Act
	_, err := sendRequest[location.CreateLocationModel, any](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/locations"),
		http.MethodPost,
		session,
		model,
		func(resp *http.Response) {
			// Assert
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		},
	)
	require.NoError(t, err)
}

func Test_ListLocations_Contains_Created_Location(t *testing.T) {
	// Arrange
	session, _ := registerAndLogin(t)
	locationID := createLocation(t, session)

	// Act
	locations, err := sendRequest[any, []location.Location](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/locations"),
		http.MethodGet,
		"",
		nil,
		func(resp *http.Response) { require.Equal(t, http.StatusOK, resp.StatusCode) },
	)

	// Assert
	require.NoError(t, err)

	found := false
	for _, loc := range locations {
		if loc.ID == locationID {
			found = true
			break
		}
	}

	require.True(t, found)
}
