package main

import (
	"fmt"
	"net/http"
	"testing"

	authcommands "github.com/avelkovic/matchpoint/internal/modules/auth/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_Registration_Login_Round_Trip(t *testing.T) {
	// Act
	session, userID := registerAndLogin(t)

	// Assert
	require.NotEmpty(t, session)
	require.NotEqual(t, uuid.Nil, userID)
}

func Test_Login_Returns_401_Before_Email_Confirmed(t *testing.T) {
	// Arrange
	registerCommand := authcommands.RegisterCommand{
		Email:    fmt.Sprintf("%s@tests.com", uuid.NewString()),
		Username: uuid.New().String(),
		Password: uuid.New().String(),
	}

	_, err := sendRequest[authcommands.RegisterCommand, any](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/auth/registrations"),
		http.MethodPost,
		"",
		registerCommand,
		func(resp *http.Response) { require.Equal(t, http.StatusOK, resp.StatusCode) },
	)
	require.NoError(t, err)

	// Act
	loginCommand := authcommands.LoginCommand{
		Email:    registerCommand.Email,
		Password: registerCommand.Password,
	}

	_, err = sendRequest[authcommands.LoginCommand, any](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/auth/login"),
		http.MethodPost,
		"",
		loginCommand,
		func(resp *http.Response) {
			// Assert
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		},
	)
	require.NoError(t, err)
}

func Test_Login_Returns_401_For_Wrong_Password(t *testing.T) {
	// Arrange
	_, _ = registerAndLogin(t)

	loginCommand := authcommands.LoginCommand{
		Email:    fmt.Sprintf("%s@tests.com", uuid.NewString()),
		Password: uuid.New().String(),
	}

	// Act
	_, err := sendRequest[authcommands.LoginCommand, any](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/auth/login"),
		http.MethodPost,
		"",
		loginCommand,
		func(resp *http.Response) {
			// Assert
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		},
	)
	require.NoError(t, err)
}

func Test_Protected_Route_Returns_401_Without_Session(t *testing.T) {
	// Act
	resp, err := fixture.client.Get(fmt.Sprintf("%s/events?ownerId=%s", fixture.baseURL, uuid.New()))

	// Assert
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_Protected_Route_Returns_401_For_Unknown_Session(t *testing.T) {
	// Act
	_, err := sendRequest[any, any](
		fixture.client,
		fmt.Sprintf("%s/events?ownerId=%s", fixture.baseURL, uuid.New()),
		http.MethodGet,
		uuid.NewString(),
		nil,
		func(resp *http.Response) {
			// Assert
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		},
	)
	require.NoError(t, err)
}
