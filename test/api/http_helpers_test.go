package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	authcommands "github.com/avelkovic/matchpoint/internal/modules/auth/commands"
	authdomain "github.com/avelkovic/matchpoint/internal/modules/auth/domain"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type responseAssertion func(*http.Response)

// sendRequest fires a JSON request at the running server. An empty
// session skips the cookie.
func sendRequest[TReq any, TResp any](
	c *http.Client,
	url string,
	method string,
	session string,
	req TReq,
	opts ...responseAssertion,
) (TResp, error) {
	var resp TResp

	payload, err := json.Marshal(req)
	if err != nil {
		return resp, err
	}

	httpReq, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return resp, err
	}

	if session != "" {
		httpReq.AddCookie(&http.Cookie{Name: authdomain.SessionCookieName, Value: session})
	}

	httpResp, err := c.Do(httpReq)
	if err != nil {
		return resp, err
	}

	for _, opt := range opts {
		opt(httpResp)
	}

	if httpResp.ContentLength > 0 {
		defer func() {
			_ = httpResp.Body.Close()
		}()

		responsePayload, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return resp, err
		}

		if err := json.Unmarshal(responsePayload, &resp); err != nil {
			return resp, err
		}
	}

	return resp, err
}

// registerAndLogin walks a fresh user through registration, email
// confirmation, and login. Returns the session cookie value and the
// user id.
func registerAndLogin(t *testing.T) (string, uuid.UUID) {
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

	type tokenRow struct {
		Token  string    `db:"token"`
		UserID uuid.UUID `db:"user_id"`
	}

	row, err := tql.QueryFirst[tokenRow](
		context.Background(),
		fixture.db,
		`SELECT
			ac.token, ac.user_id
		FROM
			auth.activation_code ac
		INNER JOIN auth."user" u ON u.id = ac.user_id
		WHERE u.email = $1;`,
		registerCommand.Email,
	)
	require.NoError(t, err)

	_, err = sendRequest[authcommands.VerifyRegistrationCommand, any](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/auth/registrations/actions/confirm"),
		http.MethodPost,
		"",
		authcommands.VerifyRegistrationCommand{Token: row.Token},
		func(resp *http.Response) { require.Equal(t, http.StatusOK, resp.StatusCode) },
	)
	require.NoError(t, err)

	// Act
	loginCommand := authcommands.LoginCommand{
		Email:    registerCommand.Email,
		Password: registerCommand.Password,
	}

	var cookie string

	_, err = sendRequest[authcommands.LoginCommand, any](
		fixture.client,
		fmt.Sprintf("%s%s", fixture.baseURL, "/auth/login"),
		http.MethodPost,
		"",
		loginCommand,
		func(resp *http.Response) {
			require.Equal(t, http.StatusOK, resp.StatusCode)

			for _, c := range resp.Cookies() {
				if c.Name != authdomain.SessionCookieName {
					continue
				}

				cookie = c.Value
				break
			}
		},
	)
	require.NoError(t, err)

	// Assert
	require.NotEmpty(t, cookie, "found no cookie '%s'", authdomain.SessionCookieName)

	return cookie, row.UserID
}
