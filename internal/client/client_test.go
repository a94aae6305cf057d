package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kwybro/guilloteam/internal/client"
)

func TestBearerTokenSent(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"teams":[]}`))
	}))
	defer ts.Close()

	c := client.New(ts.URL, "gt_secret")
	_, err := c.ListTeams(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer gt_secret", gotAuth)
}

func TestErrorBodyDecoded(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"resource not found","code":"not_found"}`))
	}))
	defer ts.Close()

	c := client.New(ts.URL, "gt_secret")
	_, err := c.GetTeam(context.Background(), "x")
	var ae *client.APIError
	require.True(t, errors.As(err, &ae))
	require.Equal(t, http.StatusNotFound, ae.Status)
	require.Equal(t, "not_found", ae.Code)
	require.Equal(t, "resource not found", ae.Message)
	require.False(t, ae.ServerFault())
	require.Equal(t, "resource not found (not_found)", ae.Error())
}

func TestServerFault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := client.New(ts.URL, "gt_secret")
	_, err := c.ListTeams(context.Background())
	var ae *client.APIError
	require.True(t, errors.As(err, &ae))
	require.True(t, ae.ServerFault())
}
