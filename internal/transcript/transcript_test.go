package transcript

import (
	"context"
	"math"
	"net/http"
	"testing"
	"yorkgrades/lib/gpa"
	"yorkgrades/lib/platforms/yorksis"
	"yorkgrades/lib/testutil"

	"github.com/stretchr/testify/require"
)

var creds = yorksis.Credentials{Username: "jdoe", Password: "hunter2"}

func setup(t testing.TB, opts testutil.PortalOptions) (*yorksis.Client, *testutil.Portal) {
	portal := testutil.NewPortal(t, opts)
	client, err := yorksis.NewClient(context.Background(), yorksis.ClientOptions{
		Endpoints: yorksis.Endpoints{
			CourseList: portal.CourseListURL(),
			Login:      portal.LoginURL(),
			Logout:     portal.LogoutURL(),
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return client, portal
}

func TestFetch(t *testing.T) {
	cleanup := testutil.SetupTelemetry(t, "internal/transcript")
	defer cleanup()

	client, portal := setup(t, testutil.PortalOptions{
		Username: creds.Username,
		Password: creds.Password,
	})

	result, err := Fetch(context.Background(), client, creds)
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, []yorksis.CourseData{
		{Session: "FW2020", Course: "LE EECS 1001 3.00", Title: "Research Directions in Computing", Grade: "A+"},
		{Session: "FW 2020", Course: "SC MATH 1190 3.00", Title: "Sets & Logic", Grade: "B"},
	}, result.Grades)
	require.InDelta(t, 3.5, result.GPA.Four, 1e-9)
	require.InDelta(t, 7.5, result.GPA.Nine, 1e-9)

	calls := portal.Calls()
	require.Len(t, calls, 4)
	expected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/Apps/WebObjects/ydml.woa/wa/DirectAction/document"},
		{http.MethodPost, "/ppylogin/ppylogin"},
		{http.MethodGet, "/Apps/WebObjects/ydml.woa/wa/DirectAction/document"},
		{http.MethodGet, "/ppylogin/ppylogout"},
	}
	for i, call := range calls {
		require.Equal(t, expected[i].method, call.Method, "call %d", i)
		require.Equal(t, expected[i].path, call.Path, "call %d", i)
	}
}

func TestFetchRejectedCredentials(t *testing.T) {
	client, portal := setup(t, testutil.PortalOptions{
		Username: creds.Username,
		Password: "something else",
	})

	_, err := Fetch(context.Background(), client, creds)
	require.ErrorIs(t, err, yorksis.ErrAuthenticationFailed)
	require.Equal(t, "could not authenticate", err.Error())
	// nothing is scraped and logout is never reached
	require.Len(t, portal.Calls(), 2)
}

func TestFetchMissingTable(t *testing.T) {
	client, portal := setup(t, testutil.PortalOptions{
		Username:       creds.Username,
		Password:       creds.Password,
		CourseListPage: "<html><body><p>No courses</p></body></html>",
	})

	_, err := Fetch(context.Background(), client, creds)
	require.ErrorIs(t, err, yorksis.ErrTableNotFound)
	require.Len(t, portal.Calls(), 3)
}

func TestFetchBadCredit(t *testing.T) {
	client, portal := setup(t, testutil.PortalOptions{
		Username: creds.Username,
		Password: creds.Password,
		CourseListPage: `<table class="bodytext">
			<tr><td>FW 2020</td><td>LE EECS 1001</td><td>Research Directions</td><td>A</td></tr>
		</table>`,
	})

	_, err := Fetch(context.Background(), client, creds)
	require.ErrorIs(t, err, gpa.ErrCreditParse)
	// logout happens before the gpa is computed
	require.Len(t, portal.Calls(), 4)
}

func TestFetchInProgressOnly(t *testing.T) {
	client, _ := setup(t, testutil.PortalOptions{
		Username: creds.Username,
		Password: creds.Password,
		CourseListPage: `<table class="bodytext">
			<tr><td>FW 2020</td><td>LE EECS 1001 3.00</td><td>Research Directions</td><td>IP</td></tr>
		</table>`,
	})

	result, err := Fetch(context.Background(), client, creds)
	require.NoError(t, err)
	require.Len(t, result.Grades, 1)
	require.True(t, math.IsNaN(float64(result.GPA.Four)))
	require.True(t, math.IsNaN(float64(result.GPA.Nine)))
}
