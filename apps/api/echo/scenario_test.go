package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/marks"
	"github.com/trezcool/darasa/core/user"
)

func login(t *testing.T, e testEnv, uname, pwd string) string {
	t.Helper()
	req, rec := newRequest(http.MethodPost, "/v1/login", marshallObj(t, map[string]string{"username": uname, "password": pwd}))
	e.srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp echoapi.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestServer_registerAssignAndRank(t *testing.T) {
	e := setup(t)

	register := func(uname, pwd, role string) []byte {
		return marshallObj(t, map[string]string{"username": uname, "password": pwd, "role": role})
	}
	e.run(t, []httpTest{
		{
			name: "register alice", method: http.MethodPost, path: "/v1/register", body: register("alice", "pw1", "student"),
			wantCode: http.StatusCreated,
			wantData: marshallObj(t, echoapi.UserResponse{ID: 1, Username: "alice", Role: user.RoleStudent}),
		},
		{
			name: "register bob", method: http.MethodPost, path: "/v1/register", body: register("bob", "pw2", "teacher"),
			wantCode: http.StatusCreated,
		},
		{
			name: "register carol", method: http.MethodPost, path: "/v1/register", body: register("carol", "pw3", "student"),
			wantCode: http.StatusCreated,
		},
	})

	aliceToken := login(t, e, "alice", "pw1")
	bobToken := login(t, e, "bob", "pw2")

	e.run(t, []httpTest{
		{
			name: "bob assigns alice", method: http.MethodPost, path: "/v1/marks", token: bobToken,
			body: assignBody(1, "R1", 80, 70, 90, 60, 100),
			wantData: marshallObj(t, echoapi.AssignmentResponse{
				UserID: 1, RollNo: "R1",
				MarksResponse: echoapi.MarksResponse{S1: 80, S2: 70, S3: 90, S4: 60, S5: 100, Total: 400},
			}),
		},
		{
			name: "bob assigns carol", method: http.MethodPost, path: "/v1/marks", token: bobToken,
			body: assignBody(3, "R2", 90, 90, 90, 90, 90),
		},
		{
			name: "alice reads her marks", path: "/v1/students/marks", token: aliceToken,
			wantData: marshallObj(t, echoapi.MarksResponse{S1: 80, S2: 70, S3: 90, S4: 60, S5: 100, Total: 400}),
		},
		{
			name: "alice cannot assign", method: http.MethodPost, path: "/v1/marks", token: aliceToken,
			body: assignBody(1, "R1", 100, 100, 100, 100, 100), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, errForbidden),
		},
		{
			name: "alice sees the leaderboard", path: "/v1/leaderboard", token: aliceToken,
			wantData: marshallList(t,
				marks.LeaderboardEntry{Rank: 1, RollNo: "R2", Student: "carol", Total: 450},
				marks.LeaderboardEntry{Rank: 2, RollNo: "R1", Student: "alice", Total: 400},
			),
		},
	})

	// the rejected assignment left alice's marks untouched
	e.run(t, []httpTest{
		{
			name: "alice marks unchanged", path: "/v1/students/marks", token: aliceToken,
			wantData: marshallObj(t, echoapi.MarksResponse{S1: 80, S2: 70, S3: 90, S4: 60, S5: 100, Total: 400}),
		},
	})
}
