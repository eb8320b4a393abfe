package echoapi_test

import (
	"fmt"
	"net/http"
	"testing"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/marks"
	"github.com/trezcool/darasa/core/user"
	"github.com/trezcool/darasa/testutil"
)

func assignBody(userID int, rollNo string, s1, s2, s3, s4, s5 int) []byte {
	return []byte(fmt.Sprintf(
		`{"user_id": %d, "roll_no": %q, "s1": %d, "s2": %d, "s3": %d, "s4": %d, "s5": %d}`,
		userID, rollNo, s1, s2, s3, s4, s5,
	))
}

func Test_marksApi_assign(t *testing.T) {
	e := setup(t)
	alice := testutil.CreateUser(t, e.usrRepo, "alice", "pw1", user.RoleStudent)
	bob := testutil.CreateUser(t, e.usrRepo, "bob", "pw2", user.RoleTeacher)
	carol := testutil.CreateUser(t, e.usrRepo, "carol", "pw3", user.RoleStudent)
	teacherToken := e.getToken(t, bob)

	e.run(t, []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/v1/marks",
			body: assignBody(alice.ID, "R1", 1, 2, 3, 4, 5), wantCode: http.StatusUnauthorized,
			wantData: marshallObj(t, errNotAuthenticated),
		},
		{
			name: "teacher required", method: http.MethodPost, path: "/v1/marks", token: e.getToken(t, alice),
			body: assignBody(alice.ID, "R1", 100, 100, 100, 100, 100), wantCode: http.StatusForbidden,
			wantData: marshallObj(t, errForbidden),
		},
		{
			name: "create", method: http.MethodPost, path: "/v1/marks", token: teacherToken,
			body: assignBody(alice.ID, " R1 ", 80, 70, 60, 50, 40),
			wantData: marshallObj(t, echoapi.AssignmentResponse{
				UserID: alice.ID, RollNo: "R1",
				MarksResponse: echoapi.MarksResponse{S1: 80, S2: 70, S3: 60, S4: 50, S5: 40, Total: 300},
			}),
		},
		{
			name: "update", method: http.MethodPost, path: "/v1/marks", token: teacherToken,
			body: assignBody(alice.ID, "R2", 90, 90, 90, 90, 90),
			wantData: marshallObj(t, echoapi.AssignmentResponse{
				UserID: alice.ID, RollNo: "R2",
				MarksResponse: echoapi.MarksResponse{S1: 90, S2: 90, S3: 90, S4: 90, S5: 90, Total: 450},
			}),
		},
		{
			name: "roll number taken", method: http.MethodPost, path: "/v1/marks", token: teacherToken,
			body: assignBody(carol.ID, "R2", 1, 1, 1, 1, 1), wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"roll_no": marks.ErrRollNoExists.Error()}),
		},
		{
			name: "unknown student", method: http.MethodPost, path: "/v1/marks", token: teacherToken,
			body: assignBody(999, "R9", 1, 1, 1, 1, 1), wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: marks.ErrStudentNotFound.Error()}),
		},
		{
			name: "teacher target", method: http.MethodPost, path: "/v1/marks", token: teacherToken,
			body: assignBody(bob.ID, "R9", 1, 1, 1, 1, 1), wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"user_id": marks.ErrNotAStudent.Error()}),
		},
		{
			name: "missing score", method: http.MethodPost, path: "/v1/marks", token: teacherToken,
			body:     []byte(fmt.Sprintf(`{"user_id": %d, "roll_no": "R3", "s1": 1, "s2": 1, "s4": 1, "s5": 1}`, carol.ID)),
			wantCode: http.StatusBadRequest,
			wantData: marshallObj(t, map[string]string{"s3": "this field is required"}),
		},
		{
			name: "score out of range", method: http.MethodPost, path: "/v1/marks", token: teacherToken,
			body: assignBody(carol.ID, "R3", 101, 1, 1, 1, -1), wantCode: http.StatusBadRequest,
		},
		{
			name: "zero scores", method: http.MethodPost, path: "/v1/marks", token: teacherToken,
			body: assignBody(carol.ID, "R3", 0, 0, 0, 0, 0),
			wantData: marshallObj(t, echoapi.AssignmentResponse{UserID: carol.ID, RollNo: "R3"}),
		},
	})
}

func Test_marksApi_retrieve(t *testing.T) {
	e := setup(t)
	alice := testutil.CreateUser(t, e.usrRepo, "alice", "pw1", user.RoleStudent)
	bob := testutil.CreateUser(t, e.usrRepo, "bob", "pw2", user.RoleTeacher)
	carol := testutil.CreateUser(t, e.usrRepo, "carol", "pw3", user.RoleStudent)
	testutil.AssignMarks(t, e.marksSvc, alice, "R1", 1, 2, 3, 4, 5)

	aliceToken := e.getToken(t, alice)
	carolToken := e.getToken(t, carol)

	e.run(t, []httpTest{
		{name: "profile: auth required", path: "/v1/students/me", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errNotAuthenticated)},
		{
			name: "profile: student required", path: "/v1/students/me", token: e.getToken(t, bob),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "profile: not assigned", path: "/v1/students/me", token: carolToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: marks.ErrProfileNotFound.Error()}),
		},
		{
			name: "profile", path: "/v1/students/me", token: aliceToken,
			wantData: marshallObj(t, echoapi.ProfileResponse{Username: "alice", RollNo: "R1"}),
		},
		{
			name: "marks: student required", path: "/v1/students/marks", token: e.getToken(t, bob),
			wantCode: http.StatusForbidden, wantData: marshallObj(t, errForbidden),
		},
		{
			name: "marks: not assigned", path: "/v1/students/marks", token: carolToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: marks.ErrMarksNotFound.Error()}),
		},
		{
			name: "marks", path: "/v1/students/marks", token: aliceToken,
			wantData: marshallObj(t, echoapi.MarksResponse{S1: 1, S2: 2, S3: 3, S4: 4, S5: 5, Total: 15}),
		},
	})
}

func Test_marksApi_leaderboard(t *testing.T) {
	e := setup(t)
	alice := testutil.CreateUser(t, e.usrRepo, "alice", "pw1", user.RoleStudent)
	bob := testutil.CreateUser(t, e.usrRepo, "bob", "pw2", user.RoleTeacher)
	carol := testutil.CreateUser(t, e.usrRepo, "carol", "pw3", user.RoleStudent)
	dave := testutil.CreateUser(t, e.usrRepo, "dave", "pw4", user.RoleStudent)
	testutil.CreateUser(t, e.usrRepo, "erin", "pw5", user.RoleStudent) // no marks

	e.run(t, []httpTest{
		{name: "auth required", path: "/v1/leaderboard", wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errNotAuthenticated)},
		{name: "empty", path: "/v1/leaderboard", token: e.getToken(t, bob), wantData: marshallList(t)},
	})

	testutil.AssignMarks(t, e.marksSvc, alice, "R3", 18, 18, 18, 18, 18)
	testutil.AssignMarks(t, e.marksSvc, carol, "R1", 18, 18, 18, 18, 18)
	testutil.AssignMarks(t, e.marksSvc, dave, "R2", 14, 14, 14, 14, 14)

	want := marshallList(t,
		marks.LeaderboardEntry{Rank: 1, RollNo: "R1", Student: "carol", Total: 90},
		marks.LeaderboardEntry{Rank: 2, RollNo: "R3", Student: "alice", Total: 90},
		marks.LeaderboardEntry{Rank: 3, RollNo: "R2", Student: "dave", Total: 70},
	)
	e.run(t, []httpTest{
		{name: "teacher", path: "/v1/leaderboard", token: e.getToken(t, bob), wantData: want},
		{name: "student", path: "/v1/leaderboard", token: e.getToken(t, alice), wantData: want},
	})
}
