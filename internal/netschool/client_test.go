package netschool

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePortal implements just enough of the web API for Login and Diary.
func fakePortal(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/webapi/logindata", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "NSSESSIONID", Value: "abc"})
		_, _ = w.Write([]byte(`{}`))
	})

	mux.HandleFunc("/webapi/auth/getdata", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]string{"lt": "100", "ver": "v1", "salt": "SALT"})
	})

	mux.HandleFunc("/webapi/schools/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 3, "shortName": "MySchool"},
		})
	})

	mux.HandleFunc("/webapi/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "1", r.Form.Get("loginType"))
		assert.Equal(t, "3", r.Form.Get("scid"))
		assert.Equal(t, "100", r.Form.Get("lt"))

		wantPw, wantPw2 := passwordDigests("secret", "SALT")
		if r.Form.Get("un") != "alice" || r.Form.Get("pw") != wantPw || r.Form.Get("pw2") != wantPw2 {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Неверный логин или пароль"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"at": "TOKEN"})
	})

	mux.HandleFunc("/webapi/context", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "TOKEN", r.Header.Get("at"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":         map[string]any{"id": 77},
			"schoolYearId": 5,
		})
	})

	mux.HandleFunc("/webapi/student/diary", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "TOKEN", r.Header.Get("at"))
		q := r.URL.Query()
		assert.Equal(t, "77", q.Get("studentId"))
		assert.Equal(t, "5", q.Get("yearId"))
		assert.NotEmpty(t, q.Get("weekStart"))
		assert.NotEmpty(t, q.Get("weekEnd"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"weekStart": "2024-09-02",
			"weekDays": []map[string]any{
				{
					// out of order on purpose; client must sort
					"date": "2024-09-03T00:00:00",
					"lessons": []map[string]any{
						{"subjectName": "Физика", "assignments": []map[string]any{}},
					},
				},
				{
					"date": "2024-09-02T00:00:00",
					"lessons": []map[string]any{
						{
							"subjectName": "Математика",
							"assignments": []map[string]any{
								{"assignmentName": "Домашняя работа №1", "mark": 5},
								{"assignmentName": "Контрольная", "mark": nil},
							},
						},
					},
				},
			},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) Config {
	return Config{BaseURL: url, Timeout: 5 * time.Second}
}

func TestLogin_Success(t *testing.T) {
	srv := fakePortal(t)

	c, err := Login(context.Background(), testConfig(srv.URL), "alice", "secret", "MySchool")
	require.NoError(t, err)
	assert.Equal(t, "TOKEN", c.at)
	assert.Equal(t, 77, c.studentID)
	assert.Equal(t, 5, c.yearID)
}

func TestLogin_SchoolNotFound(t *testing.T) {
	srv := fakePortal(t)

	_, err := Login(context.Background(), testConfig(srv.URL), "alice", "secret", "NoSuchSchool")
	assert.ErrorIs(t, err, ErrSchoolNotFound)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := fakePortal(t)

	_, err := Login(context.Background(), testConfig(srv.URL), "alice", "wrong", "MySchool")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogin_ConnectError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	_, err := Login(context.Background(), testConfig(srv.URL), "alice", "secret", "MySchool")
	assert.ErrorIs(t, err, ErrConnect)
}

func TestLogin_RequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	_, err := Login(context.Background(), testConfig(srv.URL), "alice", "secret", "MySchool")
	assert.ErrorIs(t, err, ErrRequest)
}

func TestDiary_MapsAndSortsDays(t *testing.T) {
	srv := fakePortal(t)

	c, err := Login(context.Background(), testConfig(srv.URL), "alice", "secret", "MySchool")
	require.NoError(t, err)

	d, err := c.Diary(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Days, 2)

	assert.Equal(t, time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC), d.Days[0].Date)
	assert.Equal(t, time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC), d.Days[1].Date)

	require.Len(t, d.Days[0].Lessons, 1)
	lesson := d.Days[0].Lessons[0]
	assert.Equal(t, "Математика", lesson.Subject)
	require.Len(t, lesson.Assignments, 2)
	assert.Equal(t, Assignment{Content: "Домашняя работа №1", Mark: "5"}, lesson.Assignments[0])
	assert.Equal(t, Assignment{Content: "Контрольная", Mark: ""}, lesson.Assignments[1])

	assert.Empty(t, d.Days[1].Lessons[0].Assignments)
}

func TestPasswordDigests(t *testing.T) {
	pw, pw2 := passwordDigests("secret", "SALT")

	assert.Len(t, pw2, 32)
	assert.Equal(t, len("secret"), len(pw))
	assert.Equal(t, pw2[:len("secret")], pw)

	// deterministic, salt-sensitive
	_, other := passwordDigests("secret", "OTHER")
	assert.NotEqual(t, pw2, other)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2024, 9, 4, 15, 30, 0, 0, time.UTC), time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)}, // Wednesday
		{time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)},   // Monday
		{time.Date(2024, 9, 8, 23, 0, 0, 0, time.UTC), time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)},  // Sunday
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, weekStart(tc.in))
	}
}
