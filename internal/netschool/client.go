package netschool

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config holds connection settings for the portal.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is an authenticated portal session. Create one with Login.
//
// Client is not safe for concurrent use; the bot funnels all calls through
// its single background worker.
type Client struct {
	http      *http.Client
	baseURL   string
	at        string
	studentID int
	yearID    int
}

var _ DiaryProvider = (*Client)(nil)

type authData struct {
	LT   string `json:"lt"`
	Ver  string `json:"ver"`
	Salt string `json:"salt"`
}

type schoolInfo struct {
	ID        int    `json:"id"`
	ShortName string `json:"shortName"`
}

type loginResponse struct {
	AT      string `json:"at"`
	Message string `json:"message"`
}

type contextResponse struct {
	User struct {
		ID int `json:"id"`
	} `json:"user"`
	SchoolYearID int `json:"schoolYearId"`
}

type wireAssignment struct {
	AssignmentName string `json:"assignmentName"`
	Mark           *int   `json:"mark"`
}

type wireLesson struct {
	SubjectName string           `json:"subjectName"`
	Assignments []wireAssignment `json:"assignments"`
}

type wireDay struct {
	Date    string       `json:"date"`
	Lessons []wireLesson `json:"lessons"`
}

type wireDiary struct {
	WeekStart string    `json:"weekStart"`
	WeekDays  []wireDay `json:"weekDays"`
}

// Login performs the portal handshake: bootstrap the session, fetch auth
// salt data, resolve the school, post the digested credentials, and load the
// student context needed for diary requests.
//
// Errors: ErrSchoolNotFound, ErrBadCredentials, ErrConnect (dial/transport
// faults), ErrRequest (protocol faults).
func Login(ctx context.Context, cfg Config, login, password, school string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &Client{
		http:    &http.Client{Timeout: cfg.Timeout, Jar: jar},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}

	// session cookie bootstrap
	if _, err := c.get(ctx, "/webapi/logindata", nil); err != nil {
		return nil, err
	}

	var ad authData
	if err := c.postJSON(ctx, "/webapi/auth/getdata", nil, &ad); err != nil {
		return nil, err
	}

	schoolID, err := c.resolveSchool(ctx, school)
	if err != nil {
		return nil, err
	}

	pw, pw2 := passwordDigests(password, ad.Salt)

	form := url.Values{
		"loginType": {"1"},
		"scid":      {strconv.Itoa(schoolID)},
		"un":        {login},
		"pw":        {pw},
		"pw2":       {pw2},
		"lt":        {ad.LT},
		"ver":       {ad.Ver},
	}

	body, status, err := c.postForm(ctx, "/webapi/login", form)
	if err != nil {
		return nil, err
	}
	if status == http.StatusConflict || status == http.StatusUnauthorized {
		return nil, ErrBadCredentials
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: login status %d", ErrRequest, status)
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %v", ErrRequest, err)
	}
	if lr.AT == "" {
		return nil, ErrBadCredentials
	}
	c.at = lr.AT

	var cr contextResponse
	if err := c.getJSON(ctx, "/webapi/context", nil, &cr); err != nil {
		return nil, err
	}
	c.studentID = cr.User.ID
	c.yearID = cr.SchoolYearID

	return c, nil
}

// Diary fetches the current week (Monday through Sunday) of the diary.
// Days come back in chronological order.
func (c *Client) Diary(ctx context.Context) (*Diary, error) {
	start := weekStart(time.Now())
	end := start.AddDate(0, 0, 6)

	query := url.Values{
		"studentId": {strconv.Itoa(c.studentID)},
		"yearId":    {strconv.Itoa(c.yearID)},
		"weekStart": {start.Format("2006-01-02")},
		"weekEnd":   {end.Format("2006-01-02")},
	}

	var wd wireDiary
	if err := c.getJSON(ctx, "/webapi/student/diary", query, &wd); err != nil {
		return nil, err
	}

	d := &Diary{WeekStart: start}
	for _, day := range wd.WeekDays {
		date, err := parsePortalDate(day.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: day date %q: %v", ErrRequest, day.Date, err)
		}
		out := Day{Date: date}
		for _, lesson := range day.Lessons {
			l := Lesson{Subject: lesson.SubjectName}
			for _, a := range lesson.Assignments {
				mark := ""
				if a.Mark != nil {
					mark = strconv.Itoa(*a.Mark)
				}
				l.Assignments = append(l.Assignments, Assignment{Content: a.AssignmentName, Mark: mark})
			}
			out.Lessons = append(out.Lessons, l)
		}
		d.Days = append(d.Days, out)
	}

	sort.Slice(d.Days, func(i, j int) bool { return d.Days[i].Date.Before(d.Days[j].Date) })

	return d, nil
}

// Logout invalidates the portal session. Best effort; transport errors are
// returned but the handle is unusable afterwards either way.
func (c *Client) Logout(ctx context.Context) error {
	_, _, err := c.postForm(ctx, "/webapi/auth/logout", nil)
	return err
}

func (c *Client) resolveSchool(ctx context.Context, name string) (int, error) {
	query := url.Values{"name": {name}}

	var schools []schoolInfo
	if err := c.getJSON(ctx, "/webapi/schools/search", query, &schools); err != nil {
		return 0, err
	}

	for _, s := range schools {
		if strings.EqualFold(s.ShortName, name) {
			return s.ID, nil
		}
	}
	return 0, ErrSchoolNotFound
}

// passwordDigests implements the portal's digest scheme:
// pw2 = md5(salt + md5(password)), pw = pw2 truncated to the password length.
func passwordDigests(password, salt string) (pw, pw2 string) {
	ph := md5hex([]byte(password))
	pw2 = md5hex([]byte(salt + ph))
	n := len(password)
	if n > len(pw2) {
		n = len(pw2)
	}
	return pw2[:n], pw2
}

func md5hex(b []byte) string {
	sum := md5.Sum(b)
	return hex.EncodeToString(sum[:])
}

// weekStart returns the Monday of t's week.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	t = t.AddDate(0, 0, -offset)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parsePortalDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format")
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if c.at != "" {
		req.Header.Set("at", c.at)
	}
	return req, nil
}

// do executes the request, mapping transport faults to ErrConnect.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read body: %v", ErrRequest, err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s status %d", ErrRequest, path, status)
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrRequest, path, err)
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, int, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, form url.Values, v any) error {
	body, status, err := c.postForm(ctx, path, form)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: POST %s status %d", ErrRequest, path, status)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrRequest, path, err)
	}
	return nil
}
