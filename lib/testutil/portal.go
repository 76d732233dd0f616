package testutil

import (
	_ "embed"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

//go:embed testdata/login.html
var LoginPage string

//go:embed testdata/login_success.html
var LoginSuccessPage string

//go:embed testdata/login_failure.html
var LoginFailurePage string

//go:embed testdata/course_list.html
var CourseListPage string

//go:embed testdata/logout.html
var LogoutPage string

const (
	courseListPath = "/Apps/WebObjects/ydml.woa/wa/DirectAction/document"
	loginPath      = "/ppylogin/ppylogin"
	logoutPath     = "/ppylogin/ppylogout"
	sessionCookie  = "pybpp"
	sessionToken   = "portal-session"
)

// PortalCall is a single request received by a Portal.
type PortalCall struct {
	Method    string
	Path      string
	Form      url.Values
	UserAgent string
}

type PortalOptions struct {
	Username string
	Password string

	// any page left empty falls back to the matching embedded fixture
	LoginPage        string
	LoginSuccessPage string
	LoginFailurePage string
	CourseListPage   string
}

// Portal is an in-process stand-in for Passport York and the SIS course
// list. The course list serves the login form until a session cookie is
// presented, a login POST with matching credentials sets that cookie.
type Portal struct {
	Server *httptest.Server

	opts  PortalOptions
	mutex sync.Mutex
	calls []PortalCall
}

func NewPortal(t testing.TB, opts PortalOptions) *Portal {
	if opts.LoginPage == "" {
		opts.LoginPage = LoginPage
	}
	if opts.LoginSuccessPage == "" {
		opts.LoginSuccessPage = LoginSuccessPage
	}
	if opts.LoginFailurePage == "" {
		opts.LoginFailurePage = LoginFailurePage
	}
	if opts.CourseListPage == "" {
		opts.CourseListPage = CourseListPage
	}

	p := &Portal{opts: opts}

	mux := http.NewServeMux()
	mux.HandleFunc(courseListPath, p.handleCourseList)
	mux.HandleFunc(loginPath, p.handleLogin)
	mux.HandleFunc(logoutPath, p.handleLogout)
	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Server.Close)

	return p
}

func (p *Portal) CourseListURL() string {
	return fmt.Sprintf("%s%s?name=CourseListv1", p.Server.URL, courseListPath)
}

func (p *Portal) LoginURL() string {
	return p.Server.URL + loginPath
}

func (p *Portal) LogoutURL() string {
	return p.Server.URL + logoutPath
}

// Calls returns every request received so far, in order.
func (p *Portal) Calls() []PortalCall {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	out := make([]PortalCall, len(p.calls))
	copy(out, p.calls)
	return out
}

func (p *Portal) record(r *http.Request) {
	call := PortalCall{
		Method:    r.Method,
		Path:      r.URL.Path,
		UserAgent: r.UserAgent(),
	}
	if r.Method == http.MethodPost {
		err := r.ParseForm()
		if err == nil {
			call.Form = r.PostForm
		}
	}

	p.mutex.Lock()
	p.calls = append(p.calls, call)
	p.mutex.Unlock()
}

func authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookie)
	return err == nil && cookie.Value == sessionToken
}

func writeHtml(w http.ResponseWriter, body string) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	fmt.Fprint(w, body)
}

func (p *Portal) handleCourseList(w http.ResponseWriter, r *http.Request) {
	p.record(r)
	if !authenticated(r) {
		writeHtml(w, p.opts.LoginPage)
		return
	}
	writeHtml(w, p.opts.CourseListPage)
}

func (p *Portal) handleLogin(w http.ResponseWriter, r *http.Request) {
	p.record(r)
	if r.Method != http.MethodPost {
		writeHtml(w, p.opts.LoginPage)
		return
	}
	if r.PostForm.Get("mli") != p.opts.Username ||
		r.PostForm.Get("password") != p.opts.Password {
		writeHtml(w, p.opts.LoginFailurePage)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:  sessionCookie,
		Value: sessionToken,
		Path:  "/",
	})
	writeHtml(w, p.opts.LoginSuccessPage)
}

func (p *Portal) handleLogout(w http.ResponseWriter, r *http.Request) {
	p.record(r)
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	writeHtml(w, LogoutPage)
}
