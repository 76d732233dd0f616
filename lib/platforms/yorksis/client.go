package yorksis

import (
	"context"
	"net/http/cookiejar"
	"yorkgrades/lib/restyutil"
	"yorkgrades/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

const UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_6) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.2 Safari/605.1.15"

type Endpoints struct {
	CourseList string
	Login      string
	Logout     string
}

var DefaultEndpoints = Endpoints{
	CourseList: "https://wrem.sis.yorku.ca/Apps/WebObjects/ydml.woa/wa/DirectAction/document?name=CourseListv1",
	Login:      "https://passportyork.yorku.ca/ppylogin/ppylogin",
	Logout:     "https://passportyork.yorku.ca/ppylogin/ppylogout",
}

type Credentials struct {
	Username string
	Password string
}

// Client holds a single portal session, the cookie jar on Http is the only
// session state.
type Client struct {
	Endpoints Endpoints
	Http      *resty.Client
}

type ClientOptions struct {
	// the zero value means DefaultEndpoints
	Endpoints Endpoints
	// when set, every request and response is written to it
	InstrumentOutput restyutil.InstrumentOutput
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	endpoints := opts.Endpoints
	if endpoints == (Endpoints{}) {
		endpoints = DefaultEndpoints
	}

	client := resty.New()
	jar, err := cookiejar.New(&cookiejar.Options{
		PublicSuffixList: publicsuffix.List,
	})
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", UserAgent)
	// the course list bounces between the sis and passport york hosts
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))

	// dumps never contain the password from the login form
	restyutil.InstrumentClient(client, opts.InstrumentOutput, "password")
	telemetry.InstrumentResty(client, "platforms/yorksis/http")

	return &Client{
		Endpoints: endpoints,
		Http:      client,
	}, nil
}
