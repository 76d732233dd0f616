package yorksis

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const successMarker = "You have successfully authenticated"

// loginFields builds the login form. Hidden inputs are written after the
// fixed fields, so they win when a name collides.
func loginFields(doc *goquery.Document, creds Credentials) (map[string]string, error) {
	fields := map[string]string{
		"mli":      creds.Username,
		"password": creds.Password,
		"dologin":  "Login",
	}

	var err error
	hidden := doc.Find("input").FilterFunction(func(_ int, s *goquery.Selection) bool {
		// attribute values of type are case insensitive in html
		return strings.EqualFold(s.AttrOr("type", ""), "hidden")
	})
	hidden.EachWithBreak(func(i int, s *goquery.Selection) bool {
		name, ok := s.Attr("name")
		if !ok {
			err = fmt.Errorf("%w: hidden input %d has no name", ErrMalformedPage, i)
			return false
		}
		value, ok := s.Attr("value")
		if !ok {
			err = fmt.Errorf("%w: hidden input '%s' has no value", ErrMalformedPage, name)
			return false
		}
		fields[name] = value
		return true
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// Authenticate logs into passport york, it returns false without an error
// when the portal rejects the credentials.
func (c *Client) Authenticate(ctx context.Context, creds Credentials) (bool, error) {
	ctx, span := tracer.Start(ctx, "yorksis.Authenticate")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(c.Endpoints.CourseList)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch login page")
		return false, fmt.Errorf("%w: fetch login page: %w", ErrTransport, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse login page")
		return false, fmt.Errorf("%w: %w", ErrMalformedPage, err)
	}

	fields, err := loginFields(doc, creds)
	if err != nil {
		span.SetStatus(codes.Error, "failed to read hidden fields")
		return false, err
	}
	span.SetAttributes(attribute.Int("form_fields", len(fields)))
	slog.DebugContext(ctx, "submitting login form", "fields", len(fields))

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(fields).
		Post(c.Endpoints.Login)
	if err != nil {
		span.SetStatus(codes.Error, "failed to submit login form")
		return false, fmt.Errorf("%w: submit login form: %w", ErrTransport, err)
	}

	ok := strings.Contains(res.String(), successMarker)
	span.SetAttributes(attribute.Bool("authenticated", ok))
	if !ok {
		slog.DebugContext(ctx, "login response did not contain success marker", "status", res.StatusCode())
	}
	return ok, nil
}
