package yorksis

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

// Logout ends the passport york session, the response itself is ignored.
func (c *Client) Logout(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "yorksis.Logout")
	defer span.End()

	_, err := c.Http.R().
		SetContext(ctx).
		Get(c.Endpoints.Logout)
	if err != nil {
		span.SetStatus(codes.Error, "failed to log out")
		return fmt.Errorf("%w: logout: %w", ErrTransport, err)
	}
	return nil
}
