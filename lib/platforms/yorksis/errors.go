package yorksis

import "fmt"

var (
	ErrTransport            = fmt.Errorf("request to the portal failed")
	ErrMalformedPage        = fmt.Errorf("malformed page")
	ErrTableNotFound        = fmt.Errorf("%w: could not find table", ErrMalformedPage)
	ErrRowShape             = fmt.Errorf("grade row has fewer than 4 cells")
	ErrAuthenticationFailed = fmt.Errorf("could not authenticate")
)
