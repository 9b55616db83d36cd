package agents

import (
	"errors"
	"fmt"
)

// ErrUpstream indicates the external completion capability failed or
// timed out. The orchestrator recovers from it with a degraded reply;
// it never escapes a Handle() call to the HTTP layer.
var ErrUpstream = errors.New("upstream completion failed")

func wrapUpstream(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
