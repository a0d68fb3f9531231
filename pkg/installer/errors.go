package installer

import "errors"

// Error taxonomy surfaced to the extension host. Match with errors.Is;
// the underlying daemon or filesystem error is carried in the message.
var (
	ErrDaemonUnavailable   = errors.New("container daemon unavailable")
	ErrUnsupportedHost     = errors.New("unsupported host operating system")
	ErrNoArchitectureImage = errors.New("no image tag for host architecture")
	ErrNotFound            = errors.New("not found")
	ErrPullFailed          = errors.New("image pull failed")
	ErrCreateFailed        = errors.New("container create failed")
)
