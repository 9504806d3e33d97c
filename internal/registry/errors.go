package registry

import (
	"fmt"
	"strings"

	"github.com/conn-castle/rancher-client/internal/compose"
	"github.com/conn-castle/rancher-client/internal/messages"
)

// AuthError reports a missing, rejected, or unobtainable registry token.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(messages.RegistryAuthErrFmt, e.Err.Error())
	}
	return fmt.Sprintf(messages.RegistryAuthErrFmt, e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// MissingImagesError lists the image references whose tag the registry does not know.
type MissingImagesError struct {
	Images []compose.Image
}

func (e *MissingImagesError) Error() string {
	refs := make([]string, 0, len(e.Images))
	for _, img := range e.Images {
		refs = append(refs, img.Repository+":"+img.TagOrDefault())
	}
	return fmt.Sprintf(messages.RegistryMissingImagesFmt, strings.Join(refs, ", "))
}
