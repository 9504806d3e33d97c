package compose

import (
	"fmt"

	"github.com/docker/distribution/reference"
)

// DefaultTag is the tag implied by an image reference without one.
const DefaultTag = "latest"

// Image is a parsed image reference of the form repository[:tag][@digest].
type Image struct {
	// Repository is the name without tag or digest, exactly as written
	// (for example "repo/svc" or "registry.local:5000/app").
	Repository string
	// Tag is the explicit tag, or empty when the reference has none.
	Tag    string
	Digest string
}

// ParseImage parses an image reference without normalizing its name.
func ParseImage(s string) (Image, error) {
	ref, err := reference.Parse(s)
	if err != nil {
		return Image{}, err
	}
	named, ok := ref.(reference.Named)
	if !ok {
		return Image{}, fmt.Errorf("reference %q has no repository name", s)
	}
	img := Image{Repository: named.Name()}
	if tagged, ok := ref.(reference.Tagged); ok {
		img.Tag = tagged.Tag()
	}
	if digested, ok := ref.(reference.Digested); ok {
		img.Digest = digested.Digest().String()
	}
	return img, nil
}

// splitImage is the lenient reading used for values the reference grammar
// rejects, such as compose interpolations like "${REGISTRY}/app:old". The tag
// is whatever follows the first ':' after the last '/', ignoring separators
// inside ${...}.
func splitImage(s string) Image {
	colon, at, depth := -1, -1, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				colon, at = -1, -1
			}
		case ':':
			if depth == 0 && colon < 0 && at < 0 {
				colon = i
			}
		case '@':
			if depth == 0 && at < 0 {
				at = i
			}
		}
	}

	img := Image{Repository: s}
	if at >= 0 {
		img.Repository, img.Digest = s[:at], s[at+1:]
	}
	if colon >= 0 {
		name := img.Repository
		img.Repository, img.Tag = name[:colon], name[colon+1:]
	}
	return img
}

// ValidTag reports whether tag is a well-formed image tag.
func ValidTag(tag string) bool {
	return tag != "" && reference.TagRegexp.FindString(tag) == tag
}

// HasTag reports whether the reference carries an explicit tag.
func (i Image) HasTag() bool {
	return i.Tag != ""
}

// TagOrDefault returns the tag, or DefaultTag when none is set.
func (i Image) TagOrDefault() string {
	if i.Tag == "" {
		return DefaultTag
	}
	return i.Tag
}

// WithTag returns the image pointing at tag. Any digest is dropped since it
// would pin the old content.
func (i Image) WithTag(tag string) (Image, error) {
	named, err := reference.WithName(i.Repository)
	if err != nil {
		return Image{}, err
	}
	tagged, err := reference.WithTag(named, tag)
	if err != nil {
		return Image{}, err
	}
	return Image{Repository: tagged.Name(), Tag: tagged.Tag()}, nil
}

// Path returns the repository path used by registry APIs: the domain is
// dropped and official images gain the "library/" namespace.
func (i Image) Path() string {
	normalized, err := reference.ParseNormalizedNamed(i.Repository)
	if err != nil {
		return i.Repository
	}
	return reference.Path(normalized)
}

// String reassembles the reference.
func (i Image) String() string {
	s := i.Repository
	if i.Tag != "" {
		s += ":" + i.Tag
	}
	if i.Digest != "" {
		s += "@" + i.Digest
	}
	return s
}
