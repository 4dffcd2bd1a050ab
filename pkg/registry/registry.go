// Package registry holds the ordered, read-only list of feed sources.
package registry

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Registry errors
var (
	ErrEmptyRegistry   = errors.New("feed registry is empty")
	ErrIndexOutOfRange = errors.New("feed index out of range")
	ErrInvalidName     = errors.New("invalid feed name")
	ErrInvalidURL      = errors.New("invalid feed url")
)

var schemePattern = regexp.MustCompile(`^(https?)://`)

// FeedDescriptor identifies one feed source
type FeedDescriptor struct {
	Name string `yaml:"name" mapstructure:"name"`
	URL  string `yaml:"url" mapstructure:"url"`
	// Token is sent as a bearer token when fetching the feed. Optional.
	Token string `yaml:"token,omitempty" mapstructure:"token"`
}

// ValidationError describes the first invalid descriptor found in a registry
type ValidationError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("feed %d: %s %s", e.Index, e.Field, e.Reason)
}

// Unwrap returns the sentinel error for the failed field
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks a single descriptor.
func Validate(d FeedDescriptor) error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Index: -1, Field: "name", Reason: "is empty", Err: ErrInvalidName}
	}

	if d.URL == "" {
		return &ValidationError{Index: -1, Field: "url", Reason: "is empty", Err: ErrInvalidURL}
	}

	if !schemePattern.MatchString(d.URL) {
		return &ValidationError{Index: -1, Field: "url", Reason: fmt.Sprintf("%q must use http or https", d.URL), Err: ErrInvalidURL}
	}

	u, err := url.Parse(d.URL)
	if err != nil || u.Host == "" {
		return &ValidationError{Index: -1, Field: "url", Reason: fmt.Sprintf("%q has no host", d.URL), Err: ErrInvalidURL}
	}

	return nil
}

// Registry is an immutable, ordered list of feeds indexed from zero
type Registry struct {
	feeds []FeedDescriptor
}

// New validates feeds and returns a registry holding a copy of them
func New(feeds []FeedDescriptor) (*Registry, error) {
	if len(feeds) == 0 {
		return nil, ErrEmptyRegistry
	}

	for i, d := range feeds {
		if err := Validate(d); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Index = i
			}
			return nil, err
		}
	}

	r := &Registry{feeds: make([]FeedDescriptor, len(feeds))}
	copy(r.feeds, feeds)
	return r, nil
}

// Len returns the number of feeds
func (r *Registry) Len() int {
	return len(r.feeds)
}

// Get returns the feed at index
func (r *Registry) Get(index int) (FeedDescriptor, error) {
	if index < 0 || index >= len(r.feeds) {
		return FeedDescriptor{}, fmt.Errorf("%w: %d (have %d feeds)", ErrIndexOutOfRange, index, len(r.feeds))
	}
	return r.feeds[index], nil
}

// All returns a copy of every feed in order
func (r *Registry) All() []FeedDescriptor {
	out := make([]FeedDescriptor, len(r.feeds))
	copy(out, r.feeds)
	return out
}

// Names returns the feed names in order
func (r *Registry) Names() []string {
	return lo.Map(r.feeds, func(d FeedDescriptor, _ int) string {
		return d.Name
	})
}

// Validate re-checks every descriptor in the registry
func (r *Registry) Validate() error {
	if len(r.feeds) == 0 {
		return ErrEmptyRegistry
	}
	for i, d := range r.feeds {
		if err := Validate(d); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Index = i
			}
			return err
		}
	}
	return nil
}
