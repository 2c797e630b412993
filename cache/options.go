package cache

import "time"

// Option configures a ContentCache or VersionCache.
type Option func(*options)

type options struct {
	now       func() time.Time
	extension string
	validate  Validator
}

func applyOptions(opts []Option) options {
	o := options{
		now:       time.Now,
		extension: ".js",
		validate:  NonEmpty,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithExtension sets the file extension of version files.
func WithExtension(ext string) Option {
	return func(o *options) {
		o.extension = ext
	}
}

// WithValidator sets the check a downloaded version must pass before it
// is written.
func WithValidator(v Validator) Option {
	return func(o *options) {
		if v != nil {
			o.validate = v
		}
	}
}
