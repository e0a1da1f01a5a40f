// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tlsf

import "github.com/sirupsen/logrus"

// Option configures a Control at Create time.
type Option func(*Control)

// WithLogger attaches a structured logger a Control uses for its cold
// paths only: pool attach/detach, and the violations Check finds. Nothing
// on the Malloc/Free hot path ever logs.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Control) { c.logger = l }
}
