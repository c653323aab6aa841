// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import "github.com/sirupsen/logrus"

type release struct {
	name string
	fn   func()
}

// releaseStack records a release action for every created resource and
// runs them last-in first-out.
type releaseStack struct {
	log     logrus.FieldLogger
	entries []release
}

func (s *releaseStack) push(name string, fn func()) {
	s.entries = append(s.entries, release{name: name, fn: fn})
}

// unwind releases everything pushed so far. Safe to call more than once.
func (s *releaseStack) unwind() {
	for len(s.entries) > 0 {
		last := s.entries[len(s.entries)-1]
		s.entries = s.entries[:len(s.entries)-1]
		s.log.WithField("resource", last.name).Debug("releasing")
		last.fn()
	}
}
