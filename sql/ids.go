// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sql

const (
	idLetters = 26
	idLength  = 4

	// IDSpace is the number of unique ids a generator can issue.
	IDSpace = idLetters * idLetters * idLetters * idLetters

	// DefaultIDPrefix is prepended to every generated id.
	DefaultIDPrefix = "_"
)

// IDGenerator issues the synthetic names used to alias projected items and
// subqueries. Ids are issued in order, "aaaa" first and "zzzz" last, so two
// generators with the same prefix produce the same sequence.
type IDGenerator struct {
	prefix string
	cursor int
}

// NewIDGenerator creates a generator whose ids start with the given prefix.
func NewIDGenerator(prefix string) *IDGenerator {
	return &IDGenerator{prefix: prefix}
}

// Next returns the next unused id. Once IDSpace ids have been issued every
// call fails with ErrIDSpaceExhausted.
func (g *IDGenerator) Next() (string, error) {
	if g.cursor >= IDSpace {
		return "", ErrIDSpaceExhausted.New(IDSpace)
	}

	var buf [idLength]byte
	n := g.cursor
	for i := idLength - 1; i >= 0; i-- {
		buf[i] = byte('a' + n%idLetters)
		n /= idLetters
	}
	g.cursor++

	return g.prefix + string(buf[:]), nil
}

// Issued returns how many ids have been handed out.
func (g *IDGenerator) Issued() int { return g.cursor }

// Prefix returns the prefix of the generated ids.
func (g *IDGenerator) Prefix() string { return g.prefix }
