// Copyright (c) 2026 John Earle
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

// Package resolve applies the reverse lookup table to raw header fields,
// annotating each record with resolved sender and recipient ids.
package resolve

import (
	"github.com/bcem/resolution/internal/identity"
	"github.com/bcem/resolution/internal/models"
	"github.com/bcem/resolution/internal/nameparse"
)

// Resolver resolves header names against an immutable reverse index.
// The index must be fully built before any record is resolved.
type Resolver struct {
	index identity.ReverseIndex
}

// NewResolver creates a resolver over the given reverse index.
func NewResolver(index identity.ReverseIndex) *Resolver {
	return &Resolver{index: index}
}

// lookup canonicalises a match and resolves it. A miss returns nil:
// header fields routinely reference third parties who are not mailbox
// owners, so an unknown name is expected, not an error.
func (r *Resolver) lookup(m nameparse.NameMatch) (*string, error) {
	key, err := nameparse.Canonical(m)
	if err != nil {
		return nil, err
	}
	if id, ok := r.index[key]; ok {
		return &id, nil
	}
	return nil, nil
}

// ResolveSender resolves the first name token in a sender field. A field
// with no token at all yields nil.
func (r *Resolver) ResolveSender(field string) (*string, error) {
	m, ok := nameparse.First(field)
	if !ok {
		return nil, nil
	}
	return r.lookup(m)
}

// ResolveRecipients resolves every name token in a recipient field,
// keeping order. Misses contribute nil entries rather than dropping the
// position, so the result has one entry per parsed token.
func (r *Resolver) ResolveRecipients(field string) ([]*string, error) {
	matches := nameparse.Matches(field)
	if len(matches) == 0 {
		return nil, nil
	}
	out := make([]*string, 0, len(matches))
	for _, m := range matches {
		id, err := r.lookup(m)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// Annotate fills in the record's resolved sender and recipient ids.
func (r *Resolver) Annotate(rec *models.Record) error {
	sender, err := r.ResolveSender(rec.SenderField)
	if err != nil {
		return err
	}
	recipients, err := r.ResolveRecipients(rec.RecipientField)
	if err != nil {
		return err
	}
	rec.ResolvedSenderID = sender
	rec.ResolvedRecipientIDs = recipients
	return nil
}
