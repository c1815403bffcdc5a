// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DocHub Contributors

package docs

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestDocumentURN(t *testing.T) {
	docID := ulid.MustParse("01J000000000000000000000D0")
	assert.Equal(t,
		"urn:dochub:dashboard:01J000000000000000000000D0",
		DocumentURN(TypeDashboard, docID))
	assert.Equal(t,
		"urn:dochub:template:01J000000000000000000000D0",
		DocumentURN(TypeTemplate, docID))
}

func TestRevisionURN(t *testing.T) {
	docID := ulid.MustParse("01J000000000000000000000D0")
	revID := ulid.MustParse("01J000000000000000000000E1")
	assert.Equal(t,
		"urn:dochub:dashboard:01J000000000000000000000D0:rev:01J000000000000000000000E1",
		RevisionURN(TypeDashboard, docID, revID))
}
