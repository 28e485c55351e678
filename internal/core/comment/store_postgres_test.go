// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestNullableID verifies the viewer parameter binds as NULL when no viewer is
present. Binding "" directly would fail uuid encoding on the driver side.
*/
func TestNullableID(t *testing.T) {
	assert.Nil(t, nullableID(""))

	id := "01923456-789a-7bcd-8ef0-123456789abc"
	bound := nullableID(id)
	require.NotNil(t, bound)
	assert.Equal(t, id, *bound)
}
