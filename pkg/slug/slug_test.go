// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidora/pkg/slug"
)

/*
TestFrom verifies the slug transformation pipeline.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple_title", "My Summer Vlog", "my-summer-vlog"},
		{"accented_characters", "Café à Paris", "cafe-a-paris"},
		{"special_characters", "Top 10!! (2026 edition)", "top-10-2026-edition"},
		{"multiple_spaces", "so   many    spaces", "so-many-spaces"},
		{"leading_trailing_junk", "  --hello--  ", "hello"},
		{"numbers_preserved", "Episode 42", "episode-42"},
		{"empty_string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
