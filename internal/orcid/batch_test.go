package orcid

import (
	"reflect"
	"testing"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		items []int
		size  int
		want  [][]int
	}{
		{"empty", nil, 50, nil},
		{"smaller than size", []int{1, 2}, 50, [][]int{{1, 2}}},
		{"exact multiple", []int{1, 2, 3, 4}, 2, [][]int{{1, 2}, {3, 4}}},
		{"remainder", []int{1, 2, 3, 4, 5}, 2, [][]int{{1, 2}, {3, 4}, {5}}},
		{"non-positive size", []int{1, 2, 3}, 0, [][]int{{1, 2, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunk(tt.items, tt.size)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("chunk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunk_GroupsDoNotAlias(t *testing.T) {
	groups := chunk([]int{1, 2, 3, 4}, 2)
	groups[0] = append(groups[0], 99)
	if groups[1][0] != 3 {
		t.Errorf("appending to the first group overwrote the second: %v", groups[1])
	}
}
