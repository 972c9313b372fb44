package content

import (
	"reflect"
	"sort"
	"testing"
)

func TestMoveWithinListPreservesElements(t *testing.T) {
	list := []string{"a", "b", "c", "d", "e"}
	for from := range list {
		for to := range list {
			got := MoveWithinList(list, from, to)
			if len(got) != len(list) {
				t.Fatalf("move %d->%d changed length: %v", from, to, got)
			}
			a := append([]string(nil), got...)
			b := append([]string(nil), list...)
			sort.Strings(a)
			sort.Strings(b)
			if !reflect.DeepEqual(a, b) {
				t.Fatalf("move %d->%d changed elements: %v", from, to, got)
			}
			if got[to] != list[from] {
				t.Fatalf("move %d->%d: element landed at wrong index: %v", from, to, got)
			}
		}
	}
	if !reflect.DeepEqual(list, []string{"a", "b", "c", "d", "e"}) {
		t.Fatalf("input mutated: %v", list)
	}
}

func TestMoveWithinListSameIndexIsIdentity(t *testing.T) {
	list := []int{1, 2, 3}
	for i := range list {
		if got := MoveWithinList(list, i, i); !reflect.DeepEqual(got, list) {
			t.Fatalf("MoveWithinList(%d,%d) = %v", i, i, got)
		}
	}
}

func TestMoveWithinListSpliceSemantics(t *testing.T) {
	cases := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"b", "c", "a"}},
		{2, 0, []string{"c", "a", "b"}},
		{0, 1, []string{"b", "a", "c"}},
		{1, 2, []string{"a", "c", "b"}},
	}
	for _, tc := range cases {
		got := MoveWithinList([]string{"a", "b", "c"}, tc.from, tc.to)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("move %d->%d = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestMoveWithinListOutOfRangeIsNoop(t *testing.T) {
	list := []string{"a", "b"}
	for _, idx := range [][2]int{{-1, 0}, {0, 2}, {2, 0}, {0, -1}} {
		if got := MoveWithinList(list, idx[0], idx[1]); !reflect.DeepEqual(got, list) {
			t.Fatalf("out of range move %v changed list: %v", idx, got)
		}
	}
	if got := MoveWithinList([]string{}, 0, 0); len(got) != 0 {
		t.Fatalf("empty list move = %v", got)
	}
}
