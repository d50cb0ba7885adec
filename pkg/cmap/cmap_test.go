package cmap

import (
	"slices"
	"strconv"
	"sync"
	"testing"
)

func TestConcurrentMap_SetGetPop(t *testing.T) {
	m := New[int]()

	m.Set("a", 1)

	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v ok=%v", v, ok)
	}

	if m.SetIfAbsent("a", 2) {
		t.Fatalf("expected SetIfAbsent to keep the existing value")
	}

	if !m.SetIfAbsent("b", 2) {
		t.Fatalf("expected SetIfAbsent to insert b")
	}

	if m.Count() != 2 {
		t.Fatalf("expected 2 items, got %d", m.Count())
	}

	v, ok := m.Pop("a")
	if !ok || v != 1 {
		t.Fatalf("expected to pop a=1, got %v ok=%v", v, ok)
	}

	if m.Has("a") {
		t.Fatalf("expected a to be removed")
	}

	m.Clear()

	if m.Count() != 0 {
		t.Fatalf("expected empty map after Clear, got %d", m.Count())
	}
}

func TestConcurrentMap_UpsertConcurrent(t *testing.T) {
	m := New[[]int]()

	var wg sync.WaitGroup

	for i := range 100 {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			m.Upsert("series", func(_ bool, existing []int) []int {
				return append(existing, i)
			})
		}(i)
	}

	wg.Wait()

	got, _ := m.Get("series")
	if len(got) != 100 {
		t.Fatalf("expected 100 appended values, got %d", len(got))
	}
}

func TestConcurrentMap_Keys(t *testing.T) {
	m := New[struct{}]()

	want := make([]string, 0, 50)
	for i := range 50 {
		key := "k" + strconv.Itoa(i)
		want = append(want, key)
		m.Set(key, struct{}{})
	}

	got := m.Keys()
	slices.Sort(got)
	slices.Sort(want)

	if !slices.Equal(got, want) {
		t.Fatalf("keys mismatch: got %v", got)
	}
}
