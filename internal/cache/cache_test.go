package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)

	if val, ok := c.Get("key1"); !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v, want 42, true", val, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true, want false")
	}

	c.Set("key1", 7)
	if val, _ := c.Get("key1"); val != 7 {
		t.Errorf("Get(key1) after overwrite = %d, want 7", val)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a") // b is now the oldest
	c.Set("d", 4)

	tests := []struct {
		key  string
		want bool
	}{
		{"a", true},
		{"b", false},
		{"c", true},
		{"d", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if _, ok := c.Get(tt.key); ok != tt.want {
				t.Errorf("Get(%q) ok = %v, want %v", tt.key, ok, tt.want)
			}
		})
	}
}

func TestCacheUnlimited(t *testing.T) {
	c := New[int, int](0)
	for i := range 1000 {
		c.Set(i, i)
	}
	if c.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", c.Len())
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	calls := 0
	create := func() (int, error) {
		calls++
		return 100, nil
	}

	for range 2 {
		val, err := c.GetOrCreate("key", create)
		if err != nil || val != 100 {
			t.Fatalf("GetOrCreate() = %d, %v, want 100, nil", val, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Errorf("Stats() = %+v, want 1 hit and 1 miss", s)
	}
}

func TestCacheGetOrCreateError(t *testing.T) {
	c := New[string, int](10)
	errBoom := errors.New("boom")

	if _, err := c.GetOrCreate("key", func() (int, error) { return 0, errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("GetOrCreate() error = %v, want %v", err, errBoom)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after failed create", c.Len())
	}
}

func TestCacheDelete(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)

	if !c.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Error("second Delete(a) = true, want false")
	}
}

func TestCacheDeleteFunc(t *testing.T) {
	c := New[int, int](0)
	for i := range 10 {
		c.Set(i, i)
	}

	if n := c.DeleteFunc(func(k int) bool { return k%2 == 0 }); n != 5 {
		t.Errorf("DeleteFunc() = %d, want 5", n)
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
	if _, ok := c.Get(4); ok {
		t.Error("Get(4) ok = true after DeleteFunc")
	}

	// Eviction must still work on the relinked list.
	c2 := New[int, int](2)
	c2.Set(1, 1)
	c2.Set(2, 2)
	c2.DeleteFunc(func(k int) bool { return k == 2 })
	c2.Set(3, 3)
	c2.Set(4, 4)
	if _, ok := c2.Get(1); ok {
		t.Error("Get(1) ok = true, want evicted")
	}
}

func TestCacheClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	c.Set("c", 3)
	if val, ok := c.Get("c"); !ok || val != 3 {
		t.Errorf("Get(c) = %d, %v, want 3, true", val, ok)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[string, int](50)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := strconv.Itoa((g * i) % 100)
				c.Set(key, i)
				c.Get(key)
			}
		}()
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d, want <= 50", c.Len())
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](1000)
	for i := range 100 {
		c.Set(strconv.Itoa(i), i)
	}

	b.ResetTimer()
	for b.Loop() {
		c.Get("50")
	}
}

func BenchmarkCacheSet(b *testing.B) {
	c := New[string, int](1000)

	b.ResetTimer()
	i := 0
	for b.Loop() {
		c.Set(strconv.Itoa(i%100), i)
		i++
	}
}
