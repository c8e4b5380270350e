package engine

import "testing"

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{
		0:    minBucketCount,
		1:    minBucketCount,
		1023: minBucketCount,
		1024: 1024,
		1025: 2048,
		5000: 8192,
	}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestTable_InsertAndFind(t *testing.T) {
	tbl := newTable(0)
	if !tbl.insert("alpha", 10, 1000, false, 0, 0, "", 0) {
		t.Fatal("insert into an empty table must succeed")
	}

	e := tbl.findEntry("alpha")
	if e == nil {
		t.Fatal("expected to find just-inserted key")
	}
	if e.baseMaxTokens != 10 {
		t.Errorf("want baseMaxTokens 10, got %d", e.baseMaxTokens)
	}

	if tbl.findEntry("missing") != nil {
		t.Error("expected nil for a key that was never inserted")
	}
}

func TestTable_InsertReplacesExistingKeyInPlace(t *testing.T) {
	tbl := newTable(0)
	tbl.insert("k", 10, 1000, false, 0, 0, "", 0)
	first := tbl.findEntry("k")

	tbl.insert("k", 99, 2000, true, 0, 0, "", 5)
	second := tbl.findEntry("k")

	if first != second {
		t.Fatal("re-inserting an existing key should reuse its slot, not allocate a new one")
	}
	if second.baseMaxTokens != 99 || second.refillTimeMs != 2000 || !second.isSlidingWindow {
		t.Errorf("re-insert did not overwrite configuration: %+v", second)
	}
}

func TestTable_InvalidateThenFindReturnsNil(t *testing.T) {
	tbl := newTable(0)
	tbl.insert("k", 10, 1000, false, 0, 0, "", 0)

	if !tbl.invalidate("k") {
		t.Fatal("expected invalidate to find and remove the entry")
	}
	if tbl.findEntry("k") != nil {
		t.Error("findEntry must not return an invalidated entry")
	}
	if tbl.invalidate("k") {
		t.Error("invalidating an already-invalid entry should report false")
	}
}

func TestTable_InsertReusesInvalidSlot(t *testing.T) {
	tbl := newTable(0)
	tbl.insert("k1", 10, 1000, false, 0, 0, "", 0)
	tbl.invalidate("k1")

	before := 0
	for _, s := range tbl.slots {
		if s.valid.Load() {
			before++
		}
	}

	if !tbl.insert("k2", 20, 1000, false, 0, 0, "", 0) {
		t.Fatal("insert should succeed by reusing the invalidated slot")
	}

	after := 0
	for _, s := range tbl.slots {
		if s.valid.Load() {
			after++
		}
	}
	if after != before+1 {
		t.Errorf("expected exactly one more valid slot after reuse, before=%d after=%d", before, after)
	}
}

func TestTable_GrownPreservesAllLiveEntries(t *testing.T) {
	tbl := newTable(0)
	keys := []string{"a", "b", "c", "d", "e"}
	for i, k := range keys {
		tbl.insert(k, int64(i+1), 1000, false, 0, 0, "", 0)
	}
	tbl.invalidate("c")

	grown := tbl.grown()
	if len(grown.slots) != len(tbl.slots)*2 {
		t.Fatalf("want doubled size %d, got %d", len(tbl.slots)*2, len(grown.slots))
	}

	for i, k := range keys {
		e := grown.findEntry(k)
		if k == "c" {
			if e != nil {
				t.Errorf("invalidated key %q should not reappear after growth", k)
			}
			continue
		}
		if e == nil {
			t.Fatalf("live key %q missing after growth", k)
		}
		if e.baseMaxTokens != int64(i+1) {
			t.Errorf("key %q lost its configuration across growth: got %d", k, e.baseMaxTokens)
		}
	}
}

func TestNextIdx_LinearThenJumpStride(t *testing.T) {
	mask := uint64(1023)
	h := uint32(0xABCD0000)

	if got := nextIdx(5, h, 1, mask); got != 6 {
		t.Errorf("probe 1 should step by one, got %d", got)
	}
	if got := nextIdx(5, h, 8, mask); got != 6 {
		t.Errorf("probe 8 should still step by one, got %d", got)
	}
	jump := uint64((h >> 16) | 1)
	if got := nextIdx(5, h, 9, mask); got != (5+jump)&mask {
		t.Errorf("probe 9 should jump by (h>>16)|1 = %d, got %d", jump, got)
	}
}
