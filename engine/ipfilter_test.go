package engine

import "testing"

func TestIPSet_WithAndWithout(t *testing.T) {
	var s *ipSet
	if s.has("1.1.1.1") {
		t.Error("a nil ipSet must report no membership")
	}

	s = s.with("1.1.1.1")
	if !s.has("1.1.1.1") {
		t.Error("with should add the IP")
	}

	s2 := s.with("2.2.2.2")
	if s2 == s {
		t.Error("with must return a new set, not mutate in place")
	}
	if s.has("2.2.2.2") {
		t.Error("the original set must be unaffected by a later with call")
	}

	s3 := s2.without("1.1.1.1")
	if s3.has("1.1.1.1") {
		t.Error("without should remove the IP")
	}
	if !s3.has("2.2.2.2") {
		t.Error("without should leave other members intact")
	}

	s4 := s3.without("not-present")
	if s4 != s3 {
		t.Error("without should return the same set when the IP isn't a member")
	}
}

func TestEngine_AddRemoveWhitelistBlacklist(t *testing.T) {
	e := New(0)

	e.AddToWhitelist("1.1.1.1")
	if !e.IsWhitelisted("1.1.1.1") {
		t.Fatal("expected 1.1.1.1 to be whitelisted")
	}
	e.RemoveFromWhitelist("1.1.1.1")
	if e.IsWhitelisted("1.1.1.1") {
		t.Fatal("expected 1.1.1.1 to no longer be whitelisted")
	}

	e.AddToBlacklist("2.2.2.2")
	if !e.IsBlacklisted("2.2.2.2") {
		t.Fatal("expected 2.2.2.2 to be blacklisted")
	}
	e.RemoveFromBlacklist("2.2.2.2")
	if e.IsBlacklisted("2.2.2.2") {
		t.Fatal("expected 2.2.2.2 to no longer be blacklisted")
	}
}
