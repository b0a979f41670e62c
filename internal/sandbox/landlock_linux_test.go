//go:build linux

package sandbox

import "testing"

func TestFsMaskForABI(t *testing.T) {
	all := accessFSRoughlyAll()

	tests := []struct {
		name      string
		abi       int
		wantRefer bool
		wantTrunc bool
	}{
		{"abi 1 strips refer and truncate", 1, false, false},
		{"abi 2 keeps refer, strips truncate", 2, true, false},
		{"abi 3 keeps both", 3, true, true},
		{"abi 5 keeps both", 5, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := fsMaskForABI(tt.abi)
			if got := mask&accessFSRefer != 0; got != tt.wantRefer {
				t.Errorf("abi %d: refer bit = %v, want %v", tt.abi, got, tt.wantRefer)
			}
			if got := mask&accessFSTruncate != 0; got != tt.wantTrunc {
				t.Errorf("abi %d: truncate bit = %v, want %v", tt.abi, got, tt.wantTrunc)
			}
			// Every other bit from the full mask must survive regardless of ABI.
			if mask|accessFSRefer|accessFSTruncate != all {
				t.Errorf("abi %d: base rights stripped unexpectedly: mask=%#x all=%#x", tt.abi, mask, all)
			}
		})
	}
}

func TestAccessFSRoughlyReadIsSubsetOfAll(t *testing.T) {
	all := accessFSRoughlyAll()
	read := accessFSRoughlyRead()
	if read&^all != 0 {
		t.Errorf("accessFSRoughlyRead() has bits not in accessFSRoughlyAll(): read=%#x all=%#x", read, all)
	}
	if read&accessFSWriteFile != 0 {
		t.Errorf("accessFSRoughlyRead() must not include write rights: %#x", read)
	}
}

func TestProbeLandlockABI(t *testing.T) {
	abi, err := probeLandlockABI()
	if err != nil {
		t.Skipf("landlock unavailable in this environment: %v", err)
	}
	if abi < 1 {
		t.Errorf("probeLandlockABI() = %d, want >= 1", abi)
	}
}

func TestBuildLandlockRulesetRejectsMissingPath(t *testing.T) {
	if _, err := probeLandlockABI(); err != nil {
		t.Skipf("landlock unavailable in this environment: %v", err)
	}
	_, err := buildLandlockRuleset(Policy{Write: []string{"/definitely/does/not/exist/stevelock"}}, false)
	if err == nil {
		t.Fatal("expected error for a nonexistent write directory")
	}
}
